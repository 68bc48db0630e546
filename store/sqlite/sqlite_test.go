package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camara-itapoa/diaria-engine/diaria"
	"github.com/camara-itapoa/diaria-engine/store/sqlite"
	"github.com/camara-itapoa/diaria-engine/workflow"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProcess() *workflow.Process {
	return &workflow.Process{
		Status:         workflow.StatusAdminReview,
		RequesterID:    "u1",
		RequesterName:  "Maria Souza",
		RequesterEmail: "maria@camara.sc.gov.br",
		Objective:      "Congresso de gestão pública",
		Destination:    "Florianópolis, SC",
		Region:         diaria.RegionLocal,
		Departure:      time.Date(2025, time.June, 10, 8, 0, 0, 0, time.UTC),
		Return:         time.Date(2025, time.June, 12, 18, 0, 0, 0, time.UTC),
		Transport:      diaria.OwnVehicle,
		VehiclePlate:   "ABC1D23",
		DiemType:       diaria.WithOvernight,

		DistanceKm:          380,
		TotalDiemValue:      decimal.NewFromInt(4800),
		TravelReimbursement: decimal.RequireFromString("228.00"),
		RegistrationFee:     decimal.Zero,
		TotalToCommit:       decimal.RequireFromString("5028.00"),
	}
}

// =============================================================================
// PROCESSES
// =============================================================================

func TestCreateAndGetProcess(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p := sampleProcess()
	id, err := s.CreateProcess(ctx, p)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.GetProcess(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, workflow.StatusAdminReview, got.Status)
	assert.Equal(t, "Maria Souza", got.RequesterName)
	assert.Equal(t, diaria.OwnVehicle, got.Transport)
	assert.Equal(t, int64(380), got.DistanceKm)
	assert.True(t, got.TotalDiemValue.Equal(decimal.NewFromInt(4800)))
	assert.True(t, got.TravelReimbursement.Equal(decimal.RequireFromString("228.00")))
	assert.Equal(t, p.Departure, got.Departure)
}

func TestGetProcess_NotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.GetProcess(context.Background(), 999)
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}

func TestCreateProcess_WritesOpeningHistory(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.CreateProcess(ctx, sampleProcess())
	require.NoError(t, err)

	history, err := s.ListHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, workflow.Status(""), history[0].From)
	assert.Equal(t, workflow.StatusAdminReview, history[0].To)
	assert.Equal(t, "u1", history[0].ActorID)
}

func TestListProcesses_FilterByRequester(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	first := sampleProcess()
	_, err := s.CreateProcess(ctx, first)
	require.NoError(t, err)

	second := sampleProcess()
	second.RequesterID = "u2"
	_, err = s.CreateProcess(ctx, second)
	require.NoError(t, err)

	all, err := s.ListProcesses(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := s.ListProcesses(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "u2", mine[0].RequesterID)
}

func TestUpdateProcessStatus_AppendsHistory(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.CreateProcess(ctx, sampleProcess())
	require.NoError(t, err)

	entry := workflow.HistoryEntry{
		From:       workflow.StatusAdminReview,
		To:         workflow.StatusRequestSignatures,
		ActorID:    "reviewer",
		Note:       "conferido",
		OccurredAt: time.Date(2025, time.June, 3, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.UpdateProcessStatus(ctx, id, entry))

	got, err := s.GetProcess(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusRequestSignatures, got.Status)

	history, err := s.ListHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "conferido", history[1].Note)
	assert.Equal(t, workflow.StatusRequestSignatures, history[1].To)
}

func TestUpdateProcessStatus_MissingProcess(t *testing.T) {
	s := newStore(t)
	err := s.UpdateProcessStatus(context.Background(), 42, workflow.HistoryEntry{
		To: workflow.StatusDenied, OccurredAt: time.Now(),
	})
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestHolidays_SaveListDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	corpus := sqlite.Holiday{Date: time.Date(2025, time.June, 19, 0, 0, 0, 0, time.UTC), Name: "Corpus Christi"}
	require.NoError(t, s.SaveHoliday(ctx, corpus))
	require.NoError(t, s.SaveHoliday(ctx, sqlite.Holiday{
		Date: time.Date(2025, time.April, 21, 0, 0, 0, 0, time.UTC), Name: "Tiradentes",
	}))

	// Saving the same date again renames instead of duplicating.
	corpus.Name = "Corpus Christi (ponto facultativo)"
	require.NoError(t, s.SaveHoliday(ctx, corpus))

	list, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Tiradentes", list[0].Name)
	assert.Equal(t, "Corpus Christi (ponto facultativo)", list[1].Name)

	require.NoError(t, s.DeleteHoliday(ctx, corpus.Date))
	list, err = s.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestHolidayCalendar_FeedsBusinessDayChecks(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveHoliday(ctx, sqlite.Holiday{
		Date: time.Date(2025, time.June, 19, 0, 0, 0, 0, time.UTC), Name: "Corpus Christi",
	}))

	cal, err := s.HolidayCalendar(ctx)
	require.NoError(t, err)
	assert.False(t, cal.IsBusinessDay(time.Date(2025, time.June, 19, 0, 0, 0, 0, time.UTC)))
	assert.True(t, cal.IsBusinessDay(time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC)))
}

// =============================================================================
// PROFILES
// =============================================================================

func TestProfiles_SaveAndReload(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, sqlite.ErrNotFound)

	p := &sqlite.Profile{
		UserID:   "u1",
		Name:     "Maria Souza",
		Email:    "maria@camara.sc.gov.br",
		CPF:      "123.456.789-00",
		Position: "Vereadora",
		Roles:    []workflow.Role{workflow.RoleRequester, workflow.RoleSignature},
	}
	require.NoError(t, s.SaveProfile(ctx, p))

	got, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Vereadora", got.Position)
	assert.ElementsMatch(t,
		[]workflow.Role{workflow.RoleRequester, workflow.RoleSignature}, got.Roles)

	// Re-saving replaces the role set, no leftovers.
	p.Roles = []workflow.Role{workflow.RoleAdmin}
	require.NoError(t, s.SaveProfile(ctx, p))
	got, err = s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []workflow.Role{workflow.RoleAdmin}, got.Roles)
}

// =============================================================================
// PARAMETERS
// =============================================================================

func TestParameters_SingletonRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.GetParameters(ctx)
	assert.ErrorIs(t, err, sqlite.ErrNotFound)

	require.NoError(t, s.SaveParameters(ctx, sqlite.Parameters{
		UnitValue: decimal.RequireFromString("20.00"),
		FuelPrice: decimal.RequireFromString("6.10"),
	}))
	require.NoError(t, s.SaveParameters(ctx, sqlite.Parameters{
		UnitValue: decimal.RequireFromString("21.50"),
		FuelPrice: decimal.RequireFromString("6.30"),
	}))

	got, err := s.GetParameters(ctx)
	require.NoError(t, err)
	assert.True(t, got.UnitValue.Equal(decimal.RequireFromString("21.50")))
	assert.True(t, got.FuelPrice.Equal(decimal.RequireFromString("6.30")))
}

// =============================================================================
// RESET
// =============================================================================

func TestReset_ClearsEverything(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.CreateProcess(ctx, sampleProcess())
	require.NoError(t, err)
	require.NoError(t, s.SaveHoliday(ctx, sqlite.Holiday{
		Date: time.Date(2025, time.June, 19, 0, 0, 0, 0, time.UTC), Name: "Corpus Christi",
	}))

	require.NoError(t, s.Reset(ctx))

	all, err := s.ListProcesses(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
	holidays, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Empty(t, holidays)
}
