/*
handlers_test.go - Tests for API handlers

Tests exercise the full router with an in-memory store and real signed
tokens; only the distance resolver and clock are stubbed.
*/
package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camara-itapoa/diaria-engine/api"
	"github.com/camara-itapoa/diaria-engine/calc"
	"github.com/camara-itapoa/diaria-engine/diaria"
	"github.com/camara-itapoa/diaria-engine/notify"
	"github.com/camara-itapoa/diaria-engine/store/sqlite"
)

const testSecret = "test-secret"

type fixture struct {
	store  *sqlite.Store
	router http.Handler
}

type stubResolver struct{ km int64 }

func (s stubResolver) RoundTripKm(ctx context.Context, destination string) (int64, error) {
	return s.km, nil
}

func testNow() time.Time {
	return time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC) // Monday 10:00
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.SaveParameters(context.Background(), sqlite.Parameters{
		UnitValue: decimal.NewFromInt(20),
		FuelPrice: decimal.RequireFromString("6.00"),
	}))

	capitals := diaria.NewCapitalSet([]string{"sao paulo", "porto alegre"})
	svc := calc.New(store, stubResolver{km: 380}, capitals, testNow)
	mailer := notify.New(notify.Config{}) // disabled
	handler := api.NewHandler(store, svc, mailer, capitals, testNow)
	router := api.NewRouter(handler, api.RouterConfig{
		JWTSecret:      testSecret,
		AllowedOrigins: []string{"*"},
	})

	return &fixture{store: store, router: router}
}

func token(t *testing.T, userID, name string, roles ...string) string {
	t.Helper()
	claims := api.Claims{
		Email: userID + "@camara.sc.gov.br",
		Name:  name,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (f *fixture) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func submitBody() api.SubmitProcessRequest {
	return api.SubmitProcessRequest{
		Objective:    "Congresso de gestão pública",
		Destination:  "Joinville, SC",
		Departure:    "2025-06-10",
		Return:       "2025-06-12",
		Transport:    "VEICULO_PROPRIO",
		VehiclePlate: "ABC1D23",
		DiemType:     "COM_PERNOITE",
	}
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

func TestAuth_MissingToken(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/config", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_BadToken(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/config", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =============================================================================
// CONFIG AND PARAMETERS
// =============================================================================

func TestGetConfig(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/config", token(t, "u1", "Maria"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cfg := decode[api.ConfigDTO](t, rec)
	assert.Equal(t, "20.00", cfg.UnitValue)
	assert.Equal(t, "6.00", cfg.FuelPrice)
	assert.Contains(t, cfg.Capitals, "sao paulo")
}

func TestUpdateParameters_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	body := api.ParametersRequest{UnitValue: "21.50", FuelPrice: "6.30"}

	rec := f.do(t, http.MethodPut, "/api/admin/parametros", token(t, "u1", "Maria"), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/admin/parametros", token(t, "adm1", "Chefe", "adm"), body)
	require.Equal(t, http.StatusOK, rec.Code)

	params, err := f.store.GetParameters(context.Background())
	require.NoError(t, err)
	assert.True(t, params.UnitValue.Equal(decimal.RequireFromString("21.50")))
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestHolidays_CRUD(t *testing.T) {
	f := newFixture(t)
	bearer := token(t, "u1", "Maria")

	rec := f.do(t, http.MethodPost, "/api/feriados", bearer, api.CreateHolidayRequest{
		Date: "2025-06-19", Name: "Corpus Christi",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/feriados", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]api.HolidayDTO](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Corpus Christi", list[0].Name)

	rec = f.do(t, http.MethodDelete, "/api/feriados/2025-06-19", bearer, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/feriados", bearer, nil)
	assert.Empty(t, decode[[]api.HolidayDTO](t, rec))
}

func TestHolidays_SeedDefaults(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/feriados/defaults?year=2025", token(t, "u1", "Maria"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]api.HolidayDTO](t, rec)
	assert.NotEmpty(t, list)
}

// =============================================================================
// PREVIEW
// =============================================================================

func TestCalculatePreview(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/processos/calcular-preview", token(t, "u1", "Maria"),
		api.PreviewRequest{
			Departure:   "2025-06-10",
			Return:      "2025-06-12",
			Destination: "Joinville, SC",
			Transport:   "VEICULO_PROPRIO",
			DiemType:    "COM_PERNOITE",
		})
	require.Equal(t, http.StatusOK, rec.Code)

	preview := decode[api.PreviewResponse](t, rec)
	assert.Equal(t, "LOCAL", preview.Region)
	assert.Equal(t, 3, preview.NumberOfDiems)
	assert.Equal(t, "4800.00", preview.TotalDiemValue)
	assert.Equal(t, int64(380), preview.DistanceKm)
	assert.Equal(t, "228.00", preview.Reimbursement)
	assert.Equal(t, "5028.00", preview.GrandTotal)
	assert.True(t, preview.DeadlineSufficient)
	assert.Equal(t, "R$ 5.028,00", preview.TotalFormatted)
}

func TestCalculatePreview_InvertedDates(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/processos/calcular-preview", token(t, "u1", "Maria"),
		api.PreviewRequest{
			Departure: "2025-06-12", Return: "2025-06-10",
			Destination: "Joinville, SC", Transport: "ONIBUS", DiemType: "COM_PERNOITE",
		})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SUBMISSION
// =============================================================================

func TestSubmitProcess(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria Souza"), submitBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dto := decode[api.ProcessDTO](t, rec)
	assert.Equal(t, "ANALISE_ADMIN", dto.Status)
	assert.Equal(t, "Maria Souza", dto.RequesterName)
	assert.Equal(t, "4800.00", dto.TotalDiemValue)
	assert.Equal(t, "228.00", dto.TravelReimbursement)
	assert.Equal(t, "5028.00", dto.TotalToCommit)
	assert.Equal(t, int64(380), dto.DistanceKm)
}

func TestSubmitProcess_PlateRequiredForOwnVehicle(t *testing.T) {
	f := newFixture(t)
	body := submitBody()
	body.VehiclePlate = ""

	rec := f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitProcess_SingleDayOvernightRejected(t *testing.T) {
	f := newFixture(t)
	body := submitBody()
	body.Return = body.Departure

	rec := f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitProcess_AdvanceTravelNeedsJustification(t *testing.T) {
	f := newFixture(t)
	body := submitBody()
	body.AdvanceTravel = true

	rec := f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body.AdvanceJustification = "evento inicia às 8h"
	rec = f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSubmitProcess_ShortNoticeNeedsJustification(t *testing.T) {
	// GIVEN: departure tomorrow, well inside the 3-business-day window
	f := newFixture(t)
	body := submitBody()
	body.Departure = "2025-06-03"
	body.Return = "2025-06-04"

	rec := f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body.DeadlineJustification = "convocação extraordinária"
	rec = f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSubmitProcess_AirTicketsRaiseNotice(t *testing.T) {
	// Bus trip 8 days out: fine normally, but buying air tickets raises
	// the requirement to 10 business days.
	f := newFixture(t)
	body := submitBody()
	body.Transport = "ONIBUS"
	body.VehiclePlate = ""
	body.AirTickets = true

	rec := f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitProcess_RegistrationFeeInCommitmentOnly(t *testing.T) {
	f := newFixture(t)
	body := submitBody()
	body.RegistrationFeeRequested = true
	body.RegistrationFee = "350.00"

	rec := f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), body)
	require.Equal(t, http.StatusCreated, rec.Code)

	dto := decode[api.ProcessDTO](t, rec)
	assert.Equal(t, "350.00", dto.RegistrationFee)
	// Fee rides in the commitment figure, not in the diem totals.
	assert.Equal(t, "4800.00", dto.TotalDiemValue)
	assert.Equal(t, "5378.00", dto.TotalToCommit)
}

// =============================================================================
// LISTING AND VISIBILITY
// =============================================================================

func TestListProcesses_OwnOnly(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated,
		f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), submitBody()).Code)
	require.Equal(t, http.StatusCreated,
		f.do(t, http.MethodPost, "/api/processos", token(t, "u2", "João"), submitBody()).Code)

	rec := f.do(t, http.MethodGet, "/api/processos", token(t, "u1", "Maria"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.ProcessDTO](t, rec), 1)

	// A reviewer sees everything.
	rec = f.do(t, http.MethodGet, "/api/processos", token(t, "ci1", "Ana", "controle_interno"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.ProcessDTO](t, rec), 2)
}

func TestGetProcess_HiddenFromStrangers(t *testing.T) {
	f := newFixture(t)
	created := decode[api.ProcessDTO](t,
		f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), submitBody()))

	rec := f.do(t, http.MethodGet, "/api/processos/1", token(t, "u2", "João"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/processos/1", token(t, "u1", "Maria"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[api.ProcessDTO](t, rec).ID)
}

// =============================================================================
// WORKFLOW OVER HTTP
// =============================================================================

func TestTransition_FullReviewStep(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated,
		f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), submitBody()).Code)

	reviewer := token(t, "ci1", "Ana", "controle_interno")

	// WHEN: checking actions, the reviewer may approve or deny
	rec := f.do(t, http.MethodGet, "/api/processos/1/acoes", reviewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	actions := decode[api.ActionsDTO](t, rec)
	slugs := make([]string, 0, len(actions.Actions))
	for _, a := range actions.Actions {
		slugs = append(slugs, a.Slug)
	}
	assert.ElementsMatch(t, []string{"AG_ASS_SOL", "INDEFERIDO"}, slugs)

	// AND: the requester has no actions at this stage
	rec = f.do(t, http.MethodGet, "/api/processos/1/acoes", token(t, "u1", "Maria"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[api.ActionsDTO](t, rec).Actions)

	// WHEN: the reviewer advances the process
	rec = f.do(t, http.MethodPost, "/api/processos/1/transicao", reviewer,
		api.TransitionRequest{Target: "AG_ASS_SOL", Note: "conferido"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AG_ASS_SOL", decode[api.ProcessDTO](t, rec).Status)

	// THEN: the audit trail holds both entries
	rec = f.do(t, http.MethodGet, "/api/processos/1/historico", reviewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]api.HistoryEntryDTO](t, rec)
	require.Len(t, history, 2)
	assert.Equal(t, "conferido", history[1].Note)
}

func TestTransition_ForbiddenWithoutRole(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated,
		f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), submitBody()).Code)

	rec := f.do(t, http.MethodPost, "/api/processos/1/transicao", token(t, "u1", "Maria"),
		api.TransitionRequest{Target: "AG_ASS_SOL"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTransition_InvalidTarget(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated,
		f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), submitBody()).Code)

	rec := f.do(t, http.MethodPost, "/api/processos/1/transicao",
		token(t, "ci1", "Ana", "controle_interno"),
		api.TransitionRequest{Target: "ARQUIVADO"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// PROFILE AND ROLES
// =============================================================================

func TestProfile_RoundTrip(t *testing.T) {
	f := newFixture(t)
	bearer := token(t, "u1", "Maria Souza")

	// First access synthesizes from the token.
	rec := f.do(t, http.MethodGet, "/api/profile", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[api.ProfileDTO](t, rec)
	assert.Equal(t, "Maria Souza", profile.Name)
	assert.Empty(t, profile.Roles)

	rec = f.do(t, http.MethodPut, "/api/profile", bearer, api.SaveProfileRequest{
		CPF: "123.456.789-00", Position: "Vereadora", Roles: []string{"solicitante"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/profile", bearer, nil)
	profile = decode[api.ProfileDTO](t, rec)
	assert.Equal(t, "Vereadora", profile.Position)
	assert.Equal(t, []string{"solicitante"}, profile.Roles)
}

func TestProfile_RejectsUnknownRole(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPut, "/api/profile", token(t, "u1", "Maria"),
		api.SaveProfileRequest{Roles: []string{"imperador"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRoles(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/roles", token(t, "u1", "Maria"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	roles := decode[[]api.RoleDTO](t, rec)
	require.Len(t, roles, 6)
	assert.Equal(t, "controle_interno", roles[0].Slug)
}

// =============================================================================
// DOCUMENT
// =============================================================================

func TestGetDocument(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated,
		f.do(t, http.MethodPost, "/api/processos", token(t, "u1", "Maria"), submitBody()).Code)

	rec := f.do(t, http.MethodGet, "/api/processos/1/documento", token(t, "u1", "Maria"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}
