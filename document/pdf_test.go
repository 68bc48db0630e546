package document_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camara-itapoa/diaria-engine/diaria"
	"github.com/camara-itapoa/diaria-engine/document"
	"github.com/camara-itapoa/diaria-engine/workflow"
)

func sampleProcess() *workflow.Process {
	return &workflow.Process{
		ID:             17,
		Status:         workflow.StatusAdminReview,
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
		TotalToCommit:       decimal.RequireFromString("5028.00"),
		CreatedAt:           time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestRender_ProducesValidPDF(t *testing.T) {
	data, err := document.Render(sampleProcess())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// %PDF magic header
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "missing PDF header")
}

func TestRender_RegistrationFeeOnlyWhenRequested(t *testing.T) {
	p := sampleProcess()
	p.RegistrationFeeRequested = true
	p.RegistrationFee = decimal.NewFromInt(350)

	data, err := document.Render(p)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRender_NonOwnVehicleOmitsPlate(t *testing.T) {
	p := sampleProcess()
	p.Transport = diaria.Bus
	p.VehiclePlate = ""
	p.DistanceKm = 0
	p.TravelReimbursement = decimal.Zero

	data, err := document.Render(p)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
