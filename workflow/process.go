package workflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/camara-itapoa/diaria-engine/diaria"
)

// =============================================================================
// PROCESS - one allowance request and its stored lifecycle
// =============================================================================

// Process is the central record: one allowance request from submission to
// archive. Monetary figures are stored as computed at submission time; the
// workflow never recalculates them.
type Process struct {
	ID     int64
	Status Status

	RequesterID    string
	RequesterName  string
	RequesterEmail string

	// Trip details.
	Objective    string
	Destination  string
	Region       diaria.Region
	Departure    time.Time
	Return       time.Time
	Transport    diaria.TransportMode
	VehiclePlate string
	AirTickets   bool

	DiemType      diaria.DiemType
	AdvanceTravel bool

	// Justifications collected at submission. DeadlineJustification is
	// required when the advance-notice check failed; AdvanceJustification
	// when advance travel is requested.
	AdvanceJustification  string
	DeadlineJustification string

	// Stored monetary outcome.
	RegistrationFeeRequested bool
	DistanceKm               int64
	TotalDiemValue           decimal.Decimal
	TravelReimbursement      decimal.Decimal
	RegistrationFee          decimal.Decimal
	TotalToCommit            decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalToCommitFrom derives the amount the accounting office commits:
// allowances plus displacement plus the registration fee when requested.
// This is the budget-side figure, distinct from the engine's grand total,
// which never includes the fee.
func TotalToCommitFrom(diems, displacement, fee decimal.Decimal, feeRequested bool) decimal.Decimal {
	total := diems.Add(displacement)
	if feeRequested {
		total = total.Add(fee)
	}
	return total
}
