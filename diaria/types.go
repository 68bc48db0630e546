/*
Package diaria implements the travel-allowance calculation engine.

PURPOSE:
  This package contains the business rules for municipal travel-allowance
  ("diária") requests: how many allowance units a trip earns, what they are
  worth, whether the destination is priced as local or not, and whether the
  request was filed with enough advance notice.

KEY CONCEPTS IN THIS FILE (types.go):
  - TripDates: departure/return pair with the derived diem count
  - DiemType / DiemChoice: the three allowance categories, plus the explicit
    "single-day choice pending" state
  - Region: two-tier destination pricing classification
  - DiemAllocation: how the trip days split across the three categories
  - CalculationResult: the full monetary breakdown, rebuilt wholesale on
    every recalculation (never patched field by field)
  - DeadlineAssessment: advance-notice evaluation result

DESIGN PRINCIPLES:
  1. Pure values: every type here is plain data owned by one form session
  2. Precision: uses decimal.Decimal for everything monetary
  3. Whole-result replacement: derived structs are recomputed, not mutated

SEE ALSO:
  - calendar.go:     business-day evaluation over a holiday set
  - distribution.go: day-count allocation rules
  - money.go:        UPM rate table and monetary calculation
  - region.go:       destination classification
  - deadline.go:     advance-notice validation
  - session.go:      the form session tying the pieces together
*/
package diaria

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENUMERATIONS
// =============================================================================

// DiemType is the allowance category a trip day is paid under.
type DiemType string

const (
	WithOvernight    DiemType = "COM_PERNOITE"
	WithoutOvernight DiemType = "SEM_PERNOITE"
	HalfDay          DiemType = "MEIA_DIARIA"
)

// Region is the destination pricing tier. It is inferred from the
// destination, never set directly by the requester.
type Region string

const (
	RegionLocal Region = "LOCAL"
	RegionOther Region = "OUTROS"
)

// TransportMode is how the requester travels. Only OwnVehicle earns a
// displacement reimbursement; Air raises the advance-notice requirement.
type TransportMode string

const (
	OwnVehicle      TransportMode = "VEICULO_PROPRIO"
	OfficialVehicle TransportMode = "VEICULO_OFICIAL"
	Air             TransportMode = "AEREO"
	Bus             TransportMode = "ONIBUS"
	OtherTransport  TransportMode = "OUTRO"
)

// =============================================================================
// DIEM CHOICE - Decided type or pending single-day decision
// =============================================================================

// DiemChoice carries the requested category. A one-day trip cannot be paid
// with overnight, so when the trip collapses to a single day while
// WithOvernight is selected the choice becomes pending until the requester
// picks between HalfDay and WithoutOvernight.
type DiemChoice struct {
	kind    DiemType
	pending bool
}

// Decided returns a settled choice for the given category.
func Decided(t DiemType) DiemChoice { return DiemChoice{kind: t} }

// PendingSingleDayChoice marks a one-day trip that still needs the requester
// to pick between half-day and without-overnight.
func PendingSingleDayChoice() DiemChoice { return DiemChoice{pending: true} }

func (c DiemChoice) Pending() bool { return c.pending }

// Type returns the decided category and whether one has been decided.
func (c DiemChoice) Type() (DiemType, bool) {
	if c.pending {
		return "", false
	}
	return c.kind, true
}

// =============================================================================
// TRIP DATES
// =============================================================================

// TripDates is the departure/return pair of a trip. Return must not be
// before departure; Valid reports that check at day granularity is not
// required (the timestamps themselves are compared).
type TripDates struct {
	Departure time.Time
	Return    time.Time
}

func (d TripDates) Valid() bool {
	return !d.Departure.IsZero() && !d.Return.IsZero() && !d.Return.Before(d.Departure)
}

// NumberOfDiems is the inclusive calendar-day span of the trip:
// day difference + 1. Zero when the dates are unset or inverted.
func (d TripDates) NumberOfDiems() int {
	if !d.Valid() {
		return 0
	}
	from := StartOfDay(d.Departure)
	to := StartOfDay(d.Return)
	return int(to.Sub(from).Hours()/24) + 1
}

// StartOfDay truncates a timestamp to midnight, preserving its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// =============================================================================
// ALLOCATION AND MONETARY RESULT
// =============================================================================

// DiemAllocation is the split of trip days across the three categories.
// For a fully decided trip the counts sum to NumberOfDiems.
type DiemAllocation struct {
	WithOvernight    int
	WithoutOvernight int
	HalfDay          int
}

func (a DiemAllocation) Total() int {
	return a.WithOvernight + a.WithoutOvernight + a.HalfDay
}

// CategoryTotal is one row of the per-diem breakdown table.
type CategoryTotal struct {
	Count    int
	UnitsUPM decimal.Decimal
	Total    decimal.Decimal
}

// CalculationResult is the complete monetary preview for a request. It is
// always built whole by Calculate (or by the authoritative calculation
// service) and replaced atomically in the session.
type CalculationResult struct {
	WithOvernight    CategoryTotal
	WithoutOvernight CategoryTotal
	HalfDay          CategoryTotal

	UnitValue      decimal.Decimal // currency per UPM unit
	TotalDiemValue decimal.Decimal

	DistanceKm          decimal.Decimal // round trip
	FuelPrice           decimal.Decimal
	TravelReimbursement decimal.Decimal

	GrandTotal decimal.Decimal
}

// =============================================================================
// DEADLINE ASSESSMENT
// =============================================================================

// DeadlineAssessment is the advance-notice evaluation for a departure date.
// EarliestAllowed is zero when the notice is sufficient or when the bounded
// search gave up.
type DeadlineAssessment struct {
	RequiredBusinessDays  int
	BusinessDaysAvailable int
	Sufficient            bool
	CountingStart         time.Time
	EarliestAllowed       time.Time
}
