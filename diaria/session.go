package diaria

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// FORM SESSION - one request-in-progress, reduced through a single entry point
// =============================================================================

// Session holds the state of one allowance request being drafted. All
// derived values (allocation, monetary result, deadline assessment) flow
// from a single recalculation entry point, in that fixed order, after every
// relevant change; handlers never patch derived fields directly.
//
// The session belongs to exactly one logical actor. The only concurrent
// element is the authoritative calculation arriving from the remote
// collaborator, which is serialized through a request sequence so a stale
// slow response can never overwrite a newer one.
type Session struct {
	id       string
	calendar *BusinessCalendar
	capitals *CapitalSet
	now      func() time.Time

	state State

	issuedSeq  uint64
	appliedSeq uint64
	auth       *CalculationResult
}

// State is the full snapshot of a form session: the requester's inputs plus
// everything derived from them. Snapshots are values; mutating one has no
// effect on the session.
type State struct {
	Dates         TripDates
	Destination   string
	Transport     TransportMode
	Choice        DiemChoice
	AdvanceTravel bool

	Region     Region
	Allocation DiemAllocation
	Result     CalculationResult
	Deadline   DeadlineAssessment

	// DateRangeInvalid flags return-before-departure; calculation is
	// skipped while it holds.
	DateRangeInvalid bool
}

// SessionConfig carries the read-only collaborator data a session needs:
// the holiday calendar, the capital list, and the configured unit value.
type SessionConfig struct {
	Calendar  *BusinessCalendar
	Capitals  *CapitalSet
	UnitValue decimal.Decimal
	Now       func() time.Time
}

// NewSession starts an empty form session.
func NewSession(cfg SessionConfig) *Session {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{
		id:       uuid.NewString(),
		calendar: cfg.Calendar,
		capitals: cfg.Capitals,
		now:      now,
	}
	s.state.Region = RegionLocal
	s.state.Choice = Decided(WithOvernight)
	s.state.Result.UnitValue = cfg.UnitValue
	return s
}

// ID returns the session's correlation id, useful for tying remote
// calculation requests and log lines back to one draft.
func (s *Session) ID() string { return s.id }

// Snapshot returns the current state.
func (s *Session) Snapshot() State { return s.state }

// Ready reports whether enough input is present for a calculation: both
// dates, a valid range, and a destination. Anything less is the quiescent
// "not yet ready" condition, not an error.
func (s *Session) Ready() bool {
	return s.state.Dates.Valid() && s.state.Destination != ""
}

// =============================================================================
// INPUT REDUCERS - each applies one change, then recalculates everything
// =============================================================================

// SetDates updates the trip dates. An inverted range is flagged and leaves
// the previous calculation untouched.
func (s *Session) SetDates(departure, ret time.Time) State {
	s.state.Dates = TripDates{Departure: departure, Return: ret}
	s.state.DateRangeInvalid = !s.state.Dates.Valid() && !departure.IsZero() && !ret.IsZero()

	// A trip collapsing to one day invalidates an overnight choice.
	if t, ok := s.state.Choice.Type(); ok {
		s.state.Choice = NormalizeChoice(s.state.Dates.NumberOfDiems(), t)
	}
	return s.recalculate()
}

// SetDestination updates the destination and re-classifies the region from
// the structured components (or the raw text when none are available).
func (s *Session) SetDestination(destination string, components []AddressComponent) State {
	s.state.Destination = destination
	s.state.Region = ClassifyRegion(destination, components, s.capitals)
	return s.recalculate()
}

// SetTransport updates the transport mode.
func (s *Session) SetTransport(mode TransportMode) State {
	s.state.Transport = mode
	return s.recalculate()
}

// SetDiemType updates the allowance category choice.
func (s *Session) SetDiemType(t DiemType) State {
	s.state.Choice = NormalizeChoice(s.state.Dates.NumberOfDiems(), t)
	return s.recalculate()
}

// ResolveSingleDay settles a pending one-day choice. Only HalfDay and
// WithoutOvernight are accepted; anything else leaves the choice pending.
func (s *Session) ResolveSingleDay(t DiemType) State {
	if t == HalfDay || t == WithoutOvernight {
		s.state.Choice = Decided(t)
	}
	return s.recalculate()
}

// SetAdvanceTravel toggles the advance-travel flag.
func (s *Session) SetAdvanceTravel(requested bool) State {
	s.state.AdvanceTravel = requested
	return s.recalculate()
}

// =============================================================================
// AUTHORITATIVE RESULT RECONCILIATION (last completed response wins)
// =============================================================================

// BeginRemoteCalculation issues a sequence number for an outgoing
// authoritative-calculation call. Responses are applied in issue order:
// whichever completed response carries the highest sequence wins, and
// anything older is discarded on arrival.
func (s *Session) BeginRemoteCalculation() uint64 {
	s.issuedSeq++
	return s.issuedSeq
}

// ApplyAuthoritative reconciles a completed remote calculation. Returns
// false (and changes nothing) when a newer response has already been
// applied. A failed remote call is simply never applied; the local preview
// stands.
func (s *Session) ApplyAuthoritative(seq uint64, result CalculationResult) bool {
	if seq <= s.appliedSeq {
		return false
	}
	s.appliedSeq = seq
	s.auth = &result
	s.recalculate()
	return true
}

// =============================================================================
// RECALCULATION - the single derived-state entry point
// =============================================================================

// recalculate rebuilds allocation, monetary result, and deadline assessment,
// in that order. The monetary result is replaced wholesale every time.
func (s *Session) recalculate() State {
	st := &s.state

	st.Allocation = Distribute(st.Dates.NumberOfDiems(), st.Choice, st.AdvanceTravel)

	unitValue := st.Result.UnitValue
	distance := decimal.Zero
	fuel := decimal.Zero
	if s.auth != nil {
		if s.auth.UnitValue.IsPositive() {
			unitValue = s.auth.UnitValue
		}
		distance = s.auth.DistanceKm
		fuel = s.auth.FuelPrice
	}

	st.Result = Calculate(CalculationInput{
		Allocation: st.Allocation,
		Region:     st.Region,
		UnitValue:  unitValue,
		Transport:  st.Transport,
		DistanceKm: distance,
		FuelPrice:  fuel,
	})

	// The remote total is authoritative when present; the local figure is
	// only the pre-response preview.
	if s.auth != nil && s.auth.TotalDiemValue.IsPositive() {
		st.Result.TotalDiemValue = s.auth.TotalDiemValue
		st.Result.GrandTotal = st.Result.TotalDiemValue.Add(st.Result.TravelReimbursement)
	}

	if !st.Dates.Departure.IsZero() && !st.DateRangeInvalid {
		st.Deadline = AssessDeadline(s.now(), st.Dates.Departure, st.Transport, s.calendar)
	} else {
		st.Deadline = DeadlineAssessment{Sufficient: true}
	}

	return *st
}
