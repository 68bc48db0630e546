// Package calc produces the authoritative calculation the frontend
// reconciles its local preview against: stored UPM and fuel parameters,
// the stored holiday calendar, and the routed round-trip distance.
package calc

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/camara-itapoa/diaria-engine/diaria"
	"github.com/camara-itapoa/diaria-engine/logging"
	"github.com/camara-itapoa/diaria-engine/store/sqlite"
	"github.com/camara-itapoa/diaria-engine/workflow"
)

// DistanceResolver is the routing lookup. Nil-able: a service without one
// simply calculates with zero distance.
type DistanceResolver interface {
	RoundTripKm(ctx context.Context, destination string) (int64, error)
}

// Request carries the calculation inputs as submitted by the caller.
type Request struct {
	Departure     time.Time
	Return        time.Time
	Destination   string
	Components    []diaria.AddressComponent
	Transport     diaria.TransportMode
	DiemType      diaria.DiemType
	AdvanceTravel bool
}

// Result is the authoritative outcome. Degraded is set when the distance
// lookup failed and the figures were produced without displacement; callers
// surface that as a notice, not an error.
type Result struct {
	Region      diaria.Region
	Allocation  diaria.DiemAllocation
	Calculation diaria.CalculationResult
	DistanceKm  int64
	Degraded    bool
	Deadline    diaria.DeadlineAssessment
}

// Service wires the stores and the resolver together.
type Service struct {
	store    *sqlite.Store
	resolver DistanceResolver
	capitals *diaria.CapitalSet
	now      func() time.Time
}

// New builds a Service. resolver may be nil. now may be nil for time.Now.
func New(store *sqlite.Store, resolver DistanceResolver, capitals *diaria.CapitalSet, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, resolver: resolver, capitals: capitals, now: now}
}

// Calculate runs the full authoritative calculation for a request.
func (s *Service) Calculate(ctx context.Context, req Request) (Result, error) {
	params, err := s.store.GetParameters(ctx)
	if err != nil {
		return Result{}, err
	}
	calendar, err := s.store.HolidayCalendar(ctx)
	if err != nil {
		return Result{}, err
	}

	dates := diaria.TripDates{Departure: req.Departure, Return: req.Return}
	region := diaria.ClassifyRegion(req.Destination, req.Components, s.capitals)
	choice := diaria.NormalizeChoice(dates.NumberOfDiems(), req.DiemType)
	allocation := diaria.Distribute(dates.NumberOfDiems(), choice, req.AdvanceTravel)

	out := Result{Region: region, Allocation: allocation}

	distance := decimal.Zero
	if req.Transport == diaria.OwnVehicle && s.resolver != nil {
		km, err := s.resolver.RoundTripKm(ctx, req.Destination)
		if err != nil {
			// Non-fatal: proceed without displacement, flag it.
			logging.Warn("distance lookup failed, calculating without displacement",
				zap.String("destination", req.Destination), zap.Error(err))
			out.Degraded = true
		} else {
			out.DistanceKm = km
			distance = decimal.NewFromInt(km)
		}
	}

	out.Calculation = diaria.Calculate(diaria.CalculationInput{
		Allocation: allocation,
		Region:     region,
		UnitValue:  params.UnitValue,
		Transport:  req.Transport,
		DistanceKm: distance,
		FuelPrice:  params.FuelPrice,
	})
	out.Deadline = diaria.AssessDeadline(s.now(), req.Departure, req.Transport, calendar)

	return out, nil
}

// TotalToCommit derives the budget-side commitment figure for a submission.
func (s *Service) TotalToCommit(r Result, fee decimal.Decimal, feeRequested bool) decimal.Decimal {
	return workflow.TotalToCommitFrom(
		r.Calculation.TotalDiemValue, r.Calculation.TravelReimbursement, fee, feeRequested)
}
