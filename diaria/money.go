package diaria

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// UPM RATE TABLE - units per diem by region and category (Resolução 27/2025)
// =============================================================================

var rateTable = map[Region]map[DiemType]decimal.Decimal{
	RegionLocal: {
		WithOvernight:    decimal.NewFromInt(100),
		WithoutOvernight: decimal.NewFromInt(40),
		HalfDay:          decimal.NewFromInt(20),
	},
	RegionOther: {
		WithOvernight:    decimal.NewFromInt(200),
		WithoutOvernight: decimal.NewFromInt(80),
		HalfDay:          decimal.NewFromInt(0),
	},
}

// RateUPM returns the UPM units one diem of the given category is worth in
// the given region.
func RateUPM(region Region, diemType DiemType) decimal.Decimal {
	rates, ok := rateTable[region]
	if !ok {
		rates = rateTable[RegionLocal]
	}
	return rates[diemType]
}

// =============================================================================
// MONETARY CALCULATOR
// =============================================================================

// CalculationInput is everything the monetary calculation depends on.
// DistanceKm is the round-trip distance; it and FuelPrice only matter for
// own-vehicle trips.
type CalculationInput struct {
	Allocation DiemAllocation
	Region     Region
	UnitValue  decimal.Decimal
	Transport  TransportMode
	DistanceKm decimal.Decimal
	FuelPrice  decimal.Decimal
}

// Calculate builds the full monetary breakdown for a request. The result is
// always produced whole; callers replace any previous result rather than
// patching fields.
//
// Displacement reimbursement is (distance / 10) × fuel price and applies to
// own-vehicle trips only. Registration fees are never part of the grand
// total; they are committed separately.
func Calculate(in CalculationInput) CalculationResult {
	ten := decimal.NewFromInt(10)

	category := func(count int, diemType DiemType) CategoryTotal {
		units := RateUPM(in.Region, diemType)
		return CategoryTotal{
			Count:    count,
			UnitsUPM: units,
			Total:    decimal.NewFromInt(int64(count)).Mul(units).Mul(in.UnitValue),
		}
	}

	result := CalculationResult{
		WithOvernight:    category(in.Allocation.WithOvernight, WithOvernight),
		WithoutOvernight: category(in.Allocation.WithoutOvernight, WithoutOvernight),
		HalfDay:          category(in.Allocation.HalfDay, HalfDay),
		UnitValue:        in.UnitValue,
		DistanceKm:       in.DistanceKm,
		FuelPrice:        in.FuelPrice,
	}

	result.TotalDiemValue = result.WithOvernight.Total.
		Add(result.WithoutOvernight.Total).
		Add(result.HalfDay.Total).
		Round(2)

	if in.Transport == OwnVehicle {
		result.TravelReimbursement = in.DistanceKm.Div(ten).Mul(in.FuelPrice).Round(2)
	} else {
		result.TravelReimbursement = decimal.Zero
	}

	result.GrandTotal = result.TotalDiemValue.Add(result.TravelReimbursement)
	return result
}
