package diaria

// =============================================================================
// PER-DIEM DISTRIBUTION - how trip days split across allowance categories
// =============================================================================

// Distribute allocates a trip's day count across the three allowance
// categories. Pure function of its inputs; callers recompute the whole
// allocation whenever the day count, the choice, or the advance flag change.
//
// Rules (Resolução 27/2025):
//   - no days: nothing to allocate
//   - single day: paid as the chosen category; WithOvernight is not a valid
//     single-day choice and must be resolved by the caller first (the session
//     represents that as PendingSingleDayChoice)
//   - multi-day WithoutOvernight / HalfDay: every day in that category
//   - multi-day WithOvernight: one day is not slept away from home: the
//     arrival-eve when travel is advanced (paid as half-day), otherwise the
//     return day (paid without overnight); the rest earn the overnight rate
func Distribute(numberOfDiems int, choice DiemChoice, advanceTravel bool) DiemAllocation {
	if numberOfDiems <= 0 || choice.Pending() {
		return DiemAllocation{}
	}

	diemType, _ := choice.Type()

	if numberOfDiems == 1 {
		switch diemType {
		case WithoutOvernight:
			return DiemAllocation{WithoutOvernight: 1}
		case HalfDay:
			return DiemAllocation{HalfDay: 1}
		default:
			// WithOvernight on a single day violates the precondition;
			// treat as undecided rather than invent an allocation.
			return DiemAllocation{}
		}
	}

	switch diemType {
	case WithoutOvernight:
		return DiemAllocation{WithoutOvernight: numberOfDiems}
	case HalfDay:
		return DiemAllocation{HalfDay: numberOfDiems}
	case WithOvernight:
		if advanceTravel {
			return DiemAllocation{WithOvernight: numberOfDiems - 1, HalfDay: 1}
		}
		return DiemAllocation{WithOvernight: numberOfDiems - 1, WithoutOvernight: 1}
	}
	return DiemAllocation{}
}

// NormalizeChoice resolves the selected category against the trip length:
// a one-day trip with WithOvernight selected becomes a pending choice; any
// other combination passes through decided.
func NormalizeChoice(numberOfDiems int, diemType DiemType) DiemChoice {
	if numberOfDiems == 1 && diemType == WithOvernight {
		return PendingSingleDayChoice()
	}
	return Decided(diemType)
}
