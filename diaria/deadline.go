package diaria

import (
	"time"
)

// =============================================================================
// DEADLINE VALIDATOR - advance-notice rule (Resolução 27/2025, Art. 10)
// =============================================================================

const (
	// RequiredNoticeDefault is the minimum advance notice in business days.
	RequiredNoticeDefault = 3
	// RequiredNoticeAir applies when the trip involves air travel.
	RequiredNoticeAir = 10

	// noticeCutoffHour: requests filed before 14:00 count the current day;
	// later filings start counting the next day.
	noticeCutoffHour = 14
)

// RequiredBusinessDays returns the minimum advance notice for a transport
// mode.
func RequiredBusinessDays(transport TransportMode) int {
	if transport == Air {
		return RequiredNoticeAir
	}
	return RequiredNoticeDefault
}

// AssessDeadline evaluates whether a departure date leaves enough business
// days of notice, counting inclusively from the cutoff-adjusted request
// moment to the departure day. When the notice is insufficient the
// assessment carries the earliest departure date that would satisfy it.
//
// Pure recomputation: no state survives between calls, and the caller is
// expected to re-run it whenever the departure date, the transport mode, or
// the holiday calendar changes.
func AssessDeadline(now time.Time, departure time.Time, transport TransportMode, calendar *BusinessCalendar) DeadlineAssessment {
	required := RequiredBusinessDays(transport)

	countingStart := StartOfDay(now)
	if now.Hour() >= noticeCutoffHour {
		countingStart = countingStart.AddDate(0, 0, 1)
	}

	available := calendar.CountBusinessDaysInclusive(countingStart, StartOfDay(departure))

	assessment := DeadlineAssessment{
		RequiredBusinessDays:  required,
		BusinessDaysAvailable: available,
		Sufficient:            available >= required,
		CountingStart:         countingStart,
	}
	if !assessment.Sufficient {
		assessment.EarliestAllowed = calendar.EarliestAllowedDate(countingStart, required)
	}
	return assessment
}
