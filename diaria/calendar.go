package diaria

import (
	"sort"
	"time"

	"github.com/rickar/cal/v2/br"
)

// =============================================================================
// BUSINESS CALENDAR - weekday/holiday evaluation for deadline counting
// =============================================================================

// dateLayout is the normalized form holidays are keyed by. Lookups ignore
// the time component entirely.
const dateLayout = "2006-01-02"

// earliestDateSearchLimit bounds EarliestAllowedDate. Hitting it means the
// inputs are pathological (an all-holiday year), not a normal outcome.
const earliestDateSearchLimit = 365

// BusinessCalendar answers "is this a working day?" against a fixed holiday
// set. The set is loaded once per form session and is read-only afterwards.
type BusinessCalendar struct {
	holidays map[string]struct{}
}

// NewBusinessCalendar builds a calendar from YYYY-MM-DD holiday strings.
// Malformed and duplicate entries are dropped; lookups never fail because
// of bad input.
func NewBusinessCalendar(holidayDates []string) *BusinessCalendar {
	holidays := make(map[string]struct{}, len(holidayDates))
	for _, raw := range holidayDates {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			continue
		}
		holidays[d.Format(dateLayout)] = struct{}{}
	}
	return &BusinessCalendar{holidays: holidays}
}

// NewBusinessCalendarFromDates builds a calendar from concrete dates.
func NewBusinessCalendarFromDates(dates []time.Time) *BusinessCalendar {
	holidays := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		holidays[d.Format(dateLayout)] = struct{}{}
	}
	return &BusinessCalendar{holidays: holidays}
}

// IsBusinessDay reports whether the date is a weekday that is not a holiday.
func (c *BusinessCalendar) IsBusinessDay(date time.Time) bool {
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if c == nil || c.holidays == nil {
		return true
	}
	_, holiday := c.holidays[date.Format(dateLayout)]
	return !holiday
}

// CountBusinessDaysInclusive counts business days from start to end, both
// inclusive, at day granularity. Returns 0 when end is before start.
func (c *BusinessCalendar) CountBusinessDaysInclusive(start, end time.Time) int {
	cursor := StartOfDay(start)
	last := StartOfDay(end)
	if last.Before(cursor) {
		return 0
	}

	count := 0
	for !cursor.After(last) {
		if c.IsBusinessDay(cursor) {
			count++
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return count
}

// EarliestAllowedDate returns the first date d >= start such that the
// inclusive business-day count from start to d reaches requiredDays.
// A required count of zero returns start itself. Returns the zero time
// if no answer is found within the search bound.
func (c *BusinessCalendar) EarliestAllowedDate(start time.Time, requiredDays int) time.Time {
	cursor := StartOfDay(start)
	if requiredDays <= 0 {
		return cursor
	}

	count := 0
	for i := 0; i < earliestDateSearchLimit; i++ {
		if c.IsBusinessDay(cursor) {
			count++
		}
		if count >= requiredDays {
			return cursor
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return time.Time{}
}

// =============================================================================
// NATIONAL HOLIDAY SEEDING
// =============================================================================

// NationalHolidays returns Brazil's official holidays for a year, observed
// dates, sorted ascending. Used to seed the municipal holiday table, which
// administrators then extend with local holidays and recesses.
func NationalHolidays(year int) []NationalHoliday {
	holidays := make([]NationalHoliday, 0, len(br.Holidays))
	for _, h := range br.Holidays {
		_, observed := h.Calc(year)
		if observed.IsZero() {
			continue
		}
		holidays = append(holidays, NationalHoliday{
			Date: StartOfDay(observed),
			Name: h.Name,
		})
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })
	return holidays
}

// NationalHoliday is a seedable holiday entry.
type NationalHoliday struct {
	Date time.Time
	Name string
}
