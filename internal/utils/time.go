package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/lifemap/internal/constants"
)

// Clock answers "what day is it locally". The location is the user's configured
// timezone and now is swappable so windows can be computed at a fixed instant.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a clock reading the system time in the given IANA timezone.
// "Local" or an empty name uses the system's local timezone.
func NewClock(timezone string) (Clock, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return Clock{loc: loc, now: time.Now}, nil
}

// FixedClock returns a clock frozen at t, local to t's location.
func FixedClock(t time.Time) Clock {
	return Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Location returns the clock's timezone.
func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// Now returns the current instant in the clock's timezone.
func (c Clock) Now() time.Time {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	return now().In(c.Location())
}

// Today returns the current local calendar day (YYYY-MM-DD).
func (c Clock) Today() string {
	return FormatLocalDate(c.Now())
}

// IsToday reports whether the date string is the current local day.
func (c Clock) IsToday(day string) bool {
	return day == c.Today()
}

// IsYesterday reports whether the date string is the local day before today.
func (c Clock) IsYesterday(day string) bool {
	return day == c.DaysAgo(1)
}

// DaysAgo returns the local calendar day n days before today.
func (c Clock) DaysAgo(n int) string {
	now := c.Now()
	return FormatLocalDate(noon(now.Year(), now.Month(), now.Day()-n, now.Location()))
}

// StartOfWeek returns the start of the most recent Sunday on or before now.
func (c Clock) StartOfWeek() time.Time {
	return StartOfWeek(c.Now())
}

// StartOfMonth returns the start of the first day of the current month.
func (c Clock) StartOfMonth() time.Time {
	return StartOfMonth(c.Now())
}

// CurrentWeekDates returns the seven days of the current week, Sunday first.
func (c Clock) CurrentWeekDates() [7]string {
	return WeekDates(c.Now())
}

// WeekRange returns the first and last day of the current week.
func (c Clock) WeekRange() (start, end string) {
	dates := c.CurrentWeekDates()
	return dates[0], dates[6]
}

// IsThisWeek reports whether the date string falls within the current week.
func (c Clock) IsThisWeek(day string) bool {
	for _, d := range c.CurrentWeekDates() {
		if d == day {
			return true
		}
	}
	return false
}

// IsThisMonth reports whether the date string falls within the current month.
// Malformed strings are never in the month.
func (c Clock) IsThisMonth(day string) bool {
	d, err := ParseLocalDate(day, c.Location())
	if err != nil {
		return false
	}
	now := c.Now()
	return d.Year() == now.Year() && d.Month() == now.Month()
}

// FormatLocalDate formats t as YYYY-MM-DD using the year, month and day of t's own
// location, never a UTC conversion.
func FormatLocalDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseLocalDate parses a YYYY-MM-DD string as the start of that day in loc.
func ParseLocalDate(day string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	return StartOfDay(t.Year(), t.Month(), t.Day(), loc), nil
}

// StartOfWeek returns the start of the most recent Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	return StartOfDay(t.Year(), t.Month(), t.Day()-int(t.Weekday()), t.Location())
}

// StartOfMonth returns the start of day 1 of t's month.
func StartOfMonth(t time.Time) time.Time {
	return StartOfDay(t.Year(), t.Month(), 1, t.Location())
}

// StartOfDay returns the first instant of the given calendar day in loc.
// Out-of-range days normalize like time.Date. Where a DST change skips
// local midnight, the result is the transition instant, not the previous day.
func StartOfDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	mid := noon(year, month, day, loc)
	t := time.Date(mid.Year(), mid.Month(), mid.Day(), 0, 0, 0, 0, loc)
	if t.Day() == mid.Day() {
		return t
	}
	if _, end := t.ZoneBounds(); !end.IsZero() && end.Day() == mid.Day() && end.Before(mid) {
		return end
	}
	for t.Day() != mid.Day() {
		t = t.Add(time.Minute)
	}
	return t
}

// noon is used for calendar arithmetic; no timezone skips or repeats 12:00.
func noon(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, loc)
}

// WeekDates returns the seven date strings of t's week, starting on Sunday.
func WeekDates(t time.Time) [7]string {
	start := StartOfWeek(t)
	var dates [7]string
	for i := range dates {
		dates[i] = FormatLocalDate(noon(start.Year(), start.Month(), start.Day()+i, start.Location()))
	}
	return dates
}

// DaysBetween returns the number of calendar days from b to a (a - b).
// Both strings are interpreted in UTC so the result is unaffected by DST.
func DaysBetween(a, b string) (int, error) {
	ta, err := time.Parse(constants.DateFormat, a)
	if err != nil {
		return 0, err
	}
	tb, err := time.Parse(constants.DateFormat, b)
	if err != nil {
		return 0, err
	}
	return int(ta.Sub(tb).Hours() / 24), nil
}

// ValidateDate checks if the string is a YYYY-MM-DD calendar day.
func ValidateDate(day string) bool {
	_, err := time.Parse(constants.DateFormat, day)
	return err == nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
