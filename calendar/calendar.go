package calendar

import "time"

// CalendarID identifies a business-day calendar.
type CalendarID string

const (
	// Weekend treats every Monday to Friday as a business day.
	Weekend CalendarID = "WEEKEND"
	// NYSE is the US equity exchange calendar.
	NYSE CalendarID = "NYSE"
	// TARGET is the euro settlement calendar.
	TARGET CalendarID = "TARGET"
)

// Known reports whether cal is a supported calendar id. The empty id maps to Weekend.
func Known(cal CalendarID) bool {
	switch cal {
	case "", Weekend, NYSE, TARGET:
		return true
	default:
		return false
	}
}

func isHoliday(cal CalendarID, t time.Time) bool {
	switch cal {
	case NYSE:
		return isNYSEHoliday(t)
	case TARGET:
		return isTargetHoliday(t)
	default:
		return false
	}
}

// IsBusinessDay checks weekends and holiday rules.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust applies Modified Following.
func Adjust(cal CalendarID, t time.Time) time.Time {
	origMonth := t.Month()
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !IsBusinessDay(cal, t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// BusinessDaysBetween counts business days in (start, end].
func BusinessDaysBetween(cal CalendarID, start, end time.Time) int {
	n := 0
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(cal, d) {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// holiday rules
// ---------------------------------------------------------------------------

func isNYSEHoliday(t time.Time) bool {
	y, m, d := t.Date()
	wd := t.Weekday()

	switch {
	// New Year's Day, observed Monday when on Sunday.
	case m == time.January && (d == 1 || (d == 2 && wd == time.Monday)):
		return true
	// Martin Luther King Jr. Day, third Monday of January.
	case m == time.January && wd == time.Monday && d >= 15 && d <= 21:
		return true
	// Washington's Birthday, third Monday of February.
	case m == time.February && wd == time.Monday && d >= 15 && d <= 21:
		return true
	// Memorial Day, last Monday of May.
	case m == time.May && wd == time.Monday && d >= 25:
		return true
	// Juneteenth, from 2022.
	case y >= 2022 && m == time.June && observedOn(t, 19):
		return true
	case m == time.July && observedOn(t, 4):
		return true
	// Labor Day, first Monday of September.
	case m == time.September && wd == time.Monday && d <= 7:
		return true
	// Thanksgiving, fourth Thursday of November.
	case m == time.November && wd == time.Thursday && d >= 22 && d <= 28:
		return true
	case m == time.December && observedOn(t, 25):
		return true
	}

	// Good Friday.
	easter := easterSunday(y)
	return sameDay(t, easter.AddDate(0, 0, -2))
}

func isTargetHoliday(t time.Time) bool {
	y, m, d := t.Date()
	switch {
	case m == time.January && d == 1:
		return true
	case m == time.May && d == 1:
		return true
	case m == time.December && (d == 25 || d == 26):
		return true
	}
	easter := easterSunday(y)
	return sameDay(t, easter.AddDate(0, 0, -2)) || sameDay(t, easter.AddDate(0, 0, 1))
}

// observedOn reports whether t is the observed date of a fixed holiday on
// day of t's month: Friday before when it falls on Saturday, Monday after on Sunday.
func observedOn(t time.Time, day int) bool {
	d := t.Day()
	switch t.Weekday() {
	case time.Friday:
		return d == day || d == day-1
	case time.Monday:
		return d == day || d == day+1
	default:
		return d == day
	}
}

// easterSunday uses the anonymous Gregorian algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}
