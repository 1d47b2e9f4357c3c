package utils

import (
	"fmt"
	"strings"
	"time"
)

// DayCount names a day count convention.
type DayCount string

const (
	ACT360  DayCount = "ACT/360"
	ACT365F DayCount = "ACT/365F"
	Thirty  DayCount = "30/360"
	// Business252 counts business days over 252; the caller supplies the day count.
	Business252 DayCount = "BUS/252"
)

// ParseDayCount normalizes a convention string. Empty input means ACT/365F.
func ParseDayCount(s string) (DayCount, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ACT/365F", "ACT/365", "A365F":
		return ACT365F, nil
	case "ACT/360", "A360":
		return ACT360, nil
	case "30/360", "30E/360":
		return Thirty, nil
	case "BUS/252":
		return Business252, nil
	default:
		return "", fmt.Errorf("ParseDayCount: unsupported convention %q", s)
	}
}

// YearFraction computes the year fraction between two dates.
//
// Business252 is not calendar-aware here and falls back to ACT/365F; use
// YearFractionBusiness when a business-day count is available.
func YearFraction(start, end time.Time, convention DayCount) float64 {
	switch convention {
	case ACT360:
		return Days(start, end) / 360.0
	case Thirty:
		// 30E/360: D1 and D2 are capped at 30
		d1 := min(start.Day(), 30)
		d2 := min(end.Day(), 30)
		y1, m1 := start.Year(), int(start.Month())
		y2, m2 := end.Year(), int(end.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
	default:
		return Days(start, end) / 365.0
	}
}

// YearFractionBusiness converts a business-day count to years on a 252-day basis.
func YearFractionBusiness(businessDays int) float64 {
	return float64(businessDays) / 252.0
}
