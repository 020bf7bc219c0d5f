package report

import (
	"fmt"
	"strings"
	"time"
)

// cutoffMinute is the minute-of-day after which today's session is
// considered published. The NGX price list settles around 14:30 Lagos
// time; before 14:40 the previous trading day's list is still the one
// being served, so reports generated earlier are labeled with that day.
// Exactly 14:40:00 counts as after the cutoff.
const cutoffMinute = 14*60 + 40

// lagosLocation is Africa/Lagos (WAT, UTC+1, no DST).
var lagosLocation = mustLoadLocation("Africa/Lagos")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Fallback to a fixed WAT zone if tzdata is unavailable (e.g., minimal container)
		return time.FixedZone("WAT", 1*60*60)
	}
	return loc
}

// EffectiveTradingDate returns the calendar date a report generated at the
// given instant should be labeled with. Rules, applied in order:
// Saturday → Friday; Sunday → Friday; weekday before the publication
// cutoff → previous trading day (Friday when today is Monday); otherwise
// today. Pure function of the instant.
func EffectiveTradingDate(now time.Time) time.Time {
	local := now.In(lagosLocation)

	switch local.Weekday() {
	case time.Saturday:
		return midnight(local.AddDate(0, 0, -1))
	case time.Sunday:
		return midnight(local.AddDate(0, 0, -2))
	}

	hour, min, _ := local.Clock()
	if hour*60+min < cutoffMinute {
		if local.Weekday() == time.Monday {
			return midnight(local.AddDate(0, 0, -3))
		}
		return midnight(local.AddDate(0, 0, -1))
	}

	return midnight(local)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ReportLabel formats a trading date as the uppercase ordinal form used in
// document titles, e.g. "25TH AUG 2025".
func ReportLabel(date time.Time) string {
	return fmt.Sprintf("%d%s %s %d",
		date.Day(),
		ordinalSuffix(date.Day()),
		strings.ToUpper(date.Format("Jan")),
		date.Year(),
	)
}

// FileBasename returns the download basename for a trading date,
// e.g. "DAILY_EQUITY_SUMMARY_2025-08-25".
func FileBasename(date time.Time) string {
	return "DAILY_EQUITY_SUMMARY_" + date.Format("2006-01-02")
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "TH"
	}
	switch day % 10 {
	case 1:
		return "ST"
	case 2:
		return "ND"
	case 3:
		return "RD"
	default:
		return "TH"
	}
}
