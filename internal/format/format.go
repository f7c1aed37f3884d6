// Package format turns raw catalog values into display strings.
package format

import (
	"fmt"
	"time"

	"github.com/user/tubevibes/internal/model"
)

// ViewCount formats a view count the way video cards show it:
// "999 views", "1.5K views", "2.3M views". Rounding is half-up to one decimal.
func ViewCount(views int64) string {
	switch {
	case views >= 1_000_000:
		return oneDecimal(views, 1_000_000) + "M views"
	case views >= 1_000:
		return oneDecimal(views, 1_000) + "K views"
	default:
		return fmt.Sprintf("%d views", views)
	}
}

// oneDecimal divides n by unit and rounds half-up to one decimal place
// using integer arithmetic only.
func oneDecimal(n, unit int64) string {
	whole := n / unit
	rem := n % unit
	tenths := whole*10 + (rem*10+unit/2)/unit
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}

// UploadDate renders an upload date relative to now ("5 days ago", "1 month ago").
// The difference is the elapsed time rounded up to whole days, with a calendar
// date read as UTC midnight. An upload on now's UTC calendar date reads "today".
// Input that is not an ISO date is returned unchanged.
func UploadDate(iso string, now time.Time) string {
	uploaded, ok := parseDate(iso)
	if !ok {
		return iso
	}
	if truncateDay(uploaded).Equal(truncateDay(now)) {
		return "today"
	}

	days := ElapsedDays(uploaded, now)
	switch {
	case days <= 1:
		return "1 day ago"
	case days < 30:
		return fmt.Sprintf("%d days ago", days)
	case days < 365:
		return plural(days/30, "month") + " ago"
	default:
		return plural(days/365, "year") + " ago"
	}
}

// ElapsedDays returns the absolute time between a and b in days, rounded up.
func ElapsedDays(a, b time.Time) int {
	d := b.Sub(a)
	if d < 0 {
		d = -d
	}
	const day = 24 * time.Hour
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days
}

// Duration formats d as MM:SS, or HH:MM:SS once it reaches an hour.
func Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(model.UploadDateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
