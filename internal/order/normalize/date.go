package normalize

import (
	"strings"
	"time"
)

// relative day expressions, matched with diacritics kept ("mãi" is not "mai"),
// mapped to an offset from the reference date
var relativeDays = map[string]int{
	"hôm nay":              0,
	"hom nay":              0,
	"today":                0,
	"hôm qua":              -1,
	"hom qua":              -1,
	"yesterday":            -1,
	"hôm kia":              -2,
	"hom kia":              -2,
	"the day before":       -2,
	"day before yesterday": -2,
	"ngày mai":             1,
	"ngay mai":             1,
	"mai":                  1,
	"tomorrow":             1,
}

var dayFirstLayouts = []string{"2/1/2006", "2-1-2006", "2.1.2006"}

// ParseDate accepts ISO "YYYY-MM-DD" (a longer timestamp is cut to its date),
// day-first "DD/MM/YYYY" and "DD/MM", and relative words such as "hôm qua".
// It returns nil when text is not understood; callers fall back to their default.
func ParseDate(text string, ref time.Time) *time.Time {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}

	if len(s) >= 10 {
		if t, err := time.ParseInLocation("2006-01-02", s[:10], ref.Location()); err == nil {
			return &t
		}
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, s, ref.Location()); err == nil {
			return &t
		}
	}
	if t, err := time.ParseInLocation("2/1", s, ref.Location()); err == nil {
		d := time.Date(ref.Year(), t.Month(), t.Day(), 0, 0, 0, 0, ref.Location())
		return &d
	}

	if offset, ok := relativeDays[Lower(s)]; ok {
		d := AddDays(DateOf(ref), offset)
		return &d
	}
	return nil
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves a date by whole calendar days.
func AddDays(d time.Time, days int) time.Time {
	return d.AddDate(0, 0, days)
}
