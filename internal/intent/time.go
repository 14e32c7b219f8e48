package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	clockRe = regexp.MustCompile(`(?i)(\d+)\s*(बजे|o'clock|AM|PM)`)
	digitRe = regexp.MustCompile(`\d+`)
)

// ExtractDueTime derives the reminder timestamp from time cues in text.
// Rules apply in priority order and only the first match counts:
//
//  1. "N बजे" / "N o'clock": today at hour N. The hour is taken as spoken,
//     even when it already passed today.
//  2. "कल" / "tomorrow": next calendar day at 09:00.
//  3. "आज" / "today": same day at 19:00.
//  4. otherwise: one hour from now.
//
// Vague time-of-day words (शाम/evening, सुबह/morning, ...) appear in the
// spoken patterns but carry no hour; they fall through to the day rules.
func ExtractDueTime(text string, now time.Time) time.Time {
	if m := clockRe.FindString(text); m != "" {
		if strings.Contains(m, "बजे") || strings.Contains(strings.ToLower(m), "o'clock") {
			hour, err := strconv.Atoi(digitRe.FindString(m))
			if err == nil {
				return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
			}
		}
		// Bare AM/PM with no recognized hour marker: fall through.
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(text, "कल") || strings.Contains(lower, "tomorrow"):
		d := now.AddDate(0, 0, 1)
		return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, now.Location())
	case strings.Contains(text, "आज") || strings.Contains(lower, "today"):
		return time.Date(now.Year(), now.Month(), now.Day(), 19, 0, 0, 0, now.Location())
	default:
		return now.Add(time.Hour)
	}
}
