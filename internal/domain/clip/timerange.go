package clip

import (
	"fmt"
	"strconv"
	"strings"
)

// Field selects which bound of an interval a time edit targets.
type Field int

// Interval bounds.
const (
	FieldStart Field = iota
	FieldEnd
)

// Interval is a validated [StartTime, EndTime) range in whole seconds.
// INVARIANT: EndTime > StartTime, StartTime >= 0.
type Interval struct {
	StartTime int
	EndTime   int
}

// Duration returns the interval length in seconds.
func (iv Interval) Duration() int {
	return iv.EndTime - iv.StartTime
}

// ProgressPercent returns the interval's share of the source video as a
// percentage. Returns 0 when maxDuration is not positive.
func (iv Interval) ProgressPercent(maxDuration int) float64 {
	if maxDuration <= 0 {
		return 0
	}
	return float64(iv.Duration()) / float64(maxDuration) * 100
}

// SetMinutes applies a minutes-field edit to one bound of the interval,
// preserving that bound's seconds remainder. Malformed or negative input is
// treated as 0. The result is clamped so the interval stays valid: the start
// never reaches the end, and the end never passes maxDuration.
// A maxDuration <= 0 means the source length is unknown and only the lower
// bound on the end is enforced.
// PRE: cur is a valid interval
// POST: returned interval is valid; only the edited bound changes
func SetMinutes(field Field, minutesText string, cur Interval, maxDuration int) Interval {
	mins := parseUnit(minutesText)
	var remainder int
	if field == FieldStart {
		remainder = cur.StartTime % 60
	} else {
		remainder = cur.EndTime % 60
	}
	return applyEdit(field, mins*60+remainder, cur, maxDuration)
}

// SetSeconds applies a seconds-field edit to one bound of the interval,
// preserving that bound's whole minutes. The seconds value is clamped to
// [0, 59] before combination; malformed input is treated as 0.
// PRE: cur is a valid interval
// POST: returned interval is valid; only the edited bound changes
func SetSeconds(field Field, secondsText string, cur Interval, maxDuration int) Interval {
	secs := parseUnit(secondsText)
	if secs > 59 {
		secs = 59
	}
	var minutes int
	if field == FieldStart {
		minutes = cur.StartTime / 60
	} else {
		minutes = cur.EndTime / 60
	}
	return applyEdit(field, minutes*60+secs, cur, maxDuration)
}

// applyEdit clamps a recomputed bound and writes it back to the interval.
// Start is clamped to [0, end-1]; end is clamped to [start+1, maxDuration].
// The unedited bound is never adjusted.
func applyEdit(field Field, total int, cur Interval, maxDuration int) Interval {
	if field == FieldStart {
		if total > cur.EndTime-1 {
			total = cur.EndTime - 1
		}
		if total < 0 {
			total = 0
		}
		cur.StartTime = total
		return cur
	}
	if maxDuration > 0 && total > maxDuration {
		total = maxDuration
	}
	if total < cur.StartTime+1 {
		total = cur.StartTime + 1
	}
	cur.EndTime = total
	return cur
}

// parseUnit parses a time unit typed by the user. Empty, non-numeric, or
// negative input degrades to 0 so the clamp logic always receives a number.
func parseUnit(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FormatTime renders whole seconds as "m:ss".
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
