package timerange

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeRange is either a Recent duration ending now or an Absolute pair of
// unix timestamps. Values are immutable; every edit produces a new one.
type TimeRange interface {
	isTimeRange()
}

// Recent is a rolling window of Seconds ending at the resolution instant.
type Recent struct {
	Seconds int64
}

// Absolute is a fixed window between two unix timestamps (seconds).
type Absolute struct {
	Start int64
	End   int64
}

func (Recent) isTimeRange()   {}
func (Absolute) isTimeRange() {}

// Default is the value used whenever no range has been chosen.
var Default TimeRange = Recent{Seconds: 30 * 60}

// RecentPresets are the durations offered by the range picker, in seconds.
var RecentPresets = []int64{
	15 * 60,
	30 * 60,
	60 * 60,

	2 * 60 * 60,
	6 * 60 * 60,
	12 * 60 * 60,

	24 * 60 * 60,
	2 * 24 * 60 * 60,
	3 * 24 * 60 * 60,

	7 * 24 * 60 * 60,
	14 * 24 * 60 * 60,
	28 * 24 * 60 * 60,
}

// InvalidAbsoluteRangeError is returned when an absolute range starts after
// it ends. The model never reorders or clamps the pair.
type InvalidAbsoluteRangeError struct {
	Start int64
	End   int64
}

func (e *InvalidAbsoluteRangeError) Error() string {
	return fmt.Sprintf("invalid absolute time range: start %d is after end %d", e.Start, e.End)
}

// Validate reports an InvalidAbsoluteRangeError for inverted absolute ranges.
func Validate(r TimeRange) error {
	if a, ok := r.(Absolute); ok && a.Start > a.End {
		return &InvalidAbsoluteRangeError{Start: a.Start, End: a.End}
	}
	return nil
}

// Resolve turns r into a concrete [start, end] window relative to now (unix
// seconds). A nil r resolves as Default.
func Resolve(r TimeRange, now int64) (start, end int64, err error) {
	if r == nil {
		r = Default
	}
	switch v := r.(type) {
	case Absolute:
		if err := Validate(v); err != nil {
			return 0, 0, err
		}
		return v.Start, v.End, nil
	case Recent:
		return now - v.Seconds, now, nil
	default:
		return 0, 0, fmt.Errorf("unknown time range %T", r)
	}
}

// ResolveAt resolves r against a wall-clock instant.
func ResolveAt(r TimeRange, now time.Time) (start, end time.Time, err error) {
	s, e, err := Resolve(r, now.Unix())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return time.Unix(s, 0), time.Unix(e, 0), nil
}

// Label renders r for a button face: "Recent 30 min" or
// "01-02 15:04:05 ~ 01-02 16:04:05" in the local zone.
func Label(r TimeRange) string {
	switch v := r.(type) {
	case Recent:
		return "Recent " + FormatSeconds(v.Seconds)
	case Absolute:
		const layout = "01-02 15:04:05"
		return time.Unix(v.Start, 0).Format(layout) + " ~ " + time.Unix(v.End, 0).Format(layout)
	default:
		return "Select time range"
	}
}

// FormatSeconds renders a duration in the largest whole unit that fits:
// 900 → "15 min", 7200 → "2 hour", 604800 → "1 week".
func FormatSeconds(sec int64) string {
	units := []struct {
		size int64
		name string
	}{
		{365 * 24 * 3600, "year"},
		{7 * 24 * 3600, "week"},
		{24 * 3600, "day"},
		{3600, "hour"},
		{60, "min"},
	}
	for _, u := range units {
		if sec >= u.size {
			return fmt.Sprintf("%d %s", sec/u.size, u.name)
		}
	}
	return fmt.Sprintf("%d s", sec)
}

// Parse reads the textual form used by flags and config files:
// "recent:30m" (any time.ParseDuration value, or bare seconds) or
// "<start>..<end>" with unix seconds. An empty string parses as Default.
func Parse(s string) (TimeRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default, nil
	}
	if rest, ok := strings.CutPrefix(s, "recent:"); ok {
		secs, err := parseSeconds(rest)
		if err != nil {
			return nil, fmt.Errorf("parsing recent range %q: %w", s, err)
		}
		if secs <= 0 {
			return nil, fmt.Errorf("parsing recent range %q: duration must be positive", s)
		}
		return Recent{Seconds: secs}, nil
	}
	from, to, ok := strings.Cut(s, "..")
	if !ok {
		return nil, fmt.Errorf("parsing time range %q: want recent:<duration> or <start>..<end>", s)
	}
	start, err := strconv.ParseInt(strings.TrimSpace(from), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing range start: %w", err)
	}
	end, err := strconv.ParseInt(strings.TrimSpace(to), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing range end: %w", err)
	}
	r := Absolute{Start: start, End: end}
	if err := Validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

// String renders r in the form accepted by Parse.
func String(r TimeRange) string {
	switch v := r.(type) {
	case Recent:
		return "recent:" + (time.Duration(v.Seconds) * time.Second).String()
	case Absolute:
		return fmt.Sprintf("%d..%d", v.Start, v.End)
	default:
		return ""
	}
}

func parseSeconds(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return int64(d / time.Second), nil
}
