package interval

import (
	"time"
)

// Epoch is the default alignment origin.
var Epoch = time.Unix(0, 0).UTC()

// Window is the half-open time range [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// IsZero reports whether w is the zero window.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// WindowIndex returns k = floor((t - origin) / Duration). It floors towards negative
// infinity, so timestamps before origin land in negative windows. Millisecond aligned
// intervals and origins are computed on the Unix millisecond clock, which does not
// saturate the way time.Duration does past roughly 292 years.
func (i Interval) WindowIndex(t, origin time.Time) int64 {
	if i.onMillisecondClock(origin) {
		return floorDiv(t.UnixMilli()-origin.UnixMilli(), i.Duration.Milliseconds())
	}
	return floorDiv(int64(t.Sub(origin)), int64(i.Duration))
}

// WindowAt returns the k-th window counted from origin.
func (i Interval) WindowAt(k int64, origin time.Time) Window {
	if i.onMillisecondClock(origin) {
		ms := i.Duration.Milliseconds()
		start := time.UnixMilli(origin.UnixMilli() + k*ms).In(origin.Location())
		return Window{Start: start, End: start.Add(i.Duration)}
	}
	start := origin.Add(time.Duration(k) * i.Duration)
	return Window{Start: start, End: start.Add(i.Duration)}
}

func (i Interval) onMillisecondClock(origin time.Time) bool {
	return i.Duration%time.Millisecond == 0 && origin.Nanosecond()%int(time.Millisecond) == 0
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// GetWindow returns the aligned window containing t.
func (i Interval) GetWindow(t, origin time.Time) Window {
	return i.WindowAt(i.WindowIndex(t, origin), origin)
}

// CalculateBucketTime returns the start of the epoch aligned bucket containing t.
func (i Interval) CalculateBucketTime(t time.Time) time.Time {
	return i.GetWindow(t, Epoch).Start
}

// IsInBucket checks if two timestamps fall into the same window measured from origin.
func (i Interval) IsInBucket(t1, t2, origin time.Time) bool {
	return i.WindowIndex(t1, origin) == i.WindowIndex(t2, origin)
}

// WindowsBetween returns how many whole windows lie strictly between the window
// containing from and the window containing to. Adjacent windows give 0.
func (i Interval) WindowsBetween(from, to, origin time.Time) int64 {
	gap := i.WindowIndex(to, origin) - i.WindowIndex(from, origin) - 1
	if gap < 0 {
		return 0
	}
	return gap
}
