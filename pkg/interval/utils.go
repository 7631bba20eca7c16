package interval

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Interval is a named, fixed bar duration.
type Interval struct {
	Name     string
	Duration time.Duration
}

// Supported intervals configuration
var (
	Interval1s  = Interval{Name: "1s", Duration: time.Second}
	Interval5s  = Interval{Name: "5s", Duration: 5 * time.Second}
	Interval15s = Interval{Name: "15s", Duration: 15 * time.Second}
	Interval30s = Interval{Name: "30s", Duration: 30 * time.Second}
	Interval1m  = Interval{Name: "1m", Duration: time.Minute}
	Interval5m  = Interval{Name: "5m", Duration: 5 * time.Minute}
	Interval15m = Interval{Name: "15m", Duration: 15 * time.Minute}
	Interval30m = Interval{Name: "30m", Duration: 30 * time.Minute}
	Interval1h  = Interval{Name: "1h", Duration: time.Hour}
	Interval4h  = Interval{Name: "4h", Duration: 4 * time.Hour}
	Interval1d  = Interval{Name: "1d", Duration: 24 * time.Hour}
	Interval1w  = Interval{Name: "1w", Duration: 7 * 24 * time.Hour}
)

// AllIntervals lists every catalogue interval, shortest first.
var AllIntervals = []Interval{
	Interval1s, Interval5s, Interval15s, Interval30s,
	Interval1m, Interval5m, Interval15m, Interval30m,
	Interval1h, Interval4h, Interval1d, Interval1w,
}

var intervalRegistry = make(map[string]Interval)

func init() {
	for _, interval := range AllIntervals {
		intervalRegistry[interval.Name] = interval
	}
}

// GetInterval returns an interval by catalogue name.
func GetInterval(name string) (Interval, error) {
	interval, exists := intervalRegistry[name]
	if !exists {
		return Interval{}, fmt.Errorf("unsupported interval: %s", name)
	}
	return interval, nil
}

// IsValidInterval checks if interval name is in the catalogue.
func IsValidInterval(name string) bool {
	_, exists := intervalRegistry[name]
	return exists
}

// GetAllIntervalNames returns all catalogue names, shortest interval first.
func GetAllIntervalNames() []string {
	names := make([]string, 0, len(AllIntervals))
	for _, interval := range AllIntervals {
		names = append(names, interval.Name)
	}
	return names
}

// Parse resolves s either as a catalogue name ("5m", "1d") or as a Go duration string
// ("90s", "2h30m"). The resulting duration must be positive.
func Parse(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	if interval, ok := intervalRegistry[s]; ok {
		return interval, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval %q, supported: %v or a duration string", s, GetAllIntervalNames())
	}
	if d <= 0 {
		return Interval{}, fmt.Errorf("interval %q must be positive", s)
	}
	return FromDuration(d), nil
}

// FromDuration returns the catalogue interval for d, or an unnamed-in-catalogue interval
// whose name is d's Go duration string.
func FromDuration(d time.Duration) Interval {
	idx := sort.Search(len(AllIntervals), func(i int) bool {
		return AllIntervals[i].Duration >= d
	})
	if idx < len(AllIntervals) && AllIntervals[idx].Duration == d {
		return AllIntervals[idx]
	}
	return Interval{Name: d.String(), Duration: d}
}

// String implements fmt.Stringer.
func (i Interval) String() string {
	return i.Name
}
