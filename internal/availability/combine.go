package availability

import (
	"sort"
	"time"
)

// Policy selects how per-host free intervals combine into offerable time.
type Policy string

const (
	// PolicySingle passes one host's intervals through unchanged.
	PolicySingle Policy = "single_host"
	// PolicyCollective requires every assigned host to be simultaneously free.
	PolicyCollective Policy = "collective"
	// PolicyRoundRobin offers a slot when any one assigned host is free.
	// Which host receives the booking is decided at booking time, not here.
	PolicyRoundRobin Policy = "round_robin"
)

// Valid reports whether the policy is one of the known values.
func (p Policy) Valid() bool {
	switch p {
	case PolicySingle, PolicyCollective, PolicyRoundRobin:
		return true
	}
	return false
}

// Combine merges per-host free intervals according to the scheduling policy:
// intersection for collective, union for round robin, pass-through for a
// single host.
func Combine(perHost [][]Interval, policy Policy) []Interval {
	if len(perHost) == 0 {
		return nil
	}
	switch policy {
	case PolicyCollective:
		combined := Merge(perHost[0])
		for _, host := range perHost[1:] {
			combined = Intersect(combined, host)
		}
		return combined
	case PolicyRoundRobin:
		var all []Interval
		for _, host := range perHost {
			all = append(all, host...)
		}
		return Merge(all)
	default:
		return Merge(perHost[0])
	}
}

// GenerateSlots quantizes free intervals into candidate start instants:
// every step from each interval's start that still leaves room for the full
// event duration before the interval ends. Output is deduplicated and
// chronological.
func GenerateSlots(free []Interval, duration, step time.Duration) []time.Time {
	if duration <= 0 || step <= 0 {
		return nil
	}
	seen := make(map[int64]struct{})
	var starts []time.Time
	for _, iv := range Merge(free) {
		for t := iv.Start; !t.Add(duration).After(iv.End); t = t.Add(step) {
			key := t.UnixNano()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			starts = append(starts, t)
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	return starts
}

// GroupByDay buckets slot starts by calendar day in the requesting timezone.
// It returns the day keys in chronological order plus the per-day slots,
// each localized to loc.
func GroupByDay(starts []time.Time, loc *time.Location) ([]string, map[string][]time.Time) {
	byDay := make(map[string][]time.Time)
	var days []string
	for _, t := range starts {
		local := t.In(loc)
		key := local.Format("2006-01-02")
		if _, ok := byDay[key]; !ok {
			days = append(days, key)
		}
		byDay[key] = append(byDay[key], local)
	}
	sort.Strings(days)
	for _, key := range days {
		slots := byDay[key]
		sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	}
	return days, byDay
}
