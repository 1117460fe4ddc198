package measurement

import (
	"sort"
	"time"
)

// BucketDuration is the width of a half-hourly bucket.
const BucketDuration = 30 * time.Minute

// MonthlyAverage is the mean of one type's values over one calendar month.
// Months without values have a Count of zero and an Average of zero.
type MonthlyAverage struct {
	Month   time.Month `json:"month"`
	Average float64    `json:"average"`
	Count   int        `json:"count"`
}

// Bucket holds the per-type averages of the readings in [Start, Start+BucketDuration).
// A nil value means the bucket had no readings with that type.
type Bucket struct {
	TimeRange   string    `json:"timeRange"`
	Start       time.Time `json:"start"`
	Temperature *float64  `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	Dust        *float64  `json:"dust"`
}

// Value returns the average of the given type and whether the bucket has one.
func (b Bucket) Value(t Type) (float64, bool) {
	var p *float64
	switch t {
	case Temperature:
		p = b.Temperature
	case Humidity:
		p = b.Humidity
	case Dust:
		p = b.Dust
	}

	if p == nil {
		return 0, false
	}
	return *p, true
}

func (b *Bucket) set(t Type, v float64) {
	switch t {
	case Temperature:
		b.Temperature = &v
	case Humidity:
		b.Humidity = &v
	case Dust:
		b.Dust = &v
	}
}

// ForDate returns the readings whose Date is date, ordered by time of day. Readings
// whose Time doesn't parse go last, in their original order.
func ForDate(readings []Reading, date string) []Reading {
	var out []Reading
	for _, r := range readings {
		if r.Date == date {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, errI := time.Parse(TimeLayout, out[i].Time)
		tj, errJ := time.Parse(TimeLayout, out[j].Time)
		switch {
		case errI != nil:
			return false
		case errJ != nil:
			return true
		default:
			return ti.Before(tj)
		}
	})

	return out
}

// LatestDate returns the Date of the reading with the newest Timestamp, or "" if
// there is none.
func LatestDate(readings []Reading) string {
	var latest Reading
	for _, r := range readings {
		if r.Date == "" {
			continue
		}
		if latest.Date == "" || r.Timestamp.After(latest.Timestamp) {
			latest = r
		}
	}
	return latest.Date
}

// Dates returns the distinct Dates of the readings, newest first.
func Dates(readings []Reading) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, r := range readings {
		if r.Date == "" || seen[r.Date] {
			continue
		}
		seen[r.Date] = true
		dates = append(dates, r.Date)
	}

	// DateLayout sorts lexically.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// MonthlyAverages averages the values of type t by month for readings whose UTC
// timestamp falls in year. It always returns twelve entries, January first.
func MonthlyAverages(readings []Reading, year int, t Type) []MonthlyAverage {
	sums := make([]float64, 12)
	counts := make([]int, 12)
	for _, r := range readings {
		ts := r.Timestamp.UTC()
		if r.Timestamp.IsZero() || ts.Year() != year {
			continue
		}

		v, ok := r.Value(t)
		if !ok {
			continue
		}
		sums[ts.Month()-1] += v
		counts[ts.Month()-1]++
	}

	avgs := make([]MonthlyAverage, 12)
	for i := range avgs {
		avgs[i] = MonthlyAverage{Month: time.Month(i + 1), Count: counts[i]}
		if counts[i] > 0 {
			avgs[i].Average = sums[i] / float64(counts[i])
		}
	}
	return avgs
}

// HalfHourlyAverages splits [end-window, end) into BucketDuration buckets and
// averages every type within each. end is truncated to a bucket boundary first,
// so the last bucket is the most recent complete one.
func HalfHourlyAverages(readings []Reading, end time.Time, window time.Duration) []Bucket {
	end = end.Truncate(BucketDuration)
	n := int(window / BucketDuration)
	if n <= 0 {
		return nil
	}
	start := end.Add(-time.Duration(n) * BucketDuration)

	sums := make([]map[Type]float64, n)
	counts := make([]map[Type]int, n)
	for i := range sums {
		sums[i] = make(map[Type]float64)
		counts[i] = make(map[Type]int)
	}

	for _, r := range readings {
		if r.Timestamp.Before(start) || !r.Timestamp.Before(end) {
			continue
		}

		i := int(r.Timestamp.Sub(start) / BucketDuration)
		for t, v := range r.ValueMap() {
			sums[i][t] += v
			counts[i][t]++
		}
	}

	buckets := make([]Bucket, n)
	for i := range buckets {
		bstart := start.Add(time.Duration(i) * BucketDuration)
		buckets[i] = Bucket{
			TimeRange: bstart.Format("15:04") + "-" + bstart.Add(BucketDuration).Format("15:04"),
			Start:     bstart,
		}
		for t, c := range counts[i] {
			buckets[i].set(t, sums[i][t]/float64(c))
		}
	}
	return buckets
}
