package dashboard

import (
	"sort"
	"time"
)

// Series is a chart payload: parallel labels and values.
type Series struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// weekStart returns the Monday of d's ISO week.
func weekStart(d time.Time) time.Time {
	d = civil(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// Timeline counts open orders per delivery week, oldest week first.
// Delivered orders and orders without an effective date are left out.
func Timeline(records []Record) Series {
	buckets := make(map[time.Time]int)
	for _, r := range records {
		if r.Delivered() {
			continue
		}
		due := r.EffectiveDate()
		if due == nil {
			continue
		}
		buckets[weekStart(*due)]++
	}

	weeks := make([]time.Time, 0, len(buckets))
	for w := range buckets {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	s := Series{Labels: make([]string, len(weeks)), Values: make([]int, len(weeks))}
	for i, w := range weeks {
		s.Labels[i] = w.Format("02/01")
		s.Values[i] = buckets[w]
	}
	return s
}
