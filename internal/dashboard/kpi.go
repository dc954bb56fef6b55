package dashboard

import (
	"sort"
	"time"

	"github.com/joseph-ayodele/purchase-tracker/constants"
)

// TopSuppliers caps the supplier chart.
const TopSuppliers = 5

// NoBuyerLabel groups open orders without an assigned buyer.
const NoBuyerLabel = "Sem Comprador"

type KPIs struct {
	Total int `json:"total"`
	Open  int `json:"open"`
	Late  int `json:"late"`
}

// ComputeKPIs counts all rows, open rows and open rows due today or earlier.
func ComputeKPIs(records []Record, today time.Time) KPIs {
	k := KPIs{Total: len(records)}
	for _, r := range records {
		if r.Delivered() {
			continue
		}
		k.Open++
		if due := r.EffectiveDate(); due != nil && daysUntil(*due, today) <= 0 {
			k.Late++
		}
	}
	return k
}

// StatusChart counts rows per status: known statuses in workflow order, then
// any other status alphabetically.
func StatusChart(records []Record) Series {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Status]++
	}
	var labels []string
	for _, s := range constants.Statuses() {
		if counts[s] > 0 {
			labels = append(labels, s)
		}
	}
	var extra []string
	for s := range counts {
		if !constants.IsKnownStatus(s) {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	labels = append(labels, extra...)
	return seriesFrom(labels, counts)
}

// SupplierChart ranks suppliers by open orders, keeping the top five.
func SupplierChart(records []Record) Series {
	counts := openCounts(records, func(r Record) string { return r.Supplier })
	labels := make([]string, 0, len(counts))
	for s := range counts {
		labels = append(labels, s)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if len(labels) > TopSuppliers {
		labels = labels[:TopSuppliers]
	}
	return seriesFrom(labels, counts)
}

// BuyerChart counts open orders per buyer.
func BuyerChart(records []Record) Series {
	counts := openCounts(records, func(r Record) string {
		if r.Buyer == "" {
			return NoBuyerLabel
		}
		return r.Buyer
	})
	labels := make([]string, 0, len(counts))
	for s := range counts {
		labels = append(labels, s)
	}
	sort.Strings(labels)
	return seriesFrom(labels, counts)
}

func openCounts(records []Record, key func(Record) string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Delivered() {
			continue
		}
		counts[key(r)]++
	}
	return counts
}

func seriesFrom(labels []string, counts map[string]int) Series {
	s := Series{Labels: labels, Values: make([]int, len(labels))}
	if s.Labels == nil {
		s.Labels = []string{}
	}
	for i, l := range labels {
		s.Values[i] = counts[l]
	}
	return s
}
