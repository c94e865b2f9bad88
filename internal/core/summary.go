package core

import "sort"

// PeriodTotal represents spending aggregated over one period label
// (a day, a month or a year depending on granularity).
type PeriodTotal struct {
	Period string  `json:"period"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

// Granularity selects how summary periods are keyed.
type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

func (g Granularity) IsValid() bool {
	switch g {
	case Daily, Monthly, Yearly:
		return true
	}
	return false
}

// periodKey slices the YYYY-MM-DD date down to the granularity's prefix.
func periodKey(date string, g Granularity) string {
	switch g {
	case Monthly:
		if len(date) >= 7 {
			return date[:7]
		}
	case Yearly:
		if len(date) >= 4 {
			return date[:4]
		}
	}
	return date
}

// Summarize groups expenses by period and returns totals sorted by period
// label ascending.
func Summarize(expenses []Expense, g Granularity) []PeriodTotal {
	groups := make(map[string]*PeriodTotal)
	for _, e := range expenses {
		key := periodKey(e.Date, g)
		pt, ok := groups[key]
		if !ok {
			pt = &PeriodTotal{Period: key}
			groups[key] = pt
		}
		pt.Total += e.Amount
		pt.Count++
	}

	out := make([]PeriodTotal, 0, len(groups))
	for _, pt := range groups {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}
