// Package report computes the read-side summaries shown by the analysis
// commands: daily totals, category breakdowns, hourly traffic, top products
// and per-transaction statistics. All functions are pure reductions over a
// slice of sales lines; ties are broken deterministically.
package report

import (
	"sort"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/samber/lo"

	"github.com/taiwanway/sales-tracker/internal/domain"
)

// DailyTotal is one day's revenue.
type DailyTotal struct {
	Date  civil.Date
	Total float64
}

// DailyTotals sums revenue per business date, ascending by date.
func DailyTotals(lines []domain.SalesLine) []DailyTotal {
	byDate := lo.GroupBy(lines, func(l domain.SalesLine) civil.Date { return l.Date })

	totals := make([]DailyTotal, 0, len(byDate))
	for date, group := range byDate {
		totals = append(totals, DailyTotal{
			Date:  date,
			Total: lo.SumBy(group, func(l domain.SalesLine) float64 { return l.TotalAmount }),
		})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date.Before(totals[j].Date) })
	return totals
}

// CategorySummary aggregates one category.
type CategorySummary struct {
	Category     domain.Category
	Revenue      float64
	Quantity     float64
	Transactions int // distinct transactions touching the category
}

// CategoryBreakdown aggregates revenue, quantity and distinct-transaction
// counts per category, descending by revenue; equal revenue orders by label.
func CategoryBreakdown(lines []domain.SalesLine) []CategorySummary {
	byCat := lo.GroupBy(lines, func(l domain.SalesLine) domain.Category { return l.Category })

	summaries := make([]CategorySummary, 0, len(byCat))
	for cat, group := range byCat {
		txns := lo.UniqBy(group, func(l domain.SalesLine) string { return l.TransactionID })
		summaries = append(summaries, CategorySummary{
			Category:     cat,
			Revenue:      lo.SumBy(group, func(l domain.SalesLine) float64 { return l.TotalAmount }),
			Quantity:     lo.SumBy(group, func(l domain.SalesLine) float64 { return l.Quantity }),
			Transactions: len(txns),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Revenue != summaries[j].Revenue {
			return summaries[i].Revenue > summaries[j].Revenue
		}
		return summaries[i].Category < summaries[j].Category
	})
	return summaries
}

// HourTraffic is the distinct-transaction count for one hour of day.
type HourTraffic struct {
	Hour         int
	Transactions int
}

// HourlyTraffic counts distinct transactions per hour, ascending by hour.
// Lines with an unparsable time are ignored.
func HourlyTraffic(lines []domain.SalesLine) []HourTraffic {
	perHour := map[int]map[string]bool{}
	for _, l := range lines {
		hour, ok := hourOf(l.Time)
		if !ok {
			continue
		}
		if perHour[hour] == nil {
			perHour[hour] = map[string]bool{}
		}
		perHour[hour][l.TransactionID] = true
	}

	traffic := make([]HourTraffic, 0, len(perHour))
	for hour, txns := range perHour {
		traffic = append(traffic, HourTraffic{Hour: hour, Transactions: len(txns)})
	}
	sort.Slice(traffic, func(i, j int) bool { return traffic[i].Hour < traffic[j].Hour })
	return traffic
}

// ProductTotal is one product's aggregate.
type ProductTotal struct {
	Name     string
	Quantity float64
	Revenue  float64
}

// TopProducts returns the n highest-revenue products, descending; equal
// revenue orders by name.
func TopProducts(lines []domain.SalesLine, n int) []ProductTotal {
	byName := lo.GroupBy(lines, func(l domain.SalesLine) string { return l.ProductName })

	products := make([]ProductTotal, 0, len(byName))
	for name, group := range byName {
		products = append(products, ProductTotal{
			Name:     name,
			Quantity: lo.SumBy(group, func(l domain.SalesLine) float64 { return l.Quantity }),
			Revenue:  lo.SumBy(group, func(l domain.SalesLine) float64 { return l.TotalAmount }),
		})
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Revenue != products[j].Revenue {
			return products[i].Revenue > products[j].Revenue
		}
		return products[i].Name < products[j].Name
	})
	if n > 0 && len(products) > n {
		products = products[:n]
	}
	return products
}

// TxnStats summarizes per-transaction totals.
type TxnStats struct {
	Count int     // distinct transactions
	Total float64 // overall revenue
	Mean  float64 // mean transaction total
	Max   float64
	Min   float64
}

// TransactionStats sums each transaction's lines then reduces over the sums.
// A zero Count means no data; the other fields are zero in that case.
func TransactionStats(lines []domain.SalesLine) TxnStats {
	byTxn := lo.GroupBy(lines, func(l domain.SalesLine) string { return l.TransactionID })
	if len(byTxn) == 0 {
		return TxnStats{}
	}

	stats := TxnStats{Count: len(byTxn)}
	first := true
	for _, group := range byTxn {
		sum := lo.SumBy(group, func(l domain.SalesLine) float64 { return l.TotalAmount })
		stats.Total += sum
		if first || sum > stats.Max {
			stats.Max = sum
		}
		if first || sum < stats.Min {
			stats.Min = sum
		}
		first = false
	}
	stats.Mean = stats.Total / float64(stats.Count)
	return stats
}

// PeakHour returns the hour with the most distinct transactions, ok = false
// on empty input. Ties resolve to the earliest hour.
func PeakHour(lines []domain.SalesLine) (int, bool) {
	traffic := HourlyTraffic(lines)
	if len(traffic) == 0 {
		return 0, false
	}
	peak := traffic[0]
	for _, h := range traffic[1:] {
		if h.Transactions > peak.Transactions {
			peak = h
		}
	}
	return peak.Hour, true
}

// BestAverageHour returns the hour with the highest average transaction total
// and that average. Ties resolve to the earliest hour.
func BestAverageHour(lines []domain.SalesLine) (hour int, avg float64, ok bool) {
	type acc struct {
		revenue float64
		txns    map[string]bool
	}
	perHour := map[int]*acc{}
	for _, l := range lines {
		h, parsed := hourOf(l.Time)
		if !parsed {
			continue
		}
		a := perHour[h]
		if a == nil {
			a = &acc{txns: map[string]bool{}}
			perHour[h] = a
		}
		a.revenue += l.TotalAmount
		a.txns[l.TransactionID] = true
	}
	if len(perHour) == 0 {
		return 0, 0, false
	}

	hours := lo.Keys(perHour)
	sort.Ints(hours)
	for _, h := range hours {
		a := perHour[h]
		hourAvg := a.revenue / float64(len(a.txns))
		if !ok || hourAvg > avg {
			hour, avg, ok = h, hourAvg, true
		}
	}
	return hour, avg, true
}

// hourOf parses the leading HH of an HH:MM:SS string.
func hourOf(t string) (int, bool) {
	if len(t) < 2 {
		return 0, false
	}
	h, err := strconv.Atoi(t[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}
