package core

import "time"

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// MonthSummary is a compact spending summary for a specific calendar month.
type MonthSummary struct {
	Year         int
	Month        int // 1-12
	NonEssential Money
	ByCategory   map[Category]Money
	Count        int
}

// MonthWindow returns the half-open interval covering the calendar month
// containing now: [first instant of the month, first instant of the next).
func MonthWindow(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// AggregateMonth sums the given transactions over the calendar month
// containing now. NonEssential holds only shopping/food/entertainment
// spend; ByCategory covers every category seen in the window. An empty
// input yields zero totals and an empty map.
func AggregateMonth(txs []Transaction, now time.Time) MonthSummary {
	start, end := MonthWindow(now)

	summary := MonthSummary{
		Year:       start.Year(),
		Month:      int(start.Month()),
		ByCategory: make(map[Category]Money),
	}

	for _, tx := range txs {
		ts := tx.Timestamp.UTC()
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		summary.Count++
		total := summary.ByCategory[tx.Category]
		total.Cents += tx.Amount.Cents
		summary.ByCategory[tx.Category] = total
		if tx.Category.NonEssential() {
			summary.NonEssential.Cents += tx.Amount.Cents
		}
	}

	return summary
}
