package core

import (
	"testing"
	"time"
)

func tx(cents int64, cat Category, ts time.Time) Transaction {
	return Transaction{
		ID:        "t",
		UserID:    "u1",
		Amount:    Money{Cents: cents},
		Merchant:  "shop",
		Category:  cat,
		Timestamp: ts,
	}
}

func TestAggregateMonthEmpty(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := AggregateMonth(nil, now)
	if s.NonEssential.Cents != 0 || s.Count != 0 || len(s.ByCategory) != 0 {
		t.Fatalf("empty input should yield zero summary, got %+v", s)
	}
	if s.Year != 2025 || s.Month != 6 {
		t.Fatalf("window = %d-%d, want 2025-6", s.Year, s.Month)
	}
}

func TestAggregateMonthWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	txs := []Transaction{
		// first instant of the month is inclusive
		tx(100, CategoryShopping, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		// last instant before the next month
		tx(200, CategoryFood, time.Date(2025, 6, 30, 23, 59, 59, 999999999, time.UTC)),
		// first instant of the next month is exclusive
		tx(400, CategoryShopping, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)),
		// previous month excluded
		tx(800, CategoryFood, time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC)),
	}
	s := AggregateMonth(txs, now)
	if s.NonEssential.Cents != 300 {
		t.Fatalf("non-essential = %d, want 300", s.NonEssential.Cents)
	}
	if s.Count != 2 {
		t.Fatalf("count = %d, want 2", s.Count)
	}
}

func TestAggregateMonthCategories(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	in := now
	txs := []Transaction{
		tx(1000, CategoryShopping, in),
		tx(500, CategoryShopping, in),
		tx(2000, CategoryFood, in),
		tx(300, CategoryEntertainment, in),
		tx(7000, CategoryBills, in),
		tx(1200, CategoryTransport, in),
		tx(900, CategoryOther, in),
	}
	s := AggregateMonth(txs, now)

	if s.NonEssential.Cents != 3800 {
		t.Fatalf("non-essential = %d, want 3800", s.NonEssential.Cents)
	}
	if got := s.ByCategory[CategoryShopping].Cents; got != 1500 {
		t.Fatalf("shopping = %d, want 1500", got)
	}

	// Category totals partition the window: non-essential sum plus the
	// rest equals the sum over all categories.
	var all, rest int64
	for cat, amount := range s.ByCategory {
		all += amount.Cents
		if !cat.NonEssential() {
			rest += amount.Cents
		}
	}
	if all != s.NonEssential.Cents+rest {
		t.Fatalf("totals do not partition: all=%d nonessential=%d rest=%d", all, s.NonEssential.Cents, rest)
	}
	if all != 12900 {
		t.Fatalf("all categories = %d, want 12900", all)
	}
	if s.Count != len(txs) {
		t.Fatalf("count = %d, want %d", s.Count, len(txs))
	}
}

func TestAggregateMonthNormalizesZones(t *testing.T) {
	// A timestamp recorded in a non-UTC zone still lands in the UTC
	// calendar month of the reference time.
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	s := AggregateMonth([]Transaction{
		tx(100, CategoryFood, time.Date(2025, 7, 1, 4, 0, 0, 0, loc)), // 2025-06-30T22:30Z
	}, now)
	if s.NonEssential.Cents != 100 {
		t.Fatalf("non-essential = %d, want 100", s.NonEssential.Cents)
	}
}
