package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/yac28938-hash/invdash/internal/ledger"
)

var testNow = time.Date(2026, 3, 15, 14, 45, 0, 0, time.UTC)

func daysAgo(n int) string {
	return testNow.AddDate(0, 0, -n).Format("2006-01-02")
}

func TestIsOverdueBoundary(t *testing.T) {
	if IsOverdue(daysAgo(0), testNow) {
		t.Fatalf("today must not be overdue")
	}
	if !IsOverdue(daysAgo(1), testNow) {
		t.Fatalf("yesterday must be overdue")
	}
	if IsOverdue(daysAgo(-1), testNow) {
		t.Fatalf("tomorrow must not be overdue")
	}
	if IsOverdue("", testNow) || IsOverdue("not-a-date", testNow) {
		t.Fatalf("empty/invalid dates are never overdue")
	}
}

func TestOverdueDays(t *testing.T) {
	if got := OverdueDays(daysAgo(5), testNow); got != 5 {
		t.Fatalf("overdue days = %d, want 5", got)
	}
	if got := OverdueDays(daysAgo(0), testNow); got != 0 {
		t.Fatalf("today overdue days = %d, want 0", got)
	}
	if got := OverdueDays(daysAgo(-10), testNow); got != 0 {
		t.Fatalf("future overdue days = %d, want 0", got)
	}
}

func TestCalcRFM(t *testing.T) {
	rfm := CalcRFM([]Order{{Date: daysAgo(10), Amount: 15000}}, testNow)
	if rfm.Recency != 10 || rfm.Frequency != 1 || rfm.Monetary != 15000 {
		t.Fatalf("rfm = %+v", rfm)
	}
	// 5 (R<=30) + 1 (F<3) + 5 (M>=10000)
	if rfm.Score != 11 {
		t.Fatalf("score = %d, want 11", rfm.Score)
	}
}

func TestCalcRFMEmpty(t *testing.T) {
	if rfm := CalcRFM(nil, testNow); rfm != (RFM{}) {
		t.Fatalf("empty orders must yield the zero record, got %+v", rfm)
	}
}

func TestCalcRFMBands(t *testing.T) {
	orders := make([]Order, 10)
	for i := range orders {
		orders[i] = Order{Date: daysAgo(120), Amount: 100}
	}
	rfm := CalcRFM(orders, testNow)
	// 1 (R>90) + 5 (F>=10) + 1 (M<2000)
	if rfm.Score != 7 {
		t.Fatalf("score = %d, want 7", rfm.Score)
	}

	rfm = CalcRFM([]Order{
		{Date: daysAgo(40), Amount: 1000},
		{Date: daysAgo(50), Amount: 1000},
		{Date: daysAgo(60), Amount: 1000},
	}, testNow)
	// recency uses the most recent order: 3 (30<R<=90) + 3 (F>=3) + 3 (M>=2000)
	if rfm.Recency != 40 || rfm.Score != 9 {
		t.Fatalf("rfm = %+v, want recency 40 score 9", rfm)
	}
}

func TestAggregateMonthlyStats(t *testing.T) {
	got := AggregateMonthlyStats([]SalesLine{
		{Date: "2026-01-05", Amount: 100, Cost: 40},
		{Date: "2026-01-20", Amount: 200, Cost: 80},
		{Date: "2025-12-31", Amount: 50, Cost: 10},
	})
	if len(got) != 2 {
		t.Fatalf("months = %d, want 2", len(got))
	}
	if got[0].Month != "2025-12" || got[1].Month != "2026-01" {
		t.Fatalf("months not ascending: %+v", got)
	}
	jan := got[1]
	if jan.Sales != 300 || jan.Cost != 120 || jan.Profit != 180 {
		t.Fatalf("january rollup = %+v", jan)
	}
}

func TestAnalyzeAR(t *testing.T) {
	records := []ledger.ARRecord{
		{Amount: 1000, DueDate: daysAgo(5), Status: ledger.ARPending},
		{Amount: 2000, DueDate: daysAgo(-5), Status: ledger.ARPending},
		{Amount: 4000, DueDate: daysAgo(30), Status: ledger.ARCleared},
	}
	sum := AnalyzeAR(records, testNow)
	if sum.Total != 3000 {
		t.Fatalf("total = %v, want 3000 (cleared excluded)", sum.Total)
	}
	if sum.Overdue != 1000 || sum.OverdueCount != 1 {
		t.Fatalf("overdue = %v/%d, want 1000/1", sum.Overdue, sum.OverdueCount)
	}
}

func TestRatios(t *testing.T) {
	if got := TurnoverRate(1000, 0); got != 0 {
		t.Fatalf("turnover with zero inventory = %v", got)
	}
	if got := TurnoverRate(1000, 300); got != 3.33 {
		t.Fatalf("turnover = %v, want 3.33", got)
	}
	if got := GrossMargin(0, 100); got != 0 {
		t.Fatalf("margin with zero revenue = %v", got)
	}
	if got := GrossMargin(200, 150); got != 0.25 {
		t.Fatalf("margin = %v, want 0.25", got)
	}

	products := []ledger.Product{{Stock: 0}, {Stock: 5}, {Stock: -2}, {Stock: 10}}
	if got := StockoutRate(products); got != 0.5 {
		t.Fatalf("stockout rate = %v, want 0.5", got)
	}
	if got := StockoutRate(nil); got != 0 {
		t.Fatalf("stockout rate of empty set = %v", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.256, 1); got != "25.6%" {
		t.Fatalf("percent = %q", got)
	}
	if got := FormatPercent(math.Inf(1), 1); got != "0%" {
		t.Fatalf("inf percent = %q", got)
	}
	if got := FormatPercent(math.NaN(), 0); got != "0%" {
		t.Fatalf("nan percent = %q", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(1234.5); got != "¥1,234.50" {
		t.Fatalf("currency = %q", got)
	}
	if got := FormatCurrency(math.NaN()); got != "¥0.00" {
		t.Fatalf("nan currency = %q", got)
	}
}
