// Package analytics holds the pure calculation layer: formatting helpers,
// AR aging, the customer RFM model and monthly P&L rollups. Everything here
// is deterministic over a snapshot; callers pass the reference time.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/yac28938-hash/invdash/internal/ledger"
)

const dateLayout = "2006-01-02"

var zhCN = message.NewPrinter(language.SimplifiedChinese)

// FormatCurrency renders a CNY display string with zh-CN grouping.
// NaN/Inf render as zero.
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return zhCN.Sprintf("¥%v", number.Decimal(v,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func FormatPercent(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0%"
	}
	return fmt.Sprintf("%.*f%%", decimals, v*100)
}

// TurnoverRate is sales over average inventory, rounded to two decimals.
func TurnoverRate(sales, avgInventory float64) float64 {
	if avgInventory <= 0 {
		return 0
	}
	return math.Round(sales/avgInventory*100) / 100
}

// StockoutRate is the share of products with no stock left.
func StockoutRate(products []ledger.Product) float64 {
	if len(products) == 0 {
		return 0
	}
	zero := 0
	for _, p := range products {
		if p.Stock <= 0 {
			zero++
		}
	}
	return float64(zero) / float64(len(products))
}

func GrossMargin(revenue, cost float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return (revenue - cost) / revenue
}

func parseDay(s string) (time.Time, bool) {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsOverdue reports whether dueDate's calendar day is strictly before now's
// calendar day. Empty or unparseable dates are never overdue.
func IsOverdue(dueDate string, now time.Time) bool {
	due, ok := parseDay(dueDate)
	if !ok {
		return false
	}
	return day(due).Before(day(now))
}

// OverdueDays returns the number of whole days past due, 0 when not overdue.
func OverdueDays(dueDate string, now time.Time) int {
	due, ok := parseDay(dueDate)
	if !ok {
		return 0
	}
	d := int(day(now).Sub(day(due)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// ARSummary aggregates uncleared receivables.
type ARSummary struct {
	Total        float64 `json:"total"`
	Overdue      float64 `json:"overdue"`
	OverdueCount int     `json:"overdueCount"`
}

func AnalyzeAR(records []ledger.ARRecord, now time.Time) ARSummary {
	var sum ARSummary
	for _, r := range records {
		if r.Status == ledger.ARCleared {
			continue
		}
		sum.Total += r.Amount
		if IsOverdue(r.DueDate, now) {
			sum.Overdue += r.Amount
			sum.OverdueCount++
		}
	}
	return sum
}

// Order is the minimal order shape the RFM model needs.
type Order struct {
	Date   string
	Amount float64
}

// RFM is the Recency/Frequency/Monetary score for one customer. Score is the
// sum of three banded sub-scores and ranges 3..15 for a non-empty order list.
type RFM struct {
	Recency   int     `json:"r"`
	Frequency int     `json:"f"`
	Monetary  float64 `json:"m"`
	Score     int     `json:"score"`
}

func CalcRFM(orders []Order, now time.Time) RFM {
	if len(orders) == 0 {
		return RFM{}
	}

	var latest time.Time
	var monetary float64
	for _, o := range orders {
		monetary += o.Amount
		if t, ok := parseDay(o.Date); ok && t.After(latest) {
			latest = t
		}
	}
	recency := int(day(now).Sub(day(latest)).Hours() / 24)
	if recency < 0 {
		recency = 0
	}
	freq := len(orders)

	score := 0
	switch {
	case recency <= 30:
		score += 5
	case recency <= 90:
		score += 3
	default:
		score += 1
	}
	switch {
	case freq >= 10:
		score += 5
	case freq >= 3:
		score += 3
	default:
		score += 1
	}
	switch {
	case monetary >= 10000:
		score += 5
	case monetary >= 2000:
		score += 3
	default:
		score += 1
	}

	return RFM{Recency: recency, Frequency: freq, Monetary: monetary, Score: score}
}

// SalesLine is one sale with its cost attached, the input of the monthly
// rollup.
type SalesLine struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Cost   float64 `json:"cost"`
	Profit float64 `json:"profit"`
}

type MonthlyStat struct {
	Month  string  `json:"month"`
	Sales  float64 `json:"sales"`
	Cost   float64 `json:"cost"`
	Profit float64 `json:"profit"`
}

// AggregateMonthlyStats groups sales by the year-month prefix of their date
// and returns months in ascending order.
func AggregateMonthlyStats(lines []SalesLine) []MonthlyStat {
	byMonth := map[string]*MonthlyStat{}
	for _, l := range lines {
		if len(l.Date) < 7 {
			continue
		}
		month := l.Date[:7]
		m, ok := byMonth[month]
		if !ok {
			m = &MonthlyStat{Month: month}
			byMonth[month] = m
		}
		m.Sales += l.Amount
		m.Cost += l.Cost
		m.Profit += l.Amount - l.Cost
	}

	out := make([]MonthlyStat, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
