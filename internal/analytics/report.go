package analytics

import (
	"sort"
	"time"

	"github.com/yac28938-hash/invdash/internal/ledger"
)

// DashboardStats are the headline figures of the overview page.
type DashboardStats struct {
	TotalSales    float64 `json:"totalSales"`
	PendingAR     float64 `json:"pendingAR"`
	OverdueAR     float64 `json:"overdueAR"`
	InventoryCost float64 `json:"inventoryCost"`
	LowStockCount int     `json:"lowStockCount"`
}

// Dashboard computes the overview figures. Total sales counts pure sale
// transactions (customer set, no supplier) as price × quantity.
func Dashboard(st *ledger.State, now time.Time) DashboardStats {
	var out DashboardStats
	for _, t := range st.Transactions {
		if t.CustomerID != "" && t.SupplierID == "" {
			out.TotalSales += t.Price * t.Quantity
		}
	}
	for _, r := range st.ARRecords {
		if r.Status == ledger.ARCleared {
			continue
		}
		out.PendingAR += r.Amount
		if IsOverdue(r.DueDate, now) {
			out.OverdueAR += r.Amount
		}
	}
	for _, p := range st.Products {
		out.InventoryCost += p.Stock * p.CostPrice
		if p.Stock <= p.SafeStock {
			out.LowStockCount++
		}
	}
	return out
}

// LowStockProducts lists products at or below their safe-stock threshold.
func LowStockProducts(products []ledger.Product) []ledger.Product {
	var out []ledger.Product
	for _, p := range products {
		if p.Stock <= p.SafeStock {
			out = append(out, p)
		}
	}
	return out
}

// CustomerStat joins a customer with its RFM score and open debt.
type CustomerStat struct {
	ledger.Customer
	RFM           RFM     `json:"rfm"`
	OrderCount    int     `json:"orderCount"`
	TotalSpent    float64 `json:"totalSpent"`
	LastOrderDays int     `json:"lastOrderDays"`
	TotalDebt     float64 `json:"totalDebt"`
	OverdueDebt   float64 `json:"overdueDebt"`
	HighRisk      bool    `json:"isHighRisk"`
}

// CustomerStats scores every customer over their transactions and pending
// AR records, sorted by total spend descending.
func CustomerStats(st *ledger.State, now time.Time) []CustomerStat {
	out := make([]CustomerStat, 0, len(st.Customers))
	for _, c := range st.Customers {
		var orders []Order
		for _, t := range st.Transactions {
			if t.CustomerID == c.ID {
				orders = append(orders, Order{Date: t.Date, Amount: t.Amount})
			}
		}
		rfm := CalcRFM(orders, now)

		var totalDebt, overdueDebt float64
		for _, r := range st.ARRecords {
			if r.CustomerID != c.ID || r.Status == ledger.ARCleared {
				continue
			}
			totalDebt += r.Amount
			if IsOverdue(r.DueDate, now) {
				overdueDebt += r.Amount
			}
		}

		out = append(out, CustomerStat{
			Customer:      c,
			RFM:           rfm,
			OrderCount:    rfm.Frequency,
			TotalSpent:    rfm.Monetary,
			LastOrderDays: rfm.Recency,
			TotalDebt:     totalDebt,
			OverdueDebt:   overdueDebt,
			HighRisk:      overdueDebt > 0,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalSpent > out[j].TotalSpent })
	return out
}

// CustomerKPI is the rollup across all customer stats.
type CustomerKPI struct {
	TotalCustomers      int     `json:"totalCustomers"`
	ActiveDebtCustomers int     `json:"activeDebtCustomers"`
	HighRiskCustomers   int     `json:"highRiskCustomers"`
	DebtRatio           float64 `json:"debtRatio"`
	AvgSpent            float64 `json:"avgSpent"`
}

func CustomerRollup(stats []CustomerStat) CustomerKPI {
	kpi := CustomerKPI{TotalCustomers: len(stats)}
	if kpi.TotalCustomers == 0 {
		return kpi
	}
	var spent float64
	for _, s := range stats {
		spent += s.TotalSpent
		if s.TotalDebt > 0 {
			kpi.ActiveDebtCustomers++
		}
		if s.HighRisk {
			kpi.HighRiskCustomers++
		}
	}
	kpi.DebtRatio = float64(kpi.ActiveDebtCustomers) / float64(kpi.TotalCustomers)
	kpi.AvgSpent = spent / float64(kpi.TotalCustomers)
	return kpi
}

// SalesLines extracts sale transactions (customer set) and joins each with
// the product's current cost price.
func SalesLines(st *ledger.State) []SalesLine {
	costByProduct := make(map[string]float64, len(st.Products))
	for _, p := range st.Products {
		costByProduct[p.ID] = p.CostPrice
	}

	var out []SalesLine
	for _, t := range st.Transactions {
		if t.CustomerID == "" {
			continue
		}
		amount := t.Quantity * t.Price
		cost := t.Quantity * costByProduct[t.ProductID]
		out = append(out, SalesLine{
			Date:   t.Date,
			Amount: amount,
			Cost:   cost,
			Profit: amount - cost,
		})
	}
	return out
}

// FinanceKPI is the overall P&L rollup of the financial page.
type FinanceKPI struct {
	TotalSales  float64 `json:"totalSales"`
	TotalCost   float64 `json:"totalCost"`
	TotalProfit float64 `json:"totalProfit"`
	Margin      float64 `json:"margin"`
	OrderCount  int     `json:"orderCount"`
}

func FinanceRollup(lines []SalesLine) FinanceKPI {
	kpi := FinanceKPI{OrderCount: len(lines)}
	for _, l := range lines {
		kpi.TotalSales += l.Amount
		kpi.TotalCost += l.Cost
	}
	kpi.TotalProfit = kpi.TotalSales - kpi.TotalCost
	kpi.Margin = GrossMargin(kpi.TotalSales, kpi.TotalCost)
	return kpi
}
