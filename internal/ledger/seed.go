package ledger

import "time"

// Seed builds the demo dataset used on first start and by Reset. Dates are
// relative to now so the overdue/aging views have something to show.
func Seed(now time.Time) *State {
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format(dateLayout)
	}

	products := []Product{
		{ID: "P1001", Name: "无线机械键盘", Category: "电子配件", Stock: 120, SafeStock: 50, CostPrice: 180, SalePrice: 399},
		{ID: "P1002", Name: "人体工学椅", Category: "办公家具", Stock: 45, SafeStock: 20, CostPrice: 450, SalePrice: 1299},
		{ID: "P1003", Name: "高清显示器 27寸", Category: "电子配件", Stock: 8, SafeStock: 15, CostPrice: 850, SalePrice: 1599},
		{ID: "P1004", Name: "Type-C扩展坞", Category: "电子配件", Stock: 200, SafeStock: 30, CostPrice: 65, SalePrice: 159},
		{ID: "P1005", Name: "精品咖啡豆 500g", Category: "食品饮料", Stock: 0, SafeStock: 20, CostPrice: 45, SalePrice: 98},
	}

	suppliers := []Supplier{
		{ID: "S001", Name: "深南电子厂", Contact: "陈工"},
		{ID: "S002", Name: "安吉家具直供", Contact: "刘厂长"},
	}

	// C001: overdue credit sale 45 days back, C003: recent large credit sale,
	// C004: credit sale still inside its term.
	amount1 := 20 * 399.0
	amount2 := 10 * 1599.0
	amount6 := 10 * 159.0

	customers := []Customer{
		{ID: "C001", Name: "科技先锋有限公司", Contact: "张经理", CreditLimit: 50000, ARBalance: amount1},
		{ID: "C002", Name: "未来网咖连锁", Contact: "李店长", CreditLimit: 20000, ARBalance: 0},
		{ID: "C003", Name: "极客工作室", Contact: "王总监", CreditLimit: 100000, ARBalance: amount2},
		{ID: "C004", Name: "汇通贸易", Contact: "赵会计", CreditLimit: 30000, ARBalance: amount6},
	}

	transactions := []Transaction{
		{ID: "TR-INIT-001", Date: day(-45), ProductID: "P1001", Quantity: 20, Price: 399, CustomerID: "C001", IsCredit: true, Amount: amount1},
		{ID: "TR-INIT-002", Date: day(-10), ProductID: "P1003", Quantity: 10, Price: 1599, CustomerID: "C003", IsCredit: true, Amount: amount2},
		{ID: "TR-INIT-003", Date: day(-60), ProductID: "P1001", Quantity: 5, Price: 399, CustomerID: "C001", Amount: 5 * 399},
		{ID: "TR-INIT-004", Date: day(-5), ProductID: "P1004", Quantity: 15, Price: 159, CustomerID: "C002", Amount: 15 * 159},
		{ID: "TR-INIT-005", Date: day(-30), ProductID: "P1002", Quantity: 3, Price: 1299, CustomerID: "C003", Amount: 3 * 1299},
		{ID: "TR-INIT-006", Date: day(-20), ProductID: "P1004", Quantity: 10, Price: 159, CustomerID: "C004", IsCredit: true, Amount: amount6},
		{ID: "TR-IN-INIT-001", Date: day(-3), ProductID: "P1001", Quantity: 50, Price: 180, SupplierID: "S001", Amount: 50 * 180},
	}

	arRecords := []ARRecord{
		{ID: "AR-INIT-001", CustomerID: "C001", Amount: amount1, Date: day(-45), DueDate: day(-15), Status: ARPending},
		{ID: "AR-INIT-002", CustomerID: "C003", Amount: amount2, Date: day(-10), DueDate: day(20), Status: ARPending},
		{ID: "AR-INIT-003", CustomerID: "C004", Amount: amount6, Date: day(-20), DueDate: day(10), Status: ARPending},
	}

	inboundRecords := []InboundRecord{
		{ID: "IN-INIT-001", ProductID: "P1001", ProductName: "无线机械键盘", Quantity: 50, Price: 180,
			SupplierID: "S001", SupplierName: "深南电子厂", Date: day(-3), Amount: 50 * 180, Remark: "季度补货"},
	}

	return &State{
		Products:        products,
		Customers:       customers,
		Suppliers:       suppliers,
		Transactions:    transactions,
		ARRecords:       arRecords,
		OutboundRecords: []OutboundRecord{},
		InboundRecords:  inboundRecords,
	}
}
