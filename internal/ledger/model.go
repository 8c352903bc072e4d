package ledger

// Dates are carried as "2006-01-02" strings everywhere, matching the
// persisted snapshot layout.

type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Stock     float64 `json:"stock"`
	SafeStock float64 `json:"safeStock"`
	CostPrice float64 `json:"costPrice"`
	SalePrice float64 `json:"salePrice"`
}

type Customer struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Contact     string  `json:"contact"`
	CreditLimit float64 `json:"creditLimit"`
	// ARBalance is an independently maintained running total of uncleared
	// credit, not a sum over ARRecords.
	ARBalance float64 `json:"arBalance"`
}

type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Transaction is an append-only log entry. A row with a customer and no
// supplier is a sale, with a supplier and no customer a purchase; imported
// rows may carry both.
type Transaction struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	ProductID  string  `json:"productId"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	CustomerID string  `json:"customerId,omitempty"`
	SupplierID string  `json:"supplierId,omitempty"`
	IsCredit   bool    `json:"isCredit"`
	Amount     float64 `json:"amount"`
}

const (
	ARPending = "pending"
	ARCleared = "cleared"
)

// ARRecord tracks a credit-sale obligation. Amount is fixed at creation;
// the only transition is pending -> cleared.
type ARRecord struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customerId"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	DueDate    string  `json:"dueDate"`
	Status     string  `json:"status"`
}

// OutboundRecord keeps point-in-time name snapshots; deleting it never
// restores stock or AR side effects.
type OutboundRecord struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	Quantity      float64 `json:"quantity"`
	CustomerID    string  `json:"customerId,omitempty"`
	CustomerName  string  `json:"customerName"`
	Date          string  `json:"date"`
	Price         float64 `json:"price"`
	Amount        float64 `json:"amount"`
	Remark        string  `json:"remark"`
	IsCredit      bool    `json:"isCredit"`
	PaymentMethod string  `json:"paymentMethod"`
}

type InboundRecord struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	Quantity     float64 `json:"quantity"`
	SupplierID   string  `json:"supplierId,omitempty"`
	SupplierName string  `json:"supplierName"`
	Date         string  `json:"date"`
	Price        float64 `json:"price"`
	Amount       float64 `json:"amount"`
	Remark       string  `json:"remark"`
}

// State is the full persisted snapshot. Mutations operate on a clone and
// swap it in only after the persister accepted it.
type State struct {
	Products        []Product        `json:"products"`
	Customers       []Customer       `json:"customers"`
	Suppliers       []Supplier       `json:"suppliers"`
	Transactions    []Transaction    `json:"transactions"`
	ARRecords       []ARRecord       `json:"arRecords"`
	OutboundRecords []OutboundRecord `json:"outboundRecords"`
	InboundRecords  []InboundRecord  `json:"inboundRecords"`
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Clone returns a deep copy; all entity structs are value types, so copying
// the backing arrays is enough.
func (s *State) Clone() *State {
	return &State{
		Products:        cloneSlice(s.Products),
		Customers:       cloneSlice(s.Customers),
		Suppliers:       cloneSlice(s.Suppliers),
		Transactions:    cloneSlice(s.Transactions),
		ARRecords:       cloneSlice(s.ARRecords),
		OutboundRecords: cloneSlice(s.OutboundRecords),
		InboundRecords:  cloneSlice(s.InboundRecords),
	}
}

// ImportRow is one validated, normalized row from a bulk import file.
// Validation happens upstream; the store applies rows as-is.
type ImportRow struct {
	SupplierID string  `json:"supplierId"`
	CustomerID string  `json:"customerId"`
	ProductID  string  `json:"productId"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Date       string  `json:"date"`
	IsCredit   bool    `json:"isCredit"`
	CreditDate string  `json:"creditDate,omitempty"`
	DueDate    string  `json:"dueDate,omitempty"`
}
