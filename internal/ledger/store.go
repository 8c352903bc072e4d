package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/yac28938-hash/invdash/internal/metrics"
)

const dateLayout = "2006-01-02"

// Persister stores and loads the full snapshot. Load returns (nil, nil)
// when no snapshot exists yet.
type Persister interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, st *State) error
}

// Store is the single source of truth for all entities. Every mutation runs
// as a transition over a clone of the current state; the clone is persisted
// first and swapped in only on success, so a failed precondition or a failed
// save leaves both memory and storage untouched.
type Store struct {
	mu        sync.RWMutex
	state     *State
	persister Persister
	log       *slog.Logger
	now       func() time.Time
}

// Open loads the persisted snapshot, seeding the demo dataset on first run.
// A nil persister keeps the store purely in memory.
func Open(ctx context.Context, p Persister, log *slog.Logger) (*Store, error) {
	s := &Store{persister: p, log: log, now: time.Now}

	var st *State
	if p != nil {
		loaded, err := p.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		st = loaded
	}
	if st == nil {
		st = Seed(s.now())
		if p != nil {
			if err := p.Save(ctx, st); err != nil {
				return nil, fmt.Errorf("save seed snapshot: %w", err)
			}
		}
		log.Info("seeded initial dataset")
	}
	s.state = st
	return s, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) apply(ctx context.Context, op string, fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if s.persister != nil {
		if err := s.persister.Save(ctx, next); err != nil {
			return fmt.Errorf("persist %s: %w", op, err)
		}
	}
	s.state = next
	metrics.StoreMutations.WithLabelValues(op).Inc()
	s.log.Debug("mutation applied", "op", op)
	return nil
}

/* resolve-or-create helpers: upsert-on-write lives here, not inline in the
mutations */

func findProduct(st *State, id string) int {
	for i := range st.Products {
		if st.Products[i].ID == id {
			return i
		}
	}
	return -1
}

func findCustomer(st *State, id string) int {
	for i := range st.Customers {
		if st.Customers[i].ID == id {
			return i
		}
	}
	return -1
}

func resolveProduct(st *State, id string) int {
	if i := findProduct(st, id); i >= 0 {
		return i
	}
	st.Products = append(st.Products, Product{
		ID:        id,
		Name:      "新商品 " + id,
		Category:  "未分类",
		SafeStock: 10,
	})
	return len(st.Products) - 1
}

func resolveCustomer(st *State, id string) int {
	if i := findCustomer(st, id); i >= 0 {
		return i
	}
	st.Customers = append(st.Customers, Customer{
		ID:          id,
		Name:        "客户 " + id,
		Contact:     "-",
		CreditLimit: 10000,
	})
	return len(st.Customers) - 1
}

func resolveSupplier(st *State, id string) {
	for i := range st.Suppliers {
		if st.Suppliers[i].ID == id {
			return
		}
	}
	st.Suppliers = append(st.Suppliers, Supplier{ID: id, Name: "供应商 " + id, Contact: "-"})
}

// ImportTransactions applies a batch of validated rows in order. Rows are
// never rejected here: a row carrying both a supplier and a customer is
// processed as an inbound and an outbound adjustment against the same
// product.
func (s *Store) ImportTransactions(ctx context.Context, rows []ImportRow) error {
	return s.apply(ctx, "import", func(st *State) error {
		batch := s.now().UnixMilli()
		for i, row := range rows {
			pi := resolveProduct(st, row.ProductID)

			if row.SupplierID != "" {
				st.Products[pi].Stock += row.Quantity
				st.Products[pi].CostPrice = row.Price
				resolveSupplier(st, row.SupplierID)
			}

			if row.CustomerID != "" {
				st.Products[pi].Stock -= row.Quantity
				st.Products[pi].SalePrice = row.Price
				ci := resolveCustomer(st, row.CustomerID)

				if row.IsCredit {
					amount := row.Quantity * row.Price
					st.Customers[ci].ARBalance += amount
					due := row.DueDate
					if due == "" {
						due = row.Date
					}
					st.ARRecords = append(st.ARRecords, ARRecord{
						ID:         fmt.Sprintf("AR-%d-%d", batch, i),
						CustomerID: row.CustomerID,
						Amount:     amount,
						Date:       row.Date,
						DueDate:    due,
						Status:     ARPending,
					})
				}
			}

			st.Transactions = append(st.Transactions, Transaction{
				ID:         fmt.Sprintf("TR-%d-%d", batch, i),
				Date:       row.Date,
				ProductID:  row.ProductID,
				Quantity:   row.Quantity,
				Price:      row.Price,
				CustomerID: row.CustomerID,
				SupplierID: row.SupplierID,
				IsCredit:   row.IsCredit,
				Amount:     row.Quantity * row.Price,
			})
		}
		s.log.Info("import batch applied", "rows", len(rows))
		return nil
	})
}

type OutboundInput struct {
	ProductID     string  `json:"productId"`
	Quantity      float64 `json:"quantity"`
	CustomerID    string  `json:"customerId"`
	Date          string  `json:"date"`
	Price         float64 `json:"price"`
	Remark        string  `json:"remark"`
	PaymentMethod string  `json:"paymentMethod"`
	// IsCredit takes precedence when set; otherwise credit is derived from
	// PaymentMethod == "挂账".
	IsCredit *bool `json:"isCredit"`
}

// AddOutboundRecord ships stock to a customer. Precondition failures
// (unknown product, insufficient stock) are reported before any change.
func (s *Store) AddOutboundRecord(ctx context.Context, in OutboundInput) (*OutboundRecord, error) {
	var rec OutboundRecord
	err := s.apply(ctx, "outbound_add", func(st *State) error {
		pi := findProduct(st, in.ProductID)
		if pi < 0 {
			return ErrProductNotFound
		}
		p := &st.Products[pi]
		if p.Stock < in.Quantity {
			return ErrInsufficientStock
		}

		isCredit := in.PaymentMethod == "挂账"
		if in.IsCredit != nil {
			isCredit = *in.IsCredit
		}
		method := in.PaymentMethod
		if method == "" {
			if isCredit {
				method = "挂账"
			} else {
				method = "现金"
			}
		}

		date := in.Date
		if date == "" {
			date = s.now().Format(dateLayout)
		}
		price := in.Price
		if price == 0 {
			price = p.SalePrice
		}
		amount := in.Quantity * price

		customerName := "直接销售"
		if in.CustomerID != "" {
			customerName = "未知客户"
			if ci := findCustomer(st, in.CustomerID); ci >= 0 {
				customerName = st.Customers[ci].Name
			}
		}

		ts := s.now().UnixMilli()
		rec = OutboundRecord{
			ID:            fmt.Sprintf("OUT-%d", ts),
			ProductID:     in.ProductID,
			ProductName:   p.Name,
			Quantity:      in.Quantity,
			CustomerID:    in.CustomerID,
			CustomerName:  customerName,
			Date:          date,
			Price:         price,
			Amount:        amount,
			Remark:        in.Remark,
			IsCredit:      isCredit,
			PaymentMethod: method,
		}

		p.Stock -= in.Quantity
		st.OutboundRecords = append(st.OutboundRecords, rec)
		st.Transactions = append(st.Transactions, Transaction{
			ID:         fmt.Sprintf("TR-OUT-%d", ts),
			Date:       date,
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
			Price:      price,
			CustomerID: in.CustomerID,
			IsCredit:   isCredit,
			Amount:     amount,
		})

		if isCredit && in.CustomerID != "" {
			if ci := findCustomer(st, in.CustomerID); ci >= 0 {
				st.Customers[ci].ARBalance += amount
				st.ARRecords = append(st.ARRecords, ARRecord{
					ID:         fmt.Sprintf("AR-OUT-%d", ts),
					CustomerID: in.CustomerID,
					Amount:     amount,
					Date:       date,
					DueDate:    addDays(date, 30, s.now),
					Status:     ARPending,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type InboundInput struct {
	ProductID  string  `json:"productId"`
	Quantity   float64 `json:"quantity"`
	SupplierID string  `json:"supplierId"`
	Date       string  `json:"date"`
	Price      float64 `json:"price"`
	Remark     string  `json:"remark"`
}

// AddInboundRecord receives stock from a supplier. The product must already
// exist in master data; its cost price is overwritten with the effective
// price of this receipt. Inbound never books supplier credit.
func (s *Store) AddInboundRecord(ctx context.Context, in InboundInput) (*InboundRecord, error) {
	var rec InboundRecord
	err := s.apply(ctx, "inbound_add", func(st *State) error {
		pi := findProduct(st, in.ProductID)
		if pi < 0 {
			return ErrProductNotInbound
		}
		p := &st.Products[pi]

		date := in.Date
		if date == "" {
			date = s.now().Format(dateLayout)
		}
		price := in.Price
		if price == 0 {
			price = p.CostPrice
		}
		amount := in.Quantity * price

		supplierName := "市场采购"
		if in.SupplierID != "" {
			supplierName = "未知供应商"
			for i := range st.Suppliers {
				if st.Suppliers[i].ID == in.SupplierID {
					supplierName = st.Suppliers[i].Name
					break
				}
			}
		}

		ts := s.now().UnixMilli()
		rec = InboundRecord{
			ID:           fmt.Sprintf("IN-%d", ts),
			ProductID:    in.ProductID,
			ProductName:  p.Name,
			Quantity:     in.Quantity,
			SupplierID:   in.SupplierID,
			SupplierName: supplierName,
			Date:         date,
			Price:        price,
			Amount:       amount,
			Remark:       in.Remark,
		}

		p.Stock += in.Quantity
		p.CostPrice = price
		st.InboundRecords = append(st.InboundRecords, rec)
		st.Transactions = append(st.Transactions, Transaction{
			ID:         fmt.Sprintf("TR-IN-%d", ts),
			Date:       date,
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
			Price:      price,
			SupplierID: in.SupplierID,
			Amount:     amount,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteOutboundRecord removes a log entry by id. Stock and AR effects from
// the original add are deliberately not reversed; this is a log edit only.
func (s *Store) DeleteOutboundRecord(ctx context.Context, id string) error {
	return s.apply(ctx, "outbound_delete", func(st *State) error {
		for i := range st.OutboundRecords {
			if st.OutboundRecords[i].ID == id {
				st.OutboundRecords = append(st.OutboundRecords[:i], st.OutboundRecords[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// DeleteInboundRecord removes a log entry by id without touching stock.
func (s *Store) DeleteInboundRecord(ctx context.Context, id string) error {
	return s.apply(ctx, "inbound_delete", func(st *State) error {
		for i := range st.InboundRecords {
			if st.InboundRecords[i].ID == id {
				st.InboundRecords = append(st.InboundRecords[:i], st.InboundRecords[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// SettleARRecord clears a pending record and reduces the customer balance by
// its amount, floored at zero. Missing or already cleared records are a
// silent no-op.
func (s *Store) SettleARRecord(ctx context.Context, id string) error {
	return s.apply(ctx, "ar_settle", func(st *State) error {
		ri := -1
		for i := range st.ARRecords {
			if st.ARRecords[i].ID == id {
				ri = i
				break
			}
		}
		if ri < 0 || st.ARRecords[ri].Status == ARCleared {
			return nil
		}
		st.ARRecords[ri].Status = ARCleared
		if ci := findCustomer(st, st.ARRecords[ri].CustomerID); ci >= 0 {
			c := &st.Customers[ci]
			c.ARBalance = math.Max(0, c.ARBalance-st.ARRecords[ri].Amount)
		}
		return nil
	})
}

// Reset replaces all collections with the seed dataset.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Seed(s.now())
	if s.persister != nil {
		if err := s.persister.Save(ctx, next); err != nil {
			return fmt.Errorf("persist reset: %w", err)
		}
	}
	s.state = next
	metrics.StoreMutations.WithLabelValues("reset").Inc()
	return nil
}

func addDays(date string, days int, now func() time.Time) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		t = now()
	}
	return t.AddDate(0, 0, days).Format(dateLayout)
}
