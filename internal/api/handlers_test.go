package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yac28938-hash/invdash/internal/analytics"
	"github.com/yac28938-hash/invdash/internal/importer"
	"github.com/yac28938-hash/invdash/internal/ledger"
)

func newTestAPI(t *testing.T) (*API, *ledger.Store) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := ledger.Open(context.Background(), nil, log)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return New(store, nil, log), store
}

func do(t *testing.T, a *API, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	rec := httptest.NewRecorder()
	a.Routes().ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func productStock(t *testing.T, s *ledger.Store, id string) float64 {
	t.Helper()
	for _, p := range s.Snapshot().Products {
		if p.ID == id {
			return p.Stock
		}
	}
	t.Fatalf("product %s not in snapshot", id)
	return 0
}

func TestAddOutbound(t *testing.T) {
	a, store := newTestAPI(t)

	rec := do(t, a, http.MethodPost, "/api/outbound", ledger.OutboundInput{
		ProductID:  "P1001",
		Quantity:   20,
		CustomerID: "C002",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var out ledger.OutboundRecord
	decodeInto(t, rec, &out)
	if out.ProductName != "无线机械键盘" || out.CustomerName != "未来网咖连锁" {
		t.Fatalf("name snapshots = %+v", out)
	}
	if out.Price != 399 || out.Amount != 7980 || out.PaymentMethod != "现金" {
		t.Fatalf("defaults = %+v", out)
	}
	if got := productStock(t, store, "P1001"); got != 100 {
		t.Fatalf("stock = %v, want 100", got)
	}
}

func TestAddOutboundInsufficientStock(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := do(t, a, http.MethodPost, "/api/outbound", ledger.OutboundInput{
		ProductID: "P1005", Quantity: 1, CustomerID: "C001",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var body errorBody
	decodeInto(t, rec, &body)
	if body.Error != "库存不足，无法出库" {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestAddOutboundUnknownProduct(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := do(t, a, http.MethodPost, "/api/outbound", ledger.OutboundInput{
		ProductID: "P9999", Quantity: 1,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAddOutboundRejectsBadBody(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := httptest.NewRecorder()
	a.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/outbound", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSettleARIsIdempotent(t *testing.T) {
	a, store := newTestAPI(t)

	rec := do(t, a, http.MethodPost, "/api/ar/AR-INIT-001/settle", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if bal := store.Snapshot().Customers[0].ARBalance; bal != 0 {
		t.Fatalf("C001 balance = %v, want 0", bal)
	}

	// second settle and unknown id are silent no-ops
	if rec := do(t, a, http.MethodPost, "/api/ar/AR-INIT-001/settle", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("repeat status = %d", rec.Code)
	}
	if rec := do(t, a, http.MethodPost, "/api/ar/AR-NOPE/settle", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("unknown id status = %d", rec.Code)
	}
}

func TestDeleteOutboundKeepsStock(t *testing.T) {
	a, store := newTestAPI(t)

	rec := do(t, a, http.MethodPost, "/api/outbound", ledger.OutboundInput{
		ProductID: "P1004", Quantity: 5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d", rec.Code)
	}
	var out ledger.OutboundRecord
	decodeInto(t, rec, &out)

	if rec := do(t, a, http.MethodDelete, "/api/outbound/"+out.ID, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if got := len(store.Snapshot().OutboundRecords); got != 0 {
		t.Fatalf("outbound records = %d, want 0", got)
	}
	if got := productStock(t, store, "P1004"); got != 195 {
		t.Fatalf("stock = %v, delete must not restore it", got)
	}
}

func TestDashboardPayload(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := do(t, a, http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Stats    analytics.DashboardStats `json:"stats"`
		LowStock []ledger.Product         `json:"lowStock"`
	}
	decodeInto(t, rec, &body)

	if body.Stats.PendingAR != 25560 {
		t.Fatalf("pending AR = %v, want 25560", body.Stats.PendingAR)
	}
	// P1003 under safe stock, P1005 at zero
	if len(body.LowStock) != 2 {
		t.Fatalf("low stock = %+v", body.LowStock)
	}
}

func TestImportTemplateDownload(t *testing.T) {
	a, _ := newTestAPI(t)

	rec := do(t, a, http.MethodGet, "/api/import/template", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, importer.TemplateFileName) {
		t.Fatalf("content disposition = %q", cd)
	}

	res, err := importer.Parse(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("downloaded template unparseable: %v", err)
	}
	if res.ValidCount != 1 {
		t.Fatalf("template result = %+v", res)
	}
}

func TestImportFileRoundTrip(t *testing.T) {
	a, store := newTestAPI(t)
	before := store.Snapshot()

	f, err := importer.Template()
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "import.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if err := f.Write(fw); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	a.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var res importer.Result
	decodeInto(t, rec, &res)
	if res.ValidCount != 1 || res.ErrorCount != 0 {
		t.Fatalf("result = %+v", res)
	}

	after := store.Snapshot()
	if len(after.Transactions) != len(before.Transactions)+1 {
		t.Fatalf("transactions = %d, want %d", len(after.Transactions), len(before.Transactions)+1)
	}
	// the sample row carries both parties: stock nets to zero
	if got := productStock(t, store, "P1001"); got != 120 {
		t.Fatalf("stock = %v, want unchanged 120", got)
	}
	// credit sale of 50 x 10 lands on the customer balance
	if bal := after.Customers[0].ARBalance; bal != before.Customers[0].ARBalance+500 {
		t.Fatalf("C001 balance = %v", bal)
	}
}

func TestImportWithoutFile(t *testing.T) {
	a, _ := newTestAPI(t)
	if rec := do(t, a, http.MethodPost, "/api/import", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReset(t *testing.T) {
	a, store := newTestAPI(t)

	if rec := do(t, a, http.MethodPost, "/api/outbound", ledger.OutboundInput{
		ProductID: "P1001", Quantity: 10,
	}); rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d", rec.Code)
	}

	if rec := do(t, a, http.MethodPost, "/api/reset", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if got := productStock(t, store, "P1001"); got != 120 {
		t.Fatalf("stock = %v, want seed value 120", got)
	}
	if got := len(store.Snapshot().OutboundRecords); got != 0 {
		t.Fatalf("outbound records = %d, want 0", got)
	}
}
