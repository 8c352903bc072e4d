// Package api exposes the store and the analytics layer as a small JSON
// surface for the dashboard views.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yac28938-hash/invdash/internal/alerts"
	"github.com/yac28938-hash/invdash/internal/ledger"
)

type API struct {
	store  *ledger.Store
	alerts *alerts.Notifier
	log    *slog.Logger
	now    func() time.Time
}

func New(store *ledger.Store, notifier *alerts.Notifier, log *slog.Logger) *API {
	return &API{store: store, alerts: notifier, log: log, now: time.Now}
}

func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", a.listProducts)
	mux.HandleFunc("GET /api/customers", a.listCustomers)
	mux.HandleFunc("GET /api/suppliers", a.listSuppliers)
	mux.HandleFunc("GET /api/transactions", a.listTransactions)

	mux.HandleFunc("GET /api/outbound", a.listOutbound)
	mux.HandleFunc("POST /api/outbound", a.addOutbound)
	mux.HandleFunc("DELETE /api/outbound/{id}", a.deleteOutbound)

	mux.HandleFunc("GET /api/inbound", a.listInbound)
	mux.HandleFunc("POST /api/inbound", a.addInbound)
	mux.HandleFunc("DELETE /api/inbound/{id}", a.deleteInbound)

	mux.HandleFunc("GET /api/ar", a.listAR)
	mux.HandleFunc("POST /api/ar/{id}/settle", a.settleAR)

	mux.HandleFunc("GET /api/dashboard", a.dashboard)
	mux.HandleFunc("GET /api/customers/analysis", a.customerAnalysis)
	mux.HandleFunc("GET /api/finance/monthly", a.financeMonthly)

	mux.HandleFunc("POST /api/import", a.importFile)
	mux.HandleFunc("GET /api/import/template", a.importTemplate)

	mux.HandleFunc("POST /api/reset", a.reset)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// storeError maps the store's precondition errors onto HTTP statuses.
func (a *API) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrProductNotFound), errors.Is(err, ledger.ErrProductNotInbound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInsufficientStock):
		writeError(w, http.StatusConflict, err.Error())
	default:
		a.log.Error("store mutation failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
