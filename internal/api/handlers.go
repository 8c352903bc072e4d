package api

import (
	"encoding/json"
	"net/http"

	"github.com/yac28938-hash/invdash/internal/analytics"
	"github.com/yac28938-hash/invdash/internal/importer"
	"github.com/yac28938-hash/invdash/internal/ledger"
	"github.com/yac28938-hash/invdash/internal/metrics"
)

func (a *API) listProducts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Snapshot().Products)
}

func (a *API) listCustomers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Snapshot().Customers)
}

func (a *API) listSuppliers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Snapshot().Suppliers)
}

func (a *API) listTransactions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Snapshot().Transactions)
}

func (a *API) listOutbound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Snapshot().OutboundRecords)
}

func (a *API) listInbound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Snapshot().InboundRecords)
}

func (a *API) addOutbound(w http.ResponseWriter, r *http.Request) {
	var in ledger.OutboundInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := a.store.AddOutboundRecord(r.Context(), in)
	if err != nil {
		a.storeError(w, err)
		return
	}
	a.alerts.LowStock(a.store.Snapshot().Products)
	writeJSON(w, http.StatusCreated, rec)
}

func (a *API) deleteOutbound(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteOutboundRecord(r.Context(), r.PathValue("id")); err != nil {
		a.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) addInbound(w http.ResponseWriter, r *http.Request) {
	var in ledger.InboundInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := a.store.AddInboundRecord(r.Context(), in)
	if err != nil {
		a.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (a *API) deleteInbound(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteInboundRecord(r.Context(), r.PathValue("id")); err != nil {
		a.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listAR(w http.ResponseWriter, _ *http.Request) {
	st := a.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"records": st.ARRecords,
		"summary": analytics.AnalyzeAR(st.ARRecords, a.now()),
	})
}

func (a *API) settleAR(w http.ResponseWriter, r *http.Request) {
	if err := a.store.SettleARRecord(r.Context(), r.PathValue("id")); err != nil {
		a.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) dashboard(w http.ResponseWriter, _ *http.Request) {
	st := a.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":    analytics.Dashboard(st, a.now()),
		"lowStock": analytics.LowStockProducts(st.Products),
	})
}

func (a *API) customerAnalysis(w http.ResponseWriter, _ *http.Request) {
	stats := analytics.CustomerStats(a.store.Snapshot(), a.now())
	writeJSON(w, http.StatusOK, map[string]any{
		"customers": stats,
		"kpi":       analytics.CustomerRollup(stats),
	})
}

func (a *API) financeMonthly(w http.ResponseWriter, _ *http.Request) {
	lines := analytics.SalesLines(a.store.Snapshot())
	writeJSON(w, http.StatusOK, map[string]any{
		"monthly": analytics.AggregateMonthlyStats(lines),
		"kpi":     analytics.FinanceRollup(lines),
	})
}

func (a *API) importFile(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "文件读取失败")
		return
	}
	defer func() { _ = file.Close() }()

	res, err := importer.Parse(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.ImportRows.WithLabelValues("valid").Add(float64(res.ValidCount))
	metrics.ImportRows.WithLabelValues("invalid").Add(float64(res.ErrorCount))

	if len(res.Rows) > 0 {
		rows := make([]ledger.ImportRow, len(res.Rows))
		for i, row := range res.Rows {
			rows[i] = ledger.ImportRow{
				SupplierID: row.SupplierID,
				CustomerID: row.CustomerID,
				ProductID:  row.ProductID,
				Quantity:   row.Quantity,
				Price:      row.Price,
				Date:       row.Date,
				IsCredit:   row.IsCredit,
				CreditDate: row.CreditDate,
				DueDate:    row.DueDate,
			}
		}
		if err := a.store.ImportTransactions(r.Context(), rows); err != nil {
			a.storeError(w, err)
			return
		}
		a.alerts.LowStock(a.store.Snapshot().Products)
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) importTemplate(w http.ResponseWriter, _ *http.Request) {
	f, err := importer.Template()
	if err != nil {
		a.log.Error("template generation failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+importer.TemplateFileName+`"`)
	if err := f.Write(w); err != nil {
		a.log.Error("template write failed", "err", err)
	}
}

func (a *API) reset(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Reset(r.Context()); err != nil {
		a.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
