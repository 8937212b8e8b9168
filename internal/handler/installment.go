package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"printshop-backend/internal/domain"
	"printshop-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// InstallmentHandler exposes the supplier payable ledger: splitting a
// purchase into dated rows and the later edits on them.
type InstallmentHandler struct {
	Service service.InstallmentService
}

func (h InstallmentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/installments/split", h.split)
	r.Get("/installments", h.list)
	r.Post("/installments/{id}/pay", h.pay)
	r.Put("/installments/{id}", h.edit)
	r.Post("/installments/replan", h.replan)
	r.Delete("/installments", h.deletePurchase)
}

func (h InstallmentHandler) split(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TotalAmount  float64  `json:"totalAmount"`
		Count        int      `json:"count"`
		FirstDueDate string   `json:"firstDueDate"`
		DueDates     []string `json:"dueDates"`
		SupplierID   *int64   `json:"supplierId"`
		SupplierName string   `json:"supplierName"`
		Description  string   `json:"description"`
		Category     string   `json:"category"`
		Notes        string   `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	firstDue, err := time.Parse(dateLayout, req.FirstDueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid firstDueDate")
		return
	}
	dueDates, err := parseDates(req.DueDates)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dueDates")
		return
	}

	rows, err := h.Service.SplitPurchase(r.Context(), service.SplitPurchaseInput{
		TotalAmount:  domain.MoneyFromDecimal(req.TotalAmount),
		Count:        req.Count,
		FirstDueDate: firstDue,
		DueDates:     dueDates,
		SupplierID:   req.SupplierID,
		SupplierName: req.SupplierName,
		Description:  req.Description,
		Category:     req.Category,
		Notes:        req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInstallmentPayloads(rows))
}

func (h InstallmentHandler) list(w http.ResponseWriter, r *http.Request) {
	onlyUnpaid := r.URL.Query().Get("onlyUnpaid") == "true"
	rows, err := h.Service.Installments.List(r.Context(), onlyUnpaid, 500)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInstallmentPayloads(rows))
}

func (h InstallmentHandler) pay(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	row, err := h.Service.PayInstallment(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInstallmentPayload(*row))
}

type installmentEditPayload struct {
	SupplierID   *int64   `json:"supplierId"`
	SupplierName *string  `json:"supplierName"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	Amount       *float64 `json:"amount"`
	DueDate      *string  `json:"dueDate"`
	Notes        *string  `json:"notes"`
}

func (p installmentEditPayload) toInput() (service.EditInstallmentInput, error) {
	in := service.EditInstallmentInput{
		SupplierID:   p.SupplierID,
		SupplierName: p.SupplierName,
		Description:  p.Description,
		Category:     p.Category,
		Notes:        p.Notes,
	}
	if p.Amount != nil {
		m := domain.MoneyFromDecimal(*p.Amount)
		in.Amount = &m
	}
	if p.DueDate != nil {
		t, err := time.Parse(dateLayout, *p.DueDate)
		if err != nil {
			return in, err
		}
		in.DueDate = &t
	}
	return in, nil
}

func (h InstallmentHandler) edit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req installmentEditPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dueDate")
		return
	}
	row, err := h.Service.EditInstallment(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInstallmentPayload(*row))
}

func (h InstallmentHandler) replan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs            []int64                `json:"ids"`
		NewTotalAmount *float64               `json:"newTotalAmount"`
		NewCount       *int                   `json:"newCount"`
		NewDates       []string               `json:"newDates"`
		Edits          installmentEditPayload `json:"edits"`
		RowOverrides   map[string]struct {
			Amount  *float64 `json:"amount"`
			DueDate *string  `json:"dueDate"`
		} `json:"rowOverrides"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	in := service.ReplanPurchaseInput{
		IDs:      req.IDs,
		NewCount: req.NewCount,
	}
	if req.NewTotalAmount != nil {
		m := domain.MoneyFromDecimal(*req.NewTotalAmount)
		in.NewTotalAmount = &m
	}
	var err error
	if in.NewDates, err = parseDates(req.NewDates); err != nil {
		writeError(w, http.StatusBadRequest, "invalid newDates")
		return
	}
	if in.CommonEdits, err = req.Edits.toInput(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid edits")
		return
	}
	if len(req.RowOverrides) > 0 {
		in.RowOverrides = make(map[int64]service.RowOverride, len(req.RowOverrides))
		for key, ov := range req.RowOverrides {
			id, convErr := strconv.ParseInt(key, 10, 64)
			if convErr != nil {
				writeError(w, http.StatusBadRequest, "invalid rowOverrides key")
				return
			}
			var row service.RowOverride
			if ov.Amount != nil {
				m := domain.MoneyFromDecimal(*ov.Amount)
				row.Amount = &m
			}
			if ov.DueDate != nil {
				t, convErr := time.Parse(dateLayout, *ov.DueDate)
				if convErr != nil {
					writeError(w, http.StatusBadRequest, "invalid rowOverrides dueDate")
					return
				}
				row.DueDate = &t
			}
			in.RowOverrides[id] = row
		}
	}

	rows, err := h.Service.ReplanPurchase(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInstallmentPayloads(rows))
}

func (h InstallmentHandler) deletePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.Service.DeletePurchase(r.Context(), req.IDs); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func parseDates(values []string) ([]time.Time, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]time.Time, len(values))
	for i, v := range values {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func toInstallmentPayloads(rows []domain.PendingInstallment) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, toInstallmentPayload(row))
	}
	return out
}

func toInstallmentPayload(row domain.PendingInstallment) map[string]any {
	var paidAt *string
	if row.PaidAt != nil {
		s := row.PaidAt.UTC().Format(time.RFC3339)
		paidAt = &s
	}
	return map[string]any{
		"id":                strconv.FormatInt(row.ID, 10),
		"supplierId":        row.SupplierID,
		"supplierName":      row.SupplierName,
		"description":       row.Description,
		"category":          row.Category,
		"installmentNumber": row.InstallmentNumber,
		"totalInstallments": row.TotalInstallments,
		"amount":            row.Amount.Decimal(),
		"totalAmount":       row.TotalAmount.Decimal(),
		"dueDate":           row.DueDate.Format(dateLayout),
		"paid":              row.Paid,
		"paidAt":            paidAt,
		"notes":             row.Notes,
	}
}
