package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"printshop-backend/internal/domain"
	"printshop-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

// FixedExpenseHandler manages recurring payable templates (rent,
// utilities) and the month-to-date due listing.
type FixedExpenseHandler struct {
	Repo repository.FixedExpenseRepository
}

func (h FixedExpenseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/fixed-expenses", h.list)
	r.Get("/fixed-expenses/due", h.due)
	r.Post("/fixed-expenses", h.create)
	r.Put("/fixed-expenses/{id}", h.update)
	r.Delete("/fixed-expenses/{id}", h.delete)
}

type fixedExpensePayload struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	DueDay   int     `json:"dueDay"`
	Category string  `json:"category"`
	Active   bool    `json:"active"`
}

func (p fixedExpensePayload) validate() string {
	if p.Name == "" {
		return "name is required"
	}
	if p.Amount <= 0 {
		return "amount must be positive"
	}
	if p.DueDay < 1 || p.DueDay > 31 {
		return "dueDay must be between 1 and 31"
	}
	return ""
}

func (h FixedExpenseHandler) list(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("onlyActive") == "true"
	items, err := h.Repo.List(r.Context(), onlyActive)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFixedExpensePayloads(items))
}

func (h FixedExpenseHandler) due(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.DueFrom(r.Context(), time.Now().Day())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFixedExpensePayloads(items))
}

func (h FixedExpenseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req fixedExpensePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	fe, err := h.Repo.Create(r.Context(), domain.FixedExpense{
		Name:     req.Name,
		Amount:   domain.MoneyFromDecimal(req.Amount),
		DueDay:   req.DueDay,
		Category: req.Category,
		Active:   req.Active,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFixedExpensePayload(*fe))
}

func (h FixedExpenseHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req fixedExpensePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	fe, err := h.Repo.Update(r.Context(), domain.FixedExpense{
		ID:       id,
		Name:     req.Name,
		Amount:   domain.MoneyFromDecimal(req.Amount),
		DueDay:   req.DueDay,
		Category: req.Category,
		Active:   req.Active,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFixedExpensePayload(*fe))
}

func (h FixedExpenseHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func toFixedExpensePayloads(items []domain.FixedExpense) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, fe := range items {
		out = append(out, toFixedExpensePayload(fe))
	}
	return out
}

func toFixedExpensePayload(fe domain.FixedExpense) map[string]any {
	return map[string]any{
		"id":       fe.ID,
		"name":     fe.Name,
		"amount":   fe.Amount.Decimal(),
		"dueDay":   fe.DueDay,
		"category": fe.Category,
		"active":   fe.Active,
	}
}
