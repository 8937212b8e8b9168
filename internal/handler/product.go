package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"printshop-backend/internal/domain"
	"printshop-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

// ProductHandler serves the print catalog.
type ProductHandler struct {
	Repo     repository.ProductRepository
	Currency string
}

func (h ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
	r.Post("/products", h.save)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
}

func (h ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, p := range items {
		resp = append(resp, h.toPayload(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	p, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toPayload(*p))
}

type productPayload struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	UnitPrice    float64 `json:"unitPrice"`
	Unit         string  `json:"unit"`
	Customizable bool    `json:"customizable"`
}

func (h ProductHandler) save(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	p, err := h.Repo.Save(r.Context(), domain.Product{
		Name:         req.Name,
		Category:     req.Category,
		UnitPrice:    domain.MoneyFromDecimal(req.UnitPrice),
		Unit:         req.Unit,
		Customizable: req.Customizable,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toPayload(*p))
}

func (h ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	p, err := h.Repo.Save(r.Context(), domain.Product{
		ID:           id,
		Name:         req.Name,
		Category:     req.Category,
		UnitPrice:    domain.MoneyFromDecimal(req.UnitPrice),
		Unit:         req.Unit,
		Customizable: req.Customizable,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toPayload(*p))
}

func (h ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func (h ProductHandler) toPayload(p domain.Product) map[string]any {
	return map[string]any{
		"id":           strconv.FormatInt(p.ID, 10),
		"name":         p.Name,
		"category":     p.Category,
		"unitPrice":    p.UnitPrice.Decimal(),
		"unit":         p.Unit,
		"customizable": p.Customizable,
		"currency":     h.Currency,
	}
}
