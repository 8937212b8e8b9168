package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"printshop-backend/internal/domain"
	"printshop-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type SellerHandler struct {
	Repo repository.SellerRepository
}

func (h SellerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/sellers", h.list)
	r.Get("/sellers/{id}", h.get)
	r.Post("/sellers", h.save)
	r.Put("/sellers/{id}", h.update)
	r.Delete("/sellers/{id}", h.delete)
}

func (h SellerHandler) list(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("onlyActive") == "true"
	items, err := h.Repo.List(r.Context(), onlyActive)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, toSellerPayload(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SellerHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	s, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSellerPayload(*s))
}

type sellerPayload struct {
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	CommissionRate *float64 `json:"commissionRate"`
	Active         bool     `json:"active"`
}

func (h SellerHandler) save(w http.ResponseWriter, r *http.Request) {
	var req sellerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s, err := h.Repo.Save(r.Context(), domain.Seller{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		CommissionRate: req.CommissionRate,
		Active:         req.Active,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSellerPayload(*s))
}

func (h SellerHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req sellerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	s, err := h.Repo.Save(r.Context(), domain.Seller{
		ID:             id,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		CommissionRate: req.CommissionRate,
		Active:         req.Active,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSellerPayload(*s))
}

func (h SellerHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func toSellerPayload(s domain.Seller) map[string]any {
	return map[string]any{
		"id":             strconv.FormatInt(s.ID, 10),
		"name":           s.Name,
		"phone":          s.Phone,
		"email":          s.Email,
		"commissionRate": s.CommissionRate,
		"active":         s.Active,
	}
}
