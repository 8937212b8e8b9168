package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"printshop-backend/internal/domain"
	"printshop-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type SettingsHandler struct {
	Repo repository.SettingsRepository
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.get)
	r.Put("/settings", h.save)
}

func (h SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSettingsPayload(*s))
}

func (h SettingsHandler) save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessName          string  `json:"businessName"`
		BusinessAddress       string  `json:"businessAddress"`
		BusinessPhone         string  `json:"businessPhone"`
		ReceiptFooter         string  `json:"receiptFooter"`
		DefaultPaymentMethod  string  `json:"defaultPaymentMethod"`
		DefaultCommissionRate float64 `json:"defaultCommissionRate"`
		CurrencyCode          string  `json:"currencyCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.DefaultCommissionRate < 0 {
		writeError(w, http.StatusBadRequest, "defaultCommissionRate must not be negative")
		return
	}
	s, err := h.Repo.Save(r.Context(), domain.Settings{
		BusinessName:          req.BusinessName,
		BusinessAddress:       req.BusinessAddress,
		BusinessPhone:         req.BusinessPhone,
		ReceiptFooter:         req.ReceiptFooter,
		DefaultPaymentMethod:  req.DefaultPaymentMethod,
		DefaultCommissionRate: req.DefaultCommissionRate,
		CurrencyCode:          req.CurrencyCode,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSettingsPayload(*s))
}

func toSettingsPayload(s domain.Settings) map[string]any {
	return map[string]any{
		"businessName":          s.BusinessName,
		"businessAddress":       s.BusinessAddress,
		"businessPhone":         s.BusinessPhone,
		"receiptFooter":         s.ReceiptFooter,
		"defaultPaymentMethod":  s.DefaultPaymentMethod,
		"defaultCommissionRate": s.DefaultCommissionRate,
		"currencyCode":          s.CurrencyCode,
		"updatedAt":             s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
