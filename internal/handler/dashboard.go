package handler

import (
	"net/http"
	"strconv"

	"printshop-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	Repo repository.DashboardRepository
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/summary", h.summary)
	r.Get("/dashboard/top-sellers", h.topSellers)
	r.Get("/dashboard/sales-series", h.salesSeries)
}

func (h DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalRevenue":       float64(s.TotalRevenue) / 100,
		"totalOrders":        s.TotalOrders,
		"todayRevenue":       float64(s.TodayRevenue) / 100,
		"receivables":        float64(s.Receivables) / 100,
		"openInstallments":   s.OpenInstallments,
		"openInstallmentSum": float64(s.OpenInstallmentSum) / 100,
	})
}

func (h DashboardHandler) topSellers(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	items, err := h.Repo.TopSellers(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, it := range items {
		resp = append(resp, map[string]any{
			"name":   it.Name,
			"amount": float64(it.Amount) / 100,
			"count":  it.Count,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h DashboardHandler) salesSeries(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 365 {
			days = v
		}
	}
	points, err := h.Repo.SalesSeries(r.Context(), days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(points))
	for _, p := range points {
		resp = append(resp, map[string]any{
			"date":   p.Label,
			"amount": float64(p.Amount) / 100,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
