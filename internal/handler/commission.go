package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"printshop-backend/internal/domain"
	"printshop-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// SettingsStore provides the shop settings the report falls back to
// when no explicit rate is given.
type SettingsStore interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

// CommissionHandler exposes the derived commission report and the
// payout action. Nothing here is persisted except the payout expense.
type CommissionHandler struct {
	Service  service.CommissionService
	Settings SettingsStore
}

func (h CommissionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/commissions", h.compute)
	r.Post("/commissions/pay", h.pay)
}

func (h CommissionHandler) compute(w http.ResponseWriter, r *http.Request) {
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if startDate == nil || endDate == nil {
		writeError(w, http.StatusBadRequest, "startDate and endDate are required")
		return
	}
	end := endOfDay(*endDate)

	rate, err := h.resolveRate(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var sellerIDs []int64
	if raw := r.URL.Query().Get("sellerIds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, convErr := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if convErr != nil {
				writeError(w, http.StatusBadRequest, "invalid sellerIds")
				return
			}
			sellerIDs = append(sellerIDs, id)
		}
	}

	report, err := h.Service.ComputeForPeriod(r.Context(), *startDate, end, rate, sellerIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(report))
	for _, sc := range report {
		resp = append(resp, map[string]any{
			"sellerId":         sc.SellerID,
			"sellerName":       sc.SellerName,
			"totalSales":       sc.TotalSales.Decimal(),
			"commissionAmount": sc.CommissionAmount.Decimal(),
			"ordersCount":      sc.OrdersCount,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rate":        rate,
		"startDate":   startDate.Format(dateLayout),
		"endDate":     endDate.Format(dateLayout),
		"commissions": resp,
	})
}

// resolveRate prefers an explicit query param, then the configured
// default from settings. A settings failure is an error, not a zero
// rate: an all-zero report would look like a valid answer.
func (h CommissionHandler) resolveRate(r *http.Request) (float64, error) {
	if raw := r.URL.Query().Get("rate"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, domain.Validationf("invalid rate %q", raw)
		}
		return rate, nil
	}
	s, err := h.Settings.Get(r.Context())
	if err != nil {
		return 0, domain.StoreErr("load settings", err)
	}
	return s.DefaultCommissionRate, nil
}

func (h CommissionHandler) pay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SellerID   int64   `json:"sellerId"`
		SellerName string  `json:"sellerName"`
		Amount     float64 `json:"amount"`
		Period     string  `json:"period"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	entry, err := h.Service.Pay(r.Context(), domain.SellerCommission{
		SellerID:         req.SellerID,
		SellerName:       req.SellerName,
		CommissionAmount: domain.MoneyFromDecimal(req.Amount),
	}, req.Period)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       entry.ID,
		"title":    entry.Title,
		"amount":   entry.Amount.Decimal(),
		"category": entry.Category,
		"date":     entry.Date.Format(dateLayout),
		"type":     string(entry.Type),
		"seller":   entry.Seller,
	})
}
