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

// OrderHandler is the HTTP face of the order ledger. Amounts cross the
// wire as decimal currency and are converted to cents at this boundary.
type OrderHandler struct {
	Service  service.OrderService
	Currency string
}

func (h OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.create)
	r.Get("/orders", h.list)
	r.Get("/orders/{id}", h.get)
	r.Post("/orders/{id}/payments", h.recordPayment)
	r.Post("/orders/{id}/pay-full", h.payFull)
	r.Put("/orders/{id}/status", h.updateStatus)
}

type orderItemPayload struct {
	ProductID   *int64  `json:"productId"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Variation   string  `json:"variation"`
	Finishing   string  `json:"finishing"`
	Dimensions  string  `json:"dimensions"`
	Description string  `json:"description"`
}

func (h OrderHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID   *int64             `json:"customerId"`
		CustomerName string             `json:"customerName"`
		SellerID     *int64             `json:"sellerId"`
		SellerName   string             `json:"sellerName"`
		Items        []orderItemPayload `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.OrderItemInput{
			ProductID:   it.ProductID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   domain.MoneyFromDecimal(it.UnitPrice),
			Variation:   it.Variation,
			Finishing:   it.Finishing,
			Dimensions:  it.Dimensions,
			Description: it.Description,
		})
	}

	order, err := h.Service.CreateOrder(r.Context(), service.CreateOrderInput{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		SellerID:     req.SellerID,
		SellerName:   req.SellerName,
		Items:        items,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderPayload(order))
}

func (h OrderHandler) list(w http.ResponseWriter, r *http.Request) {
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

	var orders []domain.Order
	if startDate != nil && endDate != nil {
		orders, err = h.Service.Orders.ListByPeriod(r.Context(), *startDate, endDate.AddDate(0, 0, 1))
	} else {
		orders, err = h.Service.Orders.List(r.Context(), 200)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderPayload(&orders[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h OrderHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	order, err := h.Service.Orders.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderPayload(order))
}

func (h OrderHandler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	order, err := h.Service.RecordPayment(r.Context(), id, domain.MoneyFromDecimal(req.Amount), domain.PaymentMethod(req.Method))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderPayload(order))
}

func (h OrderHandler) payFull(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	order, err := h.Service.MarkFullyPaid(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderPayload(order))
}

func (h OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	order, err := h.Service.SetFulfillmentStatus(r.Context(), id, domain.FulfillmentStatus(req.Status))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderPayload(order))
}

func toOrderPayload(o *domain.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"productId":   it.ProductID,
			"name":        it.Name,
			"quantity":    it.Quantity,
			"unitPrice":   it.UnitPrice.Decimal(),
			"lineTotal":   it.LineTotal.Decimal(),
			"variation":   it.Variation,
			"finishing":   it.Finishing,
			"dimensions":  it.Dimensions,
			"description": it.Description,
		})
	}
	payments := make([]map[string]any, 0, len(o.Payments))
	for _, p := range o.Payments {
		payments = append(payments, map[string]any{
			"id":     p.ID,
			"kind":   string(p.Kind),
			"amount": p.Amount.Decimal(),
			"date":   p.Date.UTC().Format(time.RFC3339),
			"method": string(p.Method),
		})
	}
	return map[string]any{
		"id":                strconv.FormatInt(o.ID, 10),
		"code":              o.Code,
		"customerId":        o.CustomerID,
		"customerName":      o.CustomerName,
		"sellerId":          o.SellerID,
		"sellerName":        o.SellerName,
		"items":             items,
		"total":             o.Total.Decimal(),
		"amountPaid":        o.AmountPaid.Decimal(),
		"remainingAmount":   o.RemainingAmount.Decimal(),
		"paymentStatus":     string(o.PaymentStatus),
		"fulfillmentStatus": string(o.FulfillmentStatus),
		"payments":          payments,
		"createdAt":         o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
