package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"printshop-backend/internal/domain"
	"printshop-backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

type FinanceHandler struct {
	Repo repository.FinanceRepository
}

func (h FinanceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/finance", h.list)
	r.Get("/finance/export", h.export)
	r.Post("/finance", h.create)
}

func (h FinanceHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.loadEntries(r, 200)
	if err != nil {
		if _, ok := err.(badRequestError); ok {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, fe := range items {
		resp = append(resp, toFinancePayload(fe))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h FinanceHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	items, err := h.loadEntries(r, 2000)
	if err != nil {
		if _, ok := err.(badRequestError); ok {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	filenameSuffix := time.Now().Format("20060102_150405")
	startDate, _ := parseDateQuery(r, "startDate")
	endDate, _ := parseDateQuery(r, "endDate")
	if startDate != nil && endDate != nil {
		filenameSuffix = fmt.Sprintf("%s_%s", startDate.Format("20060102"), endDate.Format("20060102"))
	}

	switch format {
	case "csv":
		data, err := exportFinanceCSV(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"finance_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportFinanceXLSX(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"finance_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

type badRequestError string

func (e badRequestError) Error() string { return string(e) }

func (h FinanceHandler) loadEntries(r *http.Request, limit int) ([]domain.FinanceEntry, error) {
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		return nil, badRequestError("invalid startDate")
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		return nil, badRequestError("invalid endDate")
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		return nil, badRequestError("startDate must be before endDate")
	}
	if startDate != nil || endDate != nil {
		return h.Repo.ListFiltered(r.Context(), startDate, endDate)
	}
	return h.Repo.List(r.Context(), limit)
}

func exportFinanceCSV(items []domain.FinanceEntry) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "title", "amount", "category", "date", "type", "note", "order_code", "seller"})
	for _, fe := range items {
		_ = w.Write([]string{
			strconv.FormatInt(fe.ID, 10),
			fe.Title,
			strconv.FormatFloat(fe.Amount.Decimal(), 'f', 2, 64),
			fe.Category,
			fe.Date.Format(dateLayout),
			string(fe.Type),
			fe.Note,
			derefString(fe.OrderCode),
			derefString(fe.Seller),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportFinanceXLSX(items []domain.FinanceEntry) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Finance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"ID", "Title", "Amount", "Category", "Date", "Type", "Note", "Order Code", "Seller"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, fe := range items {
		row := r + 2
		values := []any{
			fe.ID,
			fe.Title,
			fe.Amount.Decimal(),
			fe.Category,
			fe.Date.Format(dateLayout),
			string(fe.Type),
			fe.Note,
			derefString(fe.OrderCode),
			derefString(fe.Seller),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 10)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "C", 14)
	_ = f.SetColWidth(sheet, "D", "D", 18)
	_ = f.SetColWidth(sheet, "E", "E", 12)
	_ = f.SetColWidth(sheet, "F", "F", 10)
	_ = f.SetColWidth(sheet, "G", "G", 28)
	_ = f.SetColWidth(sheet, "H", "H", 18)
	_ = f.SetColWidth(sheet, "I", "I", 18)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "I1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func (h FinanceHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string  `json:"title"`
		Amount    float64 `json:"amount"`
		Category  string  `json:"category"`
		Date      string  `json:"date"`
		Type      string  `json:"type"`
		Note      string  `json:"note"`
		OrderCode *string `json:"orderCode"`
		Seller    *string `json:"seller"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	dt := time.Now()
	if req.Date != "" {
		if t, err := time.Parse(dateLayout, req.Date); err == nil {
			dt = t
		}
	}
	fe, err := h.Repo.CreateEntry(r.Context(), &domain.FinanceEntry{
		Title:     req.Title,
		Amount:    domain.MoneyFromDecimal(req.Amount),
		Category:  req.Category,
		Date:      dt,
		Type:      domain.FinanceEntryType(req.Type),
		Note:      req.Note,
		OrderCode: req.OrderCode,
		Seller:    req.Seller,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toFinancePayload(*fe))
}

func toFinancePayload(fe domain.FinanceEntry) map[string]any {
	return map[string]any{
		"id":        fe.ID,
		"title":     fe.Title,
		"amount":    fe.Amount.Decimal(),
		"category":  fe.Category,
		"date":      fe.Date.Format(dateLayout),
		"type":      string(fe.Type),
		"note":      fe.Note,
		"orderCode": fe.OrderCode,
		"seller":    fe.Seller,
	}
}
