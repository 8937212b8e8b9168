package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"printshop-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

type stubSettingsStore struct {
	settings *domain.Settings
	err      error
}

func (s stubSettingsStore) Get(context.Context) (*domain.Settings, error) {
	return s.settings, s.err
}

func TestCommissionCompute_SettingsFailureIsNotZeroRate(t *testing.T) {
	h := CommissionHandler{Settings: stubSettingsStore{err: fmt.Errorf("connection refused")}}
	req := httptest.NewRequest(http.MethodGet, "/commissions?startDate=2024-01-01&endDate=2024-01-31", nil)
	rec := httptest.NewRecorder()

	h.compute(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "load settings")
}

func TestCommissionCompute_RejectsBadRateParam(t *testing.T) {
	h := CommissionHandler{Settings: stubSettingsStore{settings: &domain.Settings{DefaultCommissionRate: 10}}}
	req := httptest.NewRequest(http.MethodGet, "/commissions?startDate=2024-01-01&endDate=2024-01-31&rate=abc", nil)
	rec := httptest.NewRecorder()

	h.compute(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid rate")
}

func TestCommissionCompute_RequiresPeriod(t *testing.T) {
	h := CommissionHandler{Settings: stubSettingsStore{settings: &domain.Settings{}}}
	req := httptest.NewRequest(http.MethodGet, "/commissions", nil)
	rec := httptest.NewRecorder()

	h.compute(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "startDate and endDate are required")
}
