package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedExpensePayload_Validate(t *testing.T) {
	valid := fixedExpensePayload{Name: "Aluguel", Amount: 1200.00, DueDay: 5}
	assert.Empty(t, valid.validate())

	cases := []struct {
		name string
		p    fixedExpensePayload
		msg  string
	}{
		{"missing name", fixedExpensePayload{Amount: 100, DueDay: 5}, "name is required"},
		{"zero amount", fixedExpensePayload{Name: "Luz", Amount: 0, DueDay: 5}, "amount must be positive"},
		{"negative amount", fixedExpensePayload{Name: "Luz", Amount: -50, DueDay: 5}, "amount must be positive"},
		{"dueDay too low", fixedExpensePayload{Name: "Luz", Amount: 100, DueDay: 0}, "dueDay must be between 1 and 31"},
		{"dueDay too high", fixedExpensePayload{Name: "Luz", Amount: 100, DueDay: 32}, "dueDay must be between 1 and 31"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.msg, tc.p.validate())
		})
	}
}

func TestFixedExpenseCreate_RejectsNonPositiveAmount(t *testing.T) {
	h := FixedExpenseHandler{}
	req := httptest.NewRequest(http.MethodPost, "/fixed-expenses",
		strings.NewReader(`{"name":"Internet","amount":0,"dueDay":10}`))
	rec := httptest.NewRecorder()

	h.create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "amount must be positive")
}
