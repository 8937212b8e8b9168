package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"printshop-backend/internal/repository"
	"printshop-backend/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

// FCMHandler registers device tokens for push delivery. Tokens are
// tied to the logged-in user so order and commission notices can be
// targeted; counter tablets register without a platform and default
// to web.
type FCMHandler struct {
	Repo repository.FCMRepository
}

func (h FCMHandler) RegisterRoutes(r chi.Router) {
	r.Post("/notifications/token", h.register)
}

type tokenPayload struct {
	Token       string `json:"token"`
	Platform    string `json:"platform"`
	DeviceModel string `json:"deviceModel"`
}

func (h FCMHandler) register(w http.ResponseWriter, r *http.Request) {
	var req tokenPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}
	if req.Platform == "" {
		req.Platform = "web"
	}

	var userID *int64
	if user := authctx.FromContext(r.Context()); user != nil {
		userID = &user.ID
	}
	if err := h.Repo.Register(r.Context(), repository.RegisterTokenInput{
		UserID:      userID,
		Token:       req.Token,
		Platform:    req.Platform,
		DeviceModel: req.DeviceModel,
	}); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "registered",
		"platform": req.Platform,
	})
}
