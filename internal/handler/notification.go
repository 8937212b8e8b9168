package handler

import (
	"net/http"
	"time"

	"printshop-backend/internal/repository"
	"printshop-backend/internal/server/authctx"
	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	Repo repository.NotificationRepository
}

func (h NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/notifications", h.list)
	r.Post("/notifications/{id}/read", h.markRead)
}

func (h NotificationHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	items, err := h.Repo.List(r.Context(), user.ID, 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, n := range items {
		var readAt *string
		if n.ReadAt != nil {
			s := n.ReadAt.UTC().Format(time.RFC3339)
			readAt = &s
		}
		resp = append(resp, map[string]any{
			"id":        n.ID,
			"title":     n.Title,
			"message":   n.Message,
			"type":      string(n.Type),
			"createdAt": n.CreatedAt.UTC().Format(time.RFC3339),
			"readAt":    readAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h NotificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Repo.MarkRead(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
