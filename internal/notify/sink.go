package notify

import (
	"context"
	"fmt"
	"log/slog"

	"printshop-backend/internal/domain"
	"printshop-backend/internal/repository"
	"firebase.google.com/go/v4/messaging"
)

// Sink persists notifications and pushes them to registered devices.
// It is fire-and-forget: the ledger services never wait on delivery
// and never see delivery errors.
type Sink struct {
	Notifications repository.NotificationRepository
	Tokens        repository.FCMRepository
	Messaging     *messaging.Client
	Logger        *slog.Logger
}

func (s Sink) Notify(ctx context.Context, ev domain.NotificationEvent) {
	if _, err := s.Notifications.Create(ctx, repository.CreateNotificationInput{
		UserID:  ev.TargetUserID,
		Title:   ev.Title,
		Message: ev.Message,
		Type:    ev.Type,
	}); err != nil {
		s.Logger.Error("persist notification failed", "title", ev.Title, "err", err)
	}

	if s.Messaging == nil {
		return
	}

	tokens, err := s.Tokens.ListTokens(ctx, ev.TargetUserID)
	if err != nil {
		s.Logger.Error("list fcm tokens failed", "err", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	data := make(map[string]string, len(ev.Data))
	for k, v := range ev.Data {
		data[k] = fmt.Sprint(v)
	}

	resp, err := s.Messaging.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: ev.Title,
			Body:  ev.Message,
		},
		Data: data,
	})
	if err != nil {
		s.Logger.Error("fcm multicast failed", "title", ev.Title, "err", err)
		return
	}
	if resp.FailureCount > 0 {
		s.Logger.Warn("fcm partial delivery", "title", ev.Title, "success", resp.SuccessCount, "failure", resp.FailureCount)
	}
}
