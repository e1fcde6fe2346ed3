package repository

import (
	"context"
	"time"

	"botadmin/internal/models"
)

type ListWebhookEventsParams struct {
	Limit  int
	Offset int
	Source *string
	Since  *time.Time
}

// EventRepository stores the audit trail of verified webhook callbacks.
type EventRepository interface {
	InsertWebhookEvent(ctx context.Context, item *models.WebhookEvent) error
	ListWebhookEvents(ctx context.Context, params ListWebhookEventsParams) ([]models.WebhookEvent, error)
	CountWebhookEvents(ctx context.Context, params ListWebhookEventsParams) (int64, error)
	DeleteWebhookEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
