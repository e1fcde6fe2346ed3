package gormrepository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"botadmin/internal/models"
	"botadmin/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertWebhookEvent(ctx context.Context, item *models.WebhookEvent) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListWebhookEvents(ctx context.Context, params repository.ListWebhookEventsParams) ([]models.WebhookEvent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.eventQuery(ctx, params).Order("received_at DESC")
	var items []models.WebhookEvent
	if err := query.Limit(normalizeLimit(params.Limit)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountWebhookEvents(ctx context.Context, params repository.ListWebhookEventsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.eventQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) DeleteWebhookEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("received_at < ?", cutoff).
		Delete(&models.WebhookEvent{})
	return res.RowsAffected, res.Error
}

func (s *Store) eventQuery(ctx context.Context, params repository.ListWebhookEventsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.WebhookEvent{})
	if params.Source != nil && strings.TrimSpace(*params.Source) != "" {
		query = query.Where("source = ?", strings.TrimSpace(*params.Source))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("received_at >= ?", *params.Since)
	}
	return query
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
