// Package notify writes in-app notifications.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
)

//go:generate mockgen -source=notifier.go -destination=mocks/notifier_mock.go -package=mocks Notifier

// Draft is a notification before it is addressed.
type Draft struct {
	Title         string
	Message       string
	Type          string
	ReferenceID   string
	ReferenceType string
	ActionDate    *time.Time
}

// Notifier delivers drafts to one identity or to every member identity.
type Notifier interface {
	Notify(ctx context.Context, identityID uuid.UUID, d Draft) error
	Broadcast(ctx context.Context, d Draft) (int, error)
}

const broadcastBatchSize = 200

// Store persists notifications in the notifications table.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Notify(ctx context.Context, identityID uuid.UUID, d Draft) error {
	n := d.addressed(identityID)
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	metrics.Notifications.WithLabelValues(d.Type).Inc()
	return nil
}

// Broadcast writes one row per member identity.
func (s *Store) Broadcast(ctx context.Context, d Draft) (int, error) {
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Identity{}).
		Where("role = ?", models.IdentityRoleMember).
		Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to list recipients: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	rows := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, d.addressed(id))
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&rows, broadcastBatchSize).Error; err != nil {
		return 0, fmt.Errorf("failed to broadcast notification: %w", err)
	}
	metrics.Notifications.WithLabelValues(d.Type).Add(float64(len(rows)))
	return len(rows), nil
}

func (d Draft) addressed(identityID uuid.UUID) models.Notification {
	typ := d.Type
	if typ == "" {
		typ = models.NotificationTypeGeneral
	}
	return models.Notification{
		IdentityID:    identityID,
		Title:         d.Title,
		Message:       d.Message,
		Type:          typ,
		ReferenceID:   d.ReferenceID,
		ReferenceType: d.ReferenceType,
		ActionDate:    d.ActionDate,
	}
}
