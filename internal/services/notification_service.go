package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/scope"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, identityID uuid.UUID, limit, offset int) ([]dto.NotificationResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var rows []models.Notification
	if err := s.db.WithContext(ctx).Scopes(scope.ForIdentity(identityID)).
		Order("created_at DESC, id DESC").Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toNotificationResponse(&rows[i]))
	}
	return out, nil
}

func (s *NotificationService) Get(ctx context.Context, identityID uuid.UUID, id uint) (*dto.NotificationResponse, error) {
	n, err := s.owned(s.db.WithContext(ctx), identityID, id)
	if err != nil {
		return nil, err
	}
	out := toNotificationResponse(n)
	return &out, nil
}

// MarkRead sets the read flag. A nil flag is a validation error, not a toggle.
func (s *NotificationService) MarkRead(ctx context.Context, identityID uuid.UUID, id uint, isRead *bool) (*dto.NotificationResponse, error) {
	if isRead == nil {
		return nil, errIsReadRequired
	}
	db := s.db.WithContext(ctx)
	n, err := s.owned(db, identityID, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(n).Update("is_read", *isRead).Error; err != nil {
		return nil, err
	}
	n.IsRead = *isRead
	out := toNotificationResponse(n)
	return &out, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, identityID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Scopes(scope.ForIdentity(identityID)).
		Where("is_read = ?", false).Count(&count).Error
	return count, err
}

func (s *NotificationService) owned(db *gorm.DB, identityID uuid.UUID, id uint) (*models.Notification, error) {
	var n models.Notification
	err := db.Scopes(scope.ForIdentity(identityID)).First(&n, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func toNotificationResponse(n *models.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:            n.ID,
		Title:         n.Title,
		Message:       n.Message,
		Type:          n.Type,
		IsRead:        n.IsRead,
		ReferenceID:   n.ReferenceID,
		ReferenceType: n.ReferenceType,
		ActionDate:    n.ActionDate,
		CreatedAt:     n.CreatedAt,
	}
}
