package community

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/reconcile"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/validate"
)

type ContentService struct {
	db       *gorm.DB
	notifier notify.Notifier
	cfg      *config.Config
	now      func() time.Time
}

func NewContentService(db *gorm.DB, notifier notify.Notifier, cfg *config.Config) *ContentService {
	return &ContentService{db: db, notifier: notifier, cfg: cfg, now: time.Now}
}

func (s *ContentService) base(creator uuid.UUID, req *CreateContentRequest) (models.ContentBase, *time.Time, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.ContentBase{}, nil, apperr.Field("title", "is required")
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return models.ContentBase{}, nil, apperr.Field("description", "is required")
	}
	date, err := validate.Date("date", req.Date)
	if err != nil {
		return models.ContentBase{}, nil, err
	}
	return models.ContentBase{
		Title:       title,
		Description: desc,
		Image:       strings.TrimSpace(req.Image),
		Location:    strings.TrimSpace(req.Location),
		CreatedByID: creator,
	}, date, nil
}

func (s *ContentService) CreateEvent(ctx context.Context, creator uuid.UUID, req *CreateContentRequest) (*ContentResponse, error) {
	b, date, err := s.base(creator, req)
	if err != nil {
		return nil, err
	}
	if date == nil {
		return nil, apperr.Field("date", "is required")
	}
	row := models.Event{ContentBase: b, EventDate: date}
	if err := s.publish(ctx, &row, func() notify.Draft {
		return notify.Draft{
			Title:         "New event: " + row.Title,
			Message:       row.Description,
			Type:          models.NotificationTypeEvent,
			ReferenceID:   fmt.Sprint(row.ID),
			ReferenceType: "event",
			ActionDate:    row.EventDate,
		}
	}); err != nil {
		return nil, err
	}
	return s.response(&row.ContentBase, row.EventDate, nil), nil
}

func (s *ContentService) CreateNotice(ctx context.Context, creator uuid.UUID, req *CreateContentRequest) (*ContentResponse, error) {
	b, date, err := s.base(creator, req)
	if err != nil {
		return nil, err
	}
	row := models.Notice{ContentBase: b, NoticeDate: date}
	if err := s.publish(ctx, &row, func() notify.Draft {
		return notify.Draft{
			Title:         "Notice: " + row.Title,
			Message:       row.Description,
			Type:          models.NotificationTypeNotice,
			ReferenceID:   fmt.Sprint(row.ID),
			ReferenceType: "notice",
			ActionDate:    row.NoticeDate,
		}
	}); err != nil {
		return nil, err
	}
	return s.response(&row.ContentBase, row.NoticeDate, nil), nil
}

func (s *ContentService) CreateAdvertisement(ctx context.Context, creator uuid.UUID, req *CreateContentRequest) (*ContentResponse, error) {
	b, date, err := s.base(creator, req)
	if err != nil {
		return nil, err
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, apperr.Field("price", "must not be negative")
	}
	row := models.Advertisement{ContentBase: b, AdDate: date, Price: req.Price}
	if err := s.publish(ctx, &row, func() notify.Draft {
		return notify.Draft{
			Title:         "New advertisement: " + row.Title,
			Message:       row.Description,
			Type:          models.NotificationTypeAdvertise,
			ReferenceID:   fmt.Sprint(row.ID),
			ReferenceType: "advertisement",
			ActionDate:    row.AdDate,
		}
	}); err != nil {
		return nil, err
	}
	return s.response(&row.ContentBase, row.AdDate, row.Price), nil
}

// publish inserts row and, once committed, broadcasts the draft built from
// the stored row.
func (s *ContentService) publish(ctx context.Context, row interface{}, draft func() notify.Draft) error {
	var after reconcile.AfterCommit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		after.Reset()
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("failed to create content: %w", err)
		}
		after.Add("broadcast", func(ctx context.Context) error {
			_, err := s.notifier.Broadcast(ctx, draft())
			return err
		})
		return nil
	})
	if err != nil {
		return err
	}
	after.Run(ctx)
	return nil
}

// ListEvents returns events ordered by date. upcoming limits the list to
// events from today on.
func (s *ContentService) ListEvents(ctx context.Context, upcoming bool, limit, offset int) (*ContentListResponse, error) {
	q := s.db.WithContext(ctx).Model(&models.Event{})
	if upcoming {
		q = q.Where("event_date >= ?", s.now().UTC().Truncate(24*time.Hour))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}
	var rows []models.Event
	if err := q.Order("event_date ASC, id ASC").Limit(clampLimit(limit)).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := &ContentListResponse{Success: true, Total: total, Data: make([]ContentResponse, 0, len(rows))}
	for i := range rows {
		out.Data = append(out.Data, *s.response(&rows[i].ContentBase, rows[i].EventDate, nil))
	}
	return out, nil
}

func (s *ContentService) ListNotices(ctx context.Context, limit, offset int) (*ContentListResponse, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Notice{}).Count(&total).Error; err != nil {
		return nil, err
	}
	var rows []models.Notice
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").
		Limit(clampLimit(limit)).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := &ContentListResponse{Success: true, Total: total, Data: make([]ContentResponse, 0, len(rows))}
	for i := range rows {
		out.Data = append(out.Data, *s.response(&rows[i].ContentBase, rows[i].NoticeDate, nil))
	}
	return out, nil
}

func (s *ContentService) ListAdvertisements(ctx context.Context, limit, offset int) (*ContentListResponse, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Advertisement{}).Count(&total).Error; err != nil {
		return nil, err
	}
	var rows []models.Advertisement
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").
		Limit(clampLimit(limit)).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := &ContentListResponse{Success: true, Total: total, Data: make([]ContentResponse, 0, len(rows))}
	for i := range rows {
		out.Data = append(out.Data, *s.response(&rows[i].ContentBase, rows[i].AdDate, rows[i].Price))
	}
	return out, nil
}

func (s *ContentService) response(b *models.ContentBase, date *time.Time, price *float64) *ContentResponse {
	return &ContentResponse{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		ImageURL:    reconcile.MediaURL(s.cfg.MediaBaseURL, b.Image),
		Location:    b.Location,
		Date:        validate.FormatDate(date),
		Price:       price,
		CreatedAt:   b.CreatedAt,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
