package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
)

type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, now: time.Now}
}

// Summary gathers the home screen counters concurrently.
func (s *DashboardService) Summary(ctx context.Context, identityID uuid.UUID) (*dto.DashboardResponse, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	out := &dto.DashboardResponse{}

	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int64, model interface{}, query string, args ...interface{}) {
		g.Go(func() error {
			q := s.db.WithContext(ctx).Model(model)
			if query != "" {
				q = q.Where(query, args...)
			}
			return q.Count(dst).Error
		})
	}

	count(&out.NotificationCount, &models.Notification{}, "identity_id = ? AND is_read = ?", identityID, false)
	count(&out.Stats.TotalMembers, &models.Identity{}, "role = ?", models.IdentityRoleMember)
	count(&out.Stats.UpcomingEvents, &models.Event{}, "event_date >= ?", today)
	count(&out.Stats.LatestNotices, &models.Notice{}, "")
	count(&out.Stats.TotalAds, &models.Advertisement{}, "")

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
