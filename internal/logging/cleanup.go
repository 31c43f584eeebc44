package logging

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
)

// PurgeFunc deletes expired rows and reports how many went.
type PurgeFunc func(ctx context.Context) (int64, error)

// RunPeriodic calls fn every interval until ctx is cancelled.
func RunPeriodic(ctx context.Context, name string, interval time.Duration, fn PurgeFunc) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := fn(ctx)
				if err != nil {
					slog.Error("cleanup failed", "component", name, "error", err)
				} else if n > 0 {
					slog.Info("cleanup completed", "component", name, "deleted", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// PurgeSystemLogs deletes system_logs older than retentionDays.
func PurgeSystemLogs(db *gorm.DB, retentionDays int, now func() time.Time) PurgeFunc {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return func(ctx context.Context) (int64, error) {
		cutoff := now().AddDate(0, 0, -retentionDays)
		res := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
		return res.RowsAffected, res.Error
	}
}
