package auth

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// ScheduleCleanup registers a job on c that removes expired sessions on the
// given cron spec (e.g. "@hourly").
func ScheduleCleanup(c *cron.Cron, sessions *SessionStore, spec string, logger *slog.Logger) (cron.EntryID, error) {
	if logger == nil {
		logger = slog.Default()
	}
	id, err := c.AddFunc(spec, func() {
		n, err := sessions.Cleanup()
		if err != nil {
			logger.Error("session cleanup failed", "error", err)
			return
		}
		if n > 0 {
			logger.Info("expired sessions removed", "count", n)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("scheduling session cleanup %q: %w", spec, err)
	}
	return id, nil
}
