package visitors

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Cleaner purges visits older than the retention window on a cron schedule.
type Cleaner struct {
	scheduler *gocron.Scheduler
	store     *Store
	retention time.Duration
	schedule  string
	now       func() time.Time
}

func NewCleaner(store *Store, retentionDays int, schedule string) *Cleaner {
	return &Cleaner{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		schedule:  schedule,
		now:       time.Now,
	}
}

// Start registers the cleanup job and starts the scheduler in the background.
func (c *Cleaner) Start(ctx context.Context) error {
	logrus.WithFields(logrus.Fields{
		"cron":      c.schedule,
		"retention": c.retention.String(),
	}).Info("starting visitor retention cleanup")

	_, err := c.scheduler.Cron(c.schedule).Do(func() {
		if _, err := c.RunOnce(ctx); err != nil {
			logrus.WithError(err).Error("visitor cleanup failed")
		}
	})
	if err != nil {
		return errors.Wrapf(err, "scheduling cleanup %q", c.schedule)
	}

	c.scheduler.StartAsync()
	return nil
}

func (c *Cleaner) Stop() {
	c.scheduler.Stop()
	logrus.Info("visitor retention cleanup stopped")
}

// RunOnce deletes every visit older than the retention window.
func (c *Cleaner) RunOnce(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.retention)

	deleted, err := c.store.Purge(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"deleted": deleted,
		"cutoff":  cutoff.UTC().Format(time.RFC3339),
	}).Info("old visitor data cleaned up")
	return deleted, nil
}
