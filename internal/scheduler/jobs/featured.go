package jobs

import (
	"context"

	"github.com/wonny/analystlens/internal/contracts"
	"github.com/wonny/analystlens/pkg/logger"
)

// FeaturedRefresher draws and stores the landing-page sample
type FeaturedRefresher interface {
	RefreshFeatured(ctx context.Context) ([]contracts.Analyst, error)
}

// FeaturedRefreshJob rotates the featured analysts
type FeaturedRefreshJob struct {
	refresher FeaturedRefresher
	logger    *logger.Logger
}

// NewFeaturedRefreshJob creates a new featured refresh job
func NewFeaturedRefreshJob(refresher FeaturedRefresher, log *logger.Logger) *FeaturedRefreshJob {
	return &FeaturedRefreshJob{
		refresher: refresher,
		logger:    log,
	}
}

// Name returns the job name
func (j *FeaturedRefreshJob) Name() string {
	return "featured_refresh"
}

// Schedule returns the cron schedule (every 10 minutes)
func (j *FeaturedRefreshJob) Schedule() string {
	return "0 */10 * * * *"
}

// Run draws a new sample
func (j *FeaturedRefreshJob) Run(ctx context.Context) error {
	sample, err := j.refresher.RefreshFeatured(ctx)
	if err != nil {
		return err
	}

	ids := make([]int64, len(sample))
	for i, a := range sample {
		ids[i] = a.ID
	}
	j.logger.WithField("analyst_ids", ids).Debug("Featured analysts refreshed")

	return nil
}
