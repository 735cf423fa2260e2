package jobs

import (
	"context"

	"github.com/wonny/analystlens/pkg/database"
	"github.com/wonny/analystlens/pkg/logger"
)

// HealthChecker reports database health
type HealthChecker interface {
	HealthCheck(ctx context.Context) (*database.HealthStatus, error)
}

// PoolHealthJob pings the database and logs pool usage
type PoolHealthJob struct {
	db     HealthChecker
	logger *logger.Logger
}

// NewPoolHealthJob creates a new pool health job
func NewPoolHealthJob(db HealthChecker, log *logger.Logger) *PoolHealthJob {
	return &PoolHealthJob{
		db:     db,
		logger: log,
	}
}

// Name returns the job name
func (j *PoolHealthJob) Name() string {
	return "pool_health"
}

// Schedule returns the cron schedule (every 5 minutes)
func (j *PoolHealthJob) Schedule() string {
	return "0 */5 * * * *" // Every 5 minutes
}

// Run pings the pool; a failed ping fails the run so it shows in job stats
func (j *PoolHealthJob) Run(ctx context.Context) error {
	status, err := j.db.HealthCheck(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"response_time": status.ResponseTime,
		"total_conns":   status.Stats.TotalConns,
		"idle_conns":    status.Stats.IdleConns,
		"max_conns":     status.Stats.MaxConns,
	}).Debug("Database pool healthy")

	return nil
}
