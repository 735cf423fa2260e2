package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/analystlens/internal/scheduler"
	"github.com/wonny/analystlens/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/analyst scheduler start
  go run ./cmd/analyst scheduler list
  go run ./cmd/analyst scheduler run featured_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- featured_refresh: 10분마다 (추천 애널리스트 갱신)
- pool_health: 5분마다 (DB 풀 상태 점검)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler()
	if err != nil {
		return err
	}
	defer a.Close()

	// Seed the featured sample before the first tick
	if _, err := sched.RunJob(cmd.Context(), "featured_refresh"); err != nil {
		return fmt.Errorf("initial featured refresh: %w", err)
	}

	sched.Start()
	a.log.WithField("jobs", sched.GetAllJobs()).Info("Scheduler started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler()
	if err != nil {
		return err
	}
	defer a.Close()

	stats := sched.GetJobStats()

	fmt.Println("Registered jobs:")
	for _, name := range sched.GetAllJobs() {
		stat := stats[name]
		next := "-"
		if stat.NextRun != nil {
			next = stat.NextRun.Format(time.RFC3339)
		}
		fmt.Printf("  - %-18s %-18s next: %s\n", name, stat.Schedule, next)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler()
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := sched.RunJob(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		fmt.Printf("❌ %s failed after %d attempt(s): %s\n", result.JobName, result.Attempts, result.Error)
		return fmt.Errorf("job %s failed", result.JobName)
	}
	fmt.Printf("✅ %s completed in %v\n", result.JobName, result.Duration.Round(time.Millisecond))
	return nil
}

func initScheduler() (*app, *scheduler.Scheduler, error) {
	a, err := newApp(os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(a.log)

	for _, job := range []scheduler.Job{
		jobs.NewFeaturedRefreshJob(a.analysts, a.log),
		jobs.NewPoolHealthJob(a.db, a.log),
	} {
		if err := sched.AddJob(job); err != nil {
			a.Close()
			return nil, nil, fmt.Errorf("add job %s: %w", job.Name(), err)
		}
	}

	return a, sched, nil
}
