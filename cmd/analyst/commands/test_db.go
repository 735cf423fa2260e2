package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/analystlens/pkg/config"
	"github.com/wonny/analystlens/pkg/database"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "PostgreSQL 연결 테스트",
	Long: `데이터베이스 연결을 테스트하고 풀 통계를 표시합니다.

이 명령어는:
- config에서 DATABASE_URL 로드
- 데이터베이스 연결 생성
- Health Check 실행
- Connection Pool 통계 표시

Example:
  go run ./cmd/analyst test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	fmt.Println("=== AnalystLens Database Connection Test ===")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Printf("   Database URL: %s\n\n", maskPassword(cfg.Database.URL))

	// Create database connection
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Println("✅ Database connection established")

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}

	fmt.Println("✅ Health Check Results:")
	PrintKeyValue("Healthy", fmt.Sprint(status.Healthy), 20)
	PrintKeyValue("Response Time", status.ResponseTime.String(), 20)
	PrintKeyValue("Timestamp", status.Timestamp.Format(time.RFC3339), 20)

	fmt.Println("\n📊 Connection Pool Statistics:")
	PrintKeyValue("Max Connections", fmt.Sprint(status.Stats.MaxConns), 20)
	PrintKeyValue("Total Connections", fmt.Sprint(status.Stats.TotalConns), 20)
	PrintKeyValue("Acquired", fmt.Sprint(status.Stats.AcquiredConns), 20)
	PrintKeyValue("Idle", fmt.Sprint(status.Stats.IdleConns), 20)
	PrintKeyValue("Acquire Count", fmt.Sprint(status.Stats.AcquireCount), 20)
	PrintKeyValue("Acquire Duration", status.Stats.AcquireDuration.String(), 20)

	// Every table the dashboard reads from must be present
	fmt.Println("\n📋 Tables:")
	for _, table := range []string{"analysts", "predictions", "security_prices", "earnings_questions", "linkedin_info"} {
		var exists bool
		if err := db.Pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists); err != nil {
			return fmt.Errorf("❌ Failed to check table %s: %w", table, err)
		}
		mark := "✅"
		if !exists {
			mark = "❌"
		}
		fmt.Printf("   %s %s\n", mark, table)
	}

	return nil
}

// maskPassword hides the password in a database URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
