package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sniper/pkg/config"
	"github.com/wonny/sniper/pkg/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "시그널 테이블 스키마 생성",
	Long: `sniper_signals 테이블을 생성합니다 (재실행 안전).

PostgreSQL 저장소는 직접 적용하고, Supabase 저장소는
SQL Editor에 붙여넣을 DDL을 출력합니다.

Example:
  go run ./cmd/sniper migrate
  go run ./cmd/sniper migrate --print`,
	RunE: runMigrate,
}

var migratePrint bool

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().BoolVar(&migratePrint, "print", false, "DDL만 출력")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if migratePrint || cfg.ResolvedStore() == config.StoreSupabase {
		fmt.Println("-- Run this in the Supabase SQL editor")
		fmt.Print(database.SchemaSQL())
		return nil
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	fmt.Printf("✅ Table %s is ready\n", database.SignalsTable)
	return nil
}
