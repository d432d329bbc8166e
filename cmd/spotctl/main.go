package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/staylist/staylist-backend/internal/repository/postgres"
	"github.com/staylist/staylist-backend/internal/service"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "spotctl",
		Short: "Staylist operations tool",
	}

	rootCmd.AddCommand(
		migrateCmd(),
		importCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getDB() (*sqlx.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return postgres.New(dsn)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := postgres.Migrate(ctx, db); err != nil {
				return fmt.Errorf("migrate: %v", err)
			}
			fmt.Println("schema up to date")
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var (
		file    string
		ownerID int64
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-import spots from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			db, err := getDB()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewSpotImportService(
				postgres.NewSpotRepo(db),
				postgres.NewSpotImageRepo(db),
				postgres.NewUserRepo(db),
				service.SpotImportServiceConfig{},
			)

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			report, err := svc.ImportYAML(ctx, ownerID, data)
			if err != nil {
				return fmt.Errorf("import: %v", err)
			}

			fmt.Printf("batch %s: imported %d of %d rows\n", report.BatchID, report.Imported, report.Total)
			for _, rowErr := range report.RowErrors {
				fmt.Printf("  row %d: %s\n", rowErr.Row, rowErr.Message)
			}
			if len(report.RowErrors) > 0 {
				return fmt.Errorf("%d rows failed", len(report.RowErrors))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with spot rows")
	cmd.Flags().Int64Var(&ownerID, "owner", 0, "user ID that will own the imported spots")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
