package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"netquest-service/internal/config"
	"netquest-service/internal/content"
	"netquest-service/internal/infra/postgres"
)

// NewSeedCmd stores the compiled-in banks in Postgres so they can be edited there.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in question banks to Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	db := postgres.OpenDB(cfg.Postgres.URL)
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	for id, data := range content.Banks() {
		if err := postgres.SeedBank(ctx, db, data); err != nil {
			return err
		}
		log.Printf("seeded bank %s (%d questions)", id, len(data.Questions))
	}
	return nil
}
