package main

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/totegamma/textcanon/internal/infra/database"
)

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return errors.Wrap(err, "connect database")
	}
	if err := database.Migrate(db, cfg.Ledger.Scope()); err != nil {
		return err
	}

	slog.Info("schema migrated", slog.String("revisionScope", string(cfg.Ledger.Scope())))
	return nil
}
