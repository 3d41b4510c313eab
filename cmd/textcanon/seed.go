package main

import (
	"log/slog"
	"os"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/totegamma/textcanon/internal/infra/database"
	"github.com/totegamma/textcanon/internal/infra/repository"
	"github.com/totegamma/textcanon/internal/usecase"
)

func loadSeed(path string) (usecase.Seed, error) {
	file, err := os.Open(path)
	if err != nil {
		return usecase.Seed{}, err
	}
	defer file.Close()

	var seed usecase.Seed
	if err := yaml.NewDecoder(file).Decode(&seed); err != nil {
		return usecase.Seed{}, errors.Wrap(err, "decode seed")
	}
	return seed, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	seed, err := loadSeed(args[0])
	if err != nil {
		return err
	}

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

	refs := usecase.NewReferenceUsecase(repository.NewReferenceRepository(db), slog.Default())
	written, err := refs.ApplySeed(cmd.Context(), seed)
	if err != nil {
		return err
	}

	slog.Info("seed loaded", slog.String("file", args[0]), slog.Int("rows", written))
	return nil
}
