package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/totegamma/textcanon/internal/config"
	"github.com/totegamma/textcanon/internal/infra/database"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "textcanon",
		Short:         "Canonical text addressing and translation revision service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE:  runMigrate,
	}
	seedCmd = &cobra.Command{
		Use:   "seed [file]",
		Short: "Upsert languages, unit types, sources, books and canons from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeed,
	}
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Print change events published on redis",
		RunE:  runWatch,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "/etc/textcanon/config.yaml", "path to the config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) && !rootCmd.PersistentFlags().Changed("config") {
		slog.Warn("config file not found, using defaults", slog.String("path", configPath))
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.Load(configPath)
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	if cfg.Server.Driver == config.DriverSQLite {
		return database.NewSQLite(cfg.Server.SQLitePath)
	}
	return database.NewPostgres(cfg.Server.PostgresDsn)
}
