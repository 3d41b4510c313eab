package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/totegamma/textcanon/internal/domain"
	"github.com/totegamma/textcanon/internal/infra/database"
	"github.com/totegamma/textcanon/internal/service"
)

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if cfg.Server.RedisAddr == "" {
		return errors.New("server.redisAddr is not configured")
	}

	rdb, err := database.NewRedis(ctx, cfg.Server.RedisAddr, cfg.Server.RedisPassword, cfg.Server.RedisDB)
	if err != nil {
		return errors.Wrap(err, "connect redis")
	}
	defer rdb.Close()

	out := json.NewEncoder(cmd.OutOrStdout())
	return service.NewSignalService(rdb).Subscribe(ctx, func(event domain.Event) {
		if err := out.Encode(event); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	})
}
