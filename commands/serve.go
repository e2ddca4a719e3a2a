package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"property-service/config"
	"property-service/handlers"
	"property-service/helper"
	"property-service/jobs"
	"property-service/telemetry"

	cron "github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Config.RefreshTokenSecret == "" {
			return errors.New("REFRESH_TOKEN_SECRET is not set")
		}
		keys, err := helper.LoadKeyPair(config.Config.PrivateKeyPath)
		if err != nil {
			return fmt.Errorf("%w (run `%s keys generate` first)", err, config.AppName)
		}
		db, err := openAndMigrate()
		if err != nil {
			return err
		}

		tracing, err := telemetry.Setup(cmd.Context(), telemetry.Options{
			ServiceName: config.AppName,
			Endpoint:    config.Config.OtelEndpoint,
			Insecure:    config.Config.OtelInsecure,
			SampleRatio: config.Config.OtelSampleRatio,
		})
		if err != nil {
			config.Config.Logger.Warnw("tracing not started", "error", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx); err != nil {
				config.Config.Logger.Warnw("tracing shutdown", "error", err)
			}
		}()

		c := cron.New(cron.WithLocation(time.UTC))
		if err := jobs.NewHousekeeper(db).Schedule(c); err != nil {
			return fmt.Errorf("failed to schedule housekeeping: %w", err)
		}
		c.Start()
		defer c.Stop()

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%s", config.Config.ServerPort),
			Handler:           handlers.NewRouter(db, keys),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		errCh := make(chan error, 1)
		go func() {
			config.Config.Logger.Infof("server is running on %s", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}
		config.Config.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
