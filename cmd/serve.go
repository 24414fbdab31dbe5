package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/aksm-integration/internal/pkg/aksm"
	"github.com/anicoll/aksm-integration/internal/pkg/server"
)

// ServeCommand runs the raw command proxy for the configured building.
func ServeCommand(ctx *cli.Context) error {
	cfg, err := configFromCli(ctx)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	resolver := server.StaticResolver{
		cfg.Building: targetFromConfig(cfg),
	}
	client := aksm.NewClient(cfg.Device.Timeout)

	srv := &http.Server{
		Handler:      server.New(client, resolver).Handler(),
		Addr:         cfg.ListenAddr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx.Context)
	eg.Go(func() error {
		logger.Info("proxy listening", zap.String("addr", cfg.ListenAddr), zap.String("building", cfg.Building))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
