package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.uber.org/zap"

	"github.com/linesmerrill/relief-chat-api/api/handlers"
	"github.com/linesmerrill/relief-chat-api/config"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	a := handlers.App{Config: *cfg}
	if err := a.Initialize(); err != nil {
		zap.S().Fatalw("failed to initialize", "error", err)
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: a.Handler,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("http server failed", "error", err)
		}
	}()

	if err := a.Scheduler.Start(); err != nil {
		zap.S().Fatalw("failed to start scheduler", "error", err)
	}

	zap.S().Infow("relief-chat-api is up and running",
		"port", cfg.Port,
		"url", cfg.BaseURL,
		"env", cfg.Env,
	)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
			"scheduler": func(ctx context.Context) error {
				a.Scheduler.Stop()
				return nil
			},
			"relay": func(ctx context.Context) error {
				a.Engine.Close()
				a.Metrics.Stop()
				return nil
			},
		},
	)

	exitCode := <-wait
	zap.S().Infow("relief-chat-api exited", "code", exitCode)
	_ = zap.L().Sync()
	os.Exit(exitCode)
}
