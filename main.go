package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"lg/calorie-tracker/internal/app"
	"lg/calorie-tracker/internal/config"
	"lg/calorie-tracker/internal/db"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if errRun := run(ctx, os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("server failed")
		os.Exit(1)
	}
}

// run parses flags, loads config, and serves the API until ctx is cancelled.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("calorie-tracker", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	addr := fs.String("addr", "", "listen address (or env LISTEN_ADDR)")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if strings.TrimSpace(*cfgPath) != "" {
		cfg.ConfigPath = config.ResolveConfigPath(*cfgPath)
		if cfg.Nutrition, err = config.LoadNutrition(cfg.ConfigPath); err != nil {
			return err
		}
	}
	if strings.TrimSpace(*addr) != "" {
		cfg.ListenAddr = strings.TrimSpace(*addr)
	}
	app.SetupLogging(cfg.LogLevel)
	if cfg.LogLevel < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	st, conn, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	h := newHandler(st, openAIConfig{BaseURL: cfg.OpenAIBaseURL, APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel})
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h.newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errServe := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("starting API server")
		errServe <- srv.ListenAndServe()
	}()

	select {
	case err := <-errServe:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
