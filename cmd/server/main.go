package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/damon-houk/fx-inflation-monitor/internal/app"
	"github.com/damon-houk/fx-inflation-monitor/internal/config"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.GetDefaultLogger().Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.Log.Level))
	logger.SetDefaultLogger(log)

	wire, err := app.NewWire(cfg, log)
	if err != nil {
		log.Fatal("Failed to wire application", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := wire.Close(); err != nil {
			log.Error("Error closing cache store", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	srv := wire.HTTPServer()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", map[string]interface{}{
				"error": err.Error(),
			})
			done <- syscall.SIGTERM
		}
	}()

	log.Info("Server listening", map[string]interface{}{
		"addr":       srv.Addr,
		"go_version": runtime.Version(),
	})

	<-done
	log.Info("Stopping server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Failed to stop server", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	log.Info("Server stopped", nil)
}
