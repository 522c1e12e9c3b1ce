package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkwelldocs/md2docx/internal/api"
	"github.com/inkwelldocs/md2docx/internal/branding"
	"github.com/inkwelldocs/md2docx/internal/config"
	"github.com/inkwelldocs/md2docx/internal/generator"
	"github.com/inkwelldocs/md2docx/internal/imagefetch"
	"github.com/inkwelldocs/md2docx/internal/metrics"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()

	// Operator-level branding defaults, merged under request overrides.
	var defaults branding.Config
	if cfg.BrandingPath != "" {
		data, err := os.ReadFile(cfg.BrandingPath)
		if err != nil {
			log.Error("read branding defaults", "path", cfg.BrandingPath, "error", err)
			os.Exit(1)
		}
		defaults, err = branding.Load(data)
		if err != nil {
			log.Error("invalid branding defaults", "path", cfg.BrandingPath, "error", err)
			os.Exit(1)
		}
	}

	rec := metrics.NewRecorder(nil)

	fetcher := imagefetch.New(imagefetch.Policy{
		AllowedHosts: cfg.AllowedImageHosts,
		MaxBytes:     cfg.MaxImageBytes,
		Timeout:      cfg.FetchTimeout,
		Observer:     rec.IncImageFetch,
	})

	gen := generator.New(fetcher, log)

	srv := api.NewServer(gen, defaults, rec, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting md2docx", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
