package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"eshop-reports-api/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.WithFields(logrus.Fields{
		"interval": cfg.Scheduler.Interval.String(),
		"target":   cfg.Scheduler.TargetURL,
	}).Info("Starting KPI refresh scheduler")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 2 * time.Minute}

	// Refresh once at startup so a fresh deployment has a snapshot
	// before the first tick
	refresh(ctx, client, cfg.Scheduler.TargetURL, logger)

	ticker := time.NewTicker(cfg.Scheduler.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			refresh(ctx, client, cfg.Scheduler.TargetURL, logger)
		case <-ctx.Done():
			logger.Info("Scheduler stopped")
			return
		}
	}
}

func refresh(ctx context.Context, client *http.Client, targetURL string, logger *logrus.Logger) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, nil)
	if err != nil {
		logger.WithError(err).Error("Failed to build refresh request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		logger.WithError(err).Error("KPI refresh request failed")
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	fields := logrus.Fields{
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}

	if resp.StatusCode != http.StatusOK {
		fields["response"] = string(body)
		logger.WithFields(fields).Error(fmt.Sprintf("KPI refresh returned status %d", resp.StatusCode))
		return
	}

	logger.WithFields(fields).Info("KPI refresh completed")
}
