// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"rentdesk-server/commons"
	"rentdesk-server/db"
	"rentdesk-server/events"
	"rentdesk-server/metrics"
	"rentdesk-server/mpesa"
	"rentdesk-server/notifications"
	"rentdesk-server/services"
	"rentdesk-server/store"
	"rentdesk-server/tracing"
	"slices"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	commons.LoadEnvFile()
	commons.Logger.SetLevel(commons.ParseLevel(commons.GetEnv("LOG_LEVEL")))

	if slices.Contains(os.Args[1:], "--debug") {
		commons.Logger.Warn("Debug mode is enabled.")
		commons.Logger.SetLevel(log.DEBUG)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, "rentdesk-server", commons.GetEnv("APP_ENV", "development"))
	if err != nil {
		commons.Logger.Fatal(err)
	}

	if err := db.InitDB(); err != nil {
		commons.Logger.Fatal(err)
	}
	if slices.Contains(os.Args[1:], "--migrate-db") {
		commons.Logger.Debug("--migrate-db flag detected, running migrations")
		if err := db.MigrateDB(db.Conn); err != nil {
			commons.Logger.Fatal(err)
		}
	}

	gateway, err := mpesa.NewClient(mpesa.LoadConfig())
	if err != nil {
		commons.Logger.Fatal(err)
	}
	mailer, err := notifications.NewDispatcher()
	if err != nil {
		commons.Logger.Fatal(err)
	}
	publisher, err := events.New(events.LoadConfig())
	if err != nil {
		commons.Logger.Fatal(err)
	}
	if closer, ok := publisher.(io.Closer); ok {
		defer closer.Close()
	}

	svc := services.New(store.New(db.Conn), gateway, mailer, services.WithPublisher(publisher))

	metricsServer := &http.Server{
		Addr:              commons.GetEnv("METRICS_ADDR", ":9090"),
		Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		commons.Logger.Infof("Serving metrics on %s", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			commons.Logger.Error("Metrics server failed:", err)
		}
	}()

	runReminders(ctx, svc, commons.GetEnvDuration("REMINDER_INTERVAL", time.Hour))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		commons.Logger.Error("Metrics server shutdown failed:", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		commons.Logger.Error("Tracing shutdown failed:", err)
	}
	commons.Logger.Info("Shutdown complete")
}

// runReminders sends due rent reminders immediately and then on every tick
// until ctx is cancelled.
func runReminders(ctx context.Context, svc *services.Service, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		sendReminders(ctx, svc)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// sendReminders runs one reminder pass; a panic is logged and the loop
// keeps going.
func sendReminders(ctx context.Context, svc *services.Service) {
	defer func() {
		if r := recover(); r != nil {
			commons.Logger.Errorf("Rent reminder run panicked: %v", r)
		}
	}()
	if _, err := svc.SendRentReminders(ctx, time.Now()); err != nil && !errors.Is(err, context.Canceled) {
		commons.Logger.Error("Rent reminder run failed:", err)
	}
}
