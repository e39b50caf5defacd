// Command main is the entry point for the AirTecs backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airtecs/internal/config"
	"airtecs/internal/server"

	"github.com/robfig/cron/v3"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create server with dependency injection
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Background jobs: expire stale pending requests and purge old
	// notifications on the configured schedule.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if expired, err := srv.RequestService().ExpireSweep(ctx, time.Now()); err != nil {
			log.Printf("expire sweep failed: %v", err)
		} else if expired > 0 {
			log.Printf("expire sweep removed %d stale requests", expired)
		}

		if purged, err := srv.NotificationService().PurgeExpired(ctx, time.Now()); err != nil {
			log.Printf("notification purge failed: %v", err)
		} else if purged > 0 {
			log.Printf("notification purge removed %d rows", purged)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule expire sweep: %v", err)
	}
	scheduler.Start()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		<-scheduler.Stop().Done()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
