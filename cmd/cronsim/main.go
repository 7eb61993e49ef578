// cronsim serves a simulated cron manager backend for local development of
// the console. It speaks the same HTTP contract as the real service, quirks
// included.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cronhq/cron-console/internal/cronsim"
	"github.com/sirupsen/logrus"
)

func main() {
	port := flag.String("port", "8000", "port to listen on")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   false,
		TimestampFormat: "2006-01-02T15:04:05-07:00",
	})
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	store := cronsim.NewStore()
	handler := cronsim.NewHandler(store, logger)

	scheduler := cronsim.NewScheduler(store, logger)
	handler.AttachScheduler(scheduler)
	if err := scheduler.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}

	router := cronsim.NewRouter(handler, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", *port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	logger.Infof("cronsim listening on port %s - Press Ctrl+C to stop.", *port)

	<-stop
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	scheduler.Stop()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}

	logger.Info("Server stopped")
}
