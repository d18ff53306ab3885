package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"resume-matcher/internal/bootstrap"
	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/server"
)

func main() {
	envFile := pflag.String("env-file", "", "Additional env file to load before .env")
	port := pflag.String("port", "", "Listen port (overrides PORT)")
	pflag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg := config.Load(envFiles...)
	if *port != "" {
		cfg.Port = *port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Starting API server on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
