package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/RGisanEclipse/neuronote-go/internal/bootstrap"
	"github.com/RGisanEclipse/neuronote-go/internal/devserver"
	"github.com/RGisanEclipse/neuronote-go/internal/infra/config"
	"github.com/RGisanEclipse/neuronote-go/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slogger := logger.New()
	router := devserver.NewRouter(cfg.Stub, slogger)
	server := &http.Server{
		Addr:         cfg.Stub.Address,
		Handler:      router,
		ReadTimeout:  cfg.Stub.ReadTimeout,
		WriteTimeout: cfg.Stub.WriteTimeout,
	}

	app := bootstrap.NewApp(cfg, slogger, server)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("stub server stopped with error: %v", err)
	}
}
