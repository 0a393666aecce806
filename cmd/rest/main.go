package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"markov-qa-be/internal/bootstrap"
	"markov-qa-be/internal/config"
	"markov-qa-be/internal/server"
	"markov-qa-be/internal/tracer"
)

func main() {
	cfg := config.Load()

	shutdownTracer, err := tracer.InitTracer(context.Background(), cfg.Tracing)
	if err != nil {
		log.Printf("Warning: tracing disabled: %v", err)
	}
	defer shutdownTracer(context.Background())

	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	srv := server.New(cfg, container)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		container.Logger.Info("Server", "Shutting down", nil)
		if err := srv.Shutdown(); err != nil {
			container.Logger.Error("Server", "Shutdown failed", map[string]interface{}{"error": err})
		}
	}()

	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
