package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wavetune/wavetune"
	"github.com/wavetune/wavetune/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	configURL := flag.String("config", "config.yaml", "configuration URL (any afs scheme)")
	flag.Parse()

	if err := run(*configURL); err != nil {
		log.Fatalf("wavetune failed: %v", err)
	}
}

func run(configURL string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx, configURL)
	if err != nil {
		return err
	}

	var options []wavetune.Option
	options = append(options, wavetune.WithConfig(cfg))
	if cfg.Tracing.Enabled {
		options = append(options, wavetune.WithTracing("wavetune", "0.1.0", cfg.Tracing.OutputFile))
	}

	srv, err := wavetune.New(options...)
	if err != nil {
		return err
	}

	runtime := srv.Runtime()
	if err := runtime.Start(ctx); err != nil {
		return err
	}
	log.Println("gesture control started, show a pose and confirm with a closed fist")

	<-ctx.Done()
	log.Println("shutting down")
	return runtime.Shutdown(context.Background())
}
