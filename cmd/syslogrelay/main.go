package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coffersTech/syslogkit/internal/relay"
	"github.com/coffersTech/syslogkit/internal/spool"
)

func main() {
	// Command-line flags
	configPath := flag.String("config", "relay.toml", "Path to the relay config file")
	listenAddr := flag.String("listen", "", "Override the configured listen address")
	flag.Parse()

	cfg, err := relay.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	log.Printf("syslogkit relay v%s starting...", relay.Version)

	// 1. Open the disk spool
	sp, err := spool.New(cfg.SpoolDir)
	if err != nil {
		log.Fatalf("Failed to open spool at %s: %v", cfg.SpoolDir, err)
	}
	log.Printf("Spool ready at %s (retention %s)", cfg.SpoolDir, cfg.SpoolRetention)

	// 2. Forwarder to the upstream collector
	fw := relay.NewForwarder(cfg.UpstreamNetwork, cfg.UpstreamAddr, sp)
	log.Printf("Forwarding to %s://%s", cfg.UpstreamNetwork, cfg.UpstreamAddr)

	stopPurger := make(chan struct{})
	go fw.RunPurger(cfg.Retention(), time.Hour, stopPurger)

	// 3. HTTP ingest server
	srv := relay.NewServer(cfg, fw)
	go func() {
		log.Printf("Listening on %s", cfg.ListenAddr)
		if err := srv.Start(); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// 4. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("Received signal: %v. Shutting down...", sig)
	close(stopPurger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Flushing spool to disk...")
	if err := fw.Close(); err != nil {
		log.Printf("Final flush failed: %v", err)
	}

	log.Println("Relay exited gracefully.")
}
