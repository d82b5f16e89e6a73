package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pixlet/internal/config"
	"pixlet/internal/server"
)

func main() {
	configPath := flag.String("config", "pixlet.json", "path to JSON config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, found, err := config.LoadOrDefault(*configPath)
	if err != nil {
		slog.Error("load config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddr = ":" + port
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)
	if !found {
		log.Info("config file not found, using defaults", "path", *configPath)
	}

	// Generate host key if it doesn't exist
	if err := ensureHostKey(cfg.HostKeyPath); err != nil {
		log.Error("host key", "path", cfg.HostKeyPath, "err", err)
		os.Exit(1)
	}

	srv := server.NewSSHServer(cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", "err", err)
		}
	}()

	log.Info("starting pixlet", "addr", cfg.ListenAddr, "grid", cfg.GridSize, "exports", cfg.ExportDir)
	if err := srv.Start(); err != nil {
		log.Error("ssh server", "err", err)
		os.Exit(1)
	}
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	slog.Info("generating new host key", "path", path)
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
