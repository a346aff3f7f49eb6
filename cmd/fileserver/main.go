package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"example.com/fileserver/internal/config"
	"example.com/fileserver/internal/logger"
	"example.com/fileserver/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configFilePath string
	flag.StringVar(&configFilePath, "config", "", "Path to an optional TOML configuration file")
	flag.Parse()

	cfg, err := config.Load(configFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log := logger.New(cfg.LogFile)
	defer log.Close()

	log.Info("Starting HTTP file server", logger.LogFields{
		"serve_directory": cfg.Root,
		"port":            cfg.Port,
		"bind_address":    cfg.BindAddr,
		"base_path":       cfg.BasePath,
		"chunk_size":      humanize.IBytes(uint64(cfg.ChunkSize)),
	})

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Error("Failed to start server", logger.LogFields{"error": err.Error()})
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error("Server failed", logger.LogFields{"error": err.Error()})
		return 1
	}

	log.Info("File server terminated", nil)
	return 0
}
