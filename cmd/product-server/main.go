package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ixlander/ai-mcp-agent/src/catalog"
	"github.com/ixlander/ai-mcp-agent/src/config"
	"github.com/ixlander/ai-mcp-agent/src/logging"
	"github.com/ixlander/ai-mcp-agent/src/toolserver"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		println("failed to load config:", err.Error())
		os.Exit(1)
	}

	// stdout carries the protocol stream; all logging goes to stderr.
	log, flush := logging.New(
		logging.WithLevel(cfg.LogLevel),
		logging.WithServiceName("product-server"),
		logging.WithStderrOnly(),
	)
	defer flush()

	store := catalog.NewStore(cfg.CatalogPath)
	if err := store.Load(); err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	log.Infof("loaded %d products from %s", len(store.List("")), cfg.CatalogPath)

	srv := toolserver.New(toolserver.WithLogger(log.Debugf))
	toolserver.RegisterCatalogTools(srv, store)
	toolserver.RegisterLocalTools(srv)
	log.Infof("serving tools: %v", srv.ToolNames())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = srv.Serve(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		log.Fatalf("serve failed: %v", err)
	}
	log.Infof("product server shut down")
}
