package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ixlander/ai-mcp-agent/src/agent"
	"github.com/ixlander/ai-mcp-agent/src/config"
	"github.com/ixlander/ai-mcp-agent/src/logging"
	"github.com/ixlander/ai-mcp-agent/src/transports/stdio"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		println("failed to load config:", err.Error())
		os.Exit(1)
	}

	log, flush := logging.New(
		logging.WithLevel(cfg.LogLevel),
		logging.WithFilename(cfg.LogFile),
		logging.WithServiceName("agent"),
	)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc, err := stdio.StartServer(ctx, cfg.ServerCommand, map[string]string{
		"AGENT_CATALOG_PATH": cfg.CatalogPath,
	})
	if err != nil {
		log.Fatalf("failed to start product server: %v", err)
	}
	defer proc.Close()
	go forwardStderr(proc, log.Infof)

	transport := proc.Transport(
		stdio.WithTimeout(cfg.CallTimeout()),
		stdio.WithLogger(log.Debugf),
	)
	ag := agent.New(transport, agent.WithLogger(log.Infof))

	log.Infof("agent API listening on %s", cfg.ListenAddr)
	if err := ag.ServeHTTP(ctx, cfg.ListenAddr); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
	log.Infof("agent shut down")
}

func forwardStderr(proc *stdio.ServerProcess, logf func(string, ...interface{})) {
	scanner := bufio.NewScanner(proc.Stderr())
	for scanner.Scan() {
		logf("product-server: %s", scanner.Text())
	}
}
