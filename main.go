package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var (
	documentRoot  = flag.String("document_root", "", "path to the document root (required)")
	port          = flag.Int("port", 0, "port number, 8000-9999 (required)")
	protocol      = flag.String("protocol", "1.1", "HTTP version, 1.0 or 1.1")
	debug         = flag.Bool("debug", false, "log per-request debugging output")
	idleTimeout   = flag.Duration("timeout", 0, "idle timeout for HTTP/1.0 connections (default 10s)")
	acceptTimeout = flag.Duration("accept_timeout", 0, "stop the server after this long without a connection (default 500s)")
	maxConns      = flag.Int("max_conns", 0, "limit on concurrent connections, 0 for none")
	strictMethods = flag.Bool("strict_methods", false, "answer methods other than GET with 501")
	confine       = flag.Bool("confine", false, "forbid paths that resolve outside the document root")
)

func configFromFlags() (*Config, error) {
	cfg := DefaultConfig()
	p, err := ParseProtocol(*protocol)
	if err != nil {
		return nil, err
	}
	cfg.DocumentRoot = *documentRoot
	cfg.Port = *port
	cfg.Protocol = p
	cfg.Debug = *debug
	cfg.MaxConns = *maxConns
	cfg.StrictMethods = *strictMethods
	cfg.Confine = *confine
	if *idleTimeout > 0 {
		cfg.IdleTimeout = *idleTimeout
	}
	if *acceptTimeout > 0 {
		cfg.AcceptTimeout = *acceptTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	flag.Parse()

	cfg, err := configFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	log := newLogger(os.Stdout, cfg.Debug)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewServer(cfg, log).ListenAndServe(ctx); err != nil {
		log.Error().Err(err).Msg("server exited")
		stop()
		os.Exit(1)
	}
}
