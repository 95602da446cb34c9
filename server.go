package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
)

var ErrAcceptTimeout = errors.New("no connection within accept timeout")

type Server struct {
	cfg      *Config
	registry *Registry
	log      zerolog.Logger
	sem      chan struct{} // nil when MaxConns is 0
}

func NewServer(cfg *Config, log zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		registry: NewRegistry(log),
		log:      log,
	}
	if cfg.MaxConns > 0 {
		s.sem = make(chan struct{}, cfg.MaxConns)
	}
	return s
}

func (s *Server) Registry() *Registry {
	return s.registry
}

// ListenAndServe binds every local interface on the configured port.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.cfg.Port, err)
	}
	return s.Serve(ctx, ln)
}

type deadliner interface {
	SetDeadline(time.Time) error
}

// Serve accepts connections on ln until ctx is done, the accept timeout
// expires, or Accept fails. Each connection runs in its own goroutine and
// is not waited for. Serve closes ln and returns nil only for ctx.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-stop:
		}
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Str("protocol", s.cfg.Protocol.String()).
		Str("root", s.cfg.DocumentRoot).Msg("server started")

	dl, canDeadline := ln.(deadliner)
	for {
		if canDeadline && s.cfg.AcceptTimeout > 0 {
			if err := dl.SetDeadline(time.Now().Add(s.cfg.AcceptTimeout)); err != nil {
				return fmt.Errorf("failed to set accept deadline: %w", err)
			}
		}
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info().Msg("server stopped")
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.Error().Dur("timeout", s.cfg.AcceptTimeout).Msg("accept timeout")
				return fmt.Errorf("%w: %v", ErrAcceptTimeout, err)
			}
			s.log.Error().Err(err).Msg("accept error")
			return fmt.Errorf("accept: %w", err)
		}
		if s.sem != nil {
			s.sem <- struct{}{}
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	if s.sem != nil {
		defer func() { <-s.sem }()
	}
	worker := NewWorker(s.cfg, s.registry, s.log)
	worker.Start(conn) // worker takes the ownership of |conn|
}
