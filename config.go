package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	ErrInvalidPort     = errors.New("port number must be between 8000 and 9999")
	ErrInvalidProtocol = errors.New("protocol should be either 1.1 or 1.0")
	ErrDocumentRoot    = errors.New("invalid document root")
)

const (
	minPort = 8000
	maxPort = 9999
)

type Protocol int

const (
	HTTP11 Protocol = iota
	HTTP10
)

func ParseProtocol(s string) (Protocol, error) {
	switch s {
	case "1.1":
		return HTTP11, nil
	case "1.0":
		return HTTP10, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidProtocol, s)
}

func (p Protocol) String() string {
	if p == HTTP10 {
		return "HTTP/1.0"
	}
	return "HTTP/1.1"
}

// Config is built once at startup and shared read-only by every worker.
type Config struct {
	DocumentRoot string
	Protocol     Protocol
	Port         int

	// IdleTimeout is the read/write deadline put on an HTTP/1.0 connection
	// once its response headers are out.
	IdleTimeout time.Duration
	// AcceptTimeout bounds each wait for a new connection. Expiry stops
	// the server.
	AcceptTimeout time.Duration
	// DrainDelay is how long an HTTP/1.0 connection is held after a
	// successful response.
	DrainDelay time.Duration

	// MaxConns caps concurrently running workers; 0 means no cap.
	MaxConns int
	// StrictMethods answers non-GET methods with 501 instead of 400.
	StrictMethods bool
	// Confine rejects targets that normalize to outside DocumentRoot.
	Confine bool
	Debug   bool
}

func DefaultConfig() Config {
	return Config{
		Protocol:      HTTP11,
		IdleTimeout:   10 * time.Second,
		AcceptTimeout: 500 * time.Second,
		DrainDelay:    2 * time.Second,
	}
}

// Validate checks the port range and makes DocumentRoot absolute, requiring
// it to be an existing, readable directory.
func (c *Config) Validate() error {
	if c.Port < minPort || c.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	if c.Protocol != HTTP10 && c.Protocol != HTTP11 {
		return ErrInvalidProtocol
	}
	if c.MaxConns < 0 {
		return fmt.Errorf("max connections must not be negative: %d", c.MaxConns)
	}
	return c.checkDocumentRoot()
}

func (c *Config) checkDocumentRoot() error {
	if c.DocumentRoot == "" {
		return fmt.Errorf("%w: empty path", ErrDocumentRoot)
	}
	abs, err := filepath.Abs(c.DocumentRoot)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentRoot, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: document root %s does not exist", ErrDocumentRoot, abs)
		}
		return fmt.Errorf("%w: %v", ErrDocumentRoot, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrDocumentRoot, abs)
	}
	d, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentRoot, err)
	}
	d.Close()
	c.DocumentRoot = abs
	return nil
}
