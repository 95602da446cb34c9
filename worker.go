package main

import (
	"errors"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Worker handles the single request of one connection
type Worker struct {
	cfg      *Config
	registry *Registry
	resolver *PathResolver
	log      zerolog.Logger

	conn    net.Conn
	peer    string
	created time.Time
	reader  *RequestReader
	writer  *ResponseWriter

	req     *Request
	file    ResolvedFile
	outcome Outcome
	detail  string // logged with error responses
}

type stateFunc func(*Worker) stateFunc

func NewWorker(cfg *Config, registry *Registry, log zerolog.Logger) *Worker {
	return &Worker{
		cfg:      cfg,
		registry: registry,
		resolver: NewPathResolver(cfg),
		log:      log,
	}
}

func peerHost(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

// Start runs the worker to completion. The worker takes the ownership of
// |conn| and always closes it.
func (w *Worker) Start(conn net.Conn) {
	w.conn = conn
	w.created = time.Now()
	w.peer = peerHost(conn.RemoteAddr())
	w.log = w.log.With().Str("peer", w.peer).Logger()
	w.registry.Open(w.peer)

	w.reader = NewRequestReader(conn)
	w.writer = NewResponseWriter(conn, w.cfg.IdleTimeout, w.log)

	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Msg("server error")
		}
		w.finish()
	}()

	for state := waitForRequest; state != nil; {
		state = state(w)
	}
}

func (w *Worker) finish() {
	if err := w.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		w.log.Warn().Err(err).Msg("error closing connection")
	}
	w.registry.Close(w.peer)
	w.log.Debug().Dur("elapsed", time.Since(w.created)).Msg("worker finished")
}

func (w *Worker) fail(o Outcome, detail string) stateFunc {
	w.outcome = o
	w.detail = detail
	return sendErrorResponse
}

// state funcs

func waitForRequest(w *Worker) stateFunc {
	req, err := w.reader.ReadRequest()
	if err != nil {
		if errors.Is(err, ErrInvalidRequestLine) {
			return w.fail(BadRequest, w.reader.Line)
		}
		w.log.Error().Err(err).Msg("server error")
		return nil
	}
	w.req = req
	return requestReceived
}

func requestReceived(w *Worker) stateFunc {
	req := w.req
	w.log.Debug().Str("method", req.Method).Str("file_name", req.Target).Msg("request")

	if !strings.EqualFold(req.Method, "GET") {
		if w.cfg.StrictMethods {
			return w.fail(MethodNotSupported, req.Method)
		}
		return w.fail(BadRequest, req.Method)
	}
	if !isFileSupported(req.Target) {
		return w.fail(BadRequest, req.Target)
	}

	if w.cfg.Confine && !w.resolver.Contains(w.resolver.Candidate(req.Target)) {
		return w.fail(Forbidden, req.Target)
	}
	w.file = w.resolver.Stat(req.Target)
	if !w.file.Exists {
		return w.fail(NotFound, req.Target)
	}
	if !w.file.Readable {
		return w.fail(Forbidden, req.Target)
	}
	return serveFile
}

func serveFile(w *Worker) stateFunc {
	w.log.Debug().Str("file", w.file.Path).Str("type", w.file.Type).Msg("file opened")
	if err := w.writer.Serve(w.file.Path, OK.StatusLine(), w.cfg.Protocol); err != nil {
		w.log.Error().Err(err).Msg("serve failed")
		return nil
	}
	if w.cfg.Protocol == HTTP10 {
		return drain
	}
	return nil
}

// drain holds an HTTP/1.0 connection open without further I/O.
func drain(w *Worker) stateFunc {
	time.Sleep(w.cfg.DrainDelay)
	w.log.Info().Msg("connection closed for HTTP/1.0")
	return nil
}

func sendErrorResponse(w *Worker) stateFunc {
	status := w.outcome.StatusLine()
	w.log.Warn().Str("status", status).Str("detail", w.detail).Msg(w.outcome.String())

	asset, ok := w.outcome.Asset()
	if !ok {
		return nil
	}
	// Error pages always go out as HTTP/1.1, so they never get the
	// HTTP/1.0 idle deadline.
	path := filepath.Join(w.cfg.DocumentRoot, filepath.FromSlash(asset))
	if err := w.writer.Serve(path, status, HTTP11); err != nil {
		w.log.Error().Err(err).Msg("serve failed")
	}
	return nil
}
