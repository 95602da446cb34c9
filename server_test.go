package main

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func startServer(t *testing.T, cfg *Config) (string, *Server, <-chan error, context.CancelFunc) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(cfg, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, ln) }()
	t.Cleanup(cancel)
	return ln.Addr().String(), s, errCh, cancel
}

func fetch(t *testing.T, addr, request string) string {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))
	if _, err := io.WriteString(conn, request); err != nil {
		t.Fatal(err)
	}
	b, err := io.ReadAll(conn)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestServerServe(t *testing.T) {
	cfg := testConfig(newDocRoot(t))
	addr, _, _, _ := startServer(t, cfg)

	status, headers, body := splitResponse(t, fetch(t, addr, "GET /a.txt HTTP/1.1\r\n"))
	ExpectEqual(t, "HTTP/1.1 200 OK", status)
	ExpectEqual(t, "5", headers["Content-length"])
	ExpectEqual(t, "hello", body)

	status, _, body = splitResponse(t, fetch(t, addr, "POST /a.txt HTTP/1.1\r\n"))
	ExpectEqual(t, "HTTP/1.1 400 BadRequest", status)
	ExpectEqual(t, "bad request page", body)
}

func TestServerConcurrentClients(t *testing.T) {
	cfg := testConfig(newDocRoot(t))
	cfg.MaxConns = 3
	addr, s, _, _ := startServer(t, cfg)

	var wg sync.WaitGroup
	results := make([]string, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
			if err != nil {
				t.Error(err)
				return
			}
			defer conn.Close()
			conn.SetDeadline(time.Now().Add(10 * time.Second))
			io.WriteString(conn, "GET / HTTP/1.1\r\n")
			b, err := io.ReadAll(conn)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = string(b)
		}(i)
	}
	wg.Wait()

	for i, raw := range results {
		if raw == "" {
			continue
		}
		status, _, body := splitResponse(t, raw)
		if status != "HTTP/1.1 200 OK" || body != "<h1>index</h1>" {
			t.Errorf("client %d: got %q / %q", i, status, body)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for s.Registry().Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := s.Registry().Len(); n != 0 {
		t.Errorf("registry still holds %d peers", n)
	}
}

func TestServerHTTP10(t *testing.T) {
	cfg := testConfig(newDocRoot(t))
	cfg.Protocol = HTTP10
	addr, _, _, _ := startServer(t, cfg)

	start := time.Now()
	status, _, body := splitResponse(t, fetch(t, addr, "GET /a.txt HTTP/1.0\r\n"))
	ExpectEqual(t, "HTTP/1.0 200 OK", status)
	ExpectEqual(t, "hello", body)
	if elapsed := time.Since(start); elapsed < cfg.DrainDelay {
		t.Errorf("closed after %v, before the %v drain delay", elapsed, cfg.DrainDelay)
	}
}

func TestServerCancel(t *testing.T) {
	cfg := testConfig(newDocRoot(t))
	_, _, errCh, cancel := startServer(t, cfg)
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Serve returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServerAcceptTimeout(t *testing.T) {
	cfg := testConfig(newDocRoot(t))
	cfg.AcceptTimeout = 50 * time.Millisecond
	_, _, errCh, _ := startServer(t, cfg)
	select {
	case err := <-errCh:
		if !errors.Is(err, ErrAcceptTimeout) {
			t.Errorf("got %v, want ErrAcceptTimeout", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not time out")
	}
}

func TestServerAcceptTimeoutRearmed(t *testing.T) {
	cfg := testConfig(newDocRoot(t))
	cfg.AcceptTimeout = 300 * time.Millisecond
	addr, _, errCh, _ := startServer(t, cfg)

	// Connections arriving within the timeout keep the server alive past it.
	for i := 0; i < 4; i++ {
		time.Sleep(150 * time.Millisecond)
		fetch(t, addr, "GET /a.txt HTTP/1.1\r\n")
	}
	select {
	case err := <-errCh:
		t.Fatalf("server exited early: %v", err)
	default:
	}
}

type failingListener struct {
	net.Listener
	err error
}

func (l failingListener) Accept() (net.Conn, error) {
	return nil, l.err
}

func TestServerAcceptError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	cfg := testConfig(newDocRoot(t))
	err = NewServer(cfg, zerolog.Nop()).Serve(context.Background(), failingListener{ln, boom})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want boom", err)
	}
	if errors.Is(err, ErrAcceptTimeout) {
		t.Error("accept error reported as timeout")
	}
}

func TestServerListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	cfg := testConfig(newDocRoot(t))
	cfg.Port = ln.Addr().(*net.TCPAddr).Port
	cfg.AcceptTimeout = 100 * time.Millisecond
	err = NewServer(cfg, zerolog.Nop()).ListenAndServe(context.Background())
	if err == nil || errors.Is(err, ErrAcceptTimeout) {
		t.Errorf("listening on a taken port: got %v", err)
	}
}
