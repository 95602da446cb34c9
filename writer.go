package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ErrAssetOpen means the file to be served could not be opened. Nothing has
// been written to the connection when it is returned.
var ErrAssetOpen = errors.New("cannot open file")

const (
	serverName = "Web-server"
	chunkSize  = 4096
)

// Used for the Date header. Can be mocked.
var now = time.Now

type Response struct {
	Version       string
	Status        string
	ContentType   string
	ContentLength int64
}

// WriteResponse writes the header block of res in a single Write.
func WriteResponse(w io.Writer, res *Response) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s\r\n", res.Version, res.Status)
	fmt.Fprintf(&buf, "Server: %s\r\n", serverName)
	fmt.Fprintf(&buf, "Date: %s\r\n", now().UTC().Format(http.TimeFormat))
	fmt.Fprintf(&buf, "Content-type: %s\r\n", res.ContentType)
	fmt.Fprintf(&buf, "Content-length: %d\r\n", res.ContentLength)
	buf.WriteString("\r\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// ResponseWriter serves whole files over one connection.
type ResponseWriter struct {
	conn        net.Conn
	idleTimeout time.Duration
	log         zerolog.Logger
}

func NewResponseWriter(conn net.Conn, idleTimeout time.Duration, log zerolog.Logger) *ResponseWriter {
	return &ResponseWriter{conn: conn, idleTimeout: idleTimeout, log: log}
}

// Serve sends the file at path with the given status line. The body goes
// out in chunkSize pieces, each written before the next is read. For
// HTTP/1.0 the connection gets an idle deadline once the headers are sent.
func (rw *ResponseWriter) Serve(path, status string, proto Protocol) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrAssetOpen, path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrAssetOpen, path, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w %s: is a directory", ErrAssetOpen, path)
	}

	res := &Response{
		Version:       proto.String(),
		Status:        status,
		ContentType:   contentType(path),
		ContentLength: fi.Size(),
	}
	if err := WriteResponse(rw.conn, res); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	if proto == HTTP10 {
		if err := rw.conn.SetDeadline(time.Now().Add(rw.idleTimeout)); err != nil {
			rw.log.Warn().Err(err).Msg("set deadline")
		}
	}

	n, err := rw.transferBody(f)
	rw.log.Debug().Str("file", path).Int64("bytes", n).Msg("body sent")
	return err
}

func (rw *ResponseWriter) transferBody(r io.Reader) (int64, error) {
	buf := make([]byte, chunkSize)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			m, werr := rw.conn.Write(buf[:n])
			total += int64(m)
			if werr != nil {
				return total, fmt.Errorf("failed to write body: %w", werr)
			}
			if m != n {
				return total, fmt.Errorf("failed to write body: %w", io.ErrShortWrite)
			}
		}
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, fmt.Errorf("failed to read body: %w", err)
		}
	}
}
