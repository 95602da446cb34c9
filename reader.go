package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

var ErrInvalidRequestLine = errors.New("invalid request line")

const maxRequestLine = 8 << 10

// RequestReader reads the request line of an HTTP request. Anything after
// the first line is left unread.
type RequestReader struct {
	r *bufio.Reader
	// Line is the raw request line once ReadRequest has been called.
	Line string
}

func NewRequestReader(r io.Reader) *RequestReader {
	var br *bufio.Reader
	if casted, ok := r.(*bufio.Reader); ok {
		br = casted
	} else {
		br = bufio.NewReader(r)
	}
	return &RequestReader{r: br}
}

// similar to readLineSlice() in net/textproto/reader.go
func (r *RequestReader) readLine() (string, error) {
	var line []byte
	for {
		l, more, err := r.r.ReadLine()
		if err != nil {
			return string(line), err
		}
		if line == nil && !more {
			return string(l), nil
		}
		line = append(line, l...)
		if len(line) > maxRequestLine {
			return string(line[:maxRequestLine]), fmt.Errorf("%w: longer than %d bytes", ErrInvalidRequestLine, maxRequestLine)
		}
		if !more {
			break
		}
	}
	return string(line), nil
}

// ReadRequest reads and splits the request line. A line with fewer than two
// fields, including an empty one at EOF, yields ErrInvalidRequestLine.
// Tokens past the target are ignored.
func (r *RequestReader) ReadRequest() (*Request, error) {
	line, err := r.readLine()
	r.Line = line
	if err != nil && !errors.Is(err, io.EOF) {
		if errors.Is(err, ErrInvalidRequestLine) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read request line: %w", err)
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRequestLine, line)
	}
	target, err := url.PathUnescape(fields[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode target %q: %w", fields[1], err)
	}
	return &Request{Method: fields[0], Target: target}, nil
}
