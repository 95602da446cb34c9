package main

import (
	"errors"
	"strings"
	"testing"
)

func ExpectEqual(t *testing.T, expect, actual string) {
	t.Helper()
	if expect != actual {
		t.Errorf("Got %q, want %q", actual, expect)
	}
}

func TestRequestReader(t *testing.T) {
	r := NewRequestReader(strings.NewReader("GET /index.html HTTP/1.1\r\nHost: localhost\r\n\r\n"))
	req, err := r.ReadRequest()
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	ExpectEqual(t, "GET", req.Method)
	ExpectEqual(t, "/index.html", req.Target)
	ExpectEqual(t, "GET /index.html HTTP/1.1", r.Line)
}

func TestRequestReaderLines(t *testing.T) {
	tests := []struct {
		line   string
		method string
		target string
	}{
		{"GET / HTTP/1.0\r\n", "GET", "/"},
		{"GET /a.txt\r\n", "GET", "/a.txt"},
		{"GET /a.txt\n", "GET", "/a.txt"},
		{"get /a.txt HTTP/1.1 trailing tokens\r\n", "get", "/a.txt"},
		{"GET  /spaced.txt   HTTP/1.1\r\n", "GET", "/spaced.txt"},
		{"GET /my%20file.txt HTTP/1.1\r\n", "GET", "/my file.txt"},
		{"GET /a+b.txt HTTP/1.1\r\n", "GET", "/a+b.txt"},
		{"POST /upload.json HTTP/1.1\r\n", "POST", "/upload.json"},
		{"GET /no-newline.txt", "GET", "/no-newline.txt"},
	}
	for _, tt := range tests {
		req, err := NewRequestReader(strings.NewReader(tt.line)).ReadRequest()
		if err != nil {
			t.Errorf("%q: %v", tt.line, err)
			continue
		}
		ExpectEqual(t, tt.method, req.Method)
		ExpectEqual(t, tt.target, req.Target)
	}
}

func TestRequestReaderInvalid(t *testing.T) {
	for _, line := range []string{"", "\r\n", "GET\r\n", "   \r\n"} {
		_, err := NewRequestReader(strings.NewReader(line)).ReadRequest()
		if !errors.Is(err, ErrInvalidRequestLine) {
			t.Errorf("%q: got %v, want ErrInvalidRequestLine", line, err)
		}
	}

	long := "GET /" + strings.Repeat("a", maxRequestLine) + ".txt HTTP/1.1\r\n"
	r := NewRequestReader(strings.NewReader(long))
	if _, err := r.ReadRequest(); !errors.Is(err, ErrInvalidRequestLine) {
		t.Errorf("long line: got %v, want ErrInvalidRequestLine", err)
	}
	if len(r.Line) != maxRequestLine {
		t.Errorf("long line kept %d bytes, want %d", len(r.Line), maxRequestLine)
	}
}

func TestRequestReaderBadEscape(t *testing.T) {
	_, err := NewRequestReader(strings.NewReader("GET /bad%zz.txt HTTP/1.1\r\n")).ReadRequest()
	if err == nil {
		t.Fatal("no error for invalid escape")
	}
	if errors.Is(err, ErrInvalidRequestLine) {
		t.Errorf("invalid escape reported as a malformed line: %v", err)
	}
}
