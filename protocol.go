package main

import "strings"

// Request is what is left of a request line after parsing. Header lines are
// never read.
type Request struct {
	Method string
	Target string // percent-decoded
}

type Outcome int

const (
	OK Outcome = iota
	BadRequest
	Forbidden
	NotFound
	MethodNotSupported
)

var statusLines = map[Outcome]string{
	OK:                 "200 OK",
	BadRequest:         "400 BadRequest",
	Forbidden:          "403 Forbidden",
	NotFound:           "404 FileNotFound",
	MethodNotSupported: "501 NotImplemented",
}

// Error pages, relative to the document root.
var errorAssets = map[Outcome]string{
	BadRequest:         "error/400.html",
	Forbidden:          "error/403.html",
	NotFound:           "error/404.html",
	MethodNotSupported: "error/501.html",
}

func (o Outcome) StatusLine() string {
	return statusLines[o]
}

// Asset returns the error page for o. OK has none.
func (o Outcome) Asset() (string, bool) {
	a, ok := errorAssets[o]
	return a, ok
}

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case BadRequest:
		return "bad request"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "file not found"
	case MethodNotSupported:
		return "not implemented"
	}
	return "unknown"
}

const defaultFile = "index.html"

// "" is a target without an extension.
var supportedTypes = map[string]bool{
	".pdf":  true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".txt":  true,
	".gif":  true,
	".html": true,
	".mp4":  true,
	".json": true,
	".js":   true,
	".css":  true,
	"":      true,
}

// fileExt returns the extension of the last path element, dot included.
// Leading dots do not start an extension: "/.profile" has none.
func fileExt(p string) string {
	base := strings.TrimLeft(p[strings.LastIndex(p, "/")+1:], ".")
	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(base[i:])
}

func isFileSupported(target string) bool {
	return supportedTypes[fileExt(target)]
}
