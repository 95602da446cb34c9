package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Used to decide between 200 and 403. Can be mocked.
var checkReadable = func(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return !errors.Is(err, fs.ErrPermission)
	}
	f.Close()
	return true
}

// Can be mocked.
var statFile = os.Stat

// ResolvedFile is derived from a request target on every request and never
// cached.
type ResolvedFile struct {
	Path     string
	Exists   bool
	Readable bool
	Size     int64
	Type     string
}

type PathResolver struct {
	Root    string
	Default string
	// Confine makes Resolve reject paths that normalize outside Root.
	Confine bool
}

func NewPathResolver(cfg *Config) *PathResolver {
	return &PathResolver{
		Root:    cfg.DocumentRoot,
		Default: defaultFile,
		Confine: cfg.Confine,
	}
}

// Candidate maps target onto the document root without touching the
// filesystem. "/" becomes the default file; otherwise one leading slash is
// dropped and the join is cleaned. The result may lie outside Root.
func (p *PathResolver) Candidate(target string) string {
	name := p.Default
	if target != "/" {
		name = strings.TrimPrefix(target, "/")
	}
	return filepath.Join(p.Root, filepath.FromSlash(name))
}

// Contains reports whether path is Root or below it.
func (p *PathResolver) Contains(path string) bool {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (p *PathResolver) lookup(target string) (string, fs.FileInfo) {
	path := p.Candidate(target)
	fi, err := statFile(path)
	if err != nil {
		return path, nil
	}
	return path, fi
}

// Resolve returns the candidate path for target, or "" if nothing exists
// there.
func (p *PathResolver) Resolve(target string) string {
	path, fi := p.lookup(target)
	if fi == nil {
		return ""
	}
	return path
}

// Stat fills in a ResolvedFile for target from a single stat of the
// candidate path. Exists is false when Resolve would return "".
func (p *PathResolver) Stat(target string) ResolvedFile {
	path, fi := p.lookup(target)
	rf := ResolvedFile{Path: path}
	if fi == nil {
		return rf
	}
	rf.Exists = true
	rf.Readable = checkReadable(path)
	rf.Size = fi.Size()
	rf.Type = contentType(path)
	return rf
}
