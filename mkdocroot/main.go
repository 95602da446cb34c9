// mkdocroot lays out a document root for the server: the error pages it
// expects, a default index.html and optionally a generated sample file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	dir    = flag.String("dir", "", "document root to populate (required)")
	sample = flag.String("sample", "sample.txt", "name of the generated sample file")
	size   = flag.String("size", "", "size of the sample file, e.g. 30, 100k, 6m; empty for none")
	force  = flag.Bool("force", false, "overwrite existing pages")
)

var pages = map[string]string{
	"index.html":     page("Welcome", "It works."),
	"error/400.html": page("400 Bad Request", "The request could not be understood."),
	"error/403.html": page("403 Forbidden", "You do not have permission to read this file."),
	"error/404.html": page("404 Not Found", "The requested file could not be found."),
	"error/501.html": page("501 Not Implemented", "The request method is not supported."),
}

func page(title, body string) string {
	return fmt.Sprintf("<!DOCTYPE html>\n<html><head><title>%s</title></head>\n<body><h1>%s</h1><p>%s</p></body></html>\n",
		title, title, body)
}

func writePages(root string, overwrite bool, log zerolog.Logger) error {
	for name, content := range pages {
		path := filepath.Join(root, filepath.FromSlash(name))
		if _, err := os.Stat(path); err == nil && !overwrite {
			log.Debug().Str("file", path).Msg("exists, skipped")
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
		log.Info().Str("file", path).Msg("written")
	}
	return nil
}

func writeSample(path string, n int64) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return newAsciiChunk(f, n).writeAll()
}

func main() {
	flag.Parse()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "Error: -dir is required")
		flag.Usage()
		os.Exit(1)
	}
	if err := writePages(*dir, *force, log); err != nil {
		log.Fatal().Err(err).Msg("failed to write pages")
	}
	if *size == "" {
		return
	}
	n, err := sizeToInt(*size)
	if err != nil {
		log.Fatal().Err(err).Str("size", *size).Msg("invalid size")
	}
	path := filepath.Join(*dir, *sample)
	written, err := writeSample(path, n)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to write sample")
	}
	log.Info().Str("file", path).Int64("bytes", written).Msg("written")
}
