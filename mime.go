package main

import "mime"

const unknownContentType = "application/octet-stream"

var contentTypes = map[string]string{
	".html": "text/html",
	".txt":  "text/plain",
	".css":  "text/css",
	".js":   "text/javascript",
	".json": "application/json",
	".pdf":  "application/pdf",
	".gif":  "image/gif",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".mp4":  "video/mp4",
}

// contentType never fails: unknown extensions fall back to the system mime
// table and then to a generic binary type.
func contentType(path string) string {
	ext := fileExt(path)
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	return unknownContentType
}
