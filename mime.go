package eir

import "strings"

// DefaultMIME is the content type for unknown or missing extensions.
const DefaultMIME = "application/octet-stream"

// MimeTypes maps file extensions (dot included) to content types.
type MimeTypes map[string]string

// DefaultMimeTypes returns a fresh copy of the built-in table.
func DefaultMimeTypes() MimeTypes {
	return MimeTypes{
		".aac":   "audio/aac",
		".avi":   "video/x-msvideo",
		".conf":  "text/plain",
		".css":   "text/css",
		".gif":   "image/gif",
		".html":  "text/html",
		".htm":   "text/html",
		".ico":   "image/vnd.microsoft.icon",
		".ini":   "text/plain",
		".jpeg":  "image/jpeg",
		".jpg":   "image/jpeg",
		".js":    "text/javascript",
		".json":  "application/json",
		".mp3":   "audio/mpeg",
		".otf":   "font/otf",
		".pid":   "text/plain",
		".png":   "image/png",
		".sh":    "text/html",
		".svg":   "image/svg+xml",
		".ttf":   "font/ttf",
		".txt":   "text/plain",
		".woff":  "font/woff",
		".woff2": "font/woff2",
		".xhtml": "application/xhtml+xml",
		".xml":   "application/xml",
	}
}

// With returns a copy of m with extra merged in. Keys without a leading dot
// get one.
func (m MimeTypes) With(extra map[string]string) MimeTypes {
	out := make(MimeTypes, len(m)+len(extra))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range extra {
		if !strings.HasPrefix(k, ".") {
			k = "." + k
		}
		out[k] = v
	}
	return out
}

// Lookup returns the content type for ext, or DefaultMIME.
func (m MimeTypes) Lookup(ext string) string {
	if t, ok := m[ext]; ok {
		return t
	}
	return DefaultMIME
}
