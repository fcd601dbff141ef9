package multipart

import (
	"fmt"
	"mime"
	"strings"
)

// builtinExtensions maps a content type to the extension given to its
// spilled file. Callers extend or override it with WithContentTypes.
var builtinExtensions = map[string]string{
	"text/plain":               "txt",
	"text/html":                "html",
	"text/css":                 "css",
	"text/csv":                 "csv",
	"text/javascript":          "js",
	"text/xml":                 "xml",
	"text/markdown":            "md",
	"application/json":         "json",
	"application/xml":          "xml",
	"application/octet-stream": "bin",
	"application/pdf":          "pdf",
	"application/zip":          "zip",
	"application/gzip":         "gz",
	"application/x-tar":        "tar",
	"application/wasm":         "wasm",
	"image/png":                "png",
	"image/jpeg":               "jpg",
	"image/gif":                "gif",
	"image/webp":               "webp",
	"image/svg+xml":            "svg",
	"image/bmp":                "bmp",
	"image/tiff":               "tiff",
	"image/avif":               "avif",
	"audio/mpeg":               "mp3",
	"audio/wav":                "wav",
	"audio/ogg":                "ogg",
	"video/mp4":                "mp4",
	"video/webm":               "webm",
	"video/mpeg":               "mpeg",
	"font/woff":                "woff",
	"font/woff2":               "woff2",
}

func (o *options) extension(contentType string) (string, error) {
	normalized := contentType
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		normalized = mediaType
	}
	normalized = strings.ToLower(normalized)

	if ext, ok := o.contentTypes[normalized]; ok {
		return ext, nil
	}
	if ext, ok := builtinExtensions[normalized]; ok {
		return ext, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
}
