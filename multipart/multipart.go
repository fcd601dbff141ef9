// Package multipart implements a streaming multipart/form-data decoder.
//
// The decoder reads the body line by line, keeps small file parts in
// memory and spills large ones to disk. It can be driven eagerly with
// ReadAll or lazily with Next; a decoder instance is single use.
package multipart

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"strings"

	"github.com/mvannes/basalt/filesystem"
)

var (
	ErrMissingBoundary        = errors.New("multipart: missing or invalid boundary parameter")
	ErrMalformedBody          = errors.New("multipart: malformed body")
	ErrUnexpectedEOF          = errors.New("multipart: unexpected end of input")
	ErrEntityTooLarge         = errors.New("multipart: entity too large")
	ErrUnsupportedContentType = errors.New("multipart: unsupported content type")
	ErrAlreadyConsumed        = errors.New("multipart: decoder is already being read")
)

const (
	// DefaultReadAllBufferSize is the chunk size requested from the source
	// per read in eager mode.
	DefaultReadAllBufferSize = 1024 * 1024

	// DefaultStreamBufferSize is the chunk size used in streaming mode.
	DefaultStreamBufferSize = 64 * 1024
)

type options struct {
	bufferSize   int
	maxFileSize  int64
	maxMemory    int64
	outDir       string
	prefix       string
	contentTypes map[string]string
	logger       *slog.Logger
	fs           filesystem.Filesystem
}

type Option func(*options)

// WithBufferSize sets the chunk size requested from the source per read.
func WithBufferSize(size int) Option {
	return func(o *options) { o.bufferSize = size }
}

// WithMaxFileSize bounds the total size of a single file part. A part
// exceeding the limit fails the decode with ErrEntityTooLarge.
func WithMaxFileSize(size int64) Option {
	return func(o *options) { o.maxFileSize = size }
}

// WithMaxMemory sets the byte threshold under which a file part is kept
// fully in memory. The default of 0 spills every non-empty file part.
func WithMaxMemory(size int64) Option {
	return func(o *options) { o.maxMemory = size }
}

// WithOutDir sets the directory for spilled files. The directory is
// created lazily, on the first spill. Defaults to os.TempDir().
func WithOutDir(dir string) Option {
	return func(o *options) { o.outDir = dir }
}

// WithPrefix sets a filename prefix for spilled files.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithContentTypes supplies extra content-type to file-extension mappings,
// consulted before the built-in table.
func WithContentTypes(types map[string]string) Option {
	return func(o *options) { o.contentTypes = types }
}

// WithLogger sets the logger used when a spill target cannot be opened.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithFilesystem sets the filesystem spilled files go through. Defaults
// to the local filesystem.
func WithFilesystem(fs filesystem.Filesystem) Option {
	return func(o *options) { o.fs = fs }
}

// ParseBoundary extracts the boundary parameter from a Content-Type
// header value such as "multipart/form-data; boundary=xyz".
func ParseBoundary(contentType string) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMissingBoundary, contentType)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return "", fmt.Errorf("%w: %q is not a multipart media type", ErrMissingBoundary, mediaType)
	}
	boundary, ok := params["boundary"]
	if !ok || boundary == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingBoundary, contentType)
	}
	return boundary, nil
}

type decodeMode int

const (
	modeIdle decodeMode = iota
	modeEager
	modeStream
)

// Decoder turns a raw byte stream plus a boundary into a sequence of
// named fields and files. Each instance owns its own buffer, position
// and boundary strings; it is not safe for concurrent use and cannot
// be rewound.
type Decoder struct {
	lines    *lineReader
	boundary boundaryMatcher
	opts     options

	mode    decodeMode
	started bool
	done    bool
	err     error
}

func NewDecoder(r io.Reader, boundary string, opts ...Option) *Decoder {
	o := options{
		outDir: os.TempDir(),
		logger: slog.Default(),
		fs:     filesystem.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	lines := newLineReader(r)
	if o.bufferSize > 0 {
		lines.bufferSize = o.bufferSize
	}

	return &Decoder{
		lines:    lines,
		boundary: newBoundaryMatcher(boundary),
		opts:     o,
	}
}

// NewDecoderContentType builds a decoder from a full Content-Type header
// value instead of a bare boundary.
func NewDecoderContentType(r io.Reader, contentType string, opts ...Option) (*Decoder, error) {
	boundary, err := ParseBoundary(contentType)
	if err != nil {
		return nil, err
	}
	return NewDecoder(r, boundary, opts...), nil
}
