package multipart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvannes/basalt/uuid"
)

// partAccumulator collects the body of one part. A part with a
// Content-Type header is a file part; its bytes stay in an in-memory
// buffer until the running size crosses the memory threshold, after
// which everything moves to a freshly created spill file. A part never
// keeps both representations past the spill point.
type partAccumulator struct {
	d           *Decoder
	disp        disposition
	contentType string

	value bytes.Buffer // field parts, lines joined by \n

	mem        bytes.Buffer
	file       *os.File
	path       string
	size       int64
	pending    [2]byte // terminator of the previous line, not yet committed
	pendingLen int
	dropped    bool // spill target could not be opened, part data discarded
}

// readPartBody consumes body lines until a boundary line and classifies
// the accumulated content per the part's headers. The returned part is
// nil when the part was dropped over a spill permission failure.
func (d *Decoder) readPartBody(headers PartHeaders, disp disposition) (*Part, boundaryKind, error) {
	acc := partAccumulator{
		d:           d,
		disp:        disp,
		contentType: headers.Get("content-type"),
	}
	isFile := acc.contentType != ""
	firstLine := true

	for {
		line, err := d.lines.next()

		if kind := d.boundary.classify(line); kind != boundaryNone {
			// The terminator held in pending belongs to the framing,
			// not to the content. Dropping it here is what keeps an
			// uploaded file from gaining a spurious trailing newline.
			return acc.finish(isFile, kind)
		}
		if err != nil {
			acc.discard()
			if errors.Is(err, io.EOF) {
				return nil, boundaryNone, fmt.Errorf("%w: body ended before a boundary for part %q", ErrUnexpectedEOF, disp.name)
			}
			return nil, boundaryNone, err
		}

		content := trimEOL(line)
		if isFile {
			if err := acc.appendFileLine(content, line); err != nil {
				acc.discard()
				return nil, boundaryNone, err
			}
		} else {
			if !firstLine {
				acc.value.WriteByte('\n')
			}
			acc.value.Write(content)
		}
		firstLine = false
	}
}

func (acc *partAccumulator) appendFileLine(content, raw []byte) error {
	if acc.pendingLen > 0 {
		if err := acc.write(acc.pending[:acc.pendingLen]); err != nil {
			return err
		}
	}
	if err := acc.write(content); err != nil {
		return err
	}
	acc.pendingLen = copy(acc.pending[:], raw[len(content):])
	return nil
}

func (acc *partAccumulator) write(p []byte) error {
	if len(p) == 0 {
		return nil
	}

	acc.size += int64(len(p))
	if max := acc.d.opts.maxFileSize; max > 0 && acc.size > max {
		return fmt.Errorf("%w: part %q exceeds %d bytes", ErrEntityTooLarge, acc.disp.name, max)
	}
	if acc.dropped {
		return nil
	}

	if acc.file == nil && acc.size > acc.d.opts.maxMemory {
		if err := acc.spill(); err != nil {
			return err
		}
		if acc.dropped {
			return nil
		}
	}

	if acc.file != nil {
		if _, err := acc.file.Write(p); err != nil {
			return fmt.Errorf("multipart: writing spill file: %w", err)
		}
		return nil
	}

	acc.mem.Write(p)
	return nil
}

// spill opens the spill target and flushes the buffered bytes into it.
// A permission failure here is an environment problem, not a malformed
// request: it is logged and the part is dropped, and the decode goes on.
func (acc *partAccumulator) spill() error {
	ext, err := acc.d.opts.extension(acc.contentType)
	if err != nil {
		return err
	}

	dir := acc.d.opts.outDir
	if err := acc.d.opts.fs.CreateDirectory(dir); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			acc.drop(err)
			return nil
		}
		return fmt.Errorf("multipart: creating spill directory: %w", err)
	}

	name := acc.d.opts.prefix + uuid.NewV4().String() + "." + ext
	path := filepath.Join(dir, name)

	// Create-exclusive so a concurrent decode reusing the directory can
	// never end up sharing a file; names are random and never reused.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			acc.drop(err)
			return nil
		}
		return fmt.Errorf("multipart: opening spill file: %w", err)
	}

	if acc.mem.Len() > 0 {
		if _, err := f.Write(acc.mem.Bytes()); err != nil {
			f.Close()
			os.Remove(path)
			return fmt.Errorf("multipart: flushing buffered part: %w", err)
		}
	}
	acc.mem.Reset()
	acc.file = f
	acc.path = path
	return nil
}

func (acc *partAccumulator) drop(cause error) {
	acc.d.opts.logger.Error("multipart: cannot open spill target, dropping part",
		"part", acc.disp.name,
		"dir", acc.d.opts.outDir,
		"error", cause)
	acc.dropped = true
	acc.mem.Reset()
}

// discard removes a partially written spill file on an error path.
func (acc *partAccumulator) discard() {
	if acc.file == nil {
		return
	}
	acc.file.Close()
	if err := acc.d.opts.fs.DeleteFile(acc.path); err != nil {
		acc.d.opts.logger.Warn("multipart: cannot remove partial spill file",
			"path", acc.path, "error", err)
	}
	acc.file = nil
	acc.path = ""
}

func (acc *partAccumulator) finish(isFile bool, kind boundaryKind) (*Part, boundaryKind, error) {
	if !isFile {
		return &Part{Name: acc.disp.name, Value: acc.value.String()}, kind, nil
	}
	if acc.dropped {
		return nil, kind, nil
	}

	file := File{
		Name:        acc.disp.name,
		Filename:    acc.disp.filename,
		ContentType: normalizeContentType(acc.contentType),
		Size:        acc.size,
	}
	if acc.file != nil {
		if err := acc.file.Close(); err != nil {
			acc.d.opts.fs.DeleteFile(acc.path)
			return nil, kind, fmt.Errorf("multipart: closing spill file: %w", err)
		}
		file.Path = acc.path
	} else {
		// A zero-byte part still carries a non-nil Content so exactly
		// one of Content and Path is populated.
		file.Content = append([]byte{}, acc.mem.Bytes()...)
	}
	return &Part{Name: acc.disp.name, File: &file}, kind, nil
}

func normalizeContentType(contentType string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	return strings.TrimSpace(contentType)
}
