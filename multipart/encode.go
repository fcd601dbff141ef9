package multipart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mvannes/basalt/uuid"
)

var ErrWriterClosed = errors.New("multipart: writer is closed")

// Writer serializes fields and files into a multipart/form-data body.
// Decoding the produced body with the same boundary reproduces the
// original fields and files.
type Writer struct {
	w        io.Writer
	boundary string
	closed   bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:        w,
		boundary: "basalt-" + uuid.NewV4().String(),
	}
}

func (w *Writer) Boundary() string {
	return w.boundary
}

// SetBoundary overrides the generated boundary. It must be called before
// the first part is written.
func (w *Writer) SetBoundary(boundary string) error {
	if boundary == "" {
		return fmt.Errorf("multipart: empty boundary")
	}
	w.boundary = boundary
	return nil
}

// FormContentType returns the Content-Type header value announcing the
// boundary, ready to be put on a request.
func (w *Writer) FormContentType() string {
	return "multipart/form-data; boundary=" + w.boundary
}

func (w *Writer) WriteField(name, value string) error {
	header := fmt.Sprintf("Content-Disposition: form-data; name=\"%s\"\r\n", escapeQuotes(name))
	return w.writePart(header, strings.NewReader(value))
}

func (w *Writer) WriteFile(name, filename, contentType string, content io.Reader) error {
	header := fmt.Sprintf("Content-Disposition: form-data; name=\"%s\"; filename=\"%s\"\r\nContent-Type: %s\r\n",
		escapeQuotes(name), escapeQuotes(filename), contentType)
	return w.writePart(header, content)
}

func (w *Writer) writePart(header string, content io.Reader) error {
	if w.closed {
		return ErrWriterClosed
	}
	if _, err := fmt.Fprintf(w.w, "--%s\r\n%s\r\n", w.boundary, header); err != nil {
		return err
	}
	if _, err := io.Copy(w.w, content); err != nil {
		return err
	}
	_, err := io.WriteString(w.w, "\r\n")
	return err
}

// Close writes the final boundary. The writer accepts no parts afterwards.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_, err := fmt.Fprintf(w.w, "--%s--\r\n", w.boundary)
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
