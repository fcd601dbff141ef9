package multipart

import (
	"bytes"
	"fmt"
	"io"
)

// lineReader incrementally buffers bytes from src and hands out one
// terminated line at a time. A partial line is retained across reads
// until its terminator arrives.
type lineReader struct {
	src        io.Reader
	buf        []byte
	pos        int // start of the next line
	scan       int // terminator search resumes here, never behind pos
	scratch    []byte
	bufferSize int
	eof        bool
}

func newLineReader(src io.Reader) *lineReader {
	return &lineReader{src: src}
}

// next returns the next line including its terminator. Lines end in LF,
// usually preceded by CR. At end of input any unterminated trailing bytes
// are returned once together with io.EOF; after that next returns io.EOF
// alone.
func (lr *lineReader) next() ([]byte, error) {
	for {
		// Resume the terminator search where the previous one stopped so
		// repeated scans of a growing buffer stay amortized linear.
		if i := bytes.IndexByte(lr.buf[lr.scan:], '\n'); i >= 0 {
			end := lr.scan + i + 1
			line := lr.buf[lr.pos:end]
			lr.pos = end
			lr.scan = end
			return line, nil
		}
		lr.scan = len(lr.buf)

		if lr.eof {
			if lr.pos < len(lr.buf) {
				line := lr.buf[lr.pos:]
				lr.pos = len(lr.buf)
				return line, io.EOF
			}
			return nil, io.EOF
		}

		if err := lr.fill(); err != nil {
			return nil, err
		}
	}
}

func (lr *lineReader) fill() error {
	// Drop the consumed prefix before growing the buffer.
	if lr.pos > 0 {
		n := copy(lr.buf, lr.buf[lr.pos:])
		lr.buf = lr.buf[:n]
		lr.scan -= lr.pos
		lr.pos = 0
	}

	if lr.scratch == nil {
		if lr.bufferSize <= 0 {
			lr.bufferSize = DefaultStreamBufferSize
		}
		lr.scratch = make([]byte, lr.bufferSize)
	}

	n, err := lr.src.Read(lr.scratch)
	if n > 0 {
		lr.buf = append(lr.buf, lr.scratch[:n]...)
	}
	if err == io.EOF {
		lr.eof = true
		return nil
	}
	if err != nil {
		// A failing source mid-decode is indistinguishable from a
		// truncated body as far as the caller is concerned.
		return fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}
	return nil
}

// trimEOL strips one trailing LF or CRLF.
func trimEOL(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}
