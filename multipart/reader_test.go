package multipart

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func readLines(t *testing.T, lr *lineReader) []string {
	t.Helper()

	var lines []string
	for {
		line, err := lr.next()
		if line != nil {
			lines = append(lines, string(line))
		}
		if errors.Is(err, io.EOF) {
			return lines
		}
		if err != nil {
			t.Fatalf("next failed: %v", err)
		}
	}
}

func TestLineReaderSplitsOnCRLF(t *testing.T) {
	lr := newLineReader(strings.NewReader("ab\r\ncd\r\n"))

	lines := readLines(t, lr)
	if len(lines) != 2 || lines[0] != "ab\r\n" || lines[1] != "cd\r\n" {
		t.Errorf("Unexpected lines: %q", lines)
	}
}

func TestLineReaderBareLF(t *testing.T) {
	lr := newLineReader(strings.NewReader("ab\ncd\n"))

	lines := readLines(t, lr)
	if len(lines) != 2 || lines[0] != "ab\n" || lines[1] != "cd\n" {
		t.Errorf("Unexpected lines: %q", lines)
	}
}

func TestLineReaderTrailingPartialLine(t *testing.T) {
	lr := newLineReader(strings.NewReader("ab\r\ncd"))

	line, err := lr.next()
	if err != nil || string(line) != "ab\r\n" {
		t.Fatalf("Expected first line 'ab\\r\\n', got %q, %v", line, err)
	}

	line, err = lr.next()
	if !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF with the partial line, got %v", err)
	}
	if string(line) != "cd" {
		t.Errorf("Expected partial line 'cd', got %q", line)
	}

	line, err = lr.next()
	if line != nil || !errors.Is(err, io.EOF) {
		t.Errorf("Expected bare io.EOF after drain, got %q, %v", line, err)
	}
}

func TestLineReaderEmptyInput(t *testing.T) {
	lr := newLineReader(strings.NewReader(""))

	line, err := lr.next()
	if line != nil || !errors.Is(err, io.EOF) {
		t.Errorf("Expected bare io.EOF, got %q, %v", line, err)
	}
}

func TestLineReaderLineSpanningManyReads(t *testing.T) {
	input := strings.Repeat("x", 300) + "\r\ntail\r\n"
	lr := newLineReader(iotest.OneByteReader(strings.NewReader(input)))
	lr.bufferSize = 16

	lines := readLines(t, lr)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if len(lines[0]) != 302 {
		t.Errorf("Expected long line of 302 bytes, got %d", len(lines[0]))
	}
	if lines[1] != "tail\r\n" {
		t.Errorf("Expected 'tail\\r\\n', got %q", lines[1])
	}
}

func TestLineReaderSourceError(t *testing.T) {
	wrapped := io.MultiReader(strings.NewReader("ok\r\n"), iotest.ErrReader(errors.New("connection reset")))
	lr := newLineReader(wrapped)

	line, err := lr.next()
	if err != nil || string(line) != "ok\r\n" {
		t.Fatalf("Expected first line, got %q, %v", line, err)
	}

	_, err = lr.next()
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("Expected ErrUnexpectedEOF for a failing source, got %v", err)
	}
}

func TestTrimEOL(t *testing.T) {
	cases := map[string]string{
		"abc\r\n": "abc",
		"abc\n":   "abc",
		"abc":     "abc",
		"abc\r":   "abc\r",
		"\r\n":    "",
		"\n":      "",
		"":        "",
	}
	for input, want := range cases {
		if got := string(trimEOL([]byte(input))); got != want {
			t.Errorf("trimEOL(%q): expected %q, got %q", input, want, got)
		}
	}
}
