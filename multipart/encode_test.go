package multipart

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriterRoundTrip(t *testing.T) {
	var body bytes.Buffer
	w := NewWriter(&body)

	if err := w.WriteField("description", "quarterly numbers"); err != nil {
		t.Fatalf("WriteField failed: %v", err)
	}
	if err := w.WriteField("multi", "line1\nline2"); err != nil {
		t.Fatalf("WriteField failed: %v", err)
	}
	if err := w.WriteFile("report", "日本語.txt", "text/plain", strings.NewReader("file body")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	form, err := NewDecoder(&body, w.Boundary(), WithMaxMemory(1024)).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	wantFields := map[string]string{
		"description": "quarterly numbers",
		"multi":       "line1\nline2",
	}
	if diff := cmp.Diff(wantFields, form.Fields); diff != "" {
		t.Errorf("Fields mismatch (-want +got):\n%s", diff)
	}

	if len(form.Files) != 1 {
		t.Fatalf("Expected 1 file, got %d", len(form.Files))
	}
	file := form.Files[0]
	if file.Name != "report" || file.Filename != "日本語.txt" || file.ContentType != "text/plain" {
		t.Errorf("Unexpected file metadata: %+v", file)
	}
	if string(file.Content) != "file body" {
		t.Errorf("Expected content 'file body', got %q", file.Content)
	}
}

func TestWriterEscapesQuotes(t *testing.T) {
	var body bytes.Buffer
	w := NewWriter(&body)

	if err := w.WriteFile("f", `she said "hi"`, "text/plain", strings.NewReader("x")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	form, err := NewDecoder(&body, w.Boundary(), WithMaxMemory(1024)).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if form.Files[0].Filename != `she said "hi"` {
		t.Errorf("Expected escaped filename to round-trip, got %q", form.Files[0].Filename)
	}
}

func TestWriterSemicolonFilenameRoundTrip(t *testing.T) {
	var body bytes.Buffer
	w := NewWriter(&body)

	if err := w.WriteFile("f", "a;b.txt", "text/plain", strings.NewReader("x")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	form, err := NewDecoder(&body, w.Boundary(), WithMaxMemory(1024)).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if form.Files[0].Filename != "a;b.txt" {
		t.Errorf("Expected filename 'a;b.txt' to round-trip, got %q", form.Files[0].Filename)
	}
}

func TestWriterSetBoundary(t *testing.T) {
	var body bytes.Buffer
	w := NewWriter(&body)

	if err := w.SetBoundary("custom"); err != nil {
		t.Fatalf("SetBoundary failed: %v", err)
	}
	if w.FormContentType() != "multipart/form-data; boundary=custom" {
		t.Errorf("Unexpected content type: %q", w.FormContentType())
	}
	if err := w.SetBoundary(""); err == nil {
		t.Error("Expected an error for an empty boundary")
	}
}

func TestWriterClosed(t *testing.T) {
	var body bytes.Buffer
	w := NewWriter(&body)

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.WriteField("a", "b"); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("Expected ErrWriterClosed, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Expected second Close to be a no-op, got %v", err)
	}
}
