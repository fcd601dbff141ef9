package http

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mvannes/basalt/multipart"
)

func TestRequestMultipartForm(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("description", "holiday photos"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFile("photo", "beach.jpg", "image/jpeg", strings.NewReader("jpegdata")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	raw := httptest.NewRequest("POST", "/upload", &body)
	raw.Header.Set("Content-Type", w.FormContentType())

	form, err := NewRequest(raw).MultipartForm(multipart.WithMaxMemory(1 << 20))
	if err != nil {
		t.Fatalf("MultipartForm failed: %v", err)
	}
	if form.Fields["description"] != "holiday photos" {
		t.Errorf("Expected field 'holiday photos', got %q", form.Fields["description"])
	}
	if len(form.Files) != 1 {
		t.Fatalf("Expected 1 file, got %d", len(form.Files))
	}
	if form.Files[0].Filename != "beach.jpg" || string(form.Files[0].Content) != "jpegdata" {
		t.Errorf("Unexpected file: %+v", form.Files[0])
	}
}

func TestRequestMultipartStreaming(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, value := range []string{"one", "two", "three"} {
		if err := w.WriteField("item", value); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	raw := httptest.NewRequest("POST", "/upload", &body)
	raw.Header.Set("Content-Type", w.FormContentType())

	decoder, err := NewRequest(raw).Multipart()
	if err != nil {
		t.Fatalf("Multipart failed: %v", err)
	}

	var values []string
	for {
		part, err := decoder.Next()
		if err != nil {
			break
		}
		values = append(values, part.Value)
	}
	if len(values) != 3 || values[0] != "one" || values[2] != "three" {
		t.Errorf("Expected all duplicate fields in order, got %q", values)
	}
}

func TestRequestMultipartRejectsOtherContentTypes(t *testing.T) {
	raw := httptest.NewRequest("POST", "/upload", strings.NewReader(`{"a":1}`))
	raw.Header.Set("Content-Type", "application/json")

	if _, err := NewRequest(raw).Multipart(); !errors.Is(err, ErrNotMultipart) {
		t.Errorf("Expected ErrNotMultipart, got %v", err)
	}

	raw = httptest.NewRequest("POST", "/upload", strings.NewReader(""))
	if _, err := NewRequest(raw).Multipart(); !errors.Is(err, ErrNotMultipart) {
		t.Errorf("Expected ErrNotMultipart without a content type, got %v", err)
	}
}

func TestRequestMultipartMissingBoundary(t *testing.T) {
	raw := httptest.NewRequest("POST", "/upload", strings.NewReader(""))
	raw.Header.Set("Content-Type", "multipart/form-data")

	if _, err := NewRequest(raw).Multipart(); !errors.Is(err, multipart.ErrMissingBoundary) {
		t.Errorf("Expected ErrMissingBoundary, got %v", err)
	}
}

func TestRequestCookie(t *testing.T) {
	raw := httptest.NewRequest("GET", "/", nil)
	raw.Header.Set("Cookie", "session=abc123; theme=dark")

	request := NewRequest(raw)

	cookie, err := request.Cookie("theme")
	if err != nil {
		t.Fatalf("Cookie failed: %v", err)
	}
	if cookie.Value != "dark" {
		t.Errorf("Expected value 'dark', got %q", cookie.Value)
	}

	if _, err := request.Cookie("missing"); !errors.Is(err, ErrNoCookie) {
		t.Errorf("Expected ErrNoCookie, got %v", err)
	}
}
