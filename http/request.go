package http

import (
	"context"
	"io"
	"mime"
	nethttp "net/http"
	"strings"

	"github.com/mvannes/basalt/multipart"
)

type Request struct {
	original *nethttp.Request
}

func NewRequest(original *nethttp.Request) *Request {
	return &Request{original: original}
}

func (request *Request) Method() string {
	return request.original.Method
}

func (request *Request) Path() string {
	return request.original.URL.Path
}

func (request *Request) Header(name string) string {
	return request.original.Header.Get(name)
}

func (request *Request) Context() context.Context {
	return request.original.Context()
}

func (request *Request) Body() io.Reader {
	return request.original.Body
}

func (request *Request) Cookie(name string) (*Cookie, error) {
	header := request.original.Header.Get("Cookie")
	if header == "" {
		return nil, ErrNoCookie
	}
	for _, cookie := range ParseCookies(header) {
		if cookie.Name == name {
			return cookie, nil
		}
	}
	return nil, ErrNoCookie
}

// Multipart returns a streaming decoder over the request body. The
// caller drives it with Next; parts arrive in body order, duplicates
// included.
func (request *Request) Multipart(opts ...multipart.Option) (*multipart.Decoder, error) {
	contentType := request.original.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return nil, ErrNotMultipart
	}
	return multipart.NewDecoderContentType(request.original.Body, contentType, opts...)
}

// MultipartForm decodes the whole body eagerly into a Form. Duplicate
// field names keep the last value; use Multipart to observe them all.
func (request *Request) MultipartForm(opts ...multipart.Option) (*multipart.Form, error) {
	decoder, err := request.Multipart(opts...)
	if err != nil {
		return nil, err
	}
	return decoder.ReadAll()
}
