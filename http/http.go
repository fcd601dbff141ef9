// Package http is a thin middleware framework over net/http: request and
// response wrappers, a grouping router, and the hook that feeds request
// bodies into the multipart decoder.
package http

import "errors"

var (
	ErrNoCookie     = errors.New("http: named cookie not present")
	ErrNotMultipart = errors.New("http: request body is not multipart/form-data")
)

type Handler interface {
	ServeHTTP(*Request, *Response)
}

type HandlerFunc func(*Request, *Response)

func (f HandlerFunc) ServeHTTP(request *Request, response *Response) {
	f(request, response)
}

type MiddlewareFunc func(next Handler) Handler
