package http

import (
	"encoding/json"
	"log/slog"
	nethttp "net/http"
)

type Response struct {
	original nethttp.ResponseWriter
}

func NewResponse(original nethttp.ResponseWriter) *Response {
	return &Response{original: original}
}

func (response *Response) Header(name, value string) *Response {
	response.original.Header().Set(name, value)
	return response
}

func (response *Response) SetCookie(cookie *Cookie) *Response {
	response.original.Header().Add("Set-Cookie", cookie.String())
	return response
}

func (response *Response) WithStatus(status int) *Response {
	response.original.WriteHeader(status)
	return response
}

func (response *Response) WithJson(payload any) *Response {
	response.original.Header().Set("Content-Type", "application/json")

	if vStr, ok := payload.(string); ok {
		response.original.Write([]byte(vStr))
	} else if err := json.NewEncoder(response.original).Encode(payload); err != nil {
		slog.Error("response: encoding payload to json failed", "error", err)
	}

	return response
}

func (response *Response) WithText(payload string) *Response {
	response.original.Header().Set("Content-Type", "text/plain")
	response.original.Write([]byte(payload))
	return response
}

func (response *Response) Write(p []byte) (int, error) {
	return response.original.Write(p)
}
