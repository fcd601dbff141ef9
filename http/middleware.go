package http

import (
	"log/slog"
	nethttp "net/http"
	"slices"
	"time"
)

func RecoverMiddleware(next Handler) Handler {
	return HandlerFunc(func(request *Request, response *Response) {
		defer func() {
			if recovered := recover(); recovered != nil {
				slog.Error("handler panicked", "panic", recovered, "path", request.Path())

				response.WithStatus(nethttp.StatusInternalServerError).WithText("something went wrong")
			}
		}()

		next.ServeHTTP(request, response)
	})
}

func MethodCheckMiddleware(methods []string, next Handler) Handler {
	return HandlerFunc(func(request *Request, response *Response) {
		if !slices.Contains(methods, request.Method()) {
			response.WithStatus(nethttp.StatusMethodNotAllowed)
			return
		}

		next.ServeHTTP(request, response)
	})
}

func LogMiddleware(logger *slog.Logger) MiddlewareFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(request *Request, response *Response) {
			start := time.Now()

			next.ServeHTTP(request, response)

			logger.Info("request handled",
				"method", request.Method(),
				"path", request.Path(),
				"duration", time.Since(start))
		})
	}
}

// MaxBodyMiddleware caps the request body at limit bytes. Reads past the
// limit fail, which surfaces from the multipart decoder as an unexpected
// end of input.
func MaxBodyMiddleware(limit int64) MiddlewareFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(request *Request, response *Response) {
			request.original.Body = nethttp.MaxBytesReader(response.original, request.original.Body, limit)

			next.ServeHTTP(request, response)
		})
	}
}
