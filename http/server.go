package http

import (
	"context"
	nethttp "net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	Name   string
	Router *Router

	httpServer *nethttp.Server
}

func NewServer(name string) *Server {
	return &Server{
		Name:   name,
		Router: NewRouter(),
	}
}

// Handler flattens the router into a net/http handler with the server's
// instrumentation wrapped around it.
func (server *Server) Handler() nethttp.Handler {
	mux := nethttp.NewServeMux()
	server.merge(mux, "", server.Router)

	return otelhttp.NewHandler(mux, server.Name)
}

func (server *Server) ListenAndServe(addr string) error {
	server.httpServer = &nethttp.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}
	return server.httpServer.ListenAndServe()
}

func (server *Server) Shutdown(ctx context.Context) error {
	if server.httpServer == nil {
		return nil
	}
	return server.httpServer.Shutdown(ctx)
}

func (server *Server) merge(mux *nethttp.ServeMux, basePath string, group *Router) {
	for _, route := range group.Routes {
		path := basePath + group.Path + route.Path

		handler := MethodCheckMiddleware(route.Methods, RecoverMiddleware(route.Handler))
		for _, middleware := range append(group.Middleware, route.Middleware...) {
			handler = middleware(handler)
		}

		mux.HandleFunc(path, func(w nethttp.ResponseWriter, r *nethttp.Request) {
			handler.ServeHTTP(NewRequest(r), NewResponse(w))
		})
	}

	// Register the branching groups, with parent middleware applied first.
	for _, subGroup := range group.Groups {
		subGroup.Middleware = append(group.Middleware, subGroup.Middleware...)
		server.merge(mux, basePath+group.Path, subGroup)
	}
}
