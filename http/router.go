package http

import nethttp "net/http"

type Route struct {
	Methods    []string
	Path       string
	Handler    Handler
	Middleware []MiddlewareFunc
}

type Router struct {
	Path       string
	Routes     []Route
	Groups     []*Router
	Middleware []MiddlewareFunc
}

func NewRouter() *Router {
	return &Router{
		Routes:     make([]Route, 0),
		Groups:     make([]*Router, 0),
		Middleware: make([]MiddlewareFunc, 0),
	}
}

func (router *Router) Get(path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	router.Any([]string{nethttp.MethodGet}, path, handler, middleware...)
}

func (router *Router) Head(path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	router.Any([]string{nethttp.MethodHead}, path, handler, middleware...)
}

func (router *Router) Post(path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	router.Any([]string{nethttp.MethodPost}, path, handler, middleware...)
}

func (router *Router) Put(path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	router.Any([]string{nethttp.MethodPut}, path, handler, middleware...)
}

func (router *Router) Patch(path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	router.Any([]string{nethttp.MethodPatch}, path, handler, middleware...)
}

func (router *Router) Delete(path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	router.Any([]string{nethttp.MethodDelete}, path, handler, middleware...)
}

func (router *Router) Options(path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	router.Any([]string{nethttp.MethodOptions}, path, handler, middleware...)
}

func (router *Router) Any(methods []string, path string, handler HandlerFunc, middleware ...MiddlewareFunc) {
	router.Routes = append(router.Routes, Route{
		Methods:    methods,
		Path:       path,
		Handler:    handler,
		Middleware: middleware,
	})
}

func (router *Router) Group(path string, groupFunc func(group *Router), middleware ...MiddlewareFunc) {
	group := NewRouter()
	group.Path = path
	group.Middleware = middleware

	groupFunc(group)

	router.Groups = append(router.Groups, group)
}

func (router *Router) Use(middleware ...MiddlewareFunc) {
	router.Middleware = append(router.Middleware, middleware...)
}
