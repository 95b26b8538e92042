package web

import (
	"net/http"
	"slices"
	"strings"
)

// Routes registers handlers by method. WebHandler and RouteGroup embed it.
type Routes struct {
	handle func(method, path string, handler HandlerFunc, mw ...Middleware)
}

func (rt Routes) GET(path string, handler HandlerFunc, mw ...Middleware) {
	rt.handle(http.MethodGet, path, handler, mw...)
}

func (rt Routes) POST(path string, handler HandlerFunc, mw ...Middleware) {
	rt.handle(http.MethodPost, path, handler, mw...)
}

func (rt Routes) PUT(path string, handler HandlerFunc, mw ...Middleware) {
	rt.handle(http.MethodPut, path, handler, mw...)
}

func (rt Routes) PATCH(path string, handler HandlerFunc, mw ...Middleware) {
	rt.handle(http.MethodPatch, path, handler, mw...)
}

func (rt Routes) DELETE(path string, handler HandlerFunc, mw ...Middleware) {
	rt.handle(http.MethodDelete, path, handler, mw...)
}

// RouteGroup registers routes under a shared path prefix and middleware.
type RouteGroup struct {
	Routes
	wh         *WebHandler
	prefix     string
	middleware []Middleware
}

func newGroup(wh *WebHandler, prefix string, mw []Middleware) *RouteGroup {
	g := &RouteGroup{wh: wh, prefix: strings.TrimSuffix(prefix, "/"), middleware: mw}
	g.Routes = Routes{handle: g.Handle}
	return g
}

// Group starts a route group. Its middleware runs after the global middleware.
func (wh *WebHandler) Group(prefix string, mw ...Middleware) *RouteGroup {
	return newGroup(wh, prefix, mw)
}

// Group nests a group. The parent's middleware runs first.
func (g *RouteGroup) Group(prefix string, mw ...Middleware) *RouteGroup {
	return newGroup(g.wh, g.prefix+strings.TrimSuffix(prefix, "/"), slices.Concat(g.middleware, mw))
}

func (g *RouteGroup) Handle(method, path string, handler HandlerFunc, mw ...Middleware) {
	g.wh.Handle(method, g.prefix+path, handler, slices.Concat(g.middleware, mw)...)
}

// chain wraps h so that mw[0] runs first.
func chain(h HandlerFunc, mw []Middleware) HandlerFunc {
	for _, m := range slices.Backward(mw) {
		h = m(h)
	}
	return h
}
