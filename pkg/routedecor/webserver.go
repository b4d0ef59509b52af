package routedecor

import (
	"context"
)

// RouteSink is anything controllers can be mounted onto.
// The adapters package provides gin, echo and fiber implementations.
type RouteSink interface {
	RegisterRoute(method string, path Path, handler HandlerFunc, middlewares ...MiddlewareFunc)
}

// SinkFunc adapts a plain function to RouteSink.
type SinkFunc func(method string, path Path, handler HandlerFunc, middlewares ...MiddlewareFunc)

// RegisterRoute calls f.
func (f SinkFunc) RegisterRoute(method string, path Path, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	f(method, path, handler, middlewares...)
}

// WebServer defines the contract for web server implementations
type WebServer interface {
	RouteSink
	RegisterGroup(prefix string) RouteGroup

	// Global middleware
	Use(middleware MiddlewareFunc)

	// Server lifecycle
	Start(addr string) error
	Stop(ctx context.Context) error

	Name() string
}

// RouteGroup represents a group of routes with a common prefix
type RouteGroup interface {
	RouteSink
	Use(middleware MiddlewareFunc)
	Group(prefix string) RouteGroup
}

// RequestContext provides a framework-agnostic view of one inbound call
type RequestContext interface {
	// Request data
	Method() string
	Path() string
	RealIP() string

	// Parameters
	Param(key string) string
	QueryParam(key string) string
	QueryParams() map[string][]string

	Request() RequestInterface
	Response() ResponseInterface

	// Body handling
	Bind(i any) error

	// Context data
	Get(key string) any
	Set(key string, val any)
}

// RequestInterface provides access to the underlying request
type RequestInterface interface {
	Header(key string) string
	SetHeader(key, value string)
	ContentType() string
}

// ResponseInterface provides response writing capabilities
type ResponseInterface interface {
	Status() int
	SetStatus(code int)

	Header(key string) string
	SetHeader(key, value string)

	JSON(code int, i any) error
	String(code int, s string) error
	Blob(code int, contentType string, b []byte) error

	Written() bool
}

// HandlerFunc defines the signature for HTTP handlers
type HandlerFunc func(RequestContext) error

// MiddlewareFunc defines the signature for middleware
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Chain applies middlewares around h so that the first middleware runs first.
func Chain(h HandlerFunc, middlewares ...MiddlewareFunc) HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// Lookup fetches a typed value stored on the request context.
func Lookup[T any](rc RequestContext, key string) (T, bool) {
	v, ok := rc.Get(key).(T)
	return v, ok
}
