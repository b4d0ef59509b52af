package routedecor

import (
	"net/http"
	"sync"
)

// fakeContext is an in-memory RequestContext for driving handlers without a router.
type fakeContext struct {
	method string
	path   string
	params map[string]string
	query  map[string][]string

	mu     sync.Mutex
	values map[string]any
	res    *fakeResponse
}

func newFakeContext(method, path string) *fakeContext {
	return &fakeContext{
		method: method,
		path:   path,
		params: map[string]string{},
		query:  map[string][]string{},
		values: map[string]any{},
		res:    &fakeResponse{headers: http.Header{}},
	}
}

func (f *fakeContext) Method() string                   { return f.method }
func (f *fakeContext) Path() string                     { return f.path }
func (f *fakeContext) RealIP() string                   { return "127.0.0.1" }
func (f *fakeContext) Param(key string) string          { return f.params[key] }
func (f *fakeContext) QueryParams() map[string][]string { return f.query }
func (f *fakeContext) Request() RequestInterface        { return &fakeRequest{headers: http.Header{}} }
func (f *fakeContext) Response() ResponseInterface      { return f.res }
func (f *fakeContext) Bind(any) error                   { return nil }

func (f *fakeContext) QueryParam(key string) string {
	if v := f.query[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f *fakeContext) Get(key string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key]
}

func (f *fakeContext) Set(key string, val any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = val
}

type fakeRequest struct {
	headers http.Header
}

func (r *fakeRequest) Header(key string) string    { return r.headers.Get(key) }
func (r *fakeRequest) SetHeader(key, value string) { r.headers.Set(key, value) }
func (r *fakeRequest) ContentType() string         { return r.headers.Get("Content-Type") }

type fakeResponse struct {
	status  int
	headers http.Header
	body    any
}

func (r *fakeResponse) Status() int                 { return r.status }
func (r *fakeResponse) SetStatus(code int)          { r.status = code }
func (r *fakeResponse) Header(key string) string    { return r.headers.Get(key) }
func (r *fakeResponse) SetHeader(key, value string) { r.headers.Set(key, value) }
func (r *fakeResponse) Written() bool               { return r.body != nil }

func (r *fakeResponse) JSON(code int, i any) error {
	r.status, r.body = code, i
	return nil
}

func (r *fakeResponse) String(code int, s string) error {
	r.status, r.body = code, s
	return nil
}

func (r *fakeResponse) Blob(code int, _ string, b []byte) error {
	r.status, r.body = code, b
	return nil
}

// recordedRoute is one RegisterRoute call captured by a recordingSink.
type recordedRoute struct {
	method      string
	path        Path
	handler     HandlerFunc
	middlewares []MiddlewareFunc
}

type recordingSink struct {
	routes []recordedRoute
}

func (s *recordingSink) RegisterRoute(method string, path Path, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	s.routes = append(s.routes, recordedRoute{method: method, path: path, handler: handler, middlewares: middlewares})
}

// serve runs the route the way a router would: middlewares first, then the handler.
func (r recordedRoute) serve(rc RequestContext) error {
	return Chain(r.handler, r.middlewares...)(rc)
}

// catalogOf builds a Catalog from modules, added in the given order.
func catalogOf(modules map[string]*Controller, order ...string) *Catalog {
	c := NewCatalog()
	for _, path := range order {
		if err := c.Add(path, modules[path]); err != nil {
			panic(err)
		}
	}
	return c
}
