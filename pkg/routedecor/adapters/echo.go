package adapters

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/toyz/routedecor/pkg/routedecor"
)

// EchoAdapter implements routedecor.WebServer for Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates a new Echo adapter with default Echo instance
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &EchoAdapter{engine: e}
}

// RegisterRoute registers a route with the Echo server
func (ea *EchoAdapter) RegisterRoute(method string, path routedecor.Path, handler routedecor.HandlerFunc, middlewares ...routedecor.MiddlewareFunc) {
	addEchoRoute(ea.engine.Add, ea.engine.Any, method, path, handler, middlewares)
}

// RegisterGroup creates a new route group
func (ea *EchoAdapter) RegisterGroup(prefix string) routedecor.RouteGroup {
	return &EchoGroupAdapter{group: ea.engine.Group(prefix)}
}

// Use adds global middleware
func (ea *EchoAdapter) Use(middleware routedecor.MiddlewareFunc) {
	ea.engine.Use(convertEchoMiddleware(middleware))
}

// Start starts the server
func (ea *EchoAdapter) Start(addr string) error {
	if err := ea.engine.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEngine returns the underlying Echo instance
func (ea *EchoAdapter) GetEngine() *echo.Echo {
	return ea.engine
}

// EchoGroupAdapter implements routedecor.RouteGroup for Echo groups
type EchoGroupAdapter struct {
	group *echo.Group
}

// RegisterRoute registers a route with the group
func (ega *EchoGroupAdapter) RegisterRoute(method string, path routedecor.Path, handler routedecor.HandlerFunc, middlewares ...routedecor.MiddlewareFunc) {
	addEchoRoute(ega.group.Add, ega.group.Any, method, path, handler, middlewares)
}

// Use adds middleware to the group
func (ega *EchoGroupAdapter) Use(middleware routedecor.MiddlewareFunc) {
	ega.group.Use(convertEchoMiddleware(middleware))
}

// Group creates a sub-group
func (ega *EchoGroupAdapter) Group(prefix string) routedecor.RouteGroup {
	return &EchoGroupAdapter{group: ega.group.Group(prefix)}
}

type echoAddFunc func(method, path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
type echoAnyFunc func(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) []*echo.Route

func addEchoRoute(add echoAddFunc, addAny echoAnyFunc, method string, path routedecor.Path, handler routedecor.HandlerFunc, middlewares []routedecor.MiddlewareFunc) {
	echoPath := routerPath(path, "*")
	echoHandler := convertEchoHandler(routedecor.Chain(handler, middlewares...))
	if method == routedecor.MethodAny {
		addAny(echoPath, echoHandler)
		return
	}
	add(method, echoPath, echoHandler)
}

// convertEchoHandler converts routedecor.HandlerFunc to echo.HandlerFunc.
// Errors become *echo.HTTPError so the engine's error handler answers them.
func convertEchoHandler(handler routedecor.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := handler(&EchoRequestContext{context: c}); err != nil {
			var echoErr *echo.HTTPError
			if errors.As(err, &echoErr) {
				return err
			}
			status, body := errorBody(err)
			return echo.NewHTTPError(status, body).SetInternal(err)
		}
		return nil
	}
}

// convertEchoMiddleware converts routedecor.MiddlewareFunc to echo.MiddlewareFunc
func convertEchoMiddleware(middleware routedecor.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			wrapped := middleware(func(routedecor.RequestContext) error {
				return next(c)
			})
			return wrapped(&EchoRequestContext{context: c})
		}
	}
}

// EchoRequestContext implements routedecor.RequestContext for Echo
type EchoRequestContext struct {
	context echo.Context
}

// Method returns the HTTP method
func (erc *EchoRequestContext) Method() string {
	return erc.context.Request().Method
}

// Path returns the request path
func (erc *EchoRequestContext) Path() string {
	return erc.context.Request().URL.Path
}

// RealIP returns the real IP address
func (erc *EchoRequestContext) RealIP() string {
	return erc.context.RealIP()
}

// Param returns path parameter by name
func (erc *EchoRequestContext) Param(key string) string {
	return erc.context.Param(key)
}

// QueryParam returns query parameter by name
func (erc *EchoRequestContext) QueryParam(key string) string {
	return erc.context.QueryParam(key)
}

// QueryParams returns all query parameters
func (erc *EchoRequestContext) QueryParams() map[string][]string {
	return erc.context.QueryParams()
}

// Request returns the request interface
func (erc *EchoRequestContext) Request() routedecor.RequestInterface {
	return &httpRequest{request: erc.context.Request()}
}

// Response returns the response interface
func (erc *EchoRequestContext) Response() routedecor.ResponseInterface {
	return &EchoResponseInterface{context: erc.context}
}

// Bind binds request body to provided struct
func (erc *EchoRequestContext) Bind(i any) error {
	return erc.context.Bind(i)
}

// Get retrieves data from context
func (erc *EchoRequestContext) Get(key string) any {
	return erc.context.Get(key)
}

// Set stores data in context
func (erc *EchoRequestContext) Set(key string, val any) {
	erc.context.Set(key, val)
}

// Echo returns the underlying echo.Context
func (erc *EchoRequestContext) Echo() echo.Context {
	return erc.context
}

// httpRequest implements routedecor.RequestInterface over net/http
type httpRequest struct {
	request *http.Request
}

func (r *httpRequest) Header(key string) string {
	return r.request.Header.Get(key)
}

func (r *httpRequest) SetHeader(key, value string) {
	r.request.Header.Set(key, value)
}

func (r *httpRequest) ContentType() string {
	return r.request.Header.Get(echo.HeaderContentType)
}

// EchoResponseInterface implements routedecor.ResponseInterface for Echo responses
type EchoResponseInterface struct {
	context echo.Context
}

// Status returns response status code
func (eri *EchoResponseInterface) Status() int {
	return eri.context.Response().Status
}

// SetStatus sets response status code
func (eri *EchoResponseInterface) SetStatus(code int) {
	eri.context.Response().Status = code
}

// Header returns response header value
func (eri *EchoResponseInterface) Header(key string) string {
	return eri.context.Response().Header().Get(key)
}

// SetHeader sets response header
func (eri *EchoResponseInterface) SetHeader(key, value string) {
	eri.context.Response().Header().Set(key, value)
}

// JSON writes JSON response
func (eri *EchoResponseInterface) JSON(code int, i any) error {
	return eri.context.JSON(code, i)
}

// String writes string response
func (eri *EchoResponseInterface) String(code int, s string) error {
	return eri.context.String(code, s)
}

// Blob writes blob response
func (eri *EchoResponseInterface) Blob(code int, contentType string, b []byte) error {
	return eri.context.Blob(code, contentType, b)
}

// Written returns whether response has been written
func (eri *EchoResponseInterface) Written() bool {
	return eri.context.Response().Committed
}
