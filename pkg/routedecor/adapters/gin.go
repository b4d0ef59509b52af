package adapters

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/toyz/routedecor/pkg/routedecor"
)

// GinAdapter implements routedecor.WebServer for the Gin framework
type GinAdapter struct {
	engine *gin.Engine

	mu     sync.Mutex
	server *http.Server
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a new Gin adapter with a recovering Gin engine
func NewDefaultGinAdapter() *GinAdapter {
	g := gin.New()
	g.Use(gin.Recovery())
	return &GinAdapter{engine: g}
}

// RegisterRoute registers a route with the Gin server
func (ga *GinAdapter) RegisterRoute(method string, path routedecor.Path, handler routedecor.HandlerFunc, middlewares ...routedecor.MiddlewareFunc) {
	addGinRoute(ga.engine, method, path, handler, middlewares)
}

// RegisterGroup registers a route group with the Gin server
func (ga *GinAdapter) RegisterGroup(prefix string) routedecor.RouteGroup {
	return &GinRouteGroup{group: ga.engine.Group(prefix)}
}

// Use registers a global middleware with the Gin server
func (ga *GinAdapter) Use(middleware routedecor.MiddlewareFunc) {
	ga.engine.Use(convertGinMiddleware(middleware))
}

// Start serves the engine on addr until Stop is called
func (ga *GinAdapter) Start(addr string) error {
	ga.mu.Lock()
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	server := ga.server
	ga.mu.Unlock()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down
func (ga *GinAdapter) Stop(ctx context.Context) error {
	ga.mu.Lock()
	server := ga.server
	ga.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}

// GinRouteGroup implements routedecor.RouteGroup for Gin
type GinRouteGroup struct {
	group *gin.RouterGroup
}

// RegisterRoute registers a route within the group
func (grg *GinRouteGroup) RegisterRoute(method string, path routedecor.Path, handler routedecor.HandlerFunc, middlewares ...routedecor.MiddlewareFunc) {
	addGinRoute(grg.group, method, path, handler, middlewares)
}

// Use registers middleware with the group
func (grg *GinRouteGroup) Use(middleware routedecor.MiddlewareFunc) {
	grg.group.Use(convertGinMiddleware(middleware))
}

// Group creates a sub-group
func (grg *GinRouteGroup) Group(prefix string) routedecor.RouteGroup {
	return &GinRouteGroup{group: grg.group.Group(prefix)}
}

func addGinRoute(routes gin.IRoutes, method string, path routedecor.Path, handler routedecor.HandlerFunc, middlewares []routedecor.MiddlewareFunc) {
	// gin wildcards must be named
	ginPath := routerPath(path, "*path")
	ginHandler := convertGinHandler(routedecor.Chain(handler, middlewares...))
	if method == routedecor.MethodAny {
		routes.Any(ginPath, ginHandler)
		return
	}
	routes.Handle(method, ginPath, ginHandler)
}

// convertGinHandler converts routedecor.HandlerFunc to gin.HandlerFunc
func convertGinHandler(handler routedecor.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler(&GinRequestContext{ctx: c}); err != nil {
			abortGin(c, err)
		}
	}
}

// convertGinMiddleware converts routedecor.MiddlewareFunc to gin.HandlerFunc.
// The rest of the gin chain runs inside the middleware's next.
func convertGinMiddleware(middleware routedecor.MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := func(routedecor.RequestContext) error {
			c.Next()
			return nil
		}
		if err := middleware(next)(&GinRequestContext{ctx: c}); err != nil {
			abortGin(c, err)
		}
	}
}

func abortGin(c *gin.Context, err error) {
	_ = c.Error(err)
	if c.Writer.Written() {
		c.Abort()
		return
	}
	status, body := errorBody(err)
	c.AbortWithStatusJSON(status, body)
}

// GinRequestContext implements routedecor.RequestContext for Gin
type GinRequestContext struct {
	ctx *gin.Context
}

// Method returns the HTTP method
func (grc *GinRequestContext) Method() string {
	return grc.ctx.Request.Method
}

// Path returns the request path
func (grc *GinRequestContext) Path() string {
	return grc.ctx.Request.URL.Path
}

// RealIP returns the real IP address
func (grc *GinRequestContext) RealIP() string {
	return grc.ctx.ClientIP()
}

// Param returns a path parameter
func (grc *GinRequestContext) Param(name string) string {
	if name == "*" {
		return grc.ctx.Param("path")
	}
	return grc.ctx.Param(name)
}

// QueryParam returns a query parameter
func (grc *GinRequestContext) QueryParam(name string) string {
	return grc.ctx.Query(name)
}

// QueryParams returns all query parameters
func (grc *GinRequestContext) QueryParams() map[string][]string {
	return grc.ctx.Request.URL.Query()
}

// Request returns the request interface
func (grc *GinRequestContext) Request() routedecor.RequestInterface {
	return &httpRequest{request: grc.ctx.Request}
}

// Response returns the response interface
func (grc *GinRequestContext) Response() routedecor.ResponseInterface {
	return &GinResponseInterface{ctx: grc.ctx}
}

// Bind binds the request body to a struct
func (grc *GinRequestContext) Bind(i any) error {
	return grc.ctx.ShouldBind(i)
}

// Get returns a value from context
func (grc *GinRequestContext) Get(key string) any {
	value, _ := grc.ctx.Get(key)
	return value
}

// Set sets a value in context
func (grc *GinRequestContext) Set(key string, val any) {
	grc.ctx.Set(key, val)
}

// Gin returns the underlying gin.Context
func (grc *GinRequestContext) Gin() *gin.Context {
	return grc.ctx
}

// GinResponseInterface implements routedecor.ResponseInterface for Gin
type GinResponseInterface struct {
	ctx *gin.Context
}

// Status returns the response status code
func (gri *GinResponseInterface) Status() int {
	return gri.ctx.Writer.Status()
}

// SetStatus sets the response status code
func (gri *GinResponseInterface) SetStatus(code int) {
	gri.ctx.Status(code)
}

// Header returns a response header value
func (gri *GinResponseInterface) Header(key string) string {
	return gri.ctx.Writer.Header().Get(key)
}

// SetHeader sets a response header
func (gri *GinResponseInterface) SetHeader(key, value string) {
	gri.ctx.Header(key, value)
}

// JSON writes a JSON response
func (gri *GinResponseInterface) JSON(code int, i any) error {
	gri.ctx.JSON(code, i)
	return nil
}

// String writes a plain text response
func (gri *GinResponseInterface) String(code int, s string) error {
	gri.ctx.String(code, "%s", s)
	return nil
}

// Blob writes a raw response
func (gri *GinResponseInterface) Blob(code int, contentType string, b []byte) error {
	gri.ctx.Data(code, contentType, b)
	return nil
}

// Written returns whether the response has been written
func (gri *GinResponseInterface) Written() bool {
	return gri.ctx.Writer.Written()
}
