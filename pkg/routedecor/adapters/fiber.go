package adapters

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/toyz/routedecor/pkg/routedecor"
)

// FiberAdapter wraps a Fiber app to implement routedecor.WebServer
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a new Fiber adapter instance
func NewFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			status, body := errorBody(err)
			return c.Status(status).JSON(body)
		},
	})
	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a new Fiber adapter with panic recovery
func NewDefaultFiberAdapter() *FiberAdapter {
	adapter := NewFiberAdapter()
	adapter.app.Use(recover.New())
	return adapter
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method string, path routedecor.Path, handler routedecor.HandlerFunc, middlewares ...routedecor.MiddlewareFunc) {
	addFiberRoute(fa.app, method, path, handler, middlewares)
}

// RegisterGroup creates a new route group with the given prefix
func (fa *FiberAdapter) RegisterGroup(prefix string) routedecor.RouteGroup {
	return &FiberRouteGroup{group: fa.app.Group(prefix)}
}

// Use adds middleware to the Fiber app
func (fa *FiberAdapter) Use(middleware routedecor.MiddlewareFunc) {
	fa.app.Use(convertFiberMiddleware(middleware))
}

// Start starts the Fiber server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop stops the Fiber server
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the underlying Fiber app
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}

// FiberRouteGroup wraps a Fiber route group to implement routedecor.RouteGroup
type FiberRouteGroup struct {
	group fiber.Router
}

// RegisterRoute registers a route with this group
func (frg *FiberRouteGroup) RegisterRoute(method string, path routedecor.Path, handler routedecor.HandlerFunc, middlewares ...routedecor.MiddlewareFunc) {
	addFiberRoute(frg.group, method, path, handler, middlewares)
}

// Use adds middleware to this route group
func (frg *FiberRouteGroup) Use(middleware routedecor.MiddlewareFunc) {
	frg.group.Use(convertFiberMiddleware(middleware))
}

// Group creates a sub-group with the given prefix
func (frg *FiberRouteGroup) Group(prefix string) routedecor.RouteGroup {
	return &FiberRouteGroup{group: frg.group.Group(prefix)}
}

func addFiberRoute(router fiber.Router, method string, path routedecor.Path, handler routedecor.HandlerFunc, middlewares []routedecor.MiddlewareFunc) {
	fiberPath := routerPath(path, "*")
	fiberHandler := convertFiberHandler(routedecor.Chain(handler, middlewares...))
	if method == routedecor.MethodAny {
		router.All(fiberPath, fiberHandler)
		return
	}
	router.Add(strings.ToUpper(method), fiberPath, fiberHandler)
}

// convertFiberHandler converts a routedecor handler to a Fiber handler
func convertFiberHandler(handler routedecor.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := handler(&FiberRequestContext{ctx: c}); err != nil {
			return fiberError(c, err)
		}
		return nil
	}
}

// convertFiberMiddleware converts a routedecor middleware to a Fiber middleware
func convertFiberMiddleware(middleware routedecor.MiddlewareFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := middleware(func(routedecor.RequestContext) error {
			return c.Next()
		})(&FiberRequestContext{ctx: c})
		if err != nil {
			return fiberError(c, err)
		}
		return nil
	}
}

func fiberError(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return e
	}
	status, body := errorBody(err)
	return c.Status(status).JSON(body)
}

// FiberRequestContext wraps fiber.Ctx to implement routedecor.RequestContext
type FiberRequestContext struct {
	ctx *fiber.Ctx
}

// Method returns the HTTP method
func (frc *FiberRequestContext) Method() string {
	return frc.ctx.Method()
}

// Path returns the request path
func (frc *FiberRequestContext) Path() string {
	return frc.ctx.Path()
}

// RealIP returns the client IP
func (frc *FiberRequestContext) RealIP() string {
	return frc.ctx.IP()
}

// Param returns a path parameter
func (frc *FiberRequestContext) Param(name string) string {
	return frc.ctx.Params(name)
}

// QueryParam returns a query parameter
func (frc *FiberRequestContext) QueryParam(key string) string {
	return frc.ctx.Query(key)
}

// QueryParams returns all query parameters
func (frc *FiberRequestContext) QueryParams() map[string][]string {
	result := make(map[string][]string)
	frc.ctx.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		result[k] = append(result[k], string(value))
	})
	return result
}

// Request returns the request interface
func (frc *FiberRequestContext) Request() routedecor.RequestInterface {
	return &FiberRequest{ctx: frc.ctx}
}

// Response returns the response interface
func (frc *FiberRequestContext) Response() routedecor.ResponseInterface {
	return &FiberResponse{ctx: frc.ctx}
}

// Bind parses the request body into obj
func (frc *FiberRequestContext) Bind(obj any) error {
	return frc.ctx.BodyParser(obj)
}

// Get returns a value stored in the request locals
func (frc *FiberRequestContext) Get(key string) any {
	return frc.ctx.Locals(key)
}

// Set stores a value in the request locals
func (frc *FiberRequestContext) Set(key string, val any) {
	frc.ctx.Locals(key, val)
}

// Fiber returns the underlying fiber.Ctx
func (frc *FiberRequestContext) Fiber() *fiber.Ctx {
	return frc.ctx
}

// FiberRequest implements routedecor.RequestInterface for Fiber
type FiberRequest struct {
	ctx *fiber.Ctx
}

// Header returns a request header value
func (fr *FiberRequest) Header(key string) string {
	return fr.ctx.Get(key)
}

// SetHeader sets a request header
func (fr *FiberRequest) SetHeader(key, value string) {
	fr.ctx.Request().Header.Set(key, value)
}

// ContentType returns the request content type
func (fr *FiberRequest) ContentType() string {
	return string(fr.ctx.Request().Header.ContentType())
}

// FiberResponse implements routedecor.ResponseInterface for Fiber
type FiberResponse struct {
	ctx *fiber.Ctx
}

// Status returns the response status code
func (fr *FiberResponse) Status() int {
	return fr.ctx.Response().StatusCode()
}

// SetStatus sets the response status code
func (fr *FiberResponse) SetStatus(code int) {
	fr.ctx.Status(code)
}

// Header returns a response header value
func (fr *FiberResponse) Header(key string) string {
	return fr.ctx.GetRespHeader(key)
}

// SetHeader sets a response header
func (fr *FiberResponse) SetHeader(key, value string) {
	fr.ctx.Set(key, value)
}

// JSON writes a JSON response
func (fr *FiberResponse) JSON(code int, i any) error {
	return fr.ctx.Status(code).JSON(i)
}

// String writes a plain text response
func (fr *FiberResponse) String(code int, s string) error {
	return fr.ctx.Status(code).SendString(s)
}

// Blob writes a raw response
func (fr *FiberResponse) Blob(code int, contentType string, b []byte) error {
	fr.ctx.Set(fiber.HeaderContentType, contentType)
	return fr.ctx.Status(code).Send(b)
}

// Written returns whether a body has been written
func (fr *FiberResponse) Written() bool {
	return len(fr.ctx.Response().Body()) > 0
}
