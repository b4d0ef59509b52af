package routedecor

import (
	"sort"
	"sync"
)

// MiddlewareRegistry maps middleware names to middleware functions. Textual
// route expressions resolve their middleware names through it.
type MiddlewareRegistry interface {
	// RegisterMiddleware adds or replaces a named middleware
	RegisterMiddleware(name string, mw MiddlewareFunc)

	// GetMiddleware retrieves a middleware by name
	GetMiddleware(name string) (MiddlewareFunc, bool)

	// Names returns every registered name, sorted
	Names() []string
}

type inMemoryMiddlewareRegistry struct {
	mu          sync.RWMutex
	middlewares map[string]MiddlewareFunc
}

// NewInMemoryMiddlewareRegistry creates a new in-memory middleware registry
func NewInMemoryMiddlewareRegistry() MiddlewareRegistry {
	return &inMemoryMiddlewareRegistry{middlewares: make(map[string]MiddlewareFunc)}
}

func (r *inMemoryMiddlewareRegistry) RegisterMiddleware(name string, mw MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares[name] = mw
}

func (r *inMemoryMiddlewareRegistry) GetMiddleware(name string) (MiddlewareFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mw, ok := r.middlewares[name]
	return mw, ok
}

func (r *inMemoryMiddlewareRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.middlewares))
	for name := range r.middlewares {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMiddlewareRegistry is the global middleware registry
var DefaultMiddlewareRegistry MiddlewareRegistry = NewInMemoryMiddlewareRegistry()

// RouteInfo describes one route mounted by the loader.
type RouteInfo struct {
	// Method is the HTTP verb handed to the router (GET, POST, ALL, ...)
	Method string

	// Path is the full route path with parameter placeholders
	Path string

	// Module is the catalog path the controller was discovered under
	Module string

	// ControllerName is the name of the controller target
	ControllerName string

	// Endpoint is the action name on the target
	Endpoint string

	// Kind is the target variant
	Kind TargetKind

	// Strategy names the resolution strategy used
	Strategy string

	// Middlewares is the number of middlewares wrapped around the action
	Middlewares int

	// Handler is the adapted handler handed to the router
	Handler HandlerFunc
}

// RouteRegistry records every route the loader mounts.
type RouteRegistry interface {
	// GetAllRoutes returns all registered routes in registration order
	GetAllRoutes() []RouteInfo

	// GetRoutesByController returns routes filtered by controller name
	GetRoutesByController(controllerName string) []RouteInfo

	// GetRoutesByMethod returns routes filtered by HTTP method
	GetRoutesByMethod(method string) []RouteInfo

	// RegisterRoute adds a route to the registry
	RegisterRoute(route RouteInfo)
}

// InMemoryRouteRegistry implements RouteRegistry using an in-memory slice
type InMemoryRouteRegistry struct {
	mu     sync.RWMutex
	routes []RouteInfo
}

// NewInMemoryRouteRegistry creates a new in-memory route registry
func NewInMemoryRouteRegistry() *InMemoryRouteRegistry {
	return &InMemoryRouteRegistry{routes: make([]RouteInfo, 0)}
}

// DefaultRouteRegistry is the process-wide registry Load records into when
// Config.Registry is nil. Entries hold their handlers and are only dropped
// by Reset.
var DefaultRouteRegistry = NewInMemoryRouteRegistry()

// GetAllRoutes returns all registered routes
func (r *InMemoryRouteRegistry) GetAllRoutes() []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]RouteInfo(nil), r.routes...)
}

// GetRoutesByController returns routes filtered by controller name
func (r *InMemoryRouteRegistry) GetRoutesByController(controllerName string) []RouteInfo {
	return r.filter(func(route RouteInfo) bool { return route.ControllerName == controllerName })
}

// GetRoutesByMethod returns routes filtered by HTTP method
func (r *InMemoryRouteRegistry) GetRoutesByMethod(method string) []RouteInfo {
	return r.filter(func(route RouteInfo) bool { return route.Method == method })
}

// RegisterRoute adds a route to the registry
func (r *InMemoryRouteRegistry) RegisterRoute(route RouteInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

// Reset drops every recorded route and the handlers they hold
func (r *InMemoryRouteRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = nil
}

func (r *InMemoryRouteRegistry) filter(keep func(RouteInfo) bool) []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var filtered []RouteInfo
	for _, route := range r.routes {
		if keep(route) {
			filtered = append(filtered, route)
		}
	}
	return filtered
}

// GetRoutes returns all routes in the default registry (convenience function)
func GetRoutes() []RouteInfo {
	return DefaultRouteRegistry.GetAllRoutes()
}
