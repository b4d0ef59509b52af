package routedecor

import (
	"github.com/toyz/routedecor/internal/annotations"
)

// ParseRoute builds an annotation from a textual expression such as
// "GET /tasks/:id -Middleware=auth,audit". Middleware names are looked up in
// DefaultMiddlewareRegistry.
func ParseRoute(expr string) Annotation {
	return ParseRouteWith(expr, DefaultMiddlewareRegistry)
}

// ParseRouteWith is ParseRoute resolving middleware names through registry
func ParseRouteWith(expr string, registry MiddlewareRegistry) Annotation {
	route, err := annotations.Parse(expr)
	if err != nil {
		return Annotation{err: newValidationError("", "%v", err)}
	}

	args := make([]any, 0, len(route.Middlewares)+1)
	args = append(args, route.Path)
	for _, name := range route.Middlewares {
		mw, ok := registry.GetMiddleware(name)
		if !ok {
			return Annotation{err: newValidationError("", "invalid type, middleware must be a function: %q is not registered", name)}
		}
		args = append(args, mw)
	}
	return Route(route.Method, args...)
}

// MustParseRoute is like ParseRoute but panics on an invalid expression
func MustParseRoute(expr string) Annotation {
	a := ParseRoute(expr)
	if a.err != nil {
		panic(a.err)
	}
	return a
}
