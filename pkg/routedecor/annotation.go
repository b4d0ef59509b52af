package routedecor

import (
	"fmt"
)

// Annotation is the route metadata for one action, ready to be applied to a
// target. Argument errors are captured when the annotation is built and
// reported when it is applied.
type Annotation struct {
	method      HTTPMethod
	path        string
	middlewares []MiddlewareFunc
	err         error
}

// Route builds an annotation for any method token. args is an optional
// sub-path followed by middlewares, or middlewares only.
func Route(method string, args ...any) Annotation {
	m, ok := ParseMethod(method)
	if !ok {
		return Annotation{err: newValidationError("", "unknown http method %q", method)}
	}

	path, middlewares, err := parseRouteArgs(args)
	if err != nil {
		return Annotation{method: m, err: err}
	}
	return Annotation{method: m, path: path, middlewares: middlewares}
}

// Get annotates a GET action
func Get(args ...any) Annotation { return Route("get", args...) }

// Post annotates a POST action
func Post(args ...any) Annotation { return Route("post", args...) }

// Put annotates a PUT action
func Put(args ...any) Annotation { return Route("put", args...) }

// Patch annotates a PATCH action
func Patch(args ...any) Annotation { return Route("patch", args...) }

// Delete annotates a DELETE action
func Delete(args ...any) Annotation { return Route("delete", args...) }

// Del is an alias of Delete
func Del(args ...any) Annotation { return Route("del", args...) }

// Head annotates a HEAD action
func Head(args ...any) Annotation { return Route("head", args...) }

// Options annotates an OPTIONS action
func Options(args ...any) Annotation { return Route("options", args...) }

// All annotates an action answering every method
func All(args ...any) Annotation { return Route("all", args...) }

// Err returns the argument error captured when the annotation was built
func (a Annotation) Err() error {
	return a.err
}

// Metadata returns the metadata the annotation records
func (a Annotation) Metadata() RouteMetadata {
	return RouteMetadata{
		Method:      a.method,
		Path:        a.path,
		Middlewares: append([]MiddlewareFunc(nil), a.middlewares...),
	}
}

// Apply records the annotation for action on target in store.
func (a Annotation) Apply(store *MetadataStore, target Target, action string) error {
	if a.err != nil {
		return fmt.Errorf("action %s: %w", action, a.err)
	}
	if target == nil {
		return newValidationError(action, "target must be a function or object")
	}
	if !a.method.Valid() {
		return newValidationError(action, "unknown http method")
	}
	if present, checked := target.hasAction(action); checked && !present {
		return newValidationError(action, "a property %s doesn't exist in target object", action)
	}

	store.Set(target, action, a.Metadata())
	return nil
}

func parseRouteArgs(args []any) (string, []MiddlewareFunc, error) {
	if len(args) == 0 {
		return "", nil, nil
	}

	var path string
	rest := args[1:]
	switch first := args[0].(type) {
	case string:
		path = first
	case nil:
	default:
		if _, ok := toMiddleware(first); !ok && len(rest) == 0 {
			return "", nil, newValidationError("", "the first argument is not a valid string path or middleware function")
		}
		rest = args
	}

	middlewares := make([]MiddlewareFunc, 0, len(rest))
	for _, arg := range rest {
		mw, ok := toMiddleware(arg)
		if !ok {
			return "", nil, newValidationError("", "invalid type, middleware must be a function, got %T", arg)
		}
		middlewares = append(middlewares, mw)
	}
	return path, middlewares, nil
}

func toMiddleware(v any) (MiddlewareFunc, bool) {
	switch mw := v.(type) {
	case MiddlewareFunc:
		return mw, mw != nil
	case func(HandlerFunc) HandlerFunc:
		return mw, mw != nil
	default:
		return nil, false
	}
}
