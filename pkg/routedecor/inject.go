package routedecor

// MiddlewareFactory builds a middleware from the request scope
type MiddlewareFactory func(r Resolver) (MiddlewareFunc, error)

// Inject resolves name from the request scope and stores the value on the
// request context under the same name before calling the next handler.
func Inject(name string) MiddlewareFunc {
	return InjectFactory(func(r Resolver) (MiddlewareFunc, error) {
		dep, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		return func(next HandlerFunc) HandlerFunc {
			return func(rc RequestContext) error {
				rc.Set(name, dep)
				return next(rc)
			}
		}, nil
	})
}

// InjectFactory builds a middleware from the request scope on every call and
// runs it. Build failures are returned as ResolutionErrors.
func InjectFactory(factory MiddlewareFactory) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(rc RequestContext) error {
			scope, ok := ScopeFrom(rc)
			if !ok {
				return newResolutionError("inject", "", nil,
					"no request scope under %q, is ScopePerRequest installed?", ScopeKey)
			}

			mw, err := factory(scope)
			if err != nil {
				return newResolutionError("inject", "", err, "cannot build injected middleware")
			}
			return mw(next)(rc)
		}
	}
}
