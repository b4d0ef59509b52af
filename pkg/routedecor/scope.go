package routedecor

import (
	"github.com/toyz/routedecor/pkg/container"
	"go.uber.org/zap"
)

const (
	// ScopeKey is the request context key holding the request scope
	ScopeKey = "container"
	// ScopeIDKey is the request context key holding the request scope id
	ScopeIDKey = "container.id"
)

// ScopePerRequest gives every call its own child scope of root, stored under
// ScopeKey for the rest of the chain and disposed once the chain returns.
func ScopePerRequest(root *container.Container) MiddlewareFunc {
	return ScopePerRequestWithLogger(root, nil)
}

// ScopePerRequestWithLogger is ScopePerRequest logging scope disposal failures to logger
func ScopePerRequestWithLogger(root *container.Container, logger *zap.Logger) MiddlewareFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next HandlerFunc) HandlerFunc {
		return func(rc RequestContext) error {
			scope := root.CreateScope()
			rc.Set(ScopeKey, scope)
			rc.Set(ScopeIDKey, scope.ID())

			defer func() {
				if err := scope.Dispose(); err != nil {
					logger.Warn("dispose request scope",
						zap.String("scope", scope.ID()),
						zap.Error(err))
				}
			}()
			return next(rc)
		}
	}
}

// ScopeFrom returns the request scope attached by ScopePerRequest
func ScopeFrom(rc RequestContext) (Resolver, bool) {
	if rc == nil {
		return nil, false
	}
	scope, ok := rc.Get(ScopeKey).(Resolver)
	if !ok || scope == nil {
		return nil, false
	}
	return scope, true
}
