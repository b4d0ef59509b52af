// Package middleware provides the demo middlewares and registers them by
// name for textual route expressions.
package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/toyz/routedecor/pkg/routedecor"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "requestId"
)

// RequestID keeps an incoming X-Request-ID or generates one, and echoes it
// on the response.
func RequestID(next routedecor.HandlerFunc) routedecor.HandlerFunc {
	return func(rc routedecor.RequestContext) error {
		id := rc.Request().Header(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		rc.Set(RequestIDKey, id)
		rc.Response().SetHeader(RequestIDHeader, id)
		return next(rc)
	}
}

// RequireJSON rejects bodies that are not application/json
func RequireJSON(next routedecor.HandlerFunc) routedecor.HandlerFunc {
	return func(rc routedecor.RequestContext) error {
		if !strings.HasPrefix(rc.Request().ContentType(), "application/json") {
			return routedecor.NewHttpError(http.StatusUnsupportedMediaType, "content type must be application/json")
		}
		return next(rc)
	}
}

// NoStore marks the response as not cacheable
func NoStore(next routedecor.HandlerFunc) routedecor.HandlerFunc {
	return func(rc routedecor.RequestContext) error {
		rc.Response().SetHeader("Cache-Control", "no-store")
		return next(rc)
	}
}

// Register adds the demo middlewares to registry under their expression names
func Register(registry routedecor.MiddlewareRegistry) {
	registry.RegisterMiddleware("requestId", RequestID)
	registry.RegisterMiddleware("requireJson", RequireJSON)
	registry.RegisterMiddleware("noStore", NoStore)
}
