// Package controllers declares the demo controllers. Controllers under
// demo/direct are mounted with the direct strategy, those under
// demo/container with the container strategy.
package controllers

import (
	"net/http"
	"time"

	"github.com/toyz/routedecor/pkg/routedecor"
)

// health answers with a plain handler signature, so it mounts under either strategy.
func health(started time.Time, store *routedecor.MetadataStore) (*routedecor.Controller, error) {
	return routedecor.NewController("/health").
		WithStore(store).
		Bind(routedecor.Literal(routedecor.Actions{
			"status": func(rc routedecor.RequestContext) error {
				return rc.Response().JSON(http.StatusOK, map[string]any{
					"status": "ok",
					"uptime": time.Since(started).Round(time.Second).String(),
				})
			},
		}), routedecor.Action("status", routedecor.Get()))
}
