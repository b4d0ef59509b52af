// Package adapters mounts routedecor routes on gin, echo and fiber.
package adapters

import (
	"strings"

	"github.com/toyz/routedecor/pkg/routedecor"
)

// routerPath renders p in the colon-parameter syntax shared by the three
// routers, with wildcard written as given. The result always starts with "/".
func routerPath(p routedecor.Path, wildcard string) string {
	path := p.Format(func(name string) string { return ":" + name }, wildcard)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// errorBody is the JSON body written for an error reaching an adapter.
func errorBody(err error) (int, map[string]any) {
	status, message := routedecor.StatusOf(err)
	return status, map[string]any{"error": message}
}
