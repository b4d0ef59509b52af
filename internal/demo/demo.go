// Package demo installs the demo task application: services on the root
// container, middlewares in the registry and controllers in the catalog.
package demo

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/toyz/routedecor/internal/demo/controllers"
	"github.com/toyz/routedecor/internal/demo/middleware"
	"github.com/toyz/routedecor/internal/demo/services"
	"github.com/toyz/routedecor/pkg/container"
	"github.com/toyz/routedecor/pkg/routedecor"
	"go.uber.org/zap"
)

// Install wires the demo application. Middlewares are registered first so
// route expressions can name them.
func Install(catalog *routedecor.Catalog, registry routedecor.MiddlewareRegistry, root *container.Container, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	tasks := services.NewTaskService()

	root.Register("logger", container.AsValue(logger))
	root.Register("taskService", container.AsValue(tasks))
	root.Register("audit", container.AsFunction(func(c container.Cradle) (*services.Audit, error) {
		dep, err := c.Resolve("logger")
		if err != nil {
			return nil, err
		}
		l, ok := dep.(*zap.Logger)
		if !ok {
			return nil, fmt.Errorf("logger is %T, not *zap.Logger", dep)
		}
		return services.NewAudit(l, uuid.NewString()), nil
	}).Scoped())

	middleware.Register(registry)
	return controllers.Register(catalog, registry, tasks)
}
