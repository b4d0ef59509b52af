package controllers

import (
	"time"

	"github.com/toyz/routedecor/internal/demo/services"
	"github.com/toyz/routedecor/pkg/routedecor"
)

// Register adds the demo controllers to catalog. Middleware names in route
// expressions resolve through registry.
func Register(catalog *routedecor.Catalog, registry routedecor.MiddlewareRegistry, tasks *services.TaskService) error {
	store := routedecor.NewMetadataStore()

	healthCtrl, err := health(time.Now(), store)
	if err != nil {
		return err
	}
	direct, err := newDirectTasks(tasks, registry, store)
	if err != nil {
		return err
	}
	scoped, err := newContainerTasks(registry, store)
	if err != nil {
		return err
	}

	modules := []routedecor.Module{
		{Path: "demo/direct/health", Controller: healthCtrl},
		{Path: "demo/direct/tasks", Controller: direct},
		{Path: "demo/container/health", Controller: healthCtrl},
		{Path: "demo/container/tasks", Controller: scoped},
	}
	for _, m := range modules {
		if err := catalog.Add(m.Path, m.Controller); err != nil {
			return err
		}
	}
	return nil
}
