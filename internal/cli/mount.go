package cli

import (
	"fmt"

	"github.com/toyz/routedecor/internal/config"
	"github.com/toyz/routedecor/internal/demo"
	"github.com/toyz/routedecor/internal/demo/middleware"
	"github.com/toyz/routedecor/pkg/container"
	"github.com/toyz/routedecor/pkg/routedecor"
	"github.com/toyz/routedecor/pkg/routedecor/adapters"
	"go.uber.org/zap"
)

// Application is what Mount leaves behind: the root container to dispose on
// shutdown and the routes it registered.
type Application struct {
	Root   *container.Container
	Routes *routedecor.InMemoryRouteRegistry
}

// NewServer creates the web server adapter named by cfg
func NewServer(cfg *config.Config) (routedecor.WebServer, error) {
	switch cfg.Server.Adapter {
	case "echo":
		return adapters.NewDefaultEchoAdapter(), nil
	case "gin":
		return adapters.NewDefaultGinAdapter(), nil
	case "fiber":
		return adapters.NewDefaultFiberAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown adapter %q, must be echo, gin or fiber", cfg.Server.Adapter)
	}
}

// Mount installs the demo application next to the controllers registered
// in routedecor.DefaultCatalog and loads the configured selection onto server.
func Mount(server routedecor.WebServer, cfg *config.Config, logger *zap.Logger) (app *Application, err error) {
	// routers panic on conflicting routes
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("register routes on %s: %v", server.Name(), r)
		}
	}()

	catalog := routedecor.NewCatalog()
	for _, m := range routedecor.DefaultCatalog.Modules() {
		if err := catalog.Add(m.Path, m.Controller); err != nil {
			return nil, err
		}
	}

	root := container.New()
	if err := demo.Install(catalog, routedecor.DefaultMiddlewareRegistry, root, logger); err != nil {
		return nil, err
	}

	server.Use(middleware.RequestID)
	if cfg.Controllers.Strategy == config.StrategyContainer {
		server.Use(routedecor.ScopePerRequestWithLogger(root, logger))
	}

	var sink routedecor.RouteSink = server
	if cfg.Server.Prefix != "" {
		sink = server.RegisterGroup(cfg.Server.Prefix)
	}

	routes := routedecor.NewInMemoryRouteRegistry()
	loaderCfg := routedecor.Config{
		Router:               sink,
		ControllerExpression: cfg.Controllers.ControllerExpression(),
		Discoverer:           catalog,
		Logger:               logger,
		Registry:             routes,
	}
	if cfg.Controllers.Strategy == config.StrategyContainer {
		_, err = routedecor.UseContainerControllers(loaderCfg)
	} else {
		_, err = routedecor.UseControllers(loaderCfg)
	}
	if err != nil {
		return nil, err
	}
	return &Application{Root: root, Routes: routes}, nil
}
