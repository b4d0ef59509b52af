package routedecor

import (
	"errors"
	"reflect"

	"go.uber.org/zap"
)

// Config tells the loader where to mount which controllers.
type Config struct {
	// Router receives every route. A SinkFunc or any RouteSink implementation.
	Router RouteSink

	// ControllerExpression is a doublestar glob over module paths, e.g. "**/controllers/*"
	ControllerExpression string

	// Discoverer finds modules; DefaultCatalog when nil
	Discoverer Discoverer

	// Strategy resolves endpoints; Load defaults to a DirectStrategy
	Strategy Strategy

	// Convention is the calling convention of the actions
	Convention Convention

	// Logger receives registration logs; a no-op logger when nil
	Logger *zap.Logger

	// Registry records mounted routes; DefaultRouteRegistry when nil. The
	// default is process wide: every Load without a Registry appends to it
	// until DefaultRouteRegistry is reset.
	Registry RouteRegistry
}

// UseControllers mounts the matching controllers with a DirectStrategy and
// context-object actions. It returns the router it mutated.
func UseControllers(cfg Config) (RouteSink, error) {
	cfg.Strategy = NewDirectStrategy()
	cfg.Convention = ContextObject
	return Load(cfg)
}

// UseContainerControllers mounts the matching controllers with a
// ContainerStrategy and native actions. The router must run ScopePerRequest
// before these routes.
func UseContainerControllers(cfg Config) (RouteSink, error) {
	cfg.Strategy = NewContainerStrategy()
	cfg.Convention = Native
	return Load(cfg)
}

// Load discovers the controllers matching cfg.ControllerExpression and
// registers every descriptor on cfg.Router, module by module in discovery
// order and route by route in annotation order.
func Load(cfg Config) (RouteSink, error) {
	if isNil(cfg.Router) {
		return nil, newConfigurationError("router", "router must be a function or an object")
	}
	if !ValidExpression(cfg.ControllerExpression) {
		return nil, newConfigurationError("controllerExpression", "controllerExpression must be a valid string").
			WithContext("value", cfg.ControllerExpression)
	}

	discoverer := cfg.Discoverer
	if discoverer == nil {
		discoverer = DefaultCatalog
	}
	strategy := cfg.Strategy
	if strategy == nil {
		strategy = NewDirectStrategy()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = DefaultRouteRegistry
	}

	modules, err := discoverer.Discover(cfg.ControllerExpression)
	if err != nil {
		cerr := newConfigurationError("controllerExpression", "cannot discover controllers")
		cerr.Cause = err
		return nil, cerr
	}

	for _, mod := range modules {
		if mod.Controller == nil {
			logger.Debug("module exports no controller", zap.String("module", mod.Path))
			continue
		}
		if err := mount(cfg.Router, registry, strategy, cfg.Convention, logger, mod); err != nil {
			return nil, err
		}
	}

	logger.Info("controllers loaded",
		zap.String("expression", cfg.ControllerExpression),
		zap.String("strategy", strategy.Name()),
		zap.Int("modules", len(modules)))
	return cfg.Router, nil
}

func mount(router RouteSink, registry RouteRegistry, strategy Strategy, conv Convention, logger *zap.Logger, mod Module) error {
	ctrl := mod.Controller
	for _, route := range ctrl.Routes() {
		inv, err := strategy.Resolve(ctrl, route.Endpoint, conv)
		if err != nil {
			var resErr *ResolutionError
			if errors.As(err, &resErr) {
				resErr.with("module", mod.Path)
			}
			return err
		}

		handler := adapt(inv, logger)
		router.RegisterRoute(route.Method.Verb(), NewPath(route.Path), handler, route.Middlewares...)

		registry.RegisterRoute(RouteInfo{
			Method:         route.Method.Verb(),
			Path:           route.Path,
			Module:         mod.Path,
			ControllerName: ctrl.Name(),
			Endpoint:       route.Endpoint,
			Kind:           ctrl.Target().Kind(),
			Strategy:       strategy.Name(),
			Middlewares:    len(route.Middlewares),
			Handler:        handler,
		})

		logger.Debug("route registered",
			zap.String("method", route.Method.Verb()),
			zap.String("path", route.Path),
			zap.String("controller", ctrl.Name()),
			zap.String("endpoint", route.Endpoint))
	}
	return nil
}

// isNil reports nil interfaces and interfaces holding nil pointers, funcs or maps.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Interface, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
