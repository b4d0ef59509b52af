package routedecor

import (
	"sync"
)

// Strategy turns a controller endpoint into an Invoker.
type Strategy interface {
	Name() string
	Resolve(ctrl *Controller, endpoint string, conv Convention) (Invoker, error)
}

// DirectStrategy instantiates each controller once, without a resolver, and
// binds actions on that instance. Unknown endpoints fail at registration.
type DirectStrategy struct {
	mu        sync.Mutex
	instances map[*Controller]any
}

// NewDirectStrategy creates a DirectStrategy
func NewDirectStrategy() *DirectStrategy {
	return &DirectStrategy{instances: make(map[*Controller]any)}
}

// Name returns "direct"
func (s *DirectStrategy) Name() string { return "direct" }

// Resolve binds endpoint on the controller's shared instance
func (s *DirectStrategy) Resolve(ctrl *Controller, endpoint string, conv Convention) (Invoker, error) {
	instance, err := s.instance(ctrl)
	if err != nil {
		return nil, newResolutionError(ctrl.Name(), endpoint, err, "cannot instantiate controller %s", ctrl.Name())
	}

	fn, err := lookupAction(instance, endpoint)
	if err != nil {
		return nil, newResolutionError(ctrl.Name(), endpoint, err, "cannot resolve %s.%s", ctrl.Name(), endpoint)
	}

	inv, err := bindAction(fn, conv)
	if err != nil {
		return nil, newResolutionError(ctrl.Name(), endpoint, err, "cannot bind %s.%s", ctrl.Name(), endpoint)
	}
	return inv, nil
}

func (s *DirectStrategy) instance(ctrl *Controller) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if instance, ok := s.instances[ctrl]; ok {
		return instance, nil
	}
	instance, err := ctrl.Target().instantiate()
	if err != nil {
		return nil, err
	}
	s.instances[ctrl] = instance
	return instance, nil
}

// ContainerStrategy builds the controller from the request scope on every
// call: class targets as container.AsClass, factories as container.AsFunction
// and literals as container.AsValue registrations.
type ContainerStrategy struct{}

// NewContainerStrategy creates a ContainerStrategy
func NewContainerStrategy() *ContainerStrategy {
	return &ContainerStrategy{}
}

// Name returns "container"
func (s *ContainerStrategy) Name() string { return "container" }

// Resolve returns an Invoker that resolves endpoint lazily. Resolution
// failures are returned from the invoker and reach the router through next.
func (s *ContainerStrategy) Resolve(ctrl *Controller, endpoint string, conv Convention) (Invoker, error) {
	name := ctrl.Name()
	reg := ctrl.Target().registration()
	return func(call *Call) (Deferred, error) {
		if endpoint == "" {
			return nil, newResolutionError(name, endpoint, nil,
				"methodToInvoke must be a valid method name, but was empty")
		}

		scope, ok := ScopeFrom(call.Request)
		if !ok {
			return nil, newResolutionError(name, endpoint, nil,
				"no request scope under %q, is ScopePerRequest installed?", ScopeKey)
		}

		builder, ok := scope.(Builder)
		if !ok {
			return nil, newResolutionError(name, endpoint, nil,
				"request scope %T cannot build registrations", scope)
		}

		instance, err := builder.Build(reg)
		if err != nil {
			return nil, newResolutionError(name, endpoint, err, "cannot build controller %s", name)
		}

		fn, err := lookupAction(instance, endpoint)
		if err != nil {
			return nil, newResolutionError(name, endpoint, err, "cannot resolve %s.%s", name, endpoint)
		}

		inv, err := bindAction(fn, conv)
		if err != nil {
			return nil, newResolutionError(name, endpoint, err, "cannot bind %s.%s", name, endpoint)
		}
		return inv(call)
	}, nil
}
