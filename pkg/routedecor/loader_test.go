package routedecor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/routedecor/pkg/container"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type taskService struct {
	requests []RequestContext
	tasks    []string
}

func (s *taskService) List(rc RequestContext) []string {
	s.requests = append(s.requests, rc)
	return s.tasks
}

// injectedTasks is resolved per call; its service comes from the request scope.
type injectedTasks struct {
	Service *taskService `inject:"taskService"`
}

func (c *injectedTasks) GetTasks(req RequestContext, res ResponseInterface, _ NextFunc) error {
	return res.JSON(200, c.Service.List(req))
}

func TestLoad_ConfigurationErrors(t *testing.T) {
	var typedNil *recordingSink
	var nilFunc SinkFunc

	tests := []struct {
		name    string
		cfg     Config
		message string
	}{
		{name: "nil router", cfg: Config{ControllerExpression: "**"}, message: "router must be a function or an object"},
		{name: "typed nil router", cfg: Config{Router: typedNil, ControllerExpression: "**"}, message: "router must be a function or an object"},
		{name: "nil sink func", cfg: Config{Router: nilFunc, ControllerExpression: "**"}, message: "router must be a function or an object"},
		{name: "empty expression", cfg: Config{Router: &recordingSink{}}, message: "controllerExpression must be a valid string"},
		{name: "invalid glob", cfg: Config{Router: &recordingSink{}, ControllerExpression: "controllers/[a-"}, message: "controllerExpression must be a valid string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, err := Load(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, sink)
			assert.True(t, IsConfigurationError(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoad_DiscovererFailure(t *testing.T) {
	_, err := Load(Config{
		Router:               &recordingSink{},
		ControllerExpression: "**",
		Discoverer: DiscovererFunc(func(string) ([]Module, error) {
			return nil, errors.New("disk on fire")
		}),
	})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestUseControllers_DirectEndToEnd(t *testing.T) {
	calls := 0
	var got *Call
	getTasks := func(c *Call) error {
		calls++
		got = c
		return c.Response.JSON(200, []string{"write tests"})
	}

	ctrl := NewController("/tasks").
		WithStore(NewMetadataStore()).
		MustBind(Literal(Actions{"getTasks": getTasks}), Action("getTasks", Get()))

	sink := &recordingSink{}
	registry := NewInMemoryRouteRegistry()
	router, err := UseControllers(Config{
		Router:               sink,
		ControllerExpression: "controllers/**",
		Discoverer:           catalogOf(map[string]*Controller{"controllers/tasks": ctrl}, "controllers/tasks"),
		Registry:             registry,
	})
	require.NoError(t, err)
	assert.Same(t, sink, router)

	require.Len(t, sink.routes, 1)
	route := sink.routes[0]
	assert.Equal(t, "GET", route.method)
	assert.Equal(t, Path("/tasks"), route.path)

	rc := newFakeContext("GET", "/tasks")
	require.NoError(t, route.serve(rc))
	assert.Equal(t, 1, calls)
	require.NotNil(t, got)
	assert.Same(t, rc, got.Request)
	assert.Equal(t, []string{"write tests"}, rc.res.body)

	routes := registry.GetAllRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "controllers/tasks", routes[0].Module)
	assert.Equal(t, "getTasks", routes[0].Endpoint)
	assert.Equal(t, "direct", routes[0].Strategy)
	assert.Equal(t, LiteralKind, routes[0].Kind)
}

func TestUseControllers_ClassInstanceIsShared(t *testing.T) {
	type counter struct{ hits int }
	store := NewMetadataStore()

	ctrl := NewController("/count").WithStore(store).MustBind(
		Factory(func(r Resolver) (any, error) {
			c := &counter{}
			return Actions{
				"inc":  func(*Call) { c.hits++ },
				"read": func(call *Call) error { return call.Response.JSON(200, c.hits) },
			}, nil
		}),
		Action("inc", Post()),
		Action("read", Get()),
	)

	sink := &recordingSink{}
	_, err := UseControllers(Config{
		Router:               sink,
		ControllerExpression: "*",
		Discoverer:           catalogOf(map[string]*Controller{"count": ctrl}, "count"),
		Registry:             NewInMemoryRouteRegistry(),
	})
	require.NoError(t, err)
	require.Len(t, sink.routes, 2)

	require.NoError(t, sink.routes[0].serve(newFakeContext("POST", "/count")))
	require.NoError(t, sink.routes[0].serve(newFakeContext("POST", "/count")))

	rc := newFakeContext("GET", "/count")
	require.NoError(t, sink.routes[1].serve(rc))
	assert.Equal(t, 2, rc.res.body)
}

func TestUseControllers_UnknownEndpointFailsAtRegistration(t *testing.T) {
	ctrl := NewController("/broken").
		WithStore(NewMetadataStore()).
		MustBind(Factory(func(Resolver) (any, error) { return Actions{}, nil }), Action("missing", Get()))

	sink := &recordingSink{}
	_, err := UseControllers(Config{
		Router:               sink,
		ControllerExpression: "broken",
		Discoverer:           catalogOf(map[string]*Controller{"broken": ctrl}, "broken"),
		Registry:             NewInMemoryRouteRegistry(),
	})
	require.Error(t, err)
	assert.True(t, IsResolutionError(err))
	assert.Empty(t, sink.routes)
}

func TestUseControllers_SkipsModulesWithoutController(t *testing.T) {
	ctrl := NewController("/a").
		WithStore(NewMetadataStore()).
		MustBind(Literal(Actions{"a": func(*Call) {}}), Action("a", Get()))

	sink := &recordingSink{}
	_, err := UseControllers(Config{
		Router:               sink,
		ControllerExpression: "mods/*",
		Discoverer: catalogOf(map[string]*Controller{"mods/empty": nil, "mods/a": ctrl, "other/a": ctrl},
			"mods/empty", "mods/a", "other/a"),
		Registry: NewInMemoryRouteRegistry(),
	})
	require.NoError(t, err)
	assert.Len(t, sink.routes, 1)
}

func TestUseControllers_RegistrationOrder(t *testing.T) {
	store := NewMetadataStore()
	first := NewController("/first").WithStore(store).MustBind(
		Literal(Actions{"b": func(*Call) {}, "a": func(*Call) {}}),
		Action("b", Get("/b")),
		Action("a", Get("/a")),
	)
	second := NewController("/second").WithStore(store).MustBind(
		Literal(Actions{"x": func(*Call) {}}),
		Action("x", Del("/x")),
	)

	var order []string
	sink := SinkFunc(func(method string, path Path, _ HandlerFunc, _ ...MiddlewareFunc) {
		order = append(order, method+" "+path.Raw())
	})

	_, err := UseControllers(Config{
		Router:               sink,
		ControllerExpression: "**",
		Discoverer: catalogOf(map[string]*Controller{"app/first": first, "app/second": second},
			"app/second", "app/first"),
		Registry: NewInMemoryRouteRegistry(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"DELETE /second/x", "GET /first/b", "GET /first/a"}, order)
}

func TestUseContainerControllers_InjectEndToEnd(t *testing.T) {
	stub := &taskService{tasks: []string{"stubbed"}}
	root := container.New()
	root.Register("taskService", container.AsValue(stub))

	ctrl := NewController("/tasks", Inject("taskService")).
		WithStore(NewMetadataStore()).
		MustBind(Class[injectedTasks](), Action("GetTasks", Get()))

	sink := &recordingSink{}
	_, err := UseContainerControllers(Config{
		Router:               sink,
		ControllerExpression: "**",
		Discoverer:           catalogOf(map[string]*Controller{"di/tasks": ctrl}, "di/tasks"),
		Registry:             NewInMemoryRouteRegistry(),
	})
	require.NoError(t, err)
	require.Len(t, sink.routes, 1)

	rc := newFakeContext("GET", "/tasks")
	handler := Chain(sink.routes[0].handler, append([]MiddlewareFunc{ScopePerRequest(root)}, sink.routes[0].middlewares...)...)
	require.NoError(t, handler(rc))

	require.Len(t, stub.requests, 1)
	assert.Same(t, rc, stub.requests[0])
	assert.Equal(t, []string{"stubbed"}, rc.res.body)
	assert.Same(t, stub, rc.Get("taskService"))
}

func TestUseContainerControllers_FactoryTargetGetsScope(t *testing.T) {
	root := container.New()
	root.Register("greeting", container.AsFunction(func(container.Cradle) (string, error) { return "hello", nil }).Scoped())

	ctrl := NewController("/greet").
		WithStore(NewMetadataStore()).
		MustBind(Factory(func(r Resolver) (any, error) {
			greeting, err := r.Resolve("greeting")
			if err != nil {
				return nil, err
			}
			return Actions{
				"say": func(_ RequestContext, res ResponseInterface, _ NextFunc) error {
					return res.String(200, greeting.(string))
				},
			}, nil
		}), Action("say", Get()))

	sink := &recordingSink{}
	_, err := UseContainerControllers(Config{
		Router:               sink,
		ControllerExpression: "greet",
		Discoverer:           catalogOf(map[string]*Controller{"greet": ctrl}, "greet"),
		Registry:             NewInMemoryRouteRegistry(),
	})
	require.NoError(t, err)

	rc := newFakeContext("GET", "/greet")
	require.NoError(t, ScopePerRequest(root)(sink.routes[0].handler)(rc))
	assert.Equal(t, "hello", rc.res.body)
}

func TestUseContainerControllers_ResolutionFailuresAreForwarded(t *testing.T) {
	ctrl := NewController("/tasks").
		WithStore(NewMetadataStore()).
		MustBind(Class[injectedTasks](), Action("GetTasks", Get()))

	sink := &recordingSink{}
	_, err := UseContainerControllers(Config{
		Router:               sink,
		ControllerExpression: "**",
		Discoverer:           catalogOf(map[string]*Controller{"di/tasks": ctrl}, "di/tasks"),
		Registry:             NewInMemoryRouteRegistry(),
	})
	require.NoError(t, err)
	handler := sink.routes[0].handler

	t.Run("missing scope", func(t *testing.T) {
		err := handler(newFakeContext("GET", "/tasks"))
		require.Error(t, err)
		assert.True(t, IsResolutionError(err))
		assert.Contains(t, err.Error(), "ScopePerRequest")
	})

	t.Run("unregistered dependency", func(t *testing.T) {
		err := ScopePerRequest(container.New())(handler)(newFakeContext("GET", "/tasks"))
		require.Error(t, err)
		assert.True(t, IsResolutionError(err))
		assert.ErrorIs(t, err, container.ErrNotRegistered)
	})
}

func TestContainerStrategy_EmptyEndpoint(t *testing.T) {
	ctrl := NewController("/x").
		WithStore(NewMetadataStore()).
		MustBind(Literal(Actions{"x": func(*Call) {}}), Action("x", Get()))

	inv, err := NewContainerStrategy().Resolve(ctrl, "", Native)
	require.NoError(t, err)

	rc := newFakeContext("GET", "/x")
	rc.Set(ScopeKey, container.New())
	err = Adapt(inv)(rc)
	require.Error(t, err)
	assert.True(t, IsResolutionError(err))
	assert.Contains(t, err.Error(), "methodToInvoke")
}

func TestLoad_LogsRegistrations(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	ctrl := NewController("/logged").
		WithStore(NewMetadataStore()).
		MustBind(Literal(Actions{"x": func(*Call) {}}), Action("x", All()))

	sink := &recordingSink{}
	_, err := UseControllers(Config{
		Router:               sink,
		ControllerExpression: "logged",
		Discoverer:           catalogOf(map[string]*Controller{"logged": ctrl}, "logged"),
		Logger:               zap.New(core),
		Registry:             NewInMemoryRouteRegistry(),
	})
	require.NoError(t, err)

	assert.Equal(t, MethodAny, sink.routes[0].method)
	registered := logs.FilterMessage("route registered").All()
	require.Len(t, registered, 1)
	assert.Equal(t, "/logged", registered[0].ContextMap()["path"])
	assert.Equal(t, 1, logs.FilterMessage("controllers loaded").Len())
}

func TestLoad_DefaultRegistryAccumulatesUntilReset(t *testing.T) {
	DefaultRouteRegistry.Reset()
	t.Cleanup(DefaultRouteRegistry.Reset)

	ctrl := NewController("/ping").
		WithStore(NewMetadataStore()).
		MustBind(Literal(Actions{"ping": func(*Call) {}}), Action("ping", Get()))
	cfg := Config{
		Router:               &recordingSink{},
		ControllerExpression: "ping",
		Discoverer:           catalogOf(map[string]*Controller{"ping": ctrl}, "ping"),
	}

	_, err := UseControllers(cfg)
	require.NoError(t, err)
	_, err = UseControllers(cfg)
	require.NoError(t, err)
	assert.Len(t, GetRoutes(), 2)

	DefaultRouteRegistry.Reset()
	assert.Empty(t, GetRoutes())
}
