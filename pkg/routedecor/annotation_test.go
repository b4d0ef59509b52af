package routedecor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskController struct{}

func (taskController) List(*Call)          {}
func (taskController) Show(*Call)          {}
func (*taskController) Remove(*Call) error { return nil }
func (taskController) unexported(*Call)    {}

func noopMiddleware(next HandlerFunc) HandlerFunc { return next }

func TestRoute_MethodNormalization(t *testing.T) {
	tests := []struct {
		name     string
		ann      Annotation
		expected HTTPMethod
		token    string
		verb     string
	}{
		{name: "get", ann: Get(), expected: MethodGet, token: "get", verb: "GET"},
		{name: "post", ann: Post(), expected: MethodPost, token: "post", verb: "POST"},
		{name: "put", ann: Put(), expected: MethodPut, token: "put", verb: "PUT"},
		{name: "patch", ann: Patch(), expected: MethodPatch, token: "patch", verb: "PATCH"},
		{name: "delete", ann: Delete(), expected: MethodDelete, token: "delete", verb: "DELETE"},
		{name: "del alias", ann: Del(), expected: MethodDelete, token: "delete", verb: "DELETE"},
		{name: "head", ann: Head(), expected: MethodHead, token: "head", verb: "HEAD"},
		{name: "options", ann: Options(), expected: MethodOptions, token: "options", verb: "OPTIONS"},
		{name: "all", ann: All(), expected: MethodAll, token: "all", verb: MethodAny},
		{name: "upper case token", ann: Route("DEL"), expected: MethodDelete, token: "delete", verb: "DELETE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.ann.Err())
			meta := tt.ann.Metadata()
			assert.Equal(t, tt.expected, meta.Method)
			assert.Equal(t, tt.token, meta.Method.String())
			assert.Equal(t, tt.verb, meta.Method.Verb())
		})
	}
}

func TestRoute_Arguments(t *testing.T) {
	t.Run("path only", func(t *testing.T) {
		meta := Get("/:id").Metadata()
		assert.Equal(t, "/:id", meta.Path)
		assert.Empty(t, meta.Middlewares)
	})

	t.Run("path and middlewares", func(t *testing.T) {
		ann := Post("/", noopMiddleware, MiddlewareFunc(noopMiddleware))
		require.NoError(t, ann.Err())
		assert.Equal(t, "/", ann.Metadata().Path)
		assert.Len(t, ann.Metadata().Middlewares, 2)
	})

	t.Run("middleware as first argument", func(t *testing.T) {
		ann := Put(noopMiddleware, noopMiddleware)
		require.NoError(t, ann.Err())
		assert.Empty(t, ann.Metadata().Path)
		assert.Len(t, ann.Metadata().Middlewares, 2)
	})

	t.Run("invalid lone first argument", func(t *testing.T) {
		ann := Get(42)
		require.Error(t, ann.Err())
		assert.True(t, IsValidationError(ann.Err()))
		assert.Contains(t, ann.Err().Error(), "the first argument is not a valid string path or middleware function")
	})

	t.Run("invalid first argument followed by more", func(t *testing.T) {
		ann := Get(42, noopMiddleware)
		require.Error(t, ann.Err())
		assert.Contains(t, ann.Err().Error(), "invalid type, middleware must be a function")
	})

	t.Run("invalid middleware", func(t *testing.T) {
		ann := Get("/x", "not a middleware")
		require.Error(t, ann.Err())
		assert.True(t, IsValidationError(ann.Err()))
		assert.Contains(t, ann.Err().Error(), "invalid type, middleware must be a function")
	})

	t.Run("nil middleware", func(t *testing.T) {
		var mw MiddlewareFunc
		ann := Get("/x", mw)
		require.Error(t, ann.Err())
	})

	t.Run("unknown method", func(t *testing.T) {
		ann := Route("fetch", "/x")
		require.Error(t, ann.Err())
		assert.True(t, IsValidationError(ann.Err()))
	})
}

func TestAnnotation_Apply(t *testing.T) {
	t.Run("class target method lookup", func(t *testing.T) {
		store := NewMetadataStore()
		target := Class[taskController]()

		require.NoError(t, Get().Apply(store, target, "List"))
		require.NoError(t, Del("/:id").Apply(store, target, "Remove"))

		err := Get().Apply(store, target, "Missing")
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "a property Missing doesn't exist in target object")

		err = Get().Apply(store, target, "unexported")
		require.Error(t, err)
	})

	t.Run("literal target key lookup", func(t *testing.T) {
		store := NewMetadataStore()
		target := Literal(Actions{"getTasks": func(*Call) {}})

		require.NoError(t, Get().Apply(store, target, "getTasks"))

		err := Get().Apply(store, target, "getTask")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "getTask")
		assert.Len(t, store.Entries(target), 1)
	})

	t.Run("factory targets are not checked", func(t *testing.T) {
		store := NewMetadataStore()
		target := Factory(func(Resolver) (any, error) { return Actions{}, nil })
		require.NoError(t, Get().Apply(store, target, "anything"))
	})

	t.Run("build error surfaces on apply", func(t *testing.T) {
		store := NewMetadataStore()
		err := Get(3.14).Apply(store, Class[taskController](), "List")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "action List")
		assert.True(t, IsValidationError(err))
		assert.Nil(t, store.Entries(Class[taskController]()))
	})

	t.Run("nil target", func(t *testing.T) {
		err := Get().Apply(NewMetadataStore(), nil, "List")
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}

func TestMetadataStore_OverwriteKeepsPosition(t *testing.T) {
	store := NewMetadataStore()
	target := Class[taskController]()

	require.NoError(t, Get("/first").Apply(store, target, "List"))
	require.NoError(t, Get("/:id").Apply(store, target, "Show"))
	require.NoError(t, Post("/second").Apply(store, target, "List"))

	entries := store.Entries(target)
	require.Len(t, entries, 2)
	assert.Equal(t, "List", entries[0].Action)
	assert.Equal(t, MethodPost, entries[0].Metadata.Method)
	assert.Equal(t, "/second", entries[0].Metadata.Path)
	assert.Equal(t, "Show", entries[1].Action)
}

func TestMetadataStore_TargetsAreIsolated(t *testing.T) {
	store := NewMetadataStore()
	a := Literal(Actions{"x": func(*Call) {}})
	b := Literal(Actions{"x": func(*Call) {}})

	require.NoError(t, Get("/a").Apply(store, a, "x"))
	assert.Len(t, store.Entries(a), 1)
	assert.Nil(t, store.Entries(b))

	// class targets share identity by type
	require.NoError(t, Get().Apply(store, Class[taskController](), "List"))
	assert.Len(t, store.Entries(Class[taskController]()), 1)

	store.Forget(a)
	assert.Nil(t, store.Entries(a))
}

func TestParseMethod(t *testing.T) {
	m, ok := ParseMethod(" Del ")
	require.True(t, ok)
	assert.Equal(t, MethodDelete, m)

	_, ok = ParseMethod("connect")
	assert.False(t, ok)
	assert.False(t, HTTPMethod(0).Valid())
	assert.Equal(t, "unknown", HTTPMethod(99).String())
}

func buildTasks(Resolver) (any, error) { return Actions{}, nil }

func TestFactory_Name(t *testing.T) {
	assert.Equal(t, "buildTasks", Factory(buildTasks).Name())
	assert.Equal(t, "TestFactory_Name", Factory(func(Resolver) (any, error) { return nil, nil }).Name())
	assert.Equal(t, FactoryKind, Factory(buildTasks).Kind())
}
