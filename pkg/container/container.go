// Package container is a small name-keyed dependency container with
// transient, scoped and singleton lifetimes and per-request child scopes.
package container

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotRegistered is returned when no registration exists for a name
	ErrNotRegistered = errors.New("dependency not registered")
	// ErrCycle is returned when a registration depends on itself
	ErrCycle = errors.New("circular dependency")
	// ErrDisposed is returned by a scope used after Dispose
	ErrDisposed = errors.New("container disposed")
)

// Lifetime controls how long a built value is reused.
type Lifetime int

const (
	// Transient values are built on every resolution
	Transient Lifetime = iota
	// Scoped values are built once per scope
	Scoped
	// Singleton values are built once per root container
	Singleton
)

// String returns the lifetime name
func (l Lifetime) String() string {
	switch l {
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	default:
		return "transient"
	}
}

// Cradle resolves named dependencies while a value is being built.
type Cradle interface {
	Resolve(name string) (any, error)
}

// Registration describes how to build one value.
type Registration struct {
	build    func(Cradle) (any, error)
	lifetime Lifetime
	kind     string
}

// AsClass builds a new *T and fills its `inject` tagged fields.
func AsClass[T any]() *Registration {
	typ := reflect.TypeFor[T]()
	return &Registration{
		kind: "class " + typ.String(),
		build: func(c Cradle) (any, error) {
			ptr := reflect.New(typ)
			if typ.Kind() == reflect.Struct {
				if err := Populate(ptr.Interface(), c); err != nil {
					return nil, err
				}
			}
			return ptr.Interface(), nil
		},
	}
}

// AsFunction builds the value by calling fn.
func AsFunction[T any](fn func(Cradle) (T, error)) *Registration {
	return &Registration{
		kind: "function",
		build: func(c Cradle) (any, error) {
			return fn(c)
		},
	}
}

// AsValue always yields v
func AsValue(v any) *Registration {
	return &Registration{
		kind:     "value",
		lifetime: Singleton,
		build:    func(Cradle) (any, error) { return v, nil },
	}
}

// Transient marks the registration transient
func (r *Registration) Transient() *Registration {
	r.lifetime = Transient
	return r
}

// Scoped marks the registration scoped
func (r *Registration) Scoped() *Registration {
	r.lifetime = Scoped
	return r
}

// Singleton marks the registration singleton
func (r *Registration) Singleton() *Registration {
	r.lifetime = Singleton
	return r
}

// Lifetime returns the registration lifetime
func (r *Registration) Lifetime() Lifetime {
	return r.lifetime
}

// String describes the registration
func (r *Registration) String() string {
	return fmt.Sprintf("%s (%s)", r.kind, r.lifetime)
}

// Container holds registrations and the values cached for its lifetime.
// Child scopes see their parents' registrations.
type Container struct {
	id     string
	parent *Container
	root   *Container

	mu            sync.RWMutex
	registrations map[string]*Registration
	cache         map[string]any
	closers       []io.Closer
	disposed      bool
}

// New creates a root container
func New() *Container {
	c := newContainer(nil)
	c.root = c
	return c
}

func newContainer(parent *Container) *Container {
	c := &Container{
		id:            uuid.NewString(),
		parent:        parent,
		registrations: make(map[string]*Registration),
		cache:         make(map[string]any),
	}
	if parent != nil {
		c.root = parent.root
	}
	return c
}

// ID returns the unique id of this container or scope
func (c *Container) ID() string {
	return c.id
}

// Register adds or replaces the registration for name
func (c *Container) Register(name string, reg *Registration) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations[name] = reg
	delete(c.cache, name)
	return c
}

// CreateScope returns a child scope. Scoped values resolved through it are
// cached in it until Dispose.
func (c *Container) CreateScope() *Container {
	return newContainer(c)
}

// Has reports whether name is registered here or in a parent
func (c *Container) Has(name string) bool {
	_, ok := c.lookup(name)
	return ok
}

// Names lists every registered name visible from c, sorted
func (c *Container) Names() []string {
	seen := make(map[string]struct{})
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		for name := range cur.registrations {
			seen[name] = struct{}{}
		}
		cur.mu.RUnlock()
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registration returns the registration visible for name
func (c *Container) Registration(name string) (*Registration, bool) {
	return c.lookup(name)
}

// Resolve builds or reuses the value registered under name
func (c *Container) Resolve(name string) (any, error) {
	return c.resolve(name, nil)
}

// Build builds reg against c without registering or caching it
func (c *Container) Build(reg *Registration) (any, error) {
	if reg == nil {
		return nil, errors.New("nil registration")
	}
	if err := c.checkAlive(); err != nil {
		return nil, err
	}
	return reg.build(&resolution{c: c})
}

// Dispose closes every io.Closer cached in this container and drops the
// cache. Parents are untouched.
func (c *Container) Dispose() error {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.cache = make(map[string]any)
	c.disposed = true
	c.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Container) checkAlive() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.disposed {
		return ErrDisposed
	}
	return nil
}

func (c *Container) lookup(name string) (*Registration, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		reg, ok := cur.registrations[name]
		cur.mu.RUnlock()
		if ok {
			return reg, true
		}
	}
	return nil, false
}

func (c *Container) resolve(name string, path []string) (any, error) {
	if slices.Contains(path, name) {
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(append(path, name), " -> "))
	}
	if err := c.checkAlive(); err != nil {
		return nil, err
	}

	reg, ok := c.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}

	cradle := &resolution{c: c, path: append(slices.Clone(path), name)}
	switch reg.lifetime {
	case Singleton:
		return c.root.cached(name, reg, cradle)
	case Scoped:
		return c.cached(name, reg, cradle)
	default:
		v, err := reg.build(cradle)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", name, err)
		}
		return v, nil
	}
}

// cached builds outside the lock; when two builds race the first stored value wins.
func (c *Container) cached(name string, reg *Registration, cradle Cradle) (any, error) {
	c.mu.RLock()
	v, ok := c.cache[name]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	built, err := reg.build(cradle)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.cache[name]; ok {
		return existing, nil
	}
	c.cache[name] = built
	if closer, ok := built.(io.Closer); ok && reg.kind != "value" {
		c.closers = append(c.closers, closer)
	}
	return built, nil
}

// resolution is the cradle handed to builders; it carries the resolution path
// for cycle detection.
type resolution struct {
	c    *Container
	path []string
}

func (r *resolution) Resolve(name string) (any, error) {
	return r.c.resolve(name, r.path)
}
