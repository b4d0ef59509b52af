package routedecor

import (
	"fmt"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/mod/module"
)

// Module is one discovered unit: the path it was registered under and the
// controller it exports. A nil controller contributes no routes.
type Module struct {
	Path       string
	Controller *Controller
}

// Discoverer finds the modules matching a controller expression.
type Discoverer interface {
	Discover(pattern string) ([]Module, error)
}

// DiscovererFunc adapts a plain function to Discoverer
type DiscovererFunc func(pattern string) ([]Module, error)

// Discover calls f
func (f DiscovererFunc) Discover(pattern string) ([]Module, error) {
	return f(pattern)
}

// ValidExpression reports whether pattern is a usable controller expression
func ValidExpression(pattern string) bool {
	return pattern != "" && doublestar.ValidatePattern(pattern)
}

// Catalog is an in-memory Discoverer. Packages add their controllers from
// init, so the order of Discover results follows package initialization
// order and is not otherwise guaranteed.
type Catalog struct {
	mu      sync.RWMutex
	modules []Module
	index   map[string]int
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// DefaultCatalog is the catalog the loader searches when no Discoverer is configured
var DefaultCatalog = NewCatalog()

// Add records ctrl under path, which must be a valid Go import path.
// Adding an existing path replaces its controller in place.
func (c *Catalog) Add(path string, ctrl *Controller) error {
	if err := module.CheckImportPath(path); err != nil {
		return newConfigurationError("modulePath", "invalid module path %q", path).WithContext("cause", err.Error())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.index[path]; ok {
		c.modules[i].Controller = ctrl
		return nil
	}
	c.index[path] = len(c.modules)
	c.modules = append(c.modules, Module{Path: path, Controller: ctrl})
	return nil
}

// Discover returns the modules whose path matches pattern, in the order they were added
func (c *Catalog) Discover(pattern string) ([]Module, error) {
	if !ValidExpression(pattern) {
		return nil, fmt.Errorf("%w: %q", doublestar.ErrBadPattern, pattern)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	var matched []Module
	for _, m := range c.modules {
		ok, err := doublestar.Match(pattern, m.Path)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// Modules returns every module in the catalog
func (c *Catalog) Modules() []Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Module(nil), c.modules...)
}

// Register adds ctrl to DefaultCatalog under path. It panics on an invalid
// path and is meant to be called from init.
func Register(path string, ctrl *Controller) {
	if err := DefaultCatalog.Add(path, ctrl); err != nil {
		panic(err)
	}
}
