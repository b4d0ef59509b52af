package routedecor

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/toyz/routedecor/pkg/container"
)

// TargetKind tags the closed set of controller variants.
type TargetKind int

const (
	ClassKind TargetKind = iota + 1
	FactoryKind
	LiteralKind
)

// String returns the kind name
func (k TargetKind) String() string {
	switch k {
	case ClassKind:
		return "class"
	case FactoryKind:
		return "factory"
	case LiteralKind:
		return "literal"
	default:
		return "unknown"
	}
}

// Resolver looks up named dependencies. A request scope satisfies it.
type Resolver interface {
	Resolve(name string) (any, error)
}

// Builder is a Resolver that can also build unregistered registrations, as
// *container.Container does. The container strategy needs one.
type Builder interface {
	Resolver
	Build(reg *container.Registration) (any, error)
}

type emptyResolver struct{}

func (emptyResolver) Resolve(name string) (any, error) {
	return nil, fmt.Errorf("%w: %q", container.ErrNotRegistered, name)
}

// EmptyResolver resolves nothing. Factories run under the direct strategy receive it.
var EmptyResolver Resolver = emptyResolver{}

// Actions is a literal controller: action name to handler function.
type Actions map[string]any

// Target is the raw thing a controller is built from. Each variant can
// produce an instance on its own and describes itself as a container
// registration for per-request builds.
type Target interface {
	Kind() TargetKind
	Name() string

	identity() any
	// hasAction reports (present, checked); factories cannot be checked before they run.
	hasAction(name string) (bool, bool)
	instantiate() (any, error)
	registration() *container.Registration
}

type classTarget struct {
	typ reflect.Type
	reg *container.Registration
}

// Class declares T's method set as the controller. Instantiated directly it
// is a zero *T; built from a scope, fields tagged `inject:"name"` are filled.
func Class[T any]() Target {
	return classTarget{typ: reflect.TypeFor[T](), reg: container.AsClass[T]()}
}

func (t classTarget) Kind() TargetKind { return ClassKind }
func (t classTarget) Name() string { return t.typ.Name() }
func (t classTarget) identity() any { return t.typ }

func (t classTarget) hasAction(name string) (bool, bool) {
	_, ok := reflect.PointerTo(t.typ).MethodByName(name)
	return ok, true
}

func (t classTarget) instantiate() (any, error) {
	return reflect.New(t.typ).Interface(), nil
}

func (t classTarget) registration() *container.Registration { return t.reg }

type factoryTarget struct {
	fn   func(Resolver) (any, error)
	name string
}

// Factory declares a function producing the controller instance. The instance
// may be a struct carrying the action methods or an Actions map.
func Factory(fn func(Resolver) (any, error)) Target {
	return &factoryTarget{fn: fn, name: factoryName(fn)}
}

// factoryName names a factory after its function, or the function enclosing a closure.
func factoryName(fn any) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "factory"
	}
	full := f.Name()
	parts := strings.Split(full[strings.LastIndex(full, "/")+1:], ".")
	for i := len(parts) - 1; i > 0; i-- {
		p := parts[i]
		if p != "" && p != "glob" && !strings.HasPrefix(p, "func") {
			return p
		}
	}
	return "factory"
}

func (t *factoryTarget) Kind() TargetKind { return FactoryKind }
func (t *factoryTarget) Name() string { return t.name }
func (t *factoryTarget) identity() any { return t }
func (t *factoryTarget) hasAction(string) (bool, bool) { return true, false }

func (t *factoryTarget) instantiate() (any, error) {
	return t.fn(EmptyResolver)
}

func (t *factoryTarget) registration() *container.Registration {
	return container.AsFunction(func(c container.Cradle) (any, error) {
		return t.fn(c)
	})
}

type literalTarget struct {
	actions Actions
}

// Literal declares a plain map of named actions as the controller.
func Literal(actions Actions) Target {
	return &literalTarget{actions: actions}
}

func (t *literalTarget) Kind() TargetKind { return LiteralKind }
func (t *literalTarget) Name() string { return "literal" }
func (t *literalTarget) identity() any { return t }

func (t *literalTarget) hasAction(name string) (bool, bool) {
	return t.actions[name] != nil, true
}

func (t *literalTarget) instantiate() (any, error) {
	return t.actions, nil
}

func (t *literalTarget) registration() *container.Registration {
	return container.AsValue(t.actions)
}

// lookupAction finds the named action on a produced instance.
func lookupAction(instance any, name string) (any, error) {
	switch v := instance.(type) {
	case Actions:
		if fn := v[name]; fn != nil {
			return fn, nil
		}
		return nil, fmt.Errorf("action %q not found", name)
	case map[string]any:
		if fn := v[name]; fn != nil {
			return fn, nil
		}
		return nil, fmt.Errorf("action %q not found", name)
	case nil:
		return nil, fmt.Errorf("controller instance is nil")
	}

	m := reflect.ValueOf(instance).MethodByName(name)
	if !m.IsValid() {
		return nil, fmt.Errorf("method %q not found on %T", name, instance)
	}
	return m.Interface(), nil
}
