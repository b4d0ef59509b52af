package routedecor

// ActionDescriptor is one normalized route of a controller.
type ActionDescriptor struct {
	Method      HTTPMethod
	Endpoint    string // action name on the target
	Path        string // controller root path + action sub-path
	Middlewares []MiddlewareFunc
}

// ActionBinding pairs an action name with its annotation
type ActionBinding struct {
	Name       string
	Annotation Annotation
}

// Action binds annotation to the action called name
func Action(name string, annotation Annotation) ActionBinding {
	return ActionBinding{Name: name, Annotation: annotation}
}

// ControllerBuilder collects controller-level path and middlewares and binds
// them to a target.
type ControllerBuilder struct {
	rootPath    string
	middlewares []MiddlewareFunc
	store       *MetadataStore
	err         error
}

// NewController starts a controller rooted at rootPath. Controller middlewares
// run before every action middleware.
func NewController(rootPath string, middlewares ...MiddlewareFunc) *ControllerBuilder {
	return &ControllerBuilder{
		rootPath:    rootPath,
		middlewares: middlewares,
		store:       DefaultMetadataStore,
	}
}

// ControllerArgs is the untyped form of NewController: an optional root path
// followed by middlewares. A root path that is not a string is a
// ConfigurationError reported by Bind.
func ControllerArgs(args ...any) *ControllerBuilder {
	b := &ControllerBuilder{store: DefaultMetadataStore}
	if len(args) == 0 {
		return b
	}

	rest := args[1:]
	switch first := args[0].(type) {
	case string:
		b.rootPath = first
	case nil:
	default:
		if _, ok := toMiddleware(first); !ok {
			b.err = newConfigurationError("controllerPath", "controllerPath is not a valid string")
			return b
		}
		rest = args
	}

	for _, arg := range rest {
		mw, ok := toMiddleware(arg)
		if !ok {
			b.err = newValidationError("", "invalid type, middleware must be a function, got %T", arg)
			return b
		}
		b.middlewares = append(b.middlewares, mw)
	}
	return b
}

// WithStore makes the builder record metadata in store instead of DefaultMetadataStore
func (b *ControllerBuilder) WithStore(store *MetadataStore) *ControllerBuilder {
	b.store = store
	return b
}

// Bind applies each annotation to target in order, then flattens the
// target's metadata into descriptors.
func (b *ControllerBuilder) Bind(target Target, actions ...ActionBinding) (*Controller, error) {
	if b.err != nil {
		return nil, b.err
	}
	if target == nil {
		return nil, newValidationError("", "target must be a function or object")
	}

	for _, action := range actions {
		if err := action.Annotation.Apply(b.store, target, action.Name); err != nil {
			return nil, err
		}
	}

	entries := b.store.Entries(target)
	routes := make([]ActionDescriptor, 0, len(entries))
	for _, entry := range entries {
		path := b.rootPath + entry.Metadata.Path
		if path == "" {
			return nil, newConfigurationError("actionPath", "actionPath cannot be empty").
				WithContext("action", entry.Action)
		}

		middlewares := make([]MiddlewareFunc, 0, len(b.middlewares)+len(entry.Metadata.Middlewares))
		middlewares = append(middlewares, b.middlewares...)
		middlewares = append(middlewares, entry.Metadata.Middlewares...)

		routes = append(routes, ActionDescriptor{
			Method:      entry.Metadata.Method,
			Endpoint:    entry.Action,
			Path:        path,
			Middlewares: middlewares,
		})
	}

	return &Controller{target: target, rootPath: b.rootPath, routes: routes}, nil
}

// MustBind is like Bind but panics on error. It suits package-level
// controller declarations.
func (b *ControllerBuilder) MustBind(target Target, actions ...ActionBinding) *Controller {
	c, err := b.Bind(target, actions...)
	if err != nil {
		panic(err)
	}
	return c
}

// Controller is a normalized target with its route descriptors.
type Controller struct {
	target   Target
	rootPath string
	routes   []ActionDescriptor
}

// Target returns the target the controller was built from
func (c *Controller) Target() Target {
	return c.target
}

// Name returns the target name
func (c *Controller) Name() string {
	return c.target.Name()
}

// RootPath returns the controller root path
func (c *Controller) RootPath() string {
	return c.rootPath
}

// Routes returns the descriptors in annotation order
func (c *Controller) Routes() []ActionDescriptor {
	return append([]ActionDescriptor(nil), c.routes...)
}
