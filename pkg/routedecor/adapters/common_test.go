package adapters

import (
	"errors"
	"net/http"

	"github.com/toyz/routedecor/pkg/container"
	"github.com/toyz/routedecor/pkg/routedecor"
)

// taskStore is the service the container-backed controller receives.
type taskStore struct {
	tasks map[string]string
}

// taskActions is resolved from the request scope on every call.
type taskActions struct {
	Store *taskStore `inject:"taskStore"`
}

func (a *taskActions) Show(req routedecor.RequestContext, res routedecor.ResponseInterface, next routedecor.NextFunc) {
	title, ok := a.Store.tasks[req.Param("id")]
	if !ok {
		next(routedecor.ErrNotFound("task not found"))
		return
	}
	if err := res.JSON(http.StatusOK, map[string]string{"title": title}); err != nil {
		next(err)
	}
}

// mountContainerTasks loads a container-backed tasks controller on server.
func mountContainerTasks(server routedecor.WebServer) error {
	root := container.New()
	root.Register("taskStore", container.AsValue(&taskStore{tasks: map[string]string{"1": "write adapters"}}))
	server.Use(routedecor.ScopePerRequest(root))

	ctrl, err := routedecor.NewController("/tasks").
		WithStore(routedecor.NewMetadataStore()).
		Bind(routedecor.Class[taskActions](), routedecor.Action("Show", routedecor.Get("/:id")))
	if err != nil {
		return err
	}

	catalog := routedecor.NewCatalog()
	if err := catalog.Add("app/controllers/tasks", ctrl); err != nil {
		return err
	}
	_, err = routedecor.UseContainerControllers(routedecor.Config{
		Router:               server,
		ControllerExpression: "app/controllers/*",
		Discoverer:           catalog,
		Registry:             routedecor.NewInMemoryRouteRegistry(),
	})
	return err
}

// tagging sets header name on the response before calling next.
func tagging(name string) routedecor.MiddlewareFunc {
	return func(next routedecor.HandlerFunc) routedecor.HandlerFunc {
		return func(rc routedecor.RequestContext) error {
			rc.Response().SetHeader("X-Trace", rc.Response().Header("X-Trace")+name)
			return next(rc)
		}
	}
}

var errUnexpected = errors.New("unexpected failure")
