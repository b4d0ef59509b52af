package controllers

import (
	"net/http"

	"github.com/toyz/routedecor/internal/demo/services"
	"github.com/toyz/routedecor/pkg/routedecor"
)

// TaskController is built from the request scope on every call.
type TaskController struct {
	Tasks *services.TaskService `inject:"taskService"`
	Audit *services.Audit       `inject:"audit"`
}

func (c *TaskController) List(_ routedecor.RequestContext, res routedecor.ResponseInterface, _ routedecor.NextFunc) error {
	c.Audit.Record("tasks.list")
	return res.JSON(http.StatusOK, c.Tasks.List())
}

func (c *TaskController) Show(req routedecor.RequestContext, res routedecor.ResponseInterface, next routedecor.NextFunc) {
	c.Audit.Record("tasks.show")
	task, err := c.Tasks.Get(req.Param("id"))
	if err != nil {
		next(taskError(err))
		return
	}
	if err := res.JSON(http.StatusOK, task); err != nil {
		next(err)
	}
}

// Create validates and stores the task off the request goroutine.
func (c *TaskController) Create(req routedecor.RequestContext, res routedecor.ResponseInterface, _ routedecor.NextFunc) routedecor.Deferred {
	var in services.CreateTask
	bindErr := req.Bind(&in)

	return routedecor.Go(func() error {
		if bindErr != nil {
			return routedecor.ErrBadRequest(bindErr.Error())
		}
		task, err := c.Tasks.Create(in)
		if err != nil {
			return routedecor.ErrBadRequest(err.Error())
		}
		c.Audit.Record("tasks.create " + task.ID)
		res.SetHeader("Location", "/tasks/"+task.ID)
		return res.JSON(http.StatusCreated, task)
	})
}

func (c *TaskController) Complete(req routedecor.RequestContext, res routedecor.ResponseInterface, _ routedecor.NextFunc) error {
	task, err := c.Tasks.Complete(req.Param("id"))
	if err != nil {
		return taskError(err)
	}
	c.Audit.Record("tasks.complete " + task.ID)
	return res.JSON(http.StatusOK, task)
}

func (c *TaskController) Remove(req routedecor.RequestContext, res routedecor.ResponseInterface, _ routedecor.NextFunc) error {
	id := req.Param("id")
	if err := c.Tasks.Delete(id); err != nil {
		return taskError(err)
	}
	c.Audit.Record("tasks.remove " + id)
	return res.Blob(http.StatusNoContent, "text/plain", nil)
}

func newContainerTasks(registry routedecor.MiddlewareRegistry, store *routedecor.MetadataStore) (*routedecor.Controller, error) {
	noStore, _ := registry.GetMiddleware("noStore")

	return routedecor.NewController("/tasks", routedecor.Inject("audit")).
		WithStore(store).
		Bind(routedecor.Class[TaskController](),
			routedecor.Action("List", routedecor.Get(noStore)),
			routedecor.Action("Show", routedecor.Get("/:id")),
			routedecor.Action("Create", routedecor.ParseRouteWith("POST -mw=requireJson", registry)),
			routedecor.Action("Complete", routedecor.Put("/:id/done")),
			routedecor.Action("Remove", routedecor.Del("/:id")),
		)
}
