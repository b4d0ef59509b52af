package controllers

import (
	"errors"
	"net/http"

	"github.com/toyz/routedecor/internal/demo/services"
	"github.com/toyz/routedecor/pkg/routedecor"
)

// directTasks is built once by its factory and shared by every request.
type directTasks struct {
	tasks *services.TaskService
}

func (d *directTasks) List(c *routedecor.Call) error {
	return c.Response.JSON(http.StatusOK, d.tasks.List())
}

func (d *directTasks) Show(c *routedecor.Call) error {
	task, err := d.tasks.Get(c.Request.Param("id"))
	if err != nil {
		return taskError(err)
	}
	return c.Response.JSON(http.StatusOK, task)
}

func (d *directTasks) Create(c *routedecor.Call) error {
	var in services.CreateTask
	if err := c.Request.Bind(&in); err != nil {
		return routedecor.ErrBadRequest(err.Error())
	}
	task, err := d.tasks.Create(in)
	if err != nil {
		return routedecor.ErrBadRequest(err.Error())
	}
	c.Response.SetHeader("Location", "/tasks/"+task.ID)
	return c.Response.JSON(http.StatusCreated, task)
}

// Complete finishes asynchronously; the adapter waits on the returned channel.
func (d *directTasks) Complete(c *routedecor.Call) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		task, err := d.tasks.Complete(c.Request.Param("id"))
		if err != nil {
			done <- taskError(err)
			return
		}
		done <- c.Response.JSON(http.StatusOK, task)
	}()
	return done
}

func (d *directTasks) Remove(c *routedecor.Call) {
	if err := d.tasks.Delete(c.Request.Param("id")); err != nil {
		c.Next(taskError(err))
		return
	}
	if err := c.Response.Blob(http.StatusNoContent, "text/plain", nil); err != nil {
		c.Next(err)
	}
}

func newDirectTasks(tasks *services.TaskService, registry routedecor.MiddlewareRegistry, store *routedecor.MetadataStore) (*routedecor.Controller, error) {
	target := routedecor.Factory(func(routedecor.Resolver) (any, error) {
		return &directTasks{tasks: tasks}, nil
	})

	return routedecor.NewController("/tasks").
		WithStore(store).
		Bind(target,
			routedecor.Action("List", routedecor.Get()),
			routedecor.Action("Show", routedecor.ParseRouteWith("GET /:id", registry)),
			routedecor.Action("Create", routedecor.ParseRouteWith("POST -Middleware=requireJson", registry)),
			routedecor.Action("Complete", routedecor.Put("/:id/done")),
			routedecor.Action("Remove", routedecor.Del("/:id")),
		)
}

// taskError maps service errors to HTTP errors
func taskError(err error) error {
	if errors.Is(err, services.ErrTaskNotFound) {
		return routedecor.ErrNotFound(err.Error())
	}
	return err
}
