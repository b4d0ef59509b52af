// Package services holds the in-memory services behind the demo controllers.
package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var ErrTaskNotFound = errors.New("task not found")

type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateTask struct {
	Title string `json:"title" validate:"required,max=120"`
}

// TaskService stores tasks in memory. It is safe for concurrent use.
type TaskService struct {
	mu       sync.RWMutex
	tasks    map[string]*Task
	validate *validator.Validate
	now      func() time.Time
}

func NewTaskService() *TaskService {
	return &TaskService{
		tasks:    make(map[string]*Task),
		validate: validator.New(),
		now:      time.Now,
	}
}

// List returns every task, oldest first
func (s *TaskService) List() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *TaskService) Get(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return *t, nil
}

func (s *TaskService) Create(in CreateTask) (Task, error) {
	if err := s.validate.Struct(in); err != nil {
		return Task{}, err
	}

	t := &Task{ID: uuid.NewString(), Title: in.Title, CreatedAt: s.now()}
	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()
	return *t, nil
}

func (s *TaskService) Complete(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	t.Done = true
	return *t, nil
}

func (s *TaskService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	delete(s.tasks, id)
	return nil
}
