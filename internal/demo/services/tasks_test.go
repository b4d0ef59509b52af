package services

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTaskService_Lifecycle(t *testing.T) {
	svc := NewTaskService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, err := svc.Create(CreateTask{Title: "write tests"})
	require.NoError(t, err)
	second, err := svc.Create(CreateTask{Title: "ship"})
	require.NoError(t, err)

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	done, err := svc.Complete(first.ID)
	require.NoError(t, err)
	assert.True(t, done.Done)

	require.NoError(t, svc.Delete(second.ID))
	_, err = svc.Get(second.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, svc.Delete(second.ID), ErrTaskNotFound)
	_, err = svc.Complete("missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_CreateValidates(t *testing.T) {
	svc := NewTaskService()

	_, err := svc.Create(CreateTask{})
	require.Error(t, err)
	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "required", fieldErrs[0].Tag())
	assert.Empty(t, svc.List())
}

func TestAudit_CloseLogsEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	quiet := NewAudit(zap.New(core), "scope-1")
	require.NoError(t, quiet.Close())
	assert.Zero(t, logs.Len())

	audit := NewAudit(zap.New(core), "scope-2")
	audit.Record("tasks.list")
	audit.Record("tasks.show")
	require.NoError(t, audit.Close())

	entries := logs.FilterMessage("request audit").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "scope-2", entries[0].ContextMap()["scope"])
}
