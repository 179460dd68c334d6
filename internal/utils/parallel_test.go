package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParallelTasksPreservesOrder(t *testing.T) {
	tasks := make([]ParallelTask, 5)
	for i := range tasks {
		i := i
		tasks[i] = func() (interface{}, error) { return i * 2, nil }
	}

	results, errs := RunParallelTasks(tasks)
	require.NoError(t, FirstError(errs))
	for i, r := range results {
		assert.Equal(t, i*2, r)
	}
}

func TestFirstErrorPicksFailingTask(t *testing.T) {
	boom := errors.New("boom")
	_, errs := RunParallelTasks([]ParallelTask{
		func() (interface{}, error) { return nil, nil },
		func() (interface{}, error) { return nil, boom },
	})

	assert.ErrorIs(t, FirstError(errs), boom)
}

func TestRunParallelTasksEmpty(t *testing.T) {
	results, errs := RunParallelTasks(nil)
	assert.Empty(t, results)
	assert.NoError(t, FirstError(errs))
}
