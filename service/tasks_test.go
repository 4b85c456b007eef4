package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"task-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasks_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mike := f.register(t, "Mike", "mike@example.com")
	jess := f.register(t, "Jess", "jess@example.com")

	task, err := f.tasks.Create(ctx, mike.User.ID, models.CreateTaskRequest{Description: "  First task "})
	require.NoError(t, err)
	assert.Equal(t, "First task", task.Description)
	assert.False(t, task.Completed)
	assert.Equal(t, mike.User.ID, task.Owner)

	got, err := f.tasks.Get(ctx, mike.User.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = f.tasks.Get(ctx, jess.User.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.tasks.Get(ctx, mike.User.ID, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.tasks.Create(ctx, mike.User.ID, models.CreateTaskRequest{Description: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTasks_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mike := f.register(t, "Mike", "mike@example.com")
	jess := f.register(t, "Jess", "jess@example.com")

	task, err := f.tasks.Create(ctx, mike.User.ID, models.CreateTaskRequest{Description: "First task"})
	require.NoError(t, err)

	done := true
	updated, err := f.tasks.Update(ctx, mike.User.ID, task.ID, models.UpdateTaskRequest{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "First task", updated.Description)

	desc := "Hijacked"
	_, err = f.tasks.Update(ctx, jess.User.ID, task.ID, models.UpdateTaskRequest{Description: &desc})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.tasks.Get(ctx, mike.User.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "First task", got.Description)
	assert.True(t, got.Completed)

	blank := ""
	_, err = f.tasks.Update(ctx, mike.User.ID, task.ID, models.UpdateTaskRequest{Description: &blank})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTasks_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mike := f.register(t, "Mike", "mike@example.com")
	jess := f.register(t, "Jess", "jess@example.com")

	task, err := f.tasks.Create(ctx, mike.User.ID, models.CreateTaskRequest{Description: "First task"})
	require.NoError(t, err)

	_, err = f.tasks.Delete(ctx, jess.User.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := f.tasks.Delete(ctx, mike.User.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)

	_, err = f.tasks.Get(ctx, mike.User.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTasks_ConcurrentWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mike := f.register(t, "Mike", "mike@example.com")

	const n = 40
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		task, err := f.tasks.Create(ctx, mike.User.ID, models.CreateTaskRequest{Description: fmt.Sprintf("task %d", i)})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 3*n)
	for i, id := range ids {
		wg.Add(3)
		go func(id string) {
			defer wg.Done()
			_, err := f.tasks.Delete(ctx, mike.User.ID, id)
			errCh <- err
		}(id)
		go func(i int) {
			defer wg.Done()
			_, err := f.tasks.Create(ctx, mike.User.ID, models.CreateTaskRequest{Description: fmt.Sprintf("extra %d", i)})
			errCh <- err
		}(i)
		go func() {
			defer wg.Done()
			_, err := f.tasks.List(ctx, FilterFromQuery(mike.User.ID, url.Values{}))
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	left, err := f.tasks.List(ctx, FilterFromQuery(mike.User.ID, url.Values{}))
	require.NoError(t, err)
	assert.Len(t, left, n)
	for _, task := range left {
		assert.Contains(t, task.Description, "extra")
	}
}

func TestTasks_DeleteRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mike := f.register(t, "Mike", "mike@example.com")

	task, err := f.tasks.Create(ctx, mike.User.ID, models.CreateTaskRequest{Description: "contested"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.tasks.Delete(ctx, mike.User.ID, task.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 1, succeeded)
}

func TestTasks_ListWithQuery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mike := f.register(t, "Mike", "mike@example.com")

	for _, req := range []models.CreateTaskRequest{
		{Description: "Buy milk"},
		{Description: "Write report", Completed: true},
		{Description: "Call Bob"},
	} {
		_, err := f.tasks.Create(ctx, mike.User.ID, req)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"Buy milk", "Write report", "Call Bob"}},
		{"completed", "completed=true", []string{"Write report"}},
		{"not completed", "completed=yes", []string{"Buy milk", "Call Bob"}},
		{"empty completed", "completed=", []string{"Buy milk", "Write report", "Call Bob"}},
		{"includes", "includes=r", []string{"Write report"}},
		{"sort desc", "sort_by=description:desc", []string{"Write report", "Call Bob", "Buy milk"}},
		{"sort asc default", "sort_by=description", []string{"Buy milk", "Call Bob", "Write report"}},
		{"unknown sort", "sort_by=owner:desc", []string{"Buy milk", "Write report", "Call Bob"}},
		{"limit skip", "limit=1&skip=1", []string{"Write report"}},
		{"bad paging", "limit=abc&skip=-2", []string{"Buy milk", "Write report", "Call Bob"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			tasks, err := f.tasks.List(ctx, FilterFromQuery(mike.User.ID, q))
			require.NoError(t, err)

			got := make([]string, 0, len(tasks))
			for _, task := range tasks {
				got = append(got, task.Description)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterFromQuery(t *testing.T) {
	q := url.Values{
		"completed": {"false"},
		"includes":  {"milk"},
		"sort_by":   {"createdAt:desc"},
		"limit":     {"10"},
		"skip":      {"0"},
	}
	filter := FilterFromQuery("owner-1", q)

	require.NotNil(t, filter.Completed)
	assert.False(t, *filter.Completed)
	assert.Equal(t, "owner-1", filter.Owner)
	assert.Equal(t, "milk", filter.Includes)
	assert.Equal(t, "createdAt", filter.SortBy)
	assert.Equal(t, models.SortDesc, filter.SortDir)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 0, filter.Skip)

	empty := FilterFromQuery("owner-1", url.Values{})
	assert.Nil(t, empty.Completed)
	assert.Empty(t, empty.SortBy)

	blank := FilterFromQuery("owner-1", url.Values{"completed": {""}})
	assert.Nil(t, blank.Completed)
}
