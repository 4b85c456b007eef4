package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"task-service/models"
	"task-service/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Tasks implements task CRUD scoped to the owning user
type Tasks struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewTasks(db *sqlx.DB) *Tasks {
	return &Tasks{db: db, now: time.Now}
}

// Create stores a task owned by owner; an owner in the body is never consulted
func (s *Tasks) Create(ctx context.Context, owner string, req models.CreateTaskRequest) (*models.Task, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, invalid("description is required")
	}

	now := s.now().UTC()
	task := &models.Task{
		ID:          uuid.NewString(),
		Description: description,
		Completed:   req.Completed,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repository.NewTaskRepository(s.db).Create(ctx, task); err != nil {
		return nil, storeError(err)
	}
	return task, nil
}

func (s *Tasks) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	tasks, err := repository.NewTaskRepository(s.db).List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return tasks, nil
}

// Get returns ErrNotFound for malformed ids, missing tasks and tasks of other users
func (s *Tasks) Get(ctx context.Context, owner, id string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	task, err := repository.NewTaskRepository(s.db).GetByIDAndOwner(ctx, id, owner)
	if err != nil {
		return nil, storeError(err)
	}
	return task, nil
}

// Update applies the non-nil fields of req. The caller checks the field allow-list first.
func (s *Tasks) Update(ctx context.Context, owner, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, invalid("description is required")
		}
		task.Description = description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	task.UpdatedAt = s.now().UTC()

	if err := repository.NewTaskRepository(s.db).Update(ctx, task); err != nil {
		return nil, storeError(err)
	}
	return task, nil
}

// Delete removes an owned task and returns it as it was.
// A concurrent delete of the same task makes this one report ErrNotFound.
func (s *Tasks) Delete(ctx context.Context, owner, id string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	repo := repository.NewTaskRepository(s.db)
	task, err := repo.GetByIDAndOwner(ctx, id, owner)
	if err != nil {
		return nil, storeError(err)
	}
	if err := repo.Delete(ctx, id, owner); err != nil {
		return nil, storeError(err)
	}
	return task, nil
}

// FilterFromQuery reads completed, includes, sort_by, limit and skip.
// Values that cannot be used are ignored rather than rejected.
func FilterFromQuery(owner string, q url.Values) models.TaskFilter {
	filter := models.TaskFilter{Owner: owner, Includes: q.Get("includes")}

	if v := q.Get("completed"); v != "" {
		completed := v == "true"
		filter.Completed = &completed
	}

	if sortBy := q.Get("sort_by"); sortBy != "" {
		field, dir, _ := strings.Cut(sortBy, ":")
		if _, ok := repository.TaskSortColumn(field); ok {
			filter.SortBy = field
			filter.SortDir = models.SortAsc
			if dir == models.SortDesc {
				filter.SortDir = models.SortDesc
			}
		}
	}

	filter.Limit = positiveInt(q.Get("limit"))
	filter.Skip = positiveInt(q.Get("skip"))
	return filter
}

func positiveInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
