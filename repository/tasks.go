package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"task-service/models"
)

const taskColumns = "id, description, completed, owner, created_at, updated_at"

// taskSortColumns maps accepted sort_by fields to columns
var taskSortColumns = map[string]string{
	"description": "description",
	"completed":   "completed",
	"created_at":  "created_at",
	"createdAt":   "created_at",
	"updated_at":  "updated_at",
	"updatedAt":   "updated_at",
}

// TaskSortColumn resolves a sort_by field to its column
func TaskSortColumn(field string) (string, bool) {
	col, ok := taskSortColumns[field]
	return col, ok
}

type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := r.db.Rebind(`INSERT INTO tasks (id, description, completed, owner, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Description, task.Completed, task.Owner, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByIDAndOwner returns ErrNotFound both for missing tasks and for tasks of another owner
func (r *TaskRepository) GetByIDAndOwner(ctx context.Context, id, owner string) (*models.Task, error) {
	task := &models.Task{}
	query := r.db.Rebind("SELECT " + taskColumns + " FROM tasks WHERE id = ? AND owner = ?")
	if err := r.db.GetContext(ctx, task, query, id, owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// List returns the owner's tasks matching filter, insertion ordered unless SortBy is set
func (r *TaskRepository) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var sb strings.Builder
	args := []interface{}{filter.Owner}

	sb.WriteString("SELECT " + taskColumns + " FROM tasks WHERE owner = ?")

	if filter.Completed != nil {
		sb.WriteString(" AND completed = ?")
		args = append(args, *filter.Completed)
	}
	if filter.Includes != "" {
		sb.WriteString(" AND instr(description, ?) > 0")
		args = append(args, filter.Includes)
	}

	sb.WriteString(" ORDER BY ")
	if col, ok := TaskSortColumn(filter.SortBy); ok {
		dir := "ASC"
		if filter.SortDir == models.SortDesc {
			dir = "DESC"
		}
		sb.WriteString(col + " " + dir + ", ")
	}
	sb.WriteString("rowid ASC")

	switch {
	case filter.Limit > 0:
		sb.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	case filter.Skip > 0:
		sb.WriteString(" LIMIT -1")
	}
	if filter.Skip > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, filter.Skip)
	}

	tasks := []models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(sb.String()), args...); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tasks, nil
}

// Update persists description, completed and updated_at of an owned task
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	query := r.db.Rebind(`UPDATE tasks SET description = ?, completed = ?, updated_at = ?
		WHERE id = ? AND owner = ?`)

	res, err := r.db.ExecContext(ctx, query,
		task.Description, task.Completed, task.UpdatedAt, task.ID, task.Owner)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectRow(res)
}

func (r *TaskRepository) Delete(ctx context.Context, id, owner string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM tasks WHERE id = ? AND owner = ?"), id, owner)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectRow(res)
}

// DeleteByOwner removes every task of owner and reports how many went
func (r *TaskRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM tasks WHERE owner = ?"), owner)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
