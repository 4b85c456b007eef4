package handlers

import (
	"context"
	"net/http"

	"task-service/models"
	"task-service/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// TaskHandler handles the caller's task routes
// Every lookup is scoped to the authenticated owner; other users' tasks answer 404
type TaskHandler struct {
	tasks *service.Tasks
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks *service.Tasks) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTask handles POST /tasks
func (h *TaskHandler) CreateTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(ctx, w)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	task, err := h.tasks.Create(ctx, ident.User.ID, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Task created successfully", zap.String("task_id", task.ID))
	writeJSON(w, http.StatusCreated, task)
}

// GetTasks handles GET /tasks
// Query: completed, includes, sort_by=field:asc|desc, limit, skip
func (h *TaskHandler) GetTasks(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(ctx, w)
	if !ok {
		return
	}

	filter := service.FilterFromQuery(ident.User.ID, r.URL.Query())
	tasks, err := h.tasks.List(ctx, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Tasks retrieved successfully", zap.Int("count", len(tasks)))
	writeJSON(w, http.StatusOK, tasks)
}

// GetTask handles GET /tasks/{id}
func (h *TaskHandler) GetTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(ctx, w)
	if !ok {
		return
	}

	task, err := h.tasks.Get(ctx, ident.User.ID, mux.Vars(r)["id"])
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// UpdateTask handles PATCH /tasks/{id}
// Only description and completed may be sent
func (h *TaskHandler) UpdateTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(ctx, w)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if !decodeUpdate(ctx, w, r, models.TaskUpdateFields, &req) {
		return
	}

	task, err := h.tasks.Update(ctx, ident.User.ID, mux.Vars(r)["id"], req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Task updated successfully", zap.String("task_id", task.ID))
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id}
func (h *TaskHandler) DeleteTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(ctx, w)
	if !ok {
		return
	}

	task, err := h.tasks.Delete(ctx, ident.User.ID, mux.Vars(r)["id"])
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Task deleted successfully", zap.String("task_id", task.ID))
	writeJSON(w, http.StatusOK, task)
}
