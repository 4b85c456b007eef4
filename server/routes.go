package server

import (
	"context"
	"net/http"

	"task-service/handlers"

	"github.com/umakantv/go-utils/httpserver"
)

// RegisterRoutes installs the full route table on s
func RegisterRoutes(s *Server, userHandler *handlers.UserHandler, taskHandler *handlers.TaskHandler) {
	s.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/health",
		AuthType: AuthNone,
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "task-service"}`))
	}))

	// Accounts and sessions
	s.Register(httpserver.Route{
		Name:     "Register",
		Method:   "POST",
		Path:     "/users",
		AuthType: AuthNone,
	}, httpserver.HandlerFunc(userHandler.Register))

	s.Register(httpserver.Route{
		Name:     "Login",
		Method:   "POST",
		Path:     "/users/login",
		AuthType: AuthNone,
	}, httpserver.HandlerFunc(userHandler.Login))

	s.Register(httpserver.Route{
		Name:     "Logout",
		Method:   "POST",
		Path:     "/users/logout",
		AuthType: AuthBearer,
	}, httpserver.HandlerFunc(userHandler.Logout))

	s.Register(httpserver.Route{
		Name:     "LogoutAll",
		Method:   "POST",
		Path:     "/users/logout-all",
		AuthType: AuthBearer,
	}, httpserver.HandlerFunc(userHandler.LogoutAll))

	// Profile
	s.Register(httpserver.Route{
		Name:     "GetProfile",
		Method:   "GET",
		Path:     "/users/profile",
		AuthType: AuthBearer,
	}, httpserver.HandlerFunc(userHandler.GetProfile))

	s.Register(httpserver.Route{
		Name:     "UpdateProfile",
		Method:   "PATCH",
		Path:     "/users/profile",
		AuthType: AuthBearer,
	}, httpserver.HandlerFunc(userHandler.UpdateProfile))

	s.Register(httpserver.Route{
		Name:     "DeleteProfile",
		Method:   "DELETE",
		Path:     "/users/profile",
		AuthType: AuthBearer,
	}, httpserver.HandlerFunc(userHandler.DeleteProfile))

	// Avatar
	s.Register(httpserver.Route{
		Name:     "UploadAvatar",
		Method:   "POST",
		Path:     "/users/profile/avatar",
		AuthType: AuthBearer,
	}, httpserver.HandlerFunc(userHandler.UploadAvatar))

	s.Register(httpserver.Route{
		Name:     "DeleteAvatar",
		Method:   "DELETE",
		Path:     "/users/profile/avatar",
		AuthType: AuthBearer,
	}, httpserver.HandlerFunc(userHandler.DeleteAvatar))

	s.Register(httpserver.Route{
		Name:     "GetAvatar",
		Method:   "GET",
		Path:     "/users/avatar/{id}",
		AuthType: AuthNone,
	}, httpserver.HandlerFunc(userHandler.GetAvatar))

	// Tasks
	s.Register(httpserver.Route{
		Name:     "CreateTask",
		Method:   "POST",
		Path:     "/tasks",
		AuthType: AuthBearer,
	}, httpserver.HandlerFunc(taskHandler.CreateTask))

	s.Register(httpserver.Route{
		Name:     "ListTasks",
		Method:   "GET",
		Path:     "/tasks",
		AuthType: AuthBearer,
	}, httpserver.HandlerFunc(taskHandler.GetTasks))

	s.Register(httpserver.Route{
		Name:     "GetTask",
		Method:   "GET",
		Path:     "/tasks/{id}",
		AuthType: AuthBearer,
	}, httpserver.HandlerFunc(taskHandler.GetTask))

	s.Register(httpserver.Route{
		Name:     "UpdateTask",
		Method:   "PATCH",
		Path:     "/tasks/{id}",
		AuthType: AuthBearer,
	}, httpserver.HandlerFunc(taskHandler.UpdateTask))

	s.Register(httpserver.Route{
		Name:     "DeleteTask",
		Method:   "DELETE",
		Path:     "/tasks/{id}",
		AuthType: AuthBearer,
	}, httpserver.HandlerFunc(taskHandler.DeleteTask))
}
