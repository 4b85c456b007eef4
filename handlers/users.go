package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"task-service/avatar"
	"task-service/models"
	"task-service/service"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

// multipartOverhead is allowed on top of the file itself for boundaries and headers
const multipartOverhead = 64 << 10

// UserHandler handles account, session, profile and avatar routes
type UserHandler struct {
	users *service.Users
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.Users) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles POST /users - create an account and its first session
func (h *UserHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Registering user", zap.String("email", req.Email))

	res, err := h.users.Register(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "User registered successfully", zap.String("user_id", res.User.ID))
	writeJSON(w, http.StatusCreated, res)
}

// Login handles POST /users/login
// Note: unknown email and wrong password produce the same 400
func (h *UserHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	res, err := h.users.Login(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "User logged in", zap.String("user_id", res.User.ID))
	writeJSON(w, http.StatusOK, res)
}

// Logout handles POST /users/logout - revoke the presented token only
func (h *UserHandler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(ctx, w)
	if !ok {
		return
	}

	if err := h.users.Logout(ctx, ident); err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "User logged out")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// LogoutAll handles POST /users/logout-all - revoke every session of the caller
func (h *UserHandler) LogoutAll(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(ctx, w)
	if !ok {
		return
	}

	if err := h.users.LogoutAll(ctx, ident); err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "All sessions revoked")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out of all sessions"})
}

// GetProfile handles GET /users/profile
func (h *UserHandler) GetProfile(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(ctx, w)
	if !ok {
		return
	}

	logRequest(ctx, "debug", "Serving profile")
	writeJSON(w, http.StatusOK, ident.User)
}

// UpdateProfile handles PATCH /users/profile
// Only name, email, password and age may be sent
func (h *UserHandler) UpdateProfile(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(ctx, w)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if !decodeUpdate(ctx, w, r, models.UserUpdateFields, &req) {
		return
	}

	user, err := h.users.UpdateProfile(ctx, ident.User, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Profile updated successfully")
	writeJSON(w, http.StatusOK, user)
}

// DeleteProfile handles DELETE /users/profile - removes the account, its tasks and sessions
func (h *UserHandler) DeleteProfile(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(ctx, w)
	if !ok {
		return
	}

	user, removed, err := h.users.DeleteProfile(ctx, ident.User)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Profile deleted successfully", zap.Int64("tasks_removed", removed))
	writeJSON(w, http.StatusOK, user)
}

// UploadAvatar handles POST /users/profile/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(ctx, w)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, avatar.MaxUploadSize+multipartOverhead)
	file, header, err := r.FormFile("avatar")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeUploadError(ctx, w, avatar.ErrTooLarge)
			return
		}
		writeUploadError(ctx, w, avatar.ErrNotAPicture)
		return
	}
	defer file.Close()

	// one byte past the limit is enough for the size check to fail
	data, err := io.ReadAll(io.LimitReader(file, avatar.MaxUploadSize+1))
	if err != nil {
		logRequest(ctx, "error", "Failed to read upload", zap.Error(err))
		writeUploadError(ctx, w, avatar.ErrUndecodable)
		return
	}

	logRequest(ctx, "info", "Uploading avatar", zap.String("filename", header.Filename), zap.Int("bytes", len(data)))

	if err := h.users.UploadAvatar(ctx, ident.User.ID, header.Filename, data); err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Avatar uploaded successfully")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Avatar uploaded successfully"})
}

// DeleteAvatar handles DELETE /users/profile/avatar
func (h *UserHandler) DeleteAvatar(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(ctx, w)
	if !ok {
		return
	}

	if err := h.users.ClearAvatar(ctx, ident.User.ID); err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Avatar removed")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Avatar removed successfully"})
}

// GetAvatar handles GET /users/avatar/{id} - public, served as image/png
func (h *UserHandler) GetAvatar(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	png, err := h.users.Avatar(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logRequest(ctx, "debug", "Serving avatar", zap.String("avatar_user_id", id))
	w.Header().Set("Content-Type", avatar.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// writeUploadError converts a rejected upload into a 400 naming the reason
func writeUploadError(ctx context.Context, w http.ResponseWriter, err error) {
	msg := avatar.ErrNotAPicture.Error()
	for _, known := range []error{avatar.ErrTooLarge, avatar.ErrUndecodable} {
		if errors.Is(err, known) {
			msg = known.Error()
		}
	}

	logRequest(ctx, "info", "Upload rejected", zap.Error(err))
	writeJSON(w, http.StatusBadRequest, errs.NewValidationError(msg))
}
