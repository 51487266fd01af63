package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "gorest-users/internal/domain/user"
	"gorest-users/internal/presentation/viewmodel"
	apperrors "gorest-users/pkg/errors"
	"gorest-users/pkg/logger"
	"gorest-users/pkg/validation"
)

// UserState is the state holder the handler exposes over HTTP.
type UserState interface {
	State() viewmodel.State
	Refresh(ctx context.Context)
	AddUser(ctx context.Context, name, email string) error
	DeleteUser(ctx context.Context, id int64)
	Wait()
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	vm  UserState
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(vm UserState, log *zap.Logger) *UserHandler {
	return &UserHandler{
		vm:  vm,
		log: log,
	}
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
	Status    string `json:"status"`
	CreatedAt *int64 `json:"created_at"`
}

// StateResponse represents the list screen state
type StateResponse struct {
	Users   []UserResponse `json:"users"`
	Loading bool           `json:"loading"`
	Error   string         `json:"error"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Gender:    u.Gender,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

func toStateResponse(s viewmodel.State) StateResponse {
	users := make([]UserResponse, 0, len(s.Users))
	for _, u := range s.Users {
		users = append(users, toUserResponse(u))
	}
	return StateResponse{
		Users:   users,
		Loading: s.Loading,
		Error:   s.Error,
	}
}

// GetState handles GET /v1/users
func (h *UserHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, toStateResponse(h.vm.State()))
}

// Refresh handles POST /v1/users/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	logger.WithContext(c.Request.Context(), h.log).Info("refresh requested")

	h.vm.Refresh(c.Request.Context())
	h.accepted(c)
}

// CreateUser handles POST /v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req validation.NewUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	log.Info("create user requested", zap.String("email", req.Email))

	if err := h.vm.AddUser(c.Request.Context(), req.Name, req.Email); err != nil {
		h.handleError(c, err)
		return
	}
	h.accepted(c)
}

// DeleteUser handles DELETE /v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.log.Warn("invalid user id", zap.String("id", idStr))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "User ID must be a positive number",
		})
		return
	}

	ctx := logger.ContextWithUserID(c.Request.Context(), id)
	logger.WithContext(ctx, h.log).Info("delete user requested")

	h.vm.DeleteUser(ctx, id)
	h.accepted(c)
}

// accepted answers an intent. With ?wait=true it blocks until the intent
// has finished and returns the resulting state.
func (h *UserHandler) accepted(c *gin.Context) {
	if wait, _ := strconv.ParseBool(c.Query("wait")); wait {
		h.vm.Wait()
		c.JSON(http.StatusOK, toStateResponse(h.vm.State()))
		return
	}
	c.JSON(http.StatusAccepted, toStateResponse(h.vm.State()))
}

// handleError maps intent errors to HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: vErr.Error(),
		})
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Error("intent failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}
