package user

import (
	"context"

	"go.uber.org/zap"

	domain "gorest-users/internal/domain/user"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	GetUsersLastPage(ctx context.Context) ([]domain.User, error)
	AddUser(ctx context.Context, name, email string) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Usecase exposes the repository operations to the presentation layer.
// It adds no behavior of its own; results and errors pass through unchanged.
type Usecase struct {
	repo Repository
	log  *zap.Logger
}

// New creates a new instance of Usecase.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log}
}

// GetUsers returns the newest page of users.
func (uc *Usecase) GetUsers(ctx context.Context) ([]domain.User, error) {
	uc.log.Debug("get users")
	return uc.repo.GetUsersLastPage(ctx)
}

// AddUser creates a user.
func (uc *Usecase) AddUser(ctx context.Context, name, email string) (*domain.User, error) {
	uc.log.Debug("add user", zap.String("email", email))
	return uc.repo.AddUser(ctx, name, email)
}

// DeleteUser deletes a user by id.
func (uc *Usecase) DeleteUser(ctx context.Context, id int64) error {
	uc.log.Debug("delete user", zap.Int64("id", id))
	return uc.repo.DeleteUser(ctx, id)
}
