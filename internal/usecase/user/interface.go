package user

import (
	"context"

	domain "gorest-users/internal/domain/user"
)

// Service defines the user operations offered to the presentation layer.
type Service interface {
	GetUsers(ctx context.Context) ([]domain.User, error)
	AddUser(ctx context.Context, name, email string) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
