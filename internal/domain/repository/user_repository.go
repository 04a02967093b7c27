package repository

import (
	"context"

	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
)

// UserRepository is the credential store contract.
// Implementations never return errors: store failures are logged and
// collapsed into the same absence value as a legitimate miss.
type UserRepository interface {
	FindByEmailAndPassword(ctx context.Context, email, password string) (*entity.UserDetail, bool)
	FindByUsername(ctx context.Context, username string) (*entity.UserDetail, bool)
	FindByID(ctx context.Context, id int64) *entity.User
	FindByEmail(ctx context.Context, email string) *entity.User
	// Save inserts when u.ID is zero (assigning the id) and updates every field otherwise.
	Save(ctx context.Context, u *entity.User) bool
}
