package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
)

// TokenIssuer produces session tokens. helpers.JWTManager implements it.
type TokenIssuer interface {
	GenerateToken(userID int64, role string, remember bool) (string, time.Time, error)
}

// JobPublisher enqueues background jobs. helpers.RabbitPublisher implements it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserIndex keeps the public user search index in sync.
type UserIndex interface {
	Index(ctx context.Context, u *entity.User) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// ObjectStorage stores uploaded files and returns their public path.
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
