package repository

import (
	"context"

	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
)

// FileRepository resolves profile images and records uploaded files.
type FileRepository interface {
	FindByID(ctx context.Context, id int64) *entity.File
	Create(ctx context.Context, f *entity.File) bool
}
