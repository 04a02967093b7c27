package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
	"github.com/oksasatya/go-blog-platform/internal/domain/repository"
)

// FileRepository stores file documents such as profile images.
type FileRepository struct {
	db     Querier
	policy CallPolicy
	logger *logrus.Logger
}

func NewFileRepository(db Querier, policy CallPolicy, logger *logrus.Logger) *FileRepository {
	return &FileRepository{db: db, policy: policy, logger: logger}
}

func (r *FileRepository) FindByID(ctx context.Context, id int64) *entity.File {
	f := &entity.File{}
	err := r.policy.do(ctx, idempotent, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, `SELECT id, file_path, created_at FROM files WHERE id = $1`, id).
			Scan(&f.ID, &f.FilePath, &f.CreatedAt)
	})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logFailure("find file by id", idKey(id), err)
		}
		return nil
	}
	return f
}

func (r *FileRepository) Create(ctx context.Context, f *entity.File) bool {
	err := r.policy.do(ctx, notIdempotent, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, `INSERT INTO files (file_path) VALUES ($1) RETURNING id, created_at`, f.FilePath).
			Scan(&f.ID, &f.CreatedAt)
	})
	if err != nil {
		r.logFailure("create file", f.FilePath, err)
		return false
	}
	return true
}

func (r *FileRepository) logFailure(op, key string, err error) {
	if r.logger == nil {
		return
	}
	wrapped := oops.In("file_store").With("operation", op).Wrap(err)
	r.logger.WithError(wrapped).WithFields(logrus.Fields{"operation": op, "key": key}).Error("file store call failed")
}

func idKey(id int64) string { return strconv.FormatInt(id, 10) }

var _ repository.FileRepository = (*FileRepository)(nil)
