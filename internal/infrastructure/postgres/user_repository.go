package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
	"github.com/oksasatya/go-blog-platform/internal/domain/repository"
	"github.com/oksasatya/go-blog-platform/pkg/helpers"
)

const userColumns = `id, username, name, bio, role, email, password, profile_image_id, created_at, updated_at`

// UserRepository is the Postgres credential store.
type UserRepository struct {
	db     Querier
	files  repository.FileRepository
	policy CallPolicy
	logger *logrus.Logger

	// spendCompare pays the credential check cost for an unknown email.
	spendCompare func(plain string)
}

func NewUserRepository(db Querier, files repository.FileRepository, policy CallPolicy, logger *logrus.Logger) *UserRepository {
	return &UserRepository{db: db, files: files, policy: policy, logger: logger, spendCompare: helpers.SpendPasswordCompare}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Bio, &role, &u.Email, &u.Password,
		&u.ProfileImageID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return u, nil
}

func (r *UserRepository) queryUser(ctx context.Context, where string, arg any) (*entity.User, error) {
	var u *entity.User
	err := r.policy.do(ctx, idempotent, func(ctx context.Context) error {
		var err error
		u, err = scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// load runs a single-row lookup and resolves the profile image. A miss and
// a failure both come back as nil; only failures are logged.
func (r *UserRepository) load(ctx context.Context, op, where string, key string, arg any) *entity.User {
	u, err := r.queryUser(ctx, where, arg)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logFailure(op, key, err)
		}
		return nil
	}
	r.resolveProfileImage(ctx, u)
	return u
}

func (r *UserRepository) resolveProfileImage(ctx context.Context, u *entity.User) {
	if u.ProfileImageID == nil || r.files == nil {
		return
	}
	u.ProfileImage = r.files.FindByID(ctx, *u.ProfileImageID)
}

// FindByEmailAndPassword matches the email exactly and checks the credential.
func (r *UserRepository) FindByEmailAndPassword(ctx context.Context, email, password string) (*entity.UserDetail, bool) {
	u, err := r.queryUser(ctx, `email = $1`, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.spendCompare(password)
		} else {
			r.logFailure("find by email and password", email, err)
		}
		return nil, false
	}
	if !helpers.ComparePassword(u.Password, password) {
		return nil, false
	}
	r.resolveProfileImage(ctx, u)
	d := u.Detail()
	return &d, true
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.UserDetail, bool) {
	u := r.load(ctx, "find by username", `username = $1`, username, username)
	if u == nil {
		return nil, false
	}
	d := u.Detail()
	return &d, true
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) *entity.User {
	return r.load(ctx, "find by id", `id = $1`, idKey(id), id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) *entity.User {
	return r.load(ctx, "find by email", `email = $1`, email, email)
}

// Save inserts a new user or updates every column of an existing one.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) bool {
	if u == nil {
		return false
	}
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	if !u.Role.Valid() {
		r.logFailure("save", u.Email, oops.Errorf("unknown role %q", u.Role))
		return false
	}
	var err error
	if u.IsPersisted() {
		err = r.update(ctx, u)
	} else {
		err = r.insert(ctx, u)
	}
	if err != nil {
		r.logFailure("save", u.Email, err)
		return false
	}
	return true
}

func (r *UserRepository) insert(ctx context.Context, u *entity.User) error {
	return r.policy.do(ctx, notIdempotent, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, `
			INSERT INTO users (username, name, bio, role, email, password, profile_image_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`, u.Username, u.Name, u.Bio, string(u.Role), u.Email, u.Password, u.ProfileImageID).
			Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	})
}

func (r *UserRepository) update(ctx context.Context, u *entity.User) error {
	return r.policy.do(ctx, idempotent, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, `
			UPDATE users
			SET username = $1, name = $2, bio = $3, role = $4, email = $5, password = $6,
			    profile_image_id = $7, updated_at = now()
			WHERE id = $8
			RETURNING updated_at
		`, u.Username, u.Name, u.Bio, string(u.Role), u.Email, u.Password, u.ProfileImageID, u.ID).
			Scan(&u.UpdatedAt)
	})
}

func (r *UserRepository) logFailure(op, key string, err error) {
	if r.logger == nil {
		return
	}
	wrapped := oops.In("credential_store").With("operation", op).Wrap(err)
	r.logger.WithError(wrapped).WithFields(logrus.Fields{"operation": op, "key": key}).Error("credential store call failed")
}

var _ repository.UserRepository = (*UserRepository)(nil)
