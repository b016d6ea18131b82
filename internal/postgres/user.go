package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olxer/electroshop-api/internal/domain/user"
)

const (
	insertUserSQL = `INSERT INTO users (username, email, password_hash, role_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created, updated`

	getUserByIDSQL = `SELECT id, username, email, password_hash, role_id, created, updated
		FROM users WHERE id = $1`

	getUserByLoginSQL = `SELECT id, username, email, password_hash, role_id, created, updated
		FROM users WHERE email = $1 OR username = $1`

	insertRoleSQL = `INSERT INTO roles (id, name) VALUES ($1, $2)`
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists a new user and fills in the generated id and timestamps.
// A duplicate email yields user.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.pool.QueryRow(ctx, insertUserSQL,
		u.Username, u.Email, u.PasswordHash, u.RoleID,
	).Scan(&u.ID, &u.Created, &u.Updated)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}
		return errors.Wrapf(err, "create user %q", u.Email)
	}
	return nil
}

// GetByID returns a single user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getUserByIDSQL, id))
}

// GetByLogin resolves a user by email or username.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, getUserByLoginSQL, login))
}

// CreateRole inserts a role with an explicit id.
func (r *UserRepository) CreateRole(ctx context.Context, role *user.Role) error {
	if _, err := r.pool.Exec(ctx, insertRoleSQL, role.ID, role.Name); err != nil {
		return errors.Wrapf(err, "create role %q", role.Name)
	}
	return nil
}

func (r *UserRepository) scanOne(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.RoleID, &u.Created, &u.Updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return &u, nil
}
