package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	idmerr "github.com/famhub/family-idm/pkg/errors"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations
const pgUniqueViolation = "23505"

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL user repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

const userColumns = `
	id, email, phone, password_hash, name, gender, birth_date,
	avatar_url, country_code, created_at, updated_at
`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.Name,
		&u.Gender,
		&u.BirthDate,
		&u.AvatarURL,
		&u.CountryCode,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Create creates a new user
func (r *PostgresRepository) Create(ctx context.Context, params CreateUserParams) (User, error) {
	if params.Email == nil && params.Phone == nil {
		return User{}, idmerr.InvalidInput("user", "at least one of email or phone is required")
	}

	query := `
		INSERT INTO users (email, phone, password_hash, name, country_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query,
		params.Email,
		params.Phone,
		params.PasswordHash,
		params.Name,
		params.CountryCode,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return User{}, idmerr.Wrap(err, idmerr.ErrCodeConflict, "user already exists")
		}
		return User{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to create user")
	}

	return u, nil
}

// GetByID retrieves a user by its ID
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, idmerr.NotFound("user", id.String())
		}
		return User{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to get user")
	}

	return u, nil
}

// FindByEmail retrieves a user by email
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE email = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, idmerr.NotFound("user", email)
		}
		return User{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to find user by email")
	}

	return u, nil
}

// FindByPhone retrieves a user by E.164 phone number
func (r *PostgresRepository) FindByPhone(ctx context.Context, phone string) (User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE phone = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, idmerr.NotFound("user", phone)
		}
		return User{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to find user by phone")
	}

	return u, nil
}
