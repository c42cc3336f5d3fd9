package onboarding

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	idmerr "github.com/famhub/family-idm/pkg/errors"
	"github.com/famhub/family-idm/pkg/user"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations
const pgUniqueViolation = "23505"

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL onboarding repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

// CompleteProfile runs the entire onboarding write in one transaction.
// Any failure rolls everything back, including the profile update.
func (r *PostgresRepository) CompleteProfile(ctx context.Context, params CompleteProfileParams) (Result, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Result{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	u, err := r.updateProfile(ctx, tx, params)
	if err != nil {
		return Result{}, err
	}

	family, err := r.insertFamily(ctx, tx, params)
	if err != nil {
		return Result{}, err
	}

	membership, err := r.insertMembership(ctx, tx, family.ID, params)
	if err != nil {
		return Result{}, err
	}

	locations, err := r.insertLocations(ctx, tx, family.ID, params.Locations)
	if err != nil {
		return Result{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to commit onboarding transaction")
	}

	return Result{
		User:       u.Summary(),
		Family:     family,
		Membership: membership,
		Locations:  locations,
	}, nil
}

// updateProfile applies the partial profile update. COALESCE keeps any
// field the caller left nil.
func (r *PostgresRepository) updateProfile(ctx context.Context, tx pgx.Tx, params CompleteProfileParams) (user.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
			gender = COALESCE($3, gender),
			birth_date = COALESCE($4, birth_date),
			avatar_url = COALESCE($5, avatar_url),
			updated_at = now()
		WHERE id = $1
		RETURNING id, email, phone, password_hash, name, gender, birth_date,
			avatar_url, country_code, created_at, updated_at
	`

	var u user.User
	err := tx.QueryRow(ctx, query,
		params.UserID,
		params.Profile.Name,
		params.Profile.Gender,
		params.Profile.BirthDate,
		params.Profile.AvatarURL,
	).Scan(
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
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, idmerr.NotFound("user", params.UserID.String())
		}
		return user.User{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to update profile")
	}

	return u, nil
}

func (r *PostgresRepository) insertFamily(ctx context.Context, tx pgx.Tx, params CompleteProfileParams) (Family, error) {
	query := `
		INSERT INTO families (name, owner_user_id)
		VALUES ($1, $2)
		RETURNING id, name, owner_user_id, created_at
	`

	var f Family
	err := tx.QueryRow(ctx, query, params.FamilyName, params.UserID).Scan(
		&f.ID,
		&f.Name,
		&f.OwnerUserID,
		&f.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Family{}, idmerr.Wrap(err, idmerr.ErrCodeConflict, "family already exists for owner")
		}
		return Family{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to create family")
	}

	return f, nil
}

func (r *PostgresRepository) insertMembership(ctx context.Context, tx pgx.Tx, familyID uuid.UUID, params CompleteProfileParams) (FamilyMembership, error) {
	query := `
		INSERT INTO family_memberships (family_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, family_id, user_id, role, created_at
	`

	var m FamilyMembership
	err := tx.QueryRow(ctx, query, familyID, params.UserID, params.Role).Scan(
		&m.ID,
		&m.FamilyID,
		&m.UserID,
		&m.Role,
		&m.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return FamilyMembership{}, idmerr.Wrap(err, idmerr.ErrCodeConflict, "membership already exists")
		}
		return FamilyMembership{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to create membership")
	}

	return m, nil
}

func (r *PostgresRepository) insertLocations(ctx context.Context, tx pgx.Tx, familyID uuid.UUID, params []LocationParams) ([]Location, error) {
	query := `
		INSERT INTO locations (family_id, name, address, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, family_id, name, address, latitude, longitude, created_at
	`

	locations := make([]Location, 0, len(params))
	for _, p := range params {
		var loc Location
		err := tx.QueryRow(ctx, query, familyID, p.Name, p.Address, p.Latitude, p.Longitude).Scan(
			&loc.ID,
			&loc.FamilyID,
			&loc.Name,
			&loc.Address,
			&loc.Latitude,
			&loc.Longitude,
			&loc.CreatedAt,
		)
		if err != nil {
			return nil, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to create location")
		}
		locations = append(locations, loc)
	}

	return locations, nil
}
