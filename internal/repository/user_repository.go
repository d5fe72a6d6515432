package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"userhub/api/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (
			name, email, password_hash, cellphone, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	row := r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Cellphone,
		user.Status,
	)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return user, nil
}

// FindByEmail looks the email up across active and soft-deleted rows alike.
// Creation-time uniqueness depends on this lookup being unfiltered.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, name, email, password_hash, cellphone, status, created_at, updated_at
		FROM users WHERE email = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetActiveByID(ctx context.Context, id int64) (models.User, error) {
	const query = `
		SELECT id, name, email, password_hash, cellphone, status, created_at, updated_at
		FROM users WHERE id = $1 AND status IS TRUE
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) ListActive(ctx context.Context) ([]models.User, error) {
	const query = `
		SELECT id, name, email, password_hash, cellphone, status, created_at, updated_at
		FROM users WHERE status IS TRUE
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (r *UserRepository) Find(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	query, args := buildFindQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

// buildFindQuery composes the WHERE clause from the present filter fields.
// The login-date bounds become an EXISTS subquery against sessions so a user
// matches when at least one login falls in range.
func buildFindQuery(filter models.UserFilter) (string, []any) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.cellphone, u.status, u.created_at, u.updated_at
		FROM users u
	`

	var conds []string
	var args []any

	if filter.Active != nil {
		args = append(args, *filter.Active)
		conds = append(conds, fmt.Sprintf("u.status = $%d", len(args)))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conds = append(conds, fmt.Sprintf("u.name ILIKE $%d", len(args)))
	}
	if filter.LoginAfter != nil || filter.LoginBefore != nil {
		sub := "EXISTS (SELECT 1 FROM sessions s WHERE s.user_id = u.id"
		if filter.LoginAfter != nil {
			args = append(args, *filter.LoginAfter)
			sub += fmt.Sprintf(" AND s.created_at >= $%d", len(args))
		}
		if filter.LoginBefore != nil {
			args = append(args, *filter.LoginBefore)
			sub += fmt.Sprintf(" AND s.created_at <= $%d", len(args))
		}
		sub += ")"
		conds = append(conds, sub)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	return query, args
}

// Update patches an active row in one statement. The status predicate makes
// the exists-and-active precondition atomic with the mutation.
func (r *UserRepository) Update(ctx context.Context, id int64, patch models.UserPatch) error {
	const query = `
		UPDATE users SET
			name = COALESCE($2, name),
			password_hash = COALESCE($3, password_hash),
			cellphone = COALESCE($4, cellphone),
			updated_at = NOW()
		WHERE id = $1 AND status IS TRUE
	`

	cmd, err := r.pool.Exec(ctx, query, id, patch.Name, patch.PasswordHash, patch.Cellphone)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Deactivate soft-deletes an active row. A second call affects zero rows and
// reports ErrUserNotFound.
func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `
		UPDATE users SET status = FALSE, updated_at = NOW()
		WHERE id = $1 AND status IS TRUE
	`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Cellphone,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanUsers(rows pgx.Rows) ([]models.User, error) {
	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Cellphone,
			&user.Status,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
