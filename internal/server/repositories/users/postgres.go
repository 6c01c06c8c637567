package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/dbx"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

const userColumns = `id, username, email, full_name, avatar, cover_image, password_hash, refresh_token, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, full_name, avatar, cover_image, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Email, user.FullName, user.Avatar, user.CoverImage, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) FindByUsernameOrEmail(ctx context.Context, userName, email string) (*models.User, error) {
	if userName == "" && email == "" {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users
		 WHERE (username = $1 AND $1 <> '') OR (email = $2 AND $2 <> '')
		 LIMIT 1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, userName, email))
}

func (r *PostgresRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}

	query :=
		`UPDATE users SET refresh_token = $2, updated_at = now()
		 WHERE id = $1
		 `

	n, err := r.exec(ctx, query, id, token)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) RotateRefreshToken(ctx context.Context, id, expected, next string) error {
	if expected == "" || !validID(id) {
		return common.ErrStaleToken
	}

	query :=
		`UPDATE users SET refresh_token = $3, updated_at = now()
		 WHERE id = $1 AND refresh_token = $2
		 `

	n, err := r.exec(ctx, query, id, expected, next)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrStaleToken
	}
	return nil
}

func (r *PostgresRepository) ClearRefreshToken(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}

	query :=
		`UPDATE users SET refresh_token = NULL, updated_at = now()
		 WHERE id = $1
		 `

	_, err := r.exec(ctx, query, id)
	return err
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// validID reports whether id can exist in the uuid primary key column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var refresh sql.NullString

	err := row.Scan(&user.ID, &user.UserName, &user.Email, &user.FullName, &user.Avatar,
		&user.CoverImage, &user.PasswordHash, &refresh, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if refresh.Valid {
		user.RefreshToken = &refresh.String
	}

	return user, nil
}
