package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizmania-service/internal/domain"
)

const uniqueViolation = "23505"

// UserStore keeps accounts in the users table. E-mail and username are unique.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, email, username, password_hash, role, enabled`

func (s *UserStore) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.one(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.one(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email)
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.one(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
}

func (s *UserStore) CreateUser(ctx context.Context, u domain.User) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.Enabled)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "users_username_key" {
				return domain.ErrUsernameTaken
			}
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserStore) UpdateUser(ctx context.Context, u domain.User) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET email=$2, username=$3, password_hash=$4, role=$5, enabled=$6 WHERE id=$1`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.Enabled)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *UserStore) one(ctx context.Context, query, arg string) (domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.Enabled)
	return u, err
}

// TokenStore keeps confirmation tokens; they are removed with their user.
type TokenStore struct {
	pool *pgxpool.Pool
}

func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

func (s *TokenStore) SaveToken(ctx context.Context, t domain.ConfirmationToken) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO confirmation_tokens (token, user_id, purpose, expires_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, purpose = EXCLUDED.purpose, expires_at = EXCLUDED.expires_at`,
		t.Token, t.UserID, t.Purpose, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *TokenStore) GetToken(ctx context.Context, token string) (domain.ConfirmationToken, error) {
	var t domain.ConfirmationToken
	err := s.pool.QueryRow(ctx, `SELECT token, user_id, purpose, expires_at FROM confirmation_tokens WHERE token=$1`, token).
		Scan(&t.Token, &t.UserID, &t.Purpose, &t.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ConfirmationToken{}, domain.ErrTokenNotFound
	}
	if err != nil {
		return domain.ConfirmationToken{}, fmt.Errorf("load token: %w", err)
	}
	return t, nil
}

func (s *TokenStore) DeleteToken(ctx context.Context, token string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM confirmation_tokens WHERE token=$1`, token); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
