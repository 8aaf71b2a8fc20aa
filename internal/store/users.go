package store

import (
	"context"
	"strings"

	"github.com/sells-group/contract-costs/internal/model"
)

const userColumns = `id, username, email, password_hash, role, active, created_at, updated_at`

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *model.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, role, active) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		u.Username, u.Email, u.PasswordHash, u.Role, u.Active,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return writeErr(err, "insert user")
	}
	return nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return &u, nil
}

// GetUserByLogin finds a user by username or email.
func (s *PostgresStore) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	login = strings.TrimSpace(login)
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`, login))
	if err != nil {
		return nil, notFoundOr(err, "user", login)
	}
	return &u, nil
}
