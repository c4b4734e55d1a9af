package store

import (
	"context"
	"strings"

	"finsight/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, name, email, password_hash, created_at`

// Create inserts a user inside the caller's transaction. Emails are stored
// lower-cased; a duplicate surfaces as a postgres unique violation.
func (s *UserStore) Create(ctx context.Context, tx Execer, id, name, email, passwordHash string) error {
	query := `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, id, strings.TrimSpace(name), normalizeEmail(email), passwordHash)
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email))
	return user, notFound(err)
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return user, notFound(err)
}

func (s *UserStore) ExistsByEmail(ctx context.Context, tx Getter, email string) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, normalizeEmail(email))
	return exists, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
