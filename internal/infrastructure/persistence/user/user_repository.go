// Package user provides the concrete SQL-based implementation for user
// persistence, including the sticky recommendation group column.
package user

import (
	"database/sql"
	"fmt"
	"time"

	domainUser "github.com/shopcanopy/splitrank-go/internal/domain/user"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/persistence/database"
	"github.com/shopcanopy/splitrank-go/pkg/config"
)

// SQLUserRepository handles user persistence to the database.
type SQLUserRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLUserRepository creates a new instance of the repository.
func NewSQLUserRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLUserRepository {
	return &SQLUserRepository{
		db:     db,
		logger: logger,
	}
}

// FindByID retrieves a user by primary key.
func (r *SQLUserRepository) FindByID(id int64) (*domainUser.User, error) {
	const query = `SELECT id, name, email, password_hash, COALESCE(recommendation_group, ''), created_at FROM users WHERE id = ?`

	u := &domainUser.User{}
	err := r.db.QueryRow(query, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RecommendationGroup, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user %d: %w", id, err)
	}
	return u, nil
}

// FindByEmail retrieves a user by email address.
func (r *SQLUserRepository) FindByEmail(email string) (*domainUser.User, error) {
	const query = `SELECT id, name, email, password_hash, COALESCE(recommendation_group, ''), created_at FROM users WHERE email = ?`

	u := &domainUser.User{}
	err := r.db.QueryRow(query, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RecommendationGroup, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return u, nil
}

// Create inserts a new user record and backfills the generated id.
func (r *SQLUserRepository) Create(u *domainUser.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)`

	start := time.Now()
	result, err := r.db.Exec(query, u.Name, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		r.logger.Database().Error("User insert failed", "error", err.Error(), "email", u.Email)
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new user id: %w", err)
	}
	u.ID = id

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// GetRecommendationGroup reads the user's persisted sticky group. Empty
// string means no assignment has been made yet.
func (r *SQLUserRepository) GetRecommendationGroup(userID int64) (string, error) {
	const query = `SELECT COALESCE(recommendation_group, '') FROM users WHERE id = ?`

	var group string
	err := r.db.QueryRow(query, userID).Scan(&group)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read recommendation group for user %d: %w", userID, err)
	}
	return group, nil
}

// SetRecommendationGroup persists the sticky group for a user. This is an
// unconditional overwrite: concurrent first writes race benignly, last
// write wins.
func (r *SQLUserRepository) SetRecommendationGroup(userID int64, group string) error {
	const query = `UPDATE users SET recommendation_group = ? WHERE id = ?`

	start := time.Now()
	if _, err := r.db.Exec(query, group, userID); err != nil {
		r.logger.Database().Error("Recommendation group update failed",
			"error", err.Error(),
			"userId", userID,
			"group", group)
		return fmt.Errorf("failed to persist recommendation group for user %d: %w", userID, err)
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}
