// Package user defines the user entity and its persistence interface. The
// sticky experiment group lives on the user record itself, one group per
// user for the active experiment version.
package user

import "time"

// User represents a registered account.
type User struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"` // Never serialize password hash
	RecommendationGroup string    `json:"recommendationGroup,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Repository defines the operations for persisting User entities.
//
// SetRecommendationGroup is an unconditional overwrite: concurrent first
// assignments for the same user may both write, last write wins. The window
// is one-time and narrow, and both writes are valid groups, so no
// compare-and-set is employed.
type Repository interface {
	FindByID(id int64) (*User, error)
	FindByEmail(email string) (*User, error)
	Create(user *User) error
	GetRecommendationGroup(userID int64) (string, error)
	SetRecommendationGroup(userID int64, group string) error
}
