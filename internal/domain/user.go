package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User mirrors an identity-provider account. Subject is the provider's
// stable user identifier; rows are created lazily at checkout or pushed in
// via the identity webhook.
type User struct {
	ID        uuid.UUID
	Subject   string
	Name      string
	Email     string
	CreatedAt time.Time
}

// Identity is the acting operator resolved at checkout. Resolution failure
// is not an error outcome: a walk-in sale proceeds as Anonymous.
type Identity struct {
	UserID     uuid.UUID
	Identified bool
}

// Anonymous is the identity of a sale with no resolved operator.
var Anonymous = Identity{}

// Identified returns an identity referencing the given users row.
func Identified(userID uuid.UUID) Identity {
	return Identity{UserID: userID, Identified: true}
}

// UserStore persists identity-provider users.
type UserStore interface {
	GetUserBySubject(ctx context.Context, subject string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	// UpsertUser inserts or refreshes a user keyed by subject.
	// Used by the identity webhook.
	UpsertUser(ctx context.Context, u *User) error
}
