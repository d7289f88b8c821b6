package user

import "context"

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	// Delete removes the user; the producer profile and everything below it
	// cascade at the database level.
	Delete(ctx context.Context, userID string) (bool, error)
	CountByEmail(ctx context.Context, email, excludeID string) (int64, error)
}
