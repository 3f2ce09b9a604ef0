package user

import "context"

type Repository interface {
	UpsertUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, uid string) (*User, error)
}
