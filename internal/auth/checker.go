package auth

import "context"

// Checker resolves an auth token to the owning user ID.
type Checker interface {
	TokenUserID(ctx context.Context, token string) (int, error)
}

var _ Checker = (*Service)(nil)
