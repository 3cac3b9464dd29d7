package auth

import (
	"context"
	"time"
)

type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     *string    `json:"fullName,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

type ctxKey string

const ctxKeyUserID ctxKey = "user-id"

// CtxWithUserID returns a ctx carrying the acting user's id. Set by the auth
// middleware; the domain handlers never determine identity themselves.
func CtxWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

// UserIDFromCtx returns the acting user's id, or false if not authenticated.
func UserIDFromCtx(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(int)
	return id, ok
}
