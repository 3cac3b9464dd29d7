package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nicksmock/workout-calendar/internal/telemetry/tracing"
	"github.com/nicksmock/workout-calendar/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username or email already exists")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	FullName     *string
}

func (r *Repo) CreateUser(ctx context.Context, params CreateUserParams) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.createUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user := &User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		FullName:     params.FullName,
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at;`,
		params.Username, params.Email, params.PasswordHash, params.FullName,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.getByUsername")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getUser(ctx, `WHERE username = $1`, username)
}

func (r *Repo) GetByID(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.getByID")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getUser(ctx, `WHERE id = $1`, id)
}

func (r *Repo) getUser(ctx context.Context, where string, arg interface{}) (*User, error) {
	user := &User{}
	err := r.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, full_name, is_active, created_at, last_login
		FROM users `+where+`;`, arg,
	).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FullName, &user.IsActive, &user.CreatedAt, &user.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *Repo) UpdateLastLogin(ctx context.Context, id int, lastLogin time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.updateLastLogin")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`UPDATE users SET last_login = $1 WHERE id = $2;`,
		lastLogin, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
