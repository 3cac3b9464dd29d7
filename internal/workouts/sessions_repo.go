package workouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicksmock/workout-calendar/internal/db"
	"github.com/nicksmock/workout-calendar/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrSessionNotFound = errors.New("workout session not found")

const sessionColumns = `
	ws.id, ws.user_id, ws.workout_template_id, ws.scheduled_date,
	ws.week_number, ws.day_number, ws.is_completed, ws.completed_date,
	ws.duration_minutes, ws.sleep_quality, ws.energy_level, ws.soreness_level,
	ws.overall_rating, ws.notes, ws.created_at, ws.updated_at`

type SessionsRepo struct {
	db *pgxpool.Pool
}

func NewSessionsRepo(db *pgxpool.Pool) *SessionsRepo {
	return &SessionsRepo{
		db: db,
	}
}

func (r *SessionsRepo) Create(ctx context.Context, params CreateSessionParams) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.createSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", params.WeekNumber))
	span.SetAttributes(attribute.Int("day", params.DayNumber))

	session := &Session{}
	err = r.db.QueryRow(ctx, `
		INSERT INTO workout_sessions
			(user_id, workout_template_id, scheduled_date, week_number, day_number,
			 sleep_quality, energy_level, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING`+sessionColumnsFlat+`;`,
		params.UserID, params.TemplateID, params.ScheduledDate,
		params.WeekNumber, params.DayNumber,
		params.SleepQuality, params.EnergyLevel, params.Notes,
	).Scan(sessionScanDest(session)...)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	span.SetAttributes(attribute.Int("session.id", session.ID))
	return session, nil
}

func (r *SessionsRepo) List(ctx context.Context, params ListSessionsParams) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listSessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.Week != nil {
		span.SetAttributes(attribute.Int("week", *params.Week))
	}
	if params.IsCompleted != nil {
		span.SetAttributes(attribute.Bool("completed", *params.IsCompleted))
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT`+sessionColumns+`,
			wt.name as workout_name, wt.workout_type, wt.phase
		FROM workout_sessions ws
		LEFT JOIN workout_templates wt ON ws.workout_template_id = wt.id
			WHERE ws.user_id = $1
			AND ($2::int IS NULL OR ws.week_number = $2)
			AND ($3::boolean IS NULL OR ws.is_completed = $3)
		ORDER BY ws.scheduled_date DESC
		LIMIT $4
		OFFSET $5;`,
		params.UserID, params.Week, params.IsCompleted, limit, params.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	sessions := make([]Session, 0)
	for rows.Next() {
		var s Session
		dest := sessionScanDest(&s)
		dest = append(dest, &s.WorkoutName, &s.WorkoutType, &s.Phase)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

// Get returns the session with its exercise logs, scoped to the owning user.
func (r *SessionsRepo) Get(ctx context.Context, id, userID int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.getSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	session := &Session{}
	dest := sessionScanDest(session)
	dest = append(dest, &session.WorkoutName, &session.WorkoutType, &session.Phase, &session.WarmUp, &session.CoolDown)
	err = r.db.QueryRow(ctx, `
		SELECT`+sessionColumns+`,
			wt.name as workout_name, wt.workout_type, wt.phase, wt.warm_up, wt.cool_down
		FROM workout_sessions ws
		LEFT JOIN workout_templates wt ON ws.workout_template_id = wt.id
		WHERE ws.id = $1 AND ws.user_id = $2;`,
		id, userID,
	).Scan(dest...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	logs, err := r.sessionLogs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session logs: %w", err)
	}
	session.ExerciseLogs = logs

	return session, nil
}

func (r *SessionsRepo) sessionLogs(ctx context.Context, sessionID int) ([]ExerciseLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			el.id, el.workout_session_id, el.exercise_id, el.order_index, el.set_number,
			el.reps, el.weight_lbs, el.duration_seconds, el.distance_meters,
			el.rpe, el.notes, el.created_at,
			e.name as exercise_name, e.category, e.video_url, e.equipment
		FROM exercise_logs el
		JOIN exercises e ON el.exercise_id = e.id
		WHERE el.workout_session_id = $1
		ORDER BY el.order_index, el.set_number;`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	logs := make([]ExerciseLog, 0)
	for rows.Next() {
		var l ExerciseLog
		if err := rows.Scan(
			&l.ID, &l.SessionID, &l.ExerciseID, &l.OrderIndex, &l.SetNumber,
			&l.Reps, &l.WeightLbs, &l.DurationSeconds, &l.DistanceMeters,
			&l.RPE, &l.Notes, &l.CreatedAt,
			&l.ExerciseName, &l.Category, &l.VideoURL, &l.Equipment,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, nil
}

// Update applies a merge patch: fields left nil in params keep the
// previously stored value.
func (r *SessionsRepo) Update(ctx context.Context, id, userID int, params UpdateSessionParams) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.updateSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	session := &Session{}
	err = r.db.QueryRow(ctx, `
		UPDATE workout_sessions ws
		SET completed_date = COALESCE($1, completed_date),
			duration_minutes = COALESCE($2, duration_minutes),
			is_completed = COALESCE($3, is_completed),
			sleep_quality = COALESCE($4, sleep_quality),
			energy_level = COALESCE($5, energy_level),
			soreness_level = COALESCE($6, soreness_level),
			notes = COALESCE($7, notes),
			overall_rating = COALESCE($8, overall_rating),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $9 AND user_id = $10
		RETURNING`+sessionColumnsFlat+`;`,
		params.CompletedDate, params.DurationMinutes, params.IsCompleted,
		params.SleepQuality, params.EnergyLevel, params.SorenessLevel,
		params.Notes, params.OverallRating,
		id, userID,
	).Scan(sessionScanDest(session)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("update session: %w", err)
	}

	return session, nil
}

// Delete removes the session and its exercise logs in one transaction.
func (r *SessionsRepo) Delete(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.deleteSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM exercise_logs WHERE workout_session_id = $1;`,
			id,
		); err != nil {
			return fmt.Errorf("delete session logs: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`DELETE FROM workout_sessions WHERE id = $1 AND user_id = $2;`,
			id, userID,
		)
		if err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
}

// AddLog appends one exercise set to a session. The session must belong
// to the given user, otherwise ErrSessionNotFound is returned and no
// row is inserted.
func (r *SessionsRepo) AddLog(ctx context.Context, userID int, params CreateLogParams) (_ *ExerciseLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", params.SessionID))
	span.SetAttributes(attribute.Int("exercise.id", params.ExerciseID))

	var ownedID int
	err = r.db.QueryRow(ctx,
		`SELECT id FROM workout_sessions WHERE id = $1 AND user_id = $2;`,
		params.SessionID, userID,
	).Scan(&ownedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("check session owner: %w", err)
	}

	l := &ExerciseLog{}
	err = r.db.QueryRow(ctx, `
		INSERT INTO exercise_logs
			(workout_session_id, exercise_id, order_index, set_number, reps,
			 weight_lbs, duration_seconds, distance_meters, rpe, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING
			id, workout_session_id, exercise_id, order_index, set_number, reps,
			weight_lbs, duration_seconds, distance_meters, rpe, notes, created_at;`,
		params.SessionID, params.ExerciseID, params.OrderIndex, params.SetNumber,
		params.Reps, params.WeightLbs, params.DurationSeconds, params.DistanceMeters,
		params.RPE, params.Notes,
	).Scan(
		&l.ID, &l.SessionID, &l.ExerciseID, &l.OrderIndex, &l.SetNumber,
		&l.Reps, &l.WeightLbs, &l.DurationSeconds, &l.DistanceMeters,
		&l.RPE, &l.Notes, &l.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert exercise log: %w", err)
	}

	return l, nil
}

// Ensure finds the session occupying the (user, week, day) program slot
// and applies the given update to it, or creates the slot when empty.
// The row lock closes the duplicate-slot race under concurrent writes.
func (r *SessionsRepo) Ensure(ctx context.Context, params EnsureSessionParams) (_ *Session, created bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.ensureSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week", params.WeekNumber))
	span.SetAttributes(attribute.Int("day", params.DayNumber))

	session := &Session{}
	err = db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var existingID int
		err := tx.QueryRow(ctx, `
			SELECT id FROM workout_sessions
			WHERE user_id = $1 AND week_number = $2 AND day_number = $3
			ORDER BY id
			LIMIT 1
			FOR UPDATE;`,
			params.UserID, params.WeekNumber, params.DayNumber,
		).Scan(&existingID)

		switch {
		case err == nil:
			u := params.Update
			return tx.QueryRow(ctx, `
				UPDATE workout_sessions ws
				SET completed_date = COALESCE($1, completed_date),
					duration_minutes = COALESCE($2, duration_minutes),
					is_completed = COALESCE($3, is_completed),
					sleep_quality = COALESCE($4, sleep_quality),
					energy_level = COALESCE($5, energy_level),
					soreness_level = COALESCE($6, soreness_level),
					notes = COALESCE($7, notes),
					overall_rating = COALESCE($8, overall_rating),
					updated_at = CURRENT_TIMESTAMP
				WHERE id = $9
				RETURNING`+sessionColumnsFlat+`;`,
				u.CompletedDate, u.DurationMinutes, u.IsCompleted,
				u.SleepQuality, u.EnergyLevel, u.SorenessLevel,
				u.Notes, u.OverallRating,
				existingID,
			).Scan(sessionScanDest(session)...)
		case errors.Is(err, pgx.ErrNoRows):
			created = true
			u := params.Update
			return tx.QueryRow(ctx, `
				INSERT INTO workout_sessions
					(user_id, workout_template_id, scheduled_date, week_number, day_number,
					 sleep_quality, energy_level, notes)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING`+sessionColumnsFlat+`;`,
				params.UserID, params.TemplateID, params.ScheduledDate,
				params.WeekNumber, params.DayNumber,
				u.SleepQuality, u.EnergyLevel, u.Notes,
			).Scan(sessionScanDest(session)...)
		default:
			return fmt.Errorf("find slot session: %w", err)
		}
	})
	if err != nil {
		return nil, false, err
	}

	span.SetAttributes(attribute.Int("session.id", session.ID))
	span.SetAttributes(attribute.Bool("created", created))
	return session, created, nil
}

// sessionColumnsFlat is the RETURNING variant of sessionColumns,
// usable outside a FROM clause with the ws alias.
const sessionColumnsFlat = `
	id, user_id, workout_template_id, scheduled_date,
	week_number, day_number, is_completed, completed_date,
	duration_minutes, sleep_quality, energy_level, soreness_level,
	overall_rating, notes, created_at, updated_at`

func sessionScanDest(s *Session) []interface{} {
	return []interface{}{
		&s.ID, &s.UserID, &s.TemplateID, &s.ScheduledDate,
		&s.WeekNumber, &s.DayNumber, &s.IsCompleted, &s.CompletedDate,
		&s.DurationMinutes, &s.SleepQuality, &s.EnergyLevel, &s.SorenessLevel,
		&s.OverallRating, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	}
}
