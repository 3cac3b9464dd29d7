package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicksmock/workout-calendar/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrGoalNotFound = errors.New("goal not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// UserStats aggregates all of the user's sessions in one query. Zero
// matching sessions yield zero counts and nil averages, never an error.
func (r *Repo) UserStats(ctx context.Context, params StatsParams) (_ *UserStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.userStats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.WeekStart != nil {
		span.SetAttributes(attribute.Int("week.start", *params.WeekStart))
	}
	if params.WeekEnd != nil {
		span.SetAttributes(attribute.Int("week.end", *params.WeekEnd))
	}

	stats := &UserStats{}
	err = r.db.QueryRow(ctx, `
		SELECT
			COUNT(DISTINCT ws.id) as total_workouts,
			COUNT(DISTINCT CASE WHEN ws.is_completed = true THEN ws.id END) as completed_workouts,
			AVG(ws.sleep_quality) as avg_sleep_quality,
			AVG(ws.energy_level) as avg_energy_level,
			AVG(ws.overall_rating) as avg_rating,
			MAX(ws.completed_date) as last_workout_date,
			SUM(ws.duration_minutes) as total_minutes,
			COUNT(DISTINCT el.exercise_id) as unique_exercises
		FROM workout_sessions ws
		LEFT JOIN exercise_logs el ON ws.id = el.workout_session_id
			WHERE ws.user_id = $1
			AND ($2::int IS NULL OR ws.week_number >= $2)
			AND ($3::int IS NULL OR ws.week_number <= $3);`,
		params.UserID, params.WeekStart, params.WeekEnd,
	).Scan(
		&stats.TotalWorkouts, &stats.CompletedWorkouts,
		&stats.AvgSleepQuality, &stats.AvgEnergyLevel, &stats.AvgRating,
		&stats.LastWorkoutDate, &stats.TotalMinutes, &stats.UniqueExercises,
	)
	if err != nil {
		return nil, fmt.Errorf("query user stats: %w", err)
	}

	return stats, nil
}

// WeeklySummary groups the user's sessions by week number, ascending.
// Weeks without sessions are omitted, not zero-filled.
func (r *Repo) WeeklySummary(ctx context.Context, userID, weeks int) (_ []WeekSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.weeklySummary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("weeks", weeks))

	if weeks <= 0 {
		weeks = 12
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			ws.week_number,
			COUNT(DISTINCT ws.id) as total_sessions,
			COUNT(DISTINCT CASE WHEN ws.is_completed = true THEN ws.id END) as completed_sessions,
			AVG(ws.sleep_quality) as avg_sleep,
			AVG(ws.energy_level) as avg_energy,
			AVG(ws.overall_rating) as avg_rating,
			SUM(ws.duration_minutes) as total_duration
		FROM workout_sessions ws
		WHERE ws.user_id = $1 AND ws.week_number <= $2
		GROUP BY ws.week_number
		ORDER BY ws.week_number;`,
		userID, weeks,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	summaries := make([]WeekSummary, 0)
	for rows.Next() {
		var s WeekSummary
		if err := rows.Scan(
			&s.WeekNumber, &s.TotalSessions, &s.CompletedSessions,
			&s.AvgSleep, &s.AvgEnergy, &s.AvgRating, &s.TotalDuration,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}

// PersonalRecords returns the three best-per-exercise lists over
// completed sessions. Ties on the record value go to the most recent
// scheduled date.
func (r *Repo) PersonalRecords(ctx context.Context, userID int) (_ *PersonalRecords, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.personalRecords")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	records := &PersonalRecords{}

	records.WeightRecords, err = r.queryRecords(ctx, `
		SELECT DISTINCT ON (e.name)
			e.id as exercise_id,
			e.name as exercise_name,
			el.weight_lbs as max_weight,
			el.reps,
			ws.scheduled_date as achieved_date
		FROM exercise_logs el
		JOIN exercises e ON el.exercise_id = e.id
		JOIN workout_sessions ws ON el.workout_session_id = ws.id
		WHERE ws.user_id = $1 AND el.weight_lbs IS NOT NULL AND ws.is_completed = true
		ORDER BY e.name, el.weight_lbs DESC, ws.scheduled_date DESC;`,
		userID,
		func(rows pgx.Rows, pr *PersonalRecord) error {
			return rows.Scan(&pr.ExerciseID, &pr.ExerciseName, &pr.MaxWeight, &pr.Reps, &pr.AchievedDate)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("weight records: %w", err)
	}

	records.RepRecords, err = r.queryRecords(ctx, `
		SELECT DISTINCT ON (e.name)
			e.id as exercise_id,
			e.name as exercise_name,
			el.reps as max_reps,
			ws.scheduled_date as achieved_date
		FROM exercise_logs el
		JOIN exercises e ON el.exercise_id = e.id
		JOIN workout_sessions ws ON el.workout_session_id = ws.id
		WHERE ws.user_id = $1 AND el.reps IS NOT NULL AND ws.is_completed = true
		ORDER BY e.name, el.reps DESC, ws.scheduled_date DESC;`,
		userID,
		func(rows pgx.Rows, pr *PersonalRecord) error {
			return rows.Scan(&pr.ExerciseID, &pr.ExerciseName, &pr.MaxReps, &pr.AchievedDate)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("rep records: %w", err)
	}

	records.DurationRecords, err = r.queryRecords(ctx, `
		SELECT DISTINCT ON (e.name)
			e.id as exercise_id,
			e.name as exercise_name,
			el.duration_seconds as max_duration,
			ws.scheduled_date as achieved_date
		FROM exercise_logs el
		JOIN exercises e ON el.exercise_id = e.id
		JOIN workout_sessions ws ON el.workout_session_id = ws.id
		WHERE ws.user_id = $1 AND el.duration_seconds IS NOT NULL AND ws.is_completed = true
		ORDER BY e.name, el.duration_seconds DESC, ws.scheduled_date DESC;`,
		userID,
		func(rows pgx.Rows, pr *PersonalRecord) error {
			return rows.Scan(&pr.ExerciseID, &pr.ExerciseName, &pr.MaxDuration, &pr.AchievedDate)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("duration records: %w", err)
	}

	return records, nil
}

func (r *Repo) queryRecords(
	ctx context.Context,
	query string,
	userID int,
	scan func(rows pgx.Rows, pr *PersonalRecord) error,
) ([]PersonalRecord, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]PersonalRecord, 0)
	for rows.Next() {
		var pr PersonalRecord
		if err := scan(rows, &pr); err != nil {
			return nil, err
		}
		records = append(records, pr)
	}
	return records, nil
}

// ExerciseProgress lists the user's logged sets of one exercise over
// completed sessions, newest scheduled date first.
func (r *Repo) ExerciseProgress(ctx context.Context, userID, exerciseID, limit int) (_ []ProgressEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.exerciseProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			el.id, el.set_number, el.reps, el.weight_lbs, el.duration_seconds,
			el.rpe, el.created_at,
			ws.scheduled_date, ws.week_number,
			e.name as exercise_name
		FROM exercise_logs el
		JOIN workout_sessions ws ON el.workout_session_id = ws.id
		JOIN exercises e ON el.exercise_id = e.id
		WHERE ws.user_id = $1 AND el.exercise_id = $2 AND ws.is_completed = true
		ORDER BY ws.scheduled_date DESC, el.set_number
		LIMIT $3;`,
		userID, exerciseID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	entries := make([]ProgressEntry, 0)
	for rows.Next() {
		var e ProgressEntry
		if err := rows.Scan(
			&e.ID, &e.SetNumber, &e.Reps, &e.WeightLbs, &e.DurationSeconds,
			&e.RPE, &e.CreatedAt,
			&e.ScheduledDate, &e.WeekNumber, &e.ExerciseName,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func (r *Repo) ListMeasurements(ctx context.Context, userID, limit int) (_ []Measurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.listMeasurements")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if limit <= 0 {
		limit = 12
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			id, user_id, measurement_date, body_weight_lbs, body_fat_percentage,
			chest_inches, waist_inches, hips_inches, arms_inches, thighs_inches,
			notes, created_at
		FROM progress_measurements
		WHERE user_id = $1
		ORDER BY measurement_date DESC
		LIMIT $2;`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	measurements := make([]Measurement, 0)
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.MeasurementDate, &m.BodyWeightLbs, &m.BodyFatPercentage,
			&m.ChestInches, &m.WaistInches, &m.HipsInches, &m.ArmsInches, &m.ThighsInches,
			&m.Notes, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		measurements = append(measurements, m)
	}

	return measurements, nil
}

func (r *Repo) CreateMeasurement(ctx context.Context, params CreateMeasurementParams) (_ *Measurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.createMeasurement")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	m := &Measurement{}
	err = r.db.QueryRow(ctx, `
		INSERT INTO progress_measurements
			(user_id, measurement_date, body_weight_lbs, body_fat_percentage,
			 chest_inches, waist_inches, hips_inches, arms_inches, thighs_inches, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING
			id, user_id, measurement_date, body_weight_lbs, body_fat_percentage,
			chest_inches, waist_inches, hips_inches, arms_inches, thighs_inches,
			notes, created_at;`,
		params.UserID, params.MeasurementDate, params.BodyWeightLbs, params.BodyFatPercentage,
		params.ChestInches, params.WaistInches, params.HipsInches, params.ArmsInches,
		params.ThighsInches, params.Notes,
	).Scan(
		&m.ID, &m.UserID, &m.MeasurementDate, &m.BodyWeightLbs, &m.BodyFatPercentage,
		&m.ChestInches, &m.WaistInches, &m.HipsInches, &m.ArmsInches, &m.ThighsInches,
		&m.Notes, &m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert measurement: %w", err)
	}

	return m, nil
}

const goalColumns = `
	id, user_id, goal_type, target_value, current_value, unit, target_date,
	is_achieved, achieved_date, notes, created_at, updated_at`

func goalScanDest(g *Goal) []interface{} {
	return []interface{}{
		&g.ID, &g.UserID, &g.GoalType, &g.TargetValue, &g.CurrentValue,
		&g.Unit, &g.TargetDate, &g.IsAchieved, &g.AchievedDate,
		&g.Notes, &g.CreatedAt, &g.UpdatedAt,
	}
}

func (r *Repo) ListGoals(ctx context.Context, userID int, isAchieved *bool) (_ []Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.listGoals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if isAchieved != nil {
		span.SetAttributes(attribute.Bool("achieved", *isAchieved))
	}

	rows, err := r.db.Query(ctx, `
		SELECT`+goalColumns+`
		FROM user_goals
			WHERE user_id = $1
			AND ($2::boolean IS NULL OR is_achieved = $2)
		ORDER BY target_date, created_at;`,
		userID, isAchieved,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	goals := make([]Goal, 0)
	for rows.Next() {
		var g Goal
		if err := rows.Scan(goalScanDest(&g)...); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		goals = append(goals, g)
	}

	return goals, nil
}

func (r *Repo) CreateGoal(ctx context.Context, params CreateGoalParams) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.createGoal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	g := &Goal{}
	err = r.db.QueryRow(ctx, `
		INSERT INTO user_goals
			(user_id, goal_type, target_value, current_value, unit, target_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING`+goalColumns+`;`,
		params.UserID, params.GoalType, params.TargetValue, params.CurrentValue,
		params.Unit, params.TargetDate, params.Notes,
	).Scan(goalScanDest(g)...)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}

	span.SetAttributes(attribute.Int("goal.id", g.ID))
	return g, nil
}

// UpdateGoal applies a merge patch scoped to the owning user.
func (r *Repo) UpdateGoal(ctx context.Context, id, userID int, params UpdateGoalParams) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.updateGoal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	g := &Goal{}
	err = r.db.QueryRow(ctx, `
		UPDATE user_goals
		SET current_value = COALESCE($1, current_value),
			is_achieved = COALESCE($2, is_achieved),
			achieved_date = COALESCE($3, achieved_date),
			notes = COALESCE($4, notes),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND user_id = $6
		RETURNING`+goalColumns+`;`,
		params.CurrentValue, params.IsAchieved, params.AchievedDate, params.Notes,
		id, userID,
	).Scan(goalScanDest(g)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("update goal: %w", err)
	}

	return g, nil
}
