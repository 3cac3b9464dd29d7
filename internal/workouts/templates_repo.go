package workouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicksmock/workout-calendar/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrTemplateNotFound = errors.New("workout template not found")

type TemplatesRepo struct {
	db *pgxpool.Pool
}

func NewTemplatesRepo(db *pgxpool.Pool) *TemplatesRepo {
	return &TemplatesRepo{
		db: db,
	}
}

func (r *TemplatesRepo) ListTemplates(ctx context.Context) (_ []Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listTemplates")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT
			wt.id, wt.name, wt.description, wt.workout_type, wt.phase,
			wt.week_number, wt.duration_minutes, wt.warm_up, wt.cool_down, wt.notes
		FROM workout_templates wt
		ORDER BY wt.week_number, wt.workout_type;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	templates := make([]Template, 0)
	for rows.Next() {
		var t Template
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.WorkoutType, &t.Phase,
			&t.WeekNumber, &t.DurationMinutes, &t.WarmUp, &t.CoolDown, &t.Notes,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		templates = append(templates, t)
	}

	return templates, nil
}

// GetTemplate returns the template together with its ordered exercises.
func (r *TemplatesRepo) GetTemplate(ctx context.Context, id int) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.getTemplate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	t := &Template{}
	err = r.db.QueryRow(ctx, `
		SELECT
			wt.id, wt.name, wt.description, wt.workout_type, wt.phase,
			wt.week_number, wt.duration_minutes, wt.warm_up, wt.cool_down, wt.notes
		FROM workout_templates wt
		WHERE wt.id = $1;`,
		id,
	).Scan(
		&t.ID, &t.Name, &t.Description, &t.WorkoutType, &t.Phase,
		&t.WeekNumber, &t.DurationMinutes, &t.WarmUp, &t.CoolDown, &t.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			wte.id, wte.order_index, wte.sets, wte.reps, wte.rest_seconds, wte.notes,
			e.id as exercise_id, e.name as exercise_name, e.description, e.category,
			e.equipment, e.muscle_groups, e.video_url, e.difficulty_level
		FROM workout_template_exercises wte
		JOIN exercises e ON wte.exercise_id = e.id
		WHERE wte.workout_template_id = $1
		ORDER BY wte.order_index;`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query template exercises: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("template exercises rows: %w", err)
	}

	exercises := make([]TemplateExercise, 0)
	for rows.Next() {
		var te TemplateExercise
		if err := rows.Scan(
			&te.ID, &te.OrderIndex, &te.Sets, &te.Reps, &te.RestSeconds, &te.Notes,
			&te.ExerciseID, &te.ExerciseName, &te.Description, &te.Category,
			&te.Equipment, &te.MuscleGroups, &te.VideoURL, &te.Difficulty,
		); err != nil {
			return nil, fmt.Errorf("template exercises scan: %w", err)
		}
		exercises = append(exercises, te)
	}
	t.Exercises = exercises

	return t, nil
}

func (r *TemplatesRepo) ListExercises(ctx context.Context, params ListExercisesParams) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listExercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("category", params.Category))
	span.SetAttributes(attribute.String("difficulty", params.Difficulty))

	rows, err := r.db.Query(ctx, `
		SELECT
			e.id, e.name, e.description, e.category, e.equipment,
			e.muscle_groups, e.video_url, e.difficulty_level, e.created_at
		FROM exercises e
			WHERE ($1::text = '' OR e.category = $1)
			AND ($2::text = '' OR e.difficulty_level = $2)
		ORDER BY e.name;`,
		params.Category, params.Difficulty,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	exercises := make([]Exercise, 0)
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Description, &e.Category, &e.Equipment,
			&e.MuscleGroups, &e.VideoURL, &e.Difficulty, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercises = append(exercises, e)
	}

	return exercises, nil
}
