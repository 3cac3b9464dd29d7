package workouts

import "time"

// Exercise is shared reference data, not user-owned.
type Exercise struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Category     string    `json:"category"`
	Equipment    *string   `json:"equipment"`
	MuscleGroups *string   `json:"muscleGroups"`
	VideoURL     *string   `json:"videoUrl"`
	Difficulty   *string   `json:"difficultyLevel"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Template is a reusable prescribed workout definition, independent
// of any user's calendar.
type Template struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	WorkoutType     string  `json:"workoutType"`
	Phase           *string `json:"phase"`
	WeekNumber      *int    `json:"weekNumber"`
	DurationMinutes *int    `json:"durationMinutes"`
	WarmUp          *string `json:"warmUp"`
	CoolDown        *string `json:"coolDown"`
	Notes           *string `json:"notes"`

	// only filled on single-template reads
	Exercises []TemplateExercise `json:"exercises,omitempty"`
}

// TemplateExercise is one prescribed exercise entry within a template.
type TemplateExercise struct {
	ID          int     `json:"id"`
	OrderIndex  int     `json:"orderIndex"`
	Sets        *int    `json:"sets"`
	Reps        *string `json:"reps"`
	RestSeconds *int    `json:"restSeconds"`
	Notes       *string `json:"notes"`

	ExerciseID   int     `json:"exerciseId"`
	ExerciseName string  `json:"exerciseName"`
	Description  *string `json:"description"`
	Category     string  `json:"category"`
	Equipment    *string `json:"equipment"`
	MuscleGroups *string `json:"muscleGroups"`
	VideoURL     *string `json:"videoUrl"`
	Difficulty   *string `json:"difficultyLevel"`
}

type ListExercisesParams struct {
	Category   string
	Difficulty string
}
