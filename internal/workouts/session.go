package workouts

import "time"

// Session is one scheduled (and possibly completed) workout occurrence
// for a user on a given program day. Day numbers run 0-6, Monday first.
type Session struct {
	ID              int        `json:"id"`
	UserID          int        `json:"-"`
	TemplateID      *int       `json:"workoutTemplateId"`
	ScheduledDate   time.Time  `json:"scheduledDate"`
	WeekNumber      int        `json:"weekNumber"`
	DayNumber       int        `json:"dayNumber"`
	IsCompleted     bool       `json:"isCompleted"`
	CompletedDate   *time.Time `json:"completedDate"`
	DurationMinutes *int       `json:"durationMinutes"`
	SleepQuality    *int       `json:"sleepQuality"`
	EnergyLevel     *int       `json:"energyLevel"`
	SorenessLevel   *int       `json:"sorenessLevel"`
	OverallRating   *int       `json:"overallRating"`
	Notes           *string    `json:"notes"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// joined template metadata, nil when the session has no template
	WorkoutName *string `json:"workoutName"`
	WorkoutType *string `json:"workoutType"`
	Phase       *string `json:"phase"`
	WarmUp      *string `json:"warmUp,omitempty"`
	CoolDown    *string `json:"coolDown,omitempty"`

	// only filled on single-session reads
	ExerciseLogs []ExerciseLog `json:"exerciseLogs,omitempty"`
}

// ExerciseLog records one performed set within a session. Logs are
// append-only, a wrong entry is corrected by logging another one.
type ExerciseLog struct {
	ID              int       `json:"id"`
	SessionID       int       `json:"workoutSessionId"`
	ExerciseID      int       `json:"exerciseId"`
	OrderIndex      int       `json:"orderIndex"`
	SetNumber       int       `json:"setNumber"`
	Reps            *int      `json:"reps"`
	WeightLbs       *float64  `json:"weightLbs"`
	DurationSeconds *int      `json:"durationSeconds"`
	DistanceMeters  *float64  `json:"distanceMeters"`
	RPE             *int      `json:"rpe"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`

	// joined exercise reference data
	ExerciseName string  `json:"exerciseName,omitempty"`
	Category     string  `json:"category,omitempty"`
	VideoURL     *string `json:"videoUrl,omitempty"`
	Equipment    *string `json:"equipment,omitempty"`
}

type CreateSessionParams struct {
	UserID        int
	TemplateID    *int
	ScheduledDate time.Time
	WeekNumber    int
	DayNumber     int
	SleepQuality  *int
	EnergyLevel   *int
	Notes         *string
}

type ListSessionsParams struct {
	UserID      int
	Week        *int
	IsCompleted *bool
	Limit       int
	Offset      int
}

// UpdateSessionParams is a merge patch: nil fields keep their
// previous value, set fields overwrite it.
type UpdateSessionParams struct {
	CompletedDate   *time.Time
	DurationMinutes *int
	IsCompleted     *bool
	SleepQuality    *int
	EnergyLevel     *int
	SorenessLevel   *int
	Notes           *string
	OverallRating   *int
}

type CreateLogParams struct {
	SessionID       int
	ExerciseID      int
	OrderIndex      int
	SetNumber       int
	Reps            *int
	WeightLbs       *float64
	DurationSeconds *int
	DistanceMeters  *float64
	RPE             *int
	Notes           *string
}

// EnsureSessionParams identifies a program slot by (user, week, day).
type EnsureSessionParams struct {
	UserID        int
	WeekNumber    int
	DayNumber     int
	ScheduledDate time.Time
	TemplateID    *int
	Update        UpdateSessionParams
}
