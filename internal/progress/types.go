package progress

import "time"

// UserStats aggregates a user's sessions, optionally bounded by a week
// range. Averages are nil when no contributing rows exist; nil means
// "no data", not zero.
type UserStats struct {
	TotalWorkouts     int        `json:"totalWorkouts"`
	CompletedWorkouts int        `json:"completedWorkouts"`
	AvgSleepQuality   *float64   `json:"avgSleepQuality"`
	AvgEnergyLevel    *float64   `json:"avgEnergyLevel"`
	AvgRating         *float64   `json:"avgRating"`
	LastWorkoutDate   *time.Time `json:"lastWorkoutDate"`
	TotalMinutes      *int       `json:"totalMinutes"`
	UniqueExercises   int        `json:"uniqueExercises"`
}

type StatsParams struct {
	UserID    int
	WeekStart *int
	WeekEnd   *int
}

// WeekSummary is one non-empty week of the program; weeks without
// sessions never produce a row.
type WeekSummary struct {
	WeekNumber        int      `json:"weekNumber"`
	TotalSessions     int      `json:"totalSessions"`
	CompletedSessions int      `json:"completedSessions"`
	AvgSleep          *float64 `json:"avgSleep"`
	AvgEnergy         *float64 `json:"avgEnergy"`
	AvgRating         *float64 `json:"avgRating"`
	TotalDuration     *int     `json:"totalDuration"`
}

// PersonalRecord is the best recorded value for one exercise. Exactly
// one of MaxWeight, MaxReps and MaxDuration is set depending on which
// record list it belongs to.
type PersonalRecord struct {
	ExerciseID   int       `json:"exerciseId"`
	ExerciseName string    `json:"exerciseName"`
	MaxWeight    *float64  `json:"maxWeight,omitempty"`
	Reps         *int      `json:"reps,omitempty"`
	MaxReps      *int      `json:"maxReps,omitempty"`
	MaxDuration  *int      `json:"maxDuration,omitempty"`
	AchievedDate time.Time `json:"achievedDate"`
}

// PersonalRecords holds the three independent best-per-exercise lists.
// An exercise may show up in one, two or all three of them.
type PersonalRecords struct {
	WeightRecords   []PersonalRecord `json:"weightRecords"`
	RepRecords      []PersonalRecord `json:"repRecords"`
	DurationRecords []PersonalRecord `json:"durationRecords"`
}

// ProgressEntry is one logged set of a given exercise within a
// completed session, newest session first.
type ProgressEntry struct {
	ID              int       `json:"id"`
	SetNumber       int       `json:"setNumber"`
	Reps            *int      `json:"reps"`
	WeightLbs       *float64  `json:"weightLbs"`
	DurationSeconds *int      `json:"durationSeconds"`
	RPE             *int      `json:"rpe"`
	CreatedAt       time.Time `json:"createdAt"`
	ScheduledDate   time.Time `json:"scheduledDate"`
	WeekNumber      int       `json:"weekNumber"`
	ExerciseName    string    `json:"exerciseName"`
}

// Measurement is an append-only dated body-metrics entry.
type Measurement struct {
	ID                int       `json:"id"`
	UserID            int       `json:"-"`
	MeasurementDate   time.Time `json:"measurementDate"`
	BodyWeightLbs     *float64  `json:"bodyWeightLbs"`
	BodyFatPercentage *float64  `json:"bodyFatPercentage"`
	ChestInches       *float64  `json:"chestInches"`
	WaistInches       *float64  `json:"waistInches"`
	HipsInches        *float64  `json:"hipsInches"`
	ArmsInches        *float64  `json:"armsInches"`
	ThighsInches      *float64  `json:"thighsInches"`
	Notes             *string   `json:"notes"`
	CreatedAt         time.Time `json:"createdAt"`
}

type CreateMeasurementParams struct {
	UserID            int
	MeasurementDate   time.Time
	BodyWeightLbs     *float64
	BodyFatPercentage *float64
	ChestInches       *float64
	WaistInches       *float64
	HipsInches        *float64
	ArmsInches        *float64
	ThighsInches      *float64
	Notes             *string
}

type Goal struct {
	ID           int        `json:"id"`
	UserID       int        `json:"-"`
	GoalType     string     `json:"goalType"`
	TargetValue  float64    `json:"targetValue"`
	CurrentValue *float64   `json:"currentValue"`
	Unit         string     `json:"unit"`
	TargetDate   time.Time  `json:"targetDate"`
	IsAchieved   bool       `json:"isAchieved"`
	AchievedDate *time.Time `json:"achievedDate"`
	Notes        *string    `json:"notes"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type CreateGoalParams struct {
	UserID       int
	GoalType     string
	TargetValue  float64
	CurrentValue *float64
	Unit         string
	TargetDate   time.Time
	Notes        *string
}

// UpdateGoalParams is a merge patch, nil fields keep the stored value.
type UpdateGoalParams struct {
	CurrentValue *float64
	IsAchieved   *bool
	AchievedDate *time.Time
	Notes        *string
}
