package progress

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/nicksmock/workout-calendar/internal/auth"
	"github.com/nicksmock/workout-calendar/internal/telemetry/metrics"
	"github.com/nicksmock/workout-calendar/internal/telemetry/tracing"
	"github.com/nicksmock/workout-calendar/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=progress_test

type progressRepo interface {
	UserStats(ctx context.Context, params StatsParams) (*UserStats, error)
	WeeklySummary(ctx context.Context, userID, weeks int) ([]WeekSummary, error)
	PersonalRecords(ctx context.Context, userID int) (*PersonalRecords, error)
	ExerciseProgress(ctx context.Context, userID, exerciseID, limit int) ([]ProgressEntry, error)
	ListMeasurements(ctx context.Context, userID, limit int) ([]Measurement, error)
	CreateMeasurement(ctx context.Context, params CreateMeasurementParams) (*Measurement, error)
	ListGoals(ctx context.Context, userID int, isAchieved *bool) ([]Goal, error)
	CreateGoal(ctx context.Context, params CreateGoalParams) (*Goal, error)
	UpdateGoal(ctx context.Context, id, userID int, params UpdateGoalParams) (*Goal, error)
}

type Handler struct {
	repo    progressRepo
	metrics *metrics.Manager
}

func NewHandler(repo progressRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	progressRouter := router.PathPrefix("/progress").Subrouter()
	progressRouter.HandleFunc("/stats", handler.HandleStats).Methods("GET").Name("progress-stats")
	progressRouter.HandleFunc("/weekly", handler.HandleWeeklySummary).Methods("GET").Name("progress-weekly")
	progressRouter.HandleFunc("/records", handler.HandleRecords).Methods("GET").Name("progress-records")
	progressRouter.HandleFunc("/exercises/{exerciseId}", handler.HandleExerciseProgress).Methods("GET").Name("progress-exercise")
	progressRouter.HandleFunc("/measurements", handler.HandleListMeasurements).Methods("GET").Name("measurements-list")
	progressRouter.HandleFunc("/measurements", handler.HandleCreateMeasurement).Methods("POST", "OPTIONS").Name("measurements-create")
	progressRouter.HandleFunc("/goals", handler.HandleListGoals).Methods("GET").Name("goals-list")
	progressRouter.HandleFunc("/goals", handler.HandleCreateGoal).Methods("POST", "OPTIONS").Name("goals-create")
	progressRouter.HandleFunc("/goals/{id}", handler.HandleUpdateGoal).Methods("PUT", "OPTIONS").Name("goals-update")
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.stats")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params := StatsParams{UserID: userID}
	query := r.URL.Query()
	if weekStartStr := query.Get("weekStart"); weekStartStr != "" {
		weekStart, err := strconv.Atoi(weekStartStr)
		if err != nil {
			pkg.WriteJSONError(w, "parameter <weekStart> must be a number", http.StatusBadRequest)
			return
		}
		params.WeekStart = &weekStart
	}
	if weekEndStr := query.Get("weekEnd"); weekEndStr != "" {
		weekEnd, err := strconv.Atoi(weekEndStr)
		if err != nil {
			pkg.WriteJSONError(w, "parameter <weekEnd> must be a number", http.StatusBadRequest)
			return
		}
		params.WeekEnd = &weekEnd
	}

	stats, err := handler.repo.UserStats(ctx, params)
	if err != nil {
		log.Errorf("user stats error: %s", err)
		pkg.WriteJSONError(w, "failed to fetch user statistics", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, stats, http.StatusOK)
}

func (handler *Handler) HandleWeeklySummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.weeklySummary")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	weeks := 12
	if weeksStr := r.URL.Query().Get("weeks"); weeksStr != "" {
		parsed, err := strconv.Atoi(weeksStr)
		if err != nil {
			pkg.WriteJSONError(w, "parameter <weeks> must be a number", http.StatusBadRequest)
			return
		}
		weeks = parsed
	}

	summaries, err := handler.repo.WeeklySummary(ctx, userID, weeks)
	if err != nil {
		log.Errorf("weekly summary error: %s", err)
		pkg.WriteJSONError(w, "failed to fetch weekly summary", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, summaries, http.StatusOK)
}

func (handler *Handler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.records")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	records, err := handler.repo.PersonalRecords(ctx, userID)
	if err != nil {
		log.Errorf("personal records error: %s", err)
		pkg.WriteJSONError(w, "failed to fetch personal records", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, records, http.StatusOK)
}

func (handler *Handler) HandleExerciseProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.exerciseProgress")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	exerciseID, err := strconv.Atoi(mux.Vars(r)["exerciseId"])
	if err != nil {
		http.Error(w, "error, exercise id NaN", http.StatusBadRequest)
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			pkg.WriteJSONError(w, "parameter <limit> must be a number", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := handler.repo.ExerciseProgress(ctx, userID, exerciseID, limit)
	if err != nil {
		log.Errorf("exercise progress error for exercise %d: %s", exerciseID, err)
		pkg.WriteJSONError(w, "failed to fetch exercise progress", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, entries, http.StatusOK)
}

func (handler *Handler) HandleListMeasurements(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.listMeasurements")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	limit := 12
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			pkg.WriteJSONError(w, "parameter <limit> must be a number", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	measurements, err := handler.repo.ListMeasurements(ctx, userID, limit)
	if err != nil {
		log.Errorf("list measurements error: %s", err)
		pkg.WriteJSONError(w, "failed to fetch progress measurements", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, measurements, http.StatusOK)
}

type createMeasurementRequest struct {
	MeasurementDate   string   `json:"measurementDate"`
	BodyWeightLbs     *float64 `json:"bodyWeightLbs"`
	BodyFatPercentage *float64 `json:"bodyFatPercentage"`
	ChestInches       *float64 `json:"chestInches"`
	WaistInches       *float64 `json:"waistInches"`
	HipsInches        *float64 `json:"hipsInches"`
	ArmsInches        *float64 `json:"armsInches"`
	ThighsInches      *float64 `json:"thighsInches"`
	Notes             *string  `json:"notes"`
}

func (handler *Handler) HandleCreateMeasurement(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.createMeasurement")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req createMeasurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("create measurement, unmarshal json params: %s", err)
		http.Error(w, "create measurement failed", http.StatusBadRequest)
		return
	}

	if req.MeasurementDate == "" {
		pkg.WriteJSONError(w, "measurement date is required", http.StatusBadRequest)
		return
	}
	measurementDate, err := parseDate(req.MeasurementDate)
	if err != nil {
		pkg.WriteJSONError(w, "invalid measurement date", http.StatusBadRequest)
		return
	}

	measurement, err := handler.repo.CreateMeasurement(ctx, CreateMeasurementParams{
		UserID:            userID,
		MeasurementDate:   measurementDate,
		BodyWeightLbs:     req.BodyWeightLbs,
		BodyFatPercentage: req.BodyFatPercentage,
		ChestInches:       req.ChestInches,
		WaistInches:       req.WaistInches,
		HipsInches:        req.HipsInches,
		ArmsInches:        req.ArmsInches,
		ThighsInches:      req.ThighsInches,
		Notes:             req.Notes,
	})
	if err != nil {
		log.Errorf("failed to create measurement: %s", err)
		pkg.WriteJSONError(w, "failed to create progress measurement", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterMeasurementsCreated.Inc()
	handler.writeJSON(w, measurement, http.StatusCreated)
}

func (handler *Handler) HandleListGoals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.listGoals")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var isAchieved *bool
	if achievedStr := r.URL.Query().Get("isAchieved"); achievedStr != "" {
		achieved := achievedStr == "true"
		isAchieved = &achieved
	}

	goals, err := handler.repo.ListGoals(ctx, userID, isAchieved)
	if err != nil {
		log.Errorf("list goals error: %s", err)
		pkg.WriteJSONError(w, "failed to fetch user goals", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, goals, http.StatusOK)
}

type createGoalRequest struct {
	GoalType     string   `json:"goalType"`
	TargetValue  *float64 `json:"targetValue"`
	CurrentValue *float64 `json:"currentValue"`
	Unit         string   `json:"unit"`
	TargetDate   string   `json:"targetDate"`
	Notes        *string  `json:"notes"`
}

func (handler *Handler) HandleCreateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.createGoal")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("create goal, unmarshal json params: %s", err)
		http.Error(w, "create goal failed", http.StatusBadRequest)
		return
	}

	if req.GoalType == "" || req.TargetValue == nil || req.Unit == "" || req.TargetDate == "" {
		pkg.WriteJSONError(w, "goal type, target value, unit and target date are required", http.StatusBadRequest)
		return
	}
	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		pkg.WriteJSONError(w, "invalid target date", http.StatusBadRequest)
		return
	}

	goal, err := handler.repo.CreateGoal(ctx, CreateGoalParams{
		UserID:       userID,
		GoalType:     req.GoalType,
		TargetValue:  *req.TargetValue,
		CurrentValue: req.CurrentValue,
		Unit:         req.Unit,
		TargetDate:   targetDate,
		Notes:        req.Notes,
	})
	if err != nil {
		log.Errorf("failed to create goal [%s]: %s", req.GoalType, err)
		pkg.WriteJSONError(w, "failed to create user goal", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterGoalsCreated.Inc()
	log.Debugf("new goal created [%s]: %d", goal.GoalType, goal.ID)
	handler.writeJSON(w, goal, http.StatusCreated)
}

type updateGoalRequest struct {
	CurrentValue *float64   `json:"currentValue"`
	IsAchieved   *bool      `json:"isAchieved"`
	AchievedDate *time.Time `json:"achievedDate"`
	Notes        *string    `json:"notes"`
}

func (handler *Handler) HandleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.updateGoal")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	var req updateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update goal, unmarshal json params: %s", err)
		http.Error(w, "update goal failed", http.StatusBadRequest)
		return
	}

	goal, err := handler.repo.UpdateGoal(ctx, id, userID, UpdateGoalParams{
		CurrentValue: req.CurrentValue,
		IsAchieved:   req.IsAchieved,
		AchievedDate: req.AchievedDate,
		Notes:        req.Notes,
	})
	if err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			pkg.WriteJSONError(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update goal %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to update user goal", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, goal, http.StatusOK)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func (handler *Handler) writeJSON(w http.ResponseWriter, v interface{}, status int) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}
