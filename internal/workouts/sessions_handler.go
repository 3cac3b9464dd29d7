package workouts

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

//go:generate mockgen -source=$GOFILE -destination=sessions_mocks_test.go -package=workouts_test

type sessionsRepo interface {
	Create(ctx context.Context, params CreateSessionParams) (*Session, error)
	List(ctx context.Context, params ListSessionsParams) ([]Session, error)
	Get(ctx context.Context, id, userID int) (*Session, error)
	Update(ctx context.Context, id, userID int, params UpdateSessionParams) (*Session, error)
	Delete(ctx context.Context, id, userID int) error
	AddLog(ctx context.Context, userID int, params CreateLogParams) (*ExerciseLog, error)
	Ensure(ctx context.Context, params EnsureSessionParams) (*Session, bool, error)
}

type DeleteSessionResponse struct {
	DeletedID int `json:"deletedId"`
}

type SessionsHandler struct {
	repo    sessionsRepo
	metrics *metrics.Manager
}

func NewSessionsHandler(repo sessionsRepo, metricsManager *metrics.Manager) *SessionsHandler {
	return &SessionsHandler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *SessionsHandler) SetupRoutes(router *mux.Router) {
	sessionsRouter := router.PathPrefix("/workouts/sessions").Subrouter()
	sessionsRouter.HandleFunc("", handler.HandleList).Methods("GET").Name("sessions-list")
	sessionsRouter.HandleFunc("", handler.HandleCreate).Methods("POST", "OPTIONS").Name("sessions-create")
	sessionsRouter.HandleFunc("/ensure", handler.HandleEnsure).Methods("PUT", "OPTIONS").Name("sessions-ensure")
	sessionsRouter.HandleFunc("/{id}", handler.HandleGet).Methods("GET").Name("sessions-get")
	sessionsRouter.HandleFunc("/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("sessions-update")
	sessionsRouter.HandleFunc("/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("sessions-delete")
	sessionsRouter.HandleFunc("/{sessionId}/exercises", handler.HandleAddLog).Methods("POST", "OPTIONS").Name("sessions-log-exercise")
}

type createSessionRequest struct {
	WorkoutTemplateID *int    `json:"workoutTemplateId"`
	ScheduledDate     string  `json:"scheduledDate"`
	WeekNumber        int     `json:"weekNumber"`
	DayNumber         *int    `json:"dayNumber"`
	SleepQuality      *int    `json:"sleepQuality"`
	EnergyLevel       *int    `json:"energyLevel"`
	Notes             *string `json:"notes"`
}

type updateSessionRequest struct {
	CompletedDate   *time.Time `json:"completedDate"`
	DurationMinutes *int       `json:"durationMinutes"`
	IsCompleted     *bool      `json:"isCompleted"`
	SleepQuality    *int       `json:"sleepQuality"`
	EnergyLevel     *int       `json:"energyLevel"`
	SorenessLevel   *int       `json:"sorenessLevel"`
	Notes           *string    `json:"notes"`
	OverallRating   *int       `json:"overallRating"`
}

func (r updateSessionRequest) toParams() UpdateSessionParams {
	return UpdateSessionParams{
		CompletedDate:   r.CompletedDate,
		DurationMinutes: r.DurationMinutes,
		IsCompleted:     r.IsCompleted,
		SleepQuality:    r.SleepQuality,
		EnergyLevel:     r.EnergyLevel,
		SorenessLevel:   r.SorenessLevel,
		Notes:           r.Notes,
		OverallRating:   r.OverallRating,
	}
}

// parseScheduledDate accepts plain dates and full timestamps.
func parseScheduledDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func validSlot(week int, day *int) bool {
	return week >= 1 && week <= 12 && day != nil && *day >= 0 && *day <= 6
}

func (handler *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.createSession")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("create session, unmarshal json params: %s", err)
		http.Error(w, "create session failed", http.StatusBadRequest)
		return
	}

	if req.ScheduledDate == "" {
		pkg.WriteJSONError(w, "scheduled date is required", http.StatusBadRequest)
		return
	}
	scheduledDate, err := parseScheduledDate(req.ScheduledDate)
	if err != nil {
		pkg.WriteJSONError(w, "invalid scheduled date", http.StatusBadRequest)
		return
	}
	if !validSlot(req.WeekNumber, req.DayNumber) {
		pkg.WriteJSONError(w, "week number must be 1-12 and day number 0-6", http.StatusBadRequest)
		return
	}

	session, err := handler.repo.Create(ctx, CreateSessionParams{
		UserID:        userID,
		TemplateID:    req.WorkoutTemplateID,
		ScheduledDate: scheduledDate,
		WeekNumber:    req.WeekNumber,
		DayNumber:     *req.DayNumber,
		SleepQuality:  req.SleepQuality,
		EnergyLevel:   req.EnergyLevel,
		Notes:         req.Notes,
	})
	if err != nil {
		log.Errorf("failed to create session [week %d day %d]: %s", req.WeekNumber, *req.DayNumber, err)
		if pkg.IsForeignKeyViolationError(err) {
			pkg.WriteJSONError(w, "unknown workout template", http.StatusBadRequest)
			return
		}
		pkg.WriteJSONError(w, "failed to create workout session", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterSessionsCreated.Inc()
	log.Debugf("new session created [week %d day %d]: %d", session.WeekNumber, session.DayNumber, session.ID)

	handler.writeSessionJSON(w, session, http.StatusCreated)
}

func (handler *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.listSessions")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	params := ListSessionsParams{UserID: userID}
	query := r.URL.Query()
	if weekStr := query.Get("week"); weekStr != "" {
		week, err := strconv.Atoi(weekStr)
		if err != nil {
			pkg.WriteJSONError(w, "parameter <week> must be a number", http.StatusBadRequest)
			return
		}
		params.Week = &week
	}
	if completedStr := query.Get("isCompleted"); completedStr != "" {
		completed := completedStr == "true"
		params.IsCompleted = &completed
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			pkg.WriteJSONError(w, "parameter <limit> must be a number", http.StatusBadRequest)
			return
		}
		params.Limit = limit
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			pkg.WriteJSONError(w, "parameter <offset> must be a number", http.StatusBadRequest)
			return
		}
		params.Offset = offset
	}

	sessions, err := handler.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list sessions error: %s", err)
		pkg.WriteJSONError(w, "failed to get workout sessions", http.StatusInternalServerError)
		return
	}

	sessionsJson, err := json.Marshal(sessions)
	if err != nil {
		log.Errorf("marshal sessions error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionsJson, http.StatusOK)
}

func (handler *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.getSession")
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

	session, err := handler.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteJSONError(w, "workout session not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get session %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to get workout session", http.StatusInternalServerError)
		return
	}

	handler.writeSessionJSON(w, session, http.StatusOK)
}

func (handler *SessionsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.updateSession")
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

	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update session, unmarshal json params: %s", err)
		http.Error(w, "update session failed", http.StatusBadRequest)
		return
	}

	session, err := handler.repo.Update(ctx, id, userID, req.toParams())
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteJSONError(w, "workout session not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update session %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to update workout session", http.StatusInternalServerError)
		return
	}

	handler.writeSessionJSON(w, session, http.StatusOK)
}

func (handler *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.deleteSession")
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

	if err := handler.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteJSONError(w, "workout session not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete session %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to delete workout session", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteSessionResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

type addLogRequest struct {
	ExerciseID      *int     `json:"exerciseId"`
	OrderIndex      *int     `json:"orderIndex"`
	SetNumber       *int     `json:"setNumber"`
	Reps            *int     `json:"reps"`
	WeightLbs       *float64 `json:"weightLbs"`
	DurationSeconds *int     `json:"durationSeconds"`
	DistanceMeters  *float64 `json:"distanceMeters"`
	RPE             *int     `json:"rpe"`
	Notes           *string  `json:"notes"`
}

func (handler *SessionsHandler) HandleAddLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.addLog")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	sessionID, err := strconv.Atoi(mux.Vars(r)["sessionId"])
	if err != nil {
		http.Error(w, "error, session id NaN", http.StatusBadRequest)
		return
	}

	var req addLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("log exercise, unmarshal json params: %s", err)
		http.Error(w, "log exercise failed", http.StatusBadRequest)
		return
	}

	if req.ExerciseID == nil || req.OrderIndex == nil || req.SetNumber == nil {
		pkg.WriteJSONError(w, "exercise id, order index and set number are required", http.StatusBadRequest)
		return
	}
	if *req.SetNumber < 1 || *req.OrderIndex < 0 {
		pkg.WriteJSONError(w, "set number must be >= 1 and order index >= 0", http.StatusBadRequest)
		return
	}

	exerciseLog, err := handler.repo.AddLog(ctx, userID, CreateLogParams{
		SessionID:       sessionID,
		ExerciseID:      *req.ExerciseID,
		OrderIndex:      *req.OrderIndex,
		SetNumber:       *req.SetNumber,
		Reps:            req.Reps,
		WeightLbs:       req.WeightLbs,
		DurationSeconds: req.DurationSeconds,
		DistanceMeters:  req.DistanceMeters,
		RPE:             req.RPE,
		Notes:           req.Notes,
	})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteJSONError(w, "workout session not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to log exercise for session %d: %s", sessionID, err)
		if pkg.IsForeignKeyViolationError(err) {
			pkg.WriteJSONError(w, "unknown exercise", http.StatusBadRequest)
			return
		}
		pkg.WriteJSONError(w, "failed to log exercise", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterExerciseSetsLogged.Inc()

	logJson, err := json.Marshal(exerciseLog)
	if err != nil {
		log.Errorf("failed to marshal exercise log: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, logJson, http.StatusCreated)
}

type ensureSessionRequest struct {
	WeekNumber        int    `json:"weekNumber"`
	DayNumber         *int   `json:"dayNumber"`
	ScheduledDate     string `json:"scheduledDate"`
	WorkoutTemplateID *int   `json:"workoutTemplateId"`
	updateSessionRequest
}

// HandleEnsure is the idempotent find-or-create for a (week, day)
// program slot: it updates the slot's session when one exists,
// otherwise creates it with the given scheduled date.
func (handler *SessionsHandler) HandleEnsure(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.ensureSession")
	defer span.End()

	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req ensureSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("ensure session, unmarshal json params: %s", err)
		http.Error(w, "ensure session failed", http.StatusBadRequest)
		return
	}

	if !validSlot(req.WeekNumber, req.DayNumber) {
		pkg.WriteJSONError(w, "week number must be 1-12 and day number 0-6", http.StatusBadRequest)
		return
	}

	scheduledDate := ScheduledDateFor(time.Now(), req.WeekNumber, *req.DayNumber)
	if req.ScheduledDate != "" {
		parsed, err := parseScheduledDate(req.ScheduledDate)
		if err != nil {
			pkg.WriteJSONError(w, "invalid scheduled date", http.StatusBadRequest)
			return
		}
		scheduledDate = parsed
	}

	session, created, err := handler.repo.Ensure(ctx, EnsureSessionParams{
		UserID:        userID,
		WeekNumber:    req.WeekNumber,
		DayNumber:     *req.DayNumber,
		ScheduledDate: scheduledDate,
		TemplateID:    req.WorkoutTemplateID,
		Update:        req.toParams(),
	})
	if err != nil {
		log.Errorf("failed to ensure session [week %d day %d]: %s", req.WeekNumber, *req.DayNumber, err)
		pkg.WriteJSONError(w, "failed to ensure workout session", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if created {
		handler.metrics.CounterSessionsCreated.Inc()
		status = http.StatusCreated
	}
	handler.writeSessionJSON(w, session, status)
}

// ScheduledDateFor computes the calendar date of a program slot
// relative to the Monday of the current week.
func ScheduledDateFor(now time.Time, week, day int) time.Time {
	weekday := int(now.Weekday()+6) % 7 // Monday = 0
	monday := now.AddDate(0, 0, -weekday)
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
	return monday.AddDate(0, 0, (week-1)*7+day)
}

func (handler *SessionsHandler) writeSessionJSON(w http.ResponseWriter, session *Session, status int) {
	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("failed to marshal session: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, status)
}
