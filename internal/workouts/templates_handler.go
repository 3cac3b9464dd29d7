package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/nicksmock/workout-calendar/internal/telemetry/tracing"
	"github.com/nicksmock/workout-calendar/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=templates_mocks_test.go -package=workouts_test

type templatesRepo interface {
	ListTemplates(ctx context.Context) ([]Template, error)
	GetTemplate(ctx context.Context, id int) (*Template, error)
	ListExercises(ctx context.Context, params ListExercisesParams) ([]Exercise, error)
}

type TemplatesHandler struct {
	repo templatesRepo
}

func NewTemplatesHandler(repo templatesRepo) *TemplatesHandler {
	return &TemplatesHandler{
		repo: repo,
	}
}

func (handler *TemplatesHandler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/workouts/templates", handler.HandleListTemplates).Methods("GET").Name("templates-list")
	router.HandleFunc("/workouts/templates/{id}", handler.HandleGetTemplate).Methods("GET").Name("templates-get")
	router.HandleFunc("/workouts/exercises", handler.HandleListExercises).Methods("GET").Name("exercises-list")
}

func (handler *TemplatesHandler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.listTemplates")
	defer span.End()

	templates, err := handler.repo.ListTemplates(ctx)
	if err != nil {
		log.Errorf("list templates error: %s", err)
		pkg.WriteJSONError(w, "failed to fetch workout templates", http.StatusInternalServerError)
		return
	}

	templatesJson, err := json.Marshal(templates)
	if err != nil {
		log.Errorf("marshal templates error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, templatesJson, http.StatusOK)
}

func (handler *TemplatesHandler) HandleGetTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.getTemplate")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	template, err := handler.repo.GetTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			pkg.WriteJSONError(w, "workout template not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get template %d: %s", id, err)
		pkg.WriteJSONError(w, "failed to fetch workout template", http.StatusInternalServerError)
		return
	}

	templateJson, err := json.Marshal(template)
	if err != nil {
		log.Errorf("failed to marshal template: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, templateJson, http.StatusOK)
}

func (handler *TemplatesHandler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.listExercises")
	defer span.End()

	exercises, err := handler.repo.ListExercises(ctx, ListExercisesParams{
		Category:   r.URL.Query().Get("category"),
		Difficulty: r.URL.Query().Get("difficulty"),
	})
	if err != nil {
		log.Errorf("list exercises error: %s", err)
		pkg.WriteJSONError(w, "failed to fetch exercises", http.StatusInternalServerError)
		return
	}

	exercisesJson, err := json.Marshal(exercises)
	if err != nil {
		log.Errorf("marshal exercises error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exercisesJson, http.StatusOK)
}
