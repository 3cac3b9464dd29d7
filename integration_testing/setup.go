package integration_testing

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/nicksmock/workout-calendar/internal"
	"github.com/nicksmock/workout-calendar/internal/config"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort = 9002
	serverHost = "localhost"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

type Suite struct {
	DB         *sql.DB
	dockerPool *dockertest.Pool
	server     *internal.Server
	teardown   []func()
}

func newSuite(ctx context.Context) (_ *Suite) {
	var err error
	suite := &Suite{
		teardown: make([]func(), 0),
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	redisPort, err := suite.redisSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}

	pgPort, err := suite.postgresSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}

	cfg := getTestConfig(redisPort, pgPort)
	suite.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             "test-version-info",
			RedisPassword:           "",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		suite.cleanup()
		log.Fatalf("new server: %s", err)
	}

	suite.server.Serve(ctx, cfg.Host, cfg.Port)

	return suite
}

func (s *Suite) cleanup() {
	if s.DB != nil {
		s.DB.Close()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
	if s.server != nil {
		s.server.GracefulShutdown()
	}
}

func getTestConfig(redisPort, postgresPort string) *config.Config {
	return &config.Config{
		Host:                        serverHost,
		Port:                        serverPort,
		RedisHost:                   "localhost",
		RedisPort:                   redisPort,
		PostgresPort:                postgresPort,
		PostgresHost:                "localhost",
		PostgresDBName:              "workout_calendar",
		PrometheusMetricsHost:       "localhost",
		PrometheusMetricsPort:       "2114",
		LoginRateLimitAllowedPerMin: 60,
	}
}

func (s *Suite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Name:       "redis-wc-test",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		redisResource.Close()
	})

	redisPort := redisResource.GetPort("6379/tcp")
	return redisPort, nil
}

func (s *Suite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "12",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_HOST_AUTH_METHOD=trust",
			"POSTGRES_DB=workout_calendar",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		pgResource.Close()
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres@localhost:%s/workout_calendar?sslmode=disable", pgPort)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return "", fmt.Errorf("open db conn: %s", err)
	}
	s.DB = db

	res, err := db.Exec(initSQL)
	if err != nil {
		return "", fmt.Errorf("run init script: %s", err)
	}

	numRows, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("get rows affected: %s", err)
	}

	log.Printf("postgres setup result: %d\n", numRows)

	if db.Ping() != nil {
		return "", fmt.Errorf("ping db: %s", err)
	}

	return pgPort, nil
}

const initSQL = `
CREATE TABLE public.users
(
    id            SERIAL PRIMARY KEY,
    username      VARCHAR NOT NULL UNIQUE,
    email         VARCHAR NOT NULL UNIQUE,
    password_hash VARCHAR NOT NULL,
    full_name     VARCHAR,
    is_active     BOOLEAN NOT NULL DEFAULT TRUE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    last_login    TIMESTAMPTZ
);

ALTER TABLE public.users OWNER TO postgres;

CREATE TABLE public.exercises
(
    id               SERIAL PRIMARY KEY,
    name             VARCHAR NOT NULL UNIQUE,
    category         VARCHAR NOT NULL,
    description      TEXT,
    equipment        VARCHAR,
    muscle_groups    VARCHAR,
    video_url        VARCHAR,
    difficulty_level VARCHAR,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

ALTER TABLE public.exercises OWNER TO postgres;

CREATE TABLE public.workout_templates
(
    id               SERIAL PRIMARY KEY,
    name             VARCHAR NOT NULL,
    description      TEXT,
    workout_type     VARCHAR NOT NULL,
    phase            VARCHAR,
    week_number      INTEGER,
    duration_minutes INTEGER,
    warm_up          TEXT,
    cool_down        TEXT,
    notes            TEXT,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

ALTER TABLE public.workout_templates OWNER TO postgres;

CREATE TABLE public.workout_template_exercises
(
    id                  SERIAL PRIMARY KEY,
    workout_template_id INTEGER NOT NULL REFERENCES public.workout_templates (id),
    exercise_id         INTEGER NOT NULL REFERENCES public.exercises (id),
    order_index         INTEGER NOT NULL DEFAULT 0,
    sets                INTEGER,
    reps                VARCHAR,
    rest_seconds        INTEGER,
    notes               TEXT
);

ALTER TABLE public.workout_template_exercises OWNER TO postgres;
CREATE INDEX ix_template_exercises_template ON public.workout_template_exercises (workout_template_id);

CREATE TABLE public.workout_sessions
(
    id                  SERIAL PRIMARY KEY,
    user_id             INTEGER NOT NULL REFERENCES public.users (id),
    workout_template_id INTEGER REFERENCES public.workout_templates (id),
    scheduled_date      DATE    NOT NULL,
    week_number         INTEGER NOT NULL,
    day_number          INTEGER NOT NULL,
    is_completed        BOOLEAN NOT NULL DEFAULT FALSE,
    completed_date      TIMESTAMPTZ,
    duration_minutes    INTEGER,
    sleep_quality       INTEGER,
    energy_level        INTEGER,
    soreness_level      INTEGER,
    overall_rating      INTEGER,
    notes               TEXT,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

ALTER TABLE public.workout_sessions OWNER TO postgres;
CREATE INDEX ix_workout_sessions_user ON public.workout_sessions (user_id);
CREATE INDEX ix_workout_sessions_slot ON public.workout_sessions (user_id, week_number, day_number);

CREATE TABLE public.exercise_logs
(
    id                 SERIAL PRIMARY KEY,
    workout_session_id INTEGER NOT NULL REFERENCES public.workout_sessions (id),
    exercise_id        INTEGER NOT NULL REFERENCES public.exercises (id),
    order_index        INTEGER NOT NULL DEFAULT 0,
    set_number         INTEGER NOT NULL,
    reps               INTEGER,
    weight_lbs         NUMERIC,
    duration_seconds   INTEGER,
    distance_meters    NUMERIC,
    rpe                INTEGER,
    notes              TEXT,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

ALTER TABLE public.exercise_logs OWNER TO postgres;
CREATE INDEX ix_exercise_logs_session ON public.exercise_logs (workout_session_id);
CREATE INDEX ix_exercise_logs_exercise ON public.exercise_logs (exercise_id);

CREATE TABLE public.progress_measurements
(
    id                  SERIAL PRIMARY KEY,
    user_id             INTEGER NOT NULL REFERENCES public.users (id),
    measurement_date    DATE NOT NULL,
    body_weight_lbs     NUMERIC,
    body_fat_percentage NUMERIC,
    chest_inches        NUMERIC,
    waist_inches        NUMERIC,
    hips_inches         NUMERIC,
    arms_inches         NUMERIC,
    thighs_inches       NUMERIC,
    notes               TEXT,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

ALTER TABLE public.progress_measurements OWNER TO postgres;
CREATE INDEX ix_progress_measurements_user ON public.progress_measurements (user_id);

CREATE TABLE public.user_goals
(
    id            SERIAL PRIMARY KEY,
    user_id       INTEGER NOT NULL REFERENCES public.users (id),
    goal_type     VARCHAR NOT NULL,
    target_value  NUMERIC NOT NULL,
    current_value NUMERIC,
    unit          VARCHAR NOT NULL,
    target_date   DATE NOT NULL,
    is_achieved   BOOLEAN NOT NULL DEFAULT FALSE,
    achieved_date TIMESTAMPTZ,
    notes         TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

ALTER TABLE public.user_goals OWNER TO postgres;
CREATE INDEX ix_user_goals_user ON public.user_goals (user_id);

INSERT INTO public.exercises (name, category, equipment, difficulty_level)
VALUES ('Back Squat', 'strength', 'barbell', 'intermediate'),
       ('Bench Press', 'strength', 'barbell', 'intermediate'),
       ('Plank', 'core', 'bodyweight', 'beginner');

INSERT INTO public.workout_templates (name, workout_type, phase, week_number, duration_minutes)
VALUES ('Lower Body Strength', 'strength', 'base', 1, 60);

INSERT INTO public.workout_template_exercises (workout_template_id, exercise_id, order_index, sets, reps, rest_seconds)
VALUES (1, 1, 0, 5, '5', 180),
       (1, 3, 1, 3, '60s', 60);
`
