package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/nicksmock/workout-calendar/internal/workouts"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const authTokenHeader = "X-WC-TOKEN"

// Client is a typed consumer of the sessions REST API, for tooling
// that drives a calendar remotely.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// NewClientWithHTTPClient is meant for tests, to inject a stub transport.
func NewClientWithHTTPClient(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
	}
}

type apiError struct {
	Message string `json:"error"`
}

func (c *Client) ListSessions(ctx context.Context, limit int) ([]workouts.Session, error) {
	url := fmt.Sprintf("%s/api/workouts/sessions?limit=%d", c.baseURL, limit)
	var sessions []workouts.Session
	if err := c.do(ctx, http.MethodGet, url, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) GetSession(ctx context.Context, id int) (*workouts.Session, error) {
	url := fmt.Sprintf("%s/api/workouts/sessions/%d", c.baseURL, id)
	var session workouts.Session
	if err := c.do(ctx, http.MethodGet, url, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

type createSessionPayload struct {
	ScheduledDate     string  `json:"scheduledDate"`
	WeekNumber        int     `json:"weekNumber"`
	DayNumber         int     `json:"dayNumber"`
	WorkoutTemplateID *int    `json:"workoutTemplateId,omitempty"`
	SleepQuality      *int    `json:"sleepQuality,omitempty"`
	EnergyLevel       *int    `json:"energyLevel,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

func (c *Client) CreateSession(ctx context.Context, params workouts.CreateSessionParams) (*workouts.Session, error) {
	url := fmt.Sprintf("%s/api/workouts/sessions", c.baseURL)
	payload := createSessionPayload{
		ScheduledDate:     params.ScheduledDate.Format("2006-01-02"),
		WeekNumber:        params.WeekNumber,
		DayNumber:         params.DayNumber,
		WorkoutTemplateID: params.TemplateID,
		SleepQuality:      params.SleepQuality,
		EnergyLevel:       params.EnergyLevel,
		Notes:             params.Notes,
	}
	var session workouts.Session
	if err := c.do(ctx, http.MethodPost, url, payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

type updateSessionPayload struct {
	CompletedDate   *string `json:"completedDate,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	IsCompleted     *bool   `json:"isCompleted,omitempty"`
	SleepQuality    *int    `json:"sleepQuality,omitempty"`
	EnergyLevel     *int    `json:"energyLevel,omitempty"`
	SorenessLevel   *int    `json:"sorenessLevel,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	OverallRating   *int    `json:"overallRating,omitempty"`
}

func (c *Client) UpdateSession(ctx context.Context, id int, params workouts.UpdateSessionParams) (*workouts.Session, error) {
	url := fmt.Sprintf("%s/api/workouts/sessions/%d", c.baseURL, id)
	payload := updateSessionPayload{
		DurationMinutes: params.DurationMinutes,
		IsCompleted:     params.IsCompleted,
		SleepQuality:    params.SleepQuality,
		EnergyLevel:     params.EnergyLevel,
		SorenessLevel:   params.SorenessLevel,
		Notes:           params.Notes,
		OverallRating:   params.OverallRating,
	}
	if params.CompletedDate != nil {
		completedDate := params.CompletedDate.Format("2006-01-02")
		payload.CompletedDate = &completedDate
	}
	var session workouts.Session
	if err := c.do(ctx, http.MethodPut, url, payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) DeleteSession(ctx context.Context, id int) error {
	url := fmt.Sprintf("%s/api/workouts/sessions/%d", c.baseURL, id)
	return c.do(ctx, http.MethodDelete, url, nil, nil)
}

func (c *Client) do(ctx context.Context, method, url string, payload, dest interface{}) error {
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request payload: %w", err)
		}
		body = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(authTokenHeader, c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response bytes: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp apiError
		if err := json.Unmarshal(respBytes, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("api response %d: %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("api response %d: %s", resp.StatusCode, string(respBytes))
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, dest); err != nil {
		return fmt.Errorf("unmarshal response bytes: %w", err)
	}
	return nil
}
