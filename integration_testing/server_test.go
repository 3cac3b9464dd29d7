//go:build integration_test || all_tests

package integration_testing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t     *testing.T
	token string
}

func (c *apiClient) do(method, path string, body interface{}) (int, []byte) {
	c.t.Helper()

	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(c.t, err)
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, serverEndpoint+path, reqBody)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("X-WC-TOKEN", c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, respBytes
}

func (c *apiClient) doJSON(method, path string, body, dest interface{}, wantStatus int) {
	c.t.Helper()
	status, respBytes := c.do(method, path, body)
	require.Equal(c.t, wantStatus, status, "unexpected status for %s %s: %s", method, path, string(respBytes))
	if dest != nil {
		require.NoError(c.t, json.Unmarshal(respBytes, dest))
	}
}

func registerAndLogin(t *testing.T, client *apiClient, username string) {
	t.Helper()
	var registerResp struct {
		Token string `json:"token"`
	}
	client.doJSON("POST", "/api/auth/register", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cret-pass",
	}, &registerResp, http.StatusCreated)
	require.NotEmpty(t, registerResp.Token)
	client.token = registerResp.Token
}

func TestServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	suite := newSuite(ctx)
	defer suite.cleanup()

	// wait for the server to come up
	require.Eventually(t, func() bool {
		resp, err := http.Get(serverEndpoint + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 200*time.Millisecond)

	t.Run("health", func(t *testing.T) {
		client := &apiClient{t: t}
		var health struct {
			Status string `json:"status"`
		}
		client.doJSON("GET", "/health", nil, &health, http.StatusOK)
		assert.Equal(t, "ok", health.Status)
	})

	t.Run("auth required", func(t *testing.T) {
		client := &apiClient{t: t}
		status, _ := client.do("GET", "/api/workouts/sessions", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("register login profile", func(t *testing.T) {
		client := &apiClient{t: t}
		registerAndLogin(t, client, "wanda")

		var profile struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		}
		client.doJSON("GET", "/api/auth/profile", nil, &profile, http.StatusOK)
		assert.Equal(t, "wanda", profile.Username)
		assert.Equal(t, "wanda@example.com", profile.Email)

		// duplicate registration
		status, _ := client.do("POST", "/api/auth/register", map[string]interface{}{
			"username": "wanda",
			"email":    "wanda@example.com",
			"password": "whatever",
		})
		assert.Equal(t, http.StatusConflict, status)

		// fresh login with the registered credentials
		var loginResp struct {
			Token string `json:"token"`
		}
		client.doJSON("POST", "/api/auth/login", map[string]interface{}{
			"username": "wanda",
			"password": "s3cret-pass",
		}, &loginResp, http.StatusOK)
		assert.NotEmpty(t, loginResp.Token)

		status, _ = client.do("POST", "/api/auth/login", map[string]interface{}{
			"username": "wanda",
			"password": "wrong-pass",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("templates and exercises", func(t *testing.T) {
		client := &apiClient{t: t}
		registerAndLogin(t, client, "tina")

		var templates []struct {
			ID          int    `json:"id"`
			Name        string `json:"name"`
			WorkoutType string `json:"workoutType"`
		}
		client.doJSON("GET", "/api/workouts/templates", nil, &templates, http.StatusOK)
		require.Len(t, templates, 1)
		assert.Equal(t, "Lower Body Strength", templates[0].Name)

		var template struct {
			ID        int `json:"id"`
			Exercises []struct {
				ExerciseName string `json:"exerciseName"`
				OrderIndex   int    `json:"orderIndex"`
			} `json:"exercises"`
		}
		client.doJSON("GET", fmt.Sprintf("/api/workouts/templates/%d", templates[0].ID), nil, &template, http.StatusOK)
		require.Len(t, template.Exercises, 2)
		assert.Equal(t, "Back Squat", template.Exercises[0].ExerciseName)

		var exercises []struct {
			Name     string `json:"name"`
			Category string `json:"category"`
		}
		client.doJSON("GET", "/api/workouts/exercises?category=core", nil, &exercises, http.StatusOK)
		require.Len(t, exercises, 1)
		assert.Equal(t, "Plank", exercises[0].Name)
	})

	t.Run("session lifecycle", func(t *testing.T) {
		client := &apiClient{t: t}
		registerAndLogin(t, client, "sergei")

		var session struct {
			ID            int     `json:"id"`
			WeekNumber    int     `json:"weekNumber"`
			DayNumber     int     `json:"dayNumber"`
			IsCompleted   bool    `json:"isCompleted"`
			CompletedDate *string `json:"completedDate"`
			SleepQuality  *int    `json:"sleepQuality"`
			Notes         *string `json:"notes"`
		}
		client.doJSON("POST", "/api/workouts/sessions", map[string]interface{}{
			"scheduledDate": "2024-01-08",
			"weekNumber":    1,
			"dayNumber":     0,
		}, &session, http.StatusCreated)
		assert.False(t, session.IsCompleted)
		sessionID := session.ID

		// out-of-range slot
		status, _ := client.do("POST", "/api/workouts/sessions", map[string]interface{}{
			"scheduledDate": "2024-01-08",
			"weekNumber":    13,
			"dayNumber":     0,
		})
		assert.Equal(t, http.StatusBadRequest, status)

		// merge patch: completing leaves other fields untouched
		client.doJSON("PUT", fmt.Sprintf("/api/workouts/sessions/%d", sessionID), map[string]interface{}{
			"isCompleted":  true,
			"sleepQuality": 4,
		}, &session, http.StatusOK)
		assert.True(t, session.IsCompleted)
		require.NotNil(t, session.SleepQuality)
		assert.Equal(t, 4, *session.SleepQuality)

		notes := "felt strong"
		client.doJSON("PUT", fmt.Sprintf("/api/workouts/sessions/%d", sessionID), map[string]interface{}{
			"notes": notes,
		}, &session, http.StatusOK)
		assert.True(t, session.IsCompleted, "notes-only update kept is_completed")
		require.NotNil(t, session.Notes)
		assert.Equal(t, notes, *session.Notes)

		// log a couple of sets
		var logEntry struct {
			ID        int      `json:"id"`
			SetNumber int      `json:"setNumber"`
			WeightLbs *float64 `json:"weightLbs"`
		}
		client.doJSON("POST", fmt.Sprintf("/api/workouts/sessions/%d/exercises", sessionID), map[string]interface{}{
			"exerciseId": 1,
			"orderIndex": 0,
			"setNumber":  1,
			"reps":       5,
			"weightLbs":  185.0,
		}, &logEntry, http.StatusCreated)
		assert.Equal(t, 1, logEntry.SetNumber)

		client.doJSON("POST", fmt.Sprintf("/api/workouts/sessions/%d/exercises", sessionID), map[string]interface{}{
			"exerciseId":      3,
			"orderIndex":      1,
			"setNumber":       1,
			"durationSeconds": 60,
		}, &logEntry, http.StatusCreated)

		var sessionWithLogs struct {
			ID           int `json:"id"`
			ExerciseLogs []struct {
				ExerciseName string `json:"exerciseName"`
			} `json:"exerciseLogs"`
		}
		client.doJSON("GET", fmt.Sprintf("/api/workouts/sessions/%d", sessionID), nil, &sessionWithLogs, http.StatusOK)
		require.Len(t, sessionWithLogs.ExerciseLogs, 2)
		assert.Equal(t, "Back Squat", sessionWithLogs.ExerciseLogs[0].ExerciseName)

		// another user cannot touch it
		otherClient := &apiClient{t: t}
		registerAndLogin(t, otherClient, "mallory")
		status, _ = otherClient.do("GET", fmt.Sprintf("/api/workouts/sessions/%d", sessionID), nil)
		assert.Equal(t, http.StatusNotFound, status)
		status, _ = otherClient.do("POST", fmt.Sprintf("/api/workouts/sessions/%d/exercises", sessionID), map[string]interface{}{
			"exerciseId": 1,
			"orderIndex": 0,
			"setNumber":  1,
		})
		assert.Equal(t, http.StatusNotFound, status)
		status, _ = otherClient.do("DELETE", fmt.Sprintf("/api/workouts/sessions/%d", sessionID), nil)
		assert.Equal(t, http.StatusNotFound, status)

		// delete cascades the logs
		var deleteResp struct {
			DeletedID int `json:"deletedId"`
		}
		client.doJSON("DELETE", fmt.Sprintf("/api/workouts/sessions/%d", sessionID), nil, &deleteResp, http.StatusOK)
		assert.Equal(t, sessionID, deleteResp.DeletedID)

		status, _ = client.do("GET", fmt.Sprintf("/api/workouts/sessions/%d", sessionID), nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("ensure session slot", func(t *testing.T) {
		client := &apiClient{t: t}
		registerAndLogin(t, client, "erik")

		var ensured struct {
			ID          int  `json:"id"`
			WeekNumber  int  `json:"weekNumber"`
			DayNumber   int  `json:"dayNumber"`
			IsCompleted bool `json:"isCompleted"`
		}
		status, respBytes := client.do("PUT", "/api/workouts/sessions/ensure", map[string]interface{}{
			"weekNumber": 2,
			"dayNumber":  3,
		})
		require.Equal(t, http.StatusCreated, status, string(respBytes))
		require.NoError(t, json.Unmarshal(respBytes, &ensured))
		firstID := ensured.ID

		status, respBytes = client.do("PUT", "/api/workouts/sessions/ensure", map[string]interface{}{
			"weekNumber":  2,
			"dayNumber":   3,
			"isCompleted": true,
		})
		require.Equal(t, http.StatusOK, status, string(respBytes))
		require.NoError(t, json.Unmarshal(respBytes, &ensured))
		assert.Equal(t, firstID, ensured.ID)
		assert.True(t, ensured.IsCompleted)
	})

	t.Run("progress reporting", func(t *testing.T) {
		client := &apiClient{t: t}
		registerAndLogin(t, client, "petra")

		var session struct {
			ID int `json:"id"`
		}
		client.doJSON("POST", "/api/workouts/sessions", map[string]interface{}{
			"scheduledDate": "2024-01-08",
			"weekNumber":    1,
			"dayNumber":     0,
		}, &session, http.StatusCreated)
		client.doJSON("PUT", fmt.Sprintf("/api/workouts/sessions/%d", session.ID), map[string]interface{}{
			"isCompleted":     true,
			"durationMinutes": 45,
			"sleepQuality":    4,
		}, nil, http.StatusOK)
		client.doJSON("POST", fmt.Sprintf("/api/workouts/sessions/%d/exercises", session.ID), map[string]interface{}{
			"exerciseId": 2,
			"orderIndex": 0,
			"setNumber":  1,
			"reps":       5,
			"weightLbs":  135.0,
		}, nil, http.StatusCreated)

		var stats struct {
			TotalWorkouts     int      `json:"totalWorkouts"`
			CompletedWorkouts int      `json:"completedWorkouts"`
			TotalMinutes      *int     `json:"totalMinutes"`
			AvgSleepQuality   *float64 `json:"avgSleepQuality"`
			UniqueExercises   int      `json:"uniqueExercises"`
		}
		client.doJSON("GET", "/api/progress/stats", nil, &stats, http.StatusOK)
		assert.Equal(t, 1, stats.TotalWorkouts)
		assert.Equal(t, 1, stats.CompletedWorkouts)
		assert.Equal(t, 1, stats.UniqueExercises)
		require.NotNil(t, stats.TotalMinutes)
		assert.Equal(t, 45, *stats.TotalMinutes)

		var weekly []struct {
			WeekNumber    int `json:"weekNumber"`
			TotalSessions int `json:"totalSessions"`
		}
		client.doJSON("GET", "/api/progress/weekly", nil, &weekly, http.StatusOK)
		require.Len(t, weekly, 1)
		assert.Equal(t, 1, weekly[0].WeekNumber)

		var records struct {
			WeightRecords []struct {
				ExerciseName string   `json:"exerciseName"`
				MaxWeight    *float64 `json:"maxWeight"`
			} `json:"weightRecords"`
		}
		client.doJSON("GET", "/api/progress/records", nil, &records, http.StatusOK)
		require.Len(t, records.WeightRecords, 1)
		assert.Equal(t, "Bench Press", records.WeightRecords[0].ExerciseName)

		var entries []struct {
			SetNumber int `json:"setNumber"`
		}
		client.doJSON("GET", "/api/progress/exercises/2", nil, &entries, http.StatusOK)
		require.Len(t, entries, 1)
	})

	t.Run("goals and measurements", func(t *testing.T) {
		client := &apiClient{t: t}
		registerAndLogin(t, client, "greta")

		var goal struct {
			ID           int      `json:"id"`
			TargetValue  float64  `json:"targetValue"`
			CurrentValue *float64 `json:"currentValue"`
			IsAchieved   bool     `json:"isAchieved"`
		}
		client.doJSON("POST", "/api/progress/goals", map[string]interface{}{
			"goalType":    "strength",
			"targetValue": 50,
			"unit":        "lbs",
			"targetDate":  "2024-06-01",
		}, &goal, http.StatusCreated)
		assert.False(t, goal.IsAchieved)
		goalID := goal.ID

		// current value only, target and achieved state survive
		client.doJSON("PUT", fmt.Sprintf("/api/progress/goals/%d", goalID), map[string]interface{}{
			"currentValue": 45,
		}, &goal, http.StatusOK)
		require.NotNil(t, goal.CurrentValue)
		assert.Equal(t, 45.0, *goal.CurrentValue)
		assert.Equal(t, 50.0, goal.TargetValue)
		assert.False(t, goal.IsAchieved)

		status, _ := client.do("PUT", "/api/progress/goals/999999", map[string]interface{}{
			"currentValue": 1,
		})
		assert.Equal(t, http.StatusNotFound, status)

		var measurement struct {
			ID            int      `json:"id"`
			BodyWeightLbs *float64 `json:"bodyWeightLbs"`
		}
		client.doJSON("POST", "/api/progress/measurements", map[string]interface{}{
			"measurementDate": "2024-01-15",
			"bodyWeightLbs":   182.5,
		}, &measurement, http.StatusCreated)
		require.NotNil(t, measurement.BodyWeightLbs)

		var measurements []struct {
			ID int `json:"id"`
		}
		client.doJSON("GET", "/api/progress/measurements", nil, &measurements, http.StatusOK)
		require.Len(t, measurements, 1)
	})

	t.Run("logout", func(t *testing.T) {
		client := &apiClient{t: t}
		registerAndLogin(t, client, "lara")

		client.doJSON("GET", "/api/auth/profile", nil, nil, http.StatusOK)

		status, _ := client.do("POST", "/api/auth/logout", nil)
		require.Equal(t, http.StatusOK, status)

		status, _ = client.do("GET", "/api/auth/profile", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}
