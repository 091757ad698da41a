package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"checkers/internal/server/core"
	"checkers/internal/server/processor"
	"checkers/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, think time.Duration) *fiber.App {
	t.Helper()
	svc := service.New(nil)
	proc := processor.New(svc, processor.Config{Workers: 1, ThinkTime: think, ChainDelay: think})
	t.Cleanup(func() {
		proc.Close()
		svc.Shutdown(time.Second)
	})
	return NewFiberApp(proc, svc, true)
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createGame(t *testing.T, app *fiber.App) core.GameResponse {
	t.Helper()
	resp, data := do(t, app, fiber.MethodPost, "/api/v1/games", core.CreateGameRequest{Difficulty: "easy", Seed: 3})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))

	var g core.GameResponse
	require.NoError(t, json.Unmarshal(data, &g))
	return g
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, time.Hour)

	resp, data := do(t, app, fiber.MethodGet, "/health", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disabled", body["storage"])
}

func TestCreateAndGetGame(t *testing.T) {
	app := newTestApp(t, time.Hour)
	g := createGame(t, app)

	assert.Equal(t, "easy", g.Difficulty)
	assert.Equal(t, "player", g.Turn)
	assert.Len(t, g.Pieces, 24)

	resp, data := do(t, app, fiber.MethodGet, "/api/v1/games/"+g.GameID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fetched core.GameResponse
	require.NoError(t, json.Unmarshal(data, &fetched))
	assert.Equal(t, g.GameID, fetched.GameID)
	assert.Equal(t, g.Version, fetched.Version)

	resp, data = do(t, app, fiber.MethodGet, "/api/v1/games/"+g.GameID+"/board", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var b core.BoardResponse
	require.NoError(t, json.Unmarshal(data, &b))
	assert.Contains(t, b.Board, "0 1 2 3 4 5 6 7")
}

func TestCreateGameDefaultsToMedium(t *testing.T) {
	app := newTestApp(t, time.Hour)

	resp, data := do(t, app, fiber.MethodPost, "/api/v1/games", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))

	var g core.GameResponse
	require.NoError(t, json.Unmarshal(data, &g))
	assert.Equal(t, "medium", g.Difficulty)
}

func TestValidationFailures(t *testing.T) {
	app := newTestApp(t, time.Hour)
	g := createGame(t, app)
	base := "/api/v1/games/" + g.GameID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"bad difficulty", fiber.MethodPost, "/api/v1/games", map[string]any{"difficulty": "brutal"}, fiber.StatusBadRequest},
		{"missing row", fiber.MethodPost, base + "/moves", map[string]any{"pieceId": 13, "col": 1}, fiber.StatusBadRequest},
		{"row out of range", fiber.MethodPost, base + "/moves", map[string]any{"pieceId": 13, "row": 8, "col": 1}, fiber.StatusBadRequest},
		{"zero piece", fiber.MethodPost, base + "/select", map[string]any{"pieceId": 0}, fiber.StatusBadRequest},
		{"difficulty required", fiber.MethodPut, base + "/difficulty", map[string]any{}, fiber.StatusBadRequest},
		{"invalid game id", fiber.MethodGet, "/api/v1/games/not-a-uuid", nil, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(data))

			var e core.ErrorResponse
			require.NoError(t, json.Unmarshal(data, &e))
			assert.Equal(t, core.ErrInvalidRequest, e.Code)
		})
	}
}

func TestContentType(t *testing.T) {
	app := newTestApp(t, time.Hour)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/games", bytes.NewBufferString("difficulty=easy"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t, time.Hour)
	missing := "/api/v1/games/6f1c1c1e-1234-4c4c-9a9a-0123456789ab"

	resp, _ := do(t, app, fiber.MethodGet, missing, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, fiber.MethodDelete, missing, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	g := createGame(t, app)
	resp, data := do(t, app, fiber.MethodPost, "/api/v1/games/"+g.GameID+"/select", core.SelectRequest{PieceID: 77})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var e core.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &e))
	assert.Equal(t, core.ErrPieceNotFound, e.Code)
}

func TestSelectAndMove(t *testing.T) {
	app := newTestApp(t, time.Hour)
	g := createGame(t, app)
	base := "/api/v1/games/" + g.GameID

	resp, data := do(t, app, fiber.MethodPost, base+"/select", core.SelectRequest{PieceID: 13})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	var sel core.SelectResponse
	require.NoError(t, json.Unmarshal(data, &sel))
	assert.Equal(t, []core.Destination{{Row: 4, Col: 1}}, sel.Destinations)

	row, col := 3, 2
	resp, data = do(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{PieceID: 13, Row: &row, Col: &col})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, string(data))

	row, col = 4, 1
	resp, data = do(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{PieceID: 13, Row: &row, Col: &col})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))

	var moved core.GameResponse
	require.NoError(t, json.Unmarshal(data, &moved))
	assert.True(t, moved.Pending)
	assert.Equal(t, "computer", moved.Turn)
	require.NotNil(t, moved.LastMove)
	assert.Equal(t, "turn_ended", moved.LastMove.Outcome)

	// Computer is thinking for an hour
	row, col = 4, 3
	resp, _ = do(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{PieceID: 14, Row: &row, Col: &col})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRestartAndDifficulty(t *testing.T) {
	app := newTestApp(t, time.Hour)
	g := createGame(t, app)
	base := "/api/v1/games/" + g.GameID

	resp, data := do(t, app, fiber.MethodPut, base+"/difficulty", core.DifficultyRequest{Difficulty: "hard"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	var updated core.GameResponse
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, "hard", updated.Difficulty)

	resp, data = do(t, app, fiber.MethodPost, base+"/restart", core.RestartRequest{ResetScores: true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	var restarted core.GameResponse
	require.NoError(t, json.Unmarshal(data, &restarted))
	assert.Equal(t, 2, restarted.Match)
	assert.Equal(t, "hard", restarted.Difficulty)

	resp, _ = do(t, app, fiber.MethodDelete, base, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, app, fiber.MethodGet, base, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLongPollReturnsAfterComputerStep(t *testing.T) {
	app := newTestApp(t, 20*time.Millisecond)
	g := createGame(t, app)
	base := "/api/v1/games/" + g.GameID

	row, col := 4, 1
	resp, data := do(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{PieceID: 13, Row: &row, Col: &col})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	var moved core.GameResponse
	require.NoError(t, json.Unmarshal(data, &moved))

	deadline := time.Now().Add(3 * time.Second)
	version := moved.Version
	for time.Now().Before(deadline) {
		resp, data = do(t, app, fiber.MethodGet, base+"?wait=true&version="+strconv.Itoa(version), nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var current core.GameResponse
		require.NoError(t, json.Unmarshal(data, &current))
		if current.Turn == "player" && !current.Pending {
			require.NotNil(t, current.LastMove)
			assert.Equal(t, "computer", current.LastMove.Owner)
			assert.Greater(t, current.Version, moved.Version)
			return
		}
		version = current.Version
	}
	t.Fatal("computer never replied")
}
