package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
)

// newTestApp wires the REST routes the way cmd/server does, minus the
// store and the socket endpoints.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	gm := service.NewGameManager(nil, time.Hour)
	t.Cleanup(gm.Stop)
	gc := NewGameController(service.NewGameService(gm))

	app := fiber.New()
	api := app.Group("/api", middleware.EnsurePlayerID())
	api.Get("/stats", gc.GetStats)

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gc.JoinMatchmaking)
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Post("/join/:gameId", gc.JoinGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, playerID string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var fields map[string]json.RawMessage
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	resp.Body.Close()
	if len(data) > 0 {
		if err := json.Unmarshal(data, &fields); err != nil {
			t.Fatalf("response is not a JSON object: %v\n%s", err, data)
		}
	}
	return resp, fields
}

func stringField(t *testing.T, fields map[string]json.RawMessage, key string) string {
	t.Helper()
	raw, ok := fields[key]
	if !ok {
		t.Fatalf("response has no %q field", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("field %q is not a string: %s", key, raw)
	}
	return s
}

func TestCreateGame(t *testing.T) {
	app := newTestApp(t)

	resp, fields := doRequest(t, app, "POST", "/api/game/create", "p1", nil)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusOK)
	if stringField(t, fields, "game_id") == "" {
		t.Error("expected a game ID")
	}
}

func TestCreateComputerGame(t *testing.T) {
	app := newTestApp(t)

	resp, fields := doRequest(t, app, "POST", "/api/game/create", "p1",
		map[string]any{"vsComputer": true, "color": "white"})
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusOK)
	gameID := stringField(t, fields, "game_id")

	// The engine holds black, so the creator joins as white.
	resp, fields = doRequest(t, app, "POST", "/api/game/join/"+gameID, "p1", nil)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusOK)
	testutil.AssertEqual(t, stringField(t, fields, "color"), "white")
}

func TestJoinGameSeatsAndRejects(t *testing.T) {
	app := newTestApp(t)

	_, fields := doRequest(t, app, "POST", "/api/game/create", "p1", nil)
	gameID := stringField(t, fields, "game_id")

	resp, fields := doRequest(t, app, "POST", "/api/game/join/"+gameID, "p1", nil)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusOK)
	testutil.AssertEqual(t, stringField(t, fields, "color"), "white")

	resp, fields = doRequest(t, app, "POST", "/api/game/join/"+gameID, "p2", nil)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusOK)
	testutil.AssertEqual(t, stringField(t, fields, "color"), "black")

	resp, _ = doRequest(t, app, "POST", "/api/game/join/"+gameID, "p3", nil)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusConflict)
}

func TestJoinUnknownGame(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doRequest(t, app, "POST", "/api/game/join/missing", "p1", nil)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusNotFound)
}

func TestGetGameState(t *testing.T) {
	app := newTestApp(t)

	_, fields := doRequest(t, app, "POST", "/api/game/create", "p1", nil)
	gameID := stringField(t, fields, "game_id")

	resp, fields := doRequest(t, app, "GET", "/api/game/"+gameID, "p1", nil)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusOK)
	testutil.AssertEqual(t, stringField(t, fields, "toMove"), "white")
}

func TestGetGameStateNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doRequest(t, app, "GET", "/api/game/missing", "p1", nil)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusNotFound)
}

func TestJoinMatchmaking(t *testing.T) {
	app := newTestApp(t)

	resp, fields := doRequest(t, app, "POST", "/api/game/matchmaking/join", "p1", nil)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusOK)
	testutil.AssertEqual(t, stringField(t, fields, "status"), "queued")

	// Queueing twice is refused.
	resp, _ = doRequest(t, app, "POST", "/api/game/matchmaking/join", "p1", nil)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusConflict)
}

func TestStats(t *testing.T) {
	app := newTestApp(t)

	resp, fields := doRequest(t, app, "GET", "/api/stats", "p1", nil)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusOK)
	if _, ok := fields["games_played"]; !ok {
		t.Error("expected a games_played field in the stats payload")
	}
}

func TestMissingPlayerIDIsRejected(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doRequest(t, app, "POST", "/api/game/create", "", nil)
	testutil.AssertEqual(t, resp.StatusCode, fiber.StatusUnauthorized)
}
