package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/adapters/store"
	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/config"
	"github.com/dkeye/Poker/internal/core"
)

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newServer(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Mode:       "test",
		StaticPath: t.TempDir(),
		Secret:     "test-secret",
		ReadLimit:  32768,
		PingPeriod: time.Minute,
		SendBuffer: 32,
		Retention:  time.Hour,
	}
	sessions := app.NewSessions()
	o := &orch.Orchestrator{
		Rooms:      app.NewProcessor(core.NewRoomRegistry(store.NewMemory(), time.Hour), 0),
		Sessions:   sessions,
		Dispatcher: app.NewDispatcher(sessions, app.SimplePolicy{}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(SetupRouter(ctx, cfg, o))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestCardsEndpoint(t *testing.T) {
	c := newServer(t)
	var out struct {
		Cards []string `json:"cards"`
	}
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/cards", nil, &out))
	assert.Equal(t, []string{"0", "1", "2", "3", "5", "8", "13", "21", "34", "55", "89", "?", "☕"}, out.Cards)
}

func TestRoomLifecycleOverHTTP(t *testing.T) {
	alice := newServer(t)
	var created playerResponse
	status := alice.do(http.MethodPost, "/api/rooms", map[string]string{"roomName": "Sprint", "playerName": "Alice"}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Len(t, created.RoomID, 6)
	assert.NotEmpty(t, created.PlayerID)

	bob := &client{t: t, base: alice.base, http: &http.Client{}}
	var joined playerResponse
	status = bob.do(http.MethodPost, "/api/rooms/join", map[string]any{"roomId": created.RoomID, "playerName": "Bob"}, &joined)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, joined.Room.Players, 2)

	var errResp errorResponse
	status = bob.do(http.MethodPost, "/api/rooms/"+string(created.RoomID)+"/reveal", nil, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NotAllVoted", errResp.Code)

	// alice's browser remembers her player id
	status = alice.do(http.MethodPost, "/api/rooms/"+string(created.RoomID)+"/vote", map[string]string{"vote": "5"}, nil)
	assert.Equal(t, http.StatusOK, status)
	status = bob.do(http.MethodPost, "/api/rooms/"+string(created.RoomID)+"/vote", map[string]any{"playerId": joined.PlayerID, "vote": "8"}, nil)
	assert.Equal(t, http.StatusOK, status)

	var view struct {
		Revealed bool `json:"revealed"`
		Stats    struct {
			Average   string `json:"average"`
			MostVoted string `json:"mostVoted"`
		} `json:"stats"`
	}
	status = bob.do(http.MethodPost, "/api/rooms/"+string(created.RoomID)+"/reveal", nil, &view)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, view.Revealed)
	assert.Equal(t, "6.5", view.Stats.Average)
	assert.Equal(t, "5, 8", view.Stats.MostVoted)

	status = bob.do(http.MethodPost, "/api/rooms/"+string(created.RoomID)+"/vote", map[string]any{"playerId": joined.PlayerID, "vote": "3"}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "RoomAlreadyRevealed", errResp.Code)

	status = bob.do(http.MethodPost, "/api/rooms/"+string(created.RoomID)+"/reset", nil, &view)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, view.Revealed)

	status = alice.do(http.MethodDelete, "/api/rooms/"+string(created.RoomID)+"/players/"+string(joined.PlayerID), nil, nil)
	assert.Equal(t, http.StatusOK, status)
	status = alice.do(http.MethodDelete, "/api/rooms/NOPE42/players/"+string(joined.PlayerID), nil, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestErrorStatuses(t *testing.T) {
	c := newServer(t)
	var errResp errorResponse

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/rooms/NOPE42", nil, &errResp))
	assert.Equal(t, "RoomNotFound", errResp.Code)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/rooms", map[string]string{"roomName": "Sprint"}, &errResp))
	assert.Equal(t, "InvalidInput", errResp.Code)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/rooms", map[string]string{"roomName": "Sprint", "playerName": "   "}, &errResp))
	assert.Equal(t, "InvalidInput", errResp.Code)

	var created playerResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/rooms", map[string]string{"roomName": "Sprint", "playerName": "Alice"}, &created))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/rooms/"+string(created.RoomID)+"/vote", map[string]string{"vote": "4"}, &errResp))
	assert.Equal(t, "InvalidVote", errResp.Code)
}

func TestWebSocketBindsRememberedPlayer(t *testing.T) {
	c := newServer(t)
	var created playerResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/rooms", map[string]string{"roomName": "Sprint", "playerName": "Alice"}, &created))

	dialer := websocket.Dialer{Jar: c.http.Jar}
	url := "ws" + strings.TrimPrefix(c.base, "http") + "/api/ws?room=" + string(created.RoomID)
	ws, _, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var snap app.RoomUpdate
	require.NoError(t, ws.ReadJSON(&snap))
	assert.Equal(t, app.MsgRoomUpdate, snap.Type)
	assert.Equal(t, created.RoomID, snap.Room.ID)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "vote", "vote": "13"}))
	for {
		var m map[string]any
		require.NoError(t, ws.ReadJSON(&m))
		if m["type"] == "ack" {
			assert.Equal(t, "vote", m["op"])
			break
		}
		require.NotEqual(t, "error", m["type"], "%v", m)
	}
}
