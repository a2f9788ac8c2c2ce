package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gavel/adapters/broadcast"
	"gavel/engine"
	"gavel/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*ServerImpl, *engine.Engine, *broadcast.Hub[string]) {
	t.Helper()
	players := []models.Player{
		{ID: uuid.New(), Name: "Virat Kohli", Role: "BATTER", Nationality: "India", BasePrice: decimal.NewFromInt(200), Status: models.PlayerStatusAvailable},
	}
	hub := broadcast.NewHub[string]()
	t.Cleanup(hub.Close)

	catalog := engine.NewCatalog(players, "India")
	e, err := engine.New(engine.Config{}, catalog, hub)
	require.NoError(t, err)
	e.Start()
	t.Cleanup(e.Close)

	server, err := NewServer(e, hub)
	require.NoError(t, err)
	return server, e, hub
}

func TestNewServer(t *testing.T) {
	server, e, hub := newTestServer(t)
	assert.NotNil(t, server)

	_, err := NewServer(nil, hub)
	assert.Error(t, err)

	_, err = NewServer(e, nil)
	assert.Error(t, err)
}

func TestGetStatus(t *testing.T) {
	server, e, _ := newTestServer(t)
	router := server.Router()

	e.Submit(engine.LoginEvent{ConnID: uuid.New(), Team: "Mumbai"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := e.Snapshot(ctx)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var snapshot engine.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, "WaitingForTeams", snapshot.Phase)
	require.Len(t, snapshot.Teams, 1)
	assert.Equal(t, "Mumbai", snapshot.Teams[0].Name)
	assert.Equal(t, "12000.00", snapshot.Teams[0].Budget)
	assert.Equal(t, 1, snapshot.ItemsRemaining)
}

func TestGetTeams(t *testing.T) {
	server, e, _ := newTestServer(t)
	router := server.Router()

	e.Submit(engine.LoginEvent{ConnID: uuid.New(), Team: "Mumbai"})
	e.Submit(engine.LoginEvent{ConnID: uuid.New(), Team: "Chennai"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := e.Snapshot(ctx)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var payload struct {
		Teams []engine.TeamView `json:"teams"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Teams, 2)
	assert.Equal(t, "Chennai", payload.Teams[0].Name)
	assert.Equal(t, "Mumbai", payload.Teams[1].Name)
}

func TestGetTeamAcquisitionsWithoutStore(t *testing.T) {
	server, _, _ := newTestServer(t)
	router := server.Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/teams/Mumbai", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEvents(t *testing.T) {
	server, _, hub := newTestServer(t)
	router := server.Router()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	go func() {
		// 等觀察者掛上後再廣播
		time.Sleep(20 * time.Millisecond)
		hub.Broadcast("NEW_BID:Mumbai:210.00")
	}()
	router.ServeHTTP(w, req)

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "NEW_BID:Mumbai:210.00")
}
