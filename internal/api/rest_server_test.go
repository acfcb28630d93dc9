package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/annel0/voxel-engine/internal/storage"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block/implementations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	chunks int
	err    error
}

func (s *fakeSaver) Save(ctx context.Context) (int, error) {
	return s.chunks, s.err
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	rs      *RestServer
	w       *world.World
	content *implementations.Content
	players *storage.MemoryPlayerRepo
}

func newTestServer(t *testing.T, saver Saver) *testServer {
	t.Helper()
	content, err := implementations.NewContent()
	require.NoError(t, err)
	w := world.New(content.Registry, content.States, world.Options{
		Name:     "debug",
		Provider: world.NewMemoryProvider(nil, false),
	})
	players := storage.NewMemoryPlayerRepo()
	rs := NewRestServer(Config{World: w, Players: players, Saver: saver})
	return &testServer{rs: rs, w: w, content: content, players: players}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	ts.rs.Handler().ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	ts.rs.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestBlockEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	code, env := ts.do(t, http.MethodGet, "/api/block/1/2/3", nil)
	require.Equal(t, http.StatusOK, code)
	b := decode[BlockResponse](t, env)
	assert.False(t, b.Loaded)
	assert.Equal(t, "air", b.Block)

	code, _ = ts.do(t, http.MethodPut, "/api/block/1/2/3", PlaceRequest{Block: "stone"})
	assert.Equal(t, http.StatusNotFound, code, "чанк ещё не загружен")

	code, _ = ts.do(t, http.MethodPost, "/api/chunk/0/0/0/load", nil)
	require.Equal(t, http.StatusOK, code)

	code, env = ts.do(t, http.MethodPut, "/api/block/1/2/3", PlaceRequest{Block: "log", Side: "north"})
	require.Equal(t, http.StatusOK, code)
	b = decode[BlockResponse](t, env)
	assert.True(t, b.Loaded)
	assert.Equal(t, "log", b.Block)
	assert.Equal(t, ts.content.Blocks.Log.ID(), b.ID)
	assert.Equal(t, map[string]string{"orientation": "north"}, b.States)

	code, _ = ts.do(t, http.MethodPut, "/api/block/1/2/3", PlaceRequest{Block: "unobtainium"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = ts.do(t, http.MethodPut, "/api/block/1/2/3", PlaceRequest{Block: "stone", Side: "up"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = ts.do(t, http.MethodGet, "/api/block/one/2/3", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPowerVisibleThroughBlockEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(t, http.MethodPost, "/api/chunk/0/0/0/load", nil)

	ts.do(t, http.MethodPut, "/api/block/4/1/4", PlaceRequest{Block: implementations.PowerSourceName})
	ts.do(t, http.MethodPut, "/api/block/5/1/4", PlaceRequest{Block: implementations.CableName})

	_, env := ts.do(t, http.MethodGet, "/api/block/5/1/4", nil)
	b := decode[BlockResponse](t, env)
	assert.Equal(t, 15, b.Power)
	assert.Equal(t, "power14", b.States[implementations.ElectricPowerState])
}

func TestChunkEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	code, _ := ts.do(t, http.MethodGet, "/api/chunk/0/0/0", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = ts.do(t, http.MethodPost, "/api/chunk/0/0/0/load?generate=false", nil)
	assert.Equal(t, http.StatusNotFound, code)

	ts.do(t, http.MethodPost, "/api/chunk/0/0/0/load", nil)
	ts.do(t, http.MethodPut, "/api/block/1/2/3", PlaceRequest{Block: "stone"})

	code, env := ts.do(t, http.MethodGet, "/api/chunk/0/0/0", nil)
	require.Equal(t, http.StatusOK, code)
	ch := decode[ChunkResponse](t, env)
	assert.Equal(t, map[string]int{"air": world.ChunkVolume - 1, "stone": 1}, ch.Blocks)
	assert.Equal(t, 2, ch.Heightmap[1][3])
	assert.Equal(t, -1, ch.Heightmap[0][0])
	assert.True(t, ch.Dirty)
}

func TestRaycastEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(t, http.MethodPost, "/api/chunk/0/0/0/load", nil)
	ts.do(t, http.MethodPut, "/api/block/1/2/3", PlaceRequest{Block: "stone"})

	code, env := ts.do(t, http.MethodPost, "/api/raycast", RaycastRequest{
		Origin: &[3]float64{1.5, 5.5, 3.5},
		Pitch:  -90,
	})
	require.Equal(t, http.StatusOK, code)
	hit := decode[RaycastResponse](t, env)
	assert.Equal(t, "block", hit.Type)
	assert.Equal(t, [3]float64{1, 2, 3}, [3]float64{hit.X, hit.Y, hit.Z})
	assert.Equal(t, "top", hit.Side)
	assert.Equal(t, "stone", hit.Block)
	assert.InDelta(t, 2.5, hit.Distance, world.RayStep)

	code, env = ts.do(t, http.MethodPost, "/api/raycast", RaycastRequest{Origin: &[3]float64{1.5, 5.5, 3.5}, Pitch: 90})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "none", decode[RaycastResponse](t, env).Type)

	code, _ = ts.do(t, http.MethodPost, "/api/raycast", RaycastRequest{})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = ts.do(t, http.MethodPost, "/api/raycast", RaycastRequest{Origin: &[3]float64{}, MaxDistance: 1000})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = ts.do(t, http.MethodPost, "/api/raycast", RaycastRequest{Player: "ghost"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPlayerJoinLeave(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(t, http.MethodPost, "/api/chunk/0/0/0/load", nil)

	code, _ := ts.do(t, http.MethodPost, "/api/players", JoinRequest{Name: "alice"})
	require.Equal(t, http.StatusCreated, code)
	ts.w.Locked(func() { ts.w.Update(0.05) })

	code, env := ts.do(t, http.MethodGet, "/api/entities", nil)
	require.Equal(t, http.StatusOK, code)
	entities := decode[[]EntityResponse](t, env)
	require.Len(t, entities, 1)
	assert.Equal(t, "alice", entities[0].Name)
	assert.Equal(t, "player", entities[0].Type)
	assert.Equal(t, [3]float64{0.5, 0, 0.5}, entities[0].Position)

	code, _ = ts.do(t, http.MethodPost, "/api/players", JoinRequest{Name: "alice"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = ts.do(t, http.MethodDelete, "/api/players/alice", nil)
	require.Equal(t, http.StatusOK, code)
	st, found, err := ts.players.Load(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0.5, st.X)

	code, _ = ts.do(t, http.MethodDelete, "/api/players/alice", nil)
	assert.Equal(t, http.StatusNotFound, code, "убитый игрок уже не находится")

	// Повторный вход восстанавливает сохранённое положение
	require.NoError(t, ts.players.Save(context.Background(), "alice", storage.PlayerState{X: 3, Y: 4, Z: 5}))
	ts.w.Locked(func() { ts.w.Update(0.05) })
	code, env = ts.do(t, http.MethodPost, "/api/players", JoinRequest{Name: "alice"})
	require.Equal(t, http.StatusCreated, code)
	joined := decode[struct {
		Entity   EntityResponse `json:"entity"`
		Restored bool           `json:"restored"`
	}](t, env)
	assert.True(t, joined.Restored)
	assert.Equal(t, [3]float64{3, 4, 5}, joined.Entity.Position)
}

func TestWorldAndStats(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(t, http.MethodPost, "/api/chunk/0/0/0/load", nil)

	code, env := ts.do(t, http.MethodGet, "/api/world", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, WorldResponse{Name: "debug", Chunks: 1}, decode[WorldResponse](t, env))

	code, env = ts.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"process"`)
	assert.Contains(t, string(env.Data), `"goroutines"`)
}

func TestSaveEndpoint(t *testing.T) {
	code, _ := newTestServer(t, nil).do(t, http.MethodPost, "/api/save", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, env := newTestServer(t, &fakeSaver{chunks: 3}).do(t, http.MethodPost, "/api/save", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"chunks":3}`, string(env.Data))

	code, _ = newTestServer(t, &fakeSaver{err: errors.New("диск полон")}).do(t, http.MethodPost, "/api/save", nil)
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(t, http.MethodGet, "/api/world", nil)

	rec := httptest.NewRecorder()
	ts.rs.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "debug_api_http_request_duration_seconds")
}
