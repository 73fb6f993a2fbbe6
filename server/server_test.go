package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/mazewalk/generator"
	"github.com/zucenko/mazewalk/model"
	"github.com/zucenko/mazewalk/sim"
)

const loop = `#######
#S...G#
#.###.#
#.....#
#######`

func newTestServer(t *testing.T) (*SessionServer, *httptest.Server) {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.Width, cfg.Height = 21, 15
	cfg.GenerationStepsPerTick = 1
	session, err := sim.NewSession(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	grid, err := model.Read(strings.NewReader(loop))
	require.NoError(t, err)
	session.UseGrid(grid)

	ss := NewSessionServer(session, 100)
	ss.Timeout = time.Second
	ss.CellSize = 8
	ctx, cancel := context.WithCancel(context.Background())
	go ss.Loop(ctx)

	router := way.NewRouter()
	ss.Routes(router)
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		cancel()
		ts.Close()
	})
	return ss, ts
}

func call(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestState(t *testing.T) {
	_, ts := newTestServer(t)
	code, body := call(t, "GET", ts.URL+"/state", "")
	require.Equal(t, http.StatusOK, code)

	var state model.StateMessage
	require.NoError(t, json.Unmarshal([]byte(body), &state))
	assert.Equal(t, "PATHFINDING", state.Mode)
	assert.Equal(t, 7, state.Width)
	assert.Equal(t, 8.0, state.CellSize)
	assert.Equal(t, strings.Split(loop, "\n"), state.Rows)
}

func TestLayoutRoundTrip(t *testing.T) {
	_, ts := newTestServer(t)
	code, body := call(t, "GET", ts.URL+"/maze", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, loop, body)

	code, _ = call(t, "PUT", ts.URL+"/maze", "#####\n#S.G#\n###")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = call(t, "PUT", ts.URL+"/maze", "#######\n#S....G\n#######\n#######\n#######")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "open border tile")
}

func TestGenerateAndFinish(t *testing.T) {
	_, ts := newTestServer(t)

	code, _ := call(t, "POST", ts.URL+"/maze/kruskal", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := call(t, "POST", ts.URL+"/maze/eller", "")
	require.Equal(t, http.StatusOK, code)
	var maze model.MazeResponse
	require.NoError(t, json.Unmarshal([]byte(body), &maze))
	assert.Equal(t, "eller", maze.Algorithm)
	assert.Equal(t, 21, maze.Width)

	code, body = call(t, "POST", ts.URL+"/finish", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal([]byte(body), &maze))
	assert.Positive(t, maze.Steps)

	code, _ = call(t, "POST", ts.URL+"/finish", "")
	assert.Equal(t, http.StatusConflict, code)
}

func TestSpawnAgent(t *testing.T) {
	_, ts := newTestServer(t)

	code, body := call(t, "POST", ts.URL+"/agents", `{"at":{"x":1,"y":1},"primary":true}`)
	require.Equal(t, http.StatusOK, code, body)
	var spawned model.SpawnAgentResponse
	require.NoError(t, json.Unmarshal([]byte(body), &spawned))
	assert.Len(t, spawned.Id, 36)

	code, body = call(t, "POST", ts.URL+"/agents", `{"at":{"x":0,"y":0}}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "not walkable")

	code, _ = call(t, "POST", ts.URL+"/agents", `{"at":`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSpawnDuringGenerationConflicts(t *testing.T) {
	ss, ts := newTestServer(t)
	reply := ss.Execute(context.Background(), func(session *sim.Session) (any, error) {
		return nil, session.NewMaze(generator.RecursiveBacktracker)
	})
	require.Equal(t, CMD_OK, reply.ResponseCode)
	code, _ := call(t, "POST", ts.URL+"/obstacles", `{"at":{"x":1,"y":1}}`)
	assert.Equal(t, http.StatusConflict, code)
}

func TestObstacleAndTarget(t *testing.T) {
	_, ts := newTestServer(t)

	code, body := call(t, "POST", ts.URL+"/obstacles", `{"at":{"x":3,"y":3}}`)
	require.Equal(t, http.StatusOK, code, body)
	var obstacle model.ObstacleResponse
	require.NoError(t, json.Unmarshal([]byte(body), &obstacle))
	assert.Equal(t, model.Coord{X: 3, Y: 3}, obstacle.Cell)
	assert.Equal(t, 1, obstacle.Direction.Manhattan(model.Coord{}))

	code, _ = call(t, "POST", ts.URL+"/obstacles", `{"at":{"x":1,"y":1}}`)
	assert.Equal(t, http.StatusBadRequest, code, "start tile is not a path")

	code, _ = call(t, "PUT", ts.URL+"/target", `{"at":{"x":3,"y":1}}`)
	assert.Equal(t, http.StatusOK, code)
	_, body = call(t, "GET", ts.URL+"/state", "")
	assert.Contains(t, body, `"global_target":{"x":3,"y":1}`)

	code, _ = call(t, "DELETE", ts.URL+"/target", "")
	assert.Equal(t, http.StatusOK, code)
	_, body = call(t, "GET", ts.URL+"/state", "")
	assert.NotContains(t, body, "global_target")
}

func TestHeuristicAndSolver(t *testing.T) {
	_, ts := newTestServer(t)

	code, body := call(t, "PUT", ts.URL+"/heuristic/chebyshev", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"heuristic":"chebyshev"}`, body)

	code, _ = call(t, "PUT", ts.URL+"/heuristic/teleport", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, "POST", ts.URL+"/solver", "")
	require.Equal(t, http.StatusOK, code)
	require.Eventually(t, func() bool {
		_, body := call(t, "GET", ts.URL+"/state", "")
		var state model.StateMessage
		return json.Unmarshal([]byte(body), &state) == nil &&
			state.Solver != nil && state.Solver.Found
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatchStreamsSnapshots(t *testing.T) {
	ss, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/watch"
	con, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		var state model.StateMessage
		require.NoError(t, con.ReadJSON(&state))
		assert.Equal(t, 7, state.Width)
	}
	reply := ss.Execute(context.Background(), func(*sim.Session) (any, error) { return len(ss.Viewers), nil })
	assert.Equal(t, 1, reply.Body)

	require.NoError(t, con.Close())
	assert.Eventually(t, func() bool {
		reply := ss.Execute(context.Background(), func(*sim.Session) (any, error) { return len(ss.Viewers), nil })
		return reply.Body == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestExecuteTimesOutWithoutLoop(t *testing.T) {
	session, err := sim.NewSession(sim.DefaultConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	ss := NewSessionServer(session, 60)
	ss.Timeout = 10 * time.Millisecond

	reply := ss.Execute(context.Background(), func(*sim.Session) (any, error) { return nil, nil })
	assert.Equal(t, CMD_TIMEOUT, reply.ResponseCode)
	assert.Equal(t, http.StatusRequestTimeout, reply.ResponseCode.ToHttp())
}

func TestCodeFor(t *testing.T) {
	assert.Equal(t, CMD_OK, codeFor(nil))
	assert.Equal(t, CMD_CONFLICT, codeFor(sim.ErrNoPath))
	assert.Equal(t, CMD_CONFLICT, codeFor(sim.ErrGenerating))
	assert.Equal(t, CMD_INVALID, codeFor(sim.ErrNotWalkable))
	assert.Equal(t, CMD_INVALID, codeFor(model.ErrMalformedLayout))
	assert.Equal(t, CMD_INVALID, codeFor(errors.New("anything else")))
}

func TestExecuteWaitsForAcceptedCommands(t *testing.T) {
	ss, _ := newTestServer(t)
	ss.Timeout = 10 * time.Millisecond

	reply := ss.Execute(context.Background(), func(session *sim.Session) (any, error) {
		time.Sleep(50 * time.Millisecond)
		return session.Mode().Name(), nil
	})
	assert.Equal(t, CMD_OK, reply.ResponseCode)
	assert.Equal(t, "PATHFINDING", reply.Body)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	applied := make(chan struct{})
	reply = ss.Execute(ctx, func(*sim.Session) (any, error) {
		time.Sleep(100 * time.Millisecond)
		close(applied)
		return nil, nil
	})
	assert.Equal(t, CMD_TIMEOUT, reply.ResponseCode)
	assert.ErrorIs(t, reply.Err, context.DeadlineExceeded)
	select {
	case <-applied:
	case <-time.After(time.Second):
		t.Fatal("abandoned command did not complete on the loop")
	}
}
