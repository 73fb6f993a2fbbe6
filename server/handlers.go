package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/mazewalk/generator"
	"github.com/zucenko/mazewalk/model"
	"github.com/zucenko/mazewalk/pathfind"
	"github.com/zucenko/mazewalk/sim"
)

// maxLayoutBytes bounds an uploaded ASCII maze.
const maxLayoutBytes = 1 << 20

func respond(w http.ResponseWriter, reply Reply) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.ResponseCode.ToHttp())
	body := reply.Body
	switch {
	case reply.ResponseCode == CMD_TIMEOUT:
		body = model.ErrorResponse{Error: "session busy"}
	case reply.Err != nil:
		body = model.ErrorResponse{Error: reply.Err.Error()}
	}
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warnf("cant encode response: %v", err)
	}
}

func invalid(w http.ResponseWriter, err error) {
	respond(w, Reply{ResponseCode: CMD_INVALID, Err: err})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	return nil
}

func (s *SessionServer) HandleState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, s.Execute(r.Context(), func(*sim.Session) (any, error) {
			return s.snapshot(), nil
		}))
	}
}

// HandleLayout serves the current grid as ASCII rows.
func (s *SessionServer) HandleLayout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := s.Execute(r.Context(), func(session *sim.Session) (any, error) {
			return session.Grid().String(), nil
		})
		if reply.ResponseCode != CMD_OK {
			respond(w, reply)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, reply.Body)
	}
}

// HandleUploadLayout replaces the maze with an ASCII layout and goes
// straight to pathfinding.
func (s *SessionServer) HandleUploadLayout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grid, err := model.Read(http.MaxBytesReader(w, r.Body, maxLayoutBytes))
		if err != nil {
			invalid(w, err)
			return
		}
		respond(w, s.Execute(r.Context(), func(session *sim.Session) (any, error) {
			session.UseGrid(grid)
			return model.MazeResponse{Width: grid.Width, Height: grid.Height}, nil
		}))
	}
}

func (s *SessionServer) HandleNewMaze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		algorithm, err := generator.ParseAlgorithm(way.Param(r.Context(), "algorithm"))
		if err != nil {
			invalid(w, err)
			return
		}
		respond(w, s.Execute(r.Context(), func(session *sim.Session) (any, error) {
			if err := session.NewMaze(algorithm); err != nil {
				return nil, err
			}
			grid := session.Grid()
			return model.MazeResponse{Algorithm: algorithm.Name(), Width: grid.Width, Height: grid.Height}, nil
		}))
	}
}

func (s *SessionServer) HandleFinish() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, s.Execute(r.Context(), func(session *sim.Session) (any, error) {
			if _, err := session.CompleteGeneration(); err != nil {
				return nil, err
			}
			grid, gen := session.Grid(), session.Generator()
			return model.MazeResponse{
				Algorithm: gen.Algorithm().Name(),
				Width:     grid.Width,
				Height:    grid.Height,
				Steps:     gen.Steps(),
			}, nil
		}))
	}
}

func (s *SessionServer) HandleSolver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, s.Execute(r.Context(), func(session *sim.Session) (any, error) {
			if err := session.StartSolver(); err != nil {
				return nil, err
			}
			return model.HeuristicResponse{Heuristic: session.Heuristic().Name()}, nil
		}))
	}
}

func (s *SessionServer) HandleHeuristic() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := pathfind.ParseHeuristic(way.Param(r.Context(), "name"))
		if err != nil {
			invalid(w, err)
			return
		}
		respond(w, s.Execute(r.Context(), func(session *sim.Session) (any, error) {
			session.SetHeuristic(h)
			return model.HeuristicResponse{Heuristic: h.Name()}, nil
		}))
	}
}

func (s *SessionServer) HandleSpawnAgent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.SpawnAgentRequest
		if err := decode(r, &req); err != nil {
			invalid(w, err)
			return
		}
		respond(w, s.Execute(r.Context(), func(session *sim.Session) (any, error) {
			id, err := session.SpawnAgent(req.At, req.Primary, req.Target)
			if err != nil {
				return nil, err
			}
			return model.SpawnAgentResponse{Id: id.String()}, nil
		}))
	}
}

func (s *SessionServer) HandleSpawnObstacle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.SpawnObstacleRequest
		if err := decode(r, &req); err != nil {
			invalid(w, err)
			return
		}
		respond(w, s.Execute(r.Context(), func(session *sim.Session) (any, error) {
			o, err := session.SpawnObstacle(req.At)
			if err != nil {
				return nil, err
			}
			return model.ObstacleResponse{Cell: o.Cell, Direction: o.Direction}, nil
		}))
	}
}

func (s *SessionServer) HandleSetTarget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.TargetRequest
		if err := decode(r, &req); err != nil {
			invalid(w, err)
			return
		}
		respond(w, s.Execute(r.Context(), func(session *sim.Session) (any, error) {
			if err := session.SetGlobalTarget(&req.At); err != nil {
				return nil, err
			}
			return req, nil
		}))
	}
}

func (s *SessionServer) HandleClearTarget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, s.Execute(r.Context(), func(session *sim.Session) (any, error) {
			return nil, session.SetGlobalTarget(nil)
		}))
	}
}

// HandleWatch upgrades to a websocket and streams a JSON snapshot per tick
// until either side closes.
func (s *SessionServer) HandleWatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("HandleWatch websocket upgrade err %v", err)
			return
		}
		defer con.Close()

		closed := make(chan struct{})
		select {
		case s.ViewerConnectRequests <- ViewerConnectRequest{Con: con, Closed: closed}:
		case <-s.stopped:
			return
		case <-time.After(s.Timeout):
			log.Warn("HandleWatch ViewerConnectRequests TIMEOUTED")
			return
		}
		<-closed
	}
}

// Routes registers every endpoint on router.
func (s *SessionServer) Routes(router *way.Router) {
	router.HandleFunc("GET", "/state", s.HandleState())
	router.HandleFunc("GET", "/watch", s.HandleWatch())
	router.HandleFunc("GET", "/maze", s.HandleLayout())
	router.HandleFunc("PUT", "/maze", s.HandleUploadLayout())
	router.HandleFunc("POST", "/maze/:algorithm", s.HandleNewMaze())
	router.HandleFunc("POST", "/finish", s.HandleFinish())
	router.HandleFunc("POST", "/solver", s.HandleSolver())
	router.HandleFunc("PUT", "/heuristic/:name", s.HandleHeuristic())
	router.HandleFunc("POST", "/agents", s.HandleSpawnAgent())
	router.HandleFunc("POST", "/obstacles", s.HandleSpawnObstacle())
	router.HandleFunc("PUT", "/target", s.HandleSetTarget())
	router.HandleFunc("DELETE", "/target", s.HandleClearTarget())
}
