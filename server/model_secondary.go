package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/zucenko/mazewalk/sim"
)

type ResponseCode int

const (
	CMD_OK ResponseCode = iota
	CMD_INVALID
	CMD_CONFLICT
	CMD_TIMEOUT
)

func (h ResponseCode) ToHttp() int {
	switch h {
	case CMD_OK:
		return http.StatusOK
	case CMD_INVALID:
		return http.StatusBadRequest
	case CMD_CONFLICT:
		return http.StatusConflict
	case CMD_TIMEOUT:
		return http.StatusRequestTimeout
	default:
		panic(h)
	}
}

func (h ResponseCode) Name() string {
	switch h {
	case CMD_OK:
		return "OK"
	case CMD_INVALID:
		return "INVALID"
	case CMD_CONFLICT:
		return "CONFLICT"
	case CMD_TIMEOUT:
		return "TIMEOUT"
	default:
		return fmt.Sprintf("n/a:%d", h)
	}
}

// codeFor maps a session error onto a response code. Anything that is not
// a state conflict is bad input.
func codeFor(err error) ResponseCode {
	switch {
	case err == nil:
		return CMD_OK
	case errors.Is(err, sim.ErrNoPath),
		errors.Is(err, sim.ErrGenerating),
		errors.Is(err, sim.ErrNoMaze):
		return CMD_CONFLICT
	default:
		return CMD_INVALID
	}
}

func (vs ViewerState) Name() string {
	switch vs {
	case VS_NEW:
		return "NEW"
	case VS_WATCH:
		return "WATCH"
	case VS_ERR:
		return "ERR"
	default:
		return "N/A"
	}
}

// Command runs on the loop goroutine with exclusive access to the session.
type Command struct {
	Run   func(*sim.Session) (any, error)
	Reply chan Reply
}

type Reply struct {
	ResponseCode ResponseCode
	Body         any
	Err          error
}

type ViewerConnectRequest struct {
	Con    *websocket.Conn
	Closed chan struct{}
}
