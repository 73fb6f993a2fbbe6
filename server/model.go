package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/zucenko/mazewalk/model"
	"github.com/zucenko/mazewalk/sim"
)

// SessionServer serializes all access to one simulation session through
// its Loop goroutine.
type SessionServer struct {
	Session               *sim.Session
	Commands              chan Command
	ViewerConnectRequests chan ViewerConnectRequest
	ViewerErrors          chan int32
	Viewers               []*ViewerSession
	Upgrader              *websocket.Upgrader
	FrameRate             int
	Timeout               time.Duration
	CellSize              float64

	nextViewer int32
	stopped    chan struct{}
}

type ViewerState int

const (
	VS_NEW ViewerState = iota + 1
	VS_WATCH
	VS_ERR
)

type ViewerSession struct {
	State  ViewerState
	Id     int32
	Server *SessionServer
	Conn   *websocket.Conn
	Closed chan struct{}

	MessagesToSend chan model.StateMessage

	// DebugDropped counts snapshots skipped because the buffer was full.
	DebugDropped int
}
