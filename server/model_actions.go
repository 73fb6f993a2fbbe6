package server

import (
	"context"
	"net"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/mazewalk/model"
	"github.com/zucenko/mazewalk/sim"
)

const (
	DefaultTimeout = 200 * time.Millisecond
	viewerBuffer   = 4
	writeWait      = time.Second
)

func NewSessionServer(session *sim.Session, frameRate int) *SessionServer {
	return &SessionServer{
		Session:               session,
		Commands:              make(chan Command),
		ViewerConnectRequests: make(chan ViewerConnectRequest),
		ViewerErrors:          make(chan int32),
		Viewers:               make([]*ViewerSession, 0),
		Upgrader:              &websocket.Upgrader{},
		FrameRate:             max(frameRate, 1),
		Timeout:               DefaultTimeout,
		stopped:               make(chan struct{}),
	}
}

// Loop owns the session until ctx is cancelled: it runs commands, ticks
// the simulation at FrameRate and fans snapshots out to viewers.
func (s *SessionServer) Loop(ctx context.Context) {
	log.Infof("SessionServer.Loop starting at %d fps", s.FrameRate)
	defer close(s.stopped)

	ticker := time.NewTicker(time.Second / time.Duration(s.FrameRate))
	defer ticker.Stop()
	dt := 1 / float32(s.FrameRate)

	for {
		select {
		case <-ctx.Done():
			for len(s.Viewers) > 0 {
				s.removeViewer(s.Viewers[0].Id)
			}
			log.Info("SessionServer.Loop stopped")
			return
		case cmd := <-s.Commands:
			body, err := cmd.Run(s.Session)
			cmd.Reply <- Reply{ResponseCode: codeFor(err), Body: body, Err: err}
		case req := <-s.ViewerConnectRequests:
			s.addViewer(req.Con, req.Closed)
		case id := <-s.ViewerErrors:
			s.removeViewer(id)
		case <-ticker.C:
			s.Session.Tick(dt)
			s.broadcast()
		}
	}
}

// Execute hands run to the loop goroutine and waits for its result. Timeout
// bounds only the wait for the loop to pick the command up, so CMD_TIMEOUT
// means run never started. Once accepted, run is waited for until ctx ends;
// a command abandoned that way still completes on the loop.
func (s *SessionServer) Execute(ctx context.Context, run func(*sim.Session) (any, error)) Reply {
	replies := make(chan Reply, 1)
	select {
	case s.Commands <- Command{Run: run, Reply: replies}:
	case <-s.stopped:
		return Reply{ResponseCode: CMD_TIMEOUT}
	case <-ctx.Done():
		return Reply{ResponseCode: CMD_TIMEOUT, Err: ctx.Err()}
	case <-time.After(s.Timeout):
		log.Warn("Execute Commands TIMEOUTED")
		return Reply{ResponseCode: CMD_TIMEOUT}
	}
	select {
	case reply := <-replies:
		return reply
	case <-ctx.Done():
		log.Warnf("Execute abandoned while running: %v", ctx.Err())
		return Reply{ResponseCode: CMD_TIMEOUT, Err: ctx.Err()}
	}
}

// snapshot adds presentation settings to the session state.
func (s *SessionServer) snapshot() model.StateMessage {
	m := s.Session.Snapshot()
	m.CellSize = s.CellSize
	return m
}

func (s *SessionServer) addViewer(conn *websocket.Conn, closed chan struct{}) {
	s.nextViewer++
	vs := &ViewerSession{
		State:          VS_NEW,
		Id:             s.nextViewer,
		Server:         s,
		Conn:           conn,
		Closed:         closed,
		MessagesToSend: make(chan model.StateMessage, viewerBuffer),
	}
	conn.SetPingHandler(
		func(message string) error {
			err := conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(writeWait))
			if err == websocket.ErrCloseSent {
				return nil
			} else if e, ok := err.(net.Error); ok && e.Timeout() {
				return nil
			}
			return err
		})
	go vs.LoopChannelRead()
	go vs.LoopChannelWrite()
	s.Viewers = append(s.Viewers, vs)

	vs.MessagesToSend <- s.snapshot()
	vs.State = VS_WATCH
	log.Infof("viewer %d watching, %d in total", vs.Id, len(s.Viewers))
}

func (s *SessionServer) removeViewer(id int32) {
	for i, vs := range s.Viewers {
		if vs.Id != id {
			continue
		}
		vs.State = VS_ERR
		close(vs.MessagesToSend)
		close(vs.Closed)
		s.Viewers = append(s.Viewers[:i], s.Viewers[i+1:]...)
		log.Infof("viewer %d gone after %d dropped frames, %d left", id, vs.DebugDropped, len(s.Viewers))
		return
	}
}

// broadcast never blocks the loop: a viewer whose buffer is full misses
// the frame.
func (s *SessionServer) broadcast() {
	if len(s.Viewers) == 0 {
		return
	}
	snapshot := s.snapshot()
	for _, vs := range s.Viewers {
		select {
		case vs.MessagesToSend <- snapshot:
		default:
			vs.DebugDropped++
		}
	}
}

func (vs *ViewerSession) report() {
	select {
	case vs.Server.ViewerErrors <- vs.Id:
	case <-vs.Server.stopped:
	}
}

// LoopChannelRead only drains the connection so control frames get handled
// and a closed socket is noticed.
func (vs *ViewerSession) LoopChannelRead() {
	for {
		if _, _, err := vs.Conn.NextReader(); err != nil {
			log.Debugf("viewer %d read ended: %v", vs.Id, err)
			vs.report()
			return
		}
	}
}

// LoopChannelWrite ends when the loop closes MessagesToSend.
func (vs *ViewerSession) LoopChannelWrite() {
	for mes := range vs.MessagesToSend {
		_ = vs.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := vs.Conn.WriteJSON(mes); err != nil {
			log.Warnf("viewer %d cant write: %v", vs.Id, err)
			vs.report()
			return
		}
	}
}
