package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/trolleyman/hagias-monitor-service/internal/toast"
	"github.com/trolleyman/hagias-monitor-service/pkg/types"
)

const (
	liveWriteTimeout = 10 * time.Second
	liveReadLimit    = 4 << 10
	liveSendBuffer   = 64
)

// Hub tracks connected dashboard sessions. Every session owns its own
// toast manager; the hub fans outcome notifications out to all of them,
// so a layout applied from one browser (or the CLI talking to the API)
// surfaces on every open dashboard.
type Hub struct {
	clock clockwork.Clock
	log   zerolog.Logger

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*liveSession]struct{}
}

func NewHub(clock clockwork.Clock, log zerolog.Logger) *Hub {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Hub{
		clock: clock,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard is a same-host LAN tool; the API itself is
			// unauthenticated, so origin checks add nothing here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sessions: make(map[*liveSession]struct{}),
	}
}

// ServeHTTP upgrades the connection and runs a session until either side
// closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("live upgrade failed")
		return
	}
	s := newLiveSession(h, conn)
	h.add(s)
	go s.writePump()
	s.readPump()
	h.remove(s)
}

// Broadcast shows a notification on every connected session. Safe on a
// nil hub, which makes it callable from handlers when live is disabled.
func (h *Hub) Broadcast(message string, category toast.Category) {
	if h == nil {
		return
	}
	h.mu.Lock()
	sessions := make([]*liveSession, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()
	for _, s := range sessions {
		s.mgr.Show(message, category)
		countToast(string(category))
	}
}

// SessionCount reports the number of connected sessions.
func (h *Hub) SessionCount() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Hub) add(s *liveSession) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
	liveSessions.Inc()
}

func (h *Hub) remove(s *liveSession) {
	h.mu.Lock()
	_, ok := h.sessions[s]
	delete(h.sessions, s)
	h.mu.Unlock()
	if ok {
		liveSessions.Dec()
	}
	s.shutdown()
}

// liveSession is one dashboard connection. It is the toast.Renderer for
// its manager: renderer calls become ops on the wire, and inbound frames
// (dismiss clicks, transition completions, resizes) drive the manager.
type liveSession struct {
	hub  *Hub
	conn *websocket.Conn
	mgr  *toast.Manager

	send chan types.ToastOp
	done chan struct{}
	once sync.Once
}

func newLiveSession(h *Hub, conn *websocket.Conn) *liveSession {
	s := &liveSession{
		hub:  h,
		conn: conn,
		send: make(chan types.ToastOp, liveSendBuffer),
		done: make(chan struct{}),
	}
	s.mgr = toast.NewWithConfig(toast.Config{
		Renderer:  s,
		Scheduler: toast.NewClockScheduler(h.clock),
	})
	return s
}

func (s *liveSession) shutdown() {
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// enqueue never blocks: a session that cannot drain its buffer is cut
// loose rather than stalling the manager.
func (s *liveSession) enqueue(op types.ToastOp) {
	select {
	case s.send <- op:
	case <-s.done:
	default:
		s.hub.log.Warn().Msg("live session too slow, dropping connection")
		s.shutdown()
	}
}

func (s *liveSession) Mount(n *toast.Notification, offset int) {
	s.enqueue(types.ToastOp{
		Op:       types.ToastOpMount,
		ID:       n.ID(),
		Message:  n.Message(),
		Category: string(n.Category()),
		Offset:   offset,
	})
}

func (s *liveSession) SetVisible(n *toast.Notification) {
	s.enqueue(types.ToastOp{Op: types.ToastOpVisible, ID: n.ID()})
}

func (s *liveSession) Move(n *toast.Notification, offset int) {
	s.enqueue(types.ToastOp{Op: types.ToastOpMove, ID: n.ID(), Offset: offset})
}

func (s *liveSession) BeginLeave(n *toast.Notification) {
	s.enqueue(types.ToastOp{Op: types.ToastOpLeave, ID: n.ID()})
}

func (s *liveSession) Unmount(n *toast.Notification) {
	s.enqueue(types.ToastOp{Op: types.ToastOpUnmount, ID: n.ID()})
}

func (s *liveSession) writePump() {
	defer s.shutdown()
	for {
		select {
		case op := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := s.conn.WriteJSON(op); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *liveSession) readPump() {
	defer s.shutdown()
	s.conn.SetReadLimit(liveReadLimit)
	for {
		var frame types.ClientFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			return
		}
		switch frame.Type {
		case types.ClientFrameShow:
			n := s.mgr.Show(frame.Message, toast.Category(frame.Category))
			countToast(string(n.Category()))
		case types.ClientFrameDismiss:
			if n, ok := s.mgr.Find(frame.ID); ok {
				s.mgr.Remove(n)
			}
		case types.ClientFrameLeaveEnd:
			if n, ok := s.mgr.Find(frame.ID); ok {
				s.mgr.LeaveFinished(n)
			}
		case types.ClientFrameResize:
			s.mgr.UpdatePositions()
		default:
			s.hub.log.Debug().Str("type", frame.Type).Msg("unknown live frame")
		}
	}
}
