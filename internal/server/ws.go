package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ppiankov/studyprep/internal/chat"
	"github.com/ppiankov/studyprep/internal/model"
)

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type      string `json:"type"`       // "message"
	SessionID string `json:"session_id"` // empty for new sessions
	Content   string `json:"content"`
}

// chatEvent is the outgoing WebSocket message format.
type chatEvent struct {
	Type      string             `json:"type"` // "busy", "message" or "error"
	SessionID string             `json:"session_id"`
	Busy      bool               `json:"busy"`
	Message   *model.ChatMessage `json:"message,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// wsConn serializes writes from concurrent submissions
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
	s    *Server
}

func (c *wsConn) send(ev chatEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(ev); err != nil {
		c.s.logger.Debugw("websocket write", "error", err)
	}
}

func (c *wsConn) sendError(sessionID, message string) {
	c.send(chatEvent{Type: "error", SessionID: sessionID, Error: message})
}

// sessionHooks streams the engine's output for one session
type sessionHooks struct {
	conn      *wsConn
	sessionID string
}

func (h sessionHooks) RenderMessage(msg model.ChatMessage) {
	h.conn.send(chatEvent{Type: "message", SessionID: h.sessionID, Message: &msg})
}

func (h sessionHooks) SetBusy(busy bool) {
	h.conn.send(chatEvent{Type: "busy", SessionID: h.sessionID, Busy: busy})
}

func (s *Server) upgrader() websocket.Upgrader {
	u := websocket.Upgrader{}
	if s.cfg.AllowAllOrigins {
		u.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return u
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	// In-flight submissions stop when the client goes away
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	c := &wsConn{conn: conn, s: s}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debugw("websocket read", "error", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			c.sendError("", "invalid message format")
			continue
		}

		if req.Type != "message" {
			c.sendError(req.SessionID, "unknown message type: "+req.Type)
			continue
		}

		var sess *chat.Session
		if req.SessionID == "" {
			sess = s.sessions.Create()
		} else {
			var ok bool
			if sess, ok = s.sessions.Get(req.SessionID); !ok {
				c.sendError(req.SessionID, "session not found")
				continue
			}
		}

		if !s.limiter.Allow(remoteKey(r)) {
			c.sendError(sess.ID(), "rate limit exceeded")
			continue
		}

		wg.Add(1)
		go func(sess *chat.Session, content string) {
			defer wg.Done()
			hooks := sessionHooks{conn: c, sessionID: sess.ID()}
			_, err := s.engine.Submit(ctx, sess, content, chat.Hooks{Renderer: hooks, Busy: hooks})
			switch {
			case err == nil:
			case errors.Is(err, chat.ErrBusy), errors.Is(err, chat.ErrEmptyInput):
				c.sendError(sess.ID(), err.Error())
			default:
				s.logger.Debugw("websocket submission stopped", "session_id", sess.ID(), "error", err)
			}
		}(sess, req.Content)
	}
}
