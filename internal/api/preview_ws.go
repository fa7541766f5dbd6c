package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/storyreel/storyreel/internal/manager"
	"github.com/storyreel/storyreel/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

var errSlowClient = errors.New("preview client is not keeping up")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are restricted by the cors middleware
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsTransport delivers session messages to a browser over a websocket.
// Messages are queued and written by writePump.
type wsTransport struct {
	conn *websocket.Conn
	send chan manager.Message

	closeOnce sync.Once
	done      chan struct{}
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	return &wsTransport{
		conn: conn,
		send: make(chan manager.Message, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (t *wsTransport) Send(m manager.Message) error {
	select {
	case <-t.done:
		return websocket.ErrCloseSent
	default:
	}

	select {
	case t.send <- m:
		return nil
	default:
		t.close()
		return errSlowClient
	}
}

func (t *wsTransport) close() {
	t.closeOnce.Do(func() {
		close(t.done)
	})
}

func (t *wsTransport) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		t.conn.Close()
	}()

	for {
		select {
		case m := <-t.send:
			data, err := json.Marshal(m)
			if err != nil {
				logger.Errorf("[preview] encoding %s message: %v", m.Type, err)
				continue
			}

			_ = t.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debugf("[preview] write error: %v", err)
				t.close()
				return
			}
		case <-ticker.C:
			_ = t.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := t.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				t.close()
				return
			}
		case <-t.done:
			_ = t.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}

// readPump passes messages from the browser to the session until the
// connection fails.
func (t *wsTransport) readPump(ctx context.Context, s *manager.Session) {
	t.conn.SetReadLimit(maxMessageSize)
	_ = t.conn.SetReadDeadline(time.Now().Add(pongWait))
	t.conn.SetPongHandler(func(string) error {
		return t.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debugf("[preview] read error: %v", err)
			}
			return
		}

		var m manager.Message
		if err := json.Unmarshal(data, &m); err != nil {
			logger.Debugf("[preview] invalid message: %v", err)
			continue
		}

		if err := s.HandleMessage(ctx, m); err != nil {
			if errors.Is(err, manager.ErrSessionClosed) {
				return
			}
			// rejected user actions are reported back to the browser
			_ = t.Send(manager.Message{Type: manager.MessageError, Text: err.Error()})
		}
	}
}

// Preview upgrades the request to a websocket carrying player commands and
// UI updates to the browser and player events and user actions back.
func (rs sessionRoutes) Preview(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debugf("[preview] websocket upgrade: %v", err)
		return
	}

	t := newWSTransport(conn)
	go t.writePump()
	defer t.close()

	ctx := context.Background()
	detach, err := s.Attach(ctx, t)
	if err != nil {
		logger.Warnf("[session %s] attaching preview: %v", s.ID, err)
		return
	}
	defer detach()

	logger.Debugf("[session %s] preview connected", s.ID)
	t.readPump(ctx, s)
	logger.Debugf("[session %s] preview disconnected", s.ID)
}
