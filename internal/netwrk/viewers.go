package netwrk

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pongsim/internal/pong"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	pongWait   = pingPeriod + writeWait
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // browsers on any origin may watch
	},
}

// Viewers streams JSON snapshots to read-only WebSocket clients.
type Viewers struct {
	session *pong.Session
	count   atomic.Int64
}

func NewViewers(session *pong.Session) *Viewers {
	return &Viewers{session: session}
}

func (v *Viewers) Count() int {
	return int(v.count.Load())
}

// ServeWS upgrades the request and blocks until the viewer goes away.
func (v *Viewers) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", slog.Any("error", err))
		return
	}
	id := uuid.New()
	v.count.Add(1)
	defer v.count.Add(-1)
	slog.Info("viewer connected", slog.String("viewer", id.String()), slog.String("remote", r.RemoteAddr))

	updates, unsubscribe := v.session.Subscribe(16)
	defer unsubscribe()

	closed := make(chan struct{})
	go readPump(conn, closed)
	writePump(conn, id, updates, closed)
	slog.Info("viewer disconnected", slog.String("viewer", id.String()))
}

// readPump discards anything the viewer sends and reports when the
// connection closes.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, id uuid.UUID, updates <-chan pong.Snapshot, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case snap, ok := <-updates:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "session ended"))
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				slog.Error("error marshaling snapshot", slog.Any("error", err))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Debug("websocket write error", slog.String("viewer", id.String()), slog.Any("error", err))
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("websocket ping error", slog.String("viewer", id.String()), slog.Any("error", err))
				return
			}

		case <-closed:
			return
		}
	}
}
