package netwrk

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pongsim/internal/pong"
)

func startHost(t *testing.T) (*pong.Session, *Server, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	session := pong.NewSession(pong.DefaultBoard(), 1)
	go session.Run(ctx)

	srv := NewServer(session)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve(ctx, ln)
	return session, srv, ln.Addr().String()
}

func dial(t *testing.T, addr string) *Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Dial(ctx, addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestControllerDrivesSessionAndViewersWatch(t *testing.T) {
	session, srv, addr := startHost(t)

	controller := dial(t, addr)
	eventually(t, "controller registered", func() bool { return srv.ClientCount() == 1 })
	viewer := dial(t, addr)
	eventually(t, "viewer registered", func() bool { return srv.ClientCount() == 2 })

	frames, _ := viewer.Subscribe(256)

	if err := controller.Send(pong.Command{Action: pong.ActionStart}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for running := false; !running; {
		select {
		case snap, ok := <-frames:
			if !ok {
				t.Fatalf("viewer stream closed")
			}
			running = snap.Phase == pong.Running && snap.SessionID == session.ID.String()
		case <-deadline:
			t.Fatalf("viewer never saw the game start")
		}
	}

	viewer.Send(pong.KeyCommand(pong.KeyW))
	controller.Send(pong.KeyCommand(pong.KeyArrowUp))
	eventually(t, "controller key", func() bool { return session.Snapshot().Right.Y == 140 })

	time.Sleep(50 * time.Millisecond)
	if y := session.Snapshot().Left.Y; y != 160 {
		t.Errorf("viewer moved the left paddle to %v", y)
	}
}

func TestViewerPromotedWhenControllerLeaves(t *testing.T) {
	session, srv, addr := startHost(t)

	controller := dial(t, addr)
	eventually(t, "controller registered", func() bool { return srv.ClientCount() == 1 })
	next := dial(t, addr)
	eventually(t, "viewer registered", func() bool { return srv.ClientCount() == 2 })

	controller.Close()
	eventually(t, "controller gone", func() bool { return srv.ClientCount() == 1 })

	next.Send(pong.Command{Action: pong.ActionStart})
	next.Send(pong.KeyCommand(pong.KeyS))
	eventually(t, "promoted client drives the game", func() bool {
		s := session.Snapshot()
		return s.Phase != pong.NotStarted && s.Left.Y == 180
	})
}

func TestConnectionDroppedWhenSessionCloses(t *testing.T) {
	sessionCtx, stopSession := context.WithCancel(context.Background())
	defer stopSession()
	serverCtx, stopServer := context.WithCancel(context.Background())
	t.Cleanup(stopServer)

	session := pong.NewSession(pong.DefaultBoard(), 1)
	go session.Run(sessionCtx)
	srv := NewServer(session)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve(serverCtx, ln)

	c := dial(t, ln.Addr().String())
	frames, _ := c.Subscribe(16)
	eventually(t, "client registered", func() bool { return srv.ClientCount() == 1 })

	stopSession()

	deadline := time.After(3 * time.Second)
	for open := true; open; {
		select {
		case _, open = <-frames:
		case <-deadline:
			t.Fatalf("client stream still open after the session closed")
		}
	}
	eventually(t, "client unregistered", func() bool { return srv.ClientCount() == 0 })
}

func TestRouter(t *testing.T) {
	session, srv, _ := startHost(t)
	viewers := NewViewers(session)
	ts := httptest.NewServer(Router(session, srv, viewers))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	var health struct {
		Status  string `json:"status"`
		Session string `json:"session"`
	}
	json.NewDecoder(resp.Body).Decode(&health)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || health.Status != "ok" || health.Session != session.ID.String() {
		t.Errorf("healthz = %d %+v", resp.StatusCode, health)
	}

	resp, err = http.Get(ts.URL + "/state")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	var snap pong.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	resp.Body.Close()
	if snap.Phase != pong.NotStarted || snap.Left.Y != 160 {
		t.Errorf("state = %+v", snap)
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer ws.Close()

	ws.SetReadDeadline(time.Now().Add(3 * time.Second))
	var streamed pong.Snapshot
	if err := ws.ReadJSON(&streamed); err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if streamed.SessionID != session.ID.String() {
		t.Errorf("streamed snapshot from session %q", streamed.SessionID)
	}
	eventually(t, "viewer counted", func() bool { return viewers.Count() == 1 })
}
