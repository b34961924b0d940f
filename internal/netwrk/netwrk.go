package netwrk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"pongsim/internal/pong"
	"pongsim/internal/wire"
)

type Client struct {
	ID   uuid.UUID
	Conn net.Conn
}

// Server hosts one session for terminal clients. The oldest connected
// client controls the game; everyone else only watches. When the
// controller leaves, the next client in line takes over.
type Server struct {
	session *pong.Session

	mu      sync.Mutex
	clients []Client
}

func NewServer(session *pong.Session) *Server {
	return &Server{session: session}
}

// ListenTCP listens on addr and serves until ctx is cancelled.
func (s *Server) ListenTCP(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		listener.Close()
	}()
	slog.Info("accepting game clients", slog.String("addr", listener.Addr().String()))

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			slog.Info("accept failed", slog.Any("error", err))
			continue
		}
		go s.HandleConnection(ctx, conn)
	}
}

// HandleConnection streams snapshots to conn and, while conn is the
// controller, forwards its commands to the session. It returns when the
// client disconnects or ctx ends.
func (s *Server) HandleConnection(ctx context.Context, conn net.Conn) {
	c := s.register(conn)
	defer s.unregister(c.ID)
	defer conn.Close()

	updates, unsubscribe := s.session.Subscribe(64)
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	// Network writer. The connection is closed once the session stops
	// publishing, which also ends the reader below.
	go func() {
		defer conn.Close()
		for snap := range updates {
			if err := wire.WriteFrame(conn, wire.Frame{Snapshot: &snap}); err != nil {
				slog.Debug("failed to write to game connection...", slog.String("client", c.ID.String()), slog.Any("error", err))
				return
			}
		}
		slog.Debug("session closed, dropping game connection", slog.String("client", c.ID.String()))
	}()

	// Network reader
	r := wire.NewReader(conn)
	for {
		f, err := r.ReadFrame()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				slog.Debug("error reading client frame", slog.String("client", c.ID.String()), slog.Any("error", err))
			}
			return
		}
		if f.Command == nil {
			continue
		}
		if !s.IsController(c.ID) {
			slog.Debug("ignoring command from viewer", slog.String("client", c.ID.String()), slog.String("action", f.Command.Action.String()))
			continue
		}
		if err := s.session.Send(*f.Command); err != nil {
			return
		}
	}
}

func (s *Server) register(conn net.Conn) Client {
	c := Client{ID: uuid.New(), Conn: conn}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, c)
	role := "viewer"
	if len(s.clients) == 1 {
		role = "controller"
	}
	slog.Info("client connected", slog.String("client", c.ID.String()), slog.String("role", role), slog.String("remote", conn.RemoteAddr().String()))
	return c
}

func (s *Server) unregister(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.clients {
		if c.ID != id {
			continue
		}
		s.clients = append(s.clients[:i], s.clients[i+1:]...)
		slog.Info("client disconnected", slog.String("client", id.String()))
		if i == 0 && len(s.clients) > 0 {
			slog.Info("promoting client to controller", slog.String("client", s.clients[0].ID.String()))
		}
		return
	}
}

func (s *Server) IsController(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients) > 0 && s.clients[0].ID == id
}

func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
