package netwrk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"pongsim/internal/pong"
	"pongsim/internal/wire"
)

// Conn is the terminal client's side of a game connection.
type Conn struct {
	conn net.Conn

	mu   sync.Mutex
	once sync.Once
}

func Dial(ctx context.Context, addr string) (*Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to game server at %s: %w", addr, err)
	}
	return &Conn{conn: conn}, nil
}

func (c *Conn) Send(cmd pong.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := wire.WriteFrame(c.conn, wire.Frame{Command: &cmd}); err != nil {
		return fmt.Errorf("sending %s: %w", cmd.Action, err)
	}
	return nil
}

// Subscribe starts reading snapshots from the server. The channel is
// closed when the connection drops. Only the first call reads; later
// calls get a closed channel.
func (c *Conn) Subscribe(buffer int) (<-chan pong.Snapshot, func()) {
	out := make(chan pong.Snapshot, max(buffer, 1))
	started := false
	c.once.Do(func() {
		started = true
		go c.readLoop(out)
	})
	if !started {
		close(out)
	}
	return out, func() { c.Close() }
}

func (c *Conn) readLoop(out chan<- pong.Snapshot) {
	defer close(out)
	r := wire.NewReader(c.conn)
	for {
		f, err := r.ReadFrame()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				slog.Debug("failed to read from game connection...", slog.Any("error", err))
			}
			return
		}
		if f.Snapshot == nil {
			continue
		}
		select {
		case out <- *f.Snapshot:
		default:
			slog.Debug("client render buffer full, dropping frame")
		}
	}
}

func (c *Conn) Close() error {
	return c.conn.Close()
}
