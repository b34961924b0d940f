package pong

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

var ErrSessionClosed = errors.New("session closed")

type Action int

const (
	ActionNone Action = iota
	ActionKey
	ActionStart
	ActionTogglePause
	ActionRestart
)

func (a Action) String() string {
	switch a {
	case ActionKey:
		return "key"
	case ActionStart:
		return "start"
	case ActionTogglePause:
		return "pause"
	case ActionRestart:
		return "restart"
	default:
		return "none"
	}
}

// Command is a single input for a session: a key press or one of the
// button actions.
type Command struct {
	Action Action
	Key    Key
}

func KeyCommand(k Key) Command { return Command{Action: ActionKey, Key: k} }

// Session runs one Game on its own goroutine. The ball ticker only runs
// while the game is Running; post-score resumes arrive as generation
// tokens so that a restart during the pause wins.
type Session struct {
	ID   uuid.UUID
	game *Game

	ingress chan Command
	resume  chan uint64
	done    chan struct{}

	mu     sync.RWMutex
	last   Snapshot
	subs   map[int]chan Snapshot
	nextID int
	closed bool
}

func NewSession(board Board, seed uint64) *Session {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s := &Session{
		ID:      uuid.New(),
		game:    NewGame(board, rand.New(rand.NewSource(seed))),
		ingress: make(chan Command, 64),
		resume:  make(chan uint64, 4),
		done:    make(chan struct{}),
		subs:    map[int]chan Snapshot{},
	}
	s.last = s.snapshot()
	return s
}

// Send queues a command for the loop. It fails once Run has returned.
func (s *Session) Send(cmd Command) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.ingress <- cmd:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// Snapshot returns the most recently published state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Subscribe registers a snapshot listener with the given buffer. The
// current state is delivered first. Frames are dropped while the buffer
// is full. The returned func unsubscribes and closes the channel.
func (s *Session) Subscribe(buffer int) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, max(buffer, 1))

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.last
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Run drives the game until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer s.shutdown()

	var ticker *time.Ticker
	var tickC <-chan time.Time
	arm := func() {
		running := s.game.Phase() == Running
		switch {
		case running && ticker == nil:
			ticker = time.NewTicker(s.game.Board().TickPeriod)
			tickC = ticker.C
		case !running && ticker != nil:
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	slog.Debug("session started", slog.String("session", s.ID.String()))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-s.ingress:
			if s.apply(cmd) {
				arm()
				s.publish()
			}

		case <-tickC:
			res := s.game.Tick()
			if res.Scored && !res.GameOver {
				s.scheduleResume(res.Generation)
			}
			arm()
			s.publish()

		case token := <-s.resume:
			if s.game.ResumeAfterScore(token) {
				arm()
				s.publish()
			}
		}
	}
}

func (s *Session) apply(cmd Command) bool {
	switch cmd.Action {
	case ActionKey:
		return s.game.KeyDown(cmd.Key)
	case ActionStart:
		return s.game.Start()
	case ActionTogglePause:
		return s.game.TogglePause()
	case ActionRestart:
		return s.game.Restart()
	default:
		slog.Debug("ignoring command", slog.String("action", cmd.Action.String()))
		return false
	}
}

func (s *Session) scheduleResume(token uint64) {
	time.AfterFunc(s.game.Board().PauseDuration, func() {
		select {
		case s.resume <- token:
		case <-s.done:
		}
	})
}

func (s *Session) snapshot() Snapshot {
	snap := s.game.Snapshot()
	snap.SessionID = s.ID.String()
	return snap
}

func (s *Session) publish() {
	snap := s.snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = snap
	for id, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			slog.Debug("subscriber buffer full, dropping frame", slog.Int("subscriber", id))
		}
	}
}

func (s *Session) shutdown() {
	close(s.done)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	slog.Debug("session stopped", slog.String("session", s.ID.String()))
}
