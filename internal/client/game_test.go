package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"pongsim/internal/pong"
)

type fakeSource struct {
	mu      sync.Mutex
	sent    []pong.Command
	updates chan pong.Snapshot
}

func (f *fakeSource) Send(cmd pong.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *fakeSource) Subscribe(int) (<-chan pong.Snapshot, func()) {
	return f.updates, func() {}
}

func (f *fakeSource) commands() []pong.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pong.Command(nil), f.sent...)
}

// slowReader hands out one chunk per Read, like a raw terminal does.
type slowReader struct {
	chunks [][]byte
}

func (r *slowReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	time.Sleep(5 * time.Millisecond)
	n := copy(p, r.chunks[0])
	r.chunks = r.chunks[1:]
	return n, nil
}

func TestPlayForwardsKeysUntilQuit(t *testing.T) {
	src := &fakeSource{updates: make(chan pong.Snapshot, 1)}
	src.updates <- pong.Snapshot{Score: pong.Score{Left: 2, Right: 1}}
	in := &slowReader{chunks: [][]byte{
		[]byte(" "), []byte("w"), {27, '[', 'B'}, []byte("x"), []byte("p"), []byte("q"), []byte("r"),
	}}
	var out bytes.Buffer

	err := Play(context.Background(), src, pong.DefaultBoard(), in, &out)

	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	want := []pong.Command{
		{Action: pong.ActionStart},
		pong.KeyCommand(pong.KeyW),
		pong.KeyCommand(pong.KeyArrowDown),
		{Action: pong.ActionTogglePause},
	}
	got := src.commands()
	if len(got) != len(want) {
		t.Fatalf("sent %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if !strings.Contains(out.String(), "Player 1: 2    Player 2: 1") {
		t.Errorf("snapshot was not rendered")
	}
}

func TestPlayForwardsEveryKeyInABatchedRead(t *testing.T) {
	src := &fakeSource{updates: make(chan pong.Snapshot)}
	in := &slowReader{chunks: [][]byte{
		[]byte("ww"), {27, '[', 'A', 27, '[', 'A'}, []byte("q"),
	}}

	err := Play(context.Background(), src, pong.DefaultBoard(), in, io.Discard)

	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	want := []pong.Command{
		pong.KeyCommand(pong.KeyW),
		pong.KeyCommand(pong.KeyW),
		pong.KeyCommand(pong.KeyArrowUp),
		pong.KeyCommand(pong.KeyArrowUp),
	}
	got := src.commands()
	if len(got) != len(want) {
		t.Fatalf("sent %+v for %d key presses", got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPlayEndsWhenStreamCloses(t *testing.T) {
	src := &fakeSource{updates: make(chan pong.Snapshot)}
	close(src.updates)
	in := &pressReader{keys: make(chan []byte), read: make(chan struct{})}
	before := runtime.NumGoroutine()

	err := Play(context.Background(), src, pong.DefaultBoard(), in, io.Discard)

	if !errors.Is(err, ErrDisconnected) {
		t.Errorf("Play = %v, want ErrDisconnected", err)
	}

	// A key pressed after Play returned must not strand the input reader.
	<-in.read
	in.keys <- []byte("w")
	deadline := time.Now().Add(time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("input reader still running after Play returned")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// pressReader delivers one chunk per key sent on keys and signals read
// each time Read is entered.
type pressReader struct {
	keys chan []byte
	read chan struct{}
}

func (r *pressReader) Read(p []byte) (int, error) {
	r.read <- struct{}{}
	return copy(p, <-r.keys), nil
}
