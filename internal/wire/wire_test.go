package wire

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"pongsim/internal/pong"
)

func sampleSnapshot() pong.Snapshot {
	return pong.Snapshot{
		SessionID: "2f6c1a4e-0a9b-4a51-9a4d-3f8e6c1d2b7a",
		Tick:      1234,
		Phase:     pong.GameOver,
		Left:      pong.Paddle{Y: 0},
		Right:     pong.Paddle{Y: 320},
		Ball:      pong.Ball{Pos: pong.Vector{X: 591.5, Y: -2}, Vel: pong.Vector{X: 3, Y: -3}},
		Score:     pong.Score{Left: 3, Right: 1},
		Loser:     "Player 2",
		Taunt:     `"Is Player 2 even trying? 😜"`,
	}
}

func TestFramesSurviveAStream(t *testing.T) {
	snap := sampleSnapshot()
	cmd := pong.KeyCommand(pong.KeyArrowDown)
	restart := pong.Command{Action: pong.ActionRestart}

	var buf bytes.Buffer
	for _, f := range []Frame{{Snapshot: &snap}, {Command: &cmd}, {Command: &restart}} {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}

	r := NewReader(&buf)

	f, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.Snapshot == nil || *f.Snapshot != snap {
		t.Errorf("snapshot = %+v, want %+v", f.Snapshot, snap)
	}

	f, err = r.ReadFrame()
	if err != nil || f.Command == nil || *f.Command != cmd {
		t.Errorf("second frame = %+v, %v", f, err)
	}
	f, err = r.ReadFrame()
	if err != nil || f.Command == nil || *f.Command != restart {
		t.Errorf("third frame = %+v, %v", f, err)
	}

	if _, err := r.ReadFrame(); err != io.EOF {
		t.Errorf("end of stream = %v, want io.EOF", err)
	}
}

func TestZeroSnapshotStillDecodes(t *testing.T) {
	b, err := Marshal(Frame{Snapshot: &pong.Snapshot{}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	f, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if f.Snapshot == nil || *f.Snapshot != (pong.Snapshot{}) {
		t.Errorf("got %+v", f.Snapshot)
	}
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	cmd := pong.Command{Action: pong.ActionTogglePause}
	b, _ := Marshal(Frame{Command: &cmd})
	b = protowire.AppendTag(b, 15, protowire.BytesType)
	b = protowire.AppendString(b, "from a newer client")
	b = protowire.AppendTag(b, 16, protowire.VarintType)
	b = protowire.AppendVarint(b, 99)

	f, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if f.Command == nil || *f.Command != cmd {
		t.Errorf("command = %+v", f.Command)
	}
}

func TestCommandFieldNumbers(t *testing.T) {
	cmd := pong.KeyCommand(pong.KeyS)
	b, err := Marshal(Frame{Command: &cmd})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	num, typ, n := protowire.ConsumeTag(b)
	if n < 0 || num != 2 || typ != protowire.BytesType {
		t.Fatalf("envelope tag = %d/%d, want command field 2", num, typ)
	}
	body, n := protowire.ConsumeBytes(b[n:])
	if n < 0 {
		t.Fatalf("envelope body: %v", protowire.ParseError(n))
	}
	fields := map[protowire.Number]uint64{}
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 || typ != protowire.VarintType {
			t.Fatalf("command field %d has type %d", num, typ)
		}
		v, m := protowire.ConsumeVarint(body[n:])
		if m < 0 {
			t.Fatalf("command field %d: %v", num, protowire.ParseError(m))
		}
		fields[num] = v
		body = body[n+m:]
	}
	if fields[1] != uint64(pong.ActionKey) || fields[2] != uint64(pong.KeyS) {
		t.Errorf("command fields = %v, want action %d key %d", fields, pong.ActionKey, pong.KeyS)
	}
}

func TestBadFrames(t *testing.T) {
	if _, err := Marshal(Frame{}); !errors.Is(err, ErrUnknownFrame) {
		t.Errorf("empty Marshal = %v", err)
	}
	if _, err := Unmarshal(nil); !errors.Is(err, ErrUnknownFrame) {
		t.Errorf("empty Unmarshal = %v", err)
	}
	if _, err := Unmarshal([]byte{0x0a, 0x05, 0x01}); err == nil {
		t.Errorf("truncated frame decoded")
	}

	var buf bytes.Buffer
	buf.Write(protowire.AppendVarint(nil, MaxFrameSize+1))
	if _, err := NewReader(&buf).ReadFrame(); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("oversized frame = %v", err)
	}

	buf.Reset()
	buf.Write(protowire.AppendVarint(nil, 10))
	buf.Write([]byte{0x12, 0x02})
	if _, err := NewReader(&buf).ReadFrame(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("short body = %v, want io.ErrUnexpectedEOF", err)
	}
}
