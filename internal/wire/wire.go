// Package wire encodes the messages exchanged between a pong host and
// its terminal client. Each frame is a uvarint length followed by a
// protobuf Envelope carrying either a Snapshot or a Command.
package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"pongsim/internal/pong"
)

const MaxFrameSize = 64 << 10

var (
	ErrUnknownFrame  = errors.New("frame carries neither snapshot nor command")
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")
)

// Frame holds exactly one of Snapshot or Command.
type Frame struct {
	Snapshot *pong.Snapshot
	Command  *pong.Command
}

func Marshal(f Frame) ([]byte, error) {
	env := dynamicpb.NewMessage(envelopeDesc)
	switch {
	case f.Snapshot != nil:
		set(env, "snapshot", protoreflect.ValueOfMessage(snapshotMessage(*f.Snapshot)))
	case f.Command != nil:
		set(env, "command", protoreflect.ValueOfMessage(commandMessage(*f.Command)))
	default:
		return nil, ErrUnknownFrame
	}
	b, err := proto.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	return b, nil
}

// Unmarshal decodes one frame body. Fields it does not know are skipped.
func Unmarshal(b []byte) (Frame, error) {
	env := dynamicpb.NewMessage(envelopeDesc)
	if err := proto.Unmarshal(b, env); err != nil {
		return Frame{}, fmt.Errorf("decoding frame: %w", err)
	}

	var f Frame
	switch {
	case has(env, "snapshot"):
		s := snapshotFrom(get(env, "snapshot").Message())
		f.Snapshot = &s
	case has(env, "command"):
		c := commandFrom(get(env, "command").Message())
		f.Command = &c
	default:
		return Frame{}, ErrUnknownFrame
	}
	return f, nil
}

// WriteFrame writes one length-prefixed frame to w.
func WriteFrame(w io.Writer, f Frame) error {
	body, err := Marshal(f)
	if err != nil {
		return err
	}
	buf := protowire.AppendVarint(make([]byte, 0, len(body)+3), uint64(len(body)))
	buf = append(buf, body...)
	_, err = w.Write(buf)
	return err
}

type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadFrame blocks until a whole frame is available. io.EOF is returned
// untouched when the stream ends cleanly between frames.
func (r *Reader) ReadFrame() (Frame, error) {
	size, err := binary.ReadUvarint(r.r)
	if err != nil {
		return Frame{}, err
	}
	if size > MaxFrameSize {
		return Frame{}, ErrFrameTooLarge
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r.r, body); err != nil {
		return Frame{}, fmt.Errorf("reading frame body: %w", err)
	}
	return Unmarshal(body)
}

func snapshotMessage(s pong.Snapshot) *dynamicpb.Message {
	m := dynamicpb.NewMessage(snapshotDesc)
	set(m, "session_id", protoreflect.ValueOfString(s.SessionID))
	set(m, "tick", protoreflect.ValueOfUint64(s.Tick))
	set(m, "phase", protoreflect.ValueOfUint32(uint32(s.Phase)))
	set(m, "left_y", protoreflect.ValueOfFloat64(s.Left.Y))
	set(m, "right_y", protoreflect.ValueOfFloat64(s.Right.Y))
	set(m, "ball_x", protoreflect.ValueOfFloat64(s.Ball.Pos.X))
	set(m, "ball_y", protoreflect.ValueOfFloat64(s.Ball.Pos.Y))
	set(m, "ball_vx", protoreflect.ValueOfFloat64(s.Ball.Vel.X))
	set(m, "ball_vy", protoreflect.ValueOfFloat64(s.Ball.Vel.Y))
	set(m, "score_left", protoreflect.ValueOfInt32(int32(s.Score.Left)))
	set(m, "score_right", protoreflect.ValueOfInt32(int32(s.Score.Right)))
	set(m, "message", protoreflect.ValueOfString(s.Message))
	set(m, "loser", protoreflect.ValueOfString(s.Loser))
	set(m, "taunt", protoreflect.ValueOfString(s.Taunt))
	return m
}

func snapshotFrom(m protoreflect.Message) pong.Snapshot {
	var s pong.Snapshot
	s.SessionID = get(m, "session_id").String()
	s.Tick = get(m, "tick").Uint()
	s.Phase = pong.Phase(get(m, "phase").Uint())
	s.Left.Y = get(m, "left_y").Float()
	s.Right.Y = get(m, "right_y").Float()
	s.Ball.Pos.X = get(m, "ball_x").Float()
	s.Ball.Pos.Y = get(m, "ball_y").Float()
	s.Ball.Vel.X = get(m, "ball_vx").Float()
	s.Ball.Vel.Y = get(m, "ball_vy").Float()
	s.Score.Left = int(get(m, "score_left").Int())
	s.Score.Right = int(get(m, "score_right").Int())
	s.Message = get(m, "message").String()
	s.Loser = get(m, "loser").String()
	s.Taunt = get(m, "taunt").String()
	return s
}

func commandMessage(c pong.Command) *dynamicpb.Message {
	m := dynamicpb.NewMessage(commandDesc)
	set(m, "action", protoreflect.ValueOfUint32(uint32(c.Action)))
	set(m, "key", protoreflect.ValueOfUint32(uint32(c.Key)))
	return m
}

func commandFrom(m protoreflect.Message) pong.Command {
	return pong.Command{
		Action: pong.Action(get(m, "action").Uint()),
		Key:    pong.Key(get(m, "key").Uint()),
	}
}

func set(m protoreflect.Message, name protoreflect.Name, v protoreflect.Value) {
	m.Set(m.Descriptor().Fields().ByName(name), v)
}

func get(m protoreflect.Message, name protoreflect.Name) protoreflect.Value {
	return m.Get(m.Descriptor().Fields().ByName(name))
}

func has(m protoreflect.Message, name protoreflect.Name) bool {
	return m.Has(m.Descriptor().Fields().ByName(name))
}
