package pong

import (
	"fmt"
	"time"
)

// Board holds the fixed geometry and timing of a match. Values are
// compiled in; there is no runtime physics configuration.
type Board struct {
	Width         float64
	Height        float64
	PaddleWidth   float64
	PaddleHeight  float64
	BallSize      float64
	PaddleStep    float64
	BallSpeed     float64
	PauseDuration time.Duration
	WinningScore  int
	TickPeriod    time.Duration
}

func DefaultBoard() Board {
	return Board{
		Width:         600,
		Height:        400,
		PaddleWidth:   10,
		PaddleHeight:  80,
		BallSize:      10,
		PaddleStep:    20,
		BallSpeed:     3,
		PauseDuration: 1000 * time.Millisecond,
		WinningScore:  3,
		TickPeriod:    20 * time.Millisecond,
	}
}

// Highest offset a paddle may take.
func (b Board) MaxPaddleY() float64 {
	return b.Height - b.PaddleHeight
}

func (b Board) centerPaddle() float64 {
	return b.Height/2 - b.PaddleHeight/2
}

func (b Board) serve() Ball {
	return Ball{
		Pos: Vector{X: b.Width/2 - b.BallSize/2, Y: b.Height/2 - b.BallSize/2},
		Vel: Vector{X: b.BallSpeed, Y: b.BallSpeed},
	}
}

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Paddle struct {
	Y float64 `json:"y"`
}

type Ball struct {
	Pos Vector `json:"pos"`
	Vel Vector `json:"vel"`
}

type Score struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Side names a player. Left is Player 1 (w/s), Right is Player 2 (arrows).
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "Player 1"
	}
	return "Player 2"
}

func (s Side) Opponent() Side {
	if s == Left {
		return Right
	}
	return Left
}

type Phase int

const (
	NotStarted Phase = iota
	Running
	PausedForScore
	PausedByUser
	GameOver
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case PausedForScore:
		return "paused_for_score"
	case PausedByUser:
		return "paused_by_user"
	case GameOver:
		return "game_over"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for c := NotStarted; c <= GameOver; c++ {
		if c.String() == string(b) {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	SessionID string `json:"session_id"`
	Tick      uint64 `json:"tick"`
	Phase     Phase  `json:"phase"`
	Left      Paddle `json:"left"`
	Right     Paddle `json:"right"`
	Ball      Ball   `json:"ball"`
	Score     Score  `json:"score"`
	Message   string `json:"message,omitempty"`
	Loser     string `json:"loser,omitempty"`
	Taunt     string `json:"taunt,omitempty"`
}
