package pong

import (
	"log/slog"

	"golang.org/x/exp/rand"
)

// Game is the authoritative match state. It is not safe for concurrent
// use; Session serializes every call onto one goroutine.
type Game struct {
	board Board
	rng   *rand.Rand

	phase   Phase
	left    Paddle
	right   Paddle
	ball    Ball
	score   Score
	message string
	loser   Side
	taunt   string

	tick       uint64
	generation uint64
}

// TickResult reports which branches a call to Tick took.
type TickResult struct {
	Ran          bool
	WallBounce   bool
	PaddleBounce bool
	Scored       bool
	Scorer       Side
	GameOver     bool
	// Token to hand back to ResumeAfterScore once the pause elapses.
	Generation uint64
}

func NewGame(board Board, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	g := &Game{board: board, rng: rng}
	g.reset()
	return g
}

func (g *Game) reset() {
	g.left = Paddle{Y: g.board.centerPaddle()}
	g.right = Paddle{Y: g.board.centerPaddle()}
	g.ball = g.board.serve()
	g.score = Score{}
	g.message = ""
	g.taunt = ""
}

func (g *Game) Board() Board { return g.board }
func (g *Game) Phase() Phase { return g.phase }

// Generation changes whenever a pending post-score resume must be ignored.
func (g *Game) Generation() uint64 { return g.generation }

// Tick advances the ball by one step. It does nothing unless the game
// is Running.
func (g *Game) Tick() TickResult {
	if g.phase != Running {
		return TickResult{}
	}
	g.tick++
	res := TickResult{Ran: true}
	b := g.board

	nx := g.ball.Pos.X + g.ball.Vel.X
	ny := g.ball.Pos.Y + g.ball.Vel.Y

	// Reflection flips velocity only; the ball may overshoot by one step.
	if ny <= 0 || ny >= b.Height-b.BallSize {
		g.ball.Vel.Y = -g.ball.Vel.Y
		res.WallBounce = true
	}

	// Goal lines are tested before paddles. A scoring tick does not
	// commit the candidate position.
	if nx <= 0 {
		return g.scored(Right, res)
	}
	if nx >= b.Width-b.BallSize {
		return g.scored(Left, res)
	}

	if g.hitsLeftPaddle(nx, ny) || g.hitsRightPaddle(nx, ny) {
		g.ball.Vel.X = -g.ball.Vel.X
		res.PaddleBounce = true
	}

	g.ball.Pos = Vector{X: nx, Y: ny}
	return res
}

func (g *Game) hitsLeftPaddle(x, y float64) bool {
	b := g.board
	return x <= b.PaddleWidth && overlaps(y, b.BallSize, g.left.Y, b.PaddleHeight)
}

func (g *Game) hitsRightPaddle(x, y float64) bool {
	b := g.board
	return x+b.BallSize >= b.Width-b.PaddleWidth && overlaps(y, b.BallSize, g.right.Y, b.PaddleHeight)
}

// overlaps reports whether [a, a+alen] and [b, b+blen] intersect,
// counting touching edges as contact.
func overlaps(a, alen, b, blen float64) bool {
	return a+alen >= b && a <= b+blen
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:    g.tick,
		Phase:   g.phase,
		Left:    g.left,
		Right:   g.right,
		Ball:    g.ball,
		Score:   g.score,
		Message: g.message,
	}
	if g.phase == GameOver {
		s.Loser = g.loser.String()
		s.Taunt = g.taunt
	}
	return s
}

func (g *Game) logAttrs() []any {
	return []any{
		slog.String("phase", g.phase.String()),
		slog.Int("left", g.score.Left),
		slog.Int("right", g.score.Right),
		slog.Uint64("generation", g.generation),
	}
}
