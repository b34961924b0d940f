package pong

type Key int

const (
	KeyUnknown Key = iota
	KeyArrowUp
	KeyArrowDown
	KeyW
	KeyS
)

func (k Key) String() string {
	switch k {
	case KeyArrowUp:
		return "ArrowUp"
	case KeyArrowDown:
		return "ArrowDown"
	case KeyW:
		return "w"
	case KeyS:
		return "s"
	default:
		return "unknown"
	}
}

// ParseKey maps a DOM-style key identifier onto a Key. Names match
// exactly, so a shifted "W" or "S" is unknown.
func ParseKey(name string) Key {
	switch name {
	case "ArrowUp":
		return KeyArrowUp
	case "ArrowDown":
		return KeyArrowDown
	case "w":
		return KeyW
	case "s":
		return KeyS
	}
	return KeyUnknown
}

// PaddleStep is the displacement applied per key press. It is zero while
// the user has paused, so keys are accepted but nothing moves.
func (g *Game) PaddleStep() float64 {
	if g.phase == PausedByUser {
		return 0
	}
	return g.board.PaddleStep
}

// KeyDown moves the paddle bound to k. Keys are ignored until the game
// has been started.
func (g *Game) KeyDown(k Key) bool {
	if g.phase == NotStarted {
		return false
	}
	step := g.PaddleStep()
	switch k {
	case KeyArrowUp:
		g.right.Y = g.clampPaddle(g.right.Y - step)
	case KeyArrowDown:
		g.right.Y = g.clampPaddle(g.right.Y + step)
	case KeyW:
		g.left.Y = g.clampPaddle(g.left.Y - step)
	case KeyS:
		g.left.Y = g.clampPaddle(g.left.Y + step)
	default:
		return false
	}
	return true
}

func (g *Game) clampPaddle(y float64) float64 {
	return max(0, min(y, g.board.MaxPaddleY()))
}
