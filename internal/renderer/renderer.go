package renderer

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"pongsim/internal/ansii"
	"pongsim/internal/pong"
)

const (
	textRows = 7
	minCols  = 24
	minRows  = 8
)

// Render draws snap sized to the current terminal.
func Render(w io.Writer, snap pong.Snapshot, board pong.Board) error {
	cols, rows, err := ansii.GetTermSize()
	if err != nil {
		slog.Debug("falling back to 80x24", slog.Any("error", err))
		cols, rows = 80, 24
	}
	_, err = io.WriteString(w, Frame(snap, board, cols, rows))
	return err
}

// Frame returns the escape sequence that paints one whole screen. The
// board is scaled to fit cols x rows, leaving room under it for the
// scoreboard and prompts.
func Frame(snap pong.Snapshot, board pong.Board, cols, rows int) string {
	innerW := max(cols-2, minCols)
	innerH := max(rows-2-textRows, minRows)
	sx := func(x float64) int { return int(x * float64(innerW) / board.Width) }
	sy := func(y float64) int { return int(y * float64(innerH) / board.Height) }

	var b strings.Builder
	b.WriteString(string(ansii.Screen.ClearScreen))
	b.WriteString(string(ansii.Screen.CursorHome))

	ansii.DrawBox(&b, ansii.Offset{X: 0, Y: 0}, innerH+2, innerW+2, ansii.Colors.Blue)

	paddleH := max(1, sy(board.PaddleHeight))
	top := func(y float64) int {
		return 1 + clamp(sy(y), 0, innerH-paddleH)
	}
	ansii.FillRect(&b, ansii.Offset{X: 1, Y: top(snap.Left.Y)}, paddleH, 1, ansii.Colors.Cyan)
	ansii.FillRect(&b, ansii.Offset{X: innerW, Y: top(snap.Right.Y)}, paddleH, 1, ansii.Colors.Purple)

	ball := ansii.Offset{
		X: 1 + clamp(sx(snap.Ball.Pos.X), 0, innerW-1),
		Y: 1 + clamp(sy(snap.Ball.Pos.Y), 0, innerH-1),
	}
	ansii.DrawPixelStyle(&b, ball, ansii.Blocks.Ball, ansii.Colors.Yellow)

	lines := statusLines(snap)
	for i, l := range lines {
		ansii.DrawText(&b, ansii.Offset{X: 0, Y: innerH + 2 + i}, l.text, l.style)
	}
	return b.String()
}

type line struct {
	text  string
	style ansii.ANSI
}

func statusLines(snap pong.Snapshot) []line {
	lines := []line{{
		text:  fmt.Sprintf("Player 1: %d    Player 2: %d", snap.Score.Left, snap.Score.Right),
		style: ansii.Styles.Bold,
	}}
	if snap.Message != "" {
		lines = append(lines, line{text: snap.Message, style: ansii.Colors.Green})
	}

	switch snap.Phase {
	case pong.NotStarted:
		lines = append(lines, line{text: "[space] Start Game", style: ansii.Styles.Plain})
	case pong.PausedByUser:
		lines = append(lines,
			line{text: "Paused", style: ansii.Colors.Yellow},
			line{text: "[p] Pause/Unpause", style: ansii.Styles.Plain})
	case pong.GameOver:
		lines = append(lines,
			line{text: "Game Over!", style: ansii.Colors.Red},
			line{text: snap.Loser + " is the loser!", style: ansii.Styles.Plain},
			line{text: "Funny Quote for the Loser:", style: ansii.Styles.Plain},
			line{text: snap.Taunt, style: ansii.Styles.Underline},
			line{text: "[r] Restart Game", style: ansii.Styles.Plain})
	default:
		lines = append(lines, line{text: "[p] Pause/Unpause", style: ansii.Styles.Plain})
	}

	lines = append(lines, line{text: "w/s: Player 1   ↑/↓: Player 2   [q] Quit", style: ansii.Styles.Plain})
	return lines
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
