package pong

import (
	"fmt"
	"log/slog"
)

var taunts = [...]string{
	`"Looks like %s needs more practice!"`,
	`"Better luck next time, %s!"`,
	`"Is %s even trying? 😜"`,
	`"It's okay %s, losing builds character!"`,
	`"Don't worry %s, it's just a game!"`,
}

// Taunts lists every taunt that could be shown for the given loser.
func Taunts(loser Side) []string {
	out := make([]string, len(taunts))
	for i, t := range taunts {
		out[i] = fmt.Sprintf(t, loser)
	}
	return out
}

func (g *Game) scored(scorer Side, res TickResult) TickResult {
	res.Scored = true
	res.Scorer = scorer

	var total int
	if scorer == Left {
		g.score.Left++
		total = g.score.Left
	} else {
		g.score.Right++
		total = g.score.Right
	}

	if total == g.board.WinningScore {
		g.phase = GameOver
		g.message = ""
		// The scorer just reached the target first, so the opponent is
		// strictly behind.
		g.loser = scorer.Opponent()
		g.taunt = fmt.Sprintf(taunts[g.rng.Intn(len(taunts))], g.loser)
		res.GameOver = true
		slog.Info("game over", append(g.logAttrs(), slog.String("loser", g.loser.String()))...)
		return res
	}

	g.phase = PausedForScore
	g.message = fmt.Sprintf("%s Scored!", scorer)
	g.generation++
	res.Generation = g.generation
	slog.Debug("point scored", append(g.logAttrs(), slog.String("scorer", scorer.String()))...)
	return res
}

// ResumeAfterScore ends a post-score pause. A token from an earlier
// generation is discarded and false is returned.
func (g *Game) ResumeAfterScore(token uint64) bool {
	if token != g.generation || g.phase != PausedForScore {
		slog.Debug("discarding stale resume", slog.Uint64("token", token), slog.Uint64("generation", g.generation))
		return false
	}
	g.ball = g.board.serve()
	g.message = ""
	g.phase = Running
	return true
}

func (g *Game) Start() bool {
	if g.phase != NotStarted {
		return false
	}
	g.phase = Running
	slog.Debug("game started", g.logAttrs()...)
	return true
}

// TogglePause switches between Running and PausedByUser. Any other
// phase is left untouched.
func (g *Game) TogglePause() bool {
	switch g.phase {
	case Running:
		g.phase = PausedByUser
	case PausedByUser:
		g.phase = Running
	default:
		return false
	}
	slog.Debug("pause toggled", g.logAttrs()...)
	return true
}

// Restart zeroes the score, recenters ball and paddles and resumes
// play. It is a no-op before the first Start.
func (g *Game) Restart() bool {
	if g.phase == NotStarted {
		return false
	}
	g.reset()
	g.generation++
	g.phase = Running
	slog.Info("game restarted", g.logAttrs()...)
	return true
}
