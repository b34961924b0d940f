package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"pongsim/internal/ansii"
	"pongsim/internal/pong"
	"pongsim/internal/renderer"
)

var ErrDisconnected = errors.New("game stream ended")

// Source is anything that produces snapshots and accepts commands: a
// local *pong.Session or a remote *netwrk.Conn.
type Source interface {
	Send(pong.Command) error
	Subscribe(buffer int) (<-chan pong.Snapshot, func())
}

// Game puts the terminal in raw mode and plays src on stdin/stdout
// until the user quits.
func Game(ctx context.Context, src Source, board pong.Board) error {
	if ansii.IsTerminal() {
		prev, err := ansii.MakeTermRaw()
		if err != nil {
			return fmt.Errorf("making terminal raw: %w", err)
		}
		defer ansii.RestoreTerm(prev)
	}

	os.Stdout.WriteString(string(ansii.Screen.HideCursor))
	defer os.Stdout.WriteString(string(ansii.Screen.ShowCursor) + string(ansii.Screen.ClearScreen) + string(ansii.Screen.CursorHome))

	return Play(ctx, src, board, os.Stdin, os.Stdout)
}

// Play renders every snapshot from src to out and turns key presses
// read from in into commands. It returns nil when the user quits.
func Play(ctx context.Context, src Source, board pong.Board, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates, unsubscribe := src.Subscribe(8)
	defer unsubscribe()

	inputs := make(chan renderer.UiAction)
	// Input handler
	go func() {
		defer close(inputs)
		buf := make([]byte, 64)
		for {
			n, err := in.Read(buf)
			if err != nil {
				slog.Debug("input closed", slog.Any("error", err))
				return
			}
			// A single read can hold several presses.
			for raw := buf[:n]; len(raw) > 0; {
				action, used := renderer.NextInput(raw)
				raw = raw[used:]
				select {
				case inputs <- action:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case snap, ok := <-updates:
			if !ok {
				return ErrDisconnected
			}
			if err := renderer.Render(out, snap, board); err != nil {
				return fmt.Errorf("rendering: %w", err)
			}

		case action, ok := <-inputs:
			if !ok || action == renderer.Quit || action == renderer.CtrlC {
				return nil
			}
			cmd, ok := renderer.Command(action)
			if !ok {
				continue
			}
			if err := src.Send(cmd); err != nil {
				return fmt.Errorf("sending %s: %w", cmd.Action, err)
			}
		}
	}
}
