package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pongsim/internal/client"
	"pongsim/internal/config"
	"pongsim/internal/pong"
)

// Local two-player game: w/s for the left paddle, arrows for the right.
func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg := config.LoadConfig(path)
	closeLog, err := config.SetupLogging(cfg, true)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	board := pong.DefaultBoard()
	session := pong.NewSession(board, cfg.Seed)

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go session.Run(sessionCtx)

	err = client.Game(ctx, session, board)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
