package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pongsim/internal/client"
	"pongsim/internal/config"
	"pongsim/internal/netwrk"
	"pongsim/internal/pong"
)

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

	fmt.Println("Connecting to", cfg.ServerAddr)
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	conn, err := netwrk.Dial(dialCtx, cfg.ServerAddr)
	cancel()
	if err != nil {
		fmt.Println("Sorry, failed to connect to server...", err)
		os.Exit(1)
	}
	defer conn.Close()

	err = client.Game(ctx, conn, pong.DefaultBoard())
	switch {
	case errors.Is(err, client.ErrDisconnected):
		fmt.Println("Server disconnected, sorry...")
	case err != nil && !errors.Is(err, context.Canceled):
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
