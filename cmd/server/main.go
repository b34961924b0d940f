package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	closeLog, err := config.SetupLogging(cfg, false)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Starting pong server...")
	session := pong.NewSession(pong.DefaultBoard(), cfg.Seed)
	go func() {
		if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("session stopped", slog.Any("error", err))
		}
	}()

	srv := netwrk.NewServer(session)
	go func() {
		if err := srv.ListenTCP(ctx, cfg.ListenAddr); err != nil {
			slog.Error("game listener stopped", slog.Any("error", err))
			stop()
		}
	}()

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: netwrk.Router(session, srv, netwrk.NewViewers(session)),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	slog.Info("session ready",
		slog.String("session", session.ID.String()),
		slog.String("game_addr", cfg.ListenAddr),
		slog.String("http_addr", cfg.HTTPAddr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start http server: %v", err)
	}
	fmt.Println("Server stopped")
}
