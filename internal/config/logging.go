package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogging installs the default slog logger at the configured level.
// Terminal front ends pass toFile so that log lines do not land on the
// raw-mode screen; the returned func closes the file.
func SetupLogging(c Configuration, toFile bool) (func(), error) {
	var w io.Writer = os.Stderr
	closer := func() {}
	if toFile && c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closer, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.Level(c.LogLevel)})))
	return closer, nil
}
