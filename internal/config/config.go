package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var Config Configuration

type Configuration struct {
	LogLevel   int    `json:"logLevel"`
	LogFile    string `json:"logFile"`
	ListenAddr string `json:"listenAddr"`
	HTTPAddr   string `json:"httpAddr"`
	ServerAddr string `json:"serverAddr"`
	// Seed for the taunt picker. Zero seeds from the clock.
	Seed uint64 `json:"seed"`
}

func Defaults() Configuration {
	return Configuration{
		LogLevel:   int(slog.LevelInfo),
		LogFile:    "pong.log",
		ListenAddr: "127.0.0.1:12345",
		HTTPAddr:   "127.0.0.1:8080",
		ServerAddr: "127.0.0.1:12345",
	}
}

// LoadConfig reads the JSON file at path (config.json when empty) over
// the defaults, then applies .env and PONG_* environment overrides.
// A missing or malformed file is not fatal.
func LoadConfig(path string) Configuration {
	c := Defaults()

	if path == "" {
		path = "config.json"
	}
	cf, err := os.ReadFile(path)
	if err != nil {
		slog.Info("failed to open config at path provided, using default config instead", slog.String("path", path))
	} else if err := json.Unmarshal(cf, &c); err != nil {
		slog.Info("failed to read configuration, using default config instead...", slog.Any("error", err))
		c = Defaults()
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	c.LogLevel = getEnvInt("PONG_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("PONG_LOG_FILE", c.LogFile)
	c.ListenAddr = getEnv("PONG_LISTEN_ADDR", c.ListenAddr)
	c.HTTPAddr = getEnv("PONG_HTTP_ADDR", c.HTTPAddr)
	c.ServerAddr = getEnv("PONG_SERVER_ADDR", c.ServerAddr)
	c.Seed = getEnvUint("PONG_SEED", c.Seed)

	Config = c
	return c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}
