// Package config resolves server startup configuration from, in order of
// precedence, CLI flags, environment variables (optionally loaded from a
// .env file), then built-in defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/paularlott/cli"
)

// Defaults, used when neither a flag nor an environment variable supplies
// a value.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 8765
	DefaultLogLevel = "info"
)

// Config holds the resolved startup configuration for the relaymcpd
// server.
type Config struct {
	Host      string
	Port      int
	ToolRepos []string
	LogLevel  string
}

// Addr returns the host:port string to listen on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

const (
	envHost      = "RELAYMCP_HOST"
	envPort      = "RELAYMCP_PORT"
	envToolRepos = "RELAYMCP_TOOL_REPOS"
	envLogLevel  = "RELAYMCP_LOG_LEVEL"
)

// Load builds a Config from argv, the environment, and an optional .env
// file in the working directory. A missing .env file is not an error; any
// other failure reading one is.
//
// Precedence is CLI flag > environment/.env > built-in default, resolved
// flag by flag rather than wholesale, so e.g. --port 9000 with
// RELAYMCP_HOST set in .env combines both overrides.
func Load(argv []string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	cfg := &Config{
		Host:     envOr(envHost, DefaultHost),
		Port:     envIntOr(envPort, DefaultPort),
		LogLevel: DefaultLogLevel,
	}
	if repos := os.Getenv(envToolRepos); repos != "" {
		cfg.ToolRepos = splitNonEmpty(repos, ",")
	}
	if level := os.Getenv(envLogLevel); level != "" {
		cfg.LogLevel = level
	}

	hostFlag := cli.StringFlag{
		Name:  "host",
		Usage: "address to listen on",
		Value: cfg.Host,
	}
	portFlag := cli.IntFlag{
		Name:  "port",
		Usage: "port to listen on",
		Value: cfg.Port,
	}
	toolRepoFlag := cli.StringSliceFlag{
		Name:  "tool-repo",
		Usage: "directory to load tool plugins from; may be repeated",
	}
	logLevelFlag := cli.StringFlag{
		Name:  "log-level",
		Usage: "debug, info, warn, or error",
		Value: string(cfg.LogLevel),
	}

	app := &cli.Command{
		Name:  "relaymcpd",
		Usage: "relaymcp server",
		Flags: []cli.Flag{&hostFlag, &portFlag, &toolRepoFlag, &logLevelFlag},
		Action: func(c *cli.Context) error {
			cfg.Host = hostFlag.Value
			cfg.Port = portFlag.Value
			if repos := toolRepoFlag.Value; len(repos) > 0 {
				cfg.ToolRepos = repos
			}
			cfg.LogLevel = logLevelFlag.Value
			return nil
		},
	}

	if err := app.Run(argv); err != nil {
		return nil, fmt.Errorf("config: parsing arguments: %w", err)
	}

	return cfg, nil
}

// ParseLogLevel turns the configured level string into an slog.Level,
// defaulting to info on an unrecognized value rather than failing startup
// over a typo.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
