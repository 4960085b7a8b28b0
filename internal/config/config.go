// Package config resolves the configuration directory, API settings and the
// stored session.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// TokenFile is the stored session token filename.
	TokenFile = "token.json"

	// EnvFile is the optional dotenv file read from the working directory
	// and from the config directory.
	EnvFile = ".env"

	// DefaultAPIURL is the backend root used when nothing else is configured.
	DefaultAPIURL = "http://127.0.0.1:8000"

	// DefaultTasksPath is the task collection path under the API root.
	DefaultTasksPath = "/"
)

// Environment keys.
const (
	EnvAPIURL    = "TODO_API_URL"
	EnvTasksPath = "TODO_TASKS_PATH"
	EnvAPIRate   = "TODO_API_RATE"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the backend root URL.
	APIURL string

	// TasksPath is the task collection path under APIURL.
	TasksPath string

	// RateLimit caps requests per second; 0 means unlimited.
	RateLimit float64

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Input is where interactive prompts read from.
	Input io.Reader

	// Logger receives diagnostic output. Nil discards it.
	Logger *logrus.Logger
}

// New creates a Config with the default or specified config directory and
// resolves API settings from the environment, then .env files, then defaults.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	dotenv, err := readDotenv(EnvFile, filepath.Join(dir, EnvFile))
	if err != nil {
		return nil, err
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}

	cfg := &Config{
		Dir:       dir,
		APIURL:    DefaultAPIURL,
		TasksPath: DefaultTasksPath,
	}
	if v := strings.TrimSpace(lookup(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(lookup(EnvTasksPath)); v != "" {
		cfg.TasksPath = v
	}
	if v := strings.TrimSpace(lookup(EnvAPIRate)); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			return nil, fmt.Errorf("invalid %s: %s", EnvAPIRate, v)
		}
		cfg.RateLimit = rps
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	cfg.Logger = logger

	return cfg, nil
}

// readDotenv merges the given dotenv files; earlier files win.
// Missing files are skipped.
func readDotenv(paths ...string) (map[string]string, error) {
	merged := make(map[string]string)
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		vals, err := godotenv.Read(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		for k, v := range vals {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Log returns the configured logger, or one that discards everything.
func (c *Config) Log() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Stdin returns the prompt input, or an empty reader if none is set.
func (c *Config) Stdin() io.Reader {
	if c.Input != nil {
		return c.Input
	}
	return strings.NewReader("")
}

// TokenPath returns the path to the stored session token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
