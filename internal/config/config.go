package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	UIWeb      = "web"
	UITerminal = "terminal"
)

var (
	ErrUnknownUI        = errors.New("unknown ui")
	ErrInvalidBoardSize = errors.New("board size must be at least 1")
	ErrInvalidTTL       = errors.New("session ttl must be positive")
)

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFile    string        `yaml:"log-file" env:"LOG_FILE"`
	HTTPPort   string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	UI         string        `yaml:"ui" env:"UI" env-default:"web"`
	BoardSize  int           `yaml:"board-size" env:"BOARD_SIZE"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"SESSION_TTL"`
}

const (
	defaultBoardSize  = 4
	defaultSessionTTL = 30 * time.Minute
)

// MustLoad - loads config.yml at path with env overrides. Without the file
// only env vars and defaults are used.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load - reads the config. BoardSize and SessionTTL are preset instead of
// using env-default, which would also replace an explicit zero.
func Load(path string) (*Config, error) {
	config := &Config{
		BoardSize:  defaultBoardSize,
		SessionTTL: defaultSessionTTL,
	}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	} else if err = cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to read env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) Validate() error {
	if that.UI != UIWeb && that.UI != UITerminal {
		return fmt.Errorf("%w: %q", ErrUnknownUI, that.UI)
	}

	if that.BoardSize < 1 {
		return ErrInvalidBoardSize
	}

	if that.SessionTTL <= 0 {
		return ErrInvalidTTL
	}

	return nil
}
