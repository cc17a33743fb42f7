package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type TokenConfig struct {
	// Secret is stretched into the signing key. When empty a random key is
	// generated, so tokens only live as long as the process.
	Secret   string        `mapstructure:"secret"`
	Lifetime time.Duration `mapstructure:"lifetime"`
	Issuer   string        `mapstructure:"issuer"`
}

type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type GameConfig struct {
	Size       int    `mapstructure:"size"`
	Difficulty string `mapstructure:"difficulty"`
}

type Config struct {
	Mode    string        `mapstructure:"mode"`
	Addr    string        `mapstructure:"addr"`
	Log     LogConfig     `mapstructure:"log"`
	Session SessionConfig `mapstructure:"session"`
	Token   TokenConfig   `mapstructure:"token"`
	Cors    CorsConfig    `mapstructure:"cors"`
	Game    GameConfig    `mapstructure:"game"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "development")
	v.SetDefault("addr", ":8080")

	v.SetDefault("log.level", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.cleanup_interval", 5*time.Minute)

	v.SetDefault("token.secret", "")
	v.SetDefault("token.lifetime", 24*time.Hour)
	v.SetDefault("token.issuer", "minesweeper")

	v.SetDefault("cors.allowed_origins", []string{})

	v.SetDefault("game.size", 0)
	v.SetDefault("game.difficulty", "")
}

// Load reads the config file at path, if any, on top of the defaults and
// applies MINES_* environment overrides (MINES_SESSION_TTL for session.ttl).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MINES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Mode {
	case "development", "production":
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	if c.Token.Lifetime <= 0 {
		errs = append(errs, errors.New("token.lifetime must be positive"))
	}
	if c.Game.Size != 0 {
		if c.Game.Size < mines.MinSize || c.Game.Size > mines.MaxSize {
			errs = append(errs, fmt.Errorf(
				"game.size must be within [%d, %d]", mines.MinSize, mines.MaxSize,
			))
		}
	}
	if c.Game.Difficulty != "" {
		if _, err := mines.ParseDifficulty(c.Game.Difficulty); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

// LogLevel is the configured level, or debug in development and info in
// production when none is set.
func (c Config) LogLevel() logrus.Level {
	if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
		return level
	}
	if c.Development() {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

// Difficulty returns the configured default difficulty, 0 if none.
func (c Config) Difficulty() mines.Difficulty {
	d, err := mines.ParseDifficulty(c.Game.Difficulty)
	if err != nil {
		return 0
	}
	return d
}

// Fields is a loggable view of the config without secrets.
func (c Config) Fields() logrus.Fields {
	return logrus.Fields{
		"mode":                     c.Mode,
		"addr":                     c.Addr,
		"log_level":                c.LogLevel().String(),
		"log_file":                 c.Log.File,
		"session_ttl":              c.Session.TTL.String(),
		"session_cleanup_interval": c.Session.CleanupInterval.String(),
		"token_lifetime":           c.Token.Lifetime.String(),
		"token_issuer":             c.Token.Issuer,
		"token_secret_set":         c.Token.Secret != "",
		"cors_allowed_origins":     c.Cors.AllowedOrigins,
		"game_size":                c.Game.Size,
		"game_difficulty":          c.Game.Difficulty,
	}
}
