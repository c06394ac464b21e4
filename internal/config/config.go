package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string `env:"ADDR" env-default:":8080"`
	DBPath   string `env:"DB_PATH" env-default:"readwithcard.db"`
	LogLevel string `env:"LOG_LEVEL" env-default:"INFO"`
	Timezone string `env:"TIMEZONE" env-default:"Local"`

	// Background review writes go through a single worker; this bounds its backlog.
	ReviewQueueSize int `env:"REVIEW_QUEUE_SIZE" env-default:"128"`

	CardAPIBaseURL    string        `env:"CARD_API_URL" env-default:"http://localhost:8000"`
	CardAPITimeout    time.Duration `env:"CARD_API_TIMEOUT" env-default:"30s"`
	NativeLanguage    string        `env:"NATIVE_LANGUAGE" env-default:"Turkish"`
	LearningLanguage  string        `env:"LEARNING_LANGUAGE" env-default:"English"`
	MaxImageBytes     int64         `env:"MAX_IMAGE_BYTES" env-default:"10485760"`
	MaxTextLength     int           `env:"MAX_TEXT_LENGTH" env-default:"1000"`
	ImageMaxDimension int           `env:"IMAGE_MAX_DIMENSION" env-default:"2048"`

	// Zero disables the due-card reminder.
	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" env-default:"1h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults from the struct tags, then validates the result.
func Load() (Config, error) {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	cfg.LogLevel = strings.ToUpper(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE is not a known location: %q", c.Timezone))
	}
	if c.ReviewQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("REVIEW_QUEUE_SIZE must be > 0 (got %d)", c.ReviewQueueSize))
	}
	if !strings.HasPrefix(c.CardAPIBaseURL, "http://") && !strings.HasPrefix(c.CardAPIBaseURL, "https://") {
		errs = append(errs, fmt.Errorf("CARD_API_URL must be an http(s) URL (got %q)", c.CardAPIBaseURL))
	}
	if c.CardAPITimeout <= 0 {
		errs = append(errs, fmt.Errorf("CARD_API_TIMEOUT must be > 0 (got %v)", c.CardAPITimeout))
	}
	if strings.TrimSpace(c.NativeLanguage) == "" || strings.TrimSpace(c.LearningLanguage) == "" {
		errs = append(errs, errors.New("NATIVE_LANGUAGE and LEARNING_LANGUAGE cannot be empty"))
	}
	if c.MaxImageBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_IMAGE_BYTES must be > 0 (got %d)", c.MaxImageBytes))
	}
	if c.MaxTextLength <= 0 {
		errs = append(errs, fmt.Errorf("MAX_TEXT_LENGTH must be > 0 (got %d)", c.MaxTextLength))
	}
	if c.ImageMaxDimension <= 0 {
		errs = append(errs, fmt.Errorf("IMAGE_MAX_DIMENSION must be > 0 (got %d)", c.ImageMaxDimension))
	}
	if c.ReminderInterval < 0 {
		errs = append(errs, fmt.Errorf("REMINDER_INTERVAL cannot be negative (got %v)", c.ReminderInterval))
	}

	return errors.Join(errs...)
}

// Location returns the time zone used for calendar-day bookkeeping.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
