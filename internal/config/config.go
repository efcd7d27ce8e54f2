package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	pkgconfig "github.com/Skotchmaster/card_collection/pkg/config"
	"github.com/Skotchmaster/card_collection/pkg/db"
)

type Config struct {
	ServerPort int
	LogLevel   string

	DBDriver    string
	DatabaseURL string
	AutoMigrate bool

	JWTSecret           []byte
	RefreshTokenSecret  []byte
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	RotateRefreshTokens bool

	KafkaBrokers []string
	EventsTopic  string
}

func Load() Config {
	pkgconfig.LoadDotEnv()

	return Config{
		ServerPort: pkgconfig.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   pkgconfig.EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    pkgconfig.EnvDefault("DB_DRIVER", db.DriverPostgres),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AutoMigrate: pkgconfig.EnvBoolDefault("AUTO_MIGRATE", true),

		JWTSecret:           []byte(os.Getenv("JWT_SECRET")),
		RefreshTokenSecret:  []byte(os.Getenv("REFRESH_TOKEN_SECRET")),
		AccessTokenTTL:      time.Duration(pkgconfig.EnvIntDefault("ACCESS_TOKEN_TTL_MINUTES", 15)) * time.Minute,
		RefreshTokenTTL:     time.Duration(pkgconfig.EnvIntDefault("REFRESH_TOKEN_TTL_HOURS", 7*24)) * time.Hour,
		RotateRefreshTokens: pkgconfig.EnvBoolDefault("ROTATE_REFRESH_TOKENS", false),

		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:  pkgconfig.EnvDefault("AUTH_EVENTS_TOPIC", "user_events"),
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("missing required env DATABASE_URL"))
	}
	if len(c.JWTSecret) == 0 {
		errs = append(errs, errors.New("missing required env JWT_SECRET"))
	}
	if len(c.RefreshTokenSecret) == 0 {
		errs = append(errs, errors.New("missing required env REFRESH_TOKEN_SECRET"))
	}
	if len(c.JWTSecret) > 0 && string(c.JWTSecret) == string(c.RefreshTokenSecret) {
		errs = append(errs, errors.New("JWT_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		errs = append(errs, fmt.Errorf("access token lifetime %s must be shorter than refresh lifetime %s", c.AccessTokenTTL, c.RefreshTokenTTL))
	}
	return errors.Join(errs...)
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
