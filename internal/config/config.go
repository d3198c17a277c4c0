package config

import (
	"context"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/kmalov/auth_service/internal/models"
	"github.com/kmalov/auth_service/pkg/config"
	"github.com/kmalov/auth_service/pkg/db"
)

type Config struct {
	ServiceName string
	ServerPort  int

	DatabaseURL string
	JWTSecret   []byte
	TokenTTL    time.Duration

	SendGridAPIKey        string
	SendGridResetTemplate string
	MailFrom              string

	KafkaBrokers []string

	LogLevel string
	Debug    bool
}

func Load() Config {
	return Config{
		ServiceName: config.EnvDefault("SERVICE_NAME", "auth"),
		ServerPort:  config.EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: config.MustEnv("DATABASE_URL"),
		JWTSecret:   config.MustEnvBytes("JWT_SECRET"),
		TokenTTL:    config.EnvDurationDefault("ACCESS_TOKEN_TTL", 7*24*time.Hour),

		SendGridAPIKey:        os.Getenv("SENDGRID_API_KEY"),
		SendGridResetTemplate: os.Getenv("SENDGRID_RESET_TEMPLATE"),
		MailFrom:              config.EnvDefault("MAIL_FROM", "no-reply@localhost"),

		KafkaBrokers: config.CSV(os.Getenv("KAFKA_BROKERS")),

		LogLevel: config.EnvDefault("LOG_LEVEL", "info"),
		Debug:    config.EnvBoolDefault("DEBUG", false),
	}
}

// InitDB opens the database and keeps the schema current. AutoMigrate is
// additive only, so running it on every start is safe.
func InitDB(ctx context.Context, cfg Config) (*gorm.DB, error) {
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.RevokedToken{}); err != nil {
		return nil, err
	}
	return gdb, nil
}
