package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppHost string `envconfig:"APP_HOST" default:"localhost"`
	AppPort string `envconfig:"APP_PORT" default:"3000"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"12h"`

	UploadDir string `envconfig:"UPLOAD_DIR" default:"./uploads"`

	SMTPHost string `envconfig:"SMTP_HOST"`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER"`
	SMTPPass string `envconfig:"SMTP_PASS"`

	// NotifyEmail receives the moderation and account emails.
	NotifyEmail string `envconfig:"NOTIFY_EMAIL"`

	// RabbitURL is optional; without it events are only logged.
	RabbitURL string `envconfig:"RABBIT_URL"`
	Exchange  string `envconfig:"EVENT_EXCHANGE" default:"photoshare.events"`
	Queue     string `envconfig:"EVENT_QUEUE" default:"photoshare.notifications"`
}

func (c Config) ListenAddr() string {
	return c.AppHost + ":" + c.AppPort
}

func LoadConfig() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
