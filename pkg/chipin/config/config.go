// Package config loads runtime settings from the environment. Settings are
// parsed once at startup and passed to handlers explicitly; nothing in the
// rest of the codebase reads the environment directly.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings for the server.
type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	DBPath string `env:"CHIPIN_DB_PATH" envDefault:"chipin.db"`

	// SiteOrigin is the externally visible origin used when building
	// invitation acceptance links.
	SiteOrigin string `env:"SITE_ORIGIN" envDefault:"http://localhost:8080"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"chipin-dev-secret-change-in-production"`

	// Web3FormsAccessKey identifies this site to the external form-relay
	// service that delivers invitation emails.
	Web3FormsAccessKey string `env:"WEB3FORMS_ACCESS_KEY"`

	// RecaptchaSecretKey is the server-side key for the bot-verification
	// service. Empty means verification is skipped (local development).
	RecaptchaSecretKey string        `env:"RECAPTCHA_SECRET_KEY"`
	RecaptchaTimeout   time.Duration `env:"RECAPTCHA_TIMEOUT" envDefault:"3s"`

	// DemoAutoAcceptInvites relaxes the accept-invite flow for demo
	// deployments: the response signals that the invitee session may be
	// established without a fresh login.
	DemoAutoAcceptInvites bool `env:"DEMO_AUTO_ACCEPT_INVITES" envDefault:"false"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
