package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppPort string

	MongoURI string
	MongoDB  string

	RedisAddr string
	RedisDB   int

	StripeSecretKey     string
	StripeWebhookSecret string

	// Externally reachable base URL the provider redirects back to.
	ClientBaseURL string

	FeeAmountCents int64
	FeeCurrency    string

	IdempTTLSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		MongoURI: getenv("MONGO_URI", "mongodb://mongo:27017"),
		MongoDB:  getenv("MONGO_DB", "loanflow"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		ClientBaseURL: getenv("CLIENT_BASE_URL", "http://localhost:3000"),

		FeeAmountCents: 1000,
		FeeCurrency:    getenv("FEE_CURRENCY", "usd"),

		IdempTTLSecs: 300,
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("FEE_AMOUNT_CENTS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.FeeAmountCents = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MongoURI == "" || c.MongoDB == "" {
		return errors.New("missing Mongo config (MONGO_URI/MONGO_DB)")
	}
	if c.StripeSecretKey == "" || c.StripeWebhookSecret == "" {
		return errors.New("missing Stripe config (STRIPE_SECRET_KEY/STRIPE_WEBHOOK_SECRET)")
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	// redirect targets are built by simple concatenation
	c.ClientBaseURL = strings.TrimRight(c.ClientBaseURL, "/")
	return nil
}
