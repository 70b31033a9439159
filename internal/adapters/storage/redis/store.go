package redis

import (
	"time"

	backend "github.com/redis/go-redis/v9"
)

// config is shared by the session and history stores.
type config struct {
	prefix string
	ttl    time.Duration
}

type Option func(*config)

// WithTTL sets the expiration applied to session and history keys.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		prefix: "interview:",
		ttl:    0, // no expiration by default
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewClient builds a redis client from connection settings.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}
