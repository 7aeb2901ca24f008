package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Token and store drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
)

// Gateway revocation modes.
const (
	RevocationRemote = "remote"
	RevocationStore  = "store"
	RevocationOff    = "off"
)

// Interior trust modes.
const (
	TrustHeaders = "headers"
	TrustBearer  = "bearer"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TokenTTL is the fixed lifetime of issued tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=1h"`
	// TokenStore selects the active-token set: memory (process-local) or redis (shared).
	TokenStore string `env:"TOKEN_STORE, default=memory"`
	// StoreDriver selects the repositories: memory or mongo.
	StoreDriver string `env:"STORE_DRIVER, default=memory"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Remote  RemoteConfig
	Gateway GatewayConfig
	Admin   AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=venuehub"`
}

type RedisConfig struct {
	Addr    string        `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int           `env:"REDIS_DB,      default=0"`
	Timeout time.Duration `env:"REDIS_TIMEOUT, default=3s"`
}

// RemoteConfig locates the peer services. Timeout bounds every
// service-to-service call.
type RemoteConfig struct {
	Timeout     time.Duration `env:"REMOTE_TIMEOUT, default=5s"`
	IdentityURL string        `env:"IDENTITY_URL,   default=http://localhost:8081"`
	ProfileURL  string        `env:"PROFILE_URL,    default=http://localhost:8082"`
	ResourceURL string        `env:"RESOURCE_URL,   default=http://localhost:8083"`
	FeedbackURL string        `env:"FEEDBACK_URL,   default=http://localhost:8084"`
}

type GatewayConfig struct {
	// Revocation selects how the edge checks logout: remote introspection,
	// the shared token store, or not at all.
	Revocation string `env:"GATEWAY_REVOCATION, default=remote"`
	// Trust selects how interior services resolve the caller: the headers
	// stamped by the edge, or the bearer token forwarded on every route.
	Trust string `env:"INTERIOR_TRUST, default=headers"`
}

// AdminConfig is the administrator seeded at identity service startup.
type AdminConfig struct {
	SubjectID string `env:"ADMIN_SUBJECT_ID"`
	Password  string `env:"ADMIN_PASSWORD"`
}

// IsDevelopment reports whether the process runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.TokenStore {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("config: TOKEN_STORE must be memory or redis, got %q", c.TokenStore)
	}
	switch c.StoreDriver {
	case DriverMemory, DriverMongo:
	default:
		return fmt.Errorf("config: STORE_DRIVER must be memory or mongo, got %q", c.StoreDriver)
	}
	switch c.Gateway.Revocation {
	case RevocationRemote, RevocationStore, RevocationOff:
	default:
		return fmt.Errorf("config: GATEWAY_REVOCATION must be remote, store or off, got %q", c.Gateway.Revocation)
	}
	switch c.Gateway.Trust {
	case TrustHeaders, TrustBearer:
	default:
		return fmt.Errorf("config: INTERIOR_TRUST must be headers or bearer, got %q", c.Gateway.Trust)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("config: REMOTE_TIMEOUT must be positive")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through lookuper, so tests can supply a map.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
