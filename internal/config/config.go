package config

import (
	"fmt"     // Error wrapping
	"regexp"  // Origin pattern matching
	"strings" // String manipulation
	"time"    // Durations

	"github.com/caarlos0/env/v11" // Struct tag based env parsing
	"github.com/joho/godotenv"    // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8000"`                 // Application port
	AppURL  string `env:"APP_URL" envDefault:"http://localhost:8000"` // Public base URL of the API
	AppKey  string `env:"APP_KEY"`                                    // Secret used to sign links
	IsProd  bool   `env:"IS_PROD" envDefault:"false"`                 // Is production environment
	SPADir  string `env:"SPA_DIR"`                                    // Optional directory holding a built SPA

	FrontendOrigins        []string `env:"FRONTEND_ORIGINS" envSeparator:","`         // Exact CORS origins
	FrontendOriginPatterns []string `env:"FRONTEND_ORIGIN_PATTERNS" envSeparator:","` // Regex CORS origins

	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"` // mysql or memory
	DBUser     string `env:"DB_USER"`                      // Database user
	DBPassword string `env:"DB_PASSWORD"`                  // Database password
	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	DBName     string `env:"DB_NAME"` // Database name

	RedisAddr string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"` // Redis server address
	RedisPass string `env:"REDIS_PASS"`                             // Redis password
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`                // Redis database number

	SessionCookie   string        `env:"SESSION_COOKIE" envDefault:"account_portal_session"`
	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"120m"`
	SessionSecure   bool          `env:"SESSION_SECURE_COOKIE" envDefault:"false"`
	UserCacheTTL    time.Duration `env:"USER_CACHE_TTL" envDefault:"60s"`

	VerificationExpire time.Duration `env:"VERIFICATION_EXPIRE" envDefault:"60m"` // Lifetime of signed verify links
	ResetExpire        time.Duration `env:"RESET_EXPIRE" envDefault:"60m"`        // Lifetime of reset tokens
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"6"` // Throttle for auth endpoints

	AvatarMaxKB   int64  `env:"AVATAR_MAX_KB" envDefault:"2048"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"local"` // local or s3
	StoragePath   string `env:"STORAGE_PATH" envDefault:"storage/public"`
	StorageURL    string `env:"STORAGE_URL" envDefault:"http://localhost:8000/storage"`

	S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"true"`

	MailDriver   string `env:"MAIL_DRIVER" envDefault:"log"` // smtp or log
	MailHost     string `env:"MAIL_HOST"`
	MailPort     int    `env:"MAIL_PORT" envDefault:"587"`
	MailUsername string `env:"MAIL_USERNAME"`
	MailPassword string `env:"MAIL_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"no-reply@localhost"`
}

// Load loads configuration from .env (if present) and environment variables
func Load() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AppKey == "" {
		return nil, fmt.Errorf("APP_KEY must be set")
	}
	if _, err := compilePatterns(cfg.FrontendOriginPatterns); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4&loc=UTC"
}

// OriginMatcher returns a predicate reporting whether an Origin header is allowed.
// An origin passes when it equals one of FrontendOrigins or matches one of the patterns.
func (c *Config) OriginMatcher() func(origin string) bool {
	exact := make(map[string]struct{}, len(c.FrontendOrigins))
	for _, o := range c.FrontendOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			exact[o] = struct{}{}
		}
	}
	patterns, _ := compilePatterns(c.FrontendOriginPatterns) // Validated in Load
	return func(origin string) bool {
		if _, ok := exact[origin]; ok {
			return true
		}
		for _, p := range patterns {
			if p.MatchString(origin) {
				return true
			}
		}
		return false
	}
}

var devOrigin = regexp.MustCompile(`(localhost|127\.0\.0\.1|192\.168\.)`)
var devPort = regexp.MustCompile(`:(5173|8080)`)

// FrontendURL picks the SPA base URL used for redirects.
// A local dev server origin is preferred, then the first configured origin, then AppURL.
func (c *Config) FrontendURL() string {
	var first string
	for _, o := range c.FrontendOrigins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if first == "" {
			first = o
		}
		if devOrigin.MatchString(o) && devPort.MatchString(o) {
			return strings.TrimRight(o, "/")
		}
	}
	if first != "" {
		return strings.TrimRight(first, "/")
	}
	return strings.TrimRight(c.AppURL, "/")
}

func compilePatterns(raw []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid origin pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}
