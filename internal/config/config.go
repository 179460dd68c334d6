package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret is the development fallback for JWT_SECRET. Startup
// logs a warning whenever it is in use; set a real secret in production.
const DefaultJWTSecret = "dev-secret-change-me"

// Config holds every environment-driven setting the server needs. It is
// built once in main and passed down; nothing else reads os.Getenv.
type Config struct {
	Port         string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	JWTExpiresIn time.Duration
	BcryptRounds int

	RateLimitWindow time.Duration
	RateLimitMax    int

	AllowedOrigins []string
	FrontendURL    string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	CacheSweepInterval time.Duration
	BatchWindow        time.Duration
}

// Load reads the environment into a Config. MONGO_URI is the only hard
// requirement; everything else falls back to a development default.
func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDB:            getEnv("MONGO_DB", "citymate"),
		JWTSecret:          getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiresIn:       getDuration("JWT_EXPIRES_IN", 72*time.Hour),
		BcryptRounds:       getInt("BCRYPT_ROUNDS", 10),
		RateLimitWindow:    getMillis("RATE_LIMIT_WINDOW_MS", time.Minute),
		RateLimitMax:       getInt("RATE_LIMIT_MAX_REQUESTS", 300),
		FrontendURL:        getEnv("FRONTEND_URL", ""),
		MinioEndpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:        getEnv("MINIO_BUCKET", "citymate-media"),
		MinioUseSSL:        getBool("MINIO_USE_SSL", false),
		CacheSweepInterval: getDuration("CACHE_SWEEP_INTERVAL", time.Minute),
		BatchWindow:        getMillis("BATCH_WINDOW_MS", 25*time.Millisecond),
	}

	if cfg.MongoURI == "" {
		return Config{}, errors.New("MONGO_URI is required")
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

// CORSOrigins renders the origin list in the form Fiber's cors middleware
// expects. An empty list means allow all.
func (c Config) CORSOrigins() string {
	if len(c.AllowedOrigins) == 0 {
		return "*"
	}
	return strings.Join(c.AllowedOrigins, ",")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getDuration accepts Go duration strings ("72h", "15m").
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// getMillis accepts a bare millisecond count, matching the _MS env keys.
func getMillis(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return time.Duration(n) * time.Millisecond
}
