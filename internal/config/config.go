package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// MaxNameLength bounds the card name filter, in characters.
	MaxNameLength = 30
	// MaxDeckCards bounds the number of card ids a deck filter may carry.
	MaxDeckCards = 30
)

// ErrMissingEnv is returned when a required variable is not set.
var ErrMissingEnv = errors.New("missing required environment variable")

// Config is the process configuration, read once at startup.
type Config struct {
	Bot     Bot
	Storage Storage
	API     API
	Kafka   Kafka
	Limits  Limits

	HTTPAddr string
	LogLevel string
}

// Bot holds the chat platform credentials.
type Bot struct {
	Token       string
	AdminID     int64
	PollTimeout time.Duration
}

// Storage selects and configures the session store backend.
type Storage struct {
	Backend       string // redis, sqlite or memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLitePath    string
}

// API points at the remote card/deck service.
type API struct {
	Domain         string
	RequestsPerSec float64
	Timeout        time.Duration
}

// BaseURL is the root of the versioned REST API.
func (a API) BaseURL() string {
	return fmt.Sprintf("http://%s/api/v1/", a.Domain)
}

// MediaURL is the root of rendered card images.
func (a API) MediaURL() string {
	return fmt.Sprintf("http://%s/media/cards/", a.Domain)
}

// Kafka configures the optional search audit stream. An empty broker disables it.
type Kafka struct {
	Broker string
	Topic  string
}

// Limits bound what a single search may return and how it is paged.
type Limits struct {
	MaxResults int
	PageSize   int
}

// DefaultLimits matches the bot's historical behaviour.
func DefaultLimits() Limits {
	return Limits{MaxResults: 90, PageSize: 9}
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("TOKEN")
	if token == "" {
		return nil, fmt.Errorf("%w: TOKEN", ErrMissingEnv)
	}
	domain := os.Getenv("HDH_API_DOMAIN")
	if domain == "" {
		return nil, fmt.Errorf("%w: HDH_API_DOMAIN", ErrMissingEnv)
	}

	adminID, err := getInt64("ADMIN_ID", 0)
	if err != nil {
		return nil, err
	}
	redisDB, err := getInt("REDIS_DB", 5)
	if err != nil {
		return nil, err
	}
	maxResults, err := getInt("MAX_RESULTS", DefaultLimits().MaxResults)
	if err != nil {
		return nil, err
	}
	pageSize, err := getInt("PAGE_SIZE", DefaultLimits().PageSize)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", pageSize)
	}
	rps, err := strconv.ParseFloat(getenv("API_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("parse API_RPS: %w", err)
	}

	return &Config{
		Bot: Bot{
			Token:       token,
			AdminID:     adminID,
			PollTimeout: 10 * time.Second,
		},
		Storage: Storage{
			Backend:       getenv("SESSION_BACKEND", "redis"),
			RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
			SQLitePath:    getenv("SQLITE_PATH", "./data/sessions.db"),
		},
		API: API{
			Domain:         domain,
			RequestsPerSec: rps,
			Timeout:        15 * time.Second,
		},
		Kafka: Kafka{
			Broker: os.Getenv("KAFKA_BROKER"),
			Topic:  getenv("KAFKA_TOPIC", "hs.search.requests"),
		},
		Limits: Limits{
			MaxResults: maxResults,
			PageSize:   pageSize,
		},
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),
	}, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
