package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
)

type Target string

const (
	App    Target = "app"
	Backup Target = "backup"
)

// Where the uploaded audio bytes are kept
type AudioBackend string

const (
	LocalAudio AudioBackend = "local"
	R2Audio    AudioBackend = "r2"
)

type Config struct {
	// Running localy or not
	Debug    bool   `env:"DEBUG" envDefault:"false"`
	Protocol string `env:"PROTOCOL" envDefault:"https"`
	Target   Target `env:"TARGET" envDefault:"app"`

	// App settings
	AppName            string   `env:"APP_NAME" envDefault:"StoryTime"`
	Domain             string   `env:"DOMAIN" envDefault:"localhost:5000"`
	CorsAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Story content
	ContentFile        string `env:"CONTENT_FILE"`
	PlaceholderBaseURL string `env:"PLACEHOLDER_BASE_URL" envDefault:"https://placehold.co/600x400/png"`

	// Audio storage
	DataVolume    string       `env:"DATA_VOLUME" envDefault:"storage"`
	AudioBackend  AudioBackend `env:"AUDIO_BACKEND" envDefault:"local"`
	MaxUploadSize int64        `env:"MAX_UPLOAD_SIZE" envDefault:"0"` // zero means no limit

	// Cloudflare R2
	R2AudioBucketName  string `env:"R2_AUDIO_BUCKET_NAME"`
	R2BackupBucketName string `env:"R2_BACKUP_BUCKET_NAME"`
	R2AccountId        string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyId      string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey  string `env:"R2_SECRET_ACCESS_KEY"`

	// Redis
	RedisDisabled bool          `env:"REDIS_DISABLED" envDefault:"false"`
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisUsername string        `env:"REDIS_USERNAME"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTimeout  time.Duration `env:"CACHE_TIMEOUT" envDefault:"86400s"`

	// Postgres
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBDatabase string `env:"DB_DATABASE" envDefault:"storytime"`
	DBUsername string `env:"DB_USERNAME" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBMaxConns int32  `env:"DB_MAX_CONNS" envDefault:"4"`

	// Local app host and port
	Host string `env:"HOST" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"5000"`
}

// New creates new config object, exits on failure
func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse the config; %v", err)
	}
	return cfg
}

// Parse parses the config from the environment and validates it
func Parse() (*Config, error) {

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	numCPU := runtime.NumCPU()
	if numCPU > math.MaxInt32 || numCPU < math.MinInt32 {
		return nil, fmt.Errorf("failed to get proper CPU cores count: %d", numCPU)
	}

	if cfg.DBMaxConns <= 0 {
		return nil, fmt.Errorf("invalid db max conns %d", cfg.DBMaxConns)
	}

	// Cap the DBMaxConns to the number of cores
	cfg.DBMaxConns = min(cfg.DBMaxConns, int32(numCPU))

	if cfg.Target == Backup && cfg.R2BackupBucketName == "" {
		return nil, errors.New("no R2 backup bucket defined in env")
	}

	switch cfg.AudioBackend {
	case LocalAudio:
	case R2Audio:
		if cfg.R2AudioBucketName == "" {
			return nil, errors.New("no R2 audio bucket defined in env")
		}
	default:
		return nil, fmt.Errorf("unknown audio backend %q", cfg.AudioBackend)
	}

	if cfg.MaxUploadSize < 0 {
		return nil, fmt.Errorf("invalid max upload size %d", cfg.MaxUploadSize)
	}

	return &cfg, nil
}

// AudioDir is the directory holding the uploaded audio files
func (c *Config) AudioDir() string {
	return filepath.Join(c.DataVolume, "audio")
}

// DatabaseURL is the Postgres connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		c.DBUsername,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBDatabase,
	)
}
