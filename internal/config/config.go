package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Host        string
	Environment string
	AppId       string
	SkipAuth    bool
	Password    string // Shared admin password for the HTTP facade

	DBDriver string // sqlite3, postgres or mysql
	DBDSN    string

	// Upstream wallet endpoint
	APIBaseURL string
	CSRFToken  string

	PageSize    int
	MaxPages    int
	BatchSize   int
	DBBatchSize int
	BatchDelay  time.Duration

	DingKey     string
	DingTalkURL string

	CronSchedule string
	Timezone     string

	RedisAddress  string
	RedisPassword string
	FleetLockTTL  time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "3000"),
		Host:        getEnv("HOST", "localhost"),
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "anchor-sync"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Password:    getEnv("PASSWORD", "123456"),

		DBDriver: getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:    getEnv("DB_DSN", "db/anchor-sync.db"),

		APIBaseURL: getEnv("API_BASE_URL", "https://hot.taobao.com/wallet/getPredictOrder.do"),
		CSRFToken:  getEnv("CSRF_TOKEN", "8c6b9ad5-7d0c-4d6c-b6a0-2b3c4d5e6f70"),

		PageSize:    getEnvInt("SYNC_PAGE_SIZE", 100),
		MaxPages:    getEnvInt("SYNC_MAX_PAGES", 50),
		BatchSize:   getEnvInt("SYNC_BATCH_SIZE", 3),
		DBBatchSize: getEnvInt("SYNC_DB_BATCH_SIZE", 50),
		BatchDelay:  time.Duration(getEnvInt("SYNC_BATCH_DELAY_MS", 500)) * time.Millisecond,

		DingKey:     getEnv("DING_KEY", ""),
		DingTalkURL: getEnv("DINGTALK_URL", "https://oapi.dingtalk.com/robot/send"),

		CronSchedule: getEnv("CRON_SCHEDULE", "10,40 6-23 * * *"),
		Timezone:     getEnv("CRON_TIMEZONE", "Asia/Shanghai"),

		RedisAddress:  getEnv("REDIS_ADDRESS", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		FleetLockTTL:  time.Duration(getEnvInt("FLEET_LOCK_TTL_MINUTES", 30)) * time.Minute,
	}, nil
}

// Location resolves the configured timezone, falling back to the host zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Unknown timezone %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
