package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sanosuguru/venue-reservation/internal/domain/slot"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Venue    VenueConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// VenueConfig は施設のスケジューリング設定
type VenueConfig struct {
	Timezone           string
	OpenTime           string
	CloseTime          string
	SlotInterval       time.Duration
	MaxGuests          int
	LockTTL            time.Duration
	LockWait           time.Duration
	CompletionInterval time.Duration
	CacheTTL           time.Duration
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			CORSOrigins:  strings.Split(getEnv("CORS_ALLOW_ORIGINS", "*"), ","),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "venue_reservation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Venue: VenueConfig{
			Timezone:           getEnv("VENUE_TIMEZONE", "Asia/Tokyo"),
			OpenTime:           getEnv("VENUE_OPEN_TIME", "10:00"),
			CloseTime:          getEnv("VENUE_CLOSE_TIME", "20:00"),
			SlotInterval:       getDurationEnv("VENUE_SLOT_INTERVAL", 30*time.Minute),
			MaxGuests:          getIntEnv("VENUE_MAX_GUESTS", 100),
			LockTTL:            getDurationEnv("SLOT_LOCK_TTL", 10*time.Second),
			LockWait:           getDurationEnv("SLOT_LOCK_WAIT", 3*time.Second),
			CompletionInterval: getDurationEnv("COMPLETION_INTERVAL", 5*time.Minute),
			CacheTTL:           getDurationEnv("AVAILABILITY_CACHE_TTL", 30*time.Second),
		},
	}
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Location は施設タイムゾーンを返す
func (c *VenueConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Grid は営業時間の予約枠グリッドを返す
func (c *VenueConfig) Grid() (slot.Grid, error) {
	return slot.NewGrid(c.OpenTime, c.CloseTime, c.SlotInterval)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
