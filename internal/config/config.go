package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN            string        `mapstructure:"DB_DSN"`
	Environment      string        `mapstructure:"ENV"`
	HTTPAddr         string        `mapstructure:"HTTP_ADDR"`
	MigrationsPath   string        `mapstructure:"MIGRATIONS_PATH"`
	SnapshotInterval time.Duration `mapstructure:"SNAPSHOT_INTERVAL"`
	Grid             timegrid.Grid `mapstructure:"-"`
	WeekGrid         timegrid.Grid `mapstructure:"-"`
	TelegramToken    string        `mapstructure:"TELEGRAM_TOKEN"`
	TelegramChatID   int64         `mapstructure:"TELEGRAM_CHAT_ID"`
}

func Load() (*Config, error) {
	// .env необязателен: в контейнере всё приходит из окружения
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    getenv("ENV", "development"),
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		MigrationsPath: getenv("MIGRATIONS_PATH", "migrations"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	interval, err := time.ParseDuration(getenv("SNAPSHOT_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("parse SNAPSHOT_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("SNAPSHOT_INTERVAL must be positive, got %s", interval)
	}
	cfg.SnapshotInterval = interval

	grid, err := timegrid.New(getenv("GRID_OPEN", "09:00"), getenv("GRID_CLOSE", "22:00"))
	if err != nil {
		return nil, fmt.Errorf("parse grid bounds: %w", err)
	}
	cfg.Grid = grid

	weekGrid, err := timegrid.New(getenv("WEEK_GRID_OPEN", "08:00"), getenv("WEEK_GRID_CLOSE", "22:00"))
	if err != nil {
		return nil, fmt.Errorf("parse week grid bounds: %w", err)
	}
	cfg.WeekGrid = weekGrid

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// NotificationsEnabled reports whether both Telegram settings are present
func (c *Config) NotificationsEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
