package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RabbitURL string // empty disables publishing
	RedisAddr string // empty disables the slot cache

	ReservationTTLMinutes int
	SlotCacheTTLSeconds   int
	RateLimitPerSecond    float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "scheduling"),

		RabbitURL: getEnv("RABBITMQ_URL", ""),
		RedisAddr: getEnv("REDIS_ADDR", ""),

		ReservationTTLMinutes: getEnvInt("RESERVATION_TTL_MINUTES", 5),
		SlotCacheTTLSeconds:   getEnvInt("SLOT_CACHE_TTL_SECONDS", 30),
		RateLimitPerSecond:    float64(getEnvInt("RATE_LIMIT_PER_SECOND", 20)),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
