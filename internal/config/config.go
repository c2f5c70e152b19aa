package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSSLMode          string
	JWTSecret          string
	TokenExpireMinutes int
	GinMode            string
	ServerPort         string
}

func Load() *Config {
	// A missing .env is fine, variables may come from the process environment.
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using process environment")
	}

	return &Config{
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "projecthub"),
		DBPassword:         getEnv("DB_PASSWORD", "projecthub"),
		DBName:             getEnv("DB_NAME", "projecthub"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		JWTSecret:          getEnv("JWT_SECRET", "default-secret-key-change-me"),
		TokenExpireMinutes: getEnvInt("TOKEN_EXPIRE_MINUTES", 60*24),
		GinMode:            getEnv("GIN_MODE", "debug"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithField("key", key).Warn("invalid integer in environment, using default")
		return defaultValue
	}
	return n
}
