package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port             string
	MongoURI         string
	MongoDatabase    string
	JWTSecret        string
	TokenExpiryHours int64
	RabbitMQURI      string
	RabbitMQExchange string
	FEAddress        string
}

func New() *Config {
	expiryStr := getEnv("TOKEN_EXPIRY_HOURS", "168")
	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		log.Printf("Invalid TOKEN_EXPIRY_HOURS %q, using 168", expiryStr)
		expiry = 168
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		MongoURI:         getEnv("MONGO_URI", ""),
		MongoDatabase:    getEnv("EXAM_SERVICE_MONGO_DB", "exam_portal"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		TokenExpiryHours: expiry,
		RabbitMQURI:      getEnv("RABBITMQ_URI", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", ""),
		FEAddress:        getEnv("FE_ADDR", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
