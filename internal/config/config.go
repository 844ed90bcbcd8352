package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port           string
	Env            string
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration
	IdempotencyTTL time.Duration
	JaegerEndpoint string

	Razorpay RazorpayConfig
	Shipping ShippingConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// RazorpayConfig holds gateway credentials. KeyID is public and handed to the
// storefront; KeySecret signs checkout callbacks; WebhookSecret signs webhooks.
type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Currency      string
	Timeout       time.Duration
}

type ShippingConfig struct {
	FreeThreshold float64
	FlatFee       float64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers          []string
	TopicOrderEvents string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		Env:            getEnvOrDefault("APP_ENV", "development"),
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "constructo_db"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 24*60, time.Minute),
		IdempotencyTTL: getDurationEnv("IDEMPOTENCY_TTL", 24, time.Hour),
		JaegerEndpoint: getEnvOrDefault("JAEGER_ENDPOINT", ""),
		Razorpay: RazorpayConfig{
			KeyID:         getEnvOrDefault("RAZORPAY_KEY_ID", ""),
			KeySecret:     getEnvOrDefault("RAZORPAY_KEY_SECRET", ""),
			WebhookSecret: getEnvOrDefault("RAZORPAY_WEBHOOK_SECRET", ""),
			Currency:      getEnvOrDefault("CURRENCY", "INR"),
			Timeout:       getDurationEnv("RAZORPAY_TIMEOUT", 10, time.Second),
		},
		Shipping: ShippingConfig{
			FreeThreshold: getFloatEnv("SHIPPING_FREE_THRESHOLD", 5000),
			FlatFee:       getFloatEnv("SHIPPING_FLAT_FEE", 99),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", ""),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:          getListEnv("KAFKA_BROKERS"),
			TopicOrderEvents: getEnvOrDefault("KAFKA_TOPIC_ORDER_EVENTS", "order-events"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
