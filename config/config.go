package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config структура конфигурации приложения
type Config struct {
	Server       ServerConfig
	Scheduler    SchedulerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	YooKassa     YooKassaConfig
	Auth         AuthServiceConfig
	Notification NotificationServiceConfig
	Logging      LoggingConfig
	Internal     InternalAuthConfig
}

// ServerConfig конфигурация HTTP сервера
type ServerConfig struct {
	Port            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// SchedulerConfig конфигурация цикла сверки транзакций
type SchedulerConfig struct {
	// Интервал между итерациями цикла в секундах
	PollIntervalSeconds int
	// Горизонт скорого истечения подписки в днях
	SoonExpirationDays int
	// Таймаут транзакции в минутах
	TransactionTimeoutMinutes int
	// Лимит параллельных исходящих вызовов
	OutboundConcurrency int
}

// DatabaseConfig конфигурация базы данных
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig конфигурация Redis
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig конфигурация Kafka
type KafkaConfig struct {
	Brokers []string
}

// YooKassaConfig конфигурация платежного шлюза
type YooKassaConfig struct {
	BaseURL     string
	ShopID      string
	SecretKey   string
	RedirectURL string
}

// AuthServiceConfig конфигурация сервиса авторизации
type AuthServiceConfig struct {
	BaseURL string
}

// NotificationServiceConfig конфигурация сервиса уведомлений
type NotificationServiceConfig struct {
	BaseURL string
}

// LoggingConfig конфигурация логгера
type LoggingConfig struct {
	Level string
}

// InternalAuthConfig секреты внутренней авторизации между сервисами
type InternalAuthConfig struct {
	BillingSecret      string
	AuthSecret         string
	NotificationSecret string
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30),
		},
		Scheduler: SchedulerConfig{
			PollIntervalSeconds:       getEnvAsInt("SCHEDULER_POLL_INTERVAL", 10),
			SoonExpirationDays:        getEnvAsInt("SUBSCRIPTION_SOON_EXPIRATION_DAYS", 7),
			TransactionTimeoutMinutes: getEnvAsInt("TRANSACTION_TIMEOUT_MINUTES", 10),
			OutboundConcurrency:       getEnvAsInt("OUTBOUND_CONCURRENCY", 4),
		},
		Database: DatabaseConfig{
			Host:     getEnv("BILLING_DB_HOST", "localhost"),
			Port:     getEnvAsInt("BILLING_DB_PORT", 5432),
			User:     getEnv("BILLING_DB_USER", "postgres"),
			Password: getEnv("BILLING_DB_PASSWORD", "postgres"),
			Database: getEnv("BILLING_DB_NAME", "billing"),
			SSLMode:  getEnv("BILLING_DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("BILLING_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("BILLING_REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("BILLING_REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		},
		YooKassa: YooKassaConfig{
			BaseURL:     getEnv("YOOKASSA_BASE_URL", "https://api.yookassa.ru"),
			ShopID:      getEnv("YOOKASSA_SHOP_ID", ""),
			SecretKey:   getEnv("YOOKASSA_SECRET_KEY", ""),
			RedirectURL: getEnv("YOOKASSA_REDIRECT_URL", "http://localhost:8080"),
		},
		Auth: AuthServiceConfig{
			BaseURL: getEnv("AUTH_SERVICE_URL", "http://localhost:8001"),
		},
		Notification: NotificationServiceConfig{
			BaseURL: getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8002"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Internal: InternalAuthConfig{
			BillingSecret:      getEnv("INTERNAL_BILLING_SECRET_KEY", ""),
			AuthSecret:         getEnv("INTERNAL_AUTH_SECRET_KEY", ""),
			NotificationSecret: getEnv("NOTIFICATION_API_SECRET_KEY", ""),
		},
	}

	return cfg, nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt получает значение переменной окружения как int или возвращает значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
