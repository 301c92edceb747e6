package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Garic-Che/cinema-theatre/config"
	"github.com/Garic-Che/cinema-theatre/internal/api/rest"
	"github.com/Garic-Che/cinema-theatre/internal/integration/auth"
	"github.com/Garic-Che/cinema-theatre/internal/integration/notification"
	"github.com/Garic-Che/cinema-theatre/internal/integration/yookassa"
	"github.com/Garic-Che/cinema-theatre/internal/kafka"
	"github.com/Garic-Che/cinema-theatre/internal/kafka/producer"
	"github.com/Garic-Che/cinema-theatre/internal/metrics"
	"github.com/Garic-Che/cinema-theatre/internal/repository"
	"github.com/Garic-Che/cinema-theatre/internal/repository/postgres"
	"github.com/Garic-Che/cinema-theatre/internal/scheduler"
	"github.com/Garic-Che/cinema-theatre/internal/service"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

var log *logger.Logger

func init() {
	// Загружаем переменные окружения
	if err := godotenv.Load(); err != nil {
		// Пропускаем ошибку, если .env файл не найден
	}

	// Инициализация логгера
	log = logger.New(logger.ParseLevel(os.Getenv("LOG_LEVEL")))
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	// Создаем контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация Prometheus
	promRegistry := prometheus.NewRegistry()
	billingMetrics := metrics.NewBillingMetrics(promRegistry, log)
	systemMetrics := metrics.NewSystemMetrics(promRegistry, log)

	// Запускаем сбор системных метрик
	systemMetrics.StartRecording(15 * time.Second)
	defer systemMetrics.Stop()

	// Подключение к базе данных
	dbPool, err := postgres.NewConnection(ctx, cfg.Database.GetDSN(), log)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// Подключение к Redis
	dedupRepo, err := repository.NewRedisDedupRepository(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis: %v", err)
	}
	defer dedupRepo.Close()

	// Инициализация Kafka: топики и продюсер событий
	if err := kafka.EnsureTopics(cfg.Kafka.Brokers, log); err != nil {
		log.Fatal("Failed to ensure Kafka topics: %v", err)
	}

	kafkaProducer, err := kafka.NewSyncProducer(kafka.NewConfig(cfg.Kafka.Brokers), log)
	if err != nil {
		log.Fatal("Failed to create Kafka producer: %v", err)
	}
	defer kafkaProducer.Close()

	billingProducer := producer.NewKafkaBillingProducer(kafkaProducer, log)

	// Репозитории
	transactionRepo := repository.NewPostgresTransactionRepository(dbPool, log)
	userSubsRepo := repository.NewPostgresUserSubscriptionRepository(dbPool, log)
	subscriptionRepo := repository.NewPostgresSubscriptionRepository(dbPool, log)

	// Клиенты внешних сервисов
	gateway := yookassa.NewClient(yookassa.Config{
		BaseURL:     cfg.YooKassa.BaseURL,
		ShopID:      cfg.YooKassa.ShopID,
		SecretKey:   cfg.YooKassa.SecretKey,
		RedirectURL: cfg.YooKassa.RedirectURL,
	}, log)
	authClient := auth.NewClient(cfg.Auth.BaseURL, cfg.Internal.AuthSecret, log)
	notificationClient := notification.NewClient(cfg.Notification.BaseURL, cfg.Internal.NotificationSecret, log)

	// Сервисы
	transactionTimeout := time.Duration(cfg.Scheduler.TransactionTimeoutMinutes) * time.Minute

	billingService := service.NewBillingService(transactionRepo, userSubsRepo, subscriptionRepo, gateway, log)
	informationService := service.NewInformationService(subscriptionRepo, userSubsRepo, transactionRepo, log)
	reconcilerService := service.NewReconcilerService(
		transactionRepo,
		userSubsRepo,
		subscriptionRepo,
		gateway,
		authClient,
		notificationClient,
		billingProducer,
		billingMetrics,
		transactionTimeout,
		log,
	)
	expiryService := service.NewExpiryService(
		userSubsRepo,
		subscriptionRepo,
		billingService,
		authClient,
		notificationClient,
		dedupRepo,
		billingMetrics,
		cfg.Scheduler.SoonExpirationDays,
		transactionTimeout,
		cfg.Scheduler.OutboundConcurrency,
		log,
	)

	// Планировщик фоновых проверок
	sched := scheduler.New(
		reconcilerService,
		expiryService,
		billingMetrics,
		time.Duration(cfg.Scheduler.PollIntervalSeconds)*time.Second,
		log,
	)
	go sched.Run(ctx)

	// Установка режима Gin
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Настройка маршрутизатора
	router := rest.SetupRouter(billingService, informationService, cfg, promRegistry, log)

	// Создание и запуск HTTP сервера
	server := rest.NewServer(router, cfg, log)

	// Запуск сервера в горутине
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Останавливаем планировщик и сервер
	cancel()

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("Server forced to shutdown: %v", err)
	}

	log.Info("Service stopped gracefully")
}
