package rest

import (
	"github.com/Garic-Che/cinema-theatre/config"
	"github.com/Garic-Che/cinema-theatre/internal/api/rest/handlers"
	"github.com/Garic-Che/cinema-theatre/internal/api/rest/middleware"
	"github.com/Garic-Che/cinema-theatre/internal/service"
	"github.com/Garic-Che/cinema-theatre/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(
	billing service.BillingService,
	information service.InformationService,
	cfg *config.Config,
	registry *prometheus.Registry,
	log *logger.Logger,
) *gin.Engine {
	r := gin.New()

	// Подключение middleware
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(gin.Recovery())

	// Endpoint для проверки работоспособности сервиса
	r.GET("/health", handlers.HealthCheck)

	// Prometheus метрики
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Инициализация обработчиков
	paymentHandler := handlers.NewPaymentHandler(billing, log)
	stateHandler := handlers.NewStateHandler(billing, log)
	informationHandler := handlers.NewInformationHandler(information, log)

	// Внутренний API биллинга
	v1 := r.Group("/api/v1")
	v1.Use(middleware.InternalAuth(cfg.Internal.BillingSecret))
	{
		payments := v1.Group("/payment")
		{
			payments.POST("/", paymentHandler.PayForSubscription)
			payments.POST("/autopayment/", paymentHandler.MakeAutopayment)
		}

		v1.POST("/refund/", paymentHandler.RefundPayment)

		paymentMethods := v1.Group("/payment-method")
		{
			paymentMethods.POST("/", paymentHandler.CreatePaymentMethod)
			paymentMethods.DELETE("/", paymentHandler.RemovePaymentMethod)
		}

		state := v1.Group("/state")
		{
			state.GET("/payment/:transaction_id", stateHandler.GetPayment)
			state.GET("/refund/:transaction_id", stateHandler.GetRefund)
			state.GET("/payment-method/:transaction_id", stateHandler.GetPaymentMethod)
		}

		info := v1.Group("/information")
		{
			info.GET("/subscription/", informationHandler.GetSubscriptions)
			info.GET("/user/:user_id/subscription/", informationHandler.GetUserSubscriptions)
			info.GET("/user-subscription/:user_subscription_id/transaction/", informationHandler.GetTransactions)
		}
	}

	return r
}
