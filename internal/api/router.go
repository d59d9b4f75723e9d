package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/waterdropvpn/starcore/internal/api/v1"
	"github.com/waterdropvpn/starcore/internal/rest/middleware"
)

type Handlers struct {
	Health       *v1.HealthHandler
	User         *v1.UserHandler
	Payment      *v1.PaymentHandler
	Subscription *v1.SubscriptionHandler
	Credential   *v1.CredentialHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// User routes
	users := router.Group("/users")
	{
		users.POST("", handlers.User.RegisterUser)
		users.GET("/:id", handlers.User.GetUser)
		users.GET("/:id/profile", handlers.User.GetProfile)
		users.GET("/:id/balance", handlers.User.GetBalance)
		users.GET("/:id/transactions", handlers.User.ListTransactions)
		users.GET("/:id/payments", handlers.Payment.ListPayments)
		users.GET("/:id/subscription", handlers.Subscription.GetStatus)
		users.GET("/:id/credential", handlers.Credential.GetCredential)
		users.POST("/:id/credential", handlers.Credential.IssueCredential)
		users.DELETE("/:id/credential", handlers.Credential.RevokeCredential)
	}

	// Payment routes
	payments := router.Group("/payments")
	{
		payments.POST("", handlers.Payment.CreatePayment)
		payments.GET("/lookup", handlers.Payment.LookupPayment)
		payments.GET("/:id", handlers.Payment.GetPayment)
		payments.POST("/:id/complete", handlers.Payment.CompletePayment)
	}

	// Plan routes
	plans := router.Group("/plans")
	{
		plans.GET("", handlers.Subscription.ListPlans)
		plans.GET("/:id", handlers.Subscription.GetPlan)
	}

	// Subscription routes
	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.POST("/purchase", handlers.Subscription.Purchase)
	}
}
