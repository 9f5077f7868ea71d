package handler

import (
	"simple-bank-ledger/internal/adapter/http/middleware"
	"simple-bank-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	LedgerSvc      ports.LedgerService
	SessionSvc     ports.SessionService
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	AmountScale    int32
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies the ledger store and Redis when enabled)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	v1 := r.Group("/api/v1")
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.SessionSvc, deps.Logger)

	authHandler := NewAuthHandler(deps.AuthSvc, deps.SessionSvc, deps.TokenSvc, deps.AmountScale)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", jwtAuth, authHandler.Logout)
	}

	accountHandler := NewAccountHandler(deps.LedgerSvc, deps.AmountScale)
	me := v1.Group("/accounts/me", jwtAuth)
	{
		me.GET("", accountHandler.Me)
		me.GET("/balance", accountHandler.Balance)
		me.GET("/transactions", accountHandler.Transactions)
		me.POST("/deposit", accountHandler.Deposit)
		me.POST("/withdraw", accountHandler.Withdraw)
		me.POST("/transfer", accountHandler.Transfer)
	}

	return r
}
