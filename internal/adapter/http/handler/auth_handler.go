package handler

import (
	"net/http"

	"simple-bank-ledger/internal/adapter/http/dto"
	"simple-bank-ledger/internal/adapter/http/middleware"
	"simple-bank-ledger/internal/core/ports"
	"simple-bank-ledger/pkg/apperror"
	"simple-bank-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration and session endpoints.
type AuthHandler struct {
	authSvc  ports.AuthService
	sessions ports.SessionService
	tokens   ports.TokenService
	scale    int32
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService, sessions ports.SessionService, tokens ports.TokenService, scale int32) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, sessions: sessions, tokens: tokens, scale: scale}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	deposit, err := dto.ParseAmount("initial_deposit", req.InitialDeposit)
	if err != nil {
		response.Error(c, err)
		return
	}

	account, err := h.authSvc.Register(c.Request.Context(), ports.RegisterRequest{
		FullName:       req.FullName,
		Username:       req.Username,
		Password:       req.Password,
		InitialDeposit: deposit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToAccountResponse(account, h.scale))
}

// Login handles POST /api/v1/auth/login. The returned token is bound to a
// new session and stops working when the session idles out or is closed.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	account, err := h.authSvc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	session, err := h.sessions.Open(c.Request.Context(), account.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, expiry, err := h.tokens.Generate(account.ID, session.ID)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.OK(c, dto.LoginResponse{
		Token:     token,
		Expiry:    expiry.Unix(),
		SessionID: session.ID,
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Close(c.Request.Context(), c.GetString(middleware.CtxSessionID)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"logged_out": true})
}

// HealthCheck handles GET /health — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
