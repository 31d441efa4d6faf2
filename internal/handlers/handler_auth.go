package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/services"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
	"github.com/a7mdelbanna/clients_plus_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// authHandler handles HTTP requests related to authentication.
type authHandler struct {
	authService portssvc.AuthSvc
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, authService portssvc.AuthSvc) {
	h := &authHandler{authService: authService}

	// Credential endpoints get a tighter per-IP limit than the global one.
	rate, _ := limiter.NewRateFromFormatted("5-M")
	authLimit := middleware.RateLimit(limiter.New(memory.NewStore(), rate))

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimit, h.login)
		auth.POST("/refresh", authLimit, h.refresh)
	}
}

// registerAuthProtectedRoutes registers auth routes that require a valid token.
func registerAuthProtectedRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvc) {
	h := &authHandler{authService: authService}
	rg.POST("/auth/logout", h.logout)
}

func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *authHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Token refresh failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *authHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, logger, err, "Logout failed")
		return
	}
	logger.Info("User logged out", slog.String("user_id", userID))
	c.Status(http.StatusNoContent)
}
