package handlers

import (
	"net/http"

	portssvc "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/services"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
	"github.com/a7mdelbanna/clients_plus_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// registerHandler handles HTTP requests related to cash register sessions.
type registerHandler struct {
	registerService portssvc.RegisterSvcFacade
}

// registerSessionRoutes registers routes related to register sessions.
func registerSessionRoutes(rg *gin.RouterGroup, registerService portssvc.RegisterSvcFacade) {
	h := &registerHandler{registerService: registerService}

	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.openSession)
		sessions.GET("", h.listSessions)
		sessions.GET("/:id", h.getSession)
		sessions.POST("/:id/movements", h.recordMovement)
		sessions.POST("/:id/close", h.closeSession)
	}

	rg.GET("/registers/:id/open-session", h.getOpenSession)
}

func (h *registerHandler) openSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, err := h.registerService.OpenSession(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to open session")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSessionResponse(session))
}

func (h *registerHandler) getSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, _ := middleware.GetCompanyIDFromContext(c)

	session, err := h.registerService.GetSessionByID(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

func (h *registerHandler) getOpenSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	branchID := c.Query("branchID")
	if branchID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "branchID query parameter is required"})
		return
	}

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	session, err := h.registerService.GetOpenSession(c.Request.Context(), companyID, branchID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve open session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

func (h *registerHandler) listSessions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListSessionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	sessions, err := h.registerService.ListSessions(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list sessions")
		return
	}

	res := make([]dto.SessionResponse, len(sessions))
	for i := range sessions {
		res[i] = dto.ToSessionResponse(&sessions[i])
	}
	c.JSON(http.StatusOK, dto.ListSessionsResponse{Sessions: res})
}

func (h *registerHandler) recordMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	movement, err := h.registerService.RecordMovement(c.Request.Context(), companyID, c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record movement")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSessionMovementResponse(movement))
}

func (h *registerHandler) closeSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	companyID, _ := middleware.GetCompanyIDFromContext(c)
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := h.registerService.CloseSession(c.Request.Context(), companyID, c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to close session")
		return
	}
	c.JSON(http.StatusOK, dto.ToClosingSummaryResponse(summary))
}
