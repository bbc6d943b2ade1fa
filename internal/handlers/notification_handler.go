package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell_backend/internal/services"
	"inkwell_backend/internal/services/dto"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications", h.RequireAuth())
	{
		notifications.GET("", h.List)
		notifications.GET("/unseen-count", h.UnseenCount)
		notifications.PUT("/:id/seen", h.MarkSeen)
		notifications.PUT("/seen-all", h.MarkAllSeen)
	}
}

// List returns the caller's notifications; ?unseen=true filters to unseen ones.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)
	onlyUnseen := c.Query("unseen") == "true"

	result, err := h.notificationService.List(c.Request.Context(), userID, onlyUnseen, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *NotificationHandler) UnseenCount(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	n, err := h.notificationService.UnseenCount(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnseenCountResponse{Unseen: n})
}

func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkSeen(c.Request.Context(), userID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllSeen(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	n, err := h.notificationService.MarkAllSeen(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkAllSeenResponse{Updated: n})
}
