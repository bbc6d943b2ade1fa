package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell_backend/internal/services"
)

type SavedHandler struct {
	*BaseHandler
	savedService services.SavedService
}

func NewSavedHandler(base *BaseHandler, savedService services.SavedService) *SavedHandler {
	return &SavedHandler{
		BaseHandler:  base,
		savedService: savedService,
	}
}

func (h *SavedHandler) RegisterRoutes(rg *gin.RouterGroup) {
	saved := rg.Group("/saved", h.RequireAuth())
	{
		saved.GET("", h.List)
		saved.POST("/:blogId", h.Save)
		saved.DELETE("/:blogId", h.Remove)
	}
}

func (h *SavedHandler) List(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	result, err := h.savedService.List(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SavedHandler) Save(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	blogID, ok := ParseParamID(c, "blogId")
	if !ok {
		return
	}

	if err := h.savedService.Save(c.Request.Context(), userID, blogID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Saved"})
}

func (h *SavedHandler) Remove(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	blogID, ok := ParseParamID(c, "blogId")
	if !ok {
		return
	}

	if err := h.savedService.Remove(c.Request.Context(), userID, blogID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
