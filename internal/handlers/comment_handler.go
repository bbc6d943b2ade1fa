package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell_backend/internal/services"
	"inkwell_backend/internal/services/dto"
)

type CommentHandler struct {
	*BaseHandler
	commentService services.CommentService
}

func NewCommentHandler(base *BaseHandler, commentService services.CommentService) *CommentHandler {
	return &CommentHandler{
		BaseHandler:    base,
		commentService: commentService,
	}
}

func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/blogs/:id/comments", h.List)
	rg.POST("/blogs/:id/comments", h.RequireAuth(), h.Add)
	rg.DELETE("/comments/:id", h.RequireAuth(), h.Delete)
}

func (h *CommentHandler) List(c *gin.Context) {
	blogID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	result, err := h.commentService.List(c.Request.Context(), blogID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CommentHandler) Add(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	blogID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	comment, err := h.commentService.Add(c.Request.Context(), blogID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	commentID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), commentID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
