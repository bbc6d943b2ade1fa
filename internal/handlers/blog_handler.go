package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell_backend/internal/middleware"
	"inkwell_backend/internal/services"
	"inkwell_backend/internal/services/dto"
	"inkwell_backend/pkg/apperrors"
)

type BlogHandler struct {
	*BaseHandler
	blogService services.BlogService
}

func NewBlogHandler(base *BaseHandler, blogService services.BlogService) *BlogHandler {
	return &BlogHandler{
		BaseHandler: base,
		blogService: blogService,
	}
}

func (h *BlogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	blogs := rg.Group("/blogs")
	{
		blogs.GET("", h.ListPublished)
		blogs.GET("/:id", h.OptionalAuth(), h.GetBlog)
	}

	authed := blogs.Group("", h.RequireAuth())
	{
		authed.GET("/feed", h.Feed)
		authed.GET("/drafts", h.ListDrafts)
		authed.POST("", h.CreateDraft)
		authed.PUT("/:id", h.UpdateDraft)
		authed.DELETE("/:id", h.Delete)
		authed.POST("/:id/publish", h.Publish)
		authed.POST("/:id/cover", h.UploadCover)
	}
}

func (h *BlogHandler) ListPublished(c *gin.Context) {
	var q dto.BlogListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	page, err := h.blogService.ListPublished(c.Request.Context(), &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *BlogHandler) GetBlog(c *gin.Context) {
	id, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	blog, err := h.blogService.Get(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

func (h *BlogHandler) Feed(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	result, err := h.blogService.Feed(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BlogHandler) ListDrafts(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	drafts, err := h.blogService.ListDrafts(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": drafts})
}

func (h *BlogHandler) CreateDraft(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBlogRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	blog, err := h.blogService.CreateDraft(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blog)
}

func (h *BlogHandler) UpdateDraft(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBlogRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	blog, err := h.blogService.UpdateDraft(c.Request.Context(), id, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	if err := h.blogService.Delete(c.Request.Context(), id, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BlogHandler) Publish(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	resp, err := h.blogService.Publish(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BlogHandler) UploadCover(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("no file provided"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	blog, err := h.blogService.UploadCover(c.Request.Context(), id, userID, &dto.UploadFile{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}
