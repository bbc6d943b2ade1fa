package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell_backend/internal/services"
	"inkwell_backend/internal/services/dto"
)

type SearchHandler struct {
	*BaseHandler
	searchService services.SearchService
}

func NewSearchHandler(base *BaseHandler, searchService services.SearchService) *SearchHandler {
	return &SearchHandler{
		BaseHandler:   base,
		searchService: searchService,
	}
}

func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
}

// Search looks up published blogs and users matching ?q=.
func (h *SearchHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	resp, err := h.searchService.Search(c.Request.Context(), q.Q, q.Page, q.PageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
