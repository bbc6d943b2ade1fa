package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell_backend/internal/middleware"
	"inkwell_backend/internal/services"
	"inkwell_backend/internal/services/dto"
)

type UserHandler struct {
	*BaseHandler
	userService   services.UserService
	followService services.FollowService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, followService services.FollowService) *UserHandler {
	return &UserHandler{
		BaseHandler:   base,
		userService:   userService,
		followService: followService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("/delete/confirm", h.ConfirmDeletion)
		users.GET("/:id", h.OptionalAuth(), h.GetUser)
		users.GET("/:id/followers", h.ListFollowers)
		users.GET("/:id/following", h.ListFollowing)
	}

	me := users.Group("/me", h.RequireAuth())
	{
		me.GET("", h.GetMe)
		me.PUT("", h.UpdateMe)
		me.PUT("/password", h.ChangePassword)
		me.POST("/delete", h.RequestDeletion)
	}

	follow := users.Group("/:id/follow", h.RequireAuth())
	{
		follow.POST("", h.Follow)
		follow.DELETE("", h.Unfollow)
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

func (h *UserHandler) RequestDeletion(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.userService.RequestDeletion(c.Request.Context(), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Check your email to confirm the deletion"})
}

func (h *UserHandler) ConfirmDeletion(c *gin.Context) {
	var req dto.TokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.ConfirmDeletion(c.Request.Context(), req.Token); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

func (h *UserHandler) ListFollowers(c *gin.Context) {
	id, ok := ParseParamID(c, "id")
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	result, err := h.followService.ListFollowers(c.Request.Context(), id, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) ListFollowing(c *gin.Context) {
	id, ok := ParseParamID(c, "id")
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	result, err := h.followService.ListFollowing(c.Request.Context(), id, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) Follow(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	targetID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	if err := h.followService.Follow(c.Request.Context(), userID, targetID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Following"})
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	targetID, ok := ParseParamID(c, "id")
	if !ok {
		return
	}

	if err := h.followService.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
