package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell_backend/internal/services"
	"inkwell_backend/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService    services.AuthService
	sessionService services.SessionService
	rateLimit      gin.HandlerFunc
}

func NewAuthHandler(
	base *BaseHandler,
	authService services.AuthService,
	sessionService services.SessionService,
	rateLimit gin.HandlerFunc,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:    base,
		authService:    authService,
		sessionService: sessionService,
		rateLimit:      rateLimit,
	}
}

// RegisterRoutes mounts /auth. Every endpoint is public and rate limited per IP.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	if h.rateLimit != nil {
		auth.Use(h.rateLimit)
	}
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/oauth/:provider", h.ProviderLogin)
		auth.POST("/activate", h.Activate)
		auth.POST("/activate/resend", h.ResendActivation)
		auth.POST("/password/forgot", h.ForgotPassword)
		auth.POST("/password/reset", h.ResetPassword)
	}
}

// writeSession returns the session both in the body and in the Authorization header.
func writeSession(c *gin.Context, status int, resp *dto.AuthResponse) {
	c.Header("Authorization", "Bearer "+resp.Token)
	c.JSON(status, resp)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	writeSession(c, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.sessionService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	writeSession(c, http.StatusOK, resp)
}

func (h *AuthHandler) ProviderLogin(c *gin.Context) {
	var req dto.ProviderLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.sessionService.AuthenticateWithProvider(c.Request.Context(), req.Token, c.Param("provider"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	writeSession(c, http.StatusOK, resp)
}

func (h *AuthHandler) Activate(c *gin.Context) {
	var req dto.TokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.Activate(c.Request.Context(), req.Token); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account activated"})
}

func (h *AuthHandler) ResendActivation(c *gin.Context) {
	var req dto.EmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResendActivation(c.Request.Context(), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "If the account exists and is not active, an activation email was sent"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.EmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "If the account exists, a reset email was sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
