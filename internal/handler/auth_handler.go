package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/umuhuza/umuhuza_api/internal/middleware"
	"github.com/umuhuza/umuhuza_api/internal/service"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	res, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Registration successful", res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Login successful", res)
}

// Me returns the session user.
func (h *AuthHandler) Me(c *gin.Context) {
	utils.Success(c, http.StatusOK, "User retrieved", middleware.CurrentUser(c))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Logged out", nil)
}
