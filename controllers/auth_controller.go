package controllers

import (
	"net/http"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Svc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{Svc: svc}
}

type credentialsInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type verifyInput struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type emailInput struct {
	Email string `json:"email" binding:"required"`
}

type resetInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// POST /auth/register
func (h *AuthController) Register(c *gin.Context) {
	var in credentialsInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful, check your email for the verification code",
		"user_id": user.ID,
	})
}

// POST /auth/verify
func (h *AuthController) VerifyEmail(c *gin.Context) {
	var in verifyInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.Svc.VerifyEmail(c.Request.Context(), in.Email, in.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

// POST /auth/resend-verification
func (h *AuthController) ResendVerification(c *gin.Context) {
	var in emailInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.Svc.ResendVerification(c.Request.Context(), in.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a new code was sent"})
}

// POST /auth/login
func (h *AuthController) Login(c *gin.Context) {
	var in credentialsInput
	if !bindJSON(c, &in) {
		return
	}
	token, err := h.Svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// POST /auth/forgot-password
func (h *AuthController) ForgotPassword(c *gin.Context) {
	var in emailInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), in.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset token was sent"})
}

// POST /auth/reset-password
func (h *AuthController) ResetPassword(c *gin.Context) {
	var in resetInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), in.Token, in.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
