package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"payflow/apperrors"
	"payflow/middleware"
	"payflow/services"
)

// AuthController issues session tokens against the fixed credential
// principal and exposes an authenticated echo endpoint.
type AuthController struct {
	Tokens      *services.TokenService
	Credentials *services.CredentialChecker
	Logger      *zap.Logger
}

func NewAuthController(tokens *services.TokenService, credentials *services.CredentialChecker, logger *zap.Logger) *AuthController {
	return &AuthController{Tokens: tokens, Credentials: credentials, Logger: logger}
}

// Login handles POST /login.
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !ac.Credentials.Check(req.Username, req.Password) {
		c.JSON(apperrors.ErrInvalidCredentials.Code, gin.H{"error": apperrors.ErrInvalidCredentials.Message})
		return
	}

	token, err := ac.Tokens.Issue(req.Username, "admin")
	if err != nil {
		ac.Logger.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrInternalServer.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Protected handles GET /protected; it echoes the claims the auth gate
// attached to the request.
func (ac *AuthController) Protected(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(apperrors.ErrUnauthorized.Code, gin.H{"error": apperrors.ErrUnauthorized.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "This is a protected route",
		"user_id": claims.Subject,
		"role":    claims.Role,
	})
}
