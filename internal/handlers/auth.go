package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/herdsight/herdsight-backend/internal/pkg/errors"
	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
	"github.com/herdsight/herdsight-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		log:         log.With("handler", "AuthHandler"),
		authService: authService,
	}
}

func (ah *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := ah.authService.SignupUser(c.Request.Context(), req.Name, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			respondError(c, http.StatusBadRequest, clientMessage(err))
			return
		}
		ah.log.Error("signup failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to create account. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := ah.authService.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidArgument):
			respondError(c, http.StatusBadRequest, clientMessage(err))
		case errors.Is(err, apperrors.ErrUnauthorized):
			respondError(c, http.StatusUnauthorized, "Invalid username or password.")
		default:
			ah.log.Error("login failed", "error", err)
			respondError(c, http.StatusInternalServerError, "Login failed. Please try again.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// clientMessage strips the sentinel prefix from a wrapped validation error,
// leaving only the human-readable part for the response body.
func clientMessage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}
