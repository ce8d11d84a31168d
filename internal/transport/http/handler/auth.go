package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/account-api/internal/domain"
	"github.com/gin-gonic/gin"
)

// authenticator is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Token, error)
}

type AuthHandler struct {
	authUsecase authenticator
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authenticator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type createTokenRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createTokenResponse struct {
	Token string `json:"token"`
}

// POST /api/user/token
// Every failure is a 400 with the same body shape and no token field.
func (h *AuthHandler) CreateToken(c *gin.Context) {
	var req createTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadCredentials})
		return
	}

	token, err := h.authUsecase.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadCredentials})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "authenticate", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, createTokenResponse{Token: token.Value})
}
