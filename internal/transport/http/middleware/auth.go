package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/account-api/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized   = "Unauthorized"
	errInternalServer = "Internal server error"

	accountKey = "account"
)

var schemes = []string{"Token ", "Bearer "}

// TokenResolver is the subset of AuthUsecase the middleware needs.
type TokenResolver interface {
	ResolveToken(ctx context.Context, value string) (*domain.Account, error)
}

// Auth resolves "Authorization: Token <value>" (or Bearer) to an active
// account and stores it in the gin context for AccountFrom.
func Auth(resolver TokenResolver, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "auth_middleware")

	return func(c *gin.Context) {
		value, ok := tokenFromHeader(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		account, err := resolver.ResolveToken(c.Request.Context(), value)
		if err != nil {
			if errors.Is(err, domain.ErrAuthentication) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
				return
			}
			logger.ErrorContext(c.Request.Context(), "resolve token", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}

		c.Set(accountKey, account)
		c.Next()
	}
}

// AccountFrom returns the account resolved by Auth.
func AccountFrom(c *gin.Context) (*domain.Account, bool) {
	v, ok := c.Get(accountKey)
	if !ok {
		return nil, false
	}
	account, ok := v.(*domain.Account)
	return account, ok && account != nil
}

func tokenFromHeader(header string) (string, bool) {
	for _, scheme := range schemes {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			value := strings.TrimSpace(header[len(scheme):])
			return value, value != ""
		}
	}
	return "", false
}
