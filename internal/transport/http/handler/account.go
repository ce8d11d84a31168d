package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/account-api/internal/domain"
	"github.com/ErlanBelekov/account-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/account-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type accountUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.Account, error)
	GetProfile(ctx context.Context, accountID string) (domain.Profile, error)
	UpdateProfile(ctx context.Context, accountID string, input usecase.UpdateProfileInput) (domain.Profile, error)
}

type AccountHandler struct {
	accountUsecase accountUsecaser
	logger         *slog.Logger
}

func NewAccountHandler(accountUsecase accountUsecaser, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUsecase: accountUsecase,
		logger:         logger.With("component", "account_handler"),
	}
}

type createAccountRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type patchProfileRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// Full replacement: email and name are required, password stays optional.
type putProfileRequest struct {
	Email    string  `json:"email"    binding:"required"`
	Name     string  `json:"name"     binding:"required"`
	Password *string `json:"password"`
}

type profileResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// POST /api/user/create
func (h *AccountHandler) Create(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	account, err := h.accountUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.writeError(c, "register account", err)
		return
	}

	c.JSON(http.StatusCreated, toProfileResponse(account.Profile()))
}

// GET /api/user/me
func (h *AccountHandler) Me(c *gin.Context) {
	account, ok := middleware.AccountFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	profile, err := h.accountUsecase.GetProfile(c.Request.Context(), account.ID)
	if err != nil {
		h.writeError(c, "get profile", err)
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// PATCH /api/user/me
func (h *AccountHandler) Patch(c *gin.Context) {
	var req patchProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	h.update(c, usecase.UpdateProfileInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
}

// PUT /api/user/me
func (h *AccountHandler) Put(c *gin.Context) {
	var req putProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	h.update(c, usecase.UpdateProfileInput{
		Email:    &req.Email,
		Name:     &req.Name,
		Password: req.Password,
	})
}

// POST /api/user/me
// Accounts are only created through /api/user/create.
func (h *AccountHandler) MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": errMethodNotAllowed})
}

func (h *AccountHandler) update(c *gin.Context, input usecase.UpdateProfileInput) {
	account, ok := middleware.AccountFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	profile, err := h.accountUsecase.UpdateProfile(c.Request.Context(), account.ID, input)
	if err != nil {
		h.writeError(c, "update profile", err)
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *AccountHandler) writeError(c *gin.Context, op string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmailTaken})
	case errors.Is(err, domain.ErrNotFound):
		// the token resolved but its account is gone
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
	default:
		h.logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}

func toProfileResponse(p domain.Profile) profileResponse {
	return profileResponse{Email: p.Email, Name: p.Name}
}
