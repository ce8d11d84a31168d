package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/account-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/account-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, accountHandler *handler.AccountHandler, authHandler *handler.AuthHandler, resolver middleware.TokenResolver) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(resolver, logger)

	// Public routes
	user := r.Group("/api/user")
	user.POST("/create", accountHandler.Create)
	user.POST("/token", authHandler.CreateToken)

	// Protected profile routes
	me := user.Group("/me", authMW)
	me.GET("", accountHandler.Me)
	me.PATCH("", accountHandler.Patch)
	me.PUT("", accountHandler.Put)
	me.POST("", accountHandler.MethodNotAllowed)

	return r
}
