// Package devserver is a development stub of the NeuroNote auth API. It
// backs local client development and the SDK's integration tests; it is not
// a production server.
package devserver

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/RGisanEclipse/neuronote-go/internal/infra/config"
)

// NewRouter assembles the gin engine for the stub.
func NewRouter(cfg config.StubConfig, logger *slog.Logger) *gin.Engine {
	return newRouter(cfg, logger, newState())
}

func newRouter(cfg config.StubConfig, logger *slog.Logger, store *state) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	minter := newTokenMinter(cfg.JWTSecret, cfg.TokenTTL)
	h := &handler{
		store:  store,
		minter: minter,
		logger: logger.With("component", "devserver"),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())

	api := router.Group("/api/v1/auth")
	api.POST("/signup", h.signup)
	api.POST("/signin", h.signin)
	api.POST("/password/reset", h.resetPassword)
	api.POST("/token/refresh", h.refresh)

	otp := api.Group("")
	otp.Use(optionalAuthMiddleware(minter, h.logger))

	limited := otp.Group("")
	limited.Use(rateLimitMiddleware(cfg.RateLimit, h.logger))
	limited.POST("/signup/otp", h.signupOTPRequest)
	limited.POST("/password/otp", h.forgotPasswordOTPRequest)

	otp.POST("/signup/otp/verify", h.signupOTPVerify)
	otp.POST("/password/otp/verify", h.forgotPasswordOTPVerify)

	return router
}
