package app

import (
	"context"

	"verify-service/internal/audit"
	"verify-service/internal/config"
	"verify-service/internal/middleware"
	"verify-service/internal/session"
	"verify-service/internal/verify/handler"
	"verify-service/internal/verify/provider/microsoft"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	var store session.Store
	if infra.Redis != nil {
		store = session.NewRedisStore(infra.Redis.Client, cfg.SessionTTL)
	} else {
		store = session.NewMemoryStore(cfg.SessionTTL)
	}

	var recorder audit.Recorder = audit.NopRecorder{}
	if infra.DB != nil {
		recorder = audit.NewDBRecorder(infra.DB)
	}

	msProvider, err := microsoft.New(
		ctx,
		cfg.MSClientID,
		cfg.MSClientSecret,
		cfg.MSTenantID,
		cfg.MSRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	verifyHandler := handler.NewHandler(
		store,
		msProvider,
		recorder,
		cfg.PublicBaseURL,
	)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	verifyHandler.RegisterRoutes(
		router,
		middleware.RequireOperatorKey(cfg.OperatorKeyHash),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router, infra.Close, nil
}
