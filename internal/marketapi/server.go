// Package marketapi serves the mock game-key marketplace the storefront
// client talks to: authentication, catalog, per-user carts, and the staff
// admin surface.
package marketapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamevault/storefront/internal/store/marketstore"
	"github.com/gamevault/storefront/internal/store/sqldb"
)

const claimsContextKey = "auth_claims"

// Run boots the marketplace API using the supplied configuration.
func Run(ctx context.Context, cfg Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("zap init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	db, cleanup, driver, err := sqldb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database open: %w", err)
	}
	defer func() { _ = cleanup() }()

	store := marketstore.New(db)
	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if cfg.SeedDemoData {
		if err := Seed(ctx, store); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		logger.Info("demo data seeded", zap.String("driver", driver))
	}

	router := NewRouter(cfg, store, logger)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("marketapi listening", zap.String("addr", cfg.ListenAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// NewRouter builds the full marketplace HTTP surface over a store. Run
// uses it; tests and embedders can mount it directly.
func NewRouter(cfg Config, store *marketstore.Store, logger *zap.Logger) *gin.Engine {
	handler := &httpHandler{
		logger: logger,
		store:  store,
		cfg:    cfg,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
	return setupRouter(cfg, handler)
}

func setupRouter(cfg Config, handler *httpHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := router.Group("/auth")
	auth.POST("/login", handler.handleLogin)
	auth.POST("/logout", handler.handleLogout)

	catalogGroup := router.Group("/catalog")
	catalogGroup.GET("/games", handler.handleListGames)
	catalogGroup.GET("/games/:id", handler.handleGetGame)
	catalogGroup.GET("/categories", handler.handleListCategories)

	cartGroup := router.Group("/cart")
	cartGroup.Use(handler.authRequired())
	cartGroup.GET("/items", handler.handleListCartItems)
	cartGroup.POST("/add", handler.handleAddCartItem)
	cartGroup.PUT("/items/:id", handler.handleUpdateCartItem)
	cartGroup.DELETE("/remove/:id", handler.handleRemoveCartItem)
	cartGroup.DELETE("/clear", handler.handleClearCart)

	adminGroup := router.Group("/admin")
	adminGroup.Use(handler.authRequired(), handler.staffRequired())
	adminGroup.POST("/categories", handler.handleCreateCategory)
	adminGroup.POST("/games", handler.handleCreateGame)
	adminGroup.PUT("/games/:id", handler.handleUpdateGame)
	adminGroup.DELETE("/games/:id", handler.handleDeleteGame)
	adminGroup.POST("/games/:id/offers", handler.handleCreateKeyOffer)

	return router
}

type httpHandler struct {
	logger *zap.Logger
	store  *marketstore.Store
	cfg    Config
	nowFn  func() time.Time
}

// authRequired verifies the bearer token on every request. The client's
// locally decoded claims are never consulted.
func (handler *httpHandler) authRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw := bearerToken(ctx.GetHeader("Authorization"))
		if raw == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("unauthorized", "missing bearer token"))
			return
		}
		claims, err := verifyToken(raw, handler.cfg)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid or expired token"))
			return
		}
		ctx.Set(claimsContextKey, claims)
		ctx.Next()
	}
}

// staffRequired re-checks the staff flag from the verified claims.
func (handler *httpHandler) staffRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims := getClaims(ctx)
		if claims == nil || !claims.IsStaff {
			ctx.AbortWithStatusJSON(http.StatusForbidden, errorResponse("forbidden", "staff access required"))
			return
		}
		ctx.Next()
	}
}

func getClaims(ctx *gin.Context) *tokenClaims {
	claimsValue, ok := ctx.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := claimsValue.(*tokenClaims)
	return claims
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}
