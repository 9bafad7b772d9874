package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gamevault/internal/auth"
	"gamevault/internal/cache"
	"gamevault/internal/games"
	"gamevault/internal/rawg"
	"gamevault/pkg/database"
	"gamevault/pkg/utils"
)

func main() {
	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	redisCfg := utils.LoadRedisConfig()
	kv := cache.NewRedis(redisCfg)
	defer kv.Close()

	// a missing redis only degrades lookups to store/provider round trips
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := kv.Ping(pingCtx); err != nil {
		log.Printf("redis unreachable (%s:%d), running without warm cache: %v", redisCfg.Host, redisCfg.Port, err)
	}
	cancel()

	rawgCfg := utils.LoadRAWGConfig()
	if rawgCfg.APIKey == "" {
		log.Printf("GAMEVAULT_RAWG_API_KEY not set, external lookups will fail")
	}
	provider := rawg.NewClient(rawgCfg)

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "not_ready",
				"db_error": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
	})

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		AccessSecret:    []byte(authCfg.AccessSecret),
		RefreshSecret:   []byte(authCfg.RefreshSecret),
		Issuer:          authCfg.Issuer,
		AccessDuration:  authCfg.AccessDuration,
		RefreshDuration: authCfg.RefreshDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Games (protected)
	gameRepo := games.NewRepo(db)
	gameSvc := games.NewService(gameRepo, kv, provider)
	gameHandler := games.NewHandler(gameSvc)

	protected := router.Group("/games")
	protected.Use(auth.AuthMiddleware(tokenSvc, authRepo))
	gameHandler.RegisterRoutes(protected)

	httpSrv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("HTTP API server listening on :8080")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}

	log.Println("server stopped")
}
