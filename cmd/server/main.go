package main

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pretzelhammer/drawduel2/auth"
	"github.com/pretzelhammer/drawduel2/config"
	"github.com/pretzelhammer/drawduel2/crypto"
	"github.com/pretzelhammer/drawduel2/game"
	"github.com/pretzelhammer/drawduel2/logger"
	"github.com/pretzelhammer/drawduel2/metrics"
	"github.com/pretzelhammer/drawduel2/migrations"
	"github.com/pretzelhammer/drawduel2/storage"
)

const cookieMaxAge = 30 * 24 * time.Hour

func main() {
	env := config.Load()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	var allowedOrigins []string
	if env.GinMode == "release" {
		allowedOrigins = append(allowedOrigins,
			"https://"+env.FrontendOrigin,
			"https://www."+env.FrontendOrigin,
		)
	} else {
		allowedOrigins = append(allowedOrigins, "http://"+env.FrontendOrigin)
		logger.SetDebug()
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden-origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Origin",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	room := game.NewRoom(game.DefaultRoomConfigs(), game.RoomDeps{})
	go room.Run()
	gameHandler := game.NewHandler(room)

	// accounts need postgres; the game itself runs without it
	if env.PostgresUrl != "" {
		if err := migrations.Migrate(env.PostgresUrl); err != nil {
			logger.Fatalf("migrations failed: %v", err)
		}
		repo, err := storage.NewPostgresRepo(context.Background(), env.PostgresUrl)
		if err != nil {
			logger.Fatalf("couldn't connect to postgres: %v", err)
		}
		defer repo.Close()

		authService := auth.NewService(
			repo,
			crypto.DefaultArgon2idHasher(),
			crypto.NewJWTManager(env.JwtKey, cookieMaxAge),
		)
		authHandler := auth.NewAuthHandler(authService, cookieMaxAge)
		authHandler.RegisterRoutes(r)
		gameHandler.RegisterRoutes(r.Group("", authHandler.OptionalAuthMiddleware()))
	} else {
		logger.Warning("POSTGRES_URL not set, accounts disabled")
		gameHandler.RegisterRoutes(r)
	}

	logger.Infof("api listening on port %s", env.Port)
	if err := r.Run(":" + env.Port); err != nil {
		logger.Fatalf("couldn't start server: %v", err)
	}
}
