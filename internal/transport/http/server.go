package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "miniblog/internal/app"
	"miniblog/internal/bootstrap"
	"miniblog/internal/cache"
	"miniblog/internal/repository"
	"miniblog/internal/transport/http/handler"
	"miniblog/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	postRepo := repository.NewPostRepository(app.MySQL)
	tokenStore := cache.NewTokenStore(app.Redis)

	authService := appsvc.NewAuthService(
		userRepo,
		tokenStore,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	postService := appsvc.NewPostService(postRepo)
	dashboardService := appsvc.NewDashboardService(postRepo)

	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret, tokenStore)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authRequired, authHandler.Logout)
	authGroup.GET("/me", authRequired, authHandler.Me)
	authGroup.DELETE("/account", authRequired, authHandler.DeleteAccount)

	postGroup := v1.Group("/posts")
	postGroup.GET("", postHandler.List)
	postGroup.GET("/:id", postHandler.Get)
	postGroup.POST("", authRequired, postHandler.Create)
	postGroup.PUT("/:id", authRequired, postHandler.Update)
	postGroup.PATCH("/:id", authRequired, postHandler.Update)
	postGroup.PATCH("/:id/toggle-published", authRequired, postHandler.TogglePublished)
	postGroup.DELETE("/:id", authRequired, postHandler.Delete)

	dashboardGroup := v1.Group("/dashboard")
	dashboardGroup.Use(authRequired)
	dashboardGroup.GET("/stats", dashboardHandler.Stats)

	return router
}
