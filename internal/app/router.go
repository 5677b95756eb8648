package app

import (
	"skillkart_backend/docs"
	"skillkart_backend/internal/config"
	"skillkart_backend/internal/middleware"
	"skillkart_backend/internal/model"
	"skillkart_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerLearnerRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		public.GET("/roadmaps", c.roadmap.List)
		public.GET("/roadmaps/category/:category", c.roadmap.ListByCategory)
		public.GET("/roadmaps/difficulty/:difficulty", c.roadmap.ListByDifficulty)
		public.GET("/roadmaps/:id", c.roadmap.Get)

		public.GET("/roadmaps/:id/discussions", c.discussion.List)
		public.GET("/discussions/:id", c.discussion.Get)

		public.GET("/articles/:id", c.media.GetArticle)
	}
}

func (a *App) registerLearnerRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/auth/me", c.auth.Me)
	api.GET("/ws", c.notification.HandleWS)

	users := api.Group("/users")
	{
		users.GET("/profile", c.user.GetProfile)
		users.PUT("/profile", c.user.UpdateProfile)
		users.GET("/me/roadmaps", c.progress.MyRoadmaps)
	}

	roadmaps := api.Group("/roadmaps/:id")
	{
		roadmaps.GET("/progress", c.progress.GetProgress)
		roadmaps.PUT("/topics/:weekIndex/:topicIndex/complete", c.progress.Complete)
		roadmaps.PUT("/topics/:weekIndex/:topicIndex/inprogress", c.progress.InProgress)
		roadmaps.PUT("/topics/:weekIndex/:topicIndex/reset", c.progress.Reset)

		roadmaps.POST("/quiz", c.quiz.Submit)
		roadmaps.GET("/quiz/attempts", c.quiz.History)

		roadmaps.POST("/discussions", c.discussion.Create)
	}

	discussions := api.Group("/discussions/:id")
	{
		discussions.PUT("", c.discussion.Update)
		discussions.DELETE("", c.discussion.Delete)
		discussions.PUT("/like", c.discussion.ToggleLike)
		discussions.POST("/comments", c.discussion.AddComment)
		discussions.PUT("/comments/:commentId", c.discussion.UpdateComment)
		discussions.DELETE("/comments/:commentId", c.discussion.DeleteComment)
		discussions.PUT("/comments/:commentId/like", c.discussion.ToggleCommentLike)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/stats", c.analytics.Stats)

		admin.GET("/roadmaps", c.roadmap.ListMine)
		admin.POST("/roadmaps", c.roadmap.Create)
		admin.POST("/roadmaps/import", c.roadmap.Import)
		admin.PUT("/roadmaps/:id", c.roadmap.Update)
		admin.DELETE("/roadmaps/:id", c.roadmap.Delete)

		admin.POST("/roadmaps/:id/weeks/:weekIndex/topics", c.roadmap.AddTopic)
		admin.PUT("/roadmaps/:id/weeks/:weekIndex/topics/:topicIndex", c.roadmap.UpdateTopic)
		admin.DELETE("/roadmaps/:id/weeks/:weekIndex/topics/:topicIndex", c.roadmap.DeleteTopic)
		admin.POST("/roadmaps/:id/weeks/:weekIndex/topics/:topicIndex/resources", c.roadmap.AddResource)

		admin.GET("/roadmaps/:id/progress", c.analytics.RoadmapLearners)
		admin.GET("/roadmaps/:id/usercount", c.analytics.UserCount)
		admin.GET("/roadmaps/:id/export", c.analytics.Export)

		admin.POST("/resources/upload", c.media.Upload)
		admin.POST("/articles", c.media.CreateArticle)
		admin.GET("/articles", c.media.ListArticles)
	}
}
