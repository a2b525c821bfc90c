package api

import (
	"github.com/gin-gonic/gin"

	"github.com/unknowntpo/threads-nextjs-sub000/config"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/api/handler"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/api/middleware"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	postHandler      *handler.PostHandler
	feedHandler      *handler.FeedHandler
	trackHandler     *handler.TrackHandler
	searchHandler    *handler.SearchHandler
	healthHandler    *handler.HealthHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	feedHandler *handler.FeedHandler,
	trackHandler *handler.TrackHandler,
	searchHandler *handler.SearchHandler,
	healthHandler *handler.HealthHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		postHandler:      postHandler,
		feedHandler:      feedHandler,
		trackHandler:     trackHandler,
		searchHandler:    searchHandler,
		healthHandler:    healthHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		api.GET("/healthz", r.healthHandler.Check)

		// WebSocket, token in query string
		api.GET("/ws", r.websocketHandler.Handle)

		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/forgot-password", r.authHandler.ForgotPassword)
			auth.POST("/reset-password", r.authHandler.ResetPassword)
			auth.GET("/github", r.authHandler.GithubLogin)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// Public reads, viewer flags resolved when a token is present
		public := api.Group("")
		public.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			public.GET("/posts/:id/comments", r.postHandler.ListComments)
			public.GET("/users/:id", r.userHandler.GetProfile)
			public.GET("/users/:id/posts", r.userHandler.ListPosts)
		}

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.GET("/feeds", r.feedHandler.GetFeed)
			authenticated.GET("/feeds/stats", r.feedHandler.GetStats)

			authenticated.POST("/track", r.trackHandler.Track)

			authenticated.GET("/search", r.searchHandler.Search)

			posts := authenticated.Group("/posts")
			{
				posts.GET("", r.postHandler.List)
				posts.POST("", r.postHandler.Create)
				posts.GET("/:id", r.postHandler.Get)
				posts.DELETE("/:id", r.postHandler.Delete)
				posts.POST("/:id/like", r.postHandler.Like)
				posts.DELETE("/:id/like", r.postHandler.Unlike)
				posts.POST("/:id/repost", r.postHandler.Repost)
				posts.DELETE("/:id/repost", r.postHandler.Unrepost)
				posts.POST("/:id/comments", r.postHandler.CreateComment)
				posts.DELETE("/:id/comments/:commentID", r.postHandler.DeleteComment)
			}

			user := authenticated.Group("/user")
			{
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.POST("/avatar", r.userHandler.UploadAvatar)
			}

			authenticated.POST("/users/:id/follow", r.userHandler.Follow)
			authenticated.DELETE("/users/:id/follow", r.userHandler.Unfollow)
		}
	}

	return engine
}
