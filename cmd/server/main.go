package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unknowntpo/threads-nextjs-sub000/config"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/api"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/api/handler"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/database"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/email"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/mlclient"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/oauth"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/oss"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/ws"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/repository"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/service"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	wsHub := ws.NewHub()

	ossClient, err := oss.NewClient(&cfg.OSS)
	if err != nil {
		log.Fatalf("Failed to init OSS client: %v", err)
	}

	mailer := email.NewService(&cfg.Email)
	stateStore := oauth.NewStateStore(rdb)
	recommender := mlclient.New(&cfg.ML)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	searchRepo := repository.NewSearchRepository(db)

	authService := service.NewAuthService(userRepo, stateStore, mailer, cfg)
	userService := service.NewUserService(userRepo, followRepo, ossClient, cfg)
	postService := service.NewPostService(postRepo, userRepo, likeRepo, commentRepo, wsHub, cfg)
	feedService := service.NewFeedService(postRepo, userRepo, interactionRepo, recommender, rdb, cfg)
	trackingService := service.NewTrackingService(interactionRepo, cfg)
	searchService := service.NewSearchService(searchRepo, userRepo, postRepo, followRepo)

	router := api.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService, postService),
		handler.NewPostHandler(postService),
		handler.NewFeedHandler(feedService),
		handler.NewTrackHandler(trackingService),
		handler.NewSearchHandler(searchService),
		handler.NewHealthHandler(feedService),
		handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret),
		cfg,
	)
	engine := router.Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down")

	// Flush buffered interactions before the process goes away.
	trackingService.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
