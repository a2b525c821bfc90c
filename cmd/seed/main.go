// Command seed fills the database with fake users, posts and
// interactions for local development.
package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/unknowntpo/threads-nextjs-sub000/config"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/database"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
)

var interactionKinds = []string{
	model.InteractionView,
	model.InteractionClick,
	model.InteractionLike,
	model.InteractionShare,
}

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "config file path")
		userCount  = flag.Int("users", 20, "number of users to create")
		postCount  = flag.Int("posts", 100, "number of posts to create")
		seed       = flag.Int64("seed", 0, "random seed (0 = time-based)")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	gofakeit.Seed(*seed)
	rng := rand.New(rand.NewSource(*seed))

	cfg, err := config.Load(*configPath)
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

	users := make([]*model.User, 0, *userCount)
	for i := 0; i < *userCount; i++ {
		email := gofakeit.Email()
		user := &model.User{
			Username:    gofakeit.Username(),
			Email:       &email,
			DisplayName: gofakeit.Name(),
			Bio:         gofakeit.Sentence(8),
			AvatarURL:   gofakeit.ImageURL(128, 128),
		}
		if err := db.Create(user).Error; err != nil {
			// Username collisions happen with fake data, just skip.
			log.Printf("seed: user skipped: %v", err)
			continue
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	if len(users) == 0 {
		log.Fatal("No users created, nothing to seed")
	}

	posts := make([]*model.Post, 0, *postCount)
	for i := 0; i < *postCount; i++ {
		author := users[rng.Intn(len(users))]
		post := &model.Post{
			UserID:    author.ID,
			Content:   gofakeit.Sentence(3 + rng.Intn(15)),
			CreatedAt: gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now()),
		}
		if err := db.Create(post).Error; err != nil {
			log.Printf("seed: post skipped: %v", err)
			continue
		}
		posts = append(posts, post)
	}
	log.Printf("Created %d posts", len(posts))

	follows := 0
	for _, follower := range users {
		for _, target := range users {
			if follower.ID == target.ID || rng.Float64() > 0.2 {
				continue
			}
			edge := &model.Follow{FollowerID: follower.ID, FollowingID: target.ID}
			if err := db.Create(edge).Error; err == nil {
				follows++
			}
		}
	}
	log.Printf("Created %d follows", follows)

	likes := 0
	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.UserID || rng.Float64() > 0.15 {
				continue
			}
			like := &model.Like{UserID: user.ID, PostID: post.ID}
			if err := db.Create(like).Error; err == nil {
				likes++
			}
		}
	}
	log.Printf("Created %d likes", likes)

	reposts := 0
	for _, post := range posts {
		if rng.Float64() > 0.1 {
			continue
		}
		reposter := users[rng.Intn(len(users))]
		if reposter.ID == post.UserID {
			continue
		}
		repost := &model.Post{
			UserID:         reposter.ID,
			Content:        post.Content,
			OriginalPostID: &post.ID,
		}
		if err := db.Create(repost).Error; err == nil {
			reposts++
		}
	}
	log.Printf("Created %d reposts", reposts)

	comments := 0
	for _, post := range posts {
		n := rng.Intn(4)
		for i := 0; i < n; i++ {
			comment := &model.Comment{
				UserID:  users[rng.Intn(len(users))].ID,
				PostID:  post.ID,
				Content: gofakeit.Sentence(2 + rng.Intn(10)),
			}
			if err := db.Create(comment).Error; err == nil {
				comments++
			}
		}
	}
	log.Printf("Created %d comments", comments)

	interactions := 0
	for _, post := range posts {
		n := rng.Intn(8)
		for i := 0; i < n; i++ {
			row := &model.Interaction{
				UserID: users[rng.Intn(len(users))].ID,
				PostID: post.ID,
				Type:   interactionKinds[rng.Intn(len(interactionKinds))],
				Metadata: model.JSONMap{
					"source":   "seed",
					"position": rng.Intn(50),
				},
			}
			if err := db.Create(row).Error; err == nil {
				interactions++
			}
		}
	}
	log.Printf("Created %d interactions", interactions)
}
