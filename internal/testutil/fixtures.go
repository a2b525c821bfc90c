package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser inserts a user with sane defaults.
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := nextSeq()
	email := fmt.Sprintf("test_%d@example.com", n)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", n),
		Email:        &email,
		PasswordHash: &passwordHash,
		DisplayName:  fmt.Sprintf("Test User %d", n),
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername overrides the generated username.
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail overrides the generated email.
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithGithubID marks the user as a GitHub signup.
func WithGithubID(githubID string) func(*model.User) {
	return func(u *model.User) {
		u.GithubID = &githubID
		u.PasswordHash = nil
	}
}

// TestPost inserts a post owned by userID.
func TestPost(t *testing.T, db *gorm.DB, userID string, opts ...func(*model.Post)) *model.Post {
	t.Helper()

	post := &model.Post{
		UserID:  userID,
		Content: fmt.Sprintf("Test post %d", nextSeq()),
	}

	for _, opt := range opts {
		opt(post)
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}

	return post
}

// WithContent sets the post body.
func WithContent(content string) func(*model.Post) {
	return func(p *model.Post) {
		p.Content = content
	}
}

// WithOriginalPost turns the post into a repost.
func WithOriginalPost(originalPostID string) func(*model.Post) {
	return func(p *model.Post) {
		p.OriginalPostID = &originalPostID
	}
}

// WithCreatedAt backdates the post.
func WithCreatedAt(ts time.Time) func(*model.Post) {
	return func(p *model.Post) {
		p.CreatedAt = ts
	}
}

// WithMediaURLs attaches media.
func WithMediaURLs(urls ...string) func(*model.Post) {
	return func(p *model.Post) {
		p.MediaURLs = urls
	}
}

// TestLike inserts a like.
func TestLike(t *testing.T, db *gorm.DB, userID, postID string) *model.Like {
	t.Helper()

	like := &model.Like{UserID: userID, PostID: postID}
	if err := db.Create(like).Error; err != nil {
		t.Fatalf("Failed to create test like: %v", err)
	}
	return like
}

// TestFollow inserts a follow edge.
func TestFollow(t *testing.T, db *gorm.DB, followerID, followingID string) *model.Follow {
	t.Helper()

	follow := &model.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := db.Create(follow).Error; err != nil {
		t.Fatalf("Failed to create test follow: %v", err)
	}
	return follow
}

// TestComment inserts a comment.
func TestComment(t *testing.T, db *gorm.DB, userID, postID string, opts ...func(*model.Comment)) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: fmt.Sprintf("Test comment %d", nextSeq()),
	}

	for _, opt := range opts {
		opt(comment)
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}
	return comment
}

// TestInteraction inserts a tracked interaction.
func TestInteraction(t *testing.T, db *gorm.DB, userID, postID, kind string, opts ...func(*model.Interaction)) *model.Interaction {
	t.Helper()

	interaction := &model.Interaction{
		UserID: userID,
		PostID: postID,
		Type:   kind,
	}

	for _, opt := range opts {
		opt(interaction)
	}

	if err := db.Create(interaction).Error; err != nil {
		t.Fatalf("Failed to create test interaction: %v", err)
	}
	return interaction
}

// WithMetadata attaches metadata to an interaction.
func WithMetadata(meta map[string]interface{}) func(*model.Interaction) {
	return func(i *model.Interaction) {
		i.Metadata = meta
	}
}
