package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/config"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/pkg/ws"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/repository"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotPostOwner    = errors.New("not the post owner")
	ErrAlreadyLiked    = errors.New("already liked")
	ErrNotLiked        = errors.New("not liked")
	ErrAlreadyReposted = errors.New("already reposted")
	ErrNotReposted     = errors.New("repost not found")
)

type PostService struct {
	postRepo    *repository.PostRepository
	userRepo    *repository.UserRepository
	likeRepo    *repository.LikeRepository
	commentRepo *repository.CommentRepository
	hub         *ws.Hub
	cfg         *config.Config
}

func NewPostService(postRepo *repository.PostRepository, userRepo *repository.UserRepository, likeRepo *repository.LikeRepository, commentRepo *repository.CommentRepository, hub *ws.Hub, cfg *config.Config) *PostService {
	return &PostService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		hub:         hub,
		cfg:         cfg,
	}
}

// Create stores a new post and announces it to connected clients.
func (s *PostService) Create(userID string, req *dto.CreatePostRequest) (*dto.PostItem, error) {
	post := &model.Post{
		UserID:    userID,
		Content:   req.Content,
		MediaURLs: req.MediaURLs,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	item, err := s.Get(post.ID, userID)
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		if err := s.hub.Broadcast(&ws.Message{Type: "post.created", Data: item}); err != nil {
			log.Printf("post: broadcast failed: %v", err)
		}
	}
	return item, nil
}

// Get loads one post with counts and viewer flags.
func (s *PostService) Get(postID, viewerID string) (*dto.PostItem, error) {
	row, err := s.postRepo.GetWithCounts(postID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	items, err := hydratePostItems([]*repository.PostWithCounts{row}, s.userRepo, s.postRepo, viewerID)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// ListRecent returns the newest posts across all users.
func (s *PostService) ListRecent(limit, offset int, viewerID string) ([]*dto.PostItem, int64, error) {
	rows, total, err := s.postRepo.ListRecent(limit, offset, viewerID)
	if err != nil {
		return nil, 0, err
	}
	items, err := hydratePostItems(rows, s.userRepo, s.postRepo, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByUser returns a user's posts, newest first.
func (s *PostService) ListByUser(userID string, limit, offset int, viewerID string) ([]*dto.PostItem, int64, error) {
	rows, total, err := s.postRepo.ListByUser(userID, limit, offset, viewerID)
	if err != nil {
		return nil, 0, err
	}
	items, err := hydratePostItems(rows, s.userRepo, s.postRepo, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Delete removes the caller's post and everything hanging off it.
func (s *PostService) Delete(postID, userID string) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.UserID != userID {
		return ErrNotPostOwner
	}
	return s.postRepo.Delete(postID)
}

// Like records a like. Liking twice is an error.
func (s *PostService) Like(userID, postID string) (*dto.LikeResponse, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	exists, err := s.likeRepo.Exists(userID, postID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyLiked
	}

	if err := s.likeRepo.Create(&model.Like{UserID: userID, PostID: postID}); err != nil {
		return nil, err
	}

	count, err := s.likeRepo.CountByPost(postID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: true, LikeCount: count}, nil
}

// Unlike removes a like. Unliking a post that was never liked is an error.
func (s *PostService) Unlike(userID, postID string) (*dto.LikeResponse, error) {
	affected, err := s.likeRepo.Delete(userID, postID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotLiked
	}

	count, err := s.likeRepo.CountByPost(postID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: false, LikeCount: count}, nil
}

// Repost creates a new post referencing the original, carrying a copy
// of its content and media. One repost per user per post.
func (s *PostService) Repost(userID, postID string) (*dto.PostItem, error) {
	original, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if _, err := s.postRepo.GetRepostByUser(userID, postID); err == nil {
		return nil, ErrAlreadyReposted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	repost := &model.Post{
		UserID:         userID,
		Content:        original.Content,
		MediaURLs:      original.MediaURLs,
		OriginalPostID: &postID,
	}
	if err := s.postRepo.Create(repost); err != nil {
		return nil, err
	}

	return s.Get(repost.ID, userID)
}

// Unrepost deletes the caller's repost of a post.
func (s *PostService) Unrepost(userID, postID string) error {
	repost, err := s.postRepo.GetRepostByUser(userID, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotReposted
		}
		return err
	}
	return s.postRepo.Delete(repost.ID)
}

// CreateComment attaches a comment to a post.
func (s *PostService) CreateComment(userID, postID string, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return commentItem(comment, author), nil
}

// ListComments returns a post's comments, oldest first.
func (s *PostService) ListComments(postID string, limit, offset int) (*dto.CommentListResponse, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comments, total, err := s.commentRepo.ListByPost(postID, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CommentItem, 0, len(comments))
	for _, c := range comments {
		items = append(items, commentItem(c, c.User))
	}
	return &dto.CommentListResponse{Comments: items, Total: total}, nil
}

// DeleteComment removes the caller's comment.
func (s *PostService) DeleteComment(commentID, userID string) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != userID {
		return ErrNotPostOwner
	}
	return s.commentRepo.Delete(commentID)
}

func commentItem(c *model.Comment, author *model.User) *dto.CommentItem {
	item := &dto.CommentItem{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if author != nil {
		item.Author = &dto.AuthorInfo{
			ID:          author.ID,
			Username:    author.Username,
			DisplayName: author.DisplayName,
			AvatarURL:   author.AvatarURL,
		}
	}
	return item
}

// hydratePostItems turns count rows into API items: authors are loaded in
// one batch, and reposts get their original embedded one level deep.
func hydratePostItems(rows []*repository.PostWithCounts, userRepo *repository.UserRepository, postRepo *repository.PostRepository, viewerID string) ([]*dto.PostItem, error) {
	if len(rows) == 0 {
		return []*dto.PostItem{}, nil
	}

	var originalIDs []string
	for _, row := range rows {
		if row.OriginalPostID != nil {
			originalIDs = append(originalIDs, *row.OriginalPostID)
		}
	}

	originals := make(map[string]*repository.PostWithCounts)
	if len(originalIDs) > 0 {
		originalRows, err := postRepo.GetManyWithCounts(originalIDs, viewerID)
		if err != nil {
			return nil, err
		}
		for _, row := range originalRows {
			originals[row.ID] = row
		}
	}

	authorIDs := make([]string, 0, len(rows))
	seen := make(map[string]struct{})
	collect := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			authorIDs = append(authorIDs, id)
		}
	}
	for _, row := range rows {
		collect(row.UserID)
	}
	for _, row := range originals {
		collect(row.UserID)
	}

	authors, err := userRepo.GetByIDs(authorIDs)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PostItem, 0, len(rows))
	for _, row := range rows {
		item := postItem(row, authors)
		if row.OriginalPostID != nil {
			if orig, ok := originals[*row.OriginalPostID]; ok {
				item.OriginalPost = postItem(orig, authors)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func postItem(row *repository.PostWithCounts, authors map[string]*model.User) *dto.PostItem {
	item := &dto.PostItem{
		ID:           row.ID,
		Content:      row.Content,
		MediaURLs:    row.MediaURLs,
		LikeCount:    row.LikeCount,
		RepostCount:  row.RepostCount,
		CommentCount: row.CommentCount,
		IsLiked:      row.IsLiked,
		IsReposted:   row.IsReposted,
		CreatedAt:    row.CreatedAt.Format(time.RFC3339),
	}
	if item.MediaURLs == nil {
		item.MediaURLs = []string{}
	}
	if row.OriginalPostID != nil {
		item.OriginalPostID = *row.OriginalPostID
	}
	if author, ok := authors[row.UserID]; ok {
		item.Author = &dto.AuthorInfo{
			ID:          author.ID,
			Username:    author.Username,
			DisplayName: author.DisplayName,
			AvatarURL:   author.AvatarURL,
		}
	}
	return item
}
