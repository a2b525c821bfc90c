package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
)

// PostWithCounts is the scan target for post listings. Counts are computed
// with correlated subqueries and the Is* flags are relative to the viewer
// the query was built for.
type PostWithCounts struct {
	ID             string            `gorm:"column:id"`
	UserID         string            `gorm:"column:user_id"`
	Content        string            `gorm:"column:content"`
	MediaURLs      model.StringArray `gorm:"column:media_urls"`
	OriginalPostID *string           `gorm:"column:original_post_id"`
	CreatedAt      time.Time         `gorm:"column:created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at"`
	LikeCount      int64             `gorm:"column:like_count"`
	RepostCount    int64             `gorm:"column:repost_count"`
	CommentCount   int64             `gorm:"column:comment_count"`
	IsLiked        bool              `gorm:"column:is_liked"`
	IsReposted     bool              `gorm:"column:is_reposted"`
}

const postCountsSelect = `posts.id, posts.user_id, posts.content, posts.media_urls,
posts.original_post_id, posts.created_at, posts.updated_at,
(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count,
(SELECT COUNT(*) FROM posts reposts WHERE reposts.original_post_id = posts.id) AS repost_count,
(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count,
EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS is_liked,
EXISTS(SELECT 1 FROM posts vr WHERE vr.original_post_id = posts.id AND vr.user_id = ?) AS is_reposted`

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) GetByID(id string) (*model.Post, error) {
	var post model.Post
	err := r.db.Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetWithCounts loads one post with counts and viewer flags. viewerID may
// be empty for anonymous requests.
func (r *PostRepository) GetWithCounts(id, viewerID string) (*PostWithCounts, error) {
	var row PostWithCounts
	err := r.db.Model(&model.Post{}).
		Select(postCountsSelect, viewerID, viewerID).
		Where("posts.id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetManyWithCounts loads the given posts with counts and viewer flags.
// Rows come back in database order; callers that need a specific ranking
// reorder by ID.
func (r *PostRepository) GetManyWithCounts(ids []string, viewerID string) ([]*PostWithCounts, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []*PostWithCounts
	err := r.db.Model(&model.Post{}).
		Select(postCountsSelect, viewerID, viewerID).
		Where("posts.id IN ?", ids).
		Find(&rows).Error
	return rows, err
}

// ListCandidates returns recent feed candidates for a viewer: original
// posts only (reposts surface through the original's repost count) and
// never the viewer's own.
func (r *PostRepository) ListCandidates(viewerID string, limit int) ([]*PostWithCounts, error) {
	var rows []*PostWithCounts
	err := r.db.Model(&model.Post{}).
		Select(postCountsSelect, viewerID, viewerID).
		Where("posts.original_post_id IS NULL AND posts.user_id <> ?", viewerID).
		Order("posts.created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ListRecent returns the newest posts across all users, reposts included.
func (r *PostRepository) ListRecent(limit, offset int, viewerID string) ([]*PostWithCounts, int64, error) {
	var total int64
	if err := r.db.Model(&model.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*PostWithCounts
	err := r.db.Model(&model.Post{}).
		Select(postCountsSelect, viewerID, viewerID).
		Order("posts.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

// ListByUser returns a user's posts, newest first.
func (r *PostRepository) ListByUser(userID string, limit, offset int, viewerID string) ([]*PostWithCounts, int64, error) {
	var total int64
	if err := r.db.Model(&model.Post{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*PostWithCounts
	err := r.db.Model(&model.Post{}).
		Select(postCountsSelect, viewerID, viewerID).
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *PostRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&model.Post{}).Count(&total).Error
	return total, err
}

// GetRepostByUser returns the viewer's repost of a post, if any.
func (r *PostRepository) GetRepostByUser(userID, originalPostID string) (*model.Post, error) {
	var post model.Post
	err := r.db.Where("user_id = ? AND original_post_id = ?", userID, originalPostID).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a post together with its likes, comments, interactions
// and any reposts pointing at it.
func (r *PostRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		repostIDs := tx.Model(&model.Post{}).Select("id").Where("original_post_id = ?", id)

		if err := tx.Where("post_id = ? OR post_id IN (?)", id, repostIDs).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ? OR post_id IN (?)", id, repostIDs).
			Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ? OR post_id IN (?)", id, repostIDs).
			Delete(&model.Interaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("original_post_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Post{}).Error
	})
}
