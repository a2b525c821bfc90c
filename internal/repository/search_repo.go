package repository

import (
	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
)

type SearchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// SearchPosts matches post content with a case-insensitive substring
// match. filter is "top" (most liked first) or "recent" (newest first).
func (r *SearchRepository) SearchPosts(query, filter string, limit, offset int, viewerID string) ([]*PostWithCounts, error) {
	q := r.db.Model(&model.Post{}).
		Select(postCountsSelect, viewerID, viewerID).
		Where("posts.content LIKE ?", "%"+query+"%")

	switch filter {
	case "recent":
		q = q.Order("posts.created_at DESC")
	default: // top
		q = q.Order("like_count DESC, posts.created_at DESC")
	}

	var rows []*PostWithCounts
	err := q.Offset(offset).Limit(limit).Find(&rows).Error
	return rows, err
}

// SearchUsers matches usernames and display names.
func (r *SearchRepository) SearchUsers(query string, limit, offset int) ([]*model.User, error) {
	var users []*model.User
	pattern := "%" + query + "%"
	err := r.db.Model(&model.User{}).
		Where("username LIKE ? OR display_name LIKE ?", pattern, pattern).
		Order("username ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, err
}
