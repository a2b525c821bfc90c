package repository

import (
	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) GetByID(id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Comment{}).Error
}

// ListByPost returns a post's comments with their authors, oldest first.
func (r *CommentRepository) ListByPost(postID string, limit, offset int) ([]*model.Comment, int64, error) {
	var total int64
	if err := r.db.Model(&model.Comment{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*model.Comment
	err := r.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	return comments, total, err
}
