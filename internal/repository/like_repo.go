package repository

import (
	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Create(like *model.Like) error {
	return r.db.Create(like).Error
}

func (r *LikeRepository) Delete(userID, postID string) (int64, error) {
	res := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Like{})
	return res.RowsAffected, res.Error
}

func (r *LikeRepository) Exists(userID, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *LikeRepository) CountByPost(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
