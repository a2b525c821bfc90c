package repository

import (
	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Create(follow *model.Follow) error {
	return r.db.Create(follow).Error
}

func (r *FollowRepository) Delete(followerID, followingID string) (int64, error) {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	return res.RowsAffected, res.Error
}

func (r *FollowRepository) Exists(followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *FollowRepository) CountFollowers(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *FollowRepository) CountFollowing(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
