package repository

import (
	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
)

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Create(interaction *model.Interaction) error {
	return r.db.Create(interaction).Error
}

// BatchCreate inserts all interactions in one statement. The batch is
// all-or-nothing at this level; callers split out invalid entries first.
func (r *InteractionRepository) BatchCreate(interactions []*model.Interaction) error {
	if len(interactions) == 0 {
		return nil
	}
	return r.db.Create(&interactions).Error
}

func (r *InteractionRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Interaction{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CountByUserGrouped returns the user's interaction counts keyed by type.
func (r *InteractionRepository) CountByUserGrouped(userID string) (map[string]int64, error) {
	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	err := r.db.Model(&model.Interaction{}).
		Select("type, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Type] = r.Count
	}
	return counts, nil
}

// ListRecentPostIDs returns the posts the user interacted with most
// recently, deduplicated, newest first.
func (r *InteractionRepository) ListRecentPostIDs(userID string, limit int) ([]string, error) {
	var ids []string
	err := r.db.Model(&model.Interaction{}).
		Where("user_id = ?", userID).
		Group("post_id").
		Order("MAX(created_at) DESC").
		Limit(limit).
		Pluck("post_id", &ids).Error
	return ids, err
}
