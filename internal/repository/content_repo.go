package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/sports_content_server/internal/model"
)

type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) Create(item *model.ContentItem) error {
	return r.db.Create(item).Error
}

func (r *ContentRepository) GetByID(id int64) (*model.ContentItem, error) {
	var item model.ContentItem
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByUserID 按创建时间倒序返回用户的全部内容
func (r *ContentRepository) ListByUserID(userID int64) ([]*model.ContentItem, error) {
	var items []*model.ContentItem
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&items).Error
	return items, err
}

// CountByUserSince 统计用户自某时间起生成的内容数
func (r *ContentRepository) CountByUserSince(userID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.ContentItem{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}
