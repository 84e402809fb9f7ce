package services

import (
	"context"
	"strings"

	"inkwell/models"
	"inkwell/utils"

	"gorm.io/gorm"
)

// TagService manages tags, which only exist as strings on posts. Renames and
// deletes are bulk statements over post_tags; they are not atomic across posts.
type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

func (s *TagService) List(ctx context.Context) ([]models.TagCount, error) {
	tags := []models.TagCount{}
	err := s.db.WithContext(ctx).
		Model(&models.PostTag{}).
		Select("name, COUNT(*) AS count").
		Group("name").
		Order("name ASC").
		Scan(&tags).Error
	if err != nil {
		return nil, utils.Internal(err)
	}
	return tags, nil
}

// Rename rewrites oldName to newName on every post carrying it and returns
// the number of posts touched. Posts that already carry newName just lose oldName.
func (s *TagService) Rename(ctx context.Context, oldName, newName string) (int64, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return 0, utils.InvalidInput("Validation failed", "newName: is required")
	}
	if len(newName) > 100 {
		return 0, utils.InvalidInput("Validation failed", "newName: must be at most 100 characters")
	}

	affected, err := s.countPosts(ctx, oldName)
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, utils.NotFound("Tag not found")
	}
	if newName == oldName {
		return affected, nil
	}

	db := s.db.WithContext(ctx)
	carriers := db.Model(&models.PostTag{}).Select("post_id").Where("name = ?", newName)
	if err := db.Where("name = ? AND post_id IN (?)", oldName, carriers).Delete(&models.PostTag{}).Error; err != nil {
		return 0, utils.Internal(err)
	}
	err = db.Model(&models.PostTag{}).
		Where("name = ?", oldName).
		UpdateColumn("name", newName).Error
	if err != nil {
		return 0, utils.Internal(err)
	}
	return affected, nil
}

// Delete strips name from every post and returns how many posts carried it.
func (s *TagService) Delete(ctx context.Context, name string) (int64, error) {
	res := s.db.WithContext(ctx).Where("name = ?", name).Delete(&models.PostTag{})
	if res.Error != nil {
		return 0, utils.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, utils.NotFound("Tag not found")
	}
	return res.RowsAffected, nil
}

func (s *TagService) countPosts(ctx context.Context, name string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.PostTag{}).
		Where("name = ?", name).
		Distinct("post_id").
		Count(&count).Error
	if err != nil {
		return 0, utils.Internal(err)
	}
	return count, nil
}
