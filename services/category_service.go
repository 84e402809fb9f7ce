package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inkwell/models"
	"inkwell/utils"

	"gorm.io/gorm"
)

type CategoryService struct {
	db      *gorm.DB
	queries *PostQueryService
}

func NewCategoryService(db *gorm.DB, queries *PostQueryService) *CategoryService {
	return &CategoryService{db: db, queries: queries}
}

// ListWithCounts returns every category with its published post count,
// preceded by the "All" facet.
func (s *CategoryService) ListWithCounts(ctx context.Context) ([]models.CategoryFacet, error) {
	facets, err := s.queries.publishedCategoryFacets(ctx)
	if err != nil {
		return nil, utils.Internal(err)
	}
	return facets, nil
}

func (s *CategoryService) Create(ctx context.Context, input *models.CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	slug, err := s.uniqueSlug(ctx, name, 0)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:          name,
		Slug:          slug,
		Description:   strings.TrimSpace(input.Description),
		FeaturedImage: strings.TrimSpace(input.FeaturedImage),
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, input *models.CategoryInput) (*models.Category, error) {
	category, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name != category.Name {
		slug, err := s.uniqueSlug(ctx, name, category.ID)
		if err != nil {
			return nil, err
		}
		category.Name = name
		category.Slug = slug
	}
	category.Description = strings.TrimSpace(input.Description)
	category.FeaturedImage = strings.TrimSpace(input.FeaturedImage)

	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return category, nil
}

// Delete removes the category only. Posts keep their references to it and
// simply stop seeing it on read.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return utils.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NotFound("Category not found")
	}
	return nil
}

func (s *CategoryService) get(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Category not found")
		}
		return nil, utils.Internal(err)
	}
	return &category, nil
}

// uniqueSlug derives a slug from name and appends -1, -2, ... until no other
// category uses it.
func (s *CategoryService) uniqueSlug(ctx context.Context, name string, self uint) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		return "", utils.InvalidInput("Validation failed", "name: must contain letters or digits")
	}

	slug := base
	for counter := 1; ; counter++ {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.Category{}).
			Where("slug = ? AND id <> ?", slug, self).
			Count(&count).Error
		if err != nil {
			return "", utils.Internal(err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
