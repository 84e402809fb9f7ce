package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkwell/models"
	"inkwell/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const excerptWords = 40

type PostServiceOptions struct {
	// RefreshSEOOnUpdate re-derives the SEO block on every update instead of
	// keeping the snapshot taken at creation.
	RefreshSEOOnUpdate bool
}

// PostService owns the post lifecycle: creation, reads, edits, deletion and likes.
type PostService struct {
	db   *gorm.DB
	opts PostServiceOptions
	now  func() time.Time
}

func NewPostService(db *gorm.DB, opts PostServiceOptions) *PostService {
	return &PostService{db: db, opts: opts, now: time.Now}
}

func (s *PostService) Create(ctx context.Context, author *models.User, input *models.PostInput) (*models.Post, error) {
	if author == nil || author.Role != models.RoleAuthor {
		return nil, utils.Forbidden("Only authors can create posts")
	}
	if err := checkRequired(input); err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: author.ID}
	s.applyInput(post, input)
	post.SEO = deriveSEO(post)

	categories, err := s.loadCategories(ctx, input.Categories)
	if err != nil {
		return nil, err
	}
	post.Categories = categories

	for _, tag := range post.Tags {
		post.TagRows = append(post.TagRows, models.PostTag{Name: tag})
	}

	if err := s.db.WithContext(ctx).Omit("Categories.*").Create(post).Error; err != nil {
		return nil, utils.Internal(err)
	}

	return s.load(ctx, post.ID)
}

// Read returns a post for viewer, who may be nil for anonymous callers.
// Drafts are visible only to their owning author and are never counted.
// Published reads increment the view counter in the store atomically.
func (s *PostService) Read(ctx context.Context, id uint, viewer *models.User) (*models.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.Status != models.StatusPublished {
		if viewer == nil || viewer.Role != models.RoleAuthor || !post.IsOwnedBy(viewer) {
			return nil, utils.Forbidden("You do not have permission to view this post")
		}
		post.ContentHTML = utils.RenderMarkdown(post.Content)
		return post, nil
	}

	err = s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("meta_views", gorm.Expr("meta_views + ?", 1)).Error
	if err != nil {
		return nil, utils.Internal(err)
	}
	post.Meta.Views++
	post.ContentHTML = utils.RenderMarkdown(post.Content)

	return post, nil
}

func (s *PostService) Update(ctx context.Context, id uint, caller *models.User, input *models.PostInput) (*models.Post, error) {
	post, err := s.owned(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if err := checkRequired(input); err != nil {
		return nil, err
	}

	wasPublished := post.Status == models.StatusPublished
	publishedAt := post.PublishedAt
	s.applyInput(post, input)

	switch {
	case post.Status == models.StatusPublished && wasPublished:
		post.PublishedAt = publishedAt
	case post.Status == models.StatusPublished:
		now := s.now().UTC()
		post.PublishedAt = &now
	default:
		post.PublishedAt = nil
	}
	if s.opts.RefreshSEOOnUpdate {
		post.SEO = deriveSEO(post)
	}

	categories, err := s.loadCategories(ctx, input.Categories)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	err = db.Model(post).Omit(clause.Associations).Select(
		"title", "excerpt", "content", "status", "featured_image", "content_type",
		"featured", "read_time", "read_minutes", "published_at",
		"seo_title", "seo_description", "seo_keywords", "updated_at",
	).Updates(post).Error
	if err != nil {
		return nil, utils.Internal(err)
	}

	if err := db.Where("post_id = ?", post.ID).Delete(&models.PostTag{}).Error; err != nil {
		return nil, utils.Internal(err)
	}
	if len(post.Tags) > 0 {
		rows := make([]models.PostTag, 0, len(post.Tags))
		for _, tag := range post.Tags {
			rows = append(rows, models.PostTag{PostID: post.ID, Name: tag})
		}
		if err := db.Create(&rows).Error; err != nil {
			return nil, utils.Internal(err)
		}
	}

	if err := db.Model(post).Omit("Categories.*").Association("Categories").Replace(categories); err != nil {
		return nil, utils.Internal(err)
	}

	return s.load(ctx, post.ID)
}

// Delete hard-deletes the post and its tag, like and category rows.
func (s *PostService) Delete(ctx context.Context, id uint, caller *models.User) error {
	post, err := s.owned(ctx, id, caller)
	if err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	if err := db.Where("post_id = ?", post.ID).Delete(&models.PostTag{}).Error; err != nil {
		return utils.Internal(err)
	}
	if err := db.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
		return utils.Internal(err)
	}
	if err := db.Model(post).Association("Categories").Clear(); err != nil {
		return utils.Internal(err)
	}
	if err := db.Delete(&models.Post{}, post.ID).Error; err != nil {
		return utils.Internal(err)
	}
	return nil
}

// ToggleLike adds or removes caller's like on a published post and reports
// whether the post is now liked.
func (s *PostService) ToggleLike(ctx context.Context, id uint, caller *models.User) (bool, *models.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return false, nil, err
	}
	if post.Status != models.StatusPublished {
		return false, nil, utils.Forbidden("Only published posts can be liked")
	}

	db := s.db.WithContext(ctx)
	like := models.PostLike{PostID: post.ID, UserID: caller.ID}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if res.Error != nil {
		return false, nil, utils.Internal(res.Error)
	}
	liked := res.RowsAffected == 1
	delta := 1
	if !liked {
		res = db.Where("post_id = ? AND user_id = ?", post.ID, caller.ID).Delete(&models.PostLike{})
		if res.Error != nil {
			return false, nil, utils.Internal(res.Error)
		}
		// A concurrent toggle may already have removed the row.
		delta = -int(res.RowsAffected)
	}

	if delta != 0 {
		err = db.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("meta_like_count", gorm.Expr("meta_like_count + ?", delta)).Error
		if err != nil {
			return false, nil, utils.Internal(err)
		}
	}

	post, err = s.load(ctx, id)
	if err != nil {
		return false, nil, err
	}
	return liked, post, nil
}

func (s *PostService) load(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Categories").
		Preload("TagRows").
		Preload("LikeRows").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Post not found")
		}
		return nil, utils.Internal(err)
	}
	return &post, nil
}

func (s *PostService) owned(ctx context.Context, id uint, caller *models.User) (*models.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller == nil || caller.Role != models.RoleAuthor || !post.IsOwnedBy(caller) {
		return nil, utils.Forbidden("You can only modify your own posts")
	}
	return post, nil
}

// loadCategories resolves ids best-effort; unknown ids are dropped.
func (s *PostService) loadCategories(ctx context.Context, ids []uint) ([]models.Category, error) {
	categories := []models.Category{}
	if len(ids) == 0 {
		return categories, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return categories, nil
}

// checkRequired rejects titles and bodies that are blank once trimmed.
func checkRequired(input *models.PostInput) error {
	var fields []string
	if strings.TrimSpace(input.Title) == "" {
		fields = append(fields, "title: is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		fields = append(fields, "content: is required")
	}
	if len(fields) > 0 {
		return utils.InvalidInput("Validation failed", fields...)
	}
	return nil
}

// applyInput copies client fields and recomputes every derived field except
// publishedAt and seo, which depend on the lifecycle step.
func (s *PostService) applyInput(post *models.Post, input *models.PostInput) {
	post.Title = strings.TrimSpace(input.Title)
	post.Content = input.Content
	post.Excerpt = strings.TrimSpace(input.Excerpt)
	if post.Excerpt == "" {
		post.Excerpt = utils.Excerpt(input.Content, excerptWords)
	}
	post.FeaturedImage = strings.TrimSpace(input.FeaturedImage)
	post.ContentType = strings.TrimSpace(input.ContentType)
	if post.ContentType == "" {
		post.ContentType = "article"
	}
	post.Featured = input.Featured
	post.Tags = normalizeTags(input.Tags)
	post.ReadMinutes, post.ReadTime = utils.ReadTime(input.Content)

	post.Status = models.ParseStatus(input.Status)
	if post.ID == 0 && post.Status == models.StatusPublished {
		now := s.now().UTC()
		post.PublishedAt = &now
	}
}

func deriveSEO(post *models.Post) models.PostSEO {
	keywords := make([]string, len(post.Tags))
	copy(keywords, post.Tags)
	return models.PostSEO{
		Title:       post.Title,
		Description: post.Excerpt,
		Keywords:    keywords,
	}
}

func normalizeTags(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		tag := strings.TrimSpace(t)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
