package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"inkwell/database/dbtest"
	"inkwell/models"
	"inkwell/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	ctx       = context.Background()
	fixedTime = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
)

func newDB(t *testing.T) *gorm.DB {
	return dbtest.Open(t)
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Email:    username + "@example.com",
		Username: username,
		Password: "password123",
		Role:     role,
	}
	require.NoError(t, user.HashPassword())
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: utils.Slugify(name)}
	require.NoError(t, db.Create(category).Error)
	return category
}

type postSeed struct {
	Title       string
	Content     string
	Status      models.PostStatus
	Tags        []string
	Categories  []models.Category
	PublishedAt time.Time
	ReadMinutes int
	ContentType string
	Featured    bool
	Views       int64
	LikeCount   int64
}

// seedPost inserts a post row directly so tests control every stored field.
func seedPost(t *testing.T, db *gorm.DB, author *models.User, s postSeed) *models.Post {
	t.Helper()
	if s.Status == "" {
		s.Status = models.StatusPublished
	}
	if s.Content == "" {
		s.Content = "Body of " + s.Title
	}
	if s.ReadMinutes == 0 {
		s.ReadMinutes = 1
	}
	if s.ContentType == "" {
		s.ContentType = "article"
	}

	post := &models.Post{
		Title:       s.Title,
		Excerpt:     "Excerpt of " + s.Title,
		Content:     s.Content,
		AuthorID:    author.ID,
		Status:      s.Status,
		ContentType: s.ContentType,
		Featured:    s.Featured,
		ReadMinutes: s.ReadMinutes,
		ReadTime:    fmt.Sprintf("%d min read", s.ReadMinutes),
		Meta:        models.PostMeta{Views: s.Views, LikeCount: s.LikeCount},
		Categories:  s.Categories,
	}
	if s.Status == models.StatusPublished {
		at := s.PublishedAt
		if at.IsZero() {
			at = fixedTime
		}
		post.PublishedAt = &at
	}
	for _, tag := range s.Tags {
		post.TagRows = append(post.TagRows, models.PostTag{Name: tag})
	}
	require.NoError(t, db.Omit("Categories.*").Create(post).Error)
	return post
}

func titles(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}
