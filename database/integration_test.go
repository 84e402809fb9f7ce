//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"inkwell/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgres starts a disposable PostgreSQL container and returns a migrated handle.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("inkwell"),
		postgres.WithUsername("inkwell"),
		postgres.WithPassword("inkwell"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(pgdriver.Open(dsn), Options(false))
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	require.NoError(t, Migrate(db))
	return db
}

func TestMigrateCreatesWeakJoinTables(t *testing.T) {
	db := setupPostgres(t)

	for _, table := range []string{"users", "posts", "categories", "post_categories", "post_tags", "post_likes"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	var constraints int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM information_schema.table_constraints
		WHERE table_name = 'post_categories' AND constraint_type = 'FOREIGN KEY'`).Scan(&constraints).Error)
	assert.Zero(t, constraints)

	require.NoError(t, Migrate(db), "migrations are repeatable")
}

func TestPostgresRoundTrip(t *testing.T) {
	db := setupPostgres(t)

	author := &models.User{Email: "a@example.com", Username: "author", Password: "x", Role: models.RoleAuthor}
	require.NoError(t, db.Create(author).Error)

	category := &models.Category{Name: "Golang", Slug: "golang"}
	require.NoError(t, db.Create(category).Error)

	now := time.Now().UTC()
	post := &models.Post{
		Title:       "Hello",
		Content:     "body",
		AuthorID:    author.ID,
		Status:      models.StatusPublished,
		ContentType: "article",
		ReadMinutes: 1,
		ReadTime:    "1 min read",
		PublishedAt: &now,
		SEO:         models.PostSEO{Title: "Hello", Keywords: []string{"go", "web"}},
		Categories:  []models.Category{*category},
		TagRows:     []models.PostTag{{Name: "go"}, {Name: "web"}},
	}
	require.NoError(t, db.Omit("Categories.*").Create(post).Error)

	require.NoError(t, db.Delete(&models.Category{}, category.ID).Error)

	var loaded models.Post
	require.NoError(t, db.Preload("Author").Preload("Categories").Preload("TagRows").Preload("LikeRows").First(&loaded, post.ID).Error)
	assert.Equal(t, []string{"go", "web"}, loaded.SEO.Keywords)
	assert.ElementsMatch(t, []string{"go", "web"}, loaded.Tags)
	assert.Empty(t, loaded.Categories)
	require.NotNil(t, loaded.Author)
	assert.Equal(t, "author", loaded.Author.Username)

	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).
		UpdateColumn("meta_views", gorm.Expr("meta_views + ?", 1)).Error)
	require.NoError(t, db.First(&loaded, post.ID).Error)
	assert.Equal(t, int64(1), loaded.Meta.Views)
}
