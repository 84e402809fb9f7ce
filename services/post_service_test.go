package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"inkwell/models"
	"inkwell/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostService(t *testing.T, opts PostServiceOptions) (*PostService, *models.User) {
	t.Helper()
	db := newDB(t)
	svc := NewPostService(db, opts)
	svc.now = func() time.Time { return fixedTime }
	return svc, seedUser(t, db, "writer", models.RoleAuthor)
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestCreateDerivesFields(t *testing.T) {
	svc, author := newPostService(t, PostServiceOptions{})
	category := seedCategory(t, svc.db, "Golang")

	post, err := svc.Create(ctx, author, &models.PostInput{
		Title:      "  Hello  ",
		Content:    words(401),
		Categories: []uint{category.ID, 9999},
		Tags:       []string{"go", " go ", "", "web"},
		Status:     "published",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, author.ID, post.AuthorID)
	assert.Equal(t, "3 min read", post.ReadTime)
	assert.Equal(t, 3, post.ReadMinutes)
	assert.Equal(t, words(40)+"…", post.Excerpt)
	assert.Equal(t, "article", post.ContentType)
	assert.Equal(t, []string{"go", "web"}, post.Tags)
	require.Len(t, post.Categories, 1)
	assert.Equal(t, "golang", post.Categories[0].Slug)
	require.NotNil(t, post.PublishedAt)
	assert.True(t, post.PublishedAt.Equal(fixedTime))
	assert.Equal(t, models.PostSEO{Title: "Hello", Description: post.Excerpt, Keywords: []string{"go", "web"}}, post.SEO)
}

func TestCreateNormalizesStatus(t *testing.T) {
	svc, author := newPostService(t, PostServiceOptions{})

	for _, status := range []string{"", "archived", "PUBLISHED", "draft"} {
		post, err := svc.Create(ctx, author, &models.PostInput{Title: "T " + status, Content: "body", Status: status})
		require.NoError(t, err)
		assert.Equal(t, models.StatusDraft, post.Status, status)
		assert.Nil(t, post.PublishedAt, status)
	}
}

func TestBlankTitleOrContentRejected(t *testing.T) {
	svc, author := newPostService(t, PostServiceOptions{})

	_, err := svc.Create(ctx, author, &models.PostInput{Title: "   ", Content: " \n\t ", Status: "published"})
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.KindInvalidInput, appErr.Kind)
	assert.Equal(t, []string{"title: is required", "content: is required"}, appErr.Fields)

	var count int64
	require.NoError(t, svc.db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)

	post, err := svc.Create(ctx, author, &models.PostInput{Title: "Kept", Content: "body"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, post.ID, author, &models.PostInput{Title: "  ", Content: "body"})
	assert.Equal(t, utils.KindInvalidInput, utils.KindOf(err))

	reloaded, err := svc.load(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kept", reloaded.Title)
}

func TestCreateRequiresAuthor(t *testing.T) {
	svc, _ := newPostService(t, PostServiceOptions{})
	reader := seedUser(t, svc.db, "reader", models.RoleUser)

	_, err := svc.Create(ctx, reader, &models.PostInput{Title: "T", Content: "body"})
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))
}

func TestReadDraftVisibility(t *testing.T) {
	svc, author := newPostService(t, PostServiceOptions{})
	other := seedUser(t, svc.db, "other", models.RoleAuthor)
	admin := seedUser(t, svc.db, "boss", models.RoleAdmin)

	draft, err := svc.Create(ctx, author, &models.PostInput{Title: "Draft", Content: "**secret**"})
	require.NoError(t, err)

	for name, viewer := range map[string]*models.User{"anonymous": nil, "other author": other, "admin": admin} {
		_, err := svc.Read(ctx, draft.ID, viewer)
		assert.Equal(t, utils.KindForbidden, utils.KindOf(err), name)
	}

	got, err := svc.Read(ctx, draft.ID, author)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Meta.Views)
	assert.Contains(t, got.ContentHTML, "<strong>secret</strong>")

	var stored models.Post
	require.NoError(t, svc.db.First(&stored, draft.ID).Error)
	assert.Equal(t, int64(0), stored.Meta.Views)
}

func TestReadPublishedCountsViews(t *testing.T) {
	svc, author := newPostService(t, PostServiceOptions{})
	post, err := svc.Create(ctx, author, &models.PostInput{Title: "Live", Content: "body", Status: "published"})
	require.NoError(t, err)

	first, err := svc.Read(ctx, post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Meta.Views)

	second, err := svc.Read(ctx, post.ID, author)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Meta.Views)
}

func TestReadMissingPost(t *testing.T) {
	svc, _ := newPostService(t, PostServiceOptions{})
	_, err := svc.Read(ctx, 404, nil)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, author := newPostService(t, PostServiceOptions{})
	post, err := svc.Create(ctx, author, &models.PostInput{Title: "T", Content: "body"})
	require.NoError(t, err)
	require.Nil(t, post.PublishedAt)

	published := fixedTime.Add(time.Hour)
	svc.now = func() time.Time { return published }
	post, err = svc.Update(ctx, post.ID, author, &models.PostInput{Title: "T", Content: "body", Status: "published"})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.True(t, post.PublishedAt.Equal(published))

	svc.now = func() time.Time { return published.Add(time.Hour) }
	post, err = svc.Update(ctx, post.ID, author, &models.PostInput{Title: "T2", Content: "body", Status: "published"})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.True(t, post.PublishedAt.Equal(published), "republishing keeps the original date")

	post, err = svc.Update(ctx, post.ID, author, &models.PostInput{Title: "T2", Content: "body", Status: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
}

func TestUpdateReplacesTagsAndRecomputesReadTime(t *testing.T) {
	svc, author := newPostService(t, PostServiceOptions{})
	golang := seedCategory(t, svc.db, "Golang")
	rust := seedCategory(t, svc.db, "Rust")

	post, err := svc.Create(ctx, author, &models.PostInput{
		Title: "T", Content: "short", Tags: []string{"a", "b"}, Categories: []uint{golang.ID},
	})
	require.NoError(t, err)

	post, err = svc.Update(ctx, post.ID, author, &models.PostInput{
		Title: "T", Content: words(201), Tags: []string{"b", "c"}, Categories: []uint{rust.ID}, Featured: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c"}, post.Tags)
	require.Len(t, post.Categories, 1)
	assert.Equal(t, "rust", post.Categories[0].Slug)
	assert.Equal(t, "2 min read", post.ReadTime)
	assert.True(t, post.Featured)

	var count int64
	require.NoError(t, svc.db.Model(&models.PostTag{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestUpdateSEOSnapshot(t *testing.T) {
	input := &models.PostInput{Title: "Original", Content: "body", Tags: []string{"x"}}
	edit := &models.PostInput{Title: "Edited", Content: "body", Tags: []string{"y"}}

	t.Run("kept by default", func(t *testing.T) {
		svc, author := newPostService(t, PostServiceOptions{})
		post, err := svc.Create(ctx, author, input)
		require.NoError(t, err)
		post, err = svc.Update(ctx, post.ID, author, edit)
		require.NoError(t, err)
		assert.Equal(t, "Original", post.SEO.Title)
		assert.Equal(t, []string{"x"}, post.SEO.Keywords)
	})

	t.Run("refreshed when enabled", func(t *testing.T) {
		svc, author := newPostService(t, PostServiceOptions{RefreshSEOOnUpdate: true})
		post, err := svc.Create(ctx, author, input)
		require.NoError(t, err)
		post, err = svc.Update(ctx, post.ID, author, edit)
		require.NoError(t, err)
		assert.Equal(t, "Edited", post.SEO.Title)
		assert.Equal(t, []string{"y"}, post.SEO.Keywords)
	})
}

func TestOnlyOwnerMayModify(t *testing.T) {
	svc, author := newPostService(t, PostServiceOptions{})
	other := seedUser(t, svc.db, "other", models.RoleAuthor)
	admin := seedUser(t, svc.db, "boss", models.RoleAdmin)

	post, err := svc.Create(ctx, author, &models.PostInput{Title: "Mine", Content: "body"})
	require.NoError(t, err)

	for _, caller := range []*models.User{other, admin} {
		_, err = svc.Update(ctx, post.ID, caller, &models.PostInput{Title: "Theirs", Content: "body"})
		assert.Equal(t, utils.KindForbidden, utils.KindOf(err))
		assert.Equal(t, utils.KindForbidden, utils.KindOf(svc.Delete(ctx, post.ID, caller)))
	}

	var stored models.Post
	require.NoError(t, svc.db.First(&stored, post.ID).Error)
	assert.Equal(t, "Mine", stored.Title)
	assert.Equal(t, author.ID, stored.AuthorID)
}

func TestDeleteRemovesRows(t *testing.T) {
	svc, author := newPostService(t, PostServiceOptions{})
	category := seedCategory(t, svc.db, "Golang")
	post, err := svc.Create(ctx, author, &models.PostInput{
		Title: "Gone", Content: "body", Status: "published", Tags: []string{"a"}, Categories: []uint{category.ID},
	})
	require.NoError(t, err)
	_, _, err = svc.ToggleLike(ctx, post.ID, author)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, post.ID, author))

	_, err = svc.Read(ctx, post.ID, author)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))

	for _, table := range []string{"post_tags", "post_likes", "post_categories"} {
		var count int64
		require.NoError(t, svc.db.Table(table).Where("post_id = ?", post.ID).Count(&count).Error)
		assert.Zero(t, count, table)
	}

	var kept int64
	require.NoError(t, svc.db.Model(&models.Category{}).Count(&kept).Error)
	assert.Equal(t, int64(1), kept)
}

func TestToggleLike(t *testing.T) {
	svc, author := newPostService(t, PostServiceOptions{})
	reader := seedUser(t, svc.db, "reader", models.RoleUser)

	post, err := svc.Create(ctx, author, &models.PostInput{Title: "Likeable", Content: "body", Status: "published"})
	require.NoError(t, err)

	liked, post, err := svc.ToggleLike(ctx, post.ID, reader)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), post.Meta.LikeCount)
	assert.Equal(t, []uint{reader.ID}, post.Meta.Likes)

	liked, post, err = svc.ToggleLike(ctx, post.ID, reader)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), post.Meta.LikeCount)
	assert.Empty(t, post.Meta.Likes)

	draft, err := svc.Create(ctx, author, &models.PostInput{Title: "Draft", Content: "body"})
	require.NoError(t, err)
	_, _, err = svc.ToggleLike(ctx, draft.ID, reader)
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))
}

func TestToggleLikeConcurrentFirstLikes(t *testing.T) {
	svc, author := newPostService(t, PostServiceOptions{})
	reader := seedUser(t, svc.db, "reader", models.RoleUser)

	post, err := svc.Create(ctx, author, &models.PostInput{Title: "Popular", Content: "body", Status: "published"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.ToggleLike(ctx, post.ID, reader)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	var rows int64
	require.NoError(t, svc.db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&rows).Error)
	reloaded, err := svc.load(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, rows, reloaded.Meta.LikeCount)
}

func TestToggleLikeExistingRow(t *testing.T) {
	svc, author := newPostService(t, PostServiceOptions{})
	reader := seedUser(t, svc.db, "reader", models.RoleUser)

	post, err := svc.Create(ctx, author, &models.PostInput{Title: "Seeded", Content: "body", Status: "published"})
	require.NoError(t, err)
	require.NoError(t, svc.db.Create(&models.PostLike{PostID: post.ID, UserID: reader.ID}).Error)
	require.NoError(t, svc.db.Model(&models.Post{}).Where("id = ?", post.ID).Update("meta_like_count", 1).Error)

	liked, post, err := svc.ToggleLike(ctx, post.ID, reader)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), post.Meta.LikeCount)
}
