package services

import (
	"testing"

	"inkwell/models"
	"inkwell/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postTags(t *testing.T, svc *TagService, postID uint) []string {
	t.Helper()
	var names []string
	require.NoError(t, svc.db.Model(&models.PostTag{}).Where("post_id = ?", postID).Order("name").Pluck("name", &names).Error)
	return names
}

func TestTagList(t *testing.T) {
	db := newDB(t)
	author := seedUser(t, db, "writer", models.RoleAuthor)
	seedPost(t, db, author, postSeed{Title: "A", Tags: []string{"go", "web"}})
	seedPost(t, db, author, postSeed{Title: "B", Tags: []string{"go"}, Status: models.StatusDraft})

	tags, err := NewTagService(db).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.TagCount{{Name: "go", Count: 2}, {Name: "web", Count: 1}}, tags)
}

func TestTagRename(t *testing.T) {
	db := newDB(t)
	author := seedUser(t, db, "writer", models.RoleAuthor)
	svc := NewTagService(db)

	first := seedPost(t, db, author, postSeed{Title: "1", Tags: []string{"golang", "web"}})
	second := seedPost(t, db, author, postSeed{Title: "2", Tags: []string{"golang"}})
	both := seedPost(t, db, author, postSeed{Title: "3", Tags: []string{"golang", "go"}})
	untouched := seedPost(t, db, author, postSeed{Title: "4", Tags: []string{"rust"}})

	updated, err := svc.Rename(ctx, "golang", "go")
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	assert.Equal(t, []string{"go", "web"}, postTags(t, svc, first.ID))
	assert.Equal(t, []string{"go"}, postTags(t, svc, second.ID))
	assert.Equal(t, []string{"go"}, postTags(t, svc, both.ID))
	assert.Equal(t, []string{"rust"}, postTags(t, svc, untouched.ID))

	_, err = svc.Rename(ctx, "golang", "go")
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))

	_, err = svc.Rename(ctx, "go", "   ")
	assert.Equal(t, utils.KindInvalidInput, utils.KindOf(err))
}

func TestTagDelete(t *testing.T) {
	db := newDB(t)
	author := seedUser(t, db, "writer", models.RoleAuthor)
	svc := NewTagService(db)

	first := seedPost(t, db, author, postSeed{Title: "1", Tags: []string{"old", "keep"}})
	seedPost(t, db, author, postSeed{Title: "2", Tags: []string{"old"}})

	updated, err := svc.Delete(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)
	assert.Equal(t, []string{"keep"}, postTags(t, svc, first.ID))

	_, err = svc.Delete(ctx, "old")
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestTagRenameIsCaseSensitive(t *testing.T) {
	db := newDB(t)
	author := seedUser(t, db, "writer", models.RoleAuthor)
	svc := NewTagService(db)

	var ids []uint
	for i := 0; i < 4; i++ {
		ids = append(ids, seedPost(t, db, author, postSeed{Title: "react", Tags: []string{"react"}}).ID)
	}
	other := seedPost(t, db, author, postSeed{Title: "vue", Tags: []string{"vue", "React"}})

	updated, err := svc.Rename(ctx, "react", "React18")
	require.NoError(t, err)
	assert.Equal(t, int64(len(ids)), updated)
	for _, id := range ids {
		assert.Equal(t, []string{"React18"}, postTags(t, svc, id))
	}
	assert.Equal(t, []string{"React", "vue"}, postTags(t, svc, other.ID))
}
