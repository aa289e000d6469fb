package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"brewhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createPost(t *testing.T, db *gorm.DB, repo PostRepository, author uint, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{UserID: author, AuthorName: "author", Content: "brewed"}
	require.NoError(t, repo.Create(context.Background(), post))
	require.NoError(t, db.Model(post).UpdateColumn("created_at", at).Error)
	return post
}

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	post := &models.Post{UserID: 1, AuthorName: "Ana", Content: "Content", LikesCount: 9}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), post))
	assert.Equal(t, uint(1), post.ID)
	assert.Zero(t, post.LikesCount, "counters always start at zero")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByIDNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE "posts"."id" = $1 ORDER BY "posts"."id" LIMIT $2`)).
		WithArgs(99, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.GetByID(context.Background(), 99)
	assert.True(t, models.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ToggleLikeIsAnInvolution(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	post := createPost(t, db, repo, 1, time.Now())

	liked, err := repo.ToggleLike(ctx, post.ID, 2)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)

	isLiked, err := repo.IsLiked(ctx, post.ID, 2)
	require.NoError(t, err)
	assert.True(t, isLiked)

	liked, err = repo.ToggleLike(ctx, post.ID, 2)
	require.NoError(t, err)
	assert.False(t, liked)

	got, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LikesCount)

	likes, err := repo.ListLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)
}

func TestPostRepository_LikesCountMatchesRows(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	post := createPost(t, db, repo, 1, time.Now())

	for _, user := range []uint{2, 3, 4, 3} {
		_, err := repo.ToggleLike(ctx, post.ID, user)
		require.NoError(t, err)
	}

	var rows int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&rows).Error)
	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)
	assert.Equal(t, int(rows), got.LikesCount)
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	oldest := createPost(t, db, repo, 1, base)
	middle := createPost(t, db, repo, 2, base.Add(time.Minute))
	newest := createPost(t, db, repo, 3, base.Add(2*time.Minute))

	all, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{newest.ID, middle.ID, oldest.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, middle.ID, page[0].ID)

	scoped, err := repo.ListByAuthors(ctx, []uint{1, 3}, 10, 0)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	assert.Equal(t, newest.ID, scoped[0].ID)
	assert.Equal(t, oldest.ID, scoped[1].ID)

	none, err := repo.ListByAuthors(ctx, nil, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostRepository_DeleteKeepsChildren(t *testing.T) {
	db := setupSQLiteDB(t)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()
	post := createPost(t, db, posts, 1, time.Now())

	_, err := posts.ToggleLike(ctx, post.ID, 2)
	require.NoError(t, err)
	require.NoError(t, comments.Create(ctx, &models.Comment{PostID: post.ID, UserID: 2, AuthorName: "b", Content: "nice"}))

	require.NoError(t, posts.Delete(ctx, post.ID))
	assert.True(t, models.IsNotFound(posts.Delete(ctx, post.ID)))

	var likeRows, commentRows int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeRows).Error)
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentRows).Error)
	assert.Equal(t, int64(1), likeRows)
	assert.Equal(t, int64(1), commentRows)
}
