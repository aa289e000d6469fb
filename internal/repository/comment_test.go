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
)

func TestCommentRepository_CreateBumpsCounterInTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	comment := &models.Comment{Content: "Nice post!", PostID: 1, UserID: 1, AuthorName: "Ana"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "comments_count"=comments_count + $1 WHERE id = $2`)).
		WithArgs(1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), comment))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ReplyCounters(t *testing.T) {
	db := setupSQLiteDB(t)
	posts := NewPostRepository(db)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	post := createPost(t, db, posts, 1, time.Now())

	c1 := &models.Comment{PostID: post.ID, UserID: 2, AuthorName: "b", Content: "first"}
	require.NoError(t, repo.Create(ctx, c1))
	reply := &models.Comment{PostID: post.ID, UserID: 3, AuthorName: "c", Content: "reply", ParentCommentID: &c1.ID}
	require.NoError(t, repo.Create(ctx, reply))

	parent, err := repo.GetByID(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, parent.RepliesCount)

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CommentsCount)

	top, err := repo.ListTopLevel(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, c1.ID, top[0].ID)

	replies, err := repo.ListReplies(ctx, c1.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, reply.ID, replies[0].ID)

	require.NoError(t, repo.Delete(ctx, reply.ID))
	assert.True(t, models.IsNotFound(repo.Delete(ctx, reply.ID)))
}
