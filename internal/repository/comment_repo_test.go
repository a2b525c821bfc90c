package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/testutil"
)

func TestCommentRepository_ListByPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	author := testutil.TestUser(t, db)
	commenter := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, author.ID)
	otherPost := testutil.TestPost(t, db, author.ID)

	testutil.TestComment(t, db, commenter.ID, post.ID)

	comments, total, err := repo.ListByPost(post.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, comments, 1)
	require.NotNil(t, comments[0].User, "author preloaded")
	assert.Equal(t, commenter.Username, comments[0].User.Username)

	comments, total, err = repo.ListByPost(otherPost.ID, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, comments)
}

func TestCommentRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)
	comment := testutil.TestComment(t, db, user.ID, post.ID)

	require.NoError(t, repo.Delete(comment.ID))

	_, err := repo.GetByID(comment.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
