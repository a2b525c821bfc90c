package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/model/dto"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/repository"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/testutil"
)

func setupSearchService(t *testing.T) (*SearchService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	svc := NewSearchService(
		repository.NewSearchRepository(db),
		repository.NewUserRepository(db),
		repository.NewPostRepository(db),
		repository.NewFollowRepository(db),
	)
	return svc, db
}

func TestSearchService_Validation(t *testing.T) {
	svc, _ := setupSearchService(t)

	_, err := svc.Search(&dto.SearchRequest{Query: "   ", Filter: dto.SearchFilterTop, Limit: 20}, "")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = svc.Search(&dto.SearchRequest{Query: "golang", Filter: "hottest", Limit: 20}, "")
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = svc.Search(&dto.SearchRequest{Query: "golang", Filter: dto.SearchFilterTop, Limit: 500}, "")
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = svc.Search(&dto.SearchRequest{Query: "golang", Filter: dto.SearchFilterTop}, "")
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = svc.Search(&dto.SearchRequest{Query: "golang", Filter: dto.SearchFilterTop, Limit: 20, Offset: -1}, "")
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestSearchService_Search(t *testing.T) {
	svc, db := setupSearchService(t)

	author := testutil.TestUser(t, db, testutil.WithUsername("gopher_dev"))
	liker := testutil.TestUser(t, db)

	popular := testutil.TestPost(t, db, author.ID, testutil.WithContent("golang generics are here"))
	testutil.TestPost(t, db, author.ID, testutil.WithContent("golang rocks"))
	testutil.TestPost(t, db, author.ID, testutil.WithContent("nothing to see"))
	testutil.TestLike(t, db, liker.ID, popular.ID)

	t.Run("top filter ranks by likes", func(t *testing.T) {
		resp, err := svc.Search(&dto.SearchRequest{Query: "golang", Filter: dto.SearchFilterTop, Limit: 20}, "")
		require.NoError(t, err)

		require.Len(t, resp.Posts, 2)
		assert.Equal(t, popular.ID, resp.Posts[0].ID)
		assert.Equal(t, int64(1), resp.Posts[0].LikeCount)
		assert.Equal(t, "gopher_dev", resp.Posts[0].Author.Username)
		assert.Equal(t, "golang", resp.Query)
	})

	t.Run("matches users by name", func(t *testing.T) {
		resp, err := svc.Search(&dto.SearchRequest{Query: "gopher", Filter: dto.SearchFilterTop, Limit: 20}, "")
		require.NoError(t, err)

		require.Len(t, resp.Users, 1)
		assert.Equal(t, "gopher_dev", resp.Users[0].Username)
	})

	t.Run("viewer follow state on matched users", func(t *testing.T) {
		require.NoError(t, db.Create(&model.Follow{
			FollowerID:  liker.ID,
			FollowingID: author.ID,
		}).Error)

		resp, err := svc.Search(&dto.SearchRequest{Query: "gopher", Filter: dto.SearchFilterTop, Limit: 20}, liker.ID)
		require.NoError(t, err)

		require.Len(t, resp.Users, 1)
		assert.True(t, resp.Users[0].IsFollowing)
	})

	t.Run("no matches", func(t *testing.T) {
		resp, err := svc.Search(&dto.SearchRequest{Query: "zzzz", Filter: dto.SearchFilterRecent, Limit: 20}, "")
		require.NoError(t, err)
		assert.Empty(t, resp.Posts)
		assert.Empty(t, resp.Users)
	})

}
