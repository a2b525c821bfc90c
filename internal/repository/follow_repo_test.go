package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unknowntpo/threads-nextjs-sub000/internal/model"
	"github.com/unknowntpo/threads-nextjs-sub000/internal/testutil"
)

func TestFollowRepository_CreateAndExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewFollowRepository(db)
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)

	require.NoError(t, repo.Create(&model.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))

	exists, err := repo.Exists(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, exists, "follow edges are directed")

	// Unique pair index rejects duplicates.
	err = repo.Create(&model.Follow{FollowerID: alice.ID, FollowingID: bob.ID})
	assert.Error(t, err)
}

func TestFollowRepository_Counts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewFollowRepository(db)
	star := testutil.TestUser(t, db)
	f1 := testutil.TestUser(t, db)
	f2 := testutil.TestUser(t, db)

	testutil.TestFollow(t, db, f1.ID, star.ID)
	testutil.TestFollow(t, db, f2.ID, star.ID)
	testutil.TestFollow(t, db, star.ID, f1.ID)

	followers, err := repo.CountFollowers(star.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), followers)

	following, err := repo.CountFollowing(star.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), following)
}

func TestFollowRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewFollowRepository(db)
	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)
	testutil.TestFollow(t, db, alice.ID, bob.ID)

	affected, err := repo.Delete(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Delete(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}
