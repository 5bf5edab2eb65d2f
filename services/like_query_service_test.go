package services_test

import (
	"context"
	"testing"

	"likes_server/models"
	"likes_server/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueries(repo *memoryLikeRepo, userIDs ...string) *services.LikeQueryService {
	profiles := make(map[string]*models.UserProfile, len(userIDs))
	for i, id := range userIDs {
		profiles[id] = &models.UserProfile{
			UserID:   id,
			Name:     "User " + id,
			Age:      20 + i,
			Photos:   []string{"photos/" + id + ".jpg"},
			IsOnline: true,
		}
	}
	return &services.LikeQueryService{
		Store:    repo,
		Profiles: &stubProfiles{profiles: profiles},
		Photos:   stubSigner{},
	}
}

func TestIncomingLikesOrderedAndEnriched(t *testing.T) {
	repo := newMemoryLikeRepo()
	queries := newTestQueries(repo, "alice", "bob", "carol")
	ctx := context.Background()

	_, err := repo.CreateLike(ctx, "bob", "alice", models.StatusPending)
	require.NoError(t, err)
	_, err = repo.CreateLike(ctx, "carol", "alice", models.StatusPending)
	require.NoError(t, err)

	likes, err := queries.IncomingLikes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, likes, 2)

	// newest first
	assert.Equal(t, "carol", likes[0].FromUser.UserID)
	assert.Equal(t, "bob", likes[1].FromUser.UserID)
	assert.Equal(t, "User carol", likes[0].FromUser.Name)
	assert.Equal(t, "https://signed.example/photos/carol.jpg", likes[0].FromUser.Photo)
}

func TestIncomingLikesSkipsNonPending(t *testing.T) {
	repo := newMemoryLikeRepo()
	queries := newTestQueries(repo, "alice", "bob", "carol")
	ctx := context.Background()

	_, err := repo.CreateLike(ctx, "bob", "alice", models.StatusPending)
	require.NoError(t, err)
	_, err = repo.CreateLike(ctx, "carol", "alice", models.StatusRejected)
	require.NoError(t, err)

	likes, err := queries.IncomingLikes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, "bob", likes[0].FromUser.UserID)
}

func TestIncomingLikesDropsUnresolvedSenders(t *testing.T) {
	repo := newMemoryLikeRepo()
	// "deleted" has no profile on record
	queries := newTestQueries(repo, "alice", "bob")
	ctx := context.Background()

	_, err := repo.CreateLike(ctx, "bob", "alice", models.StatusPending)
	require.NoError(t, err)
	_, err = repo.CreateLike(ctx, "deleted", "alice", models.StatusPending)
	require.NoError(t, err)

	likes, err := queries.IncomingLikes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, "bob", likes[0].FromUser.UserID)
}

func TestOutgoingLikesIncludeAllStatuses(t *testing.T) {
	repo := newMemoryLikeRepo()
	queries := newTestQueries(repo, "alice", "bob", "carol", "dave")
	ctx := context.Background()

	_, err := repo.CreateLike(ctx, "alice", "bob", models.StatusPending)
	require.NoError(t, err)
	_, err = repo.CreateLike(ctx, "alice", "carol", models.StatusRejected)
	require.NoError(t, err)
	_, err = repo.CreateLike(ctx, "alice", "dave", models.StatusAccepted)
	require.NoError(t, err)

	likes, err := queries.OutgoingLikes(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, likes, 3)
	assert.Equal(t, "dave", likes[0].ToUser.UserID)
	assert.Equal(t, models.StatusAccepted, likes[0].Status)
	assert.Equal(t, "carol", likes[1].ToUser.UserID)
	assert.Equal(t, "bob", likes[2].ToUser.UserID)
}

func TestMatchesListCounterpartExactlyOnce(t *testing.T) {
	repo := newMemoryLikeRepo()
	queries := newTestQueries(repo, "alice", "bob")
	ctx := context.Background()

	// both directions accepted, as the engine always writes them
	_, err := repo.CreateLike(ctx, "alice", "bob", models.StatusAccepted)
	require.NoError(t, err)
	_, err = repo.CreateLike(ctx, "bob", "alice", models.StatusAccepted)
	require.NoError(t, err)

	matches, err := queries.Matches(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "bob", matches[0].OtherUser.UserID)

	matches, err = queries.Matches(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "alice", matches[0].OtherUser.UserID)
}

func TestPendingIncomingCount(t *testing.T) {
	repo := newMemoryLikeRepo()
	recorder := &eventRecorder{}
	profiles := map[string]*models.UserProfile{
		"alice": {UserID: "alice"},
		"bob":   {UserID: "bob"},
		"carol": {UserID: "carol"},
	}
	engine := &services.LikeService{
		Store:    repo,
		Profiles: &stubProfiles{profiles: profiles},
		Events:   recorder,
	}
	queries := &services.LikeQueryService{
		Store:    repo,
		Profiles: &stubProfiles{profiles: profiles},
		Photos:   stubSigner{},
	}
	ctx := context.Background()

	_, err := engine.LikeUser(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = engine.LikeUser(ctx, "carol", "bob")
	require.NoError(t, err)

	count, err := queries.PendingIncomingCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// rejecting one pending like drops the count by one immediately
	edge, _ := repo.GetLike(ctx, "alice", "bob")
	require.NoError(t, engine.RejectLike(ctx, "bob", edge.LikeID))

	count, err = queries.PendingIncomingCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// Full scenario: A likes B, then B likes A back.
func TestLikeThenLikeBackScenario(t *testing.T) {
	repo := newMemoryLikeRepo()
	recorder := &eventRecorder{}
	profiles := map[string]*models.UserProfile{
		"alice": {UserID: "alice", Name: "Alice"},
		"bob":   {UserID: "bob", Name: "Bob"},
	}
	engine := &services.LikeService{
		Store:    repo,
		Profiles: &stubProfiles{profiles: profiles},
		Events:   recorder,
	}
	queries := &services.LikeQueryService{
		Store:    repo,
		Profiles: &stubProfiles{profiles: profiles},
		Photos:   stubSigner{},
	}
	ctx := context.Background()

	first, err := engine.LikeUser(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, first.IsMatch)

	incoming, err := queries.IncomingLikes(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "alice", incoming[0].FromUser.UserID)

	second, err := engine.LikeUser(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, second.IsMatch)

	aliceMatches, err := queries.Matches(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, aliceMatches, 1)
	assert.Equal(t, "bob", aliceMatches[0].OtherUser.UserID)

	bobMatches, err := queries.Matches(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobMatches, 1)
	assert.Equal(t, "alice", bobMatches[0].OtherUser.UserID)

	incoming, err = queries.IncomingLikes(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, incoming)

	count, err := queries.PendingIncomingCount(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, count)
}
