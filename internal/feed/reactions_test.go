package feed

import (
	"context"
	"testing"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"github.com/anonto42/nano-feed/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reactionPtr(k models.ReactionKey) *models.ReactionKey { return &k }

func TestToggleLikeIsAnInvolution(t *testing.T) {
	for _, p := range []models.Post{
		{ID: "a", Likes: 0, Liked: false, Reactions: models.NewReactions()},
		{ID: "b", Likes: 5, Liked: false, Reactions: models.NewReactions()},
		{ID: "c", Likes: 3, Liked: true, Reactions: models.NewReactions()},
	} {
		once := ToggleLike(p)
		assert.NotEqual(t, p.Liked, once.Liked)
		if p.Liked {
			assert.Equal(t, p.Likes-1, once.Likes)
		} else {
			assert.Equal(t, p.Likes+1, once.Likes)
		}
		assert.Equal(t, p, ToggleLike(once), "post %s", p.ID)
	}
}

func TestToggleLikeNeverNegative(t *testing.T) {
	p := models.Post{Likes: 0, Liked: true}
	assert.Equal(t, 0, ToggleLike(p).Likes)
}

func TestToggleReactionAddRemove(t *testing.T) {
	p := models.Post{Reactions: models.NewReactions()}

	on, err := ToggleReaction(p, models.ReactionHeart)
	require.NoError(t, err)
	assert.Equal(t, 1, on.Reactions[models.ReactionHeart])
	require.NotNil(t, on.UserReaction)
	assert.Equal(t, models.ReactionHeart, *on.UserReaction)
	assert.Equal(t, 0, p.Reactions[models.ReactionHeart], "input must not change")

	off, err := ToggleReaction(on, models.ReactionHeart)
	require.NoError(t, err)
	assert.Equal(t, p, off)
}

func TestToggleReactionSwitch(t *testing.T) {
	p := models.Post{Reactions: models.Reactions{
		models.ReactionHeart: 2, models.ReactionLaugh: 1, models.ReactionSmile: 0,
		models.ReactionThumbsUp: 0, models.ReactionFire: 4,
	}}
	for _, e1 := range models.ReactionKeys {
		for _, e2 := range models.ReactionKeys {
			if e1 == e2 {
				continue
			}
			first, err := ToggleReaction(p, e1)
			require.NoError(t, err)
			second, err := ToggleReaction(first, e2)
			require.NoError(t, err)

			require.NotNil(t, second.UserReaction)
			assert.Equal(t, e2, *second.UserReaction)
			assert.Equal(t, p.Reactions[e1], second.Reactions[e1])
			assert.Equal(t, p.Reactions[e2]+1, second.Reactions[e2])
			assert.Equal(t, first.Reactions.Total(), second.Reactions.Total())
			assert.Equal(t, p.Reactions.Total()+1, second.Reactions.Total())
		}
	}
}

func TestToggleReactionRejectsUnknownKey(t *testing.T) {
	p := models.Post{Reactions: models.NewReactions(), UserReaction: reactionPtr(models.ReactionFire)}
	out, err := ToggleReaction(p, "party")
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Equal(t, p, out)
}

func TestReactorPersists(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := repositories.NewLocalPostRepository(store, nil)
	repo.Load(ctx)
	p, err := repo.Create(ctx, models.Author{ID: "u1", Name: "Ann", Avatar: "A"}, "", "hello", "")
	require.NoError(t, err)

	reactor := NewReactor(repo, nil)
	liked, err := reactor.ToggleLike(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, 1, liked.Likes)

	reacted, err := reactor.ToggleReaction(ctx, p.ID, models.ReactionFire)
	require.NoError(t, err)
	assert.Equal(t, 1, reacted.Reactions[models.ReactionFire])
	assert.Equal(t, 1, reacted.Likes)

	// A fresh repository on the same store sees both changes.
	reloaded := repositories.NewLocalPostRepository(store, nil)
	reloaded.Load(ctx)
	got, err := reloaded.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Liked)
	assert.Equal(t, 1, got.Reactions[models.ReactionFire])
}

func TestReactorFailuresDoNotWrite(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := repositories.NewLocalPostRepository(store, nil)
	p, err := repo.Create(ctx, models.Author{ID: "u1", Name: "Ann"}, "", "hello", "")
	require.NoError(t, err)
	writes := store.Writes()

	reactor := NewReactor(repo, nil)
	_, err = reactor.ToggleLike(ctx, "missing")
	assert.True(t, models.IsNotFound(err))
	_, err = reactor.ToggleReaction(ctx, "missing", models.ReactionHeart)
	assert.True(t, models.IsNotFound(err))
	_, err = reactor.ToggleReaction(ctx, p.ID, "nope")
	assert.True(t, models.IsValidation(err))
	assert.Equal(t, writes, store.Writes())
}
