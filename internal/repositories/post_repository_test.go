package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = models.Author{ID: "u-alice", Name: "Alice", Avatar: "A"}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newRepo(t *testing.T) (*LocalPostRepository, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	repo := NewLocalPostRepository(store, nil)
	repo.Load(context.Background())
	return repo, store
}

// failingStore rejects every write.
type failingStore struct {
	*storage.MemoryStore
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestCreatePrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	first, err := repo.Create(ctx, alice, "  Hello ", "  first post  ", "")
	require.NoError(t, err)
	second, err := repo.Create(ctx, alice, "", "second post", "https://example.com/a.png")
	require.NoError(t, err)

	assert.Equal(t, "Hello", first.Title)
	assert.Equal(t, "first post", first.Content)
	assert.Equal(t, 0, first.Likes)
	assert.False(t, first.Liked)
	assert.Nil(t, first.UserReaction)
	assert.Equal(t, models.NewReactions(), first.Reactions)
	assert.Equal(t, "Alice", first.UserName)
	assert.Equal(t, "A", first.UserAvatar)

	all := repo.FindAll(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest post comes first")
	assert.Equal(t, first.ID, all[1].ID)
	assert.Equal(t, 2, store.Writes())
}

func TestCreateIDsUniqueWithinSameMillisecond(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewLocalPostRepository(store, nil, WithClock(fixedClock(time.Unix(1700000000, 0))))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		p, err := repo.Create(ctx, alice, "", "post", "")
		require.NoError(t, err)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestCreateRejectsBlankContent(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)
	_, err := repo.Create(ctx, alice, "", "keep me", "")
	require.NoError(t, err)
	writes := store.Writes()

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := repo.Create(ctx, alice, "title", content, "")
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
	}
	assert.Len(t, repo.FindAll(ctx), 1)
	assert.Equal(t, writes, store.Writes(), "rejected creates must not write")
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	p, err := repo.Create(ctx, alice, "old", "old content", "")
	require.NoError(t, err)

	updated, err := repo.Update(ctx, p.ID, " new ", " new content ")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "new content", updated.Content)
	assert.Equal(t, p.Timestamp, updated.Timestamp)

	_, err = repo.Update(ctx, "missing", "t", "c")
	assert.True(t, models.IsNotFound(err))

	_, err = repo.Update(ctx, p.ID, "t", "  ")
	assert.True(t, models.IsValidation(err))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new content", got.Content, "failed edit leaves the post unchanged")
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)
	p, err := repo.Create(ctx, alice, "", "bye", "")
	require.NoError(t, err)
	_, err = repo.Create(ctx, alice, "", "stay", "")
	require.NoError(t, err)

	writes := store.Writes()
	require.NoError(t, repo.Delete(ctx, "does-not-exist"))
	assert.Len(t, repo.FindAll(ctx), 2)
	assert.Equal(t, writes, store.Writes())

	require.NoError(t, repo.Delete(ctx, p.ID))
	all := repo.FindAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "stay", all[0].Content)

	_, err = repo.FindByID(ctx, p.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestSaveReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	older, err := repo.Create(ctx, alice, "", "older", "")
	require.NoError(t, err)
	_, err = repo.Create(ctx, alice, "", "newer", "")
	require.NoError(t, err)

	older.Likes = 3
	_, err = repo.Save(ctx, *older)
	require.NoError(t, err)

	all := repo.FindAll(ctx)
	assert.Equal(t, "older", all[1].Content)
	assert.Equal(t, 3, all[1].Likes)

	_, err = repo.Save(ctx, models.Post{ID: "ghost"})
	assert.True(t, models.IsNotFound(err))
}

func TestFindAllReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	_, err := repo.Create(ctx, alice, "", "content", "")
	require.NoError(t, err)

	all := repo.FindAll(ctx)
	all[0].Content = "mutated"
	all[0].Reactions[models.ReactionFire] = 99

	again := repo.FindAll(ctx)
	assert.Equal(t, "content", again[0].Content)
	assert.Equal(t, 0, again[0].Reactions[models.ReactionFire])
}

func TestPersistLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)
	a, err := repo.Create(ctx, alice, "title", "a", "https://example.com/x.png")
	require.NoError(t, err)
	_, err = repo.Create(ctx, models.Author{ID: "u-bob", Name: "Bob", Avatar: "B"}, "", "b", "")
	require.NoError(t, err)

	heart := models.ReactionHeart
	a.Likes, a.Liked, a.UserReaction = 1, true, &heart
	a.Reactions[heart] = 4
	_, err = repo.Save(ctx, *a)
	require.NoError(t, err)
	require.NoError(t, repo.Persist(ctx))

	reloaded := NewLocalPostRepository(store, nil)
	reloaded.Load(ctx)
	if diff := cmp.Diff(repo.FindAll(ctx), reloaded.FindAll(ctx)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"corrupt": "{not json",
		"blank":   "   ",
		"object":  `{"id":"1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			require.NoError(t, store.Set(ctx, storage.KeyPosts, raw))
			repo := NewLocalPostRepository(store, nil)
			repo.Load(ctx)
			assert.Empty(t, repo.FindAll(ctx))
		})
	}
}

func TestLoadLegacyGlyphData(t *testing.T) {
	ctx := context.Background()
	raw := `[{"id":"1700000000000","userId":"1","userName":"Sam","userAvatar":"S",
		"title":"","content":"hi","image":"","timestamp":"2024-01-02T03:04:05.678Z",
		"likes":-2,"liked":false,
		"reactions":{"❤️":2,"ðŸ”¥":1,"??":7},"userReaction":"🔥"}]`
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, storage.KeyPosts, raw))

	repo := NewLocalPostRepository(store, nil)
	repo.Load(ctx)
	all := repo.FindAll(ctx)
	require.Len(t, all, 1)
	p := all[0]
	assert.Equal(t, 0, p.Likes, "negative counters are clamped")
	assert.Equal(t, 2, p.Reactions[models.ReactionHeart])
	assert.Equal(t, 1, p.Reactions[models.ReactionFire])
	assert.Len(t, p.Reactions, len(models.ReactionKeys))
	require.NotNil(t, p.UserReaction)
	assert.Equal(t, models.ReactionFire, *p.UserReaction)

	// New ids never collide with loaded ones.
	created, err := repo.Create(ctx, alice, "", "new", "")
	require.NoError(t, err)
	assert.NotEqual(t, "1700000000000", created.ID)
}

func TestLoadBrowserAppHeartReaction(t *testing.T) {
	ctx := context.Background()
	raw := `[{"id":"1700000000000","userId":"1","userName":"Sam","userAvatar":"S",
		"title":"","content":"hi","image":"","timestamp":"2024-01-02T03:04:05.678Z",
		"likes":0,"liked":false,
		"reactions":{"\u00e2\u00a4\u00ef\u00b8":1,"\u00f0\u0178\u2018":2},
		"userReaction":"\u00e2\u00a4\u00ef\u00b8"}]`
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, storage.KeyPosts, raw))

	repo := NewLocalPostRepository(store, nil)
	repo.Load(ctx)
	all := repo.FindAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, 1, all[0].Reactions[models.ReactionHeart])
	assert.Equal(t, 2, all[0].Reactions[models.ReactionThumbsUp])
	require.NotNil(t, all[0].UserReaction, "stored heart reaction must survive load")
	assert.Equal(t, models.ReactionHeart, *all[0].UserReaction)
}

func TestFailedWriteLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	good := storage.NewMemoryStore()
	repo := NewLocalPostRepository(good, nil)
	p, err := repo.Create(ctx, alice, "", "original", "")
	require.NoError(t, err)

	repo.store = failingStore{good}
	_, err = repo.Create(ctx, alice, "", "never stored", "")
	assert.Error(t, err)
	_, err = repo.Update(ctx, p.ID, "", "changed")
	assert.Error(t, err)
	assert.Error(t, repo.Delete(ctx, p.ID))

	all := repo.FindAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "original", all[0].Content)
}
