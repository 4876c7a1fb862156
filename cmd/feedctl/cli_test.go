package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/anonto42/nano-feed/backend/internal/feed"
	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// feedctl runs one command against the file store at data.
func feedctl(t *testing.T, data string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--store", "file", "--data", data}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func listJSON(t *testing.T, data string, args ...string) []postView {
	t.Helper()
	out, err := feedctl(t, data, append([]string{"list", "-o", "json"}, args...)...)
	require.NoError(t, err)
	var views []postView
	require.NoError(t, json.Unmarshal([]byte(out), &views), out)
	return views
}

func TestFeedctlSession(t *testing.T) {
	data := filepath.Join(t.TempDir(), "feed.json")

	out, err := feedctl(t, data, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No posts found.")

	_, err = feedctl(t, data, "post", "create", "-c", "hello")
	assert.ErrorIs(t, err, errNotSignedIn)

	out, err = feedctl(t, data, "signup", "--name", "Alice", "--email", "alice@example.com", "--password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Alice!")

	out, err = feedctl(t, data, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "alice@example.com")

	_, err = feedctl(t, data, "post", "create", "--title", "Greeting", "-c", "hello world")
	require.NoError(t, err)
	_, err = feedctl(t, data, "post", "create", "-c", "   ")
	assert.True(t, models.IsValidation(err))

	views := listJSON(t, data)
	require.Len(t, views, 1)
	id := views[0].ID
	assert.Equal(t, "Alice", views[0].Author)
	assert.Equal(t, "Greeting", views[0].Title)
	assert.Equal(t, "Just now", views[0].Posted)

	out, err = feedctl(t, data, "like", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Liked post")
	out, err = feedctl(t, data, "like", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Unliked post")

	out, err = feedctl(t, data, "react", id, "fire")
	require.NoError(t, err)
	assert.Contains(t, out, "🔥")
	_, err = feedctl(t, data, "react", id, "rocket")
	assert.True(t, models.IsValidation(err))

	views = listJSON(t, data)
	assert.Equal(t, 1, views[0].Reactions["fire"])
	assert.Equal(t, "fire", views[0].UserReaction)

	out, err = feedctl(t, data, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Greeting: hello world")
	assert.Contains(t, out, "🔥 1*")

	out, err = feedctl(t, data, "stats", "-o", "json")
	require.NoError(t, err)
	var stats feed.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, feed.Stats{TotalPosts: 1, UserPosts: 1}, stats)

	out, err = feedctl(t, data, "post", "edit", id, "-c", "edited")
	require.NoError(t, err)
	assert.Contains(t, out, "updated")
	views = listJSON(t, data)
	assert.Equal(t, "edited", views[0].Content)
	assert.Equal(t, "Greeting", views[0].Title, "title is kept when --title is omitted")

	_, err = feedctl(t, data, "logout")
	require.NoError(t, err)
	_, err = feedctl(t, data, "whoami")
	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestFeedctlOwnership(t *testing.T) {
	data := filepath.Join(t.TempDir(), "feed.json")

	_, err := feedctl(t, data, "signup", "--name", "Alice", "--email", "alice@example.com", "--password", "secret123")
	require.NoError(t, err)
	_, err = feedctl(t, data, "post", "create", "-c", "mine")
	require.NoError(t, err)
	id := listJSON(t, data)[0].ID

	_, err = feedctl(t, data, "signup", "--name", "Bob", "--email", "bob@example.com", "--password", "secret123")
	require.NoError(t, err)

	_, err = feedctl(t, data, "post", "edit", id, "-c", "hijacked")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only change your own posts")
	_, err = feedctl(t, data, "post", "delete", id)
	require.Error(t, err)

	out, err := feedctl(t, data, "post", "delete", "no-such-post")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to delete")

	_, err = feedctl(t, data, "login", "--email", "alice@example.com", "--password", "secret123")
	require.NoError(t, err)
	_, err = feedctl(t, data, "post", "delete", id)
	require.NoError(t, err)
	assert.Empty(t, listJSON(t, data))
}

func TestFeedctlListSearchAndSort(t *testing.T) {
	data := filepath.Join(t.TempDir(), "feed.json")
	_, err := feedctl(t, data, "signup", "--name", "Alice", "--email", "alice@example.com", "--password", "secret123")
	require.NoError(t, err)
	for _, content := range []string{"first Go post", "second post", "third GO post"} {
		_, err := feedctl(t, data, "post", "create", "-c", content)
		require.NoError(t, err)
	}

	views := listJSON(t, data, "--search", "go", "--sort", "latest")
	require.Len(t, views, 2)
	assert.Equal(t, "third GO post", views[0].Content)
	assert.Equal(t, "first Go post", views[1].Content)

	out, err := feedctl(t, data, "list", "-o", "yaml", "--search", "second")
	require.NoError(t, err)
	var fromYAML []postView
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, "second post", fromYAML[0].Content)

	_, err = feedctl(t, data, "list", "-o", "xml")
	assert.Error(t, err)
}

func TestReactionsText(t *testing.T) {
	laugh := models.ReactionLaugh
	p := models.Post{Reactions: models.NewReactions(), UserReaction: &laugh}
	p.Reactions[models.ReactionHeart] = 2
	p.Reactions[models.ReactionLaugh] = 1
	assert.Equal(t, "❤️ 2  😂 1*", reactionsText(p))

	assert.Equal(t, "", reactionsText(models.Post{Reactions: models.NewReactions()}))
}

func TestToViewFormatsRelativeTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := models.Post{ID: "1", UserName: "Sam", Timestamp: now.Add(-3 * time.Hour), Reactions: models.NewReactions()}
	v := toView(p, now)
	assert.Equal(t, "3h ago", v.Posted)
	assert.Equal(t, 0, v.Reactions["heart"])
	assert.Empty(t, v.UserReaction)
}
