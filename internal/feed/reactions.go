package feed

import (
	"context"
	"sync"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"go.uber.org/zap"
)

// ToggleLike flips the current user's like. Applying it twice restores p.
func ToggleLike(p models.Post) models.Post {
	out := p.Clone()
	if out.Liked {
		out.Liked = false
		if out.Likes > 0 {
			out.Likes--
		}
	} else {
		out.Liked = true
		out.Likes++
	}
	return out
}

// ToggleReaction applies the current user's reaction. Choosing the reaction
// already held removes it; choosing another one moves it.
func ToggleReaction(p models.Post, key models.ReactionKey) (models.Post, error) {
	if _, ok := models.ParseReactionKey(string(key)); !ok {
		return p, &models.ValidationError{Field: "reaction", Reason: "unknown reaction " + string(key)}
	}

	out := p.Clone()
	if out.Reactions == nil {
		out.Reactions = models.NewReactions()
	}

	if out.UserReaction != nil && *out.UserReaction == key {
		decrement(out.Reactions, key)
		out.UserReaction = nil
		return out, nil
	}
	if out.UserReaction != nil {
		decrement(out.Reactions, *out.UserReaction)
	}
	out.Reactions[key]++
	out.UserReaction = &key
	return out, nil
}

func decrement(r models.Reactions, key models.ReactionKey) {
	if r[key] > 0 {
		r[key]--
	}
}

// Reactor applies toggles to stored posts and persists the result. Toggles
// are serialised so a read-modify-save cycle never interleaves with another.
type Reactor struct {
	mu     sync.Mutex
	posts  repositories.PostRepository
	logger *zap.Logger
}

func NewReactor(posts repositories.PostRepository, logger *zap.Logger) *Reactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reactor{posts: posts, logger: logger.Named("reactions")}
}

func (r *Reactor) ToggleLike(ctx context.Context, postID string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	updated, err := r.posts.Save(ctx, ToggleLike(*p))
	if err != nil {
		return nil, err
	}
	r.logger.Debug("like toggled", zap.String("post_id", postID), zap.Bool("liked", updated.Liked))
	return updated, nil
}

func (r *Reactor) ToggleReaction(ctx context.Context, postID string, key models.ReactionKey) (*models.Post, error) {
	if _, ok := models.ParseReactionKey(string(key)); !ok {
		return nil, &models.ValidationError{Field: "reaction", Reason: "unknown reaction " + string(key)}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	next, err := ToggleReaction(*p, key)
	if err != nil {
		return nil, err
	}
	updated, err := r.posts.Save(ctx, next)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("reaction toggled", zap.String("post_id", postID), zap.String("reaction", string(key)))
	return updated, nil
}
