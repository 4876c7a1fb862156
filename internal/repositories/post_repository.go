package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/storage"
	"go.uber.org/zap"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Load(ctx context.Context)
	Persist(ctx context.Context) error
	Create(ctx context.Context, author models.Author, title, content, image string) (*models.Post, error)
	Update(ctx context.Context, id, title, content string) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) []models.Post
	FindByID(ctx context.Context, id string) (*models.Post, error)
	Save(ctx context.Context, post models.Post) (*models.Post, error)
}

// LocalPostRepository keeps the ordered post sequence in memory and writes the
// whole sequence to the store under storage.KeyPosts after every mutation.
// Newest posts come first.
type LocalPostRepository struct {
	mu     sync.RWMutex
	posts  []models.Post
	store  storage.Store
	ids    *IDGenerator
	logger *zap.Logger
}

type PostRepositoryOption func(*LocalPostRepository)

// WithClock overrides the clock used for ids and timestamps.
func WithClock(now func() time.Time) PostRepositoryOption {
	return func(r *LocalPostRepository) { r.ids = NewIDGenerator(now) }
}

// NewLocalPostRepository creates an empty repository; call Load to read the
// stored posts.
func NewLocalPostRepository(store storage.Store, logger *zap.Logger, opts ...PostRepositoryOption) *LocalPostRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &LocalPostRepository{
		store:  store,
		ids:    NewIDGenerator(nil),
		logger: logger.Named("posts"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load replaces the in-memory sequence with the stored one. Missing,
// unreadable or corrupt data yields an empty sequence.
func (r *LocalPostRepository) Load(ctx context.Context) {
	posts := r.read(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = posts
	for _, p := range posts {
		r.ids.Observe(p.ID)
	}
	r.logger.Debug("posts loaded", zap.Int("count", len(posts)))
}

func (r *LocalPostRepository) read(ctx context.Context) []models.Post {
	raw, ok, err := r.store.Get(ctx, storage.KeyPosts)
	if err != nil {
		r.logger.Warn("failed to read posts, starting empty", zap.Error(err))
		return []models.Post{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []models.Post{}
	}
	var posts []models.Post
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		r.logger.Warn("stored posts are corrupt, starting empty", zap.Error(err))
		return []models.Post{}
	}
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, sanitize(p))
	}
	return out
}

// sanitize repairs records that would break the counter invariants.
func sanitize(p models.Post) models.Post {
	if p.Reactions == nil {
		p.Reactions = models.NewReactions()
	}
	if p.Likes < 0 {
		p.Likes = 0
	}
	if p.UserReaction != nil {
		if _, ok := models.ParseReactionKey(string(*p.UserReaction)); !ok {
			p.UserReaction = nil
		}
	}
	return p
}

// Persist writes the current sequence to the store.
func (r *LocalPostRepository) Persist(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.write(ctx, r.posts)
}

func (r *LocalPostRepository) write(ctx context.Context, posts []models.Post) error {
	if posts == nil {
		posts = []models.Post{}
	}
	b, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeyPosts, string(b)); err != nil {
		return fmt.Errorf("failed to persist posts: %w", err)
	}
	return nil
}

// commit persists next and only then makes it the in-memory sequence.
// Callers hold r.mu.
func (r *LocalPostRepository) commit(ctx context.Context, next []models.Post) error {
	if err := r.write(ctx, next); err != nil {
		return err
	}
	r.posts = next
	return nil
}

func (r *LocalPostRepository) indexOf(id string) int {
	for i, p := range r.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Create validates and prepends a new post.
func (r *LocalPostRepository) Create(ctx context.Context, author models.Author, title, content, image string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &models.ValidationError{Field: "content", Reason: "must not be empty"}
	}

	id, ts := r.ids.Next()
	post := models.Post{
		ID:         id,
		UserID:     author.ID,
		UserName:   author.Name,
		UserAvatar: author.Avatar,
		Title:      strings.TrimSpace(title),
		Content:    content,
		Image:      strings.TrimSpace(image),
		Timestamp:  ts,
		Reactions:  models.NewReactions(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	next := make([]models.Post, 0, len(r.posts)+1)
	next = append(next, post)
	next = append(next, r.posts...)
	if err := r.commit(ctx, next); err != nil {
		return nil, err
	}
	r.logger.Info("post created", zap.String("id", id), zap.String("user_id", author.ID))

	out := post.Clone()
	return &out, nil
}

// Update replaces the title and content of an existing post.
func (r *LocalPostRepository) Update(ctx context.Context, id, title, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)

	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, &models.NotFoundError{Kind: "post", ID: id}
	}
	if content == "" {
		return nil, &models.ValidationError{Field: "content", Reason: "must not be empty"}
	}

	updated := r.posts[i].Clone()
	updated.Title = strings.TrimSpace(title)
	updated.Content = content
	if err := r.commit(ctx, replaced(r.posts, i, updated)); err != nil {
		return nil, err
	}
	r.logger.Info("post updated", zap.String("id", id))

	out := updated.Clone()
	return &out, nil
}

// Save stores post in place of the record with the same id.
func (r *LocalPostRepository) Save(ctx context.Context, post models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(post.ID)
	if i < 0 {
		return nil, &models.NotFoundError{Kind: "post", ID: post.ID}
	}
	stored := post.Clone()
	if err := r.commit(ctx, replaced(r.posts, i, stored)); err != nil {
		return nil, err
	}
	out := stored.Clone()
	return &out, nil
}

func replaced(posts []models.Post, i int, p models.Post) []models.Post {
	next := make([]models.Post, len(posts))
	copy(next, posts)
	next[i] = p
	return next
}

// Delete removes the post with id. Unknown ids are ignored without a write.
func (r *LocalPostRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil
	}
	next := make([]models.Post, 0, len(r.posts)-1)
	next = append(next, r.posts[:i]...)
	next = append(next, r.posts[i+1:]...)
	if err := r.commit(ctx, next); err != nil {
		return err
	}
	r.logger.Info("post deleted", zap.String("id", id))
	return nil
}

// FindAll returns a copy of every post in storage order.
func (r *LocalPostRepository) FindAll(_ context.Context) []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Post, len(r.posts))
	for i, p := range r.posts {
		out[i] = p.Clone()
	}
	return out
}

func (r *LocalPostRepository) FindByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, &models.NotFoundError{Kind: "post", ID: id}
	}
	out := r.posts[i].Clone()
	return &out, nil
}
