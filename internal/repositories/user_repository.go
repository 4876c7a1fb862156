package repositories

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the interface for user and session operations
type UserRepository interface {
	Signup(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*models.User, bool)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpsertExternal(ctx context.Context, name, email string) (*models.User, error)
}

// LocalUserRepository stores users as a JSON array under storage.KeyUsers and
// the signed-in user under storage.KeyCurrentUser.
type LocalUserRepository struct {
	mu     sync.Mutex
	store  storage.Store
	cost   int
	logger *zap.Logger
}

func NewLocalUserRepository(store storage.Store, logger *zap.Logger) *LocalUserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalUserRepository{store: store, cost: bcrypt.DefaultCost, logger: logger.Named("users")}
}

// WithHashCost sets the bcrypt cost; tests lower it to bcrypt.MinCost.
func (r *LocalUserRepository) WithHashCost(cost int) *LocalUserRepository {
	r.cost = cost
	return r
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// avatarFor returns the upper-cased first letter of name.
func avatarFor(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

func (r *LocalUserRepository) readUsers(ctx context.Context) ([]models.User, error) {
	raw, ok, err := r.store.Get(ctx, storage.KeyUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []models.User{}, nil
	}
	var users []models.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		r.logger.Warn("stored users are corrupt, starting empty", zap.Error(err))
		return []models.User{}, nil
	}
	return users, nil
}

func (r *LocalUserRepository) writeUsers(ctx context.Context, users []models.User) error {
	b, err := json.Marshal(users)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, storage.KeyUsers, string(b)); err != nil {
		return fmt.Errorf("failed to persist users: %w", err)
	}
	return nil
}

func (r *LocalUserRepository) setCurrent(ctx context.Context, u *models.User) error {
	b, err := json.Marshal(u.ToCompact())
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, storage.KeyCurrentUser, string(b)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Signup registers a new user and signs them in.
func (r *LocalUserRepository) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if email == "" {
		return nil, &models.ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if password == "" {
		return nil, &models.ValidationError{Field: "password", Reason: "must not be empty"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := r.readUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if normalizeEmail(u.Email) == email {
			return nil, models.ErrEmailTaken
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Avatar:   avatarFor(name),
	}
	if err := r.writeUsers(ctx, append(users, user)); err != nil {
		return nil, err
	}
	if err := r.setCurrent(ctx, &user); err != nil {
		return nil, err
	}
	r.logger.Info("user signed up", zap.String("id", user.ID))
	return &user, nil
}

// Login checks the credentials and stores the session. Accounts carried over
// with a plaintext password are rehashed on their first successful login.
func (r *LocalUserRepository) Login(ctx context.Context, email, password string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := r.readUsers(ctx)
	if err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	i := -1
	for j := range users {
		if normalizeEmail(users[j].Email) == email {
			i = j
			break
		}
	}
	if i < 0 || users[i].Password == "" {
		return nil, models.ErrInvalidCredentials
	}

	u := users[i]
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if !isPlaintextMatch(u.Password, password) {
			return nil, models.ErrInvalidCredentials
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.Password = string(hashed)
		users[i] = u
		if err := r.writeUsers(ctx, users); err != nil {
			return nil, err
		}
		r.logger.Info("legacy password rehashed", zap.String("id", u.ID))
	}
	if err := r.setCurrent(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// isPlaintextMatch reports whether stored is not a bcrypt hash and equals
// password.
func isPlaintextMatch(stored, password string) bool {
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// Logout clears the stored session.
func (r *LocalUserRepository) Logout(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Set(ctx, storage.KeyCurrentUser, "")
}

// Current returns the signed-in user, if any. Sessions pointing at a user
// that no longer exists count as signed out.
func (r *LocalUserRepository) Current(ctx context.Context) (*models.User, bool) {
	raw, ok, err := r.store.Get(ctx, storage.KeyCurrentUser)
	if err != nil || !ok || strings.TrimSpace(raw) == "" {
		return nil, false
	}
	var session models.UserCompact
	if err := json.Unmarshal([]byte(raw), &session); err != nil || session.ID == "" {
		return nil, false
	}
	u, err := r.FindByID(ctx, session.ID)
	if err != nil {
		return nil, false
	}
	return u, true
}

func (r *LocalUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	users, err := r.readUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, &models.NotFoundError{Kind: "user", ID: id}
}

// UpsertExternal returns the user registered under email, creating one
// without a local password when none exists. Used for identities verified by
// an external provider.
func (r *LocalUserRepository) UpsertExternal(ctx context.Context, name, email string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, &models.ValidationError{Field: "email", Reason: "must not be empty"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := r.readUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i, u := range users {
		if normalizeEmail(u.Email) != email {
			continue
		}
		if name = strings.TrimSpace(name); name != "" && name != u.Name {
			users[i].Name = name
			users[i].Avatar = avatarFor(name)
			if err := r.writeUsers(ctx, users); err != nil {
				return nil, err
			}
		}
		out := users[i]
		return &out, nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user := models.User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Avatar: avatarFor(name),
	}
	if err := r.writeUsers(ctx, append(users, user)); err != nil {
		return nil, err
	}
	r.logger.Info("external user created", zap.String("id", user.ID))
	return &user, nil
}
