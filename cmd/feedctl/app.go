package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/nano-feed/backend/internal/feed"
	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"github.com/anonto42/nano-feed/backend/internal/storage"
	"github.com/anonto42/nano-feed/backend/pkg/config"
	"github.com/anonto42/nano-feed/backend/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNotSignedIn = errors.New("not signed in; run 'feedctl login' or 'feedctl signup' first")

// app holds what every command needs once the store is open.
type app struct {
	// flags
	storeDriver string
	dataFile    string
	verbose     bool

	logger  *zap.Logger
	store   storage.Store
	posts   *repositories.LocalPostRepository
	users   *repositories.LocalUserRepository
	reactor *feed.Reactor
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if a.storeDriver != "" {
		cfg.StoreDriver = a.storeDriver
	}
	if a.dataFile != "" {
		cfg.DataFile = a.dataFile
	}

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	zl, err := logger.New("production", level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = zl

	ctx := cmd.Context()
	store, err := config.OpenStore(ctx, cfg, zl)
	if err != nil {
		return err
	}
	a.store = store
	a.posts = repositories.NewLocalPostRepository(store, zl)
	a.posts.Load(ctx)
	a.users = repositories.NewLocalUserRepository(store, zl)
	a.reactor = feed.NewReactor(a.posts, zl)
	return nil
}

func (a *app) close(*cobra.Command, []string) error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *app) currentUser(ctx context.Context) (*models.User, error) {
	u, ok := a.users.Current(ctx)
	if !ok {
		return nil, errNotSignedIn
	}
	return u, nil
}

// ownedPost loads id and checks that the signed-in user wrote it.
func (a *app) ownedPost(ctx context.Context, id string) (*models.Post, error) {
	u, err := a.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	p, err := a.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != u.ID {
		return nil, fmt.Errorf("post %s belongs to %s; you can only change your own posts", id, p.UserName)
	}
	return p, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "feedctl",
		Short: "Read and write the post feed",
		Long: `feedctl works against the same store as the server.

Sign in with 'feedctl signup' or 'feedctl login'; the session persists in the
store until 'feedctl logout'.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.open,
		PersistentPostRunE: a.close,
	}
	root.PersistentFlags().StringVar(&a.storeDriver, "store", "", "Store driver: memory, file, sqlite, postgres or mongo (default: STORE_DRIVER)")
	root.PersistentFlags().StringVar(&a.dataFile, "data", "", "Data file for the file store (default: DATA_FILE)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newPostCmd(a),
		newLikeCmd(a),
		newReactCmd(a),
		newListCmd(a),
		newStatsCmd(a),
	)
	return root
}
