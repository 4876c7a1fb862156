package main

import (
	"fmt"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/spf13/cobra"
)

func newPostCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create, edit or delete your posts",
	}
	cmd.AddCommand(newPostCreateCmd(a), newPostEditCmd(a), newPostDeleteCmd(a))
	return cmd
}

func newPostCreateCmd(a *app) *cobra.Command {
	var title, content, image string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new post",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := a.currentUser(ctx)
			if err != nil {
				return err
			}
			p, err := a.posts.Create(ctx, u.AsAuthor(), title, content, image)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post %s published.\n", p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Optional title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "Post body")
	cmd.Flags().StringVar(&image, "image", "", "Optional image URL")
	return cmd
}

func newPostEditCmd(a *app) *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title and content of one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			existing, err := a.ownedPost(ctx, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("title") {
				title = existing.Title
			}
			if _, err := a.posts.Update(ctx, existing.ID, title, content); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post %s updated.\n", existing.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title (unchanged when omitted)")
	cmd.Flags().StringVarP(&content, "content", "c", "", "New post body")
	return cmd
}

func newPostDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, err := a.ownedPost(ctx, args[0])
			if models.IsNotFound(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "Post %s does not exist; nothing to delete.\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			if err := a.posts.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post %s deleted.\n", args[0])
			return nil
		},
	}
}

func newLikeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Like a post, or take the like back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.currentUser(ctx); err != nil {
				return err
			}
			p, err := a.reactor.ToggleLike(ctx, args[0])
			if err != nil {
				return err
			}
			verb := "Unliked"
			if p.Liked {
				verb = "Liked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s post %s (%d likes).\n", verb, p.ID, p.Likes)
			return nil
		},
	}
}

func newReactCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "react <id> <heart|laugh|smile|thumbsup|fire>",
		Short: "Toggle your emoji reaction on a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.currentUser(ctx); err != nil {
				return err
			}
			p, err := a.reactor.ToggleReaction(ctx, args[0], models.ReactionKey(args[1]))
			if err != nil {
				return err
			}
			if p.UserReaction == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed your reaction from post %s.\n", p.ID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reacted %s to post %s.\n", p.UserReaction.Glyph(), p.ID)
			return nil
		},
	}
}
