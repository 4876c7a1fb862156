package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/nano-feed/backend/internal/feed"
	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// postView is the display shape of a post in json and yaml output.
type postView struct {
	ID           string         `json:"id" yaml:"id"`
	Author       string         `json:"author" yaml:"author"`
	Title        string         `json:"title,omitempty" yaml:"title,omitempty"`
	Content      string         `json:"content" yaml:"content"`
	Image        string         `json:"image,omitempty" yaml:"image,omitempty"`
	Timestamp    time.Time      `json:"timestamp" yaml:"timestamp"`
	Posted       string         `json:"posted" yaml:"posted"`
	Likes        int            `json:"likes" yaml:"likes"`
	Liked        bool           `json:"liked" yaml:"liked"`
	Reactions    map[string]int `json:"reactions" yaml:"reactions"`
	UserReaction string         `json:"userReaction,omitempty" yaml:"userReaction,omitempty"`
}

func toView(p models.Post, now time.Time) postView {
	v := postView{
		ID:        p.ID,
		Author:    p.UserName,
		Title:     p.Title,
		Content:   p.Content,
		Image:     p.Image,
		Timestamp: p.Timestamp,
		Posted:    feed.RelativeTime(now, p.Timestamp),
		Likes:     p.Likes,
		Liked:     p.Liked,
		Reactions: make(map[string]int, len(p.Reactions)),
	}
	for k, n := range p.Reactions {
		v.Reactions[string(k)] = n
	}
	if p.UserReaction != nil {
		v.UserReaction = string(*p.UserReaction)
	}
	return v
}

func newListCmd(a *app) *cobra.Command {
	var search, sortMode, output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the feed",
		Long: `Show the feed, optionally filtered and sorted.

--search matches title, content and author name, ignoring case.
--sort is latest (default), oldest or most-liked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := feed.Query(a.posts.FindAll(cmd.Context()), search, feed.ParseSortMode(sortMode))
			return renderPosts(cmd.OutOrStdout(), result, output, time.Now())
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive search term")
	cmd.Flags().StringVar(&sortMode, "sort", string(feed.SortLatest), "Sort order: latest, oldest or most-liked")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	return cmd
}

func renderPosts(w io.Writer, result feed.Result, output string, now time.Time) error {
	views := make([]postView, 0, len(result.Posts))
	for _, p := range result.Posts {
		views = append(views, toView(p, now))
	}

	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml":
		return yaml.NewEncoder(w).Encode(views)
	case "table", "":
		if result.Empty {
			_, err := fmt.Fprintln(w, mutedStyle.Render("No posts found."))
			return err
		}
		_, err := fmt.Fprintln(w, postTable(result.Posts, now))
		return err
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
	}
}

func postTable(posts []models.Post, now time.Time) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "AUTHOR", "POSTED", "POST", "LIKES", "REACTIONS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, p := range posts {
		t.Row(
			p.ID,
			p.UserName,
			feed.RelativeTime(now, p.Timestamp),
			postText(p),
			likesText(p),
			reactionsText(p),
		)
	}
	return t.String()
}

func postText(p models.Post) string {
	text := p.Content
	if p.Title != "" {
		text = p.Title + ": " + text
	}
	if len([]rune(text)) > 60 {
		text = string([]rune(text)[:57]) + "..."
	}
	return strings.ReplaceAll(text, "\n", " ")
}

func likesText(p models.Post) string {
	s := strconv.Itoa(p.Likes)
	if p.Liked {
		s += " ♥"
	}
	return s
}

// reactionsText lists non-zero reactions in display order, marking the
// current user's own reaction with an asterisk.
func reactionsText(p models.Post) string {
	var parts []string
	for _, k := range models.ReactionKeys {
		n := p.Reactions[k]
		if n == 0 {
			continue
		}
		part := fmt.Sprintf("%s %d", k.Glyph(), n)
		if p.UserReaction != nil && *p.UserReaction == k {
			part += "*"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "  ")
}

func newStatsCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show feed totals and your own totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var userID string
			if u, ok := a.users.Current(ctx); ok {
				userID = u.ID
			}
			stats := feed.ComputeStats(a.posts.FindAll(ctx), userID)

			w := cmd.OutOrStdout()
			switch output {
			case "json":
				return json.NewEncoder(w).Encode(stats)
			case "yaml":
				return yaml.NewEncoder(w).Encode(stats)
			}
			fmt.Fprintf(w, "%s %d\n", headerStyle.Render("Total posts:"), stats.TotalPosts)
			fmt.Fprintf(w, "%s %d\n", headerStyle.Render("Total likes:"), stats.TotalLikes)
			if userID != "" {
				fmt.Fprintf(w, "%s %d\n", headerStyle.Render("Your posts: "), stats.UserPosts)
				fmt.Fprintf(w, "%s %d\n", headerStyle.Render("Your likes: "), stats.UserLikes)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	return cmd
}
