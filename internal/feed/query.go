package feed

import (
	"sort"
	"strings"

	"github.com/anonto42/nano-feed/backend/internal/models"
)

// SortMode selects the display order of a query.
type SortMode string

const (
	SortLatest    SortMode = "latest"
	SortOldest    SortMode = "oldest"
	SortMostLiked SortMode = "most-liked"
)

// ParseSortMode normalises user input. Unknown modes are returned as-is and
// keep storage order when queried.
func ParseSortMode(s string) SortMode {
	return SortMode(strings.ToLower(strings.TrimSpace(s)))
}

// Result is the display-ready output of Query.
type Result struct {
	Posts []models.Post `json:"posts"`
	// Empty is set when nothing matched, so callers can render a
	// "no posts found" state.
	Empty bool `json:"empty"`
}

// Query filters posts by term and orders them by mode. Ties keep their
// storage order.
func Query(posts []models.Post, term string, mode SortMode) Result {
	needle := strings.ToLower(term)
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if matches(p, needle) {
			out = append(out, p)
		}
	}

	switch mode {
	case SortLatest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	case SortMostLiked:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Likes > out[j].Likes })
	}

	return Result{Posts: out, Empty: len(out) == 0}
}

func matches(p models.Post, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Content), needle) ||
		strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.UserName), needle)
}
