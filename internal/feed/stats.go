package feed

import "github.com/anonto42/nano-feed/backend/internal/models"

// Stats is the dashboard summary.
type Stats struct {
	TotalPosts int `json:"totalPosts" yaml:"totalPosts"`
	TotalLikes int `json:"totalLikes" yaml:"totalLikes"`
	UserPosts  int `json:"userPosts" yaml:"userPosts"`
	UserLikes  int `json:"userLikes" yaml:"userLikes"`
}

// ComputeStats summarises posts overall and for userID.
func ComputeStats(posts []models.Post, userID string) Stats {
	var s Stats
	s.TotalPosts = len(posts)
	for _, p := range posts {
		s.TotalLikes += p.Likes
		if userID != "" && p.UserID == userID {
			s.UserPosts++
			s.UserLikes += p.Likes
		}
	}
	return s
}
