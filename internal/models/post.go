package models

import "time"

// Post is a single feed entry as it is persisted under the "posts" key.
// Author fields are a snapshot taken at creation time.
type Post struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	UserName     string       `json:"userName"`
	UserAvatar   string       `json:"userAvatar"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Image        string       `json:"image"`
	Timestamp    time.Time    `json:"timestamp"`
	Likes        int          `json:"likes"`
	Liked        bool         `json:"liked"`
	Reactions    Reactions    `json:"reactions"`
	UserReaction *ReactionKey `json:"userReaction"`
}

// Author is the denormalized snapshot copied onto a post.
type Author struct {
	ID     string
	Name   string
	Avatar string
}

// Clone returns a copy of the post that shares no mutable state with p.
func (p Post) Clone() Post {
	cp := p
	cp.Reactions = p.Reactions.Clone()
	if p.UserReaction != nil {
		key := *p.UserReaction
		cp.UserReaction = &key
	}
	return cp
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title   string `json:"title" validate:"omitempty,max=200"`
	Content string `json:"content" validate:"notblank,max=5000"`
	Image   string `json:"image,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the request body for editing an existing post
type UpdatePostRequest struct {
	Title   string `json:"title" validate:"omitempty,max=200"`
	Content string `json:"content" validate:"notblank,max=5000"`
}

// ReactRequest defines the request body for toggling an emoji reaction
type ReactRequest struct {
	Reaction string `json:"reaction" validate:"required,oneof=heart laugh smile thumbsup fire"`
}
