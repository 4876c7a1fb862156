package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// User is owned by the auth collaborator and stored under the "users" key.
// Password holds a bcrypt hash, never the plaintext.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

// UserCompact is the public view of a user.
type UserCompact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

func (u User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

// AsAuthor snapshots the user for a new post.
func (u User) AsAuthor() Author {
	return Author{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"notblank,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
