package dto

import (
	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/google/uuid"
)

type Profile struct {
	Token       string      `json:"token"`
	ID          uuid.UUID   `json:"id"`
	DisplayName string      `json:"displayName"`
	Email       string      `json:"email"`
	Posts       []uuid.UUID `json:"posts"`
}

func NewProfile(token string, user *model.User) Profile {
	posts := user.Posts
	if posts == nil {
		posts = []uuid.UUID{}
	}

	return Profile{
		Token:       token,
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Posts:       posts,
	}
}
