package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID           uuid.UUID   `json:"id"`
	UserID       *uuid.UUID  `json:"user"`
	Title        string      `json:"title"`
	Message      string      `json:"message"`
	SelectedFile string      `json:"selectedFile"`
	Creator      string      `json:"creator"`
	Tags         []string    `json:"tags"`
	LikeCount    int64       `json:"likeCount"`
	LikedFrom    []uuid.UUID `json:"likedFrom"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// FullPost replaces the owner id with the owner itself. User is nil for
// posts whose owner deleted the account.
type FullPost struct {
	Post
	User *UserAuthor `json:"user"`
}

func (p *Post) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID != nil && *p.UserID == userID
}

func (p *Post) IsLikedBy(userID uuid.UUID) bool {
	for _, id := range p.LikedFrom {
		if id == userID {
			return true
		}
	}
	return false
}

// PostUpdate carries the fields to replace. Nil fields are left as stored.
type PostUpdate struct {
	Title        *string
	Message      *string
	SelectedFile *string
	Tags         *[]string
}

func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Message == nil && u.SelectedFile == nil && u.Tags == nil
}
