package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	DisplayName  string      `json:"displayName"`
	Posts        []uuid.UUID `json:"posts"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// UserAuthor is the owner view expanded into listed posts.
type UserAuthor struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
}
