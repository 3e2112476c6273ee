package postgres

import (
	"context"

	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindAll(ctx context.Context) ([]*model.FullPost, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error)
	Update(ctx context.Context, id uuid.UUID, update model.PostUpdate) (*model.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetLike(ctx context.Context, postID uuid.UUID, userID uuid.UUID, liked *bool) (*model.Post, error)
}

type PostgresRepository struct {
	User
	Post
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		User: newUserRepo(db),
		Post: newPostRepo(db),
	}
}
