package service

import (
	"context"

	"github.com/BloggingApp/posts-service/internal/config"
	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/BloggingApp/posts-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Token interface {
	Issue(userID uuid.UUID) (string, error)
	Verify(token string) (*TokenClaims, error)
}

type Account interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.Profile, error)
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
	GetCurrentUser(ctx context.Context, token string) (*dto.Profile, error)
	TokenIsValid(ctx context.Context, token string) bool
	Logout(ctx context.Context, token string) error
	Delete(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type Post interface {
	List(ctx context.Context) ([]*model.FullPost, error)
	FindByID(ctx context.Context, postID string) (*model.FullPost, error)
	Create(ctx context.Context, userID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error)
	AuthorizeUpdate(ctx context.Context, userID uuid.UUID, postID string) error
	Update(ctx context.Context, userID uuid.UUID, postID string, input dto.UpdatePostRequest) (*model.Post, error)
	Delete(ctx context.Context, userID uuid.UUID, postID string) error
	Like(ctx context.Context, userID uuid.UUID, postID string, liked *bool) (*model.Post, error)
}

// Publisher delivers post events to the broker.
type Publisher interface {
	PublishJSON(ctx context.Context, queue string, value interface{}) error
}

type Service struct {
	Token
	Account
	Post
}

// New wires the services. publisher may be nil, in which case no events are sent.
func New(logger *zap.Logger, repo *repository.Repository, auth config.AuthConfig, publisher Publisher) *Service {
	token := newTokenService(auth)

	return &Service{
		Token:   token,
		Account: newAccountService(logger, repo, token, auth.BcryptCost),
		Post:    newPostService(logger, repo, publisher),
	}
}
