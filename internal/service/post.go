package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/BloggingApp/posts-service/internal/rabbitmq"
	"github.com/BloggingApp/posts-service/internal/repository"
	"github.com/BloggingApp/posts-service/internal/repository/postgres"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

type postService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	publisher Publisher
}

func newPostService(logger *zap.Logger, repo *repository.Repository, publisher Publisher) Post {
	return &postService{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
	}
}

func parsePostID(postID string) (uuid.UUID, error) {
	id, err := uuid.Parse(postID)
	if err != nil {
		return uuid.Nil, ErrPostNotFound
	}
	return id, nil
}

func (s *postService) List(ctx context.Context) ([]*model.FullPost, error) {
	posts, err := s.repo.Postgres.Post.FindAll(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get posts: %s", err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *postService) FindByID(ctx context.Context, postID string) (*model.FullPost, error) {
	id, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	return s.findPost(ctx, id)
}

func (s *postService) findPost(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to get post(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	return post, nil
}

func (s *postService) Create(ctx context.Context, userID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Message) == "" {
		return nil, ErrTitleOrMessageMissing
	}

	owner := userID
	post, err := s.repo.Postgres.Post.Create(ctx, model.Post{
		UserID:       &owner,
		Title:        input.Title,
		Message:      input.Message,
		SelectedFile: input.SelectedFile,
		Creator:      input.Creator,
		Tags:         input.Tags,
	})
	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Sugar().Errorf("failed to create post for user(%s): %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	s.publish(ctx, rabbitmq.POST_CREATED_QUEUE, dto.MQPostCreatedMsg{
		PostID:    post.ID,
		UserID:    userID,
		PostTitle: post.Title,
		CreatedAt: post.CreatedAt,
	})

	return post, nil
}

// ownedPostID resolves postID and returns denied unless userID owns the post.
func (s *postService) ownedPostID(ctx context.Context, userID uuid.UUID, postID string, denied error) (uuid.UUID, error) {
	id, err := parsePostID(postID)
	if err != nil {
		return uuid.Nil, err
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if !post.IsOwnedBy(userID) {
		return uuid.Nil, denied
	}

	return id, nil
}

// AuthorizeUpdate reports the error Update would return before looking at the payload.
func (s *postService) AuthorizeUpdate(ctx context.Context, userID uuid.UUID, postID string) error {
	_, err := s.ownedPostID(ctx, userID, postID, ErrOnlyCreatorCanUpdate)
	return err
}

func (s *postService) Update(ctx context.Context, userID uuid.UUID, postID string, input dto.UpdatePostRequest) (*model.Post, error) {
	id, err := s.ownedPostID(ctx, userID, postID, ErrOnlyCreatorCanUpdate)
	if err != nil {
		return nil, err
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, ErrTitleOrMessageMissing
	}
	if input.Message != nil && strings.TrimSpace(*input.Message) == "" {
		return nil, ErrTitleOrMessageMissing
	}

	updated, err := s.repo.Postgres.Post.Update(ctx, id, model.PostUpdate{
		Title:        input.Title,
		Message:      input.Message,
		SelectedFile: input.SelectedFile,
		Tags:         input.Tags,
	})
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to update post(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	return updated, nil
}

func (s *postService) Delete(ctx context.Context, userID uuid.UUID, postID string) error {
	id, err := s.ownedPostID(ctx, userID, postID, ErrOnlyCreatorCanDelete)
	if err != nil {
		return err
	}

	if err := s.repo.Postgres.Post.Delete(ctx, id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to delete post(%s): %s", id.String(), err.Error())
		return ErrInternal
	}

	s.publish(ctx, rabbitmq.POST_DELETED_QUEUE, dto.MQPostDeletedMsg{
		PostID:    id,
		UserID:    userID,
		DeletedAt: time.Now().UTC(),
	})

	return nil
}

// Like sets the caller's like to liked, or flips it when liked is nil.
func (s *postService) Like(ctx context.Context, userID uuid.UUID, postID string, liked *bool) (*model.Post, error) {
	id, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.Postgres.Post.SetLike(ctx, id, userID, liked)
	if err != nil {
		switch {
		case errors.Is(err, postgres.ErrNotFound):
			return nil, ErrPostNotFound
		case errors.Is(err, postgres.ErrUserNotFound):
			return nil, ErrInvalidToken
		}
		s.logger.Sugar().Errorf("failed to like post(%s) by user(%s): %s", id.String(), userID.String(), err.Error())
		return nil, ErrInternal
	}

	return post, nil
}

func (s *postService) publish(ctx context.Context, queue string, msg interface{}) {
	if s.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishJSON(ctx, queue, msg); err != nil {
		s.logger.Sugar().Errorf("failed to publish message to queue(%s): %s", queue, err.Error())
	}
}
