package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/posts-service/internal/config"
	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/BloggingApp/posts-service/internal/repository"
	"github.com/BloggingApp/posts-service/internal/repository/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type publishedMsg struct {
	queue string
	value interface{}
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []publishedMsg
	err  error
}

func (p *recordingPublisher) PublishJSON(ctx context.Context, queue string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, publishedMsg{queue: queue, value: value})
	return nil
}

func (p *recordingPublisher) published() []publishedMsg {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]publishedMsg{}, p.msgs...)
}

type testEnv struct {
	store     *mock.Store
	repo      *repository.Repository
	publisher *recordingPublisher
	service   *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := mock.NewStore()
	repo := store.Repository()
	publisher := &recordingPublisher{}

	return &testEnv{
		store:     store,
		repo:      repo,
		publisher: publisher,
		service: New(zap.NewNop(), repo, config.AuthConfig{
			Secret:     []byte("test-secret"),
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		}, publisher),
	}
}

func (e *testEnv) register(t *testing.T, email, displayName string) *model.User {
	t.Helper()

	user, err := e.service.Register(context.Background(), dto.RegisterRequest{
		Email:         email,
		Password:      "secret1",
		PasswordCheck: "secret1",
		DisplayName:   displayName,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) login(t *testing.T, email string) *dto.Profile {
	t.Helper()

	profile, err := e.service.Login(context.Background(), dto.LoginRequest{
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	return profile
}

func (e *testEnv) createPost(t *testing.T, user *model.User, title string) *model.Post {
	t.Helper()

	post, err := e.service.Post.Create(context.Background(), user.ID, dto.CreatePostRequest{
		Title:   title,
		Message: "message of " + title,
		Creator: user.DisplayName,
		Tags:    []string{"go"},
	})
	require.NoError(t, err)
	return post
}
