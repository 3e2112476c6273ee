package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/BloggingApp/posts-service/internal/repository"
	"github.com/BloggingApp/posts-service/internal/repository/postgres"
	"github.com/BloggingApp/posts-service/internal/repository/redisrepo"
	"github.com/google/uuid"
)

// Store is an in-memory stand-in for PostgreSQL with the same ownership and
// like semantics as the postgres repositories.
type Store struct {
	mutex sync.RWMutex
	users map[uuid.UUID]*model.User
	posts map[uuid.UUID]*storedPost
	seq   int64

	// UserErr and PostErr, when set, are returned by every call of the
	// corresponding repository.
	UserErr error
	PostErr error
}

type storedPost struct {
	post model.Post
	seq  int64
}

func NewStore() *Store {
	return &Store{
		users: make(map[uuid.UUID]*model.User),
		posts: make(map[uuid.UUID]*storedPost),
	}
}

func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			User: &UserRepository{store: s},
			Post: &PostRepository{store: s},
		},
		Redis: &redisrepo.RedisRepository{
			Default: NewKeyValue(),
		},
	}
}

// ownedPosts must be called with the mutex held.
func (s *Store) ownedPosts(userID uuid.UUID) []uuid.UUID {
	var owned []*storedPost
	for _, p := range s.posts {
		if p.post.IsOwnedBy(userID) {
			owned = append(owned, p)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].seq < owned[j].seq
	})

	ids := make([]uuid.UUID, 0, len(owned))
	for _, p := range owned {
		ids = append(ids, p.post.ID)
	}
	return ids
}

func (s *Store) userCopy(user *model.User) *model.User {
	u := *user
	u.Posts = s.ownedPosts(user.ID)
	return &u
}

func postCopy(post model.Post) *model.Post {
	post.Tags = append([]string{}, post.Tags...)
	post.LikedFrom = append([]uuid.UUID{}, post.LikedFrom...)
	if post.UserID != nil {
		owner := *post.UserID
		post.UserID = &owner
	}
	return &post
}

func (s *Store) fullPost(p *storedPost) *model.FullPost {
	full := &model.FullPost{Post: *postCopy(p.post)}
	if p.post.UserID != nil {
		if owner, ok := s.users[*p.post.UserID]; ok {
			full.User = &model.UserAuthor{
				ID:          owner.ID,
				DisplayName: owner.DisplayName,
				Email:       owner.Email,
			}
		}
	}
	return full
}

type UserRepository struct {
	store *Store
}

func (m *UserRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	s := m.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.UserErr != nil {
		return nil, s.UserErr
	}

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, postgres.ErrDuplicateEmail
		}
		if existing.DisplayName == user.DisplayName {
			return nil, postgres.ErrDuplicateDisplayName
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now().UTC()
	user.Posts = nil
	s.users[user.ID] = &user

	return s.userCopy(&user), nil
}

func (m *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	s := m.store
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.UserErr != nil {
		return nil, s.UserErr
	}

	user, exists := s.users[id]
	if !exists {
		return nil, postgres.ErrNotFound
	}
	return s.userCopy(user), nil
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	s := m.store
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.UserErr != nil {
		return nil, s.UserErr
	}

	for _, user := range s.users {
		if user.Email == email {
			return s.userCopy(user), nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (m *UserRepository) Delete(ctx context.Context, id uuid.UUID) (*model.User, error) {
	s := m.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.UserErr != nil {
		return nil, s.UserErr
	}

	user, exists := s.users[id]
	if !exists {
		return nil, postgres.ErrNotFound
	}
	deleted := s.userCopy(user)

	for _, p := range s.posts {
		if p.post.IsOwnedBy(id) {
			p.post.UserID = nil
		}
		if p.post.IsLikedBy(id) {
			p.post.LikedFrom = removeID(p.post.LikedFrom, id)
			p.post.LikeCount = int64(len(p.post.LikedFrom))
		}
	}
	delete(s.users, id)

	return deleted, nil
}

type PostRepository struct {
	store *Store
}

func (m *PostRepository) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	s := m.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.PostErr != nil {
		return nil, s.PostErr
	}

	if post.UserID != nil {
		if _, exists := s.users[*post.UserID]; !exists {
			return nil, postgres.ErrUserNotFound
		}
	}

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	post.CreatedAt = time.Now().UTC()
	post.LikeCount = 0
	post.LikedFrom = []uuid.UUID{}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	s.seq++
	s.posts[post.ID] = &storedPost{post: *postCopy(post), seq: s.seq}

	return postCopy(post), nil
}

func (m *PostRepository) FindAll(ctx context.Context) ([]*model.FullPost, error) {
	s := m.store
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.PostErr != nil {
		return nil, s.PostErr
	}

	stored := make([]*storedPost, 0, len(s.posts))
	for _, p := range s.posts {
		stored = append(stored, p)
	}
	sort.Slice(stored, func(i, j int) bool {
		return stored[i].seq < stored[j].seq
	})

	posts := make([]*model.FullPost, 0, len(stored))
	for _, p := range stored {
		posts = append(posts, s.fullPost(p))
	}
	return posts, nil
}

func (m *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	s := m.store
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.PostErr != nil {
		return nil, s.PostErr
	}

	p, exists := s.posts[id]
	if !exists {
		return nil, postgres.ErrNotFound
	}
	return s.fullPost(p), nil
}

func (m *PostRepository) Update(ctx context.Context, id uuid.UUID, update model.PostUpdate) (*model.Post, error) {
	s := m.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.PostErr != nil {
		return nil, s.PostErr
	}

	p, exists := s.posts[id]
	if !exists {
		return nil, postgres.ErrNotFound
	}

	if update.Title != nil {
		p.post.Title = *update.Title
	}
	if update.Message != nil {
		p.post.Message = *update.Message
	}
	if update.SelectedFile != nil {
		p.post.SelectedFile = *update.SelectedFile
	}
	if update.Tags != nil {
		p.post.Tags = append([]string{}, (*update.Tags)...)
	}

	return postCopy(p.post), nil
}

func (m *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	s := m.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.PostErr != nil {
		return s.PostErr
	}

	if _, exists := s.posts[id]; !exists {
		return postgres.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (m *PostRepository) SetLike(ctx context.Context, postID uuid.UUID, userID uuid.UUID, liked *bool) (*model.Post, error) {
	s := m.store
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.PostErr != nil {
		return nil, s.PostErr
	}

	p, exists := s.posts[postID]
	if !exists {
		return nil, postgres.ErrNotFound
	}

	current := p.post.IsLikedBy(userID)
	target := !current
	if liked != nil {
		target = *liked
	}

	switch {
	case target && !current:
		if _, exists := s.users[userID]; !exists {
			return nil, postgres.ErrUserNotFound
		}
		p.post.LikedFrom = append(p.post.LikedFrom, userID)
	case !target && current:
		p.post.LikedFrom = removeID(p.post.LikedFrom, userID)
	}
	p.post.LikeCount = int64(len(p.post.LikedFrom))

	return postCopy(p.post), nil
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	kept := make([]uuid.UUID, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return kept
}

// KeyValue is an in-memory redisrepo.Default honouring ttl.
type KeyValue struct {
	mutex   sync.RWMutex
	entries map[string]time.Time // zero time never expires
	Err     error
}

func NewKeyValue() *KeyValue {
	return &KeyValue{
		entries: make(map[string]time.Time),
	}
}

func (m *KeyValue) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return m.Err
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = expiresAt
	return nil
}

func (m *KeyValue) Exists(ctx context.Context, key string) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.Err != nil {
		return false, m.Err
	}

	expiresAt, exists := m.entries[key]
	if !exists {
		return false, nil
	}
	return expiresAt.IsZero() || time.Now().Before(expiresAt), nil
}
