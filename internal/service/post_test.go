package service

import (
	"context"
	"errors"
	"testing"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/BloggingApp/posts-service/internal/rabbitmq"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "ann@example.com", "ann")

	post, err := env.service.Post.Create(context.Background(), user.ID, dto.CreatePostRequest{
		Title:        "Hello",
		Message:      "World",
		SelectedFile: "data:image/png;base64,AAAA",
		Creator:      "Ann",
		Tags:         []string{"a", "b"},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, post.ID)
	assert.True(t, post.IsOwnedBy(user.ID))
	assert.Equal(t, []string{"a", "b"}, post.Tags)
	assert.Equal(t, int64(0), post.LikeCount)
	assert.Empty(t, post.LikedFrom)

	profile := env.login(t, "ann@example.com")
	assert.Equal(t, []uuid.UUID{post.ID}, profile.Posts)

	msgs := env.publisher.published()
	require.Len(t, msgs, 1)
	assert.Equal(t, rabbitmq.POST_CREATED_QUEUE, msgs[0].queue)
	assert.Equal(t, post.ID, msgs[0].value.(dto.MQPostCreatedMsg).PostID)
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "ben@example.com", "ben")

	for _, input := range []dto.CreatePostRequest{
		{Message: "no title"},
		{Title: "no message"},
		{Title: "   ", Message: "blank title"},
	} {
		_, err := env.service.Post.Create(context.Background(), user.ID, input)
		assert.ErrorIs(t, err, ErrTitleOrMessageMissing)
	}

	assert.Empty(t, env.publisher.published())
}

func TestCreatePostForDeletedUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Post.Create(context.Background(), uuid.New(), dto.CreatePostRequest{
		Title:   "ghost",
		Message: "ghost",
	})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreatePostPublishFailure(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("broker down")
	user := env.register(t, "cat@example.com", "cat")

	post := env.createPost(t, user, "still created")
	assert.NotNil(t, post)
}

func TestListPosts(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "dee@example.com", "dee")

	posts, err := env.service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)

	first := env.createPost(t, user, "first")
	second := env.createPost(t, user, "second")

	posts, err = env.service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, first.ID, posts[0].ID)
	assert.Equal(t, second.ID, posts[1].ID)
	require.NotNil(t, posts[0].User)
	assert.Equal(t, "dee", posts[0].User.DisplayName)

	env.store.PostErr = errors.New("timeout")
	_, err = env.service.List(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestFindPost(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "eve@example.com", "eve")
	post := env.createPost(t, user, "found")

	found, err := env.service.Post.FindByID(context.Background(), post.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "found", found.Title)

	_, err = env.service.Post.FindByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = env.service.Post.FindByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "fay@example.com", "fay")
	other := env.register(t, "gus@example.com", "gus")
	post := env.createPost(t, owner, "original")

	updated, err := env.service.Update(context.Background(), owner.ID, post.ID.String(), dto.UpdatePostRequest{
		Title: strPtr("changed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Title)
	assert.Equal(t, post.Message, updated.Message)
	assert.Equal(t, post.Tags, updated.Tags)

	tags := []string{"x"}
	updated, err = env.service.Update(context.Background(), owner.ID, post.ID.String(), dto.UpdatePostRequest{
		Tags: &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Title)
	assert.Equal(t, []string{"x"}, updated.Tags)

	tests := []struct {
		name   string
		userID uuid.UUID
		postID string
		input  dto.UpdatePostRequest
		want   error
	}{
		{"malformed id", owner.ID, "nope", dto.UpdatePostRequest{}, ErrPostNotFound},
		{"unknown post", owner.ID, uuid.NewString(), dto.UpdatePostRequest{}, ErrPostNotFound},
		{"not the owner", other.ID, post.ID.String(), dto.UpdatePostRequest{Title: strPtr("mine")}, ErrOnlyCreatorCanUpdate},
		{"not the owner with invalid body", other.ID, post.ID.String(), dto.UpdatePostRequest{Title: strPtr("")}, ErrOnlyCreatorCanUpdate},
		{"blank title", owner.ID, post.ID.String(), dto.UpdatePostRequest{Title: strPtr(" ")}, ErrTitleOrMessageMissing},
		{"blank message", owner.ID, post.ID.String(), dto.UpdatePostRequest{Message: strPtr("")}, ErrTitleOrMessageMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Update(context.Background(), tt.userID, tt.postID, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	found, err := env.service.Post.FindByID(context.Background(), post.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "changed", found.Title)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "hal@example.com", "hal")
	other := env.register(t, "ida@example.com", "ida")
	kept := env.createPost(t, owner, "kept")
	post := env.createPost(t, owner, "deleted")

	err := env.service.Post.Delete(context.Background(), other.ID, post.ID.String())
	assert.ErrorIs(t, err, ErrOnlyCreatorCanDelete)
	assert.Equal(t, KindForbidden, KindOf(err))

	require.NoError(t, env.service.Post.Delete(context.Background(), owner.ID, post.ID.String()))

	_, err = env.service.Post.FindByID(context.Background(), post.ID.String())
	assert.ErrorIs(t, err, ErrPostNotFound)

	profile := env.login(t, "hal@example.com")
	assert.Equal(t, []uuid.UUID{kept.ID}, profile.Posts)

	assert.ErrorIs(t, env.service.Post.Delete(context.Background(), owner.ID, post.ID.String()), ErrPostNotFound)
	assert.ErrorIs(t, env.service.Post.Delete(context.Background(), owner.ID, "bad"), ErrPostNotFound)

	msgs := env.publisher.published()
	require.Len(t, msgs, 3)
	assert.Equal(t, rabbitmq.POST_DELETED_QUEUE, msgs[2].queue)
	assert.Equal(t, post.ID, msgs[2].value.(dto.MQPostDeletedMsg).PostID)
}

func TestLikePostToggle(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "jan@example.com", "jan")
	liker := env.register(t, "kim@example.com", "kim")
	post := env.createPost(t, owner, "likeable")

	liked, err := env.service.Like(context.Background(), liker.ID, post.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), liked.LikeCount)
	assert.Equal(t, []uuid.UUID{liker.ID}, liked.LikedFrom)

	liked, err = env.service.Like(context.Background(), owner.ID, post.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), liked.LikeCount)

	unliked, err := env.service.Like(context.Background(), liker.ID, post.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unliked.LikeCount)
	assert.Equal(t, []uuid.UUID{owner.ID}, unliked.LikedFrom)
}

func TestLikePostExplicitState(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "lou@example.com", "lou")
	post := env.createPost(t, owner, "idempotent")

	for i := 0; i < 3; i++ {
		liked, err := env.service.Like(context.Background(), owner.ID, post.ID.String(), boolPtr(true))
		require.NoError(t, err)
		assert.Equal(t, int64(1), liked.LikeCount)
	}

	for i := 0; i < 2; i++ {
		unliked, err := env.service.Like(context.Background(), owner.ID, post.ID.String(), boolPtr(false))
		require.NoError(t, err)
		assert.Equal(t, int64(0), unliked.LikeCount)
		assert.Empty(t, unliked.LikedFrom)
	}
}

func TestLikeCountMatchesLikes(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "max@example.com", "max")
	a := env.register(t, "ned@example.com", "ned")
	b := env.register(t, "ola@example.com", "ola")
	post := env.createPost(t, owner, "counted")

	sequence := []uuid.UUID{a.ID, b.ID, a.ID, owner.ID, b.ID, b.ID, a.ID}
	for _, userID := range sequence {
		liked, err := env.service.Like(context.Background(), userID, post.ID.String(), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(len(liked.LikedFrom)), liked.LikeCount)
	}

	found, err := env.service.Post.FindByID(context.Background(), post.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.LikeCount)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID, owner.ID}, found.LikedFrom)
}

func TestLikePostFailures(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "pat@example.com", "pat")
	post := env.createPost(t, owner, "target")

	_, err := env.service.Like(context.Background(), owner.ID, "bad", nil)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = env.service.Like(context.Background(), owner.ID, uuid.NewString(), nil)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = env.service.Like(context.Background(), uuid.New(), post.ID.String(), nil)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPostScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "author@example.com", "author")
	env.register(t, "reader@example.com", "reader")
	author := env.login(t, "author@example.com")
	reader := env.login(t, "reader@example.com")

	authorID, err := env.service.Authenticate(ctx, author.Token)
	require.NoError(t, err)
	readerID, err := env.service.Authenticate(ctx, reader.Token)
	require.NoError(t, err)

	post, err := env.service.Post.Create(ctx, authorID, dto.CreatePostRequest{Title: "T", Message: "M"})
	require.NoError(t, err)

	liked, err := env.service.Like(ctx, readerID, post.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), liked.LikeCount)

	liked, err = env.service.Like(ctx, readerID, post.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), liked.LikeCount)

	assert.ErrorIs(t, env.service.Post.Delete(ctx, readerID, post.ID.String()), ErrOnlyCreatorCanDelete)
	require.NoError(t, env.service.Post.Delete(ctx, authorID, post.ID.String()))

	current, err := env.service.GetCurrentUser(ctx, author.Token)
	require.NoError(t, err)
	assert.Empty(t, current.Posts)
}

func TestAuthorizeUpdate(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "quin@example.com", "quin")
	other := env.register(t, "rae@example.com", "rae")
	post := env.createPost(t, owner, "guarded")

	assert.NoError(t, env.service.AuthorizeUpdate(context.Background(), owner.ID, post.ID.String()))
	assert.ErrorIs(t, env.service.AuthorizeUpdate(context.Background(), other.ID, post.ID.String()), ErrOnlyCreatorCanUpdate)
	assert.ErrorIs(t, env.service.AuthorizeUpdate(context.Background(), owner.ID, "bad"), ErrPostNotFound)
	assert.ErrorIs(t, env.service.AuthorizeUpdate(context.Background(), owner.ID, uuid.NewString()), ErrPostNotFound)
}
