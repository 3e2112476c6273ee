package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `p.id, p.user_id, p.title, p.message, p.selected_file, p.creator, p.tags, p.like_count, p.created_at,
	COALESCE((SELECT array_agg(l.user_id ORDER BY l.created_at) FROM post_likes l WHERE l.post_id = p.id), '{}'::uuid[])`

const (
	selectPost     = "SELECT " + postColumns + " FROM posts p"
	selectFullPost = "SELECT " + postColumns + `, u.id, u.display_name, u.email
	FROM posts p
	LEFT JOIN users u ON p.user_id = u.id`
)

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

// Create inserts the post already owned by post.UserID, so the owner's post
// list gains the post in the same statement.
func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	post.CreatedAt = time.Now().UTC()
	post.LikeCount = 0
	post.LikedFrom = []uuid.UUID{}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO posts(id, user_id, title, message, selected_file, creator, tags, like_count, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		post.ID,
		post.UserID,
		post.Title,
		post.Message,
		post.SelectedFile,
		post.Creator,
		post.Tags,
		post.LikeCount,
		post.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindAll(ctx context.Context) ([]*model.FullPost, error) {
	rows, err := r.db.Query(ctx, selectFullPost+" ORDER BY p.seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*model.FullPost{}
	for rows.Next() {
		post, err := scanFullPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	post, err := scanFullPost(r.db.QueryRow(ctx, selectFullPost+" WHERE p.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return post, nil
}

func (r *postRepo) Update(ctx context.Context, id uuid.UUID, update model.PostUpdate) (*model.Post, error) {
	if update.IsEmpty() {
		return findPost(ctx, r.db, id)
	}

	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if update.Title != nil {
		set("title", *update.Title)
	}
	if update.Message != nil {
		set("message", *update.Message)
	}
	if update.SelectedFile != nil {
		set("selected_file", *update.SelectedFile)
	}
	if update.Tags != nil {
		tags := *update.Tags
		if tags == nil {
			tags = []string{}
		}
		set("tags", tags)
	}

	args = append(args, id)
	query := "UPDATE posts SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(args))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	post, err := findPost(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return post, nil
}

// Delete removes the post. Its likes go with it and it leaves the owner's
// post list in the same statement.
func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLike moves userID's like on the post to the requested state, or flips it
// when liked is nil. The post row stays locked until like_count is recomputed.
func (r *postRepo) SetLike(ctx context.Context, postID uuid.UUID, userID uuid.UUID, liked *bool) (*model.Post, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var locked uuid.UUID
	if err := tx.QueryRow(ctx, "SELECT id FROM posts WHERE id = $1 FOR UPDATE", postID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var current bool
	if err := tx.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)",
		postID,
		userID,
	).Scan(&current); err != nil {
		return nil, err
	}

	target := !current
	if liked != nil {
		target = *liked
	}

	switch {
	case target && !current:
		if _, err := tx.Exec(ctx, "INSERT INTO post_likes(post_id, user_id) VALUES($1, $2)", postID, userID); err != nil {
			if isForeignKeyViolation(err) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	case !target && current:
		if _, err := tx.Exec(ctx, "DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2", postID, userID); err != nil {
			return nil, err
		}
	}

	if target != current {
		if _, err := tx.Exec(
			ctx,
			"UPDATE posts SET like_count = (SELECT count(*) FROM post_likes WHERE post_id = $1) WHERE id = $1",
			postID,
		); err != nil {
			return nil, err
		}
	}

	post, err := findPost(ctx, tx, postID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return post, nil
}

func findPost(ctx context.Context, q querier, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := q.QueryRow(ctx, selectPost+" WHERE p.id = $1", id).Scan(postFields(&post)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &post, nil
}

func postFields(post *model.Post) []interface{} {
	return []interface{}{
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Message,
		&post.SelectedFile,
		&post.Creator,
		&post.Tags,
		&post.LikeCount,
		&post.CreatedAt,
		&post.LikedFrom,
	}
}

func scanFullPost(row interface{ Scan(dest ...interface{}) error }) (*model.FullPost, error) {
	var (
		post        model.FullPost
		authorID    *uuid.UUID
		displayName *string
		email       *string
	)

	dest := append(postFields(&post.Post), &authorID, &displayName, &email)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if authorID != nil {
		post.User = &model.UserAuthor{
			ID:          *authorID,
			DisplayName: *displayName,
			Email:       *email,
		}
	}

	return &post, nil
}
