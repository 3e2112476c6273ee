package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/posts-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectUser = `SELECT
	u.id, u.email, u.password_hash, u.display_name, u.created_at,
	COALESCE((SELECT array_agg(p.id ORDER BY p.seq) FROM posts p WHERE p.user_id = u.id), '{}'::uuid[])
	FROM users u`

type userRepo struct {
	db *pgxpool.Pool
}

func newUserRepo(db *pgxpool.Pool) User {
	return &userRepo{
		db: db,
	}
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now().UTC()
	user.Posts = []uuid.UUID{}

	_, err := r.db.Exec(
		ctx,
		"INSERT INTO users(id, email, password_hash, display_name, created_at) VALUES($1, $2, $3, $4, $5)",
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.CreatedAt,
	)
	if err != nil {
		if pgErr, ok := pgError(err); ok && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case usersEmailKey:
				return nil, ErrDuplicateEmail
			case usersDisplayNameKey:
				return nil, ErrDuplicateDisplayName
			}
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUser+" WHERE u.id = $1", id))
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUser+" WHERE u.email = $1", email))
}

// Delete removes the user and their likes, recomputing the like counts of the
// affected posts. Owned posts stay in place with a null owner.
func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) (*model.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	user, err := scanUser(tx.QueryRow(ctx, selectUser+" WHERE u.id = $1 FOR UPDATE OF u", id))
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, "DELETE FROM post_likes WHERE user_id = $1 RETURNING post_id", id)
	if err != nil {
		return nil, err
	}
	likedPosts, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, err
	}

	if len(likedPosts) > 0 {
		if _, err := tx.Exec(
			ctx,
			"UPDATE posts p SET like_count = (SELECT count(*) FROM post_likes l WHERE l.post_id = p.id) WHERE p.id = ANY($1)",
			likedPosts,
		); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM users WHERE id = $1", id); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return user, nil
}

func scanUser(row interface{ Scan(dest ...interface{}) error }) (*model.User, error) {
	var user model.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.CreatedAt,
		&user.Posts,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}
