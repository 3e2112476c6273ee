package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	display_name  TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT users_email_key UNIQUE (email),
	CONSTRAINT users_display_name_key UNIQUE (display_name)
);

CREATE TABLE IF NOT EXISTS posts (
	id            UUID PRIMARY KEY,
	seq           BIGINT GENERATED ALWAYS AS IDENTITY,
	user_id       UUID REFERENCES users(id) ON DELETE SET NULL,
	title         TEXT NOT NULL,
	message       TEXT NOT NULL,
	selected_file TEXT NOT NULL DEFAULT '',
	creator       TEXT NOT NULL DEFAULT '',
	tags          TEXT[] NOT NULL DEFAULT '{}',
	like_count    BIGINT NOT NULL DEFAULT 0 CHECK (like_count >= 0),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS posts_user_id_idx ON posts(user_id);
CREATE INDEX IF NOT EXISTS posts_seq_idx ON posts(seq);

CREATE TABLE IF NOT EXISTS post_likes (
	post_id    UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
	PRIMARY KEY (post_id, user_id)
);

CREATE INDEX IF NOT EXISTS post_likes_user_id_idx ON post_likes(user_id);
`

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}
