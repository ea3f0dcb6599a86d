package repository

import (
	"context"

	"carenet/internal/database"
	"carenet/internal/domain/post"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

type PostgresPostRepository struct {
	db database.DB
}

func NewPostgresPostRepository(db database.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// postSelect expects the viewer id as $1.
const postSelect = `SELECT po.id, po.user_id, po.content, po.image_url, po.created_at,
	p.id, p.full_name, p.headline, p.user_type, p.profile_photo,
	(SELECT count(*) FROM likes l WHERE l.post_id = po.id),
	(SELECT count(*) FROM comments c WHERE c.post_id = po.id),
	EXISTS(SELECT 1 FROM likes l WHERE l.post_id = po.id AND l.user_id = $1)
	FROM posts po
	JOIN profiles p ON p.id = po.user_id`

func (r *PostgresPostRepository) Create(ctx context.Context, p post.Post) (post.Post, error) {
	var id uuid.UUID
	row := r.db.QueryRow(ctx,
		`INSERT INTO posts (user_id, content, image_url) VALUES ($1, $2, $3) RETURNING id`,
		p.UserID, p.Content, p.ImageURL,
	)
	if err := row.Scan(&id); err != nil {
		if isForeignKeyViolation(err) {
			return post.Post{}, profile.ErrNotFound
		}
		return post.Post{}, err
	}
	return r.GetByID(ctx, id, p.UserID)
}

func (r *PostgresPostRepository) GetByID(ctx context.Context, id, viewerID uuid.UUID) (post.Post, error) {
	return scanPost(r.db.QueryRow(ctx, postSelect+` WHERE po.id = $2`, viewerID, id))
}

func (r *PostgresPostRepository) Feed(ctx context.Context, viewerID uuid.UUID, f post.FeedFilter) ([]post.Post, error) {
	limit, offset := clampPage(f.Limit, f.Offset, 20, 100)

	rows, err := r.db.Query(ctx,
		postSelect+` WHERE ($2::uuid IS NULL OR po.user_id = $2)
		 ORDER BY po.created_at DESC
		 LIMIT $3 OFFSET $4`,
		viewerID, f.AuthorID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the post. Likes and comments go with it through ON DELETE CASCADE.
func (r *PostgresPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return post.ErrNotFound
	}
	return nil
}

func (r *PostgresPostRepository) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, int, error) {
	var (
		liked bool
		count int
	)
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		removed, err := tx.Exec(ctx, `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
		if err != nil {
			return err
		}
		if removed == 0 {
			if _, err := tx.Exec(ctx,
				`INSERT INTO likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT (user_id, post_id) DO NOTHING`,
				postID, userID,
			); err != nil {
				if isForeignKeyViolation(err) {
					return post.ErrNotFound
				}
				return err
			}
			liked = true
		}
		return tx.QueryRow(ctx, `SELECT count(*) FROM likes WHERE post_id = $1`, postID).Scan(&count)
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (r *PostgresPostRepository) AddComment(ctx context.Context, c post.Comment) (post.Comment, error) {
	row := r.db.QueryRow(ctx,
		`WITH ins AS (
			INSERT INTO comments (post_id, user_id, content) VALUES ($1, $2, $3)
			RETURNING id, post_id, user_id, content, created_at
		)
		SELECT ins.id, ins.post_id, ins.user_id, ins.content, ins.created_at,
			p.id, p.full_name, p.headline, p.user_type, p.profile_photo
		FROM ins JOIN profiles p ON p.id = ins.user_id`,
		c.PostID, c.UserID, c.Content,
	)
	out, err := scanComment(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return post.Comment{}, post.ErrNotFound
		}
		return post.Comment{}, err
	}
	return out, nil
}

func (r *PostgresPostRepository) ListComments(ctx context.Context, postID uuid.UUID) ([]post.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
			p.id, p.full_name, p.headline, p.user_type, p.profile_photo
		 FROM comments c
		 JOIN profiles p ON p.id = c.user_id
		 WHERE c.post_id = $1
		 ORDER BY c.created_at ASC, c.id ASC`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]post.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanPost(row database.Row) (post.Post, error) {
	var p post.Post
	err := row.Scan(
		&p.ID, &p.UserID, &p.Content, &p.ImageURL, &p.CreatedAt,
		&p.Author.ID, &p.Author.FullName, &p.Author.Headline, &p.Author.UserType, &p.Author.ProfilePhoto,
		&p.LikeCount, &p.CommentCount, &p.LikedByMe,
	)
	if err != nil {
		if isNoRows(err) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, err
	}
	return p, nil
}

func scanComment(row database.Row) (post.Comment, error) {
	var c post.Comment
	err := row.Scan(
		&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt,
		&c.Author.ID, &c.Author.FullName, &c.Author.Headline, &c.Author.UserType, &c.Author.ProfilePhoto,
	)
	if err != nil {
		if isNoRows(err) {
			return post.Comment{}, post.ErrNotFound
		}
		return post.Comment{}, err
	}
	return c, nil
}
