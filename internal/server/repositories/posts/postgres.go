package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/dbx"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"github.com/google/uuid"
)

const postColumns = `id, title, content, excerpt, author, status, cover_image, created_at, updated_at`

type PostgresRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if _, err := uuid.Parse(post.Author); err != nil {
		return nil, common.ErrInvalidID
	}

	query :=
		`INSERT INTO posts (` + postColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 `

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, query,
		id, post.Title, post.Content, post.Excerpt, post.Author,
		post.Status, post.CoverImage, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	post.ID = id
	return post, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidID
	}
	return findOne(ctx, r.db, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
}

func (r *PostgresRepository) FindByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	if _, err := uuid.Parse(authorID); err != nil {
		return nil, common.ErrInvalidID
	}

	query :=
		`SELECT ` + postColumns + ` FROM posts
		 WHERE author = $1
		 ORDER BY created_at DESC
		 `
	return r.findMany(ctx, query, authorID)
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	query :=
		`SELECT ` + postColumns + ` FROM posts
		 ORDER BY created_at DESC
		 `
	return r.findMany(ctx, query)
}

func (r *PostgresRepository) Search(ctx context.Context, q string) ([]models.Post, error) {
	query :=
		`SELECT ` + postColumns + ` FROM posts
		 WHERE search @@ plainto_tsquery('english', $1)
		 ORDER BY created_at DESC
		 `
	return r.findMany(ctx, query, q)
}

// Update locks the row, applies the patch in Go and writes every patchable
// column back in the same transaction.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidID
	}

	var post *models.Post
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		p, err := findOne(ctx, tx, `SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}

		patch.Apply(p, r.now().UTC())

		query :=
			`UPDATE posts
			 SET title = $2, content = $3, excerpt = $4, status = $5, cover_image = $6, updated_at = $7
			 WHERE id = $1
			 `
		if _, err := tx.ExecContext(ctx, query,
			id, p.Title, p.Content, p.Excerpt, p.Status, p.CoverImage, p.UpdatedAt); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		post = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrInvalidID
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) findMany(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*models.Post, error) {
	p := &models.Post{}
	err := s.Scan(&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.Author,
		&p.Status, &p.CoverImage, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func findOne(ctx context.Context, db dbx.DBTX, query string, args ...any) (*models.Post, error) {
	p, err := scanPost(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
