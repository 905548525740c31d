// Package posts stores blog posts. Listing and search results are ordered
// newest first on every backend.
package posts

import (
	"context"

	"github.com/dmitrijs2005/wizardry/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	FindByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	FindAll(ctx context.Context) ([]models.Post, error)
	// Update applies patch and returns the stored post, or common.ErrorNotFound.
	Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)
	// Delete removes the post. A missing post is not an error.
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]models.Post, error)
}
