package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"github.com/dmitrijs2005/wizardry/internal/server/repositories/repomanager"
)

// SaveInput is the caller supplied part of a new post.
type SaveInput struct {
	Title      string
	Content    string
	Excerpt    string
	Author     string
	Status     string
	CoverImage string
}

type PostService struct {
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewPostService(m repomanager.RepositoryManager) *PostService {
	return &PostService{repomanager: m, now: time.Now}
}

// Save stores a new post. The author must be the caller; status defaults to
// draft.
func (s *PostService) Save(ctx context.Context, caller *models.User, in SaveInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" || in.Author == "" {
		return nil, fmt.Errorf("%w: please provide title, content and author", common.ErrorValidation)
	}
	if in.Author != caller.ID {
		return nil, common.ErrorForbidden
	}

	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !models.IsValidPostStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}

	now := s.now().UTC()
	post, err := s.repomanager.Posts().Create(ctx, &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		Author:     in.Author,
		Status:     status,
		CoverImage: in.CoverImage,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("error saving post: %w", err)
	}
	return post, nil
}

// Get returns the post with its author's name attached. A malformed id is
// reported as not found. AuthorName stays empty when the author is gone.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repomanager.Posts().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrInvalidID) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}

	author, err := s.repomanager.Users().FindByID(ctx, post.Author)
	switch {
	case err == nil:
		post.AuthorName = author.Username
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrInvalidID):
	default:
		return nil, fmt.Errorf("error loading author: %w", err)
	}

	return post, nil
}

func (s *PostService) ListMine(ctx context.Context, caller *models.User) ([]models.Post, error) {
	return s.repomanager.Posts().FindByAuthor(ctx, caller.ID)
}

func (s *PostService) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.repomanager.Posts().FindAll(ctx)
}

func (s *PostService) ListByAuthor(ctx context.Context, userID string) ([]models.Post, error) {
	return s.repomanager.Posts().FindByAuthor(ctx, userID)
}

// Search runs a full-text query. A blank query matches nothing.
func (s *PostService) Search(ctx context.Context, query string) ([]models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Post{}, nil
	}
	return s.repomanager.Posts().Search(ctx, query)
}

// Update applies patch to a post owned by the caller.
func (s *PostService) Update(ctx context.Context, caller *models.User, id string, patch models.PostPatch) (*models.Post, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrorValidation)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", common.ErrorValidation)
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", common.ErrorValidation)
	}
	if patch.Status != nil && !models.IsValidPostStatus(*patch.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, *patch.Status)
	}

	repo := s.repomanager.Posts()

	post, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Author != caller.ID {
		return nil, common.ErrorForbidden
	}

	return repo.Update(ctx, id, patch)
}

// Delete removes a post owned by the caller. Deleting a post that does not
// exist succeeds.
func (s *PostService) Delete(ctx context.Context, caller *models.User, id string) error {
	repo := s.repomanager.Posts()

	post, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}
	if post.Author != caller.ID {
		return common.ErrorForbidden
	}

	return repo.Delete(ctx, id)
}
