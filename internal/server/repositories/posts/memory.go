package posts

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps posts in process memory. Search matches posts whose
// title, excerpt or content contains any of the query words.
type MemoryRepository struct {
	mu    sync.RWMutex
	posts map[string]models.Post
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{posts: make(map[string]models.Post), now: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if _, err := uuid.Parse(post.Author); err != nil {
		return nil, common.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = uuid.NewString()
	r.posts[post.ID] = *post
	return post, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) FindByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	if _, err := uuid.Parse(authorID); err != nil {
		return nil, common.ErrInvalidID
	}
	return r.filter(func(p models.Post) bool { return p.Author == authorID }), nil
}

func (r *MemoryRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	return r.filter(func(models.Post) bool { return true }), nil
}

func (r *MemoryRepository) Search(ctx context.Context, query string) ([]models.Post, error) {
	terms := strings.Fields(strings.ToLower(query))
	return r.filter(func(p models.Post) bool {
		text := strings.ToLower(p.Title + " " + p.Excerpt + " " + p.Content)
		for _, t := range terms {
			if strings.Contains(text, t) {
				return true
			}
		}
		return false
	}), nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	patch.Apply(&p, r.now().UTC())
	r.posts[id] = p
	return &p, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)
	return nil
}

func (r *MemoryRepository) filter(keep func(models.Post) bool) []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []models.Post{}
	for _, p := range r.posts {
		if keep(p) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}
