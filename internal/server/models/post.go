package models

import "time"

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post is a blog post. Author holds the id of the owning user; AuthorName is
// only filled on single post reads.
type Post struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	Author     string    `json:"author"`
	AuthorName string    `json:"authorName,omitempty"`
	Status     string    `json:"status"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PostPatch lists the fields an update may change. Nil means "keep".
type PostPatch struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Excerpt    *string `json:"excerpt"`
	Status     *string `json:"status"`
	CoverImage *string `json:"coverImage"`
}

// IsEmpty reports whether the patch changes nothing.
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Excerpt == nil && p.Status == nil && p.CoverImage == nil
}

// Apply copies the set fields onto post and stamps UpdatedAt.
func (p PostPatch) Apply(post *Post, now time.Time) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Excerpt != nil {
		post.Excerpt = *p.Excerpt
	}
	if p.Status != nil {
		post.Status = *p.Status
	}
	if p.CoverImage != nil {
		post.CoverImage = *p.CoverImage
	}
	post.UpdatedAt = now
}

// IsValidPostStatus reports whether s is a known post status.
func IsValidPostStatus(s string) bool {
	return s == PostStatusDraft || s == PostStatusPublished
}
