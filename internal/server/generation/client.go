// Package generation drafts blog posts with a generative text model.
package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/logging"
)

// DefaultStyle is used when a request names no style.
const DefaultStyle = "informative"

// Model produces raw text for a prompt.
type Model interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Request describes the post to draft. Only Topic is required.
type Request struct {
	Topic    string
	Style    string
	Keywords []string
	Language string
}

// Draft is a generated post split into its parts. Content is the raw model
// output, title and excerpt included.
type Draft struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
}

type Client struct {
	model  Model
	logger logging.Logger
}

func NewClient(model Model, logger logging.Logger) *Client {
	return &Client{model: model, logger: logger.With("module", "generation")}
}

// Generate validates req, asks the model for a post and parses the answer.
// A blank topic fails with common.ErrorValidation before the model is called.
// Every model failure is reported as common.ErrGeneration.
func (c *Client) Generate(ctx context.Context, req Request) (*Draft, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return nil, fmt.Errorf("%w: please provide a topic", common.ErrorValidation)
	}
	if strings.TrimSpace(req.Style) == "" {
		req.Style = DefaultStyle
	}

	raw, err := c.model.GenerateText(ctx, BuildPrompt(req))
	if err != nil {
		c.logger.Error(ctx, "generation failed", "topic", req.Topic, "error", err)
		return nil, common.ErrGeneration
	}

	draft := ParseDraft(raw)
	return &draft, nil
}

// BuildPrompt renders the instruction sent to the model.
func BuildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a blog post about %s in %s style.", req.Topic, req.Style)
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, " Keywords: %s.", strings.Join(req.Keywords, ", "))
	}
	if lang := strings.TrimSpace(req.Language); lang != "" {
		fmt.Fprintf(&b, " Write it in %s.", lang)
	}

	b.WriteString("\nPlease structure it with:\n")
	b.WriteString("- A title on the first line, starting with \"# \"\n")
	b.WriteString("- A blank line\n")
	b.WriteString("- A brief excerpt/summary (2-3 sentences)\n")
	b.WriteString("- A blank line\n")
	b.WriteString("- The main content")

	return b.String()
}
