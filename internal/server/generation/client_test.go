package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger           { return l }

type fakeModel struct {
	out     string
	err     error
	calls   int
	lastCtx context.Context
	prompt  string
}

func (m *fakeModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.lastCtx = ctx
	m.prompt = prompt
	return m.out, m.err
}

func TestGenerate_DefaultStyleAndParse(t *testing.T) {
	raw := "# My Title\n\nShort excerpt.\n\nBody paragraph one.\n\nBody paragraph two."
	m := &fakeModel{out: raw}
	c := NewClient(m, nopLogger{})

	d, err := c.Generate(context.Background(), Request{Topic: "rust"})
	require.NoError(t, err)

	assert.Equal(t, "My Title", d.Title)
	assert.Equal(t, "Short excerpt.", d.Excerpt)
	assert.Equal(t, raw, d.Content)
	assert.Contains(t, m.prompt, "about rust in informative style")
	assert.NotContains(t, m.prompt, "Keywords")
}

func TestGenerate_EmptyTopicSkipsModel(t *testing.T) {
	m := &fakeModel{out: "x"}
	c := NewClient(m, nopLogger{})

	for _, topic := range []string{"", "   "} {
		_, err := c.Generate(context.Background(), Request{Topic: topic})
		assert.ErrorIs(t, err, common.ErrorValidation)
	}
	assert.Zero(t, m.calls)
}

func TestGenerate_ModelErrorIsGenerationFailure(t *testing.T) {
	m := &fakeModel{err: errors.New("quota exceeded")}
	c := NewClient(m, nopLogger{})

	_, err := c.Generate(context.Background(), Request{Topic: "go"})
	assert.ErrorIs(t, err, common.ErrGeneration)
	assert.NotContains(t, err.Error(), "quota")
}

func TestGenerate_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	m := &fakeModel{out: "t"}

	_, err := NewClient(m, nopLogger{}).Generate(ctx, Request{Topic: "go"})
	require.NoError(t, err)
	assert.Equal(t, "v", m.lastCtx.Value(key{}))
}

func TestGenerate_UnavailableModel(t *testing.T) {
	_, err := NewClient(UnavailableModel{}, nopLogger{}).Generate(context.Background(), Request{Topic: "go"})
	assert.ErrorIs(t, err, common.ErrGeneration)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(Request{
		Topic:    "databases",
		Style:    "casual",
		Keywords: []string{"sql", "indexes"},
		Language: "German",
	})

	assert.Contains(t, p, "Write a blog post about databases in casual style.")
	assert.Contains(t, p, "Keywords: sql, indexes.")
	assert.Contains(t, p, "Write it in German.")
	assert.Contains(t, p, `starting with "# "`)
	assert.Contains(t, p, "2-3 sentences")
}
