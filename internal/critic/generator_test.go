package critic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestGenerate(t *testing.T) {
	client := &fakeCompleter{replies: []string{"Історія, що не відпускає до останнього кадру."}}
	gen, err := NewGenerator(criticConfig(), language.MustParse("uk-UA"), client)
	require.NoError(t, err)

	m := movie(1, "Зелена миля")
	description, err := gen.Generate(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "Історія, що не відпускає до останнього кадру.", description)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Зелена миля")
	assert.Contains(t, client.prompts[0], m.Overview)

	require.Len(t, client.opts, 1)
	assert.Equal(t, 0.8, client.opts[0].Temperature)
	assert.Equal(t, 300, client.opts[0].MaxTokens)
}

func TestGenerateCustomTemplate(t *testing.T) {
	cfg := criticConfig()
	cfg.PromoPrompt = "Write a one-line teaser for {{.Title}}."

	client := &fakeCompleter{replies: []string{"A teaser."}}
	gen, err := NewGenerator(cfg, language.English, client)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), movie(1, "Alien"))
	require.NoError(t, err)
	assert.Equal(t, "Write a one-line teaser for Alien.", client.prompts[0])
}

func TestGenerateInvalidTemplate(t *testing.T) {
	cfg := criticConfig()
	cfg.PromoPrompt = "{{.Overview"

	_, err := NewGenerator(cfg, language.Ukrainian, &fakeCompleter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "promo prompt template")
}

func TestGeneratePropagatesError(t *testing.T) {
	client := &fakeCompleter{err: errors.New("model unavailable")}
	gen, err := NewGenerator(criticConfig(), language.Ukrainian, client)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), movie(1, "A"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}
