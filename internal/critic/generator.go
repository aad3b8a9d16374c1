package critic

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"

	"filmbot/internal/catalog"
	"filmbot/internal/config"
	"filmbot/internal/llm"
	"filmbot/pkg/log"
)

// Generator produces a short promotional description for an approved
// movie, targeted at short-form social captions.
type Generator struct {
	client      Completer
	tmpl        *template.Template
	temperature float64
	maxTokens   int
	wantLang    string
}

// NewGenerator builds a Generator. An empty PromoPrompt falls back to
// the built-in template. lang is the locale descriptions are expected
// to come back in.
func NewGenerator(cfg config.CriticConfig, lang language.Tag, client Completer) (*Generator, error) {
	src := cfg.PromoPrompt
	if src == "" {
		src = defaultPromoPrompt
	}
	tmpl, err := template.New("promo").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("invalid promo prompt template: %w", err)
	}

	base, _ := lang.Base()
	return &Generator{
		client:      client,
		tmpl:        tmpl,
		temperature: cfg.PromoTemperature,
		maxTokens:   cfg.PromoMaxTokens,
		wantLang:    base.String(),
	}, nil
}

// Generate asks the model for a 2-3 sentence promo blurb. The ~200
// character target lives in the prompt; the model output is not
// truncated here.
func (g *Generator) Generate(ctx context.Context, movie catalog.Movie) (string, error) {
	var prompt strings.Builder
	err := g.tmpl.Execute(&prompt, promptData{
		Title:    movie.Title,
		Overview: movie.Overview,
		Rating:   movie.VoteAverage,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render promo prompt: %w", err)
	}

	opts := llm.NewChatCompletionOptions().
		WithTemperature(g.temperature).
		WithMaxTokens(g.maxTokens)

	description, err := g.client.SimpleChat(ctx, prompt.String(), opts)
	if err != nil {
		return "", err
	}

	if got := whatlanggo.DetectLang(description).Iso6391(); got != "" && got != g.wantLang {
		log.Warn("Description for %q detected as %q, expected %q", movie.Title, got, g.wantLang)
	}

	return description, nil
}
