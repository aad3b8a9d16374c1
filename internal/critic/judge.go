package critic

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"filmbot/internal/catalog"
	"filmbot/internal/config"
	"filmbot/internal/llm"
	"filmbot/pkg/log"
)

// Completer is the LLM surface the critic needs. *llm.Client satisfies it.
type Completer interface {
	SimpleChat(ctx context.Context, prompt string, opts *llm.ChatCompletionOptions) (string, error)
}

// Judge asks the model a yes/no question per candidate movie and keeps
// the ones the model recommends.
type Judge struct {
	client      Completer
	tmpl        *template.Template
	criteria    string
	affirmative string
	approvalCap int
	temperature float64
	maxTokens   int
}

// NewJudge builds a Judge from the critic configuration. An empty
// JudgePrompt falls back to the built-in template.
func NewJudge(cfg config.CriticConfig, client Completer) (*Judge, error) {
	src := cfg.JudgePrompt
	if src == "" {
		src = defaultJudgePrompt
	}
	tmpl, err := template.New("judge").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("invalid judge prompt template: %w", err)
	}

	return &Judge{
		client:      client,
		tmpl:        tmpl,
		criteria:    cfg.JudgeCriteria,
		affirmative: strings.ToLower(cfg.Affirmative),
		approvalCap: cfg.ApprovalCap,
		temperature: cfg.JudgeTemperature,
		maxTokens:   cfg.JudgeMaxTokens,
	}, nil
}

// Evaluate asks the model whether the movie is worth recommending.
// The verdict text is returned for logging; it is never persisted.
func (j *Judge) Evaluate(ctx context.Context, movie catalog.Movie) (bool, string, error) {
	var prompt strings.Builder
	err := j.tmpl.Execute(&prompt, promptData{
		Title:    movie.Title,
		Overview: movie.Overview,
		Rating:   movie.VoteAverage,
		Criteria: j.criteria,
	})
	if err != nil {
		return false, "", fmt.Errorf("failed to render judge prompt: %w", err)
	}

	opts := llm.NewChatCompletionOptions().
		WithTemperature(j.temperature).
		WithMaxTokens(j.maxTokens)

	verdict, err := j.client.SimpleChat(ctx, prompt.String(), opts)
	if err != nil {
		return false, "", err
	}

	return j.isAffirmative(verdict), verdict, nil
}

// isAffirmative reports whether the reply starts with the affirmative
// token, case-insensitively. Empty or malformed replies reject.
func (j *Judge) isAffirmative(verdict string) bool {
	return strings.HasPrefix(strings.ToLower(verdict), j.affirmative)
}

// SelectApproved evaluates candidates sequentially, in the order given,
// and stops as soon as the approval cap is reached. Candidates past the
// cap are never evaluated.
func (j *Judge) SelectApproved(ctx context.Context, candidates []catalog.Movie) ([]catalog.Movie, error) {
	approved := make([]catalog.Movie, 0, j.approvalCap)

	for _, movie := range candidates {
		if len(approved) >= j.approvalCap {
			break
		}

		ok, verdict, err := j.Evaluate(ctx, movie)
		if err != nil {
			return nil, fmt.Errorf("judgment of %q failed: %w", movie.Title, err)
		}

		log.Debug("Critic verdict for %q: %s", movie.Title, verdict)
		if ok {
			approved = append(approved, movie)
		}
	}

	return approved, nil
}
