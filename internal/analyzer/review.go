package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sozercan/codelens/internal/llm"
	"github.com/sozercan/codelens/internal/tools"
)

const reviewPrompt = `Review the following %s code. Call %s with at most %d short, concrete suggestions.
Do not repeat generic style advice about line length, nesting or naming; those are reported separately.`

type review struct {
	suggestions []string
	tokens      int64
}

// llmReview asks the model for suggestions. Failures are logged and yield an empty
// review so the heuristic result is still returned.
func (a *Analyzer) llmReview(ctx context.Context, code, language, model string) review {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.ReviewTimeout)
	defer cancel()

	slog.Info("Requesting LLM review", "model", model, "language", language)
	resp, err := a.llmProvider.Analyze(ctx,
		[]string{fmt.Sprintf(reviewPrompt, language, tools.ReportSuggestionsName, a.cfg.MaxSuggestions)},
		[]string{code},
		llm.WithModel(model),
		llm.WithTools(tools.Specs...),
	)
	if err != nil {
		slog.Warn("LLM review failed", "model", model, "error", err)
		return review{}
	}

	var suggestions []string
	if resp.FunctionCall != nil && resp.FunctionCall.Name == tools.ReportSuggestionsName {
		suggestions, err = tools.ParseSuggestions(resp.FunctionCall.Arguments)
		if err != nil {
			slog.Warn("LLM review returned unusable arguments", "error", err)
		}
	} else {
		suggestions = tools.SuggestionsFromText(resp.Content)
	}

	if len(suggestions) > a.cfg.MaxSuggestions {
		suggestions = suggestions[:a.cfg.MaxSuggestions]
	}
	slog.Debug("LLM review completed", "suggestions", len(suggestions), "tokens", resp.Usage.TotalTokens)
	return review{suggestions: suggestions, tokens: resp.Usage.TotalTokens}
}
