package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sozercan/codelens/apimodels"
	"github.com/sozercan/codelens/internal/config"
	"github.com/sozercan/codelens/internal/llm"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrCodeTooLarge        = errors.New("code exceeds size limit")
)

type Analyzer struct {
	llmProvider llm.Provider
	cfg         config.AnalyzerConfig
}

// New builds an Analyzer. llmProvider may be nil, in which case requests naming a
// model get heuristic results only.
func New(llmProvider llm.Provider, cfg config.AnalyzerConfig) *Analyzer {
	return &Analyzer{
		llmProvider: llmProvider,
		cfg:         cfg,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, req apimodels.AnalysisRequest) (*apimodels.AnalysisResult, error) {
	if !apimodels.IsSupportedLanguage(req.Language) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, req.Language)
	}
	if a.cfg.MaxCodeBytes > 0 && int64(len(req.Code)) > a.cfg.MaxCodeBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrCodeTooLarge, len(req.Code), a.cfg.MaxCodeBytes)
	}

	slog.Info("Starting analysis", "language", req.Language, "bytes", len(req.Code), "model", req.Model)
	startTime := time.Now()

	var (
		result *apimodels.AnalysisResult
		parser string
		rev    review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, parser, err = heuristics(gctx, req.Code, req.Language)
		return err
	})
	reviewed := req.Model != "" && a.llmProvider != nil
	if reviewed {
		g.Go(func() error {
			rev = a.llmReview(gctx, req.Code, req.Language, req.Model)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("Analysis failed", "error", err)
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	result.Suggestions = append(result.Suggestions, rev.suggestions...)
	result.Metadata = &apimodels.AnalysisMetadata{
		ID:         uuid.NewString(),
		Language:   req.Language,
		Duration:   time.Since(startTime).String(),
		Parser:     parser,
		TokensUsed: rev.tokens,
	}
	if reviewed {
		result.Metadata.Model = req.Model
	}

	slog.Debug("Analysis completed", "id", result.Metadata.ID, "complexity", result.Complexity,
		"issues", len(result.Issues), "suggestions", len(result.Suggestions))
	return result, nil
}

// heuristics computes everything that does not need a model.
func heuristics(ctx context.Context, code, language string) (*apimodels.AnalysisResult, string, error) {
	lines := splitLines(code)

	st, err := measureStructure(ctx, code, language)
	if err != nil {
		return nil, "", err
	}

	counts := countLines(lines)
	findings := findIssues(lines, language)
	duplication := duplicationScore(lines)

	issues := make([]apimodels.Issue, 0, len(findings))
	for _, f := range findings {
		issues = append(issues, f.issue)
	}

	result := &apimodels.AnalysisResult{
		Complexity:  st.complexity,
		Issues:      issues,
		Suggestions: suggest(st.complexity, duplication, findings),
		Metrics: &apimodels.Metrics{
			TotalLines:        counts.total,
			CodeLines:         counts.code,
			CommentLines:      counts.comment,
			BlankLines:        counts.blank,
			NestingDepth:      maxNestingDepth(lines),
			FunctionCount:     st.functions,
			ClassCount:        st.classes,
			AverageLineLength: averageLineLength(lines),
			LongLines:         len(longLines(lines)),
			DuplicationScore:  duplication,
		},
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	return result, st.parser, nil
}
