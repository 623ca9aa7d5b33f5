package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/codelens/apimodels"
	"github.com/sozercan/codelens/internal/config"
	"github.com/sozercan/codelens/internal/llm"
	"github.com/sozercan/codelens/internal/tools"
)

var testConfig = config.AnalyzerConfig{
	MaxCodeBytes:   1 << 16,
	ReviewTimeout:  time.Second,
	MaxSuggestions: 2,
}

type fakeProvider struct {
	resp  *llm.Response
	err   error
	calls int
	model string
}

func (f *fakeProvider) Analyze(ctx context.Context, systemMessages []string, userMessages []string, opts ...llm.Option) (*llm.Response, error) {
	f.calls++
	o := &llm.Options{}
	for _, opt := range opts {
		opt(o)
	}
	f.model = o.Model
	return f.resp, f.err
}

func analyze(t *testing.T, a *Analyzer, code, language string) *apimodels.AnalysisResult {
	t.Helper()
	result, err := a.Analyze(context.Background(), apimodels.AnalysisRequest{Code: code, Language: language})
	require.NoError(t, err)
	return result
}

func TestAnalyzePythonUsesSyntaxTree(t *testing.T) {
	code := strings.Join([]string{
		"def add(a, b):",
		"    if a > 0 and b > 0:",
		"        return a + b",
		"    for i in range(3):",
		"        pass",
		"    return 0",
	}, "\n")

	result := analyze(t, New(nil, testConfig), code, "python")

	assert.Equal(t, 4, result.Complexity, "base + if + and + for")
	require.NotNil(t, result.Metrics)
	assert.Equal(t, 6, result.Metrics.TotalLines)
	assert.Equal(t, 6, result.Metrics.CodeLines)
	assert.Equal(t, 2, result.Metrics.NestingDepth)
	require.NotNil(t, result.Metrics.FunctionCount)
	assert.Equal(t, 1, *result.Metrics.FunctionCount)
	assert.Equal(t, 0, *result.Metrics.ClassCount)
	assert.Equal(t, parserTreeSitter, result.Metadata.Parser)
	assert.Empty(t, result.Issues)
	assert.NotNil(t, result.Suggestions)
	assert.NotEmpty(t, result.Metadata.ID)
}

func TestAnalyzeGoCountsCasesAndBooleanOperators(t *testing.T) {
	code := strings.Join([]string{
		"package main",
		"",
		"func f(x int) int {",
		"\tswitch {",
		"\tcase x > 0 && x < 10:",
		"\t\treturn 1",
		"\tcase x > 10:",
		"\t\treturn 2",
		"\t}",
		"\treturn 0",
		"}",
	}, "\n")

	result := analyze(t, New(nil, testConfig), code, "go")
	assert.Equal(t, 4, result.Complexity)
	assert.Equal(t, 1, *result.Metrics.FunctionCount)
	assert.Equal(t, 1, result.Metrics.BlankLines)
}

func TestAnalyzeJavaScript(t *testing.T) {
	result := analyze(t, New(nil, testConfig), "function f(a) { return a ? 1 : (a || 2); }", "javascript")
	assert.Equal(t, 3, result.Complexity, "base + ternary + ||")
	assert.Equal(t, 1, *result.Metrics.FunctionCount)
}

func TestAnalyzeKeywordScanForOtherLanguages(t *testing.T) {
	result := analyze(t, New(nil, testConfig), "if (a && b) { for (;;) {} }", "java")
	assert.Equal(t, 4, result.Complexity)
	assert.Nil(t, result.Metrics.FunctionCount)
	assert.Nil(t, result.Metrics.ClassCount)
	assert.Equal(t, parserKeywordScan, result.Metadata.Parser)
}

func TestAnalyzeSyntaxErrorFallsBack(t *testing.T) {
	result := analyze(t, New(nil, testConfig), "def broken(:\n    if x", "python")
	assert.Equal(t, parserKeywordScan, result.Metadata.Parser)
	assert.Equal(t, 2, result.Complexity)
}

func TestAnalyzeEmptyCode(t *testing.T) {
	result := analyze(t, New(nil, testConfig), "", "python")
	assert.Equal(t, 1, result.Complexity)
	assert.Empty(t, result.Issues)
	assert.NotNil(t, result.Suggestions)
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, 1, result.Metrics.TotalLines)
	assert.Equal(t, 1, result.Metrics.BlankLines)
}

func TestAnalyzeIssueOrder(t *testing.T) {
	code := strings.Join([]string{
		"x = 1",
		strings.Repeat(" ", 24) + "y = 2",
		"z = '" + strings.Repeat("a", 110) + "'",
		"myValue = compute()",
	}, "\n")

	result := analyze(t, New(nil, testConfig), code, "ruby")

	require.Len(t, result.Issues, 2, "naming checks only apply to python")
	assert.Equal(t, 2, result.Issues[0].Line)
	assert.Contains(t, result.Issues[0].Message, "Deep nesting")
	assert.Equal(t, 3, result.Issues[1].Line)
	assert.Contains(t, result.Issues[1].Message, "Line longer than 100")
	assert.Equal(t, 1, result.Metrics.LongLines)
}

func TestAnalyzePythonNaming(t *testing.T) {
	code := "max_size = 10\nmyValue = max_size\n"
	result := analyze(t, New(nil, testConfig), code, "python")

	require.Len(t, result.Issues, 2)
	assert.Equal(t, apimodels.Issue{Line: 1, Message: `constant "max_size" should be UPPER_CASE`}, result.Issues[0])
	assert.Equal(t, apimodels.Issue{Line: 2, Message: `camelCase name "myValue" (prefer snake_case)`}, result.Issues[1])
	assert.Contains(t, result.Suggestions, "Use snake_case for variable and function names")
	assert.Contains(t, result.Suggestions, "Name module-level constants in UPPER_CASE")
}

func TestLongFunctions(t *testing.T) {
	lines := []string{"def long():"}
	for i := 0; i < 55; i++ {
		lines = append(lines, "    step()")
	}
	lines = append(lines, "", "def short():", "    return 1")

	assert.Equal(t, []int{1}, longFunctions(lines))

	braces := []string{"function f() {"}
	for i := 0; i < 10; i++ {
		braces = append(braces, "  g();")
	}
	braces = append(braces, "}")
	assert.Empty(t, longFunctions(braces))
}

func TestLongFunctionOpenAtEOF(t *testing.T) {
	lines := []string{"func main() {"}
	for i := 0; i < 60; i++ {
		lines = append(lines, "\tstep()")
	}
	assert.Equal(t, []int{1}, longFunctions(lines))
}

func TestDuplicationScore(t *testing.T) {
	assert.Equal(t, 0.17, duplicationScore([]string{"a", "b", "c", "a", "b", "c"}))
	assert.Equal(t, 0.0, duplicationScore([]string{"a", "b"}))
}

func TestAverageLineLengthSkipsComments(t *testing.T) {
	assert.Equal(t, 3.0, averageLineLength([]string{"abc", "# comment here", "", "abc"}))
	assert.Equal(t, 0.0, averageLineLength([]string{""}))
}

func TestSuggestLocationsAreCapped(t *testing.T) {
	var findings []finding
	for i := 1; i <= 7; i++ {
		findings = append(findings, finding{kindLongLine, apimodels.Issue{Line: i}})
	}
	got := suggest(12, 0.5, findings)

	require.Len(t, got, 3)
	assert.Equal(t, "Cyclomatic complexity is 12; split branching logic into smaller functions", got[0])
	assert.Equal(t, "Wrap lines longer than 100 characters (line 1, line 2, line 3, line 4, line 5 and 2 more)", got[1])
	assert.Contains(t, got[2], "duplication score 0.50")
}

func TestAnalyzeRejectsUnsupportedLanguage(t *testing.T) {
	_, err := New(nil, testConfig).Analyze(context.Background(), apimodels.AnalysisRequest{Code: "x", Language: "cobol"})
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestAnalyzeRejectsOversizedCode(t *testing.T) {
	cfg := testConfig
	cfg.MaxCodeBytes = 4
	_, err := New(nil, cfg).Analyze(context.Background(), apimodels.AnalysisRequest{Code: "x = 12345", Language: "python"})
	assert.ErrorIs(t, err, ErrCodeTooLarge)
}

func TestAnalyzeAppendsLLMSuggestions(t *testing.T) {
	provider := &fakeProvider{resp: &llm.Response{
		FunctionCall: &llm.FunctionResponse{
			Name:      tools.ReportSuggestionsName,
			Arguments: `{"suggestions":["add a docstring","validate inputs","log errors"]}`,
		},
		Usage: llm.Usage{TotalTokens: 42},
	}}
	a := New(provider, testConfig)

	result, err := a.Analyze(context.Background(), apimodels.AnalysisRequest{
		Code:     "max_size = 10",
		Language: "python",
		Model:    "gpt-4o",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "gpt-4o", provider.model)
	assert.Equal(t, []string{
		"Name module-level constants in UPPER_CASE",
		"add a docstring",
		"validate inputs",
	}, result.Suggestions, "heuristic suggestions first, model suggestions capped")
	assert.Equal(t, "gpt-4o", result.Metadata.Model)
	assert.Equal(t, int64(42), result.Metadata.TokensUsed)
}

func TestAnalyzeSurvivesLLMFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("boom")}
	result, err := New(provider, testConfig).Analyze(context.Background(), apimodels.AnalysisRequest{
		Code:     "print(1)",
		Language: "python",
		Model:    "gpt-4o",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
	assert.Empty(t, result.Suggestions)
}

func TestAnalyzeWithoutModelSkipsReview(t *testing.T) {
	provider := &fakeProvider{}
	result := analyze(t, New(provider, testConfig), "x = 1", "python")
	assert.Zero(t, provider.calls)
	assert.Empty(t, result.Metadata.Model)
}
