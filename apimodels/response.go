package apimodels

// AnalysisResult is the JSON body returned by POST /analyze.
// Complexity, Issues and Suggestions form the contract consumed by clients;
// Metrics and Metadata are additive.
type AnalysisResult struct {
	// Cyclomatic complexity of the snippet
	Complexity int `json:"complexity" yaml:"complexity"`

	// Issues in the order they were detected
	Issues []Issue `json:"issues" yaml:"issues"`

	// Suggestions in the order they were produced
	Suggestions []string `json:"suggestions" yaml:"suggestions"`

	Metrics  *Metrics          `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Metadata *AnalysisMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type Issue struct {
	Line    int    `json:"line" yaml:"line"`
	Message string `json:"message" yaml:"message"`
}

type Metrics struct {
	TotalLines   int `json:"totalLines" yaml:"totalLines"`
	CodeLines    int `json:"codeLines" yaml:"codeLines"`
	CommentLines int `json:"commentLines" yaml:"commentLines"`
	BlankLines   int `json:"blankLines" yaml:"blankLines"`
	NestingDepth int `json:"nestingDepth" yaml:"nestingDepth"`

	// Nil when the language has no AST support or the code did not parse
	FunctionCount *int `json:"functionCount,omitempty" yaml:"functionCount,omitempty"`
	ClassCount    *int `json:"classCount,omitempty" yaml:"classCount,omitempty"`

	AverageLineLength float64 `json:"averageLineLength" yaml:"averageLineLength"`
	LongLines         int     `json:"longLines" yaml:"longLines"`

	// Duplicated 3-line chunks over total lines, 0-1 scale
	DuplicationScore float64 `json:"duplicationScore" yaml:"duplicationScore"`
}

type AnalysisMetadata struct {
	ID       string `json:"id" yaml:"id"`
	Language string `json:"language" yaml:"language"`

	// Model used for the LLM review, empty when none ran
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Time taken for analysis
	Duration string `json:"duration" yaml:"duration"`

	// Whether the complexity came from a syntax tree or the keyword scan
	Parser string `json:"parser" yaml:"parser"`

	TokensUsed int64 `json:"tokensUsed,omitempty" yaml:"tokensUsed,omitempty"`
}
