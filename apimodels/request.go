package apimodels

// AnalysisRequest is the body of POST /analyze.
type AnalysisRequest struct {
	// Code is the source text to analyze. Empty code is accepted.
	Code string `json:"code"`

	// Language is one of the identifiers returned by SupportedLanguages
	Language string `json:"language"`

	// Model optionally selects an LLM model for additional suggestions
	Model string `json:"model,omitempty"`
}

var supportedLanguages = []string{
	"python",
	"javascript",
	"typescript",
	"go",
	"java",
	"c",
	"cpp",
	"csharp",
	"ruby",
	"php",
	"rust",
}

// SupportedLanguages returns the fixed list of language identifiers in display order.
func SupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// IsSupportedLanguage reports whether lang is in the fixed language list.
func IsSupportedLanguage(lang string) bool {
	for _, l := range supportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
