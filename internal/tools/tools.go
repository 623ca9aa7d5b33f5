package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

// ReportSuggestionsName is the function the review model calls to hand back its suggestions.
const ReportSuggestionsName = "report_suggestions"

// Specs lists the functions offered to the LLM during a code review.
var Specs = []openai.ChatCompletionToolParam{
	{
		Type: openai.F(openai.ChatCompletionToolTypeFunction),
		Function: openai.F(openai.FunctionDefinitionParam{
			Name:        openai.String(ReportSuggestionsName),
			Description: openai.String("Report concrete, actionable suggestions for improving the reviewed code"),
			Parameters: openai.F(openai.FunctionParameters{
				"type": "object",
				"properties": map[string]interface{}{
					"suggestions": map[string]interface{}{
						"type":        "array",
						"description": "One suggestion per entry, most important first",
						"items": map[string]string{
							"type": "string",
						},
					},
				},
				"required": []string{"suggestions"},
			}),
		}),
	},
}

type reportSuggestionsArgs struct {
	Suggestions []string `json:"suggestions"`
}

// ParseSuggestions decodes the arguments of a report_suggestions call.
// Blank entries are dropped and surrounding whitespace trimmed.
func ParseSuggestions(arguments string) ([]string, error) {
	var args reportSuggestionsArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return nil, fmt.Errorf("invalid %s arguments: %w", ReportSuggestionsName, err)
	}
	return cleanLines(args.Suggestions), nil
}

// SuggestionsFromText extracts bullet or numbered lines from a free-form reply,
// for models that answer in prose instead of calling the function.
func SuggestionsFromText(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			out = append(out, line[2:])
		case len(line) > 2 && line[0] >= '0' && line[0] <= '9' && (line[1] == '.' || line[1] == ')'):
			out = append(out, line[2:])
		}
	}
	return cleanLines(out)
}

func cleanLines(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
