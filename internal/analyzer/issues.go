package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sozercan/codelens/apimodels"
)

type issueKind int

const (
	kindLongFunction issueKind = iota
	kindDeepNesting
	kindLongLine
	kindCamelCase
	kindLowercaseConstant
)

type finding struct {
	kind  issueKind
	issue apimodels.Issue
}

var functionPrefixes = []string{"def ", "async def ", "function ", "async function ", "func "}

func isFunctionStart(trimmed string) bool {
	for _, p := range functionPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// longFunctions returns the 1-based start lines of functions spanning more than
// longFunctionLen lines. A function ends at the next non-blank line indented no
// deeper than its header (closing braces excepted), or at end of input.
func longFunctions(lines []string) []int {
	var out []int
	start, depth := 0, 0
	closeAt := func(i int) {
		if start != 0 && i-start > longFunctionLen {
			out = append(out, start)
		}
		start = 0
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if start != 0 && indentOf(line) <= depth && !isClosingBrace(trimmed) {
			closeAt(i)
		}
		// nested functions count toward the enclosing one
		if start == 0 && isFunctionStart(trimmed) {
			start = i + 1
			depth = indentOf(line)
		}
	}
	closeAt(len(lines))
	return out
}

func isClosingBrace(trimmed string) bool {
	return strings.HasPrefix(trimmed, "}")
}

func deepNesting(lines []string) []int {
	var out []int
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if nestingLevel(line) > deepNestingMax {
			out = append(out, i+1)
		}
	}
	return out
}

var (
	camelCaseName     = regexp.MustCompile(`\b[a-z]+[A-Z][a-zA-Z]*\b`)
	lowercaseConstant = regexp.MustCompile(`^([a-z_]+)\s*=\s*[0-9]+\b`)
)

// namingFindings applies python naming conventions: snake_case names and
// UPPER_CASE module constants. Other languages have no naming checks.
func namingFindings(lines []string, language string) []finding {
	if language != "python" {
		return nil
	}
	var out []finding
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isComment(trimmed) {
			continue
		}
		for _, name := range camelCaseName.FindAllString(line, -1) {
			out = append(out, finding{kindCamelCase, apimodels.Issue{
				Line:    i + 1,
				Message: fmt.Sprintf("camelCase name %q (prefer snake_case)", name),
			}})
		}
		if indentOf(line) == 0 {
			if m := lowercaseConstant.FindStringSubmatch(trimmed); m != nil {
				out = append(out, finding{kindLowercaseConstant, apimodels.Issue{
					Line:    i + 1,
					Message: fmt.Sprintf("constant %q should be UPPER_CASE", m[1]),
				}})
			}
		}
	}
	return out
}

// findIssues reports issues grouped by kind: long functions, deep nesting, long
// lines, then naming. Within a kind, issues follow line order.
func findIssues(lines []string, language string) []finding {
	var out []finding
	for _, ln := range longFunctions(lines) {
		out = append(out, finding{kindLongFunction, apimodels.Issue{
			Line:    ln,
			Message: fmt.Sprintf("Function longer than %d lines", longFunctionLen),
		}})
	}
	for _, ln := range deepNesting(lines) {
		out = append(out, finding{kindDeepNesting, apimodels.Issue{
			Line:    ln,
			Message: fmt.Sprintf("Deep nesting (level %d, more than %d)", nestingLevel(lines[ln-1]), deepNestingMax),
		}})
	}
	for _, ln := range longLines(lines) {
		out = append(out, finding{kindLongLine, apimodels.Issue{
			Line:    ln,
			Message: fmt.Sprintf("Line longer than %d characters (%d)", longLineWidth, lineWidth(lines[ln-1])),
		}})
	}
	return append(out, namingFindings(lines, language)...)
}
