package analyzer

import "fmt"

const (
	highComplexity     = 10
	highDuplication    = 0.1
	maxListedLocations = 5
)

// suggest derives advice from the heuristic findings in a fixed order so identical
// input always yields identical output.
func suggest(complexity int, duplication float64, findings []finding) []string {
	byKind := make(map[issueKind][]int)
	for _, f := range findings {
		byKind[f.kind] = append(byKind[f.kind], f.issue.Line)
	}

	var out []string
	if complexity > highComplexity {
		out = append(out, fmt.Sprintf("Cyclomatic complexity is %d; split branching logic into smaller functions", complexity))
	}
	if lines := byKind[kindLongFunction]; len(lines) > 0 {
		out = append(out, fmt.Sprintf("Break long functions into smaller units (%s)", locations(lines)))
	}
	if lines := byKind[kindDeepNesting]; len(lines) > 0 {
		out = append(out, fmt.Sprintf("Reduce nesting with early returns or extracted helpers (%s)", locations(lines)))
	}
	if lines := byKind[kindLongLine]; len(lines) > 0 {
		out = append(out, fmt.Sprintf("Wrap lines longer than %d characters (%s)", longLineWidth, locations(lines)))
	}
	if len(byKind[kindCamelCase]) > 0 {
		out = append(out, "Use snake_case for variable and function names")
	}
	if len(byKind[kindLowercaseConstant]) > 0 {
		out = append(out, "Name module-level constants in UPPER_CASE")
	}
	if duplication > highDuplication {
		out = append(out, fmt.Sprintf("Extract repeated blocks into shared functions (duplication score %.2f)", duplication))
	}
	return out
}

func locations(lines []int) string {
	s := ""
	for i, ln := range lines {
		if i == maxListedLocations {
			return s + fmt.Sprintf(" and %d more", len(lines)-maxListedLocations)
		}
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("line %d", ln)
	}
	return s
}
