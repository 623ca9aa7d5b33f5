package analyzer

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	longLineWidth   = 100
	indentWidth     = 4
	deepNestingMax  = 4
	longFunctionLen = 50
	duplicateChunk  = 3
)

var commentPrefixes = []string{"#", "//", "/*"}

type lineMetrics struct {
	total   int
	code    int
	comment int
	blank   int
}

func splitLines(code string) []string {
	return strings.Split(code, "\n")
}

func isComment(trimmed string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

func countLines(lines []string) lineMetrics {
	m := lineMetrics{total: len(lines)}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			m.blank++
		case isComment(trimmed):
			m.comment++
		default:
			m.code++
		}
	}
	return m
}

// indentOf returns the leading whitespace width with tabs expanded to indentWidth.
func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += indentWidth
		default:
			return n
		}
	}
	return n
}

func nestingLevel(line string) int {
	return indentOf(line) / indentWidth
}

// maxNestingDepth ignores whitespace-only lines.
func maxNestingDepth(lines []string) int {
	depth := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if lvl := nestingLevel(line); lvl > depth {
			depth = lvl
		}
	}
	return depth
}

func lineWidth(line string) int {
	return runewidth.StringWidth(strings.TrimSpace(line))
}

// longLines returns the 1-based numbers of lines wider than longLineWidth.
func longLines(lines []string) []int {
	var out []int
	for i, line := range lines {
		if lineWidth(line) > longLineWidth {
			out = append(out, i+1)
		}
	}
	return out
}

func averageLineLength(lines []string) float64 {
	total, n := 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isComment(trimmed) {
			continue
		}
		total += runewidth.StringWidth(line)
		n++
	}
	if n == 0 {
		return 0
	}
	return round2(float64(total) / float64(n))
}

// duplicationScore counts repeated 3-line windows relative to the total line count.
func duplicationScore(lines []string) float64 {
	total := len(lines)
	if total < duplicateChunk {
		return 0
	}
	seen := make(map[string]struct{})
	chunks := 0
	for i := 0; i+duplicateChunk <= total; i++ {
		seen[strings.Join(lines[i:i+duplicateChunk], "\n")] = struct{}{}
		chunks++
	}
	return round2(float64(chunks-len(seen)) / float64(total))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
