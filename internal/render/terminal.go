package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/sozercan/codelens/apimodels"
	"github.com/sozercan/codelens/internal/theme"
)

const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

type palette struct {
	border  lipgloss.Color
	title   lipgloss.Color
	text    lipgloss.Color
	muted   lipgloss.Color
	warning lipgloss.Color
}

var palettes = map[theme.Mode]palette{
	theme.ModeDark: {
		border:  lipgloss.Color("6"),
		title:   lipgloss.Color("15"),
		text:    lipgloss.Color("7"),
		muted:   lipgloss.Color("8"),
		warning: lipgloss.Color("11"),
	},
	theme.ModeLight: {
		border:  lipgloss.Color("4"),
		title:   lipgloss.Color("0"),
		text:    lipgloss.Color("0"),
		muted:   lipgloss.Color("8"),
		warning: lipgloss.Color("1"),
	},
}

func paletteFor(mode theme.Mode) palette {
	if p, ok := palettes[mode]; ok {
		return p
	}
	return palettes[theme.ModeLight]
}

// Terminal writes result to w in the given format. The human format draws the
// same three cards as the page, colored for the resolved theme mode.
func Terminal(w io.Writer, result *apimodels.AnalysisResult, format string, mode theme.Mode) error {
	if result == nil {
		return ErrNoResult
	}

	switch format {
	case FormatJSON:
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(output))
		return err
	case FormatYAML:
		output, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(output))
		return err
	case FormatHuman, "":
		_, err := fmt.Fprintln(w, humanCards(result, paletteFor(mode)))
		return err
	default:
		return fmt.Errorf("unknown output format %q (human, json, yaml)", format)
	}
}

func humanCards(result *apimodels.AnalysisResult, p palette) string {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Padding(0, 1).
		Width(78)
	title := lipgloss.NewStyle().Bold(true).Foreground(p.title)
	text := lipgloss.NewStyle().Foreground(p.text)
	muted := lipgloss.NewStyle().Foreground(p.muted)
	line := lipgloss.NewStyle().Bold(true).Foreground(p.warning)

	complexity := title.Render("Code Complexity") + "\n" +
		text.Render(fmt.Sprintf("Cyclomatic Complexity: %d", result.Complexity))

	var issues strings.Builder
	issues.WriteString(title.Render("Issues Found"))
	if len(result.Issues) == 0 {
		issues.WriteString("\n" + muted.Render("none"))
	}
	for _, issue := range result.Issues {
		issues.WriteString("\n" + line.Render(fmt.Sprintf("Line %d:", issue.Line)) + " " + text.Render(issue.Message))
	}

	var suggestions strings.Builder
	suggestions.WriteString(title.Render("Suggestions"))
	if len(result.Suggestions) == 0 {
		suggestions.WriteString("\n" + muted.Render("none"))
	}
	for i, s := range result.Suggestions {
		suggestions.WriteString("\n" + text.Render(fmt.Sprintf("%d. %s", i+1, s)))
	}

	cards := []string{
		card.Render(complexity),
		card.Render(issues.String()),
		card.Render(suggestions.String()),
	}
	if md := result.Metadata; md != nil {
		footer := fmt.Sprintf("%s · %s · %s", md.Language, md.Parser, md.Duration)
		if md.Model != "" {
			footer += " · " + md.Model
		}
		cards = append(cards, muted.Render(footer))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// TerminalError prints the error card for the terminal.
func TerminalError(w io.Writer, detail string, mode theme.Mode) {
	p := paletteFor(mode)
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("1")).
		Padding(0, 1).
		Width(78)

	body := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")).Render("Error") + "\n" +
		lipgloss.NewStyle().Foreground(p.text).Render(GenericErrorMessage)
	if detail != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(p.muted).Render(detail)
	}
	fmt.Fprintln(w, card.Render(body))
}

// Success prints a green status line.
func Success(w io.Writer, msg string) {
	color.New(color.FgGreen).Fprintf(w, "✓ %s\n", msg)
}

// Failure prints a red status line.
func Failure(w io.Writer, msg string) {
	color.New(color.FgRed).Fprintf(w, "✗ %s\n", msg)
}
