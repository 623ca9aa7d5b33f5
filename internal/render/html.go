// Package render turns analysis results into HTML fragments for the page and
// styled text for the terminal.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/sozercan/codelens/apimodels"
)

// GenericErrorMessage is shown on every error card.
const GenericErrorMessage = "An error occurred while analyzing the code. Please try again."

var ErrNoResult = errors.New("no analysis result to render")

var resultsTmpl = template.Must(template.New("results").Parse(`<div class="analysis-card">
    <h3>Code Complexity</h3>
    <p>Cyclomatic Complexity: {{.Complexity}}</p>
</div>
<div class="analysis-card">
    <h3>Issues Found</h3>
    <ul>
{{- range .Issues}}
        <li><strong>Line {{.Line}}:</strong> {{.Message}}</li>
{{- end}}
    </ul>
</div>
<div class="analysis-card">
    <h3>Suggestions</h3>
    <ul>
{{- range .Suggestions}}
        <li>{{.}}</li>
{{- end}}
    </ul>
</div>
`))

var errorTmpl = template.Must(template.New("error").Parse(`<div class="error-card">
    <h3>Error</h3>
    <p>{{.Message}}</p>
{{- if .Detail}}
    <p class="error-detail">{{.Detail}}</p>
{{- end}}
</div>
`))

// Results writes the three result cards (complexity, issues, suggestions) to w.
// Issues and suggestions keep their order; all text is escaped.
func Results(w io.Writer, result *apimodels.AnalysisResult) error {
	if result == nil {
		return ErrNoResult
	}
	if err := resultsTmpl.Execute(w, result); err != nil {
		return fmt.Errorf("rendering results: %w", err)
	}
	return nil
}

// ResultsHTML renders the result cards into a string. Nothing is returned on
// error, so a partial fragment never reaches the page.
func ResultsHTML(result *apimodels.AnalysisResult) (template.HTML, error) {
	var buf bytes.Buffer
	if err := Results(&buf, result); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// ErrorCard renders the single error card, with an optional detail line.
func ErrorCard(detail string) template.HTML {
	var buf bytes.Buffer
	data := struct{ Message, Detail string }{GenericErrorMessage, detail}
	if err := errorTmpl.Execute(&buf, data); err != nil {
		// the template only prints two strings
		panic(err)
	}
	return template.HTML(buf.String())
}
