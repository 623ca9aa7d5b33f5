package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sozercan/codelens/internal/client"
	"github.com/sozercan/codelens/internal/render"
	"github.com/sozercan/codelens/internal/theme"
	"github.com/sozercan/codelens/internal/workflow"
)

var extensionLanguages = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".mjs":  "javascript",
	".ts":   "typescript",
	".go":   "go",
	".java": "java",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".hpp":  "cpp",
	".cs":   "csharp",
	".rb":   "ruby",
	".php":  "php",
	".rs":   "rust",
}

func languageFromPath(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}

func newAnalyzeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze a source file",
		Long: `Send a source file to a codelens server and print the analysis.

Examples:
  # Analyze a Python file against a local server
  codelens analyze main.py

  # Read from stdin and pick the language explicitly
  cat main.go | codelens analyze - --language go

  # Ask a model for extra suggestions and print JSON
  codelens analyze app.ts --model gpt-4o -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, v, args[0])
		},
	}

	cmd.Flags().StringP("language", "l", "", "Language (default: inferred from the file extension)")
	cmd.Flags().String("server", "http://localhost:8000", "codelens server URL")
	cmd.Flags().StringP("model", "m", "", "Model for additional suggestions")
	cmd.Flags().Duration("timeout", workflow.DefaultTimeout, "Give up waiting for the server after this long")
	cmd.Flags().StringP("output", "o", render.FormatHuman, "Output format (human, json, yaml)")
	for _, name := range []string{"language", "server", "model", "timeout", "output"} {
		_ = v.BindPFlag(name, cmd.Flags().Lookup(name))
	}

	return cmd
}

func runAnalyze(cmd *cobra.Command, v *viper.Viper, path string) error {
	code, err := readSource(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	language := v.GetString("language")
	if language == "" {
		language = languageFromPath(path)
	}
	if language == "" {
		return fmt.Errorf("cannot infer the language of %q, pass --language", path)
	}

	format := v.GetString("output")
	switch format {
	case render.FormatHuman, render.FormatJSON, render.FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q (human, json, yaml)", format)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	view := newTerminalView(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, effectiveMode(ctx, v))
	wf := workflow.New(client.New(v.GetString("server")), view, workflow.WithTimeout(v.GetDuration("timeout")))

	state, err := wf.Submit(ctx, workflow.Form{
		Code:     code,
		Language: language,
		Model:    v.GetString("model"),
	})
	if err != nil {
		return err
	}
	if view.err != nil {
		return view.err
	}
	if state.Failure != nil {
		return fmt.Errorf("analysis failed (%s)", state.Failure.Kind)
	}
	return nil
}

func readSource(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading source: %w", err)
	}
	return string(data), nil
}

// terminalView shows the busy state as a spinner on stderr and prints the
// outcome once the workflow settles.
type terminalView struct {
	out     io.Writer
	errOut  io.Writer
	format  string
	mode    theme.Mode
	spinner *spinner.Spinner

	err error
}

func newTerminalView(out, errOut io.Writer, format string, mode theme.Mode) *terminalView {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(errOut))
	s.Suffix = " " + workflow.LabelSubmitting
	return &terminalView{
		out:     out,
		errOut:  errOut,
		format:  format,
		mode:    mode,
		spinner: s,
	}
}

func (v *terminalView) Apply(s workflow.UIState) {
	if s.BusyVisible {
		v.spinner.Start()
		return
	}
	v.spinner.Stop()

	switch s.Phase {
	case workflow.PhaseRendered:
		if v.format == render.FormatHuman {
			render.Success(v.errOut, "Analysis complete")
		}
		v.err = render.Terminal(v.out, s.Result, v.format, v.mode)
	case workflow.PhaseErrorRendered:
		render.Failure(v.errOut, "Analysis failed")
		render.TerminalError(v.errOut, s.Failure.Detail(), v.mode)
	}
}
