// Package workflow drives one submit gesture through a single analyze call
// and a single rendered outcome. All display state lives in UIState and
// reaches the screen only through View.Apply.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"github.com/sozercan/codelens/apimodels"
	"github.com/sozercan/codelens/internal/client"
	"github.com/sozercan/codelens/internal/render"
)

const (
	LabelIdle       = "Analyze Code"
	LabelSubmitting = "Analyzing..."

	DefaultTimeout = 30 * time.Second
)

// ErrInFlight is returned when Submit is called while a request is pending.
var ErrInFlight = errors.New("an analysis is already in progress")

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseRendered
	PhaseErrorRendered
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseRendered:
		return "rendered"
	case PhaseErrorRendered:
		return "error-rendered"
	default:
		return "unknown"
	}
}

// UIState is everything the page shows for the form and its output.
// ButtonDisabled is true exactly while a request is in flight.
type UIState struct {
	Phase          Phase
	ButtonLabel    string
	ButtonDisabled bool
	BusyVisible    bool
	OutputVisible  bool

	// Content is the rendered results or error card.
	Content template.HTML

	// Result is set in PhaseRendered, Failure in PhaseErrorRendered.
	Result  *apimodels.AnalysisResult
	Failure *Failure
}

func idleState() UIState {
	return UIState{
		Phase:       PhaseIdle,
		ButtonLabel: LabelIdle,
	}
}

// View receives every state change. Apply is called from the goroutine running Submit.
type View interface {
	Apply(UIState)
}

type ViewFunc func(UIState)

func (f ViewFunc) Apply(s UIState) { f(s) }

// Analyzer performs the network call. *client.Client implements it.
type Analyzer interface {
	Analyze(ctx context.Context, req apimodels.AnalysisRequest) (*apimodels.AnalysisResult, error)
}

// Form holds the values read from the input fields. They are forwarded unchanged.
type Form struct {
	Code     string
	Language string
	Model    string
}

type Workflow struct {
	analyzer Analyzer
	view     View
	timeout  time.Duration

	mu    sync.Mutex
	state UIState
}

type Option func(*Workflow)

// WithTimeout bounds each network call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(w *Workflow) {
		if d > 0 {
			w.timeout = d
		}
	}
}

func New(analyzer Analyzer, view View, opts ...Option) *Workflow {
	w := &Workflow{
		analyzer: analyzer,
		view:     view,
		timeout:  DefaultTimeout,
		state:    idleState(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns a copy of the current UI state.
func (w *Workflow) State() UIState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Submit runs one submission. It returns ErrInFlight if another submission has
// not finished; every other outcome, failures included, is reported through
// the view and the returned state, never as an error. The control is restored
// on every exit path, including a panic in the view or renderer.
func (w *Workflow) Submit(ctx context.Context, form Form) (UIState, error) {
	busy, err := w.begin()
	if err != nil {
		return UIState{}, err
	}

	outcome := busy
	outcome.Phase = PhaseErrorRendered
	outcome.OutputVisible = true
	outcome.Failure = &Failure{Kind: FailureRender}
	outcome.Content = render.ErrorCard(outcome.Failure.Detail())

	defer w.finish(&outcome)

	w.view.Apply(busy)

	outcome = w.run(ctx, form, busy)
	return w.finalState(outcome), nil
}

func (w *Workflow) begin() (UIState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.ButtonDisabled {
		return UIState{}, ErrInFlight
	}

	w.state.Phase = PhaseSubmitting
	w.state.ButtonDisabled = true
	w.state.ButtonLabel = LabelSubmitting
	w.state.BusyVisible = true
	return w.state, nil
}

// run performs the call and renders; it does not touch w.state.
func (w *Workflow) run(ctx context.Context, form Form, busy UIState) UIState {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req := apimodels.AnalysisRequest{
		Code:     form.Code,
		Language: form.Language,
		Model:    form.Model,
	}

	out := busy
	out.OutputVisible = true

	result, err := w.analyzer.Analyze(ctx, req)
	if err != nil {
		f := classify(err)
		slog.Warn("Analysis request failed", "kind", f.Kind, "error", err)
		return failed(out, f)
	}

	content, err := render.ResultsHTML(result)
	if err != nil {
		slog.Warn("Rendering analysis result failed", "error", err)
		return failed(out, &Failure{Kind: FailureRender, Err: err})
	}

	out.Phase = PhaseRendered
	out.Content = content
	out.Result = result
	out.Failure = nil
	return out
}

func failed(s UIState, f *Failure) UIState {
	s.Phase = PhaseErrorRendered
	s.Content = render.ErrorCard(f.Detail())
	s.Result = nil
	s.Failure = f
	return s
}

func (w *Workflow) finalState(s UIState) UIState {
	s.ButtonLabel = LabelIdle
	s.ButtonDisabled = false
	s.BusyVisible = false
	return s
}

// finish commits outcome and pushes it to the view. A panic still in flight is
// re-raised after the control has been restored.
func (w *Workflow) finish(outcome *UIState) {
	r := recover()

	final := w.finalState(*outcome)
	w.mu.Lock()
	w.state = final
	w.mu.Unlock()

	if r != nil {
		slog.Error("Submission panicked", "panic", r)
		w.applySafely(final)
		panic(r)
	}
	w.view.Apply(final)
}

// applySafely pushes s while a panic is already unwinding, so a view that
// keeps failing cannot mask the original panic.
func (w *Workflow) applySafely(s UIState) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("View failed while restoring state", "panic", r)
		}
	}()
	w.view.Apply(s)
}

// FailureKind tells the user what went wrong in a few words.
type FailureKind int

const (
	FailureNetwork FailureKind = iota
	FailureTimeout
	FailureStatus
	FailureDecode
	FailureRender
)

func (k FailureKind) String() string {
	switch k {
	case FailureNetwork:
		return "network"
	case FailureTimeout:
		return "timeout"
	case FailureStatus:
		return "status"
	case FailureDecode:
		return "decode"
	case FailureRender:
		return "render"
	default:
		return "unknown"
	}
}

type Failure struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

// Detail is the kind-specific line shown under the generic message.
func (f *Failure) Detail() string {
	switch f.Kind {
	case FailureNetwork:
		return "Could not reach the analysis server."
	case FailureTimeout:
		return "The analysis server did not respond in time."
	case FailureStatus:
		return fmt.Sprintf("The analysis server returned status %d.", f.StatusCode)
	case FailureDecode:
		return "The analysis server returned an invalid response."
	default:
		return "The analysis result could not be displayed."
	}
}

func classify(err error) *Failure {
	var cerr *client.Error
	if errors.As(err, &cerr) {
		f := &Failure{StatusCode: cerr.StatusCode, Err: err}
		switch cerr.Kind {
		case client.KindTimeout:
			f.Kind = FailureTimeout
		case client.KindStatus:
			f.Kind = FailureStatus
		case client.KindDecode:
			f.Kind = FailureDecode
		default:
			f.Kind = FailureNetwork
		}
		return f
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Kind: FailureTimeout, Err: err}
	}
	return &Failure{Kind: FailureNetwork, Err: err}
}
