package theme

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// TerminalSource samples the terminal background color. Terminals do not push
// change events, so Watch polls.
type TerminalSource struct {
	Interval time.Duration
	Detect   func() bool
}

// NewTerminalSource detects dark mode from the terminal background via lipgloss.
func NewTerminalSource(interval time.Duration) *TerminalSource {
	return &TerminalSource{
		Interval: interval,
		Detect:   lipgloss.HasDarkBackground,
	}
}

func (s *TerminalSource) IsDark() bool {
	return s.Detect()
}

func (s *TerminalSource) Watch(ctx context.Context, fn func(dark bool)) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	last := s.Detect()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dark := s.Detect(); dark != last {
				last = dark
				fn(dark)
			}
		}
	}
}

// FixedSource never changes. Used when the system setting cannot be observed.
type FixedSource bool

func (s FixedSource) IsDark() bool { return bool(s) }

func (s FixedSource) Watch(ctx context.Context, fn func(dark bool)) {
	<-ctx.Done()
}
