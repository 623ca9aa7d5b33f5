package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sozercan/codelens/internal/store"
	"github.com/sozercan/codelens/internal/theme"
)

// newSystemSource is replaced in tests.
var newSystemSource = func() theme.SystemSource {
	return theme.NewTerminalSource(2 * time.Second)
}

func openPreferences(v *viper.Viper) (*store.DB, error) {
	path := v.GetString("theme-db")
	if path == "" {
		var err error
		if path, err = store.DefaultPath(); err != nil {
			return nil, err
		}
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening preferences: %w", err)
	}
	return db, nil
}

// withThemeManager opens the preference store and hands fn a manager backed by it.
func withThemeManager(ctx context.Context, v *viper.Viper, fn func(*theme.Manager) error) error {
	db, err := openPreferences(v)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := theme.NewManager(ctx, db, newSystemSource())
	if err != nil {
		return err
	}
	return fn(m)
}

// effectiveMode is best effort: analysis output still works without a
// readable preference store.
func effectiveMode(ctx context.Context, v *viper.Viper) theme.Mode {
	var mode theme.Mode
	err := withThemeManager(ctx, v, func(m *theme.Manager) error {
		mode = m.Effective()
		return nil
	})
	if err != nil {
		slog.Debug("Using system theme", "error", err)
		return theme.Resolve(theme.System, newSystemSource().IsDark())
	}
	return mode
}

func newThemeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the color theme (light, dark, system)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the stored preference and the effective mode",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withThemeManager(cmd.Context(), v, func(m *theme.Manager) error {
					printTheme(cmd, m)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:       "set PREFERENCE",
			Short:     "Store a preference",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{string(theme.Light), string(theme.Dark), string(theme.System)},
			RunE: func(cmd *cobra.Command, args []string) error {
				pref, err := theme.ParsePreference(args[0])
				if err != nil {
					return err
				}
				return withThemeManager(cmd.Context(), v, func(m *theme.Manager) error {
					if err := m.Set(cmd.Context(), pref); err != nil {
						return err
					}
					printTheme(cmd, m)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "cycle",
			Short: "Advance light -> dark -> system",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withThemeManager(cmd.Context(), v, func(m *theme.Manager) error {
					if _, err := m.Cycle(cmd.Context()); err != nil {
						return err
					}
					printTheme(cmd, m)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Print the effective mode whenever it changes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				return withThemeManager(ctx, v, func(m *theme.Manager) error {
					printTheme(cmd, m)
					m.OnChange(func(mode theme.Mode) {
						fmt.Fprintf(cmd.OutOrStdout(), "effective: %s\n", mode)
					})
					m.Watch(ctx)
					return nil
				})
			},
		},
	)

	return cmd
}

func printTheme(cmd *cobra.Command, m *theme.Manager) {
	fmt.Fprintf(cmd.OutOrStdout(), "preference: %s\neffective: %s\n", m.Preference(), m.Effective())
}
