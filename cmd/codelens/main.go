package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	rootCmd := newRootCmd(viper.New())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd wires every subcommand to v. Flags are bound into v so each one
// can also be set as CODELENS_<FLAG>.
func newRootCmd(v *viper.Viper) *cobra.Command {
	v.SetEnvPrefix("codelens")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "codelens",
		Short: "Heuristic code analysis from the terminal",
		Long: `codelens sends source files to a codelens server and shows the
complexity, issues and suggestions it finds.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().String("theme-db", "", "Path to the preferences database (default: user config dir)")
	_ = v.BindPFlag("theme-db", rootCmd.PersistentFlags().Lookup("theme-db"))

	rootCmd.AddCommand(
		newAnalyzeCmd(v),
		newThemeCmd(v),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "codelens version %s\n", version)
		},
	}
}
