package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tacit-code/skills/internal/config"
	"github.com/tacit-code/skills/internal/logging"
)

// errFailed signals a completed run with a negative result; its details have
// already been printed
var errFailed = errors.New("failed")

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configFile string
	settings   *config.Settings
	logger     *zap.Logger
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "skillguard",
		Short: "Apply and validate protective licenses for skill directories",
		Long: `skillguard writes a protective LICENSE.txt into a skill directory (a directory
with a SKILL.md descriptor), references it from the descriptor's front matter and,
for the maximum tier, writes a forensic metadata sidecar. It also checks existing
license artifacts against the basic, ai-prohibition or maximum rule tiers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(a.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.settings = settings

			logger, err := logging.New(settings.Log.Level, settings.Log.Format)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (default ./skillguard.yaml or ~/.config/skillguard/skillguard.yaml)")
	root.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "console", "Log format: console, json")

	root.AddCommand(a.applyCmd(), a.validateCmd(), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "skillguard version %s\n", config.Version)
			return nil
		},
	}
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
