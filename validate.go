package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tacit-code/skills/internal/skills"
	"github.com/tacit-code/skills/internal/terminal"
	"github.com/tacit-code/skills/internal/validate"
)

type validateOptions struct {
	tier     string
	jsonMode bool
}

func (a *app) validateCmd() *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate [skill-dir|pattern]...",
		Short: "Check license artifacts of one or more skill directories",
		Long: `Evaluates the rules of the selected tier against LICENSE.txt, SKILL.md and, for
the maximum tier, .forensic_metadata.json. Arguments may be directories or glob
patterns such as "skills/*" or "skills/**". Exits 1 if any directory fails.`,
		Example: `  skillguard validate ./skills/pdf
  skillguard validate "skills/*" --tier ai-prohibition
  skillguard validate "skills/**" --tier maximum --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return a.runValidate(args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.tier, "tier", "basic", "Rule tier: basic, ai-prohibition, maximum")
	flags.BoolVar(&opts.jsonMode, "json", false, "Print full reports as JSON")
	flags.Int("max-failures", 5, "Failure messages shown per directory (0 shows all)")

	return cmd
}

func (a *app) runValidate(patterns []string, opts validateOptions) error {
	tier, err := validate.ParseTier(opts.tier)
	if err != nil {
		return err
	}

	dirs, err := skills.Resolve(patterns)
	if err != nil {
		return err
	}

	engine, err := validate.NewEngine(validate.WithLogger(a.logger))
	if err != nil {
		return err
	}

	reports := make([]*validate.Report, 0, len(dirs))
	failed := false
	for _, dir := range dirs {
		report, err := engine.Validate(dir, tier)
		if err != nil {
			a.logger.Debug("directory not validated", zap.String("dir", dir), zap.Error(err))
			fmt.Fprintln(a.errOut, "Error:", err)
			failed = true
			continue
		}
		if !report.Passed() {
			failed = true
		}
		reports = append(reports, report)
	}

	if opts.jsonMode {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode reports: %w", err)
		}
		fmt.Fprintln(a.out, string(data))
	} else {
		for i, report := range reports {
			if i > 0 {
				fmt.Fprintln(a.out)
			}
			terminal.PrintReport(a.out, report, a.settings.Report.MaxFailures)
		}
	}

	if failed {
		return errFailed
	}
	return nil
}
