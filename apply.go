package main

import (
	"github.com/spf13/cobra"

	"github.com/tacit-code/skills/internal/adaptors"
	"github.com/tacit-code/skills/internal/artifact"
	"github.com/tacit-code/skills/internal/license"
	"github.com/tacit-code/skills/internal/terminal"
)

type applyOptions struct {
	entityName      string
	secondaryEntity string
	tier            string
	interactive     bool
}

func (a *app) applyCmd() *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply [skill-dir]",
		Short: "Write a protective license into a skill directory",
		Long: `Renders the selected license tier, writes LICENSE.txt (and, for the maximum
tier, .forensic_metadata.json) into the skill directory and sets the license field
of SKILL.md. The directory defaults to the current one.`,
		Example: `  skillguard apply ./skills/pdf -n "Acme Corp" -t corporation -j California
  skillguard apply ./skills/pdf -n "Dr. Ray" -t medical_corporation -j California \
      --secondary-entity "Ray Labs LLC" --contact-email legal@ray.test --tier maximum
  skillguard apply ./skills/pdf --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return a.runApply(dir, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.entityName, "entity-name", "n", "", "Copyright holder name")
	flags.StringP("entity-type", "t", "", "Entity type: individual, corporation, llc, medical_corporation")
	flags.StringP("jurisdiction", "j", "", "Governing jurisdiction, e.g. California")
	flags.StringVar(&opts.secondaryEntity, "secondary-entity", "", "Joint owner; switches the license to joint ownership")
	flags.String("contact-name", "", "Contact name for permission requests")
	flags.String("contact-email", "", "Contact email for permission requests")
	flags.String("county", "", "Forum county for the maximum tier")
	flags.StringVar(&opts.tier, "tier", "standard", "License tier: standard, maximum")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for missing required fields")

	return cmd
}

func (a *app) runApply(dir string, opts applyOptions) error {
	tier, err := license.ParseTier(opts.tier)
	if err != nil {
		return err
	}

	defaults := a.settings.Defaults
	req := license.Request{
		EntityName:      opts.entityName,
		Jurisdiction:    defaults.Jurisdiction,
		SecondaryEntity: opts.secondaryEntity,
		ContactName:     defaults.ContactName,
		ContactEmail:    defaults.ContactEmail,
		County:          defaults.County,
	}
	if defaults.EntityType != "" {
		if req.EntityType, err = license.ParseEntityType(defaults.EntityType); err != nil {
			return err
		}
	}

	if opts.interactive {
		if req, err = adaptors.RunRequestForm(req, a.in, a.out); err != nil {
			return err
		}
	}

	rendererOpts, err := a.settings.RendererOptions()
	if err != nil {
		return err
	}

	writer := artifact.NewWriter(
		artifact.WithRenderer(license.NewRenderer(rendererOpts...)),
		artifact.WithLogger(a.logger),
	)

	res, err := writer.Apply(dir, req, tier)
	if err != nil {
		return err
	}

	terminal.PrintApply(a.out, res)
	return nil
}
