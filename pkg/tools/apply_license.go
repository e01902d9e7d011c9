package tools

import (
	"context"
	"fmt"
	"strings"

	"charm.land/fantasy"

	"github.com/tacit-code/skills/internal/artifact"
	"github.com/tacit-code/skills/internal/license"
)

// ApplyLicenseInput represents the input for the apply_license tool
type ApplyLicenseInput struct {
	Dir             string `json:"dir" description:"The skill directory containing SKILL.md"`
	EntityName      string `json:"entity_name" description:"The copyright holder"`
	EntityType      string `json:"entity_type" description:"One of individual, corporation, llc, medical_corporation"`
	Jurisdiction    string `json:"jurisdiction" description:"The governing jurisdiction, e.g. California"`
	Tier            string `json:"tier,omitempty" description:"standard (default) or maximum"`
	SecondaryEntity string `json:"secondary_entity,omitempty" description:"A joint owner, if any"`
	ContactName     string `json:"contact_name,omitempty" description:"Contact for permission requests"`
	ContactEmail    string `json:"contact_email,omitempty" description:"Email for permission requests"`
	County          string `json:"county,omitempty" description:"Forum county for the maximum tier"`
}

// NewApplyLicenseTool creates a tool that writes a protective license into a
// skill directory
func NewApplyLicenseTool(writer *artifact.Writer) fantasy.AgentTool {
	return fantasy.NewAgentTool(
		"apply_license",
		"Write a protective LICENSE.txt into a skill directory and reference it from SKILL.md.",
		func(ctx context.Context, input ApplyLicenseInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
			if input.Dir == "" {
				return fantasy.NewTextErrorResponse("dir is required"), nil
			}

			tier, err := license.ParseTier(input.Tier)
			if err != nil {
				return fantasy.NewTextErrorResponse(err.Error()), nil
			}
			entityType, err := license.ParseEntityType(input.EntityType)
			if err != nil {
				return fantasy.NewTextErrorResponse(err.Error()), nil
			}

			res, err := writer.Apply(input.Dir, license.Request{
				EntityName:      input.EntityName,
				EntityType:      entityType,
				Jurisdiction:    input.Jurisdiction,
				SecondaryEntity: input.SecondaryEntity,
				ContactName:     input.ContactName,
				ContactEmail:    input.ContactEmail,
				County:          input.County,
			}, tier)
			if err != nil {
				return fantasy.NewTextErrorResponse(err.Error()), nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Applied %s license for %s\n", res.Tier, res.Entity)
			fmt.Fprintf(&sb, "license: %s\n", res.LicensePath)
			if res.MetadataPath != "" {
				fmt.Fprintf(&sb, "metadata: %s\n", res.MetadataPath)
			}
			fmt.Fprintf(&sb, "descriptor: %s\n", res.DescriptorPath)
			for _, w := range res.Warnings {
				fmt.Fprintf(&sb, "warning: %s\n", w)
			}
			return fantasy.NewTextResponse(sb.String()), nil
		},
	)
}
