package tools

import (
	"context"
	"fmt"
	"strings"

	"charm.land/fantasy"

	"github.com/tacit-code/skills/internal/validate"
)

// ValidateLicenseInput represents the input for the validate_license tool
type ValidateLicenseInput struct {
	Dir  string `json:"dir" description:"The skill directory to check"`
	Tier string `json:"tier,omitempty" description:"basic (default), ai-prohibition or maximum"`
}

// NewValidateLicenseTool creates a tool that checks a skill directory's
// license artifacts. A failing check is a normal response listing every
// failed rule; only unusable input is an error response.
func NewValidateLicenseTool(engine *validate.Engine) fantasy.AgentTool {
	return fantasy.NewAgentTool(
		"validate_license",
		"Check that a skill directory's LICENSE.txt, SKILL.md and metadata contain the required protective clauses.",
		func(ctx context.Context, input ValidateLicenseInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
			if input.Dir == "" {
				return fantasy.NewTextErrorResponse("dir is required"), nil
			}

			tier, err := validate.ParseTier(input.Tier)
			if err != nil {
				return fantasy.NewTextErrorResponse(err.Error()), nil
			}

			report, err := engine.Validate(input.Dir, tier)
			if err != nil {
				return fantasy.NewTextErrorResponse(err.Error()), nil
			}

			var sb strings.Builder
			if report.Passed() {
				fmt.Fprintf(&sb, "PASS: %s meets the %s tier (%d checks)\n", report.Dir, report.Tier, len(report.Results))
				return fantasy.NewTextResponse(sb.String()), nil
			}

			failed := report.Failures()
			fmt.Fprintf(&sb, "FAIL: %s does not meet the %s tier (%d of %d checks failed)\n", report.Dir, report.Tier, len(failed), len(report.Results))
			for _, res := range failed {
				fmt.Fprintf(&sb, "- %s: %s\n", res.Rule, res.Message)
			}
			return fantasy.NewTextResponse(sb.String()), nil
		},
	)
}
