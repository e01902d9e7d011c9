package terminal

import (
	"fmt"
	"io"

	"github.com/tacit-code/skills/internal/artifact"
	"github.com/tacit-code/skills/internal/validate"
)

// PrintReport writes the human-readable verdict of a validation report,
// showing at most limit failure messages
func PrintReport(w io.Writer, r *validate.Report, limit int) {
	fmt.Fprintf(w, "%s %s %s\n", Bright("Validating"), Blue(r.Dir), Dim("("+string(r.Tier)+" tier, rules "+r.RulesVersion+")"))

	if r.Passed() {
		fmt.Fprintf(w, "%s all %d checks passed\n", Green("PASS"), len(r.Results))
		return
	}

	failed := r.Failures()
	fmt.Fprintf(w, "%s %d of %d checks failed\n", Red("FAIL"), len(failed), len(r.Results))

	shown, omitted := r.Summary(limit)
	for _, msg := range shown {
		fmt.Fprintf(w, "  %s %s\n", Red("x"), msg)
	}
	if omitted > 0 {
		fmt.Fprintf(w, "  %s\n", Dim(fmt.Sprintf("... and %d more", omitted)))
	}
}

// PrintApply writes what an apply wrote, followed by any warnings
func PrintApply(w io.Writer, res *artifact.Result) {
	fmt.Fprintf(w, "%s %s license to %s for %s\n", Green("Applied"), res.Tier, Blue(res.Skill), Bright(res.Entity))
	if res.EntityType != "" {
		fmt.Fprintf(w, "  %s %s\n", Dim("type:      "), res.EntityType.Title())
	}
	fmt.Fprintf(w, "  %s %s\n", Dim("license:   "), res.LicensePath)
	if res.MetadataPath != "" {
		fmt.Fprintf(w, "  %s %s\n", Dim("metadata:  "), res.MetadataPath)
	}

	state := "unchanged"
	switch {
	case res.DescriptorChanged && res.DescriptorReplaced:
		state = "license field replaced"
	case res.DescriptorChanged:
		state = "license field added"
	}
	fmt.Fprintf(w, "  %s %s %s\n", Dim("descriptor:"), res.DescriptorPath, Dim("("+state+")"))

	if res.Rendered != nil && res.Rendered.Signature != "" {
		fmt.Fprintf(w, "  %s %s\n", Dim("signature: "), res.Rendered.Signature)
		fmt.Fprintf(w, "  %s %s\n", Dim("marker:    "), res.Rendered.Marker)
	}

	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "%s %s\n", Yellow("warning:"), warning)
	}
}
