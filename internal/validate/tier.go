package validate

import (
	"fmt"
	"strings"
)

// Tier selects a rule set. Each tier includes every rule of the tiers below it.
type Tier string

const (
	TierBasic         Tier = "basic"
	TierAIProhibition Tier = "ai-prohibition"
	TierMaximum       Tier = "maximum"
)

// Tiers lists the tiers from weakest to strongest
var Tiers = []Tier{TierBasic, TierAIProhibition, TierMaximum}

// ParseTier parses a tier selector
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "basic", "standard":
		return TierBasic, nil
	case "ai-prohibition", "ai", "ai_prohibition":
		return TierAIProhibition, nil
	case "maximum", "max", "military-grade", "elevated":
		return TierMaximum, nil
	}
	return "", fmt.Errorf("unknown validation tier %q (supported: basic, ai-prohibition, maximum)", s)
}

func (t Tier) rank() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// includes reports whether t carries the rules of other
func (t Tier) includes(other Tier) bool {
	return t.rank() >= other.rank()
}
