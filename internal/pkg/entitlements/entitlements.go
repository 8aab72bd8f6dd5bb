package entitlements

import "strings"

type Plan string

const (
	PlanFree     Plan = "free"
	PlanPremium  Plan = "premium"
	PlanLifetime Plan = "lifetime"
)

// Normalize maps arbitrary plan strings to a known plan, defaulting to free.
func Normalize(plan string) Plan {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case string(PlanPremium):
		return PlanPremium
	case string(PlanLifetime):
		return PlanLifetime
	default:
		return PlanFree
	}
}

// AllowsVoice reports whether the plan includes voice cloning and playback.
func AllowsVoice(plan Plan) bool {
	return Rank(plan) >= Rank(PlanPremium)
}

// AllowsVideo reports whether the plan includes talking-avatar video calls.
func AllowsVideo(plan Plan) bool {
	return Rank(plan) >= Rank(PlanPremium)
}

// Rank orders plans for "best entitlement wins" comparisons.
func Rank(plan Plan) int {
	switch plan {
	case PlanLifetime:
		return 2
	case PlanPremium:
		return 1
	default:
		return 0
	}
}
