package payments

import (
	"strings"

	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/entitlements"
)

// Currency is fixed; the gateway account is an INR account.
const Currency = "INR"

// Plan is an immutable catalog entry. Price is in whole rupees; the gateway
// wants paise, see AmountMinorUnits.
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Interval string   `json:"interval,omitempty"` // "month" or empty for one-time/free
	Features []string `json:"features"`
}

// Plans is the static subscription catalog. It is defined here rather than in
// the database because the checkout flow validates plan ids against it.
var Plans = []Plan{
	{
		ID:    string(entitlements.PlanFree),
		Name:  "Free",
		Price: 0,
		Features: []string{
			"Basic text chatbot",
			"Essential life story questions",
			"Simple memorial page",
		},
	},
	{
		ID:       string(entitlements.PlanPremium),
		Name:     "Premium",
		Price:    1299,
		Interval: "month",
		Features: []string{
			"Everything in Free",
			"Voice cloning & playback",
			"Video & voice calls with AI",
			"Family guestbook",
		},
	},
	{
		ID:    string(entitlements.PlanLifetime),
		Name:  "Lifetime",
		Price: 29999,
		Features: []string{
			"Everything in Premium",
			"Unlimited video/voice calls",
			"Permanent hosting guarantee",
		},
	},
}

func planFree() entitlements.Plan {
	return entitlements.PlanFree
}

// PlanByID resolves a plan id against the catalog.
func PlanByID(id string) (Plan, bool) {
	want := strings.ToLower(strings.TrimSpace(id))
	for _, p := range Plans {
		if p.ID == want {
			return p, true
		}
	}
	return Plan{}, false
}

// AmountMinorUnits converts the plan price to paise for the gateway.
func (p Plan) AmountMinorUnits() int64 {
	return p.Price * 100
}

// IsFree reports whether checkout can be skipped entirely for this plan.
func (p Plan) IsFree() bool {
	return p.Price == 0
}
