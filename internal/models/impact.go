package models

// Confidence is the qualitative certainty of an impact projection.
type Confidence string

const (
	ConfidenceLow      Confidence = "low"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceHigh     Confidence = "high"
)

// ImpactEstimate is the output of one impact-model formula. It is built once
// per recommendation and never mutated; the totals aggregator only sums
// copies of its fields. All money fields are monthly, in the account's
// currency. The formula and assumptions strings are rendered verbatim on the
// dashboard, so they must stay human-readable and self-contained.
type ImpactEstimate struct {
	MonthlySavings               float64    `json:"monthly_savings"`
	AdditionalConversionsMonthly float64    `json:"additional_conversions_monthly"`
	AdditionalSpendMonthly       float64    `json:"additional_spend_monthly,omitempty"`
	AdditionalRevenueMonthly     float64    `json:"additional_revenue_monthly"`
	NetBenefitMonthly            float64    `json:"net_benefit_monthly,omitempty"`
	ConversionsLostMonthly       float64    `json:"conversions_lost_monthly,omitempty"`
	NewCPA                       float64    `json:"new_cpa,omitempty"`
	CTRImprovementPct            int        `json:"ctr_improvement_pct,omitempty"`
	ConvRateImprovementPct       int        `json:"conv_rate_improvement_pct,omitempty"`
	Confidence                   Confidence `json:"confidence"`
	ConfidencePct                int        `json:"confidence_pct"`
	Formula                      string     `json:"formula"`
	Assumptions                  []string   `json:"assumptions"`
}

// NetBenefit returns net_benefit_monthly, synthesizing it from the savings,
// revenue, and spend components when the formula did not set it.
func (e ImpactEstimate) NetBenefit() float64 {
	if e.NetBenefitMonthly != 0 {
		return e.NetBenefitMonthly
	}
	if e.MonthlySavings > 0 || e.AdditionalRevenueMonthly > 0 {
		return e.MonthlySavings + e.AdditionalRevenueMonthly - e.AdditionalSpendMonthly
	}
	return 0
}
