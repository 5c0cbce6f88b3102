package models

// Scenario selects the global confidence factor applied to every projected
// impact by the totals aggregator.
type Scenario string

const (
	ScenarioConservative Scenario = "conservative"
	ScenarioModerate     Scenario = "moderate"
	ScenarioOptimistic   Scenario = "optimistic"
)

// Factor returns the scaling factor for the scenario. Unknown scenario
// strings fall back to moderate.
func (s Scenario) Factor() float64 {
	switch s {
	case ScenarioConservative:
		return 0.5
	case ScenarioOptimistic:
		return 1.0
	default:
		return 0.7
	}
}

// KindTotals is the per-kind slice of an aggregate.
type KindTotals struct {
	Count                 int     `json:"count"`
	MonthlySavings        float64 `json:"monthly_savings"`
	AdditionalConversions float64 `json:"additional_conversions"`
	AdditionalRevenue     float64 `json:"additional_revenue"`
	NetBenefit            float64 `json:"net_benefit"`
}

// AggregateTotals sums ImpactEstimate fields across a recommendation list
// under one confidence scenario. Derived entirely from its inputs.
type AggregateTotals struct {
	TotalMonthlySavings        float64              `json:"total_monthly_savings"`
	TotalAdditionalConversions float64              `json:"total_additional_conversions"`
	TotalAdditionalRevenue     float64              `json:"total_additional_revenue"`
	TotalAdditionalSpend       float64              `json:"total_additional_spend"`
	TotalNetBenefit            float64              `json:"total_net_benefit"`
	TotalRecommendations       int                  `json:"total_recommendations"`
	AutomatableCount           int                  `json:"automatable_count"`
	ManualCount                int                  `json:"manual_count"`
	ConfidenceLevel            Scenario             `json:"confidence_level"`
	ConfidenceFactor           float64              `json:"confidence_factor"`
	BreakdownByKind            map[Kind]*KindTotals `json:"breakdown_by_type"`
	BreakdownByPriority        map[Priority]int     `json:"breakdown_by_priority"`
}
