package analyze

import (
	"fmt"
	"strings"

	"github.com/growthops/adscope/internal/models"
)

// ObjectiveMismatch is a campaign whose configured objective contradicts its
// observed results.
type ObjectiveMismatch struct {
	CampaignName       string  `json:"campaign_name"`
	CurrentObjective   string  `json:"current_objective"`
	SuggestedObjective string  `json:"suggested_objective"`
	Reason             string  `json:"reason"`
	Conversions        float64 `json:"conversions"`
	CPA                float64 `json:"cpa,omitempty"`
	Spend              float64 `json:"spend"`
	Priority           models.Priority `json:"priority"`
}

// ObjectiveReport lists objective/performance mismatches.
type ObjectiveReport struct {
	Mismatches      []ObjectiveMismatch `json:"mismatches"`
	TotalMismatches int                 `json:"total_mismatches"`
}

var conversionObjectives = map[string]struct{}{
	"OUTCOME_LEADS": {}, "OUTCOME_SALES": {}, "CONVERSIONS": {}, "LEAD_GENERATION": {},
}

var awarenessObjectives = map[string]struct{}{
	"REACH": {}, "BRAND_AWARENESS": {}, "OUTCOME_AWARENESS": {}, "POST_ENGAGEMENT": {},
	"LINK_CLICKS": {}, "OUTCOME_ENGAGEMENT": {}, "OUTCOME_TRAFFIC": {},
}

// ObjectiveAlignment flags awareness campaigns that are actually converting
// (they should switch to a conversion objective) and conversion campaigns
// spending with no conversions at all. Unrecognized objective strings are
// skipped, not errors.
func ObjectiveAlignment(campaigns []models.Campaign, currency string) ObjectiveReport {
	var mismatches []ObjectiveMismatch

	for _, camp := range campaigns {
		objective := strings.ToUpper(camp.Objective)
		if objective == "" || camp.Spend < 10 {
			continue
		}

		if _, awareness := awarenessObjectives[objective]; awareness && camp.Conversions > 2 {
			mismatches = append(mismatches, ObjectiveMismatch{
				CampaignName:       camp.CampaignName,
				CurrentObjective:   objective,
				SuggestedObjective: "CONVERSIONS / LEADS",
				Reason:             fmt.Sprintf("Generating %g conversions despite %s objective", camp.Conversions, objective),
				Conversions:        camp.Conversions,
				CPA:                models.Round2(models.SafeDiv(camp.Spend, camp.Conversions)),
				Spend:              models.Round2(camp.Spend),
				Priority:           models.PriorityHigh,
			})
			continue
		}

		if _, conversion := conversionObjectives[objective]; conversion && camp.Conversions == 0 && camp.Spend > 30 {
			mismatches = append(mismatches, ObjectiveMismatch{
				CampaignName:       camp.CampaignName,
				CurrentObjective:   objective,
				SuggestedObjective: "Review targeting and creative",
				Reason: fmt.Sprintf("%s %.2f spent with 0 conversions despite conversion-optimized objective",
					currency, camp.Spend),
				Spend:    models.Round2(camp.Spend),
				Priority: models.PriorityHigh,
			})
		}
	}

	return ObjectiveReport{
		Mismatches:      mismatches,
		TotalMismatches: len(mismatches),
	}
}
