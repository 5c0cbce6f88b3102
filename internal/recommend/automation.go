// Package recommend turns analyzer reports into ranked, actionable
// recommendations with impact projections attached, and aggregates their
// projected benefits.
package recommend

import (
	"github.com/growthops/adscope/internal/models"
)

// Automation capability is a static property of (platform, kind): either the
// platform API can perform the change, or the fixed reason it cannot.
var facebookAutomatable = map[models.Kind]struct{}{
	models.KindAudienceExclusion:  {},
	models.KindCreativeRefresh:    {},
	models.KindPlacementExclusion: {},
	models.KindBudgetAdjustment:   {},
	models.KindGeoExclusion:       {},
	models.KindScheduleAdjustment: {},
	models.KindBudgetScaling:      {},
	models.KindCampaignReview:     {},
	models.KindROASScaling:        {},
	models.KindROASReview:         {},
	models.KindGeoScaling:         {},
	models.KindDaySchedule:        {},
}

var facebookManualReasons = map[models.Kind]string{
	models.KindAudienceFatigue:   "Creating lookalike audiences requires strategic decisions",
	models.KindObjectiveMismatch: "Facebook API doesn't allow changing campaign objectives post-creation",
	models.KindCreativeTest:      "A/B testing requires human creativity for new ad variations",
	models.KindLandingPage:       "Landing page optimization requires website CMS access",
}

var googleAutomatable = map[models.Kind]struct{}{
	models.KindKeywordAction:         {},
	models.KindBidAdjustment:         {},
	models.KindScheduleBidAdjustment: {},
	models.KindGeoBidAdjustment:      {},
	models.KindGeoExclusion:          {},
	models.KindAdCopy:                {},
}

var googleManualReasons = map[models.Kind]string{
	models.KindQualityImprovement: "Requires strategic improvements (landing page speed, ad relevance, promotional testing)",
	models.KindBudgetPacing:       "Informational only - no action required",
}

// AutomationFor looks up the automation capability for one kind on one
// platform. An unknown kind is manual with no reason.
func AutomationFor(platform models.Platform, kind models.Kind) models.Automation {
	var automatable map[models.Kind]struct{}
	var reasons map[models.Kind]string
	switch platform {
	case models.PlatformFacebook:
		automatable, reasons = facebookAutomatable, facebookManualReasons
	case models.PlatformGoogle:
		automatable, reasons = googleAutomatable, googleManualReasons
	default:
		return models.Automation{}
	}
	if _, ok := automatable[kind]; ok {
		return models.Automation{IsAutomatable: true}
	}
	return models.Automation{ManualReason: reasons[kind]}
}
