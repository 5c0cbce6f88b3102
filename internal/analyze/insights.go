package analyze

import (
	"github.com/growthops/adscope/internal/models"
)

// FacebookInsights is the full Facebook analysis document, one report per
// section. Persisted as-is alongside the recommendations.
type FacebookInsights struct {
	Audience        AudienceReport        `json:"audience_performance"`
	CreativeFatigue CreativeFatigueReport `json:"creative_fatigue"`
	Placements      PlacementReport       `json:"placement_efficiency"`
	BudgetPacing    BudgetPacingReport    `json:"budget_pacing"`
	LandingPages    LandingPageReport     `json:"landing_pages"`
	Geo             GeoReport             `json:"geo_performance"`
	Time            TimeReport            `json:"time_performance"`
	TopPerformers   TopPerformerReport    `json:"top_performers"`
	AudienceFatigue AudienceFatigueReport `json:"audience_fatigue"`
	DayOfWeek       DayOfWeekReport       `json:"day_of_week"`
	Objectives      ObjectiveReport       `json:"objective_alignment"`
	ROAS            ROASReport            `json:"roas_opportunities"`
	Creative        CreativePatternReport `json:"creative_patterns"`
	GeoBids         GeoBidReport          `json:"geo_bid_opportunities"`
}

// Facebook runs every Facebook-side analyzer over one snapshot.
func Facebook(snap models.Snapshot) FacebookInsights {
	timeReport := TimePerformance(snap.Hourly, snap.Daily)
	return FacebookInsights{
		Audience:        AudiencePerformance(snap.Demographics, snap.Placements),
		CreativeFatigue: CreativeFatigue(snap.Ads, snap.Campaigns),
		Placements:      PlacementEfficiency(snap.Placements),
		BudgetPacing:    BudgetPacing(snap.Campaigns, snap.Days()),
		LandingPages:    LandingPages(snap.Ads),
		Geo:             GeoPerformance(snap.Geo),
		Time:            timeReport,
		TopPerformers:   TopPerformers(snap.Campaigns, snap.AdSets),
		AudienceFatigue: AudienceFatigue(snap.Campaigns, snap.Ads),
		DayOfWeek:       DayOfWeek(timeReport),
		Objectives:      ObjectiveAlignment(snap.Campaigns, snap.Currency),
		ROAS:            ROASOpportunities(snap.Campaigns, snap.AdSets),
		Creative:        CreativePatterns(snap.Ads),
		GeoBids:         GeoBidOpportunities(snap.Geo),
	}
}

// GoogleInsights is the full Google Ads analysis document.
type GoogleInsights struct {
	SearchQueries SearchQueryReport  `json:"search_queries"`
	QualityScores QualityScoreReport `json:"quality_scores"`
	Devices       DeviceReport       `json:"device_performance"`
	Geo           GeoReport          `json:"geo_performance"`
	GeoBids       GeoBidReport       `json:"geo_bid_opportunities"`
	Time          TimeReport         `json:"time_performance"`
	DayOfWeek     DayOfWeekReport    `json:"day_of_week"`
	BudgetPacing  BudgetPacingReport `json:"budget_pacing"`
}

// Google runs every Google-side analyzer over one snapshot.
func Google(snap models.Snapshot) GoogleInsights {
	timeReport := TimePerformance(snap.Hourly, snap.Daily)
	return GoogleInsights{
		SearchQueries: SearchQueries(snap.SearchTerms),
		QualityScores: QualityScoreRoadmap(snap.Keywords),
		Devices:       DevicePerformance(snap.Devices),
		Geo:           GeoPerformance(snap.Geo),
		GeoBids:       GeoBidOpportunities(snap.Geo),
		Time:          timeReport,
		DayOfWeek:     DayOfWeek(timeReport),
		BudgetPacing:  BudgetPacing(snap.Campaigns, snap.Days()),
	}
}
