package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthops/adscope/internal/analyze"
	"github.com/growthops/adscope/internal/impact"
	"github.com/growthops/adscope/internal/models"
)

func TestAutomationForTables(t *testing.T) {
	auto := AutomationFor(models.PlatformFacebook, models.KindAudienceExclusion)
	assert.True(t, auto.IsAutomatable)
	assert.Empty(t, auto.ManualReason)

	auto = AutomationFor(models.PlatformFacebook, models.KindObjectiveMismatch)
	assert.False(t, auto.IsAutomatable)
	assert.Equal(t, "Facebook API doesn't allow changing campaign objectives post-creation", auto.ManualReason)

	auto = AutomationFor(models.PlatformGoogle, models.KindKeywordAction)
	assert.True(t, auto.IsAutomatable)

	auto = AutomationFor(models.PlatformGoogle, models.KindBudgetPacing)
	assert.False(t, auto.IsAutomatable)
	assert.Equal(t, "Informational only - no action required", auto.ManualReason)
}

func TestTopActiveAdSetResolution(t *testing.T) {
	adSets := []models.AdSet{
		{AdSetID: "1", AdSetName: "Paused winner", Status: "PAUSED", Conversions: 50, Spend: 500},
		{AdSetID: "2", AdSetName: "Active small", Status: "ACTIVE", Conversions: 3, Spend: 40},
		{AdSetID: "3", AdSetName: "Active big", Status: "ACTIVE", Conversions: 10, Spend: 100},
		{AdSetID: "4", AdSetName: "Tied but cheaper", Status: "ACTIVE", Conversions: 10, Spend: 80},
	}
	top := topActiveAdSet(adSets)
	require.NotNil(t, top)
	assert.Equal(t, "3", top.AdSetID)

	// No converting ad set: any ACTIVE one.
	top = topActiveAdSet([]models.AdSet{
		{AdSetID: "a", Status: "PAUSED"},
		{AdSetID: "b", Status: "ACTIVE"},
	})
	require.NotNil(t, top)
	assert.Equal(t, "b", top.AdSetID)

	assert.Nil(t, topActiveAdSet(nil))
}

func facebookFixture() models.Snapshot {
	return models.Snapshot{
		Platform:    models.PlatformFacebook,
		AccountID:   "act_1",
		AccountName: "Fixture",
		Currency:    "RM",
		DateRange:   models.DateRange{StartDate: "2026-08-17", EndDate: "2026-08-23"},
		Summary: models.AccountSummary{
			TotalSpend: 500, TotalClicks: 1500, TotalConversions: 30, OverallCPA: 16.67,
		},
		Campaigns: []models.Campaign{
			{CampaignName: "Winner", Spend: 200, Clicks: 600, Conversions: 25, Status: "ACTIVE"},
			{CampaignName: "Burner", Spend: 120, Clicks: 300, Status: "ACTIVE"},
		},
		AdSets: []models.AdSet{
			{AdSetID: "as1", AdSetName: "Core", Status: "ACTIVE", Conversions: 20, Spend: 150},
		},
		Ads: []models.Ad{
			{AdName: "Tired", CampaignName: "Winner", Frequency: 6, CTR: 1.2, Impressions: 4000, Spend: 80, Conversions: 8},
		},
		Demographics: []models.DemographicSegment{
			{Age: "55-64", Gender: "male", Spend: 40, Clicks: 90},
		},
	}
}

func TestFacebookGeneratorEndToEnd(t *testing.T) {
	snap := facebookFixture()
	ins := analyze.Facebook(snap)
	calc := impact.NewCalculator(snap.Currency)

	recs := Facebook(snap, ins, calc)
	require.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), 20)

	// Priority ordering is monotone.
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Priority.Rank(), recs[i].Priority.Rank())
	}

	byKind := map[models.Kind][]models.Recommendation{}
	for _, r := range recs {
		byKind[r.Kind] = append(byKind[r.Kind], r)
	}

	// The wasted demographic becomes a high-priority exclusion addressed to
	// the top ad set, with a 90%-confidence savings projection.
	excl := byKind[models.KindAudienceExclusion]
	require.Len(t, excl, 1)
	assert.Equal(t, models.PriorityHigh, excl[0].Priority)
	assert.Equal(t, "as1", excl[0].Target.AdSetID)
	assert.Equal(t, "Male 55-64", excl[0].Target.Segment)
	assert.InDelta(t, 160, excl[0].Impact.MonthlySavings, 0.001)
	assert.Equal(t, 90, excl[0].Impact.ConfidencePct)
	assert.True(t, excl[0].Automation.IsAutomatable)

	// Frequency 6 creative is critical, so high priority.
	refresh := byKind[models.KindCreativeRefresh]
	require.Len(t, refresh, 1)
	assert.Equal(t, models.PriorityHigh, refresh[0].Priority)
	assert.Equal(t, "Tired", refresh[0].Target.AdName)

	// The zero-conversion campaign over 50 spend is a review.
	review := byKind[models.KindCampaignReview]
	require.Len(t, review, 1)
	assert.Equal(t, "Burner", review[0].Target.CampaignName)
}

func TestFacebookGeneratorEmptySnapshot(t *testing.T) {
	snap := models.Snapshot{Platform: models.PlatformFacebook, Currency: "RM"}
	recs := Facebook(snap, analyze.Facebook(snap), impact.NewCalculator("RM"))
	assert.Empty(t, recs)
}

func TestGoogleGeneratorSections(t *testing.T) {
	snap := models.Snapshot{
		Platform: models.PlatformGoogle,
		Currency: "RM",
		Summary:  models.AccountSummary{OverallCPA: 12},
		Keywords: []models.Keyword{
			{KeywordText: "dead weight", QualityScore: 2, Spend: 30, Clicks: 50, AdGroupName: "G1", CampaignName: "Search", ResourceName: "customers/1/adGroupCriteria/1~1"},
			{KeywordText: "cheap gold", QualityScore: 8, Spend: 40, Clicks: 120, Conversions: 5, CostPerConversion: 8, CPCBid: 1.2, AdGroupName: "G2", CampaignName: "Search"},
			{KeywordText: "pricey dud", QualityScore: 5, Spend: 25, Clicks: 40, AvgCPC: 0.9, AdGroupName: "G1", CampaignName: "Search"},
			{KeywordText: "core term", QualityScore: 7, Spend: 80, Clicks: 300, Conversions: 9, CostPerConversion: 8.9, AdGroupName: "G2", CampaignName: "Search"},
		},
		SearchTerms: []models.SearchQuery{
			{SearchTerm: "knee pain exercises", AdGroup: "G1", CampaignName: "Search", Spend: 14, Clicks: 25},
			{SearchTerm: "totally unrelated brand", AdGroup: "G1", CampaignName: "Search", Spend: 9, Clicks: 12},
		},
	}
	ins := analyze.Google(snap)
	calc := impact.NewCalculator("RM")

	recs := Google(snap, ins, calc)
	require.NotEmpty(t, recs)

	byKind := map[models.Kind][]models.Recommendation{}
	for _, r := range recs {
		byKind[r.Kind] = append(byKind[r.Kind], r)
	}

	keywordRecs := byKind[models.KindKeywordAction]
	var pause, negativeList, exactNegative *models.Recommendation
	for i := range keywordRecs {
		r := &keywordRecs[i]
		switch {
		case r.Target.KeywordAction == "pause":
			pause = r
		case r.Target.KeywordAction == "add_negative" && len(r.Target.NegativeKeywords) == 1 && r.Target.NegativeKeywords[0] == "totally unrelated brand":
			exactNegative = r
		case r.Target.KeywordAction == "add_negative":
			negativeList = r
		}
	}

	require.NotNil(t, pause)
	assert.Equal(t, "dead weight", pause.Target.Keyword)
	assert.Equal(t, models.PriorityHigh, pause.Priority)

	require.NotNil(t, negativeList)
	assert.Contains(t, negativeList.Target.NegativeKeywords, "exercises")
	assert.Equal(t, 85, negativeList.Impact.ConfidencePct)

	// "knee pain exercises" is covered by the "exercises" negative, so only
	// the unrelated query gets its own exact negative.
	require.NotNil(t, exactNegative)
	assert.Equal(t, "totally unrelated brand", exactNegative.Target.NegativeKeywords[0])

	// Bid increase on the cheap converter: 1.2 → 1.5.
	bids := byKind[models.KindBidAdjustment]
	var increase *models.Recommendation
	for i := range bids {
		if bids[i].Target.SuggestedBid > bids[i].Target.CurrentBid {
			increase = &bids[i]
		}
	}
	require.NotNil(t, increase)
	assert.Equal(t, "cheap gold", increase.Target.Keyword)
	assert.InDelta(t, 1.5, increase.Target.SuggestedBid, 0.001)

	// Bid decrease falls back to AvgCPC when no explicit bid is set.
	var decrease *models.Recommendation
	for i := range bids {
		if bids[i].Target.SuggestedBid < bids[i].Target.CurrentBid {
			decrease = &bids[i]
		}
	}
	require.NotNil(t, decrease)
	assert.Equal(t, "pricey dud", decrease.Target.Keyword)
	assert.InDelta(t, 0.9, decrease.Target.CurrentBid, 0.001)
	assert.InDelta(t, 0.585, decrease.Target.SuggestedBid, 0.01)

	// Ad group G2 rolls up 14 conversions and gets an ad copy test.
	copyRecs := byKind[models.KindAdCopy]
	require.Len(t, copyRecs, 1)
	assert.Equal(t, "G2", copyRecs[0].Target.AdGroupName)
	assert.Equal(t, 65, copyRecs[0].Impact.ConfidencePct)
	assert.InDelta(t, 14*0.12*4, copyRecs[0].Impact.AdditionalConversionsMonthly, 0.001)
}

func TestAggregateScenarios(t *testing.T) {
	recs := []models.Recommendation{
		{
			Kind: models.KindAudienceExclusion, Priority: models.PriorityHigh,
			Automation: models.Automation{IsAutomatable: true},
			Impact:     models.ImpactEstimate{MonthlySavings: 100},
		},
		{
			Kind: models.KindBudgetScaling, Priority: models.PriorityHigh,
			Automation: models.Automation{IsAutomatable: true},
			Impact: models.ImpactEstimate{
				AdditionalConversionsMonthly: 8,
				AdditionalRevenueMonthly:     400,
				AdditionalSpendMonthly:       150,
				NetBenefitMonthly:            250,
			},
		},
		{
			Kind: models.KindLandingPage, Priority: models.PriorityMedium,
			Impact: models.ImpactEstimate{},
		},
	}

	moderate := Aggregate(recs, models.ScenarioModerate)
	assert.InDelta(t, 70, moderate.TotalMonthlySavings, 0.001)
	assert.InDelta(t, 5.6, moderate.TotalAdditionalConversions, 0.001)
	assert.InDelta(t, 280, moderate.TotalAdditionalRevenue, 0.001)
	// Exclusion net benefit synthesized from savings: (100+250) × 0.7.
	assert.InDelta(t, 245, moderate.TotalNetBenefit, 0.001)
	assert.Equal(t, 3, moderate.TotalRecommendations)
	assert.Equal(t, 2, moderate.AutomatableCount)
	assert.Equal(t, 1, moderate.ManualCount)
	assert.Equal(t, 2, moderate.BreakdownByPriority[models.PriorityHigh])
	assert.Equal(t, 1, moderate.BreakdownByKind[models.KindAudienceExclusion].Count)

	conservative := Aggregate(recs, models.ScenarioConservative)
	assert.InDelta(t, 50, conservative.TotalMonthlySavings, 0.001)

	optimistic := Aggregate(recs, models.ScenarioOptimistic)
	assert.InDelta(t, 100, optimistic.TotalMonthlySavings, 0.001)

	// Unknown scenario falls back to moderate.
	unknown := Aggregate(recs, models.Scenario("whatever"))
	assert.InDelta(t, moderate.TotalMonthlySavings, unknown.TotalMonthlySavings, 0.001)
}

func TestTopByNetBenefit(t *testing.T) {
	recs := []models.Recommendation{
		{Action: "small", Impact: models.ImpactEstimate{MonthlySavings: 10}},
		{Action: "big", Impact: models.ImpactEstimate{NetBenefitMonthly: 500}},
		{Action: "mid", Impact: models.ImpactEstimate{MonthlySavings: 100}},
	}
	top := TopByNetBenefit(recs, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "big", top[0].Action)
	assert.Equal(t, "mid", top[1].Action)

	// Input untouched.
	assert.Equal(t, "small", recs[0].Action)
}

func TestNarrative(t *testing.T) {
	snap := facebookFixture()
	ins := analyze.Facebook(snap)
	calc := impact.NewCalculator(snap.Currency)
	recs := Facebook(snap, ins, calc)
	totals := Aggregate(recs, models.ScenarioModerate)

	text := Narrative(snap, recs, totals)
	assert.Contains(t, text, "Facebook account Fixture")
	assert.Contains(t, text, "recommendations")
	assert.Contains(t, text, "Biggest single win")
}
