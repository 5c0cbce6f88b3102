package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthops/adscope/internal/models"
)

func TestSearchQueriesWasteAndSuggestions(t *testing.T) {
	queries := []models.SearchQuery{
		{SearchTerm: "knee pain exercises", AdGroup: "Knee", CampaignName: "Search", Spend: 12, Clicks: 20},
		{SearchTerm: "knee brace for running", AdGroup: "Knee", CampaignName: "Search", Spend: 8, Clicks: 15},
		{SearchTerm: "diy knee support at home", AdGroup: "Knee", CampaignName: "Search", Spend: 6, Clicks: 10},
		{SearchTerm: "physio near me", AdGroup: "Clinic", CampaignName: "Search", Spend: 30, Clicks: 40, Conversions: 3},
		{SearchTerm: "cheap clicks", AdGroup: "Clinic", CampaignName: "Search", Spend: 2, Clicks: 5},
	}
	report := SearchQueries(queries)

	require.Len(t, report.WastedSpendQueries, 3)
	assert.Equal(t, "knee pain exercises", report.WastedSpendQueries[0].SearchTerm)
	assert.InDelta(t, 26, report.TotalWastedSpend, 0.001)
	assert.Equal(t, 5, report.TotalQueries)

	bySpend := map[string]float64{}
	for _, s := range report.NegativeKeywordSuggestions {
		assert.Equal(t, "PHRASE", s.MatchType)
		bySpend[s.NegativeKeyword] = s.WastedSpend
	}
	assert.InDelta(t, 12, bySpend["exercises"], 0.001)
	assert.InDelta(t, 8, bySpend["brace"], 0.001)
	// "diy knee support at home" hits diy, support, home and at home.
	assert.InDelta(t, 6, bySpend["diy"], 0.001)
	assert.InDelta(t, 6, bySpend["support"], 0.001)

	require.NotEmpty(t, report.NegativeKeywordSuggestions)
	assert.Equal(t, "exercises", report.NegativeKeywordSuggestions[0].NegativeKeyword)
}

func TestIntentWordsMatchesSubstrings(t *testing.T) {
	assert.Equal(t, []string{"what is", "causes"}, IntentWords("What is the causes of shin splints"))
	assert.Empty(t, IntentWords("buy ankle stabilizer"))
}

func TestQualityScoreRoadmap(t *testing.T) {
	keywords := []models.Keyword{
		{KeywordText: "bad one", QualityScore: 2, Spend: 20},
		{KeywordText: "bad two", QualityScore: 1, Spend: 10},
		{KeywordText: "weak", QualityScore: 4, Spend: 15},
		{KeywordText: "fine", QualityScore: 7, Spend: 100},
		{KeywordText: "unscored", QualityScore: 0, Spend: 50},
	}
	report := QualityScoreRoadmap(keywords)

	assert.Equal(t, 3, report.TotalLowQS)
	assert.InDelta(t, 45, report.TotalSpendLowQS, 0.001)
	require.Len(t, report.ImprovementPlan, 2)
	assert.Equal(t, 1, report.ImprovementPlan[0].Priority)
	assert.Equal(t, 2, report.ImprovementPlan[0].AffectedKeywords)
	assert.Equal(t, 2, report.ImprovementPlan[1].Priority)
	assert.Equal(t, 1, report.ImprovementPlan[1].AffectedKeywords)
}

func TestQualityScoreRoadmapEmpty(t *testing.T) {
	report := QualityScoreRoadmap([]models.Keyword{{KeywordText: "fine", QualityScore: 8}})
	assert.Zero(t, report.TotalLowQS)
	assert.Empty(t, report.ImprovementPlan)
}

func TestDevicePerformance(t *testing.T) {
	segments := []models.DeviceSegment{
		{Device: "MOBILE", Spend: 60, Clicks: 200, Impressions: 8000, Conversions: 4},
		{Device: "MOBILE", Spend: 40, Clicks: 100, Impressions: 4000, Conversions: 2},
		{Device: "DESKTOP", Spend: 50, Clicks: 80, Impressions: 3000, Conversions: 5},
		{Device: "TABLET", Spend: 10, Clicks: 20, Impressions: 1000},
	}
	report := DevicePerformance(segments)

	require.Len(t, report.Devices, 3)
	assert.Equal(t, "MOBILE", report.Devices[0].Device)
	assert.InDelta(t, 100, report.Devices[0].Spend, 0.001)
	assert.InDelta(t, 16.67, report.Devices[0].CPA, 0.01)

	require.NotNil(t, report.BestDevice)
	assert.Equal(t, "DESKTOP", report.BestDevice.Device) // CPA 10 vs 16.67
	require.NotNil(t, report.WorstDevice)
	assert.Equal(t, "MOBILE", report.WorstDevice.Device)
}

func TestDevicePerformanceSingleConverterHasNoWorst(t *testing.T) {
	report := DevicePerformance([]models.DeviceSegment{
		{Device: "MOBILE", Spend: 60, Clicks: 200, Impressions: 8000, Conversions: 4},
		{Device: "TABLET", Spend: 10, Clicks: 20, Impressions: 1000},
	})
	require.NotNil(t, report.BestDevice)
	assert.Nil(t, report.WorstDevice)
}
