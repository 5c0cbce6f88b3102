package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/growthops/adscope/internal/analyze"
	"github.com/growthops/adscope/internal/impact"
	"github.com/growthops/adscope/internal/models"
)

func gRec(kind models.Kind, rec models.Recommendation) models.Recommendation {
	rec.Kind = kind
	rec.Automation = AutomationFor(models.PlatformGoogle, kind)
	return rec
}

// Google assembles the Google Ads recommendation list: keyword actions, bid
// moves, ad copy, negative keywords (deduplicated across sections), wasted
// search queries, quality-score work, then geo and schedule bids.
func Google(snap models.Snapshot, ins analyze.GoogleInsights, calc impact.Calculator) []models.Recommendation {
	var recs []models.Recommendation
	cur := calc.Currency

	// 1. Pause dead keywords: quality score at rock bottom, spend, nothing
	// back. Top 3 by cost.
	var pauseCandidates []models.Keyword
	for _, kw := range snap.Keywords {
		if kw.QualityScore > 0 && kw.QualityScore <= 2 && kw.Conversions == 0 && kw.Spend > 5 {
			pauseCandidates = append(pauseCandidates, kw)
		}
	}
	sort.SliceStable(pauseCandidates, func(i, j int) bool {
		return pauseCandidates[i].Spend > pauseCandidates[j].Spend
	})
	for _, kw := range capN(pauseCandidates, 3) {
		est := calc.Exclusion(kw.Spend)
		recs = append(recs, gRec(models.KindKeywordAction, models.Recommendation{
			Action: fmt.Sprintf("Pause keyword '%s'", kw.KeywordText),
			Reason: fmt.Sprintf("Quality Score %d, %s %.2f spent, 0 conversions",
				kw.QualityScore, cur, kw.Spend),
			ExpectedImpact: fmt.Sprintf("Save %s %.2f/month", cur, est.MonthlySavings),
			Priority:       models.PriorityHigh,
			Impact:         est,
			Target: models.Target{
				Keyword:       kw.KeywordText,
				Resource:      kw.ResourceName,
				AdGroupName:   kw.AdGroupName,
				CampaignName:  kw.CampaignName,
				KeywordAction: "pause",
			},
		}))
	}

	// 2. Bid up the cheap converters. Top 3 by CPA ascending.
	var increaseCandidates []models.Keyword
	for _, kw := range snap.Keywords {
		if kw.Conversions >= 2 && kw.CostPerConversion > 0 && kw.CostPerConversion < 15 {
			increaseCandidates = append(increaseCandidates, kw)
		}
	}
	sort.SliceStable(increaseCandidates, func(i, j int) bool {
		return increaseCandidates[i].CostPerConversion < increaseCandidates[j].CostPerConversion
	})
	for _, kw := range capN(increaseCandidates, 3) {
		currentBid := kw.CPCBid
		if currentBid == 0 {
			currentBid = kw.AvgCPC
		}
		suggestedBid := models.Round2(currentBid * 1.25)
		est := calc.BidAdjustment(currentBid, suggestedBid, kw.Spend, kw.Conversions, 0)
		recs = append(recs, gRec(models.KindBidAdjustment, models.Recommendation{
			Action: fmt.Sprintf("Increase bid 25%% on '%s'", kw.KeywordText),
			Reason: fmt.Sprintf("%.0f conversions at %s %.2f CPA - room to buy more volume",
				kw.Conversions, cur, kw.CostPerConversion),
			ExpectedImpact: fmt.Sprintf("+%.1f conversions/month", est.AdditionalConversionsMonthly),
			Priority:       models.PriorityHigh,
			Impact:         est,
			Target: models.Target{
				Keyword:      kw.KeywordText,
				Resource:     kw.ResourceName,
				AdGroupName:  kw.AdGroupName,
				CurrentBid:   models.Round2(currentBid),
				SuggestedBid: suggestedBid,
			},
		}))
	}

	// 3. Bid down the expensive non-converters that still have a workable
	// quality score (pausing them would lose the slot). Top 2 by cost.
	var decreaseCandidates []models.Keyword
	for _, kw := range snap.Keywords {
		if kw.Conversions == 0 && kw.Spend > 10 && kw.QualityScore >= 4 {
			decreaseCandidates = append(decreaseCandidates, kw)
		}
	}
	sort.SliceStable(decreaseCandidates, func(i, j int) bool {
		return decreaseCandidates[i].Spend > decreaseCandidates[j].Spend
	})
	for _, kw := range capN(decreaseCandidates, 2) {
		currentBid := kw.CPCBid
		if currentBid == 0 {
			currentBid = kw.AvgCPC
		}
		suggestedBid := models.Round2(currentBid * 0.65)
		est := calc.BidAdjustment(currentBid, suggestedBid, kw.Spend, kw.Conversions, 0)
		recs = append(recs, gRec(models.KindBidAdjustment, models.Recommendation{
			Action: fmt.Sprintf("Decrease bid 35%% on '%s'", kw.KeywordText),
			Reason: fmt.Sprintf("%s %.2f spent with 0 conversions (QS %d keeps it worth testing cheaper)",
				cur, kw.Spend, kw.QualityScore),
			ExpectedImpact: fmt.Sprintf("Save %s %.2f/month", cur, est.MonthlySavings),
			Priority:       models.PriorityMedium,
			Impact:         est,
			Target: models.Target{
				Keyword:      kw.KeywordText,
				Resource:     kw.ResourceName,
				AdGroupName:  kw.AdGroupName,
				CurrentBid:   models.Round2(currentBid),
				SuggestedBid: suggestedBid,
			},
		}))
	}

	// 4. Ad copy tests on the ad groups doing the converting.
	type groupAgg struct {
		name         string
		campaignName string
		spend, conv  float64
	}
	groups := map[string]*groupAgg{}
	var groupOrder []string
	for _, kw := range snap.Keywords {
		g, ok := groups[kw.AdGroupName]
		if !ok {
			g = &groupAgg{name: kw.AdGroupName, campaignName: kw.CampaignName}
			groups[kw.AdGroupName] = g
			groupOrder = append(groupOrder, kw.AdGroupName)
		}
		g.spend += kw.Spend
		g.conv += kw.Conversions
	}
	var copyCandidates []*groupAgg
	for _, name := range groupOrder {
		if g := groups[name]; g.conv > 5 {
			copyCandidates = append(copyCandidates, g)
		}
	}
	sort.SliceStable(copyCandidates, func(i, j int) bool { return copyCandidates[i].conv > copyCandidates[j].conv })
	for _, g := range capN(copyCandidates, 2) {
		// A tested headline variant typically lifts CTR ~12%; conversions
		// follow clicks at constant rate.
		addConv := g.conv * 0.12
		recs = append(recs, gRec(models.KindAdCopy, models.Recommendation{
			Action: fmt.Sprintf("Add a responsive search ad variant to '%s'", g.name),
			Reason: fmt.Sprintf("Ad group drives %.0f conversions - highest-leverage place to test copy", g.conv),
			ExpectedImpact: fmt.Sprintf("+%.1f conversions/month", addConv*4),
			Priority:       models.PriorityMedium,
			Impact: models.ImpactEstimate{
				AdditionalConversionsMonthly: addConv * 4,
				Confidence:                   models.ConfidenceModerate,
				ConfidencePct:                65,
				Formula:                      fmt.Sprintf("%.0f conv × 12%% CTR lift × 4 weeks", g.conv),
				Assumptions: []string{
					"New ad variant lifts CTR ~12%",
					"Conversion rate holds as clicks grow",
				},
			},
			Target: models.Target{AdGroupName: g.name, CampaignName: g.campaignName},
		}))
	}

	// 5. Negative keywords. A word already covered by an earlier suggestion
	// in this run is skipped.
	seenNegatives := map[string]struct{}{}
	var negatives []string
	var negativeSpend float64
	for _, s := range capN(ins.SearchQueries.NegativeKeywordSuggestions, 5) {
		if _, ok := seenNegatives[s.NegativeKeyword]; ok {
			continue
		}
		seenNegatives[s.NegativeKeyword] = struct{}{}
		negatives = append(negatives, s.NegativeKeyword)
		negativeSpend += s.WastedSpend
	}
	if len(negatives) > 0 {
		recs = append(recs, gRec(models.KindKeywordAction, models.Recommendation{
			Action: fmt.Sprintf("Add %d negative keywords: %s", len(negatives), strings.Join(negatives, ", ")),
			Reason: fmt.Sprintf("Searches matching these words spent %s %.2f with 0 conversions", cur, negativeSpend),
			ExpectedImpact: fmt.Sprintf("Save up to %s %.2f/month", cur, negativeSpend*4),
			Priority:       models.PriorityHigh,
			Impact: models.ImpactEstimate{
				MonthlySavings: negativeSpend * 4,
				Confidence:     models.ConfidenceHigh,
				ConfidencePct:  85,
				Formula:        fmt.Sprintf("%s %.2f weekly waste × 4 weeks blocked", cur, negativeSpend),
				Assumptions: []string{
					"Matched searches continue at the observed rate if not blocked",
				},
			},
			Target: models.Target{
				KeywordAction:    "add_negative",
				NegativeKeywords: negatives,
			},
		}))
	}

	// 6. Individual wasted search queries not already covered by a negative.
	wasteCount := 0
	for _, q := range ins.SearchQueries.WastedSpendQueries {
		if wasteCount >= 5 || q.Spend <= 5 {
			continue
		}
		covered := false
		for _, w := range analyze.IntentWords(q.SearchTerm) {
			if _, ok := seenNegatives[w]; ok {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		wasteCount++
		est := calc.Exclusion(q.Spend)
		recs = append(recs, gRec(models.KindKeywordAction, models.Recommendation{
			Action:         fmt.Sprintf("Add exact negative: \"%s\"", q.SearchTerm),
			Reason:         fmt.Sprintf("%s %.2f spent on this search with 0 conversions", cur, q.Spend),
			ExpectedImpact: fmt.Sprintf("Save %s %.2f/month", cur, est.MonthlySavings),
			Priority:       models.PriorityMedium,
			Impact:         est,
			Target: models.Target{
				KeywordAction:    "add_negative",
				NegativeKeywords: []string{q.SearchTerm},
				AdGroupName:      q.AdGroup,
				CampaignName:     q.CampaignName,
				CampaignID:       q.CampaignID,
			},
		}))
	}

	// 7. Quality-score roadmap.
	for _, plan := range capN(ins.QualityScores.ImprovementPlan, 3) {
		priority := models.PriorityMedium
		if plan.Priority == 1 {
			priority = models.PriorityHigh
		}
		recs = append(recs, gRec(models.KindQualityImprovement, models.Recommendation{
			Action: fmt.Sprintf("%s (%d keywords)", plan.Issue, plan.AffectedKeywords),
			Reason: strings.Join(plan.Actions, "; "),
			ExpectedImpact: plan.ExpectedImpact,
			Priority:       priority,
			Impact: models.ImpactEstimate{
				Confidence:    models.ConfidenceModerate,
				ConfidencePct: 60,
				Formula:       "Quality Score lift reduces CPC on affected keywords",
				Assumptions:   []string{plan.ExpectedImpact},
			},
		}))
	}

	// 8. Geo bids.
	for _, loc := range capN(ins.GeoBids.ScaleLocations, 2) {
		multiplier := 1.0
		if loc.CPA > 0 && ins.GeoBids.AvgCPA > 0 {
			multiplier = ins.GeoBids.AvgCPA / loc.CPA
		}
		est := calc.GeoAdjustment(loc.Spend, loc.Conversions, multiplier, 0)
		recs = append(recs, gRec(models.KindGeoBidAdjustment, models.Recommendation{
			Action:         fmt.Sprintf("Raise location bid adjustment for '%s'", loc.Location),
			Reason:         fmt.Sprintf("CPA %s %.2f is %.0f%% below the geo average", cur, loc.CPA, loc.VsAvg),
			ExpectedImpact: fmt.Sprintf("+%.1f conversions/month", est.AdditionalConversionsMonthly),
			Priority:       models.PriorityMedium,
			Impact:         est,
			Target:         models.Target{Location: loc.Location},
		}))
	}
	for _, loc := range capN(ins.GeoBids.CutLocations, 2) {
		est := calc.Exclusion(loc.Spend)
		recs = append(recs, gRec(models.KindGeoExclusion, models.Recommendation{
			Action:         fmt.Sprintf("Exclude location '%s'", loc.Location),
			Reason:         fmt.Sprintf("%s %.2f spent, %d clicks, 0 conversions", cur, loc.Spend, loc.Clicks),
			ExpectedImpact: fmt.Sprintf("Save %s %.2f/month", cur, est.MonthlySavings),
			Priority:       models.PriorityMedium,
			Impact:         est,
			Target:         models.Target{Location: loc.Location, RegionKey: loc.RegionKey},
		}))
	}

	// 9. Schedule bids.
	var wastedHourSpend float64
	for _, h := range ins.Time.WorstHours {
		wastedHourSpend += h.Spend
	}
	if wastedHourSpend > 10 && ins.Time.BestHour != nil {
		est := calc.Schedule(wastedHourSpend, 2.5, snap.Summary.OverallCPA, 0)
		recs = append(recs, gRec(models.KindScheduleBidAdjustment, models.Recommendation{
			Action: "Lower bids in dead hours, raise in peak hours",
			Reason: fmt.Sprintf("%s %.2f spent in hours with 0 conversions; peak is %s",
				cur, wastedHourSpend, ins.Time.BestHour.HourLabel),
			ExpectedImpact: fmt.Sprintf("+%.1f conversions/month", est.AdditionalConversionsMonthly),
			Priority:       models.PriorityMedium,
			Impact:         est,
			Target:         models.Target{BestHours: []int{ins.Time.BestHour.Hour}},
		}))
	}

	sortByPriority(recs)
	return capN(recs, maxRecommendations)
}
