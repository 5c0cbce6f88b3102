package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/growthops/adscope/internal/analyze"
	"github.com/growthops/adscope/internal/impact"
	"github.com/growthops/adscope/internal/models"
)

const maxRecommendations = 20

// topActiveAdSet resolves the ad set an audience-level change should be
// applied to: the ACTIVE ad set with the most conversions (spend breaks
// ties), falling back to any ACTIVE ad set when nothing converts.
func topActiveAdSet(adSets []models.AdSet) *models.AdSet {
	var best *models.AdSet
	for i := range adSets {
		as := &adSets[i]
		if as.Status != "ACTIVE" || as.Conversions == 0 {
			continue
		}
		if best == nil || as.Conversions > best.Conversions ||
			(as.Conversions == best.Conversions && as.Spend > best.Spend) {
			best = as
		}
	}
	if best != nil {
		return best
	}
	for i := range adSets {
		if adSets[i].Status == "ACTIVE" {
			return &adSets[i]
		}
	}
	return nil
}

func fbRec(kind models.Kind, rec models.Recommendation) models.Recommendation {
	rec.Kind = kind
	rec.Automation = AutomationFor(models.PlatformFacebook, kind)
	return rec
}

// Facebook assembles the Facebook recommendation list from one snapshot's
// insights. Section order is fixed; each section has its own cap; the final
// list is stably sorted by priority and capped.
func Facebook(snap models.Snapshot, ins analyze.FacebookInsights, calc impact.Calculator) []models.Recommendation {
	var recs []models.Recommendation
	cur := calc.Currency
	topAdSet := topActiveAdSet(snap.AdSets)

	// 1. Wasted audience segments.
	for _, seg := range capN(ins.Audience.WastedSegments, 3) {
		est := calc.Exclusion(seg.Spend)
		target := models.Target{Segment: seg.Segment, SegmentType: seg.Type}
		if topAdSet != nil {
			target.AdSetID = topAdSet.AdSetID
			target.AdSetName = topAdSet.AdSetName
		}
		recs = append(recs, fbRec(models.KindAudienceExclusion, models.Recommendation{
			Action:         fmt.Sprintf("Exclude segment '%s' from targeting", seg.Segment),
			Reason:         fmt.Sprintf("%s %.2f spent with 0 conversions (%d clicks)", cur, seg.Spend, seg.Clicks),
			ExpectedImpact: fmt.Sprintf("Save %s %.2f/month", cur, est.MonthlySavings),
			Priority:       models.PriorityHigh,
			Impact:         est,
			Target:         target,
		}))
	}

	// 2. Fatigued creatives.
	for _, ad := range capN(ins.CreativeFatigue.FatiguedAds, 3) {
		est := calc.CreativeRefresh(ad.Spend, ad.Frequency, ad.CTR, ad.Conversions, 0)
		priority := models.PriorityMedium
		if ad.FatigueLevel == "critical" {
			priority = models.PriorityHigh
		}
		recs = append(recs, fbRec(models.KindCreativeRefresh, models.Recommendation{
			Action:         fmt.Sprintf("Refresh creative for '%s'", ad.AdName),
			Reason:         strings.Join(ad.Issues, "; "),
			ExpectedImpact: fmt.Sprintf("+%.1f conversions/month", est.AdditionalConversionsMonthly),
			Priority:       priority,
			Impact:         est,
			Target:         models.Target{AdName: ad.AdName, CampaignName: ad.CampaignName},
		}))
	}

	// 3. Poor placements.
	placementCount := 0
	for _, pl := range ins.Placements.Placements {
		if pl.Efficiency != "poor" || pl.Spend <= 10 || placementCount >= 3 {
			continue
		}
		placementCount++
		est := calc.Exclusion(pl.Spend)
		priority := models.PriorityMedium
		if pl.Spend > 50 {
			priority = models.PriorityHigh
		}
		recs = append(recs, fbRec(models.KindPlacementExclusion, models.Recommendation{
			Action:         fmt.Sprintf("Exclude placement '%s' (%s)", pl.PlacementName, pl.Platform),
			Reason:         fmt.Sprintf("%s %.2f spent with 0 conversions", cur, pl.Spend),
			ExpectedImpact: fmt.Sprintf("Save %s %.2f/month", cur, est.MonthlySavings),
			Priority:       priority,
			Impact:         est,
			Target:         models.Target{Placement: pl.PlacementName},
		}))
	}

	// 4. Budget pacing drift. Only daily budgets are adjustable here;
	// lifetime pacing stays informational on the dashboard.
	for _, p := range ins.BudgetPacing.CampaignPacing {
		if p.BudgetType != "daily" {
			continue
		}
		switch p.Status {
		case "underspending":
			est := calc.Scaling(p.AvgDailySpend*7, 0, 1.0, 0)
			recs = append(recs, fbRec(models.KindBudgetAdjustment, models.Recommendation{
				Action:         fmt.Sprintf("Raise delivery for '%s' (expand audience or bids)", p.CampaignName),
				Reason:         fmt.Sprintf("Only %.0f%% of %s budget being spent", p.UtilizationPct, p.BudgetType),
				ExpectedImpact: "Capture unspent budget as additional volume",
				Priority:       models.PriorityMedium,
				Impact:         est,
				Target: models.Target{
					CampaignName: p.CampaignName,
					Current:      fmt.Sprintf("%.2f", p.AvgDailySpend),
					Suggested:    fmt.Sprintf("%.2f", p.Budget),
				},
			}))
		case "overspending":
			est := calc.BudgetAdjustment(p.AvgDailySpend, p.Budget, 0, 0)
			recs = append(recs, fbRec(models.KindBudgetAdjustment, models.Recommendation{
				Action:         fmt.Sprintf("Rein in spend for '%s'", p.CampaignName),
				Reason:         fmt.Sprintf("Spending %.0f%% of %s budget", p.UtilizationPct, p.BudgetType),
				ExpectedImpact: fmt.Sprintf("Save %s %.2f/month", cur, est.MonthlySavings),
				Priority:       models.PriorityLow,
				Impact:         est,
				Target: models.Target{
					CampaignName: p.CampaignName,
					Current:      fmt.Sprintf("%.2f", p.AvgDailySpend),
					Suggested:    fmt.Sprintf("%.2f", p.Budget),
				},
			}))
		}
	}

	// 5. Poor locations.
	for _, loc := range capN(ins.Geo.PoorLocations, 2) {
		est := calc.Exclusion(loc.Spend)
		recs = append(recs, fbRec(models.KindGeoExclusion, models.Recommendation{
			Action:         fmt.Sprintf("Exclude location '%s'", loc.Location),
			Reason:         fmt.Sprintf("%s %.2f spent, %d clicks, 0 conversions", cur, loc.Spend, loc.Clicks),
			ExpectedImpact: fmt.Sprintf("Save %s %.2f/month", cur, est.MonthlySavings),
			Priority:       models.PriorityMedium,
			Impact:         est,
			Target:         models.Target{Location: loc.Location, RegionKey: loc.RegionKey},
		}))
	}

	// 6. Hour-of-day schedule.
	var wastedHourSpend float64
	for _, h := range ins.Time.WorstHours {
		wastedHourSpend += h.Spend
	}
	if wastedHourSpend > 10 && ins.Time.BestHour != nil {
		est := calc.Schedule(wastedHourSpend, 2.5, snap.Summary.OverallCPA, 0)
		recs = append(recs, fbRec(models.KindScheduleAdjustment, models.Recommendation{
			Action: "Shift budget from dead hours to peak hours",
			Reason: fmt.Sprintf("%s %.2f spent in hours with 0 conversions; peak is %s",
				cur, wastedHourSpend, ins.Time.BestHour.HourLabel),
			ExpectedImpact: fmt.Sprintf("+%.1f conversions/month", est.AdditionalConversionsMonthly),
			Priority:       models.PriorityMedium,
			Impact:         est,
			Target:         models.Target{BestHours: []int{ins.Time.BestHour.Hour}},
		}))
	}

	// 7a. Scale the winners.
	for _, sc := range capN(ins.TopPerformers.ScaleCandidates, 3) {
		est := calc.Scaling(sc.Spend, sc.Conversions, 1.20, 0)
		target := models.Target{CampaignName: sc.Name}
		if sc.Level == "ad_set" {
			target = models.Target{AdSetName: sc.Name, CampaignName: sc.Campaign}
		}
		recs = append(recs, fbRec(models.KindBudgetScaling, models.Recommendation{
			Action: fmt.Sprintf("Increase budget 20%% for %s '%s'", sc.Level, sc.Name),
			Reason: fmt.Sprintf("CPA %s %.2f is %.0f%% below account average with %.1f%% conversion rate",
				cur, sc.CPA, sc.VsAvgCPA, sc.ConvRate),
			ExpectedImpact: fmt.Sprintf("+%.1f conversions/month", est.AdditionalConversionsMonthly),
			Priority:       models.PriorityHigh,
			Impact:         est,
			Target:         target,
		}))
	}
	// 7b. Review the burners.
	for _, rv := range capN(ins.TopPerformers.ReviewCandidates, 2) {
		est := calc.Exclusion(rv.Spend)
		recs = append(recs, fbRec(models.KindCampaignReview, models.Recommendation{
			Action:         fmt.Sprintf("Pause or rework campaign '%s'", rv.Name),
			Reason:         fmt.Sprintf("%s: %s %.2f spent, %d clicks", rv.Issue, cur, rv.Spend, rv.Clicks),
			ExpectedImpact: fmt.Sprintf("Save %s %.2f/month", cur, est.MonthlySavings),
			Priority:       models.PriorityHigh,
			Impact:         est,
			Target:         models.Target{CampaignName: rv.Name},
		}))
	}

	// 8. Audience saturation.
	for _, fc := range capN(ins.AudienceFatigue.FatiguedCampaigns, 2) {
		est := calc.CreativeRefresh(fc.Spend, fc.Frequency, 0, 0, 0)
		priority := models.PriorityMedium
		if fc.Severity == "critical" {
			priority = models.PriorityHigh
		}
		recs = append(recs, fbRec(models.KindAudienceFatigue, models.Recommendation{
			Action:         fmt.Sprintf("Expand audience for '%s'", fc.CampaignName),
			Reason:         analyze.FatigueSuggestionText(fc),
			ExpectedImpact: "Restore reach efficiency before CTR collapses",
			Priority:       priority,
			Impact:         est,
			Target:         models.Target{CampaignName: fc.CampaignName},
		}))
	}

	// 9. Day-of-week waste.
	if len(ins.DayOfWeek.WastedDays) > 0 {
		est := calc.Schedule(ins.DayOfWeek.TotalWastedOnDays, 2.5, snap.Summary.OverallCPA, 0)
		var days []string
		for _, d := range capN(ins.DayOfWeek.WastedDays, 3) {
			days = append(days, d.Day)
		}
		recs = append(recs, fbRec(models.KindDaySchedule, models.Recommendation{
			Action: fmt.Sprintf("Reduce delivery on %s", strings.Join(days, ", ")),
			Reason: fmt.Sprintf("%s %.2f spent on days with 0 conversions", cur, ins.DayOfWeek.TotalWastedOnDays),
			ExpectedImpact: fmt.Sprintf("+%.1f conversions/month redirected to strong days",
				est.AdditionalConversionsMonthly),
			Priority: models.PriorityMedium,
			Impact:   est,
			Target:   models.Target{WastedDays: days},
		}))
	}

	// 10. Objective mismatches.
	for _, mm := range capN(ins.Objectives.Mismatches, 2) {
		var est models.ImpactEstimate
		if mm.Conversions > 0 {
			est = calc.Scaling(mm.Spend, mm.Conversions, 1.20, 0)
		} else {
			est = calc.Exclusion(mm.Spend)
		}
		recs = append(recs, fbRec(models.KindObjectiveMismatch, models.Recommendation{
			Action: fmt.Sprintf("Recreate '%s' with objective %s", mm.CampaignName, mm.SuggestedObjective),
			Reason: mm.Reason,
			ExpectedImpact: fmt.Sprintf("Align optimization with observed results (currently %s)",
				mm.CurrentObjective),
			Priority: mm.Priority,
			Impact:   est,
			Target: models.Target{
				CampaignName: mm.CampaignName,
				Current:      mm.CurrentObjective,
				Suggested:    mm.SuggestedObjective,
			},
		}))
	}

	// 11a. ROAS winners.
	for _, op := range capN(ins.ROAS.ScaleOpportunities, 2) {
		var custValue float64
		if op.Conversions > 0 {
			custValue = op.ConversionValue / op.Conversions
		}
		est := calc.Scaling(op.Spend, op.Conversions, 1.20, custValue)
		target := models.Target{CampaignName: op.Name}
		if op.Level == "ad_set" {
			target = models.Target{AdSetName: op.Name, CampaignName: op.Campaign}
		}
		recs = append(recs, fbRec(models.KindROASScaling, models.Recommendation{
			Action:         fmt.Sprintf("Scale %s '%s' (%.1fx ROAS)", op.Level, op.Name, op.ROAS),
			Reason:         fmt.Sprintf("Returning %s %.2f on %s %.2f spend", cur, op.ConversionValue, cur, op.Spend),
			ExpectedImpact: fmt.Sprintf("+%s %.2f revenue/month", cur, est.AdditionalRevenueMonthly),
			Priority:       models.PriorityHigh,
			Impact:         est,
			Target:         target,
		}))
	}
	// 11b. ROAS losers.
	for _, op := range capN(ins.ROAS.ReviewOpportunities, 2) {
		est := calc.Exclusion(op.Spend)
		recs = append(recs, fbRec(models.KindROASReview, models.Recommendation{
			Action:         fmt.Sprintf("Review campaign '%s' (%.1fx ROAS)", op.Name, op.ROAS),
			Reason:         fmt.Sprintf("Losing %s %.2f over the period", cur, op.Loss),
			ExpectedImpact: fmt.Sprintf("Stop %s %.2f/month in losses", cur, est.MonthlySavings),
			Priority:       models.PriorityHigh,
			Impact:         est,
			Target:         models.Target{CampaignName: op.Name},
		}))
	}

	// 12. Creative A/B tests.
	for _, ts := range capN(ins.Creative.TestSuggestions, 2) {
		est := calc.CreativeRefresh(snap.Summary.TotalSpend, 0, 0, snap.Summary.TotalConversions, 0)
		recs = append(recs, fbRec(models.KindCreativeTest, models.Recommendation{
			Action:         fmt.Sprintf("Run %s", strings.ReplaceAll(ts.Type, "_", " ")),
			Reason:         ts.Suggestion,
			ExpectedImpact: "Identify the winning creative pattern before scaling spend",
			Priority:       models.PriorityMedium,
			Impact:         est,
		}))
	}

	// 13. Geo scaling.
	for _, loc := range capN(ins.GeoBids.ScaleLocations, 2) {
		multiplier := 1.0
		if loc.CPA > 0 && ins.GeoBids.AvgCPA > 0 {
			multiplier = ins.GeoBids.AvgCPA / loc.CPA
		}
		est := calc.GeoAdjustment(loc.Spend, loc.Conversions, multiplier, 0)
		recs = append(recs, fbRec(models.KindGeoScaling, models.Recommendation{
			Action: fmt.Sprintf("Increase budget share for '%s'", loc.Location),
			Reason: fmt.Sprintf("CPA %s %.2f is %.0f%% below the geo average", cur, loc.CPA, loc.VsAvg),
			ExpectedImpact: fmt.Sprintf("+%.1f conversions/month", est.AdditionalConversionsMonthly),
			Priority:       models.PriorityMedium,
			Impact:         est,
			Target:         models.Target{Location: loc.Location},
		}))
	}

	// 14. Landing page issues.
	for _, issue := range capN(ins.LandingPages.Issues, 2) {
		est := calc.CreativeRefresh(issue.Spend, 0, 0, 0, 0)
		recs = append(recs, fbRec(models.KindLandingPage, models.Recommendation{
			Action:         fmt.Sprintf("Fix landing page %s", issue.URL),
			Reason:         issue.Issue,
			ExpectedImpact: "Lift on-page conversion rate for existing traffic",
			Priority:       models.PriorityMedium,
			Impact:         est,
			Target:         models.Target{FinalURL: issue.URL},
		}))
	}

	sortByPriority(recs)
	return capN(recs, maxRecommendations)
}

// sortByPriority orders high before medium before low, keeping the section
// order within each priority band.
func sortByPriority(recs []models.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
}

func capN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
