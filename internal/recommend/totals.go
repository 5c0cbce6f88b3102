package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/growthops/adscope/internal/models"
)

// Aggregate sums every recommendation's projected impact under one
// confidence scenario. Each monetary field is scaled by the scenario factor;
// counts are not.
func Aggregate(recs []models.Recommendation, scenario models.Scenario) models.AggregateTotals {
	factor := scenario.Factor()
	totals := models.AggregateTotals{
		ConfidenceLevel:     scenario,
		ConfidenceFactor:    factor,
		BreakdownByKind:     map[models.Kind]*models.KindTotals{},
		BreakdownByPriority: map[models.Priority]int{},
	}

	for _, rec := range recs {
		est := rec.Impact
		savings := est.MonthlySavings * factor
		addConv := est.AdditionalConversionsMonthly * factor
		addRevenue := est.AdditionalRevenueMonthly * factor
		addSpend := est.AdditionalSpendMonthly * factor
		netBenefit := est.NetBenefit() * factor

		totals.TotalMonthlySavings += savings
		totals.TotalAdditionalConversions += addConv
		totals.TotalAdditionalRevenue += addRevenue
		totals.TotalAdditionalSpend += addSpend
		totals.TotalNetBenefit += netBenefit
		totals.TotalRecommendations++

		if rec.Automation.IsAutomatable {
			totals.AutomatableCount++
		} else {
			totals.ManualCount++
		}

		kt, ok := totals.BreakdownByKind[rec.Kind]
		if !ok {
			kt = &models.KindTotals{}
			totals.BreakdownByKind[rec.Kind] = kt
		}
		kt.Count++
		kt.MonthlySavings = models.Round2(kt.MonthlySavings + savings)
		kt.AdditionalConversions = models.Round2(kt.AdditionalConversions + addConv)
		kt.AdditionalRevenue = models.Round2(kt.AdditionalRevenue + addRevenue)
		kt.NetBenefit = models.Round2(kt.NetBenefit + netBenefit)

		totals.BreakdownByPriority[rec.Priority]++
	}

	totals.TotalMonthlySavings = models.Round2(totals.TotalMonthlySavings)
	totals.TotalAdditionalConversions = models.Round2(totals.TotalAdditionalConversions)
	totals.TotalAdditionalRevenue = models.Round2(totals.TotalAdditionalRevenue)
	totals.TotalAdditionalSpend = models.Round2(totals.TotalAdditionalSpend)
	totals.TotalNetBenefit = models.Round2(totals.TotalNetBenefit)
	return totals
}

// TopByNetBenefit returns the n recommendations with the largest projected
// net benefit, best first. Input order breaks ties; the input slice is not
// mutated.
func TopByNetBenefit(recs []models.Recommendation, n int) []models.Recommendation {
	sorted := make([]models.Recommendation, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Impact.NetBenefit() > sorted[j].Impact.NetBenefit()
	})
	return capN(sorted, n)
}

// FormatSummary renders a short human-readable digest of one aggregate for
// logs and the dashboard header.
func FormatSummary(t models.AggregateTotals, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d recommendations (%d automatable, %d manual) under %s confidence (×%.1f): ",
		t.TotalRecommendations, t.AutomatableCount, t.ManualCount, t.ConfidenceLevel, t.ConfidenceFactor)
	fmt.Fprintf(&b, "%s %.2f/month savings, +%.1f conversions, %s %.2f revenue, net %s %.2f",
		currency, t.TotalMonthlySavings, t.TotalAdditionalConversions,
		currency, t.TotalAdditionalRevenue, currency, t.TotalNetBenefit)
	return b.String()
}
