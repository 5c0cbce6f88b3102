// Package impact holds the formulas that turn one flagged record into one
// projected monthly financial effect. Every multiplier here is a hardcoded
// domain assumption, documented in each estimate's assumptions list; there is
// no learning or calibration.
package impact

import (
	"fmt"

	"github.com/growthops/adscope/internal/models"
)

const (
	// weeksPerMonth scales weekly observations to monthly projections.
	weeksPerMonth = 4

	// defaultCustomerValueMultiple is the recurring convention for revenue
	// per conversion when the caller does not supply one: 3x the observed
	// CPA (a 200% ROI target). Applied by every formula through
	// customerValue so the projections cannot diverge.
	defaultCustomerValueMultiple = 3

	// fallbackCustomerValue is used when there is no CPA to anchor on.
	fallbackCustomerValue = 100
)

// Calculator evaluates impact formulas for one account. Currency is only
// used in the human-readable formula and assumption strings.
type Calculator struct {
	Currency string
}

// NewCalculator returns a Calculator. An empty currency defaults to RM.
func NewCalculator(currency string) Calculator {
	if currency == "" {
		currency = "RM"
	}
	return Calculator{Currency: currency}
}

// customerValue resolves the revenue-per-conversion used by a formula.
// provided <= 0 means the caller did not supply one: estimate 3x CPA when
// conversions exist, otherwise fall back to a flat default. The note is the
// text shown in formulas and assumptions.
func (c Calculator) customerValue(spend, conversions, provided float64) (float64, string) {
	if provided > 0 {
		return provided, fmt.Sprintf("%s %g", c.Currency, provided)
	}
	if conversions > 0 {
		v := (spend / conversions) * defaultCustomerValueMultiple
		return v, fmt.Sprintf("%s %.0f (estimated 3× CPA)", c.Currency, v)
	}
	return fallbackCustomerValue, fmt.Sprintf("%s %d (estimated)", c.Currency, fallbackCustomerValue)
}

// Exclusion projects the effect of stopping spend on a zero-conversion
// segment: the whole weekly spend is treated as waste that continues unless
// excluded.
func (c Calculator) Exclusion(weeklySpend float64) models.ImpactEstimate {
	monthly := weeklySpend * weeksPerMonth
	return models.ImpactEstimate{
		MonthlySavings: monthly,
		Confidence:     models.ConfidenceHigh,
		ConfidencePct:  90,
		Formula: fmt.Sprintf("Weekly spend (%s %.2f) × 4 weeks = %s %.2f saved",
			c.Currency, weeklySpend, c.Currency, monthly),
		Assumptions: []string{
			"Segment has 0 conversions, all spend is waste",
			"Trend continues if not excluded",
		},
	}
}

// Scaling projects increasing budget on a winner, with diminishing returns:
// volume grows at only 20% while CPA degrades by 10%. A segment with no
// conversions cannot be scaled and gets the zero/low-confidence fallback.
func (c Calculator) Scaling(weeklySpend, weeklyConversions, scaleFactor, custValue float64) models.ImpactEstimate {
	if weeklyConversions == 0 {
		return models.ImpactEstimate{
			Confidence:    models.ConfidenceLow,
			ConfidencePct: 30,
			Formula:       "No conversions to scale from",
			Assumptions:   []string{},
		}
	}

	currentCPA := weeklySpend / weeklyConversions
	value, valueNote := c.customerValue(weeklySpend, weeklyConversions, custValue)

	// Volume does not scale 1:1 with budget, and scaled traffic converts
	// at lower intent.
	const volumeIncreaseRate = 0.20
	const cpaDegradation = 1.10

	newCPA := currentCPA * cpaDegradation
	addConversions := weeklyConversions * volumeIncreaseRate
	addRevenue := addConversions * value
	addSpend := addConversions * newCPA
	netBenefit := addRevenue - addSpend

	return models.ImpactEstimate{
		AdditionalConversionsMonthly: addConversions * weeksPerMonth,
		AdditionalSpendMonthly:       addSpend * weeksPerMonth,
		AdditionalRevenueMonthly:     addRevenue * weeksPerMonth,
		NetBenefitMonthly:            netBenefit * weeksPerMonth,
		NewCPA:                       newCPA,
		Confidence:                   models.ConfidenceModerate,
		ConfidencePct:                70,
		Formula: fmt.Sprintf("%.1f conv × 20%% growth × %s - %.1f conv × %s %.2f CPA",
			weeklyConversions, valueNote, addConversions, c.Currency, newCPA),
		Assumptions: []string{
			fmt.Sprintf("%d%% budget increase → 20%% volume increase (diminishing returns)", int((scaleFactor-1)*100)),
			"CPA increases 10% (lower intent traffic)",
			"Customer value: " + valueNote,
		},
	}
}

// CreativeRefresh projects replacing a fatigued creative. The uplift is
// tiered by frequency severity; only the conversion-rate uplift is
// monetized since the budget is assumed held constant.
func (c Calculator) CreativeRefresh(weeklySpend, frequency, currentCTR, weeklyConversions, custValue float64) models.ImpactEstimate {
	var ctrImprovement, convRateImprovement float64
	var confidencePct int
	switch {
	case frequency > 5:
		ctrImprovement, convRateImprovement, confidencePct = 0.40, 0.10, 75
	case frequency > 3:
		ctrImprovement, convRateImprovement, confidencePct = 0.25, 0.10, 70
	default:
		ctrImprovement, convRateImprovement, confidencePct = 0.15, 0.05, 60
	}

	value, valueNote := c.customerValue(weeklySpend, weeklyConversions, custValue)

	addConversions := weeklyConversions * convRateImprovement
	addRevenue := addConversions * value

	return models.ImpactEstimate{
		AdditionalConversionsMonthly: addConversions * weeksPerMonth,
		AdditionalRevenueMonthly:     addRevenue * weeksPerMonth,
		NetBenefitMonthly:            addRevenue * weeksPerMonth,
		CTRImprovementPct:            int(ctrImprovement * 100),
		ConvRateImprovementPct:       int(convRateImprovement * 100),
		Confidence:                   models.ConfidenceModerate,
		ConfidencePct:                confidencePct,
		Formula: fmt.Sprintf("CTR +%d%% + Conv Rate +%d%% = %.1f more conv/week",
			int(ctrImprovement*100), int(convRateImprovement*100), addConversions),
		Assumptions: []string{
			fmt.Sprintf("Frequency %.1f indicates creative fatigue", frequency),
			fmt.Sprintf("CTR improvement: +%d%%", int(ctrImprovement*100)),
			fmt.Sprintf("Conversion rate improvement: +%d%%", int(convRateImprovement*100)),
			"Customer value: " + valueNote,
		},
	}
}

// Schedule projects redirecting spend from low-performing hours to peak
// windows. Savings are deliberately not counted on top of the projected
// revenue to avoid double-counting.
func (c Calculator) Schedule(wastedWeeklySpend, peakMultiplier, avgCPA, custValue float64) models.ImpactEstimate {
	if peakMultiplier <= 0 {
		peakMultiplier = 2.5
	}
	if avgCPA <= 0 {
		avgCPA = 50
	}
	value := custValue
	valueNote := fmt.Sprintf("%s %g", c.Currency, custValue)
	if custValue <= 0 {
		value = avgCPA * defaultCustomerValueMultiple
		valueNote = fmt.Sprintf("%s %.0f (estimated 3× CPA)", c.Currency, value)
	}

	redirected := (wastedWeeklySpend / avgCPA) * peakMultiplier
	addRevenue := redirected * value

	return models.ImpactEstimate{
		AdditionalConversionsMonthly: redirected * weeksPerMonth,
		AdditionalRevenueMonthly:     addRevenue * weeksPerMonth,
		NetBenefitMonthly:            addRevenue * weeksPerMonth,
		Confidence:                   models.ConfidenceModerate,
		ConfidencePct:                70,
		Formula: fmt.Sprintf("%s %.2f redirected to peak hours (%gx conversion rate)",
			c.Currency, wastedWeeklySpend, peakMultiplier),
		Assumptions: []string{
			"Peak hours convert at 2.5× average rate",
			fmt.Sprintf("Redirect %s %.2f/week to peak hours", c.Currency, wastedWeeklySpend),
			fmt.Sprintf("Average CPA: %s %g", c.Currency, avgCPA),
			"Customer value: " + valueNote,
		},
	}
}

// BidAdjustment projects a Google Ads bid change. Increases scale volume at
// 80% efficiency; decreases save spend 1:1 with the cut but lose a flat 20%
// of conversions regardless of the cut size. The asymmetry is observed
// platform behavior and is kept as-is (see DESIGN.md).
func (c Calculator) BidAdjustment(currentBid, suggestedBid, weeklySpend, weeklyConversions, custValue float64) models.ImpactEstimate {
	if currentBid == 0 {
		return models.ImpactEstimate{
			Confidence:    models.ConfidenceLow,
			ConfidencePct: 30,
			Formula:       "Invalid current bid",
			Assumptions:   []string{},
		}
	}

	bidChange := (suggestedBid - currentBid) / currentBid
	value, valueNote := c.customerValue(weeklySpend, weeklyConversions, custValue)

	if bidChange > 0 {
		volumeIncrease := bidChange * 0.8
		var addConversions float64
		if weeklyConversions > 0 {
			addConversions = weeklyConversions * volumeIncrease
		}
		addRevenue := addConversions * value
		addSpend := weeklySpend * bidChange

		return models.ImpactEstimate{
			AdditionalConversionsMonthly: addConversions * weeksPerMonth,
			AdditionalSpendMonthly:       addSpend * weeksPerMonth,
			AdditionalRevenueMonthly:     addRevenue * weeksPerMonth,
			NetBenefitMonthly:            (addRevenue - addSpend) * weeksPerMonth,
			Confidence:                   models.ConfidenceModerate,
			ConfidencePct:                70,
			Formula: fmt.Sprintf("+%d%% bid → +%d%% volume = %.1f conv/week",
				int(bidChange*100), int(volumeIncrease*100), addConversions),
			Assumptions: []string{
				fmt.Sprintf("%d%% bid increase → %d%% volume increase (80%% efficiency)",
					int(bidChange*100), int(volumeIncrease*100)),
				"Customer value: " + valueNote,
			},
		}
	}

	savings := weeklySpend * bidChange
	if savings < 0 {
		savings = -savings
	}
	var lost float64
	if weeklyConversions > 0 {
		lost = weeklyConversions * 0.20
	}
	cutPct := int(-bidChange * 100)

	return models.ImpactEstimate{
		MonthlySavings:               savings * weeksPerMonth,
		ConversionsLostMonthly:       lost * weeksPerMonth,
		AdditionalConversionsMonthly: -lost,
		NetBenefitMonthly:            savings * weeksPerMonth,
		Confidence:                   models.ConfidenceModerate,
		ConfidencePct:                70,
		Formula:                      fmt.Sprintf("%d%% bid cut → save %s %.2f/week", cutPct, c.Currency, savings),
		Assumptions: []string{
			fmt.Sprintf("%d%% bid decrease → save %d%% spend", cutPct, cutPct),
			"Lose ~20% of conversions",
		},
	}
}

// GeoAdjustment projects geographic bid changes. Clearly poor geos fall
// through to the exclusion model, clearly strong ones to a modest scaling,
// and the middle band gets a conservative half-strength bid adjustment at
// 80% efficiency.
func (c Calculator) GeoAdjustment(weeklySpend, weeklyConversions, performanceMultiplier, custValue float64) models.ImpactEstimate {
	if performanceMultiplier < 0.5 {
		return c.Exclusion(weeklySpend)
	}
	if performanceMultiplier > 1.5 {
		return c.Scaling(weeklySpend, weeklyConversions, 1.20, custValue)
	}

	value, valueNote := c.customerValue(weeklySpend, weeklyConversions, custValue)

	bidAdjustment := (performanceMultiplier - 1.0) * 0.5
	spendChange := weeklySpend * bidAdjustment
	convChange := weeklyConversions * bidAdjustment * 0.8
	revenueChange := convChange * value
	netBenefit := revenueChange - spendChange

	est := models.ImpactEstimate{
		AdditionalConversionsMonthly: convChange * weeksPerMonth,
		AdditionalRevenueMonthly:     revenueChange * weeksPerMonth,
		NetBenefitMonthly:            netBenefit * weeksPerMonth,
		Confidence:                   models.ConfidenceModerate,
		ConfidencePct:                70,
		Formula: fmt.Sprintf("Geo performs %.1fx avg → %d%% bid adjustment",
			performanceMultiplier, int(bidAdjustment*100)),
		Assumptions: []string{
			fmt.Sprintf("Geographic performance: %.1f× average", performanceMultiplier),
			"Conservative bid adjustment (50% of performance difference)",
			"Customer value: " + valueNote,
		},
	}
	if spendChange > 0 {
		est.AdditionalSpendMonthly = spendChange * weeksPerMonth
	} else if spendChange < 0 {
		est.MonthlySavings = -spendChange * weeksPerMonth
	}
	return est
}

// BudgetAdjustment projects a campaign daily-budget change. Increases reuse
// the scaling model on weekly figures; decreases save the daily delta over a
// 30-day month with a proportional conversion loss.
func (c Calculator) BudgetAdjustment(currentBudget, suggestedBudget, dailyConversions, custValue float64) models.ImpactEstimate {
	var budgetChange float64
	if currentBudget > 0 {
		budgetChange = (suggestedBudget - currentBudget) / currentBudget
	}

	if budgetChange > 0 {
		return c.Scaling(currentBudget*7, dailyConversions*7, 1+budgetChange, custValue)
	}

	delta := currentBudget - suggestedBudget
	if delta < 0 {
		delta = -delta
	}
	savings := delta * 30
	cut := budgetChange
	if cut < 0 {
		cut = -cut
	}
	lost := dailyConversions * cut * 30

	return models.ImpactEstimate{
		MonthlySavings:               savings,
		ConversionsLostMonthly:       lost,
		AdditionalConversionsMonthly: -lost,
		NetBenefitMonthly:            savings,
		Confidence:                   models.ConfidenceModerate,
		ConfidencePct:                70,
		Formula:                      fmt.Sprintf("%d%% budget cut → save %s %.2f/month", int(cut*100), c.Currency, savings),
		Assumptions: []string{
			fmt.Sprintf("%d%% budget decrease", int(cut*100)),
			"Proportional conversion loss expected",
		},
	}
}
