package recommend

import (
	"fmt"
	"strings"

	"github.com/growthops/adscope/internal/models"
)

// Narrative renders the plain-language summary shown at the top of a
// platform's insight report: what the account did, what to fix first, and
// what the fixes are worth.
func Narrative(snap models.Snapshot, recs []models.Recommendation, totals models.AggregateTotals) string {
	cur := snap.Currency
	if cur == "" {
		cur = "RM"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s account %s spent %s %.2f over %s to %s: %d clicks, %.0f conversions",
		titlePlatform(snap.Platform), snap.AccountName, cur, snap.Summary.TotalSpend,
		snap.DateRange.StartDate, snap.DateRange.EndDate,
		snap.Summary.TotalClicks, snap.Summary.TotalConversions)
	if snap.Summary.OverallCPA > 0 {
		fmt.Fprintf(&b, " at %s %.2f CPA", cur, snap.Summary.OverallCPA)
	}
	b.WriteString(".")

	high := 0
	for _, r := range recs {
		if r.Priority == models.PriorityHigh {
			high++
		}
	}
	if len(recs) == 0 {
		b.WriteString(" No issues found worth acting on.")
		return b.String()
	}

	fmt.Fprintf(&b, " %d recommendations", len(recs))
	if high > 0 {
		fmt.Fprintf(&b, " (%d high priority)", high)
	}
	fmt.Fprintf(&b, " worth an estimated %s %.2f/month net", cur, totals.TotalNetBenefit)
	if totals.AutomatableCount > 0 {
		fmt.Fprintf(&b, "; %d can be applied automatically", totals.AutomatableCount)
	}
	b.WriteString(".")

	if top := TopByNetBenefit(recs, 1); len(top) == 1 {
		fmt.Fprintf(&b, " Biggest single win: %s.", strings.TrimRight(top[0].Action, "."))
	}
	return b.String()
}

func titlePlatform(p models.Platform) string {
	switch p {
	case models.PlatformFacebook:
		return "Facebook"
	case models.PlatformGoogle:
		return "Google Ads"
	default:
		return string(p)
	}
}
