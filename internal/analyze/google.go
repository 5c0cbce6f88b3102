package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/growthops/adscope/internal/models"
)

// WastedQuery is a search term with spend and zero conversions.
type WastedQuery struct {
	SearchTerm   string  `json:"search_term"`
	AdGroup      string  `json:"ad_group"`
	CampaignName string  `json:"campaign_name"`
	CampaignID   string  `json:"campaign_id,omitempty"`
	Spend        float64 `json:"cost"`
	Clicks       int     `json:"clicks"`
}

// NegativeKeywordSuggestion proposes one negative keyword with the waste it
// would prevent.
type NegativeKeywordSuggestion struct {
	NegativeKeyword string  `json:"negative_keyword"`
	MatchType       string  `json:"match_type"`
	Reason          string  `json:"reason"`
	WastedSpend     float64 `json:"wasted_spend"`
}

// SearchQueryReport finds money spent on irrelevant searches.
type SearchQueryReport struct {
	WastedSpendQueries         []WastedQuery               `json:"wasted_spend_queries"`
	NegativeKeywordSuggestions []NegativeKeywordSuggestion `json:"negative_keyword_suggestions"`
	TotalWastedSpend           float64                     `json:"total_wasted_spend"`
	TotalQueries               int                         `json:"total_queries"`
}

// Search-intent word lists. A wasted query containing one of these words is
// a signal the whole intent category should be negated, not just the query.
var (
	informationalWords = []string{"exercises", "symptoms", "what is", "how to", "why", "causes", "pictures"}
	productWords       = []string{"shoes", "brace", "sleeve", "support", "insoles", "cream", "gel"}
	diyWords           = []string{"diy", "home", "natural", "remedies", "free", "at home"}
)

// IntentWords returns the negative-keyword candidates detected inside one
// search term, in word-list order.
func IntentWords(searchTerm string) []string {
	term := strings.ToLower(searchTerm)
	var out []string
	for _, list := range [][]string{informationalWords, productWords, diyWords} {
		for _, w := range list {
			if strings.Contains(term, w) {
				out = append(out, w)
			}
		}
	}
	return out
}

// SearchQueries classifies search terms: anything with spend over 5 and zero
// conversions is waste, and recurring intent words across wasted terms
// become negative-keyword suggestions ranked by the spend they would save.
func SearchQueries(queries []models.SearchQuery) SearchQueryReport {
	var wasted []WastedQuery
	wordSpend := map[string]float64{}
	var wordOrder []string

	for _, q := range queries {
		if q.Conversions == 0 && q.Spend > 5 {
			wasted = append(wasted, WastedQuery{
				SearchTerm:   q.SearchTerm,
				AdGroup:      q.AdGroup,
				CampaignName: q.CampaignName,
				CampaignID:   q.CampaignID,
				Spend:        models.Round2(q.Spend),
				Clicks:       q.Clicks,
			})
			for _, w := range IntentWords(q.SearchTerm) {
				if _, ok := wordSpend[w]; !ok {
					wordOrder = append(wordOrder, w)
				}
				wordSpend[w] += q.Spend
			}
		}
	}

	sort.SliceStable(wasted, func(i, j int) bool { return wasted[i].Spend > wasted[j].Spend })

	var suggestions []NegativeKeywordSuggestion
	for _, w := range wordOrder {
		suggestions = append(suggestions, NegativeKeywordSuggestion{
			NegativeKeyword: w,
			MatchType:       "PHRASE",
			Reason:          fmt.Sprintf("Searches containing '%s' spent with zero conversions", w),
			WastedSpend:     models.Round2(wordSpend[w]),
		})
	}
	sort.SliceStable(suggestions, func(i, j int) bool { return suggestions[i].WastedSpend > suggestions[j].WastedSpend })

	var totalWasted float64
	for _, w := range wasted {
		totalWasted += w.Spend
	}

	return SearchQueryReport{
		WastedSpendQueries:         wasted,
		NegativeKeywordSuggestions: suggestions,
		TotalWastedSpend:           models.Round2(totalWasted),
		TotalQueries:               len(queries),
	}
}

// QualityPlan is one step of the quality-score improvement roadmap.
type QualityPlan struct {
	Issue            string   `json:"issue"`
	AffectedKeywords int      `json:"affected_keywords"`
	Priority         int      `json:"priority"`
	Actions          []string `json:"actions"`
	ExpectedImpact   string   `json:"expected_impact"`
}

// QualityScoreReport summarizes low-quality-score keywords.
type QualityScoreReport struct {
	TotalLowQS      int           `json:"total_low_qs"`
	TotalSpendLowQS float64       `json:"total_spend_low_qs"`
	ImprovementPlan []QualityPlan `json:"improvement_plan"`
}

// QualityScoreRoadmap groups keywords with a quality score below 5 into an
// ordered improvement plan. Keywords with no reported score are ignored.
func QualityScoreRoadmap(keywords []models.Keyword) QualityScoreReport {
	var critical, weak int
	var lowSpend float64
	for _, kw := range keywords {
		if kw.QualityScore <= 0 || kw.QualityScore >= 5 {
			continue
		}
		lowSpend += kw.Spend
		if kw.QualityScore <= 2 {
			critical++
		} else {
			weak++
		}
	}

	var plan []QualityPlan
	if critical > 0 {
		plan = append(plan, QualityPlan{
			Issue:            "Critically low Quality Score (1-2)",
			AffectedKeywords: critical,
			Priority:         1,
			Actions: []string{
				"Rewrite ad copy to match keyword intent",
				"Pause keywords with no path to relevance",
			},
			ExpectedImpact: "CPC reduction of 20-30% on affected keywords",
		})
	}
	if weak > 0 {
		plan = append(plan, QualityPlan{
			Issue:            "Below-average Quality Score (3-4)",
			AffectedKeywords: weak,
			Priority:         2,
			Actions: []string{
				"Improve landing page relevance and load speed",
				"Tighten ad group themes around the keyword",
			},
			ExpectedImpact: "Gradual CPC reduction of 10-15%",
		})
	}

	return QualityScoreReport{
		TotalLowQS:      critical + weak,
		TotalSpendLowQS: models.Round2(lowSpend),
		ImprovementPlan: plan,
	}
}

// DeviceRollup is one device's aggregate performance.
type DeviceRollup struct {
	Device      string  `json:"device"`
	Spend       float64 `json:"spend"`
	Clicks      int     `json:"clicks"`
	Conversions float64 `json:"conversions"`
	CPA         float64 `json:"cpa"`
	CTR         float64 `json:"ctr"`
}

// DeviceReport compares desktop, mobile, and tablet performance.
type DeviceReport struct {
	Devices     []DeviceRollup `json:"devices"`
	BestDevice  *DeviceRollup  `json:"best_device"`
	WorstDevice *DeviceRollup  `json:"worst_device"`
}

// DevicePerformance rolls segments up by device and picks best and worst by
// CPA among converting devices; worst needs a second converting device to
// compare against.
func DevicePerformance(segments []models.DeviceSegment) DeviceReport {
	if len(segments) == 0 {
		return DeviceReport{}
	}

	type agg struct {
		clicks, impressions int
		spend, conversions  float64
	}
	byDevice := map[string]*agg{}
	var order []string
	for _, s := range segments {
		a, ok := byDevice[s.Device]
		if !ok {
			a = &agg{}
			byDevice[s.Device] = a
			order = append(order, s.Device)
		}
		a.clicks += s.Clicks
		a.impressions += s.Impressions
		a.spend += s.Spend
		a.conversions += s.Conversions
	}

	var rollups []DeviceRollup
	for _, d := range order {
		a := byDevice[d]
		rollups = append(rollups, DeviceRollup{
			Device:      d,
			Spend:       models.Round2(a.spend),
			Clicks:      a.clicks,
			Conversions: a.conversions,
			CPA:         models.Round2(models.SafeDiv(a.spend, a.conversions)),
			CTR:         models.Round2(models.SafeDiv(float64(a.clicks), float64(a.impressions)) * 100),
		})
	}
	sort.SliceStable(rollups, func(i, j int) bool { return rollups[i].Spend > rollups[j].Spend })

	var best, worst *DeviceRollup
	var converting []*DeviceRollup
	for i := range rollups {
		if rollups[i].Conversions > 0 {
			converting = append(converting, &rollups[i])
		}
	}
	if len(converting) > 0 {
		best = converting[0]
		for _, r := range converting[1:] {
			if r.CPA < best.CPA {
				best = r
			}
		}
	}
	if len(converting) > 1 {
		worst = converting[0]
		for _, r := range converting[1:] {
			if r.CPA > worst.CPA {
				worst = r
			}
		}
	}

	return DeviceReport{Devices: rollups, BestDevice: best, WorstDevice: worst}
}
