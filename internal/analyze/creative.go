package analyze

import (
	"fmt"
	"sort"

	"github.com/growthops/adscope/internal/models"
)

// FatiguedAd is an ad showing creative fatigue, with the issues spelled out.
type FatiguedAd struct {
	AdName       string   `json:"ad_name"`
	CampaignName string   `json:"campaign_name"`
	Frequency    float64  `json:"frequency"`
	CTR          float64  `json:"ctr"`
	Impressions  int      `json:"impressions"`
	Spend        float64  `json:"spend"`
	Conversions  float64  `json:"conversions"`
	FatigueLevel string   `json:"fatigue_level"`
	Issues       []string `json:"issues"`
	Headline     string   `json:"headline,omitempty"`
}

// HealthyAd is a non-fatigued ad kept for the dashboard comparison.
type HealthyAd struct {
	AdName      string  `json:"ad_name"`
	Frequency   float64 `json:"frequency"`
	CTR         float64 `json:"ctr"`
	Conversions float64 `json:"conversions"`
	Spend       float64 `json:"spend"`
}

// CampaignFrequencyFlag is campaign-level frequency above the warning line.
type CampaignFrequencyFlag struct {
	CampaignName string  `json:"campaign_name"`
	Frequency    float64 `json:"frequency"`
	Reach        int     `json:"reach"`
	Impressions  int     `json:"impressions"`
	Severity     string  `json:"severity"`
}

// CreativeFatigueReport is the output of CreativeFatigue.
type CreativeFatigueReport struct {
	FatiguedAds     []FatiguedAd            `json:"fatigued_ads"`
	HealthyAds      []HealthyAd             `json:"healthy_ads"`
	CampaignFatigue []CampaignFrequencyFlag `json:"campaign_fatigue"`
	TotalFatigued   int                     `json:"total_fatigued"`
}

// CreativeFatigue detects ads whose creatives have worn out. Frequency above
// 3 is a warning (CTR typically starts declining), above 5 is critical. A low
// CTR despite real impression volume is a secondary signal. Ads with fewer
// than 100 impressions are skipped: not enough data.
func CreativeFatigue(ads []models.Ad, campaigns []models.Campaign) CreativeFatigueReport {
	var fatigued []FatiguedAd
	var healthy []HealthyAd

	for _, ad := range ads {
		if ad.Impressions < 100 {
			continue
		}
		ctr := models.NormalizeCTR(ad.CTR)

		level := "healthy"
		var issues []string

		if ad.Frequency > 5 {
			level = "critical"
			issues = append(issues, fmt.Sprintf("Frequency %.1f (critical: ads shown too many times)", ad.Frequency))
		} else if ad.Frequency > 3 {
			level = "warning"
			issues = append(issues, fmt.Sprintf("Frequency %.1f (users seeing ad too often)", ad.Frequency))
		}

		if ctr < 0.5 && ad.Impressions > 1000 {
			if level == "healthy" {
				level = "warning"
			}
			issues = append(issues, fmt.Sprintf("Low CTR (%.2f%%) despite %s impressions", ctr, groupThousands(ad.Impressions)))
		}

		if level != "healthy" {
			fatigued = append(fatigued, FatiguedAd{
				AdName:       ad.AdName,
				CampaignName: ad.CampaignName,
				Frequency:    ad.Frequency,
				CTR:          ctr,
				Impressions:  ad.Impressions,
				Spend:        ad.Spend,
				Conversions:  ad.Conversions,
				FatigueLevel: level,
				Issues:       issues,
				Headline:     ad.Headline,
			})
		} else {
			healthy = append(healthy, HealthyAd{
				AdName:      ad.AdName,
				Frequency:   ad.Frequency,
				CTR:         ctr,
				Conversions: ad.Conversions,
				Spend:       ad.Spend,
			})
		}
	}

	// Campaign-level frequency uses its own cutoffs (warning > 3,
	// critical > 5); they are close to the ad-level ones but not unified.
	var campaignFatigue []CampaignFrequencyFlag
	for _, camp := range campaigns {
		if camp.Frequency > 3 {
			severity := "warning"
			if camp.Frequency > 5 {
				severity = "critical"
			}
			campaignFatigue = append(campaignFatigue, CampaignFrequencyFlag{
				CampaignName: camp.CampaignName,
				Frequency:    camp.Frequency,
				Reach:        camp.Reach,
				Impressions:  camp.Impressions,
				Severity:     severity,
			})
		}
	}

	sort.SliceStable(fatigued, func(i, j int) bool { return fatigued[i].Frequency > fatigued[j].Frequency })
	sort.SliceStable(healthy, func(i, j int) bool { return healthy[i].Conversions > healthy[j].Conversions })

	return CreativeFatigueReport{
		FatiguedAds:     capLen(fatigued, 10),
		HealthyAds:      capLen(healthy, 5),
		CampaignFatigue: campaignFatigue,
		TotalFatigued:   len(fatigued),
	}
}

// CTAPerformance is the rollup of all ads sharing one call-to-action.
type CTAPerformance struct {
	CTA         string  `json:"cta"`
	Clicks      int     `json:"clicks"`
	Conversions float64 `json:"conversions"`
	ConvRate    float64 `json:"conv_rate"`
	CTR         float64 `json:"ctr"`
	AdCount     int     `json:"ad_count"`
	Spend       float64 `json:"spend"`
}

// HeadlinePerformance is one ad headline's CTR standing.
type HeadlinePerformance struct {
	Headline    string  `json:"headline"`
	AdName      string  `json:"ad_name"`
	CTR         float64 `json:"ctr"`
	Conversions float64 `json:"conversions"`
	Spend       float64 `json:"spend"`
	Clicks      int     `json:"clicks"`
}

// TestSuggestion is a proposed A/B test derived from creative patterns.
type TestSuggestion struct {
	Type       string `json:"type"`
	Suggestion string `json:"suggestion"`
}

// CreativePatternReport compares creatives to surface winning patterns.
type CreativePatternReport struct {
	CTAPerformance  []CTAPerformance      `json:"cta_performance"`
	TopHeadlines    []HeadlinePerformance `json:"top_headlines"`
	BottomHeadlines []HeadlinePerformance `json:"bottom_headlines"`
	TestSuggestions []TestSuggestion      `json:"test_suggestions"`
}

// CreativePatterns groups ad performance by CTA and headline and proposes
// A/B tests where a clear winner exists. Needs at least two ads to compare.
func CreativePatterns(ads []models.Ad) CreativePatternReport {
	if len(ads) < 2 {
		return CreativePatternReport{}
	}

	type ctaAgg struct {
		clicks, impressions int
		conversions, spend  float64
		count               int
	}
	ctas := map[string]*ctaAgg{}
	var ctaOrder []string
	var headlines []HeadlinePerformance

	for _, ad := range ads {
		if ad.Impressions < 100 {
			continue
		}
		cta := ad.CTA
		if cta == "" {
			cta = "unknown"
		}
		agg, ok := ctas[cta]
		if !ok {
			agg = &ctaAgg{}
			ctas[cta] = agg
			ctaOrder = append(ctaOrder, cta)
		}
		agg.clicks += ad.Clicks
		agg.conversions += ad.Conversions
		agg.spend += ad.Spend
		agg.count++
		agg.impressions += ad.Impressions

		if ad.Headline != "" {
			h := ad.Headline
			if len(h) > 80 {
				h = h[:80]
			}
			headlines = append(headlines, HeadlinePerformance{
				Headline:    h,
				AdName:      ad.AdName,
				CTR:         models.NormalizeCTR(ad.CTR),
				Conversions: ad.Conversions,
				Spend:       models.Round2(ad.Spend),
				Clicks:      ad.Clicks,
			})
		}
	}

	var ctaResults []CTAPerformance
	for _, cta := range ctaOrder {
		agg := ctas[cta]
		ctaResults = append(ctaResults, CTAPerformance{
			CTA:         cta,
			Clicks:      agg.clicks,
			Conversions: agg.conversions,
			ConvRate:    models.Round2(models.SafeDiv(agg.conversions, float64(agg.clicks)) * 100),
			CTR:         models.Round2(models.SafeDiv(float64(agg.clicks), float64(agg.impressions)) * 100),
			AdCount:     agg.count,
			Spend:       models.Round2(agg.spend),
		})
	}
	sort.SliceStable(ctaResults, func(i, j int) bool { return ctaResults[i].ConvRate > ctaResults[j].ConvRate })

	sort.SliceStable(headlines, func(i, j int) bool { return headlines[i].CTR > headlines[j].CTR })
	topHeadlines := capLen(headlines, 3)
	var bottomHeadlines []HeadlinePerformance
	if len(headlines) > 3 {
		bottomHeadlines = headlines[len(headlines)-3:]
	}

	var suggestions []TestSuggestion
	if len(ctaResults) > 1 {
		best, worst := ctaResults[0], ctaResults[len(ctaResults)-1]
		if best.ConvRate > worst.ConvRate*1.5 {
			suggestions = append(suggestions, TestSuggestion{
				Type: "cta_test",
				Suggestion: fmt.Sprintf("Best CTA '%s' outperforms '%s' (%g%% vs %g%% conversion rate). Test more ads with '%s' CTA.",
					best.CTA, worst.CTA, best.ConvRate, worst.ConvRate, best.CTA),
			})
		}
	}
	if len(topHeadlines) > 0 && len(bottomHeadlines) > 0 {
		best := topHeadlines[0]
		worst := bottomHeadlines[len(bottomHeadlines)-1]
		if best.CTR > 0 && best.CTR > worst.CTR*2 {
			suggestions = append(suggestions, TestSuggestion{
				Type: "headline_test",
				Suggestion: fmt.Sprintf("Top headline '%s...' has %.2f%% CTR vs bottom '%s...' at %.2f%%. Create variations of top-performing headline themes.",
					truncate(best.Headline, 40), best.CTR, truncate(worst.Headline, 40), worst.CTR),
			})
		}
	}

	return CreativePatternReport{
		CTAPerformance:  capLen(ctaResults, 5),
		TopHeadlines:    topHeadlines,
		BottomHeadlines: bottomHeadlines,
		TestSuggestions: suggestions,
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
