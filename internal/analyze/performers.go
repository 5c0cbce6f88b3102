package analyze

import (
	"sort"

	"github.com/growthops/adscope/internal/models"
)

// ScaleCandidate is a campaign or ad set beating the account averages.
type ScaleCandidate struct {
	Name        string  `json:"name"`
	Level       string  `json:"level"`
	Campaign    string  `json:"campaign,omitempty"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	CPA         float64 `json:"cpa"`
	ConvRate    float64 `json:"conv_rate"`
	VsAvgCPA    float64 `json:"vs_avg_cpa"`
}

// ReviewCandidate is a campaign burning spend with nothing to show.
type ReviewCandidate struct {
	Name   string  `json:"name"`
	Level  string  `json:"level"`
	Spend  float64 `json:"spend"`
	Clicks int     `json:"clicks"`
	Issue  string  `json:"issue"`
}

// TopPerformerReport identifies what deserves budget scaling.
type TopPerformerReport struct {
	ScaleCandidates    []ScaleCandidate  `json:"scale_candidates"`
	ReviewCandidates   []ReviewCandidate `json:"review_candidates"`
	AccountAvgCPA      float64           `json:"account_avg_cpa"`
	AccountAvgConvRate float64           `json:"account_avg_conv_rate"`
}

// TopPerformers compares campaigns and ad sets against the account-level
// averages. Campaigns need CPA 20% below average and a conversion rate over
// 3% to qualify for scaling; ad sets need 30% below. Anything under the
// minimum spend and click filters is skipped as statistically meaningless.
func TopPerformers(campaigns []models.Campaign, adSets []models.AdSet) TopPerformerReport {
	var totalSpend, totalConv float64
	var totalClicks int
	for _, c := range campaigns {
		totalSpend += c.Spend
		totalConv += c.Conversions
		totalClicks += c.Clicks
	}
	avgCPA := models.SafeDiv(totalSpend, totalConv)
	avgConvRate := models.SafeDiv(totalConv, float64(totalClicks)) * 100

	var scale []ScaleCandidate
	var review []ReviewCandidate

	for _, camp := range campaigns {
		if camp.Spend < 10 || camp.Clicks < 10 {
			continue
		}
		cpa := models.SafeDiv(camp.Spend, camp.Conversions)
		convRate := models.SafeDiv(camp.Conversions, float64(camp.Clicks)) * 100

		if camp.Conversions > 0 && cpa < avgCPA*0.8 && convRate > 3 {
			var vsAvg float64
			if avgCPA > 0 {
				vsAvg = models.Round1((1 - cpa/avgCPA) * 100)
			}
			scale = append(scale, ScaleCandidate{
				Name:        camp.CampaignName,
				Level:       "campaign",
				Spend:       models.Round2(camp.Spend),
				Conversions: camp.Conversions,
				CPA:         models.Round2(cpa),
				ConvRate:    models.Round2(convRate),
				VsAvgCPA:    vsAvg,
			})
		} else if camp.Spend > 50 && camp.Conversions == 0 {
			review = append(review, ReviewCandidate{
				Name:   camp.CampaignName,
				Level:  "campaign",
				Spend:  models.Round2(camp.Spend),
				Clicks: camp.Clicks,
				Issue:  "High spend with zero conversions",
			})
		}
	}

	for _, adset := range adSets {
		if adset.Spend < 10 || adset.Clicks < 5 {
			continue
		}
		cpa := models.SafeDiv(adset.Spend, adset.Conversions)
		convRate := models.SafeDiv(adset.Conversions, float64(adset.Clicks)) * 100

		if adset.Conversions > 0 && cpa < avgCPA*0.7 && convRate > 3 {
			var vsAvg float64
			if avgCPA > 0 {
				vsAvg = models.Round1((1 - cpa/avgCPA) * 100)
			}
			scale = append(scale, ScaleCandidate{
				Name:        adset.AdSetName,
				Level:       "ad_set",
				Campaign:    adset.CampaignName,
				Spend:       models.Round2(adset.Spend),
				Conversions: adset.Conversions,
				CPA:         models.Round2(cpa),
				ConvRate:    models.Round2(convRate),
				VsAvgCPA:    vsAvg,
			})
		}
	}

	sort.SliceStable(scale, func(i, j int) bool { return scale[i].CPA < scale[j].CPA })
	sort.SliceStable(review, func(i, j int) bool { return review[i].Spend > review[j].Spend })

	return TopPerformerReport{
		ScaleCandidates:    capLen(scale, 5),
		ReviewCandidates:   capLen(review, 3),
		AccountAvgCPA:      models.Round2(avgCPA),
		AccountAvgConvRate: models.Round2(avgConvRate),
	}
}
