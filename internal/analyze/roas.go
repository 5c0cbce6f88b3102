package analyze

import (
	"sort"

	"github.com/growthops/adscope/internal/models"
)

// ROASOpportunity is a campaign or ad set flagged by its return on ad spend.
type ROASOpportunity struct {
	Name            string  `json:"name"`
	Level           string  `json:"level"`
	Campaign        string  `json:"campaign,omitempty"`
	ROAS            float64 `json:"roas"`
	ConversionValue float64 `json:"conversion_value"`
	Conversions     float64 `json:"conversions"`
	Spend           float64 `json:"spend"`
	NetReturn       float64 `json:"net_return,omitempty"`
	Loss            float64 `json:"loss,omitempty"`
}

// ROASReport pairs profitable entities worth scaling with the ones losing
// money.
type ROASReport struct {
	ScaleOpportunities  []ROASOpportunity `json:"scale_opportunities"`
	ReviewOpportunities []ROASOpportunity `json:"review_opportunities"`
}

// ROASOpportunities flags campaigns returning over 2x for scaling and under
// 1x for review, plus ad sets over 3x. Entities under 10 in spend are
// skipped.
func ROASOpportunities(campaigns []models.Campaign, adSets []models.AdSet) ROASReport {
	var scale, review []ROASOpportunity

	for _, camp := range campaigns {
		if camp.Spend < 10 {
			continue
		}
		if camp.ROAS > 2.0 && camp.ConversionValue > 0 {
			scale = append(scale, ROASOpportunity{
				Name:            camp.CampaignName,
				Level:           "campaign",
				ROAS:            models.Round2(camp.ROAS),
				ConversionValue: models.Round2(camp.ConversionValue),
				Conversions:     camp.Conversions,
				Spend:           models.Round2(camp.Spend),
				NetReturn:       models.Round2(camp.ConversionValue - camp.Spend),
			})
		} else if camp.ROAS > 0 && camp.ROAS < 1.0 && camp.ConversionValue > 0 {
			review = append(review, ROASOpportunity{
				Name:            camp.CampaignName,
				Level:           "campaign",
				ROAS:            models.Round2(camp.ROAS),
				ConversionValue: models.Round2(camp.ConversionValue),
				Conversions:     camp.Conversions,
				Spend:           models.Round2(camp.Spend),
				Loss:            models.Round2(camp.Spend - camp.ConversionValue),
			})
		}
	}

	for _, adset := range adSets {
		roas := adset.ROAS
		if roas == 0 {
			roas = models.SafeDiv(adset.ConversionValue, adset.Spend)
		}
		if adset.Spend < 10 || adset.ConversionValue == 0 {
			continue
		}
		if roas > 3.0 {
			scale = append(scale, ROASOpportunity{
				Name:            adset.AdSetName,
				Level:           "ad_set",
				Campaign:        adset.CampaignName,
				ROAS:            models.Round2(roas),
				ConversionValue: models.Round2(adset.ConversionValue),
				Conversions:     adset.Conversions,
				Spend:           models.Round2(adset.Spend),
			})
		}
	}

	sort.SliceStable(scale, func(i, j int) bool { return scale[i].ROAS > scale[j].ROAS })
	sort.SliceStable(review, func(i, j int) bool { return review[i].Loss > review[j].Loss })

	return ROASReport{
		ScaleOpportunities:  capLen(scale, 5),
		ReviewOpportunities: capLen(review, 3),
	}
}
