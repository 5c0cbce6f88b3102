package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/growthops/adscope/internal/models"
)

// WastedSegment is an audience or placement segment with spend but no
// conversions.
type WastedSegment struct {
	Segment string  `json:"segment"`
	Type    string  `json:"type"`
	Spend   float64 `json:"spend"`
	Clicks  int     `json:"clicks"`
	CTR     float64 `json:"ctr,omitempty"`
	CPM     float64 `json:"cpm,omitempty"`
	Issue   string  `json:"issue"`
}

// TopSegment is a converting segment, ranked by CPA.
type TopSegment struct {
	Segment     string  `json:"segment"`
	Type        string  `json:"type"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	CPA         float64 `json:"cpa"`
	CTR         float64 `json:"ctr,omitempty"`
}

// AudienceReport classifies demographic and placement segments into waste
// and winners.
type AudienceReport struct {
	WastedSegments   []WastedSegment `json:"wasted_segments"`
	TopSegments      []TopSegment    `json:"top_segments"`
	TotalWastedSpend float64         `json:"total_wasted_spend"`
	WastedCount      int             `json:"wasted_count"`
}

const wasteSpendThreshold = 5

// AudiencePerformance finds where money is being spent without results
// across demographic and placement segments. Waste means spend above the
// threshold with zero conversions; anything converting is ranked by CPA.
func AudiencePerformance(demographics []models.DemographicSegment, placements []models.Placement) AudienceReport {
	var wasted []WastedSegment
	var top []TopSegment

	for _, seg := range demographics {
		label := strings.TrimSpace(titleWord(seg.Gender) + " " + seg.Age)
		switch {
		case seg.Spend > wasteSpendThreshold && seg.Conversions == 0:
			wasted = append(wasted, WastedSegment{
				Segment: label,
				Type:    "demographic",
				Spend:   seg.Spend,
				Clicks:  seg.Clicks,
				CTR:     seg.CTR,
				Issue:   "Zero conversions",
			})
		case seg.Conversions > 0:
			top = append(top, TopSegment{
				Segment:     label,
				Type:        "demographic",
				Spend:       seg.Spend,
				Conversions: seg.Conversions,
				CPA:         seg.Spend / seg.Conversions,
				CTR:         seg.CTR,
			})
		}
	}

	for _, pl := range placements {
		switch {
		case pl.Spend > wasteSpendThreshold && pl.Conversions == 0:
			wasted = append(wasted, WastedSegment{
				Segment: pl.PlacementName,
				Type:    "placement",
				Spend:   pl.Spend,
				Clicks:  pl.Clicks,
				CPM:     pl.CPM,
				Issue:   "Zero conversions",
			})
		case pl.Conversions > 0:
			top = append(top, TopSegment{
				Segment:     pl.PlacementName,
				Type:        "placement",
				Spend:       pl.Spend,
				Conversions: pl.Conversions,
				CPA:         pl.Spend / pl.Conversions,
			})
		}
	}

	// Most wasted first; winners cheapest first.
	sort.SliceStable(wasted, func(i, j int) bool { return wasted[i].Spend > wasted[j].Spend })
	sort.SliceStable(top, func(i, j int) bool { return top[i].CPA < top[j].CPA })

	var totalWasted float64
	for _, w := range wasted {
		totalWasted += w.Spend
	}

	return AudienceReport{
		WastedSegments:   capLen(wasted, 10),
		TopSegments:      capLen(top, 10),
		TotalWastedSpend: models.Round2(totalWasted),
		WastedCount:      len(wasted),
	}
}

// FatiguedCampaign is a campaign whose audience is saturated.
type FatiguedCampaign struct {
	CampaignName string  `json:"campaign_name"`
	Frequency    float64 `json:"frequency"`
	Reach        int     `json:"reach"`
	Impressions  int     `json:"impressions"`
	Spend        float64 `json:"spend"`
	Severity     string  `json:"severity"`
	Suggestion   string  `json:"suggestion"`
}

// FatiguedAdSummary is an over-exposed ad flagged at the audience level.
type FatiguedAdSummary struct {
	AdName       string  `json:"ad_name"`
	CampaignName string  `json:"campaign_name"`
	Frequency    float64 `json:"frequency"`
	CTR          float64 `json:"ctr"`
	Spend        float64 `json:"spend"`
}

// AudienceFatigueReport flags saturation based on frequency.
type AudienceFatigueReport struct {
	FatiguedCampaigns      []FatiguedCampaign  `json:"fatigued_campaigns"`
	FatiguedAds            []FatiguedAdSummary `json:"fatigued_ads"`
	TotalFatiguedCampaigns int                 `json:"total_fatigued_campaigns"`
}

// AudienceFatigue detects audience saturation: frequency above 4 with real
// reach means the same users see the ads too often, leading to ad blindness.
func AudienceFatigue(campaigns []models.Campaign, ads []models.Ad) AudienceFatigueReport {
	var fatiguedCampaigns []FatiguedCampaign
	var fatiguedAds []FatiguedAdSummary

	for _, camp := range campaigns {
		if camp.Frequency > 4 && camp.Reach > 100 {
			severity := "warning"
			suggestion := "Expand age range or interest targeting"
			if camp.Frequency > 6 {
				severity = "critical"
				suggestion = "Create lookalike audience from converters"
			}
			fatiguedCampaigns = append(fatiguedCampaigns, FatiguedCampaign{
				CampaignName: camp.CampaignName,
				Frequency:    models.Round1(camp.Frequency),
				Reach:        camp.Reach,
				Impressions:  camp.Impressions,
				Spend:        models.Round2(camp.Spend),
				Severity:     severity,
				Suggestion:   suggestion,
			})
		}
	}

	for _, ad := range ads {
		if ad.Frequency > 5 && ad.Impressions > 500 {
			fatiguedAds = append(fatiguedAds, FatiguedAdSummary{
				AdName:       ad.AdName,
				CampaignName: ad.CampaignName,
				Frequency:    models.Round1(ad.Frequency),
				CTR:          ad.CTR,
				Spend:        models.Round2(ad.Spend),
			})
		}
	}

	sort.SliceStable(fatiguedCampaigns, func(i, j int) bool {
		return fatiguedCampaigns[i].Frequency > fatiguedCampaigns[j].Frequency
	})

	return AudienceFatigueReport{
		FatiguedCampaigns:      capLen(fatiguedCampaigns, 5),
		FatiguedAds:            capLen(fatiguedAds, 5),
		TotalFatiguedCampaigns: len(fatiguedCampaigns),
	}
}

// FatigueSuggestionText renders the expand-audience reason used by the
// recommendation assembler.
func FatigueSuggestionText(c FatiguedCampaign) string {
	return fmt.Sprintf("Frequency %gx - audience is seeing ads too often (reach: %s). %s.",
		c.Frequency, groupThousands(c.Reach), c.Suggestion)
}
