package analyze

import (
	"sort"

	"github.com/growthops/adscope/internal/models"
)

// TopLocation is a converting location ranked by CPA.
type TopLocation struct {
	Location    string  `json:"location"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	CPA         float64 `json:"cpa"`
	Clicks      int     `json:"clicks"`
}

// PoorLocation is a location with meaningful spend and clicks but no
// conversions.
type PoorLocation struct {
	Location  string  `json:"location"`
	RegionKey string  `json:"region_key,omitempty"`
	Spend     float64 `json:"spend"`
	Clicks    int     `json:"clicks"`
	Issue     string  `json:"issue"`
}

// GeoReport classifies locations into winners and waste.
type GeoReport struct {
	Locations                 []models.GeoLocation `json:"locations"`
	TopLocations              []TopLocation        `json:"top_locations"`
	PoorLocations             []PoorLocation       `json:"poor_locations"`
	TotalLocations            int                  `json:"total_locations"`
	TotalWastedOnPoorLocations float64             `json:"total_wasted_on_poor_locations"`
}

// GeoPerformance splits locations into converting (ranked cheapest CPA
// first) and poor (spend over 5 with over 5 clicks and zero conversions,
// biggest spend first).
func GeoPerformance(geo []models.GeoLocation) GeoReport {
	if len(geo) == 0 {
		return GeoReport{}
	}

	sorted := make([]models.GeoLocation, len(geo))
	copy(sorted, geo)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Clicks > sorted[j].Clicks })

	var top []TopLocation
	var poor []PoorLocation
	for _, g := range sorted {
		if g.Conversions > 0 {
			top = append(top, TopLocation{
				Location:    g.LocationName,
				Spend:       models.Round2(g.Spend),
				Conversions: g.Conversions,
				CPA:         models.Round2(g.Spend / g.Conversions),
				Clicks:      g.Clicks,
			})
		} else if g.Spend > 5 && g.Clicks > 5 {
			poor = append(poor, PoorLocation{
				Location:  g.LocationName,
				RegionKey: g.RegionKey,
				Spend:     models.Round2(g.Spend),
				Clicks:    g.Clicks,
				Issue:     "Zero conversions",
			})
		}
	}

	sort.SliceStable(top, func(i, j int) bool { return top[i].CPA < top[j].CPA })
	sort.SliceStable(poor, func(i, j int) bool { return poor[i].Spend > poor[j].Spend })

	var totalWasted float64
	for _, p := range poor {
		totalWasted += p.Spend
	}

	return GeoReport{
		Locations:                  capLen(sorted, 15),
		TopLocations:               capLen(top, 5),
		PoorLocations:              capLen(poor, 5),
		TotalLocations:             len(sorted),
		TotalWastedOnPoorLocations: models.Round2(totalWasted),
	}
}

// ScaleLocation is a location converting well below the average CPA.
type ScaleLocation struct {
	Location    string  `json:"location"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	CPA         float64 `json:"cpa"`
	VsAvg       float64 `json:"vs_avg"`
	Clicks      int     `json:"clicks"`
}

// GeoBidReport pairs locations worth more budget with locations to cut.
type GeoBidReport struct {
	ScaleLocations []ScaleLocation `json:"scale_locations"`
	CutLocations   []PoorLocation  `json:"cut_locations"`
	AvgCPA         float64         `json:"avg_cpa"`
}

// GeoBidOpportunities finds locations for budget increases, not just
// exclusions: anywhere converting at least 20% cheaper than the average CPA
// is a scale candidate.
func GeoBidOpportunities(geo []models.GeoLocation) GeoBidReport {
	if len(geo) == 0 {
		return GeoBidReport{}
	}

	var totalSpend, totalConv float64
	for _, g := range geo {
		totalSpend += g.Spend
		totalConv += g.Conversions
	}
	avgCPA := models.SafeDiv(totalSpend, totalConv)

	var scale []ScaleLocation
	var cut []PoorLocation
	for _, g := range geo {
		if g.Spend < 5 {
			continue
		}
		if g.Conversions > 0 {
			cpa := g.Spend / g.Conversions
			if cpa < avgCPA*0.8 {
				var vsAvg float64
				if avgCPA > 0 {
					vsAvg = models.Round1((1 - cpa/avgCPA) * 100)
				}
				scale = append(scale, ScaleLocation{
					Location:    g.LocationName,
					Spend:       models.Round2(g.Spend),
					Conversions: g.Conversions,
					CPA:         models.Round2(cpa),
					VsAvg:       vsAvg,
					Clicks:      g.Clicks,
				})
			}
		} else if g.Spend > 10 && g.Clicks > 5 {
			cut = append(cut, PoorLocation{
				Location:  g.LocationName,
				RegionKey: g.RegionKey,
				Spend:     models.Round2(g.Spend),
				Clicks:    g.Clicks,
				Issue:     "Zero conversions",
			})
		}
	}

	sort.SliceStable(scale, func(i, j int) bool { return scale[i].CPA < scale[j].CPA })
	sort.SliceStable(cut, func(i, j int) bool { return cut[i].Spend > cut[j].Spend })

	return GeoBidReport{
		ScaleLocations: capLen(scale, 5),
		CutLocations:   capLen(cut, 5),
		AvgCPA:         models.Round2(avgCPA),
	}
}
