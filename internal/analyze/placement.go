package analyze

import (
	"sort"

	"github.com/growthops/adscope/internal/models"
)

// PlatformRollup is the aggregate of every placement on one delivery
// platform (facebook, instagram, audience_network, ...).
type PlatformRollup struct {
	Platform    string  `json:"platform"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	CPA         float64 `json:"cpa"`
	CTR         float64 `json:"ctr"`
	CPM         float64 `json:"cpm"`
	Clicks      int     `json:"clicks"`
}

// PlacementDetail is one placement with its efficiency label.
type PlacementDetail struct {
	PlacementName string  `json:"placement_name"`
	Platform      string  `json:"platform"`
	Position      string  `json:"position,omitempty"`
	Spend         float64 `json:"spend"`
	Clicks        int     `json:"clicks"`
	Conversions   float64 `json:"conversions"`
	CPA           float64 `json:"cpa"`
	CTR           float64 `json:"ctr"`
	CPM           float64 `json:"cpm"`
	Efficiency    string  `json:"efficiency"`
}

// PlacementReport compares performance across placements.
type PlacementReport struct {
	ByPlatform    []PlatformRollup `json:"by_platform"`
	Placements    []PlacementDetail `json:"placements"`
	BestPlatform  *PlatformRollup  `json:"best_platform"`
	WorstPlatform *PlatformRollup  `json:"worst_platform"`
}

// PlacementEfficiency rolls placements up by platform and labels each
// individual placement good, average, or poor. Best and worst platforms are
// picked by CPA among platforms that actually converted; a worst platform is
// only reported when there is more than one converting platform to compare.
func PlacementEfficiency(placements []models.Placement) PlacementReport {
	if len(placements) == 0 {
		return PlacementReport{}
	}

	type agg struct {
		impressions, clicks int
		spend, conversions  float64
	}
	byPlatform := map[string]*agg{}
	var order []string
	for _, pl := range placements {
		platform := pl.Platform
		if platform == "" {
			platform = "unknown"
		}
		a, ok := byPlatform[platform]
		if !ok {
			a = &agg{}
			byPlatform[platform] = a
			order = append(order, platform)
		}
		a.impressions += pl.Impressions
		a.clicks += pl.Clicks
		a.spend += pl.Spend
		a.conversions += pl.Conversions
	}

	var rollups []PlatformRollup
	for _, platform := range order {
		a := byPlatform[platform]
		rollups = append(rollups, PlatformRollup{
			Platform:    platform,
			Spend:       models.Round2(a.spend),
			Conversions: a.conversions,
			CPA:         models.Round2(models.SafeDiv(a.spend, a.conversions)),
			CTR:         models.Round2(models.SafeDiv(float64(a.clicks), float64(a.impressions)) * 100),
			CPM:         models.Round2(models.SafeDiv(a.spend, float64(a.impressions)) * 1000),
			Clicks:      a.clicks,
		})
	}
	sort.SliceStable(rollups, func(i, j int) bool { return rollups[i].Spend > rollups[j].Spend })

	var best, worst *PlatformRollup
	var converting []*PlatformRollup
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

	sorted := make([]models.Placement, len(placements))
	copy(sorted, placements)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Spend > sorted[j].Spend })

	var details []PlacementDetail
	for _, pl := range sorted {
		efficiency := "average"
		if pl.Conversions > 0 && pl.Spend/pl.Conversions < 50 {
			efficiency = "good"
		} else if pl.Spend > 10 && pl.Conversions == 0 {
			efficiency = "poor"
		}
		details = append(details, PlacementDetail{
			PlacementName: pl.PlacementName,
			Platform:      pl.Platform,
			Position:      pl.Position,
			Spend:         models.Round2(pl.Spend),
			Clicks:        pl.Clicks,
			Conversions:   pl.Conversions,
			CPA:           models.Round2(models.SafeDiv(pl.Spend, pl.Conversions)),
			CTR:           pl.CTR,
			CPM:           pl.CPM,
			Efficiency:    efficiency,
		})
	}

	return PlacementReport{
		ByPlatform:    rollups,
		Placements:    capLen(details, 15),
		BestPlatform:  best,
		WorstPlatform: worst,
	}
}
