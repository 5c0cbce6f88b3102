package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/growthops/adscope/internal/models"
)

// PageMetrics is the rollup of every ad driving traffic to one landing page.
type PageMetrics struct {
	URL            string  `json:"url"`
	Impressions    int     `json:"impressions"`
	Clicks         int     `json:"clicks"`
	Spend          float64 `json:"spend"`
	Conversions    float64 `json:"conversions"`
	ConversionRate float64 `json:"conversion_rate"`
	AdCount        int     `json:"ad_count"`
	Color          string  `json:"color"`
}

// PageIssue flags a landing page burning clicks without converting.
type PageIssue struct {
	URL   string  `json:"url"`
	Issue string  `json:"issue"`
	Spend float64 `json:"spend"`
}

// LandingPageReport is the landing-page heatmap.
type LandingPageReport struct {
	Heatmap    []PageMetrics `json:"heatmap"`
	Issues     []PageIssue   `json:"issues"`
	TotalPages int           `json:"total_pages"`
}

// LandingPages groups ad traffic by destination URL (tracking parameters
// stripped) and colors each page by conversion rate: green at 5% and above,
// orange at 2%, red below. Pages with over 50 clicks converting under 2%
// become issues.
func LandingPages(ads []models.Ad) LandingPageReport {
	if len(ads) == 0 {
		return LandingPageReport{}
	}

	type agg struct {
		impressions, clicks, adCount int
		spend, conversions           float64
	}
	pages := map[string]*agg{}
	var order []string

	for _, ad := range ads {
		url := strings.TrimSpace(ad.LinkURL)
		if url == "" {
			url = "(no URL)"
		}
		base := strings.TrimRight(strings.SplitN(url, "?", 2)[0], "/")

		a, ok := pages[base]
		if !ok {
			a = &agg{}
			pages[base] = a
			order = append(order, base)
		}
		a.impressions += ad.Impressions
		a.clicks += ad.Clicks
		a.spend += ad.Spend
		a.conversions += ad.Conversions
		a.adCount++
	}

	var heatmap []PageMetrics
	var issues []PageIssue
	for _, url := range order {
		a := pages[url]
		convRate := models.SafeDiv(a.conversions, float64(a.clicks)) * 100

		color := "red"
		if convRate >= 5 {
			color = "green"
		} else if convRate >= 2 {
			color = "orange"
		}
		heatmap = append(heatmap, PageMetrics{
			URL:            url,
			Impressions:    a.impressions,
			Clicks:         a.clicks,
			Spend:          models.Round2(a.spend),
			Conversions:    a.conversions,
			ConversionRate: models.Round2(convRate),
			AdCount:        a.adCount,
			Color:          color,
		})

		if a.clicks > 50 && convRate < 2 {
			issues = append(issues, PageIssue{
				URL:   url,
				Issue: fmt.Sprintf("Low conversion rate (%.1f%%) with %d clicks", convRate, a.clicks),
				Spend: models.Round2(a.spend),
			})
		}
	}

	sort.SliceStable(heatmap, func(i, j int) bool { return heatmap[i].Clicks > heatmap[j].Clicks })

	return LandingPageReport{
		Heatmap:    capLen(heatmap, 10),
		Issues:     issues,
		TotalPages: len(pages),
	}
}
