package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/growthops/adscope/internal/models"
)

// microsPerUnit converts Google Ads cost micros to currency units.
const microsPerUnit = 1_000_000

// GoogleFetcher reads a Google Ads REST-shaped reporting endpoint. Money
// arrives in micros and is converted at ingest; everything downstream works
// in currency units.
type GoogleFetcher struct {
	c       HTTPClient
	baseURL string
	token   string
	log     *slog.Logger
}

func NewGoogleFetcher(c HTTPClient, baseURL, token string, log *slog.Logger) *GoogleFetcher {
	return &GoogleFetcher{c: c, baseURL: strings.TrimRight(baseURL, "/"), token: token, log: log}
}

type gadsCampaignRow struct {
	CampaignID       string  `json:"campaignId"`
	CampaignName     string  `json:"campaignName"`
	Status           string  `json:"status"`
	CostMicros       int64   `json:"costMicros"`
	Clicks           int     `json:"clicks"`
	Impressions      int     `json:"impressions"`
	Conversions      float64 `json:"conversions"`
	ConversionsValue float64 `json:"conversionsValue"`
	BudgetMicros     int64   `json:"budgetAmountMicros"`
}

type gadsKeywordRow struct {
	KeywordText    string  `json:"keywordText"`
	ResourceName   string  `json:"resourceName"`
	AdGroupName    string  `json:"adGroupName"`
	CampaignID     string  `json:"campaignId"`
	CampaignName   string  `json:"campaignName"`
	Status         string  `json:"status"`
	CostMicros     int64   `json:"costMicros"`
	Clicks         int     `json:"clicks"`
	Impressions    int     `json:"impressions"`
	Conversions    float64 `json:"conversions"`
	AvgCPCMicros   int64   `json:"averageCpcMicros"`
	CPCBidMicros   int64   `json:"cpcBidMicros"`
	QualityScore   int     `json:"qualityScore"`
	CTR            float64 `json:"ctr"`
}

type gadsSearchTermRow struct {
	SearchTerm   string  `json:"searchTerm"`
	AdGroupName  string  `json:"adGroupName"`
	CampaignID   string  `json:"campaignId"`
	CampaignName string  `json:"campaignName"`
	CostMicros   int64   `json:"costMicros"`
	Clicks       int     `json:"clicks"`
	Impressions  int     `json:"impressions"`
	Conversions  float64 `json:"conversions"`
}

type gadsSegmentRow struct {
	Device       string  `json:"device"`
	LocationName string  `json:"locationName"`
	GeoTargetID  string  `json:"geoTargetConstant"`
	Hour         int     `json:"hour"`
	DayOfWeek    string  `json:"dayOfWeek"`
	Date         string  `json:"date"`
	CostMicros   int64   `json:"costMicros"`
	Clicks       int     `json:"clicks"`
	Impressions  int     `json:"impressions"`
	Conversions  float64 `json:"conversions"`
}

type gadsReport[T any] struct {
	Results []T `json:"results"`
}

// Fetch pulls the full Google Ads snapshot for one customer over one range.
// The campaign report is required; keyword, search-term, and segment reports
// degrade to empty sections on failure.
func (g *GoogleFetcher) Fetch(ctx context.Context, customerID string, dr models.DateRange) (models.Snapshot, error) {
	snap := models.Snapshot{
		Platform:  models.PlatformGoogle,
		AccountID: customerID,
		Currency:  "RM",
		DateRange: dr,
	}

	var campaigns gadsReport[gadsCampaignRow]
	if err := GetJSONWithRetry(ctx, g.c, g.reportURL(customerID, "campaigns", dr), g.token, &campaigns); err != nil {
		return snap, fmt.Errorf("google campaigns: %w", err)
	}
	for _, r := range campaigns.Results {
		spend := micros(r.CostMicros)
		snap.Campaigns = append(snap.Campaigns, models.Campaign{
			CampaignID:      r.CampaignID,
			CampaignName:    r.CampaignName,
			Status:          r.Status,
			Spend:           spend,
			Clicks:          max0(r.Clicks),
			Impressions:     max0(r.Impressions),
			Conversions:     maxf(r.Conversions),
			ConversionValue: maxf(r.ConversionsValue),
			ROAS:            roas(r.ConversionsValue, spend),
			DailyBudget:     micros(r.BudgetMicros),
			CTR:             models.Round2(models.SafeDiv(float64(r.Clicks), float64(r.Impressions)) * 100),
		})
	}

	var keywords gadsReport[gadsKeywordRow]
	if err := GetJSONWithRetry(ctx, g.c, g.reportURL(customerID, "keywords", dr), g.token, &keywords); err != nil {
		g.log.Warn("google keywords fetch failed", slog.String("error", err.Error()))
	}
	for _, r := range keywords.Results {
		spend := micros(r.CostMicros)
		snap.Keywords = append(snap.Keywords, models.Keyword{
			KeywordText:       r.KeywordText,
			ResourceName:      r.ResourceName,
			AdGroupName:       r.AdGroupName,
			CampaignID:        r.CampaignID,
			CampaignName:      r.CampaignName,
			Status:            r.Status,
			Spend:             spend,
			Clicks:            max0(r.Clicks),
			Impressions:       max0(r.Impressions),
			Conversions:       maxf(r.Conversions),
			CostPerConversion: models.Round2(models.SafeDiv(spend, r.Conversions)),
			CTR:               models.NormalizeCTR(maxf(r.CTR)),
			AvgCPC:            micros(r.AvgCPCMicros),
			CPCBid:            micros(r.CPCBidMicros),
			QualityScore:      max0(r.QualityScore),
		})
	}

	var terms gadsReport[gadsSearchTermRow]
	if err := GetJSONWithRetry(ctx, g.c, g.reportURL(customerID, "search_terms", dr), g.token, &terms); err != nil {
		g.log.Warn("google search terms fetch failed", slog.String("error", err.Error()))
	}
	for _, r := range terms.Results {
		snap.SearchTerms = append(snap.SearchTerms, models.SearchQuery{
			SearchTerm:   r.SearchTerm,
			AdGroup:      r.AdGroupName,
			CampaignID:   r.CampaignID,
			CampaignName: r.CampaignName,
			Spend:        micros(r.CostMicros),
			Clicks:       max0(r.Clicks),
			Impressions:  max0(r.Impressions),
			Conversions:  maxf(r.Conversions),
		})
	}

	g.fetchSegments(ctx, customerID, dr, &snap)
	snap.Summary = summarize(snap.Campaigns)
	return snap, nil
}

func (g *GoogleFetcher) fetchSegments(ctx context.Context, customerID string, dr models.DateRange, snap *models.Snapshot) {
	for _, report := range []string{"devices", "geo", "hourly", "daily"} {
		var env gadsReport[gadsSegmentRow]
		if err := GetJSONWithRetry(ctx, g.c, g.reportURL(customerID, report, dr), g.token, &env); err != nil {
			g.log.Warn("google segment fetch failed",
				slog.String("report", report), slog.String("error", err.Error()))
			continue
		}
		for _, r := range env.Results {
			spend := micros(r.CostMicros)
			clicks := max0(r.Clicks)
			impressions := max0(r.Impressions)
			conv := maxf(r.Conversions)
			switch report {
			case "devices":
				snap.Devices = append(snap.Devices, models.DeviceSegment{
					Device: r.Device,
					Spend:  spend, Clicks: clicks, Impressions: impressions, Conversions: conv,
				})
			case "geo":
				snap.Geo = append(snap.Geo, models.GeoLocation{
					LocationName: r.LocationName, RegionKey: r.GeoTargetID,
					Spend: spend, Clicks: clicks, Impressions: impressions, Conversions: conv,
				})
			case "hourly":
				snap.Hourly = append(snap.Hourly, models.TimeSegment{
					Hour:  r.Hour,
					Spend: spend, Clicks: clicks, Impressions: impressions, Conversions: conv,
				})
			case "daily":
				snap.Daily = append(snap.Daily, models.TimeSegment{
					Date: r.Date, DayOfWeek: titleDay(r.DayOfWeek),
					Spend: spend, Clicks: clicks, Impressions: impressions, Conversions: conv,
				})
			}
		}
	}
}

func (g *GoogleFetcher) reportURL(customerID, report string, dr models.DateRange) string {
	return fmt.Sprintf("%s/customers/%s/reports/%s?start_date=%s&end_date=%s",
		g.baseURL, customerID, report, dr.StartDate, dr.EndDate)
}

func micros(v int64) float64 {
	if v <= 0 {
		return 0
	}
	return models.Round2(float64(v) / microsPerUnit)
}

// titleDay maps the API's MONDAY enum to the Monday form the day-of-week
// analyzer keys on.
func titleDay(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}
