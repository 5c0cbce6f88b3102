package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/growthops/adscope/internal/models"
)

// FacebookFetcher reads a Graph API-shaped insights endpoint. Every numeric
// field arrives as a string (Graph convention), so parsing clamps bad input
// to zero instead of failing the run.
type FacebookFetcher struct {
	c       HTTPClient
	baseURL string
	token   string
	log     *slog.Logger
}

func NewFacebookFetcher(c HTTPClient, baseURL, token string, log *slog.Logger) *FacebookFetcher {
	return &FacebookFetcher{c: c, baseURL: strings.TrimRight(baseURL, "/"), token: token, log: log}
}

// Graph responses wrap rows in a data envelope.
type fbEnvelope[T any] struct {
	Data []T `json:"data"`
}

type fbCampaignRow struct {
	CampaignID      string `json:"campaign_id"`
	CampaignName    string `json:"campaign_name"`
	Status          string `json:"effective_status"`
	Objective       string `json:"objective"`
	Spend           string `json:"spend"`
	Clicks          string `json:"clicks"`
	Impressions     string `json:"impressions"`
	Conversions     string `json:"conversions"`
	ConversionValue string `json:"conversion_values"`
	Frequency       string `json:"frequency"`
	Reach           string `json:"reach"`
	DailyBudget     string `json:"daily_budget"`
	LifetimeBudget  string `json:"lifetime_budget"`
	CTR             string `json:"ctr"`
}

type fbAdSetRow struct {
	AdSetID         string `json:"adset_id"`
	AdSetName       string `json:"adset_name"`
	CampaignName    string `json:"campaign_name"`
	Status          string `json:"effective_status"`
	Spend           string `json:"spend"`
	Clicks          string `json:"clicks"`
	Impressions     string `json:"impressions"`
	Conversions     string `json:"conversions"`
	ConversionValue string `json:"conversion_values"`
}

type fbAdRow struct {
	AdID         string `json:"ad_id"`
	AdName       string `json:"ad_name"`
	CampaignName string `json:"campaign_name"`
	Headline     string `json:"headline"`
	CTA          string `json:"call_to_action_type"`
	LinkURL      string `json:"link_url"`
	Spend        string `json:"spend"`
	Clicks       string `json:"clicks"`
	Impressions  string `json:"impressions"`
	Conversions  string `json:"conversions"`
	Frequency    string `json:"frequency"`
	CTR          string `json:"ctr"`
}

type fbBreakdownRow struct {
	Age           string `json:"age"`
	Gender        string `json:"gender"`
	PublisherName string `json:"publisher_platform"`
	Position      string `json:"platform_position"`
	Region        string `json:"region"`
	RegionKey     string `json:"region_id"`
	Hour          string `json:"hourly_stats_aggregated_by_advertiser_time_zone"`
	Date          string `json:"date_start"`
	Spend         string `json:"spend"`
	Clicks        string `json:"clicks"`
	Impressions   string `json:"impressions"`
	Conversions   string `json:"conversions"`
	CTR           string `json:"ctr"`
	CPM           string `json:"cpm"`
}

// Fetch pulls the full Facebook snapshot for one ad account over one range.
// Each breakdown is a separate request; a failed breakdown degrades to an
// empty section, only the campaign pull is fatal.
func (f *FacebookFetcher) Fetch(ctx context.Context, accountID string, dr models.DateRange) (models.Snapshot, error) {
	snap := models.Snapshot{
		Platform:  models.PlatformFacebook,
		AccountID: accountID,
		Currency:  "RM",
		DateRange: dr,
	}

	var campaigns fbEnvelope[fbCampaignRow]
	if err := GetJSONWithRetry(ctx, f.c, f.insightsURL(accountID, "campaign", dr), f.token, &campaigns); err != nil {
		return snap, fmt.Errorf("facebook campaigns: %w", err)
	}
	for _, r := range campaigns.Data {
		spend := maxf(pf(r.Spend))
		conv := maxf(pf(r.Conversions))
		snap.Campaigns = append(snap.Campaigns, models.Campaign{
			CampaignID:      r.CampaignID,
			CampaignName:    r.CampaignName,
			Status:          r.Status,
			Objective:       r.Objective,
			Spend:           spend,
			Clicks:          max0(pi(r.Clicks)),
			Impressions:     max0(pi(r.Impressions)),
			Conversions:     conv,
			ConversionValue: maxf(pf(r.ConversionValue)),
			ROAS:            roas(pf(r.ConversionValue), spend),
			Frequency:       maxf(pf(r.Frequency)),
			Reach:           max0(pi(r.Reach)),
			DailyBudget:     maxf(pf(r.DailyBudget)),
			LifetimeBudget:  maxf(pf(r.LifetimeBudget)),
			CTR:             models.NormalizeCTR(maxf(pf(r.CTR))),
		})
	}

	var adSets fbEnvelope[fbAdSetRow]
	if err := GetJSONWithRetry(ctx, f.c, f.insightsURL(accountID, "adset", dr), f.token, &adSets); err != nil {
		f.log.Warn("facebook adsets fetch failed", slog.String("error", err.Error()))
	}
	for _, r := range adSets.Data {
		spend := maxf(pf(r.Spend))
		value := maxf(pf(r.ConversionValue))
		snap.AdSets = append(snap.AdSets, models.AdSet{
			AdSetID:         r.AdSetID,
			AdSetName:       r.AdSetName,
			CampaignName:    r.CampaignName,
			Status:          r.Status,
			Spend:           spend,
			Clicks:          max0(pi(r.Clicks)),
			Impressions:     max0(pi(r.Impressions)),
			Conversions:     maxf(pf(r.Conversions)),
			ConversionValue: value,
			ROAS:            roas(value, spend),
		})
	}

	var ads fbEnvelope[fbAdRow]
	if err := GetJSONWithRetry(ctx, f.c, f.insightsURL(accountID, "ad", dr), f.token, &ads); err != nil {
		f.log.Warn("facebook ads fetch failed", slog.String("error", err.Error()))
	}
	for _, r := range ads.Data {
		snap.Ads = append(snap.Ads, models.Ad{
			AdID:         r.AdID,
			AdName:       r.AdName,
			CampaignName: r.CampaignName,
			Headline:     r.Headline,
			CTA:          r.CTA,
			LinkURL:      r.LinkURL,
			Spend:        maxf(pf(r.Spend)),
			Clicks:       max0(pi(r.Clicks)),
			Impressions:  max0(pi(r.Impressions)),
			Conversions:  maxf(pf(r.Conversions)),
			Frequency:    maxf(pf(r.Frequency)),
			CTR:          models.NormalizeCTR(maxf(pf(r.CTR))),
		})
	}

	f.fetchBreakdowns(ctx, accountID, dr, &snap)
	snap.Summary = summarize(snap.Campaigns)
	if reach, freq := reachTotals(snap.Campaigns); reach > 0 {
		snap.Summary.TotalReach = reach
		snap.Summary.TotalFrequency = freq
	}
	return snap, nil
}

func (f *FacebookFetcher) fetchBreakdowns(ctx context.Context, accountID string, dr models.DateRange, snap *models.Snapshot) {
	for _, breakdown := range []string{"age,gender", "publisher_platform,platform_position", "region", "hourly", "daily"} {
		var env fbEnvelope[fbBreakdownRow]
		u := f.insightsURL(accountID, "campaign", dr) + "&breakdowns=" + url.QueryEscape(breakdown)
		if err := GetJSONWithRetry(ctx, f.c, u, f.token, &env); err != nil {
			f.log.Warn("facebook breakdown fetch failed",
				slog.String("breakdown", breakdown), slog.String("error", err.Error()))
			continue
		}
		for _, r := range env.Data {
			spend := maxf(pf(r.Spend))
			clicks := max0(pi(r.Clicks))
			impressions := max0(pi(r.Impressions))
			conv := maxf(pf(r.Conversions))
			switch breakdown {
			case "age,gender":
				snap.Demographics = append(snap.Demographics, models.DemographicSegment{
					Age: r.Age, Gender: r.Gender,
					Spend: spend, Clicks: clicks, Impressions: impressions, Conversions: conv,
					CTR: models.NormalizeCTR(maxf(pf(r.CTR))),
				})
			case "publisher_platform,platform_position":
				snap.Placements = append(snap.Placements, models.Placement{
					PlacementName: placementName(r.PublisherName, r.Position),
					Platform:      r.PublisherName,
					Position:      r.Position,
					Spend:         spend, Clicks: clicks, Impressions: impressions, Conversions: conv,
					CTR: models.NormalizeCTR(maxf(pf(r.CTR))),
					CPM: maxf(pf(r.CPM)),
				})
			case "region":
				snap.Geo = append(snap.Geo, models.GeoLocation{
					LocationName: r.Region, RegionKey: r.RegionKey,
					Spend: spend, Clicks: clicks, Impressions: impressions, Conversions: conv,
				})
			case "hourly":
				snap.Hourly = append(snap.Hourly, models.TimeSegment{
					Hour:  parseHour(r.Hour),
					Spend: spend, Clicks: clicks, Impressions: impressions, Conversions: conv,
				})
			case "daily":
				snap.Daily = append(snap.Daily, models.TimeSegment{
					Date:  r.Date,
					Spend: spend, Clicks: clicks, Impressions: impressions, Conversions: conv,
				})
			}
		}
	}
}

func (f *FacebookFetcher) insightsURL(accountID, level string, dr models.DateRange) string {
	q := url.Values{}
	q.Set("level", level)
	q.Set("time_range[since]", dr.StartDate)
	q.Set("time_range[until]", dr.EndDate)
	return fmt.Sprintf("%s/%s/insights?%s", f.baseURL, accountID, q.Encode())
}

// placementName joins publisher and position the way the dashboard labels
// placements ("facebook: feed").
func placementName(platform, position string) string {
	if position == "" {
		return platform
	}
	return platform + ": " + position
}

// parseHour extracts the starting hour from a Graph hourly bucket label like
// "14:00:00 - 14:59:59".
func parseHour(s string) int {
	if i := strings.Index(s, ":"); i > 0 {
		if h, err := strconv.Atoi(strings.TrimSpace(s[:i])); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return 0
}

func pf(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func pi(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

func roas(value, spend float64) float64 {
	if spend > 0 && value > 0 {
		return models.Round2(value / spend)
	}
	return 0
}

// summarize computes account totals from campaign rows.
func summarize(campaigns []models.Campaign) models.AccountSummary {
	var s models.AccountSummary
	for _, c := range campaigns {
		s.TotalSpend += c.Spend
		s.TotalClicks += c.Clicks
		s.TotalImpressions += c.Impressions
		s.TotalConversions += c.Conversions
		s.ConversionValue += c.ConversionValue
	}
	s.TotalSpend = models.Round2(s.TotalSpend)
	s.OverallCPA = models.Round2(models.SafeDiv(s.TotalSpend, s.TotalConversions))
	s.OverallCTR = models.Round2(models.SafeDiv(float64(s.TotalClicks), float64(s.TotalImpressions)) * 100)
	return s
}

func reachTotals(campaigns []models.Campaign) (int, float64) {
	var reach int
	var weighted float64
	for _, c := range campaigns {
		reach += c.Reach
		weighted += c.Frequency * float64(c.Reach)
	}
	if reach == 0 {
		return 0, 0
	}
	return reach, models.Round2(weighted / float64(reach))
}
