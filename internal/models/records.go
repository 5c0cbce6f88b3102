package models

// Platform identifies the ad platform a record came from.
type Platform string

const (
	PlatformFacebook Platform = "facebook"
	PlatformGoogle   Platform = "google"
)

// DateRange is the reporting window of a metrics snapshot.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Campaign is one campaign's totals for the date range.
type Campaign struct {
	CampaignID      string  `json:"campaign_id"`
	CampaignName    string  `json:"campaign_name"`
	Status          string  `json:"status"`
	Objective       string  `json:"objective,omitempty"`
	Spend           float64 `json:"spend"`
	Clicks          int     `json:"clicks"`
	Impressions     int     `json:"impressions"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
	ROAS            float64 `json:"roas"`
	Frequency       float64 `json:"frequency,omitempty"`
	Reach           int     `json:"reach,omitempty"`
	DailyBudget     float64 `json:"daily_budget,omitempty"`
	LifetimeBudget  float64 `json:"lifetime_budget,omitempty"`
	CTR             float64 `json:"ctr"`
}

// AdSet is one Facebook ad set's totals.
type AdSet struct {
	AdSetID         string  `json:"adset_id"`
	AdSetName       string  `json:"adset_name"`
	CampaignName    string  `json:"campaign_name"`
	Status          string  `json:"status"`
	Spend           float64 `json:"spend"`
	Clicks          int     `json:"clicks"`
	Impressions     int     `json:"impressions"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
	ROAS            float64 `json:"roas,omitempty"`
}

// Ad is one ad's totals, with the creative fields the pattern analysis reads.
type Ad struct {
	AdID         string  `json:"ad_id"`
	AdName       string  `json:"ad_name"`
	CampaignName string  `json:"campaign_name"`
	Headline     string  `json:"headline,omitempty"`
	CTA          string  `json:"cta,omitempty"`
	LinkURL      string  `json:"link_url,omitempty"`
	Spend        float64 `json:"spend"`
	Clicks       int     `json:"clicks"`
	Impressions  int     `json:"impressions"`
	Conversions  float64 `json:"conversions"`
	Frequency    float64 `json:"frequency,omitempty"`
	CTR          float64 `json:"ctr"`
}

// Keyword is one Google Ads keyword's totals.
type Keyword struct {
	KeywordText       string  `json:"keyword_text"`
	ResourceName      string  `json:"resource_name,omitempty"`
	AdGroupName       string  `json:"ad_group_name"`
	CampaignName      string  `json:"campaign_name"`
	CampaignID        string  `json:"campaign_id,omitempty"`
	Status            string  `json:"status"`
	Spend             float64 `json:"spend"`
	Clicks            int     `json:"clicks"`
	Impressions       int     `json:"impressions"`
	Conversions       float64 `json:"conversions"`
	CostPerConversion float64 `json:"cost_per_conversion"`
	CTR               float64 `json:"ctr"`
	AvgCPC            float64 `json:"avg_cpc"`
	CPCBid            float64 `json:"cpc_bid"`
	QualityScore      int     `json:"quality_score"`
}

// SearchQuery is one Google Ads search term's totals.
type SearchQuery struct {
	SearchTerm   string  `json:"search_term"`
	AdGroup      string  `json:"ad_group"`
	CampaignName string  `json:"campaign_name"`
	CampaignID   string  `json:"campaign_id,omitempty"`
	Spend        float64 `json:"spend"`
	Clicks       int     `json:"clicks"`
	Impressions  int     `json:"impressions"`
	Conversions  float64 `json:"conversions"`
}

// Placement is one Facebook placement's totals (Feed, Stories, Reels, ...).
type Placement struct {
	PlacementName string  `json:"placement_name"`
	Platform      string  `json:"platform"`
	Position      string  `json:"position,omitempty"`
	Spend         float64 `json:"spend"`
	Clicks        int     `json:"clicks"`
	Impressions   int     `json:"impressions"`
	Conversions   float64 `json:"conversions"`
	CTR           float64 `json:"ctr"`
	CPM           float64 `json:"cpm"`
}

// DemographicSegment is one age/gender bucket's totals.
type DemographicSegment struct {
	Age         string  `json:"age"`
	Gender      string  `json:"gender"`
	Spend       float64 `json:"spend"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	Conversions float64 `json:"conversions"`
	CTR         float64 `json:"ctr"`
}

// GeoLocation is one location's totals.
type GeoLocation struct {
	LocationName string  `json:"location_name"`
	RegionKey    string  `json:"region_key,omitempty"`
	CampaignName string  `json:"campaign_name,omitempty"`
	Spend        float64 `json:"spend"`
	Clicks       int     `json:"clicks"`
	Impressions  int     `json:"impressions"`
	Conversions  float64 `json:"conversions"`
}

// TimeSegment is one hour or day bucket's totals.
type TimeSegment struct {
	Date        string  `json:"date,omitempty"`
	Hour        int     `json:"hour,omitempty"`
	DayOfWeek   string  `json:"day_of_week,omitempty"`
	Spend       float64 `json:"spend"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	Conversions float64 `json:"conversions"`
}

// DeviceSegment is one device bucket's totals (Google only).
type DeviceSegment struct {
	Device      string  `json:"device"`
	Spend       float64 `json:"spend"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	Conversions float64 `json:"conversions"`
}

// AccountSummary holds account-wide totals computed at fetch time.
type AccountSummary struct {
	TotalSpend       float64 `json:"total_spend"`
	TotalClicks      int     `json:"total_clicks"`
	TotalImpressions int     `json:"total_impressions"`
	TotalConversions float64 `json:"total_conversions"`
	ConversionValue  float64 `json:"conversion_value,omitempty"`
	OverallCPA       float64 `json:"overall_cpa"`
	OverallCTR       float64 `json:"overall_ctr"`
	TotalReach       int     `json:"total_reach,omitempty"`
	TotalFrequency   float64 `json:"total_frequency,omitempty"`
}

// Snapshot is one account's metrics for one date range, produced once by a
// fetcher and consumed once by the analyzers.
type Snapshot struct {
	Platform     Platform             `json:"platform"`
	AccountID    string               `json:"account_id"`
	AccountName  string               `json:"account_name"`
	Currency     string               `json:"currency"`
	DateRange    DateRange            `json:"date_range"`
	Summary      AccountSummary       `json:"summary"`
	Campaigns    []Campaign           `json:"campaigns"`
	AdSets       []AdSet              `json:"ad_sets,omitempty"`
	Ads          []Ad                 `json:"ads,omitempty"`
	Keywords     []Keyword            `json:"keywords,omitempty"`
	SearchTerms  []SearchQuery        `json:"search_queries,omitempty"`
	Placements   []Placement          `json:"placement_breakdown,omitempty"`
	Demographics []DemographicSegment `json:"demographic_breakdown,omitempty"`
	Geo          []GeoLocation        `json:"geo_performance,omitempty"`
	Hourly       []TimeSegment        `json:"hourly_performance,omitempty"`
	Daily        []TimeSegment        `json:"daily_performance,omitempty"`
	Devices      []DeviceSegment      `json:"device_performance,omitempty"`
}

// Days returns the number of days covered by the snapshot, at least 1.
func (s Snapshot) Days() int {
	d := daysBetween(s.DateRange.StartDate, s.DateRange.EndDate)
	if d <= 0 {
		return 1
	}
	return d
}

// SafeDiv guards every ratio computation: numerator/denominator when the
// denominator is positive, otherwise zero. Conversions and clicks may
// legitimately be zero, so this is applied uniformly.
func SafeDiv(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	return 0
}

// NormalizeCTR accepts both upstream CTR conventions (0..1 fraction and
// 0..100 percentage) and returns the 0..100 percentage scale. Values below 1
// are assumed to be fractions, matching the producers' conventions.
func NormalizeCTR(v float64) float64 {
	if v > 0 && v < 1 {
		return v * 100
	}
	return v
}
