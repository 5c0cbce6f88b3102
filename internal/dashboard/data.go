// Package dashboard flattens one analysis run into the document the HTML
// dashboard renders: account summary, top entity tables, insight cards, and
// the highest-value recommendations.
package dashboard

import (
	"fmt"
	"sort"

	"github.com/growthops/adscope/internal/analyze"
	"github.com/growthops/adscope/internal/models"
	"github.com/growthops/adscope/internal/recommend"
)

const (
	maxCampaignRows = 10
	maxKeywordRows  = 15
	maxQueryRows    = 10
	maxGeoRows      = 10
	maxRecCards     = 8
)

// Document is the full dashboard payload, persisted as an artifact and fed
// to the Liquid template.
type Document struct {
	Platform    models.Platform       `json:"platform"`
	AccountName string                `json:"account_name"`
	Currency    string                `json:"currency"`
	DateRange   models.DateRange      `json:"date_range"`
	GeneratedAt string                `json:"generated_at"`
	Summary     models.AccountSummary `json:"summary"`
	Narrative   string                `json:"narrative"`

	Campaigns []CampaignRow `json:"campaigns"`
	Keywords  []KeywordRow  `json:"keywords,omitempty"`
	Queries   []QueryRow    `json:"search_queries,omitempty"`
	Geo       []GeoRow      `json:"geo,omitempty"`

	InsightCards []InsightCard `json:"insight_cards"`
	TopRecs      []RecCard     `json:"top_recommendations"`
	Totals       models.AggregateTotals `json:"totals"`
}

type CampaignRow struct {
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Spend       float64 `json:"spend"`
	Clicks      int     `json:"clicks"`
	Conversions float64 `json:"conversions"`
	CPA         float64 `json:"cpa"`
	CTR         float64 `json:"ctr"`
	ROAS        float64 `json:"roas,omitempty"`
}

type KeywordRow struct {
	Keyword      string  `json:"keyword"`
	AdGroup      string  `json:"ad_group"`
	Spend        float64 `json:"spend"`
	Clicks       int     `json:"clicks"`
	Conversions  float64 `json:"conversions"`
	CPA          float64 `json:"cpa"`
	QualityScore int     `json:"quality_score,omitempty"`
}

type QueryRow struct {
	SearchTerm  string  `json:"search_term"`
	Spend       float64 `json:"spend"`
	Clicks      int     `json:"clicks"`
	Conversions float64 `json:"conversions"`
}

type GeoRow struct {
	Location    string  `json:"location"`
	Spend       float64 `json:"spend"`
	Clicks      int     `json:"clicks"`
	Conversions float64 `json:"conversions"`
	CPA         float64 `json:"cpa"`
}

// InsightCard is one analyzer headline for the cards strip.
type InsightCard struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Severity string `json:"severity"`
}

// RecCard is one recommendation rendered on the dashboard, formula and
// assumptions verbatim.
type RecCard struct {
	Kind           models.Kind     `json:"type"`
	Action         string          `json:"action"`
	Reason         string          `json:"reason"`
	Priority       models.Priority `json:"priority"`
	NetBenefit     float64         `json:"net_benefit_monthly"`
	ConfidencePct  int             `json:"confidence_pct"`
	Formula        string          `json:"formula"`
	Assumptions    []string        `json:"assumptions"`
	Automatable    bool            `json:"automatable"`
	ManualReason   string          `json:"manual_reason,omitempty"`
	ExpectedImpact string          `json:"expected_impact"`
}

// Build assembles the dashboard document for one run.
func Build(snap models.Snapshot, recs []models.Recommendation, totals models.AggregateTotals, cards []InsightCard, narrative, generatedAt string) Document {
	doc := Document{
		Platform:     snap.Platform,
		AccountName:  snap.AccountName,
		Currency:     snap.Currency,
		DateRange:    snap.DateRange,
		GeneratedAt:  generatedAt,
		Summary:      snap.Summary,
		Narrative:    narrative,
		InsightCards: cards,
		Totals:       totals,
	}

	campaigns := make([]models.Campaign, len(snap.Campaigns))
	copy(campaigns, snap.Campaigns)
	sort.SliceStable(campaigns, func(i, j int) bool { return campaigns[i].Spend > campaigns[j].Spend })
	for _, c := range capRows(campaigns, maxCampaignRows) {
		doc.Campaigns = append(doc.Campaigns, CampaignRow{
			Name:        c.CampaignName,
			Status:      c.Status,
			Spend:       models.Round2(c.Spend),
			Clicks:      c.Clicks,
			Conversions: c.Conversions,
			CPA:         models.Round2(models.SafeDiv(c.Spend, c.Conversions)),
			CTR:         models.Round2(models.NormalizeCTR(c.CTR)),
			ROAS:        c.ROAS,
		})
	}

	keywords := make([]models.Keyword, len(snap.Keywords))
	copy(keywords, snap.Keywords)
	sort.SliceStable(keywords, func(i, j int) bool { return keywords[i].Spend > keywords[j].Spend })
	for _, k := range capRows(keywords, maxKeywordRows) {
		doc.Keywords = append(doc.Keywords, KeywordRow{
			Keyword:      k.KeywordText,
			AdGroup:      k.AdGroupName,
			Spend:        models.Round2(k.Spend),
			Clicks:       k.Clicks,
			Conversions:  k.Conversions,
			CPA:          models.Round2(models.SafeDiv(k.Spend, k.Conversions)),
			QualityScore: k.QualityScore,
		})
	}

	queries := make([]models.SearchQuery, len(snap.SearchTerms))
	copy(queries, snap.SearchTerms)
	sort.SliceStable(queries, func(i, j int) bool { return queries[i].Spend > queries[j].Spend })
	for _, q := range capRows(queries, maxQueryRows) {
		doc.Queries = append(doc.Queries, QueryRow{
			SearchTerm:  q.SearchTerm,
			Spend:       models.Round2(q.Spend),
			Clicks:      q.Clicks,
			Conversions: q.Conversions,
		})
	}

	geo := make([]models.GeoLocation, len(snap.Geo))
	copy(geo, snap.Geo)
	sort.SliceStable(geo, func(i, j int) bool { return geo[i].Spend > geo[j].Spend })
	for _, g := range capRows(geo, maxGeoRows) {
		doc.Geo = append(doc.Geo, GeoRow{
			Location:    g.LocationName,
			Spend:       models.Round2(g.Spend),
			Clicks:      g.Clicks,
			Conversions: g.Conversions,
			CPA:         models.Round2(models.SafeDiv(g.Spend, g.Conversions)),
		})
	}

	for _, rec := range recommend.TopByNetBenefit(recs, maxRecCards) {
		doc.TopRecs = append(doc.TopRecs, RecCard{
			Kind:           rec.Kind,
			Action:         rec.Action,
			Reason:         rec.Reason,
			Priority:       rec.Priority,
			NetBenefit:     models.Round2(rec.Impact.NetBenefit()),
			ConfidencePct:  rec.Impact.ConfidencePct,
			Formula:        rec.Impact.Formula,
			Assumptions:    rec.Impact.Assumptions,
			Automatable:    rec.Automation.IsAutomatable,
			ManualReason:   rec.Automation.ManualReason,
			ExpectedImpact: rec.ExpectedImpact,
		})
	}

	return doc
}

// FacebookCards builds the insight cards strip from Facebook analyzer
// output. Only sections with findings produce a card.
func FacebookCards(ins analyze.FacebookInsights, currency string) []InsightCard {
	var cards []InsightCard
	if ins.Audience.TotalWastedSpend > 0 {
		cards = append(cards, InsightCard{
			Title:    "Wasted audience spend",
			Body:     fmt.Sprintf("%s %.2f across %d segments with zero conversions", currency, ins.Audience.TotalWastedSpend, ins.Audience.WastedCount),
			Severity: "warning",
		})
	}
	if ins.CreativeFatigue.TotalFatigued > 0 {
		cards = append(cards, InsightCard{
			Title:    "Creative fatigue",
			Body:     fmt.Sprintf("%d ads showing fatigue signals", ins.CreativeFatigue.TotalFatigued),
			Severity: "warning",
		})
	}
	if len(ins.TopPerformers.ScaleCandidates) > 0 {
		cards = append(cards, InsightCard{
			Title:    "Ready to scale",
			Body:     fmt.Sprintf("%d campaigns/ad sets beating the account average CPA", len(ins.TopPerformers.ScaleCandidates)),
			Severity: "good",
		})
	}
	if ins.Geo.TotalWastedOnPoorLocations > 0 {
		cards = append(cards, InsightCard{
			Title:    "Geographic waste",
			Body:     fmt.Sprintf("%s %.2f in locations with zero conversions", currency, ins.Geo.TotalWastedOnPoorLocations),
			Severity: "warning",
		})
	}
	if n := len(ins.Objectives.Mismatches); n > 0 {
		cards = append(cards, InsightCard{
			Title:    "Objective mismatches",
			Body:     fmt.Sprintf("%d campaigns optimizing for the wrong outcome", n),
			Severity: "critical",
		})
	}
	return cards
}

// GoogleCards builds the insight cards strip from Google analyzer output.
func GoogleCards(ins analyze.GoogleInsights, currency string) []InsightCard {
	var cards []InsightCard
	if ins.SearchQueries.TotalWastedSpend > 0 {
		cards = append(cards, InsightCard{
			Title:    "Search query waste",
			Body:     fmt.Sprintf("%s %.2f on queries with zero conversions", currency, ins.SearchQueries.TotalWastedSpend),
			Severity: "warning",
		})
	}
	if n := len(ins.SearchQueries.NegativeKeywordSuggestions); n > 0 {
		cards = append(cards, InsightCard{
			Title:    "Negative keywords",
			Body:     fmt.Sprintf("%d negative keyword candidates identified", n),
			Severity: "warning",
		})
	}
	if ins.QualityScores.TotalLowQS > 0 {
		cards = append(cards, InsightCard{
			Title:    "Low Quality Scores",
			Body:     fmt.Sprintf("%d keywords below QS 5 spending %s %.2f", ins.QualityScores.TotalLowQS, currency, ins.QualityScores.TotalSpendLowQS),
			Severity: "warning",
		})
	}
	if ins.Devices.BestDevice != nil {
		cards = append(cards, InsightCard{
			Title:    "Best device",
			Body:     fmt.Sprintf("%s converts at %s %.2f CPA", ins.Devices.BestDevice.Device, currency, ins.Devices.BestDevice.CPA),
			Severity: "good",
		})
	}
	return cards
}

func capRows[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
