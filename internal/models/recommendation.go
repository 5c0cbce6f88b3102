package models

// Kind tags a recommendation variant. Each kind carries its own addressing
// fields (see Target) so the apply executor can resolve a platform object
// without re-querying the analyzers.
type Kind string

const (
	// Facebook kinds.
	KindAudienceExclusion  Kind = "audience_exclusion"
	KindCreativeRefresh    Kind = "creative_refresh"
	KindPlacementExclusion Kind = "placement_exclusion"
	KindBudgetAdjustment   Kind = "budget_adjustment"
	KindGeoExclusion       Kind = "geo_exclusion"
	KindScheduleAdjustment Kind = "schedule_adjustment"
	KindBudgetScaling      Kind = "budget_scaling"
	KindCampaignReview     Kind = "campaign_review"
	KindROASScaling        Kind = "roas_scaling"
	KindROASReview         Kind = "roas_review"
	KindAudienceFatigue    Kind = "audience_fatigue"
	KindDaySchedule        Kind = "day_schedule"
	KindObjectiveMismatch  Kind = "objective_mismatch"
	KindCreativeTest       Kind = "creative_test"
	KindGeoScaling         Kind = "geo_scaling"
	KindLandingPage        Kind = "landing_page"

	// Google kinds.
	KindKeywordAction         Kind = "keyword_action"
	KindBidAdjustment         Kind = "bid_adjustment"
	KindScheduleBidAdjustment Kind = "schedule_bid_adjustment"
	KindGeoBidAdjustment      Kind = "geo_bid_adjustment"
	KindAdCopy                Kind = "ad_copy"
	KindQualityImprovement    Kind = "quality_improvement"
	KindBudgetPacing          Kind = "budget_pacing"
)

// Priority is assigned once at generation time and never recomputed.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting: high before medium before low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Automation says whether a recommendation kind can be applied through the
// platform API. It is a static lookup by kind, not a computed property.
type Automation struct {
	IsAutomatable bool   `json:"is_automatable"`
	ManualReason  string `json:"manual_reason,omitempty"`
}

// Target carries the variant-specific addressing fields a recommendation
// needs to be applied. Constructors in the recommend package set exactly the
// fields their kind uses; everything else stays zero.
type Target struct {
	AdSetID      string `json:"adset_id,omitempty"`
	AdSetName    string `json:"adset_name,omitempty"`
	CampaignID   string `json:"campaign_id,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
	AdName       string `json:"ad_name,omitempty"`

	Segment     string `json:"segment,omitempty"`
	SegmentType string `json:"segment_type,omitempty"`
	Placement   string `json:"placement,omitempty"`
	Location    string `json:"location,omitempty"`
	RegionKey   string `json:"region_key,omitempty"`

	BestHours  []int    `json:"best_hours,omitempty"`
	WastedDays []string `json:"wasted_days,omitempty"`

	Keyword          string   `json:"keyword,omitempty"`
	Resource         string   `json:"target,omitempty"`
	AdGroupName      string   `json:"ad_group_name,omitempty"`
	KeywordAction    string   `json:"keyword_action,omitempty"`
	Current          string   `json:"current,omitempty"`
	Suggested        string   `json:"suggested,omitempty"`
	NegativeKeywords []string `json:"negative_keywords,omitempty"`
	CurrentBid       float64  `json:"current_bid,omitempty"`
	SuggestedBid     float64  `json:"suggested_bid,omitempty"`
	CampaignIDs      []string `json:"campaign_ids,omitempty"`

	Headline    string `json:"headline,omitempty"`
	Description string `json:"description,omitempty"`
	FinalURL    string `json:"final_url,omitempty"`
}

// Recommendation is one actionable item. Immutable after construction.
type Recommendation struct {
	Kind           Kind           `json:"type"`
	Action         string         `json:"action"`
	Reason         string         `json:"reason"`
	ExpectedImpact string         `json:"expected_impact"`
	Priority       Priority       `json:"priority"`
	Impact         ImpactEstimate `json:"impact_data"`
	Automation     Automation     `json:"automation"`
	Target         Target         `json:"target_ref"`
}
