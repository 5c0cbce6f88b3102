// Package apply pushes automatable recommendations back to the ad platforms.
// Each recommendation maps to one mutation request; non-automatable kinds
// are skipped with their manual reason, and one failed mutation never aborts
// the batch.
package apply

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/growthops/adscope/internal/fetch"
	"github.com/growthops/adscope/internal/models"
)

// Status of one apply attempt.
const (
	StatusApplied = "applied"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusDryRun  = "dry_run"
)

// Result is the outcome of applying one recommendation.
type Result struct {
	Kind     models.Kind `json:"type"`
	Action   string      `json:"action"`
	Status   string      `json:"status"`
	Reason   string      `json:"reason,omitempty"`
	Mutation *Mutation   `json:"mutation,omitempty"`
}

// Mutation is the platform call derived from one recommendation. In dry-run
// mode it is recorded without being sent.
type Mutation struct {
	Platform models.Platform `json:"platform"`
	Endpoint string          `json:"endpoint"`
	Payload  map[string]any  `json:"payload"`
}

// Executor translates recommendations into platform mutations.
type Executor struct {
	c       fetch.HTTPClient
	baseURL map[models.Platform]string
	token   map[models.Platform]string
	log     *slog.Logger
}

func NewExecutor(c fetch.HTTPClient, fbBaseURL, fbToken, googleBaseURL, googleToken string, log *slog.Logger) *Executor {
	return &Executor{
		c: c,
		baseURL: map[models.Platform]string{
			models.PlatformFacebook: strings.TrimRight(fbBaseURL, "/"),
			models.PlatformGoogle:   strings.TrimRight(googleBaseURL, "/"),
		},
		token: map[models.Platform]string{
			models.PlatformFacebook: fbToken,
			models.PlatformGoogle:   googleToken,
		},
		log: log,
	}
}

// Apply runs the whole batch, one result per recommendation, input order
// preserved. With dryRun set the mutations are recorded but never sent.
func (e *Executor) Apply(ctx context.Context, platform models.Platform, accountID string, recs []models.Recommendation, dryRun bool) []Result {
	results := make([]Result, 0, len(recs))
	for _, rec := range recs {
		results = append(results, e.applyOne(ctx, platform, accountID, rec, dryRun))
	}

	applied, failed, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusApplied, StatusDryRun:
			applied++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	e.log.Info("apply batch finished",
		slog.String("platform", string(platform)),
		slog.Int("applied", applied),
		slog.Int("skipped", skipped),
		slog.Int("failed", failed),
		slog.Bool("dry_run", dryRun))
	return results
}

func (e *Executor) applyOne(ctx context.Context, platform models.Platform, accountID string, rec models.Recommendation, dryRun bool) Result {
	res := Result{Kind: rec.Kind, Action: rec.Action}

	if !rec.Automation.IsAutomatable {
		res.Status = StatusSkipped
		res.Reason = rec.Automation.ManualReason
		if res.Reason == "" {
			res.Reason = "not automatable"
		}
		return res
	}

	mut, err := e.mutationFor(platform, accountID, rec)
	if err != nil {
		res.Status = StatusFailed
		res.Reason = err.Error()
		return res
	}
	res.Mutation = &mut

	if dryRun {
		res.Status = StatusDryRun
		return res
	}

	if err := e.send(ctx, mut); err != nil {
		e.log.Warn("mutation failed",
			slog.String("type", string(rec.Kind)),
			slog.String("error", err.Error()))
		res.Status = StatusFailed
		res.Reason = err.Error()
		return res
	}
	res.Status = StatusApplied
	return res
}

// mutationFor maps one recommendation kind to its endpoint and payload. The
// addressing comes entirely from the recommendation's target.
func (e *Executor) mutationFor(platform models.Platform, accountID string, rec models.Recommendation) (Mutation, error) {
	t := rec.Target
	mut := Mutation{Platform: platform}

	switch rec.Kind {
	case models.KindAudienceExclusion:
		if t.AdSetID == "" {
			return mut, fmt.Errorf("audience exclusion needs an ad set")
		}
		mut.Endpoint = fmt.Sprintf("/%s/adsets/%s/targeting_exclusions", accountID, t.AdSetID)
		mut.Payload = map[string]any{"segment": t.Segment, "segment_type": t.SegmentType}

	case models.KindPlacementExclusion:
		mut.Endpoint = fmt.Sprintf("/%s/placement_exclusions", accountID)
		mut.Payload = map[string]any{"placement": t.Placement}

	case models.KindGeoExclusion:
		mut.Endpoint = fmt.Sprintf("/%s/geo_exclusions", accountID)
		mut.Payload = map[string]any{"location": t.Location, "region_key": t.RegionKey}

	case models.KindGeoScaling, models.KindGeoBidAdjustment:
		mut.Endpoint = fmt.Sprintf("/%s/geo_bid_adjustments", accountID)
		mut.Payload = map[string]any{"location": t.Location, "direction": "increase"}

	case models.KindScheduleAdjustment, models.KindScheduleBidAdjustment:
		mut.Endpoint = fmt.Sprintf("/%s/ad_schedule", accountID)
		mut.Payload = map[string]any{"best_hours": t.BestHours}

	case models.KindDaySchedule:
		mut.Endpoint = fmt.Sprintf("/%s/ad_schedule", accountID)
		mut.Payload = map[string]any{"excluded_days": t.WastedDays}

	case models.KindBudgetScaling, models.KindROASScaling:
		mut.Endpoint = fmt.Sprintf("/%s/budget_changes", accountID)
		mut.Payload = map[string]any{
			"campaign_name": t.CampaignName,
			"adset_name":    t.AdSetName,
			"change_pct":    20,
		}

	case models.KindBudgetAdjustment:
		mut.Endpoint = fmt.Sprintf("/%s/budget_changes", accountID)
		mut.Payload = map[string]any{
			"campaign_name": t.CampaignName,
			"current":       t.Current,
			"suggested":     t.Suggested,
		}

	case models.KindCampaignReview, models.KindROASReview:
		mut.Endpoint = fmt.Sprintf("/%s/campaign_status", accountID)
		mut.Payload = map[string]any{"campaign_name": t.CampaignName, "status": "PAUSED"}

	case models.KindCreativeRefresh:
		mut.Endpoint = fmt.Sprintf("/%s/creative_rotation", accountID)
		mut.Payload = map[string]any{"ad_name": t.AdName, "campaign_name": t.CampaignName}

	case models.KindKeywordAction:
		switch t.KeywordAction {
		case "pause":
			if t.Resource == "" {
				return mut, fmt.Errorf("keyword pause needs a resource name")
			}
			mut.Endpoint = fmt.Sprintf("/customers/%s/keywords:pause", accountID)
			mut.Payload = map[string]any{"resource_name": t.Resource}
		case "add_negative":
			if len(t.NegativeKeywords) == 0 {
				return mut, fmt.Errorf("no negative keywords to add")
			}
			mut.Endpoint = fmt.Sprintf("/customers/%s/negative_keywords", accountID)
			mut.Payload = map[string]any{"keywords": t.NegativeKeywords, "match_type": "PHRASE"}
		default:
			return mut, fmt.Errorf("unknown keyword action %q", t.KeywordAction)
		}

	case models.KindBidAdjustment:
		if t.SuggestedBid <= 0 {
			return mut, fmt.Errorf("bid adjustment needs a suggested bid")
		}
		mut.Endpoint = fmt.Sprintf("/customers/%s/bids", accountID)
		mut.Payload = map[string]any{
			"resource_name": t.Resource,
			"keyword":       t.Keyword,
			"cpc_bid":       t.SuggestedBid,
		}

	case models.KindAdCopy:
		mut.Endpoint = fmt.Sprintf("/customers/%s/ads", accountID)
		mut.Payload = map[string]any{
			"ad_group_name": t.AdGroupName,
			"headline":      t.Headline,
			"description":   t.Description,
			"final_url":     t.FinalURL,
		}

	default:
		return mut, fmt.Errorf("no mutation mapping for %q", rec.Kind)
	}

	return mut, nil
}

func (e *Executor) send(ctx context.Context, mut Mutation) error {
	base := e.baseURL[mut.Platform]
	if base == "" {
		return fmt.Errorf("no base URL configured for %s", mut.Platform)
	}
	body, err := json.Marshal(mut.Payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+mut.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := e.token[mut.Platform]; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := e.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
