package apply

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthops/adscope/internal/models"
	"github.com/growthops/adscope/internal/recommend"
)

type recordingClient struct {
	calls    []*http.Request
	bodies   []map[string]any
	statuses []int
}

func (c *recordingClient) Do(req *http.Request) (*http.Response, error) {
	c.calls = append(c.calls, req)
	var payload map[string]any
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(b, &payload)
	}
	c.bodies = append(c.bodies, payload)

	status := http.StatusOK
	if len(c.statuses) > 0 {
		status = c.statuses[0]
		c.statuses = c.statuses[1:]
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(`{}`)),
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func autoRec(kind models.Kind, target models.Target) models.Recommendation {
	return models.Recommendation{
		Kind:       kind,
		Action:     "do the thing",
		Automation: recommend.AutomationFor(models.PlatformFacebook, kind),
		Target:     target,
	}
}

func TestApplySendsMutation(t *testing.T) {
	c := &recordingClient{}
	e := NewExecutor(c, "https://graph.test/v19.0", "fb-tok", "https://ads.test", "g-tok", testLogger())

	recs := []models.Recommendation{
		autoRec(models.KindAudienceExclusion, models.Target{
			AdSetID: "as1", Segment: "Male 55-64", SegmentType: "age_gender",
		}),
	}
	results := e.Apply(context.Background(), models.PlatformFacebook, "act_123", recs, false)

	require.Len(t, results, 1)
	assert.Equal(t, StatusApplied, results[0].Status)
	require.Len(t, c.calls, 1)
	assert.Equal(t, http.MethodPost, c.calls[0].Method)
	assert.Equal(t, "https://graph.test/v19.0/act_123/adsets/as1/targeting_exclusions", c.calls[0].URL.String())
	assert.Equal(t, "Bearer fb-tok", c.calls[0].Header.Get("Authorization"))
	assert.Equal(t, "Male 55-64", c.bodies[0]["segment"])
}

func TestApplySkipsManualKinds(t *testing.T) {
	c := &recordingClient{}
	e := NewExecutor(c, "https://graph.test", "t", "https://ads.test", "t", testLogger())

	rec := models.Recommendation{
		Kind:       models.KindAudienceFatigue,
		Action:     "build lookalikes",
		Automation: recommend.AutomationFor(models.PlatformFacebook, models.KindAudienceFatigue),
	}
	results := e.Apply(context.Background(), models.PlatformFacebook, "act_123", []models.Recommendation{rec}, false)

	require.Len(t, results, 1)
	assert.Equal(t, StatusSkipped, results[0].Status)
	assert.Equal(t, "Creating lookalike audiences requires strategic decisions", results[0].Reason)
	assert.Empty(t, c.calls, "manual kinds must not hit the platform")
}

func TestApplyDryRunRecordsWithoutSending(t *testing.T) {
	c := &recordingClient{}
	e := NewExecutor(c, "https://graph.test", "t", "https://ads.test", "t", testLogger())

	recs := []models.Recommendation{
		autoRec(models.KindGeoExclusion, models.Target{Location: "Sabah", RegionKey: "MY-12"}),
	}
	results := e.Apply(context.Background(), models.PlatformFacebook, "act_123", recs, true)

	require.Len(t, results, 1)
	assert.Equal(t, StatusDryRun, results[0].Status)
	require.NotNil(t, results[0].Mutation)
	assert.Equal(t, "/act_123/geo_exclusions", results[0].Mutation.Endpoint)
	assert.Equal(t, "Sabah", results[0].Mutation.Payload["location"])
	assert.Empty(t, c.calls)
}

func TestApplyIsolatesFailures(t *testing.T) {
	c := &recordingClient{statuses: []int{500, 200}}
	e := NewExecutor(c, "https://graph.test", "t", "https://ads.test", "t", testLogger())

	recs := []models.Recommendation{
		autoRec(models.KindPlacementExclusion, models.Target{Placement: "audience_network: classic"}),
		autoRec(models.KindGeoExclusion, models.Target{Location: "Perlis"}),
	}
	results := e.Apply(context.Background(), models.PlatformFacebook, "act_123", recs, false)

	require.Len(t, results, 2)
	assert.Equal(t, StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Reason, "non-2xx: 500")
	assert.Equal(t, StatusApplied, results[1].Status)
	assert.Len(t, c.calls, 2, "a failure must not stop the batch")
}

func TestApplyRejectsUnaddressableTargets(t *testing.T) {
	c := &recordingClient{}
	e := NewExecutor(c, "https://graph.test", "t", "https://ads.test", "t", testLogger())

	// Audience exclusion with no ad set cannot be addressed.
	recs := []models.Recommendation{
		autoRec(models.KindAudienceExclusion, models.Target{Segment: "Male 55-64"}),
	}
	results := e.Apply(context.Background(), models.PlatformFacebook, "act_123", recs, false)

	require.Len(t, results, 1)
	assert.Equal(t, StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Reason, "ad set")
	assert.Empty(t, c.calls)
}

func TestApplyGoogleKeywordMutations(t *testing.T) {
	c := &recordingClient{}
	e := NewExecutor(c, "https://graph.test", "fb", "https://ads.test/v16", "g-tok", testLogger())

	pause := models.Recommendation{
		Kind:       models.KindKeywordAction,
		Action:     "Pause keyword 'dud'",
		Automation: recommend.AutomationFor(models.PlatformGoogle, models.KindKeywordAction),
		Target: models.Target{
			KeywordAction: "pause",
			Resource:      "customers/9/adGroupCriteria/42",
		},
	}
	negatives := models.Recommendation{
		Kind:       models.KindKeywordAction,
		Action:     "Add 2 negative keywords",
		Automation: recommend.AutomationFor(models.PlatformGoogle, models.KindKeywordAction),
		Target: models.Target{
			KeywordAction:    "add_negative",
			NegativeKeywords: []string{"exercises", "diy"},
		},
	}
	bid := models.Recommendation{
		Kind:       models.KindBidAdjustment,
		Action:     "Raise bid",
		Automation: recommend.AutomationFor(models.PlatformGoogle, models.KindBidAdjustment),
		Target: models.Target{
			Keyword:      "knee clinic",
			Resource:     "customers/9/adGroupCriteria/7",
			SuggestedBid: 1.5,
		},
	}

	results := e.Apply(context.Background(), models.PlatformGoogle, "901", []models.Recommendation{pause, negatives, bid}, false)

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, StatusApplied, r.Status, "result %d", i)
	}
	require.Len(t, c.calls, 3)
	assert.Equal(t, "https://ads.test/v16/customers/901/keywords:pause", c.calls[0].URL.String())
	assert.Equal(t, "Bearer g-tok", c.calls[0].Header.Get("Authorization"))
	assert.Equal(t, "https://ads.test/v16/customers/901/negative_keywords", c.calls[1].URL.String())
	assert.Equal(t, []any{"exercises", "diy"}, c.bodies[1]["keywords"])
	assert.Equal(t, 1.5, c.bodies[2]["cpc_bid"])
}
