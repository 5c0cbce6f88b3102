package fetch

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthops/adscope/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, nil))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestGetJSONWithRetryRecovers(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var dst struct {
		OK bool `json:"ok"`
	}
	err := GetJSONWithRetry(context.Background(), srv.Client(), srv.URL, "", &dst)
	require.NoError(t, err)
	assert.True(t, dst.OK)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetJSONWithRetryGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var dst map[string]any
	err := GetJSONWithRetry(context.Background(), srv.Client(), srv.URL, "", &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-2xx")
}

func TestGetJSONSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var dst map[string]any
	require.NoError(t, getJSON(context.Background(), srv.Client(), srv.URL, "tok-123", &dst))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestFacebookFetchNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("breakdowns") == "age,gender":
			w.Write([]byte(`{"data":[
				{"age":"18-24","gender":"male","spend":"12.5","clicks":"30","impressions":"1000","conversions":"0","ctr":"0.03"}
			]}`))
		case q.Get("breakdowns") != "":
			w.Write([]byte(`{"data":[]}`))
		case q.Get("level") == "campaign":
			w.Write([]byte(`{"data":[
				{"campaign_id":"c1","campaign_name":"Main","effective_status":"ACTIVE","objective":"OUTCOME_SALES",
				 "spend":"100.50","clicks":"250","impressions":"8000","conversions":"10","conversion_values":"420",
				 "frequency":"2.3","reach":"3500","daily_budget":"20","ctr":"0.031"},
				{"campaign_id":"c2","campaign_name":"Broken","effective_status":"ACTIVE",
				 "spend":"-5","clicks":"-3","impressions":"bogus","conversions":""}
			]}`))
		case q.Get("level") == "adset":
			w.Write([]byte(`{"data":[
				{"adset_id":"as1","adset_name":"Core","campaign_name":"Main","effective_status":"ACTIVE",
				 "spend":"60","clicks":"150","conversions":"6","conversion_values":"240"}
			]}`))
		default:
			w.Write([]byte(`{"data":[]}`))
		}
	}))
	defer srv.Close()

	f := NewFacebookFetcher(srv.Client(), srv.URL, "tok", discardLogger())
	snap, err := f.Fetch(context.Background(), "act_1", models.DateRange{StartDate: "2026-08-17", EndDate: "2026-08-23"})
	require.NoError(t, err)

	require.Len(t, snap.Campaigns, 2)
	main := snap.Campaigns[0]
	assert.InDelta(t, 100.50, main.Spend, 0.001)
	assert.InDelta(t, 4.18, main.ROAS, 0.001)
	// Fractional CTR normalized to the percentage scale.
	assert.InDelta(t, 3.1, main.CTR, 0.001)

	// Negative and unparseable values clamp to zero.
	broken := snap.Campaigns[1]
	assert.Zero(t, broken.Spend)
	assert.Zero(t, broken.Clicks)
	assert.Zero(t, broken.Impressions)

	require.Len(t, snap.AdSets, 1)
	assert.InDelta(t, 4.0, snap.AdSets[0].ROAS, 0.001)

	require.Len(t, snap.Demographics, 1)
	assert.InDelta(t, 3.0, snap.Demographics[0].CTR, 0.001)

	assert.InDelta(t, 100.50, snap.Summary.TotalSpend, 0.001)
	assert.Equal(t, 250, snap.Summary.TotalClicks)
	assert.InDelta(t, 10.05, snap.Summary.OverallCPA, 0.001)
	assert.Equal(t, 3500, snap.Summary.TotalReach)
}

func TestFacebookFetchCampaignErrorIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewFacebookFetcher(srv.Client(), srv.URL, "tok", discardLogger())
	_, err := f.Fetch(context.Background(), "act_1", models.DateRange{StartDate: "2026-08-17", EndDate: "2026-08-23"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "facebook campaigns")
}

func TestGoogleFetchConvertsMicros(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/reports/campaigns"):
			w.Write([]byte(`{"results":[
				{"campaignId":"10","campaignName":"Search","status":"ENABLED",
				 "costMicros":52500000,"clicks":120,"impressions":4000,"conversions":5,
				 "conversionsValue":210,"budgetAmountMicros":10000000}
			]}`))
		case strings.Contains(r.URL.Path, "/reports/keywords"):
			w.Write([]byte(`{"results":[
				{"keywordText":"knee brace","resourceName":"customers/1/adGroupCriteria/2~3",
				 "adGroupName":"Braces","campaignName":"Search","status":"ENABLED",
				 "costMicros":20000000,"clicks":50,"impressions":900,"conversions":4,
				 "averageCpcMicros":400000,"cpcBidMicros":500000,"qualityScore":7,"ctr":0.055}
			]}`))
		case strings.Contains(r.URL.Path, "/reports/daily"):
			w.Write([]byte(`{"results":[
				{"dayOfWeek":"MONDAY","date":"2026-08-17","costMicros":5000000,"clicks":40,"conversions":2}
			]}`))
		default:
			w.Write([]byte(`{"results":[]}`))
		}
	}))
	defer srv.Close()

	g := NewGoogleFetcher(srv.Client(), srv.URL, "tok", discardLogger())
	snap, err := g.Fetch(context.Background(), "1234567890", models.DateRange{StartDate: "2026-08-17", EndDate: "2026-08-23"})
	require.NoError(t, err)

	require.Len(t, snap.Campaigns, 1)
	assert.InDelta(t, 52.50, snap.Campaigns[0].Spend, 0.001)
	assert.InDelta(t, 10, snap.Campaigns[0].DailyBudget, 0.001)
	assert.InDelta(t, 4.0, snap.Campaigns[0].ROAS, 0.001)
	assert.InDelta(t, 3.0, snap.Campaigns[0].CTR, 0.001)

	require.Len(t, snap.Keywords, 1)
	kw := snap.Keywords[0]
	assert.InDelta(t, 20, kw.Spend, 0.001)
	assert.InDelta(t, 5, kw.CostPerConversion, 0.001)
	assert.InDelta(t, 0.4, kw.AvgCPC, 0.001)
	assert.InDelta(t, 0.5, kw.CPCBid, 0.001)
	assert.InDelta(t, 5.5, kw.CTR, 0.001)

	require.Len(t, snap.Daily, 1)
	assert.Equal(t, "Monday", snap.Daily[0].DayOfWeek)
}
