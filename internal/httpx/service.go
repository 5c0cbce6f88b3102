package httpx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/growthops/adscope/internal/analyze"
	"github.com/growthops/adscope/internal/apply"
	"github.com/growthops/adscope/internal/dashboard"
	"github.com/growthops/adscope/internal/impact"
	"github.com/growthops/adscope/internal/metrics"
	"github.com/growthops/adscope/internal/models"
	"github.com/growthops/adscope/internal/recommend"
	"github.com/growthops/adscope/internal/store"
)

// Fetcher pulls one account's performance snapshot for a date range.
type Fetcher interface {
	Fetch(ctx context.Context, accountID string, dr models.DateRange) (models.Snapshot, error)
}

// Applier pushes a recommendation batch back to a platform.
type Applier interface {
	Apply(ctx context.Context, platform models.Platform, accountID string, recs []models.Recommendation, dryRun bool) []apply.Result
}

// RunReport is what a synchronous analysis run returns to the caller.
type RunReport struct {
	RunID           string                 `json:"run_id"`
	Platform        models.Platform        `json:"platform"`
	AccountID       string                 `json:"account_id"`
	DateRange       models.DateRange       `json:"date_range"`
	GeneratedAt     string                 `json:"generated_at"`
	Recommendations int                    `json:"recommendations"`
	Totals          models.AggregateTotals `json:"total_impact"`
	Artifacts       map[string]string      `json:"artifacts"`
	Summary         string                 `json:"summary"`
}

// Service runs one fetch-analyze-recommend pass per request and persists the
// artifacts. Stateless between runs; the artifact store is the only output.
type Service struct {
	fetchers map[models.Platform]Fetcher
	applier  Applier
	st       *store.FileStore
	mx       *metrics.Registry
	currency string
	log      *slog.Logger
	now      func() time.Time
}

func NewService(fb, google Fetcher, applier Applier, st *store.FileStore, mx *metrics.Registry, currency string, log *slog.Logger) *Service {
	return &Service{
		fetchers: map[models.Platform]Fetcher{
			models.PlatformFacebook: fb,
			models.PlatformGoogle:   google,
		},
		applier:  applier,
		st:       st,
		mx:       mx,
		currency: currency,
		log:      log,
		now:      time.Now,
	}
}

// Run executes the full pipeline for one account and writes the snapshot,
// insights, recommendations, and dashboard artifacts.
func (s *Service) Run(ctx context.Context, platform models.Platform, accountID string, dr models.DateRange) (RunReport, error) {
	finish := s.mx.RunStarted(string(platform))

	f, ok := s.fetchers[platform]
	if !ok || f == nil {
		finish("error")
		return RunReport{}, fmt.Errorf("unsupported platform %q", platform)
	}

	runID := uuid.NewString()
	log := s.log.With(slog.String("run_id", runID), slog.String("platform", string(platform)), slog.String("account", accountID))
	log.Info("analysis run started",
		slog.String("start", dr.StartDate), slog.String("end", dr.EndDate))

	snap, err := f.Fetch(ctx, accountID, dr)
	if err != nil {
		s.mx.FetchError(string(platform), "snapshot")
		finish("error")
		return RunReport{}, fmt.Errorf("fetch %s: %w", platform, err)
	}
	if snap.Currency == "" {
		snap.Currency = s.currency
	}

	calc := impact.NewCalculator(snap.Currency)
	var (
		recs     []models.Recommendation
		insights any
		cards    []dashboard.InsightCard
	)
	switch platform {
	case models.PlatformFacebook:
		ins := analyze.Facebook(snap)
		recs = recommend.Facebook(snap, ins, calc)
		cards = dashboard.FacebookCards(ins, snap.Currency)
		insights = ins
	case models.PlatformGoogle:
		ins := analyze.Google(snap)
		recs = recommend.Google(snap, ins, calc)
		cards = dashboard.GoogleCards(ins, snap.Currency)
		insights = ins
	}

	totals := recommend.Aggregate(recs, models.ScenarioModerate)
	narrative := recommend.Narrative(snap, recs, totals)
	generatedAt := s.now().UTC().Format(time.RFC3339)
	doc := dashboard.Build(snap, recs, totals, cards, narrative, generatedAt)

	artifacts := map[string]string{}
	writes := []struct {
		artifact string
		v        any
	}{
		{store.ArtifactSnapshot, snap},
		{store.ArtifactInsights, insights},
		{store.ArtifactRecommendations, recs},
		{store.ArtifactDashboard, doc},
	}
	for _, w := range writes {
		path, err := s.st.Write(platform, w.artifact, accountID, w.v)
		if err != nil {
			finish("error")
			return RunReport{}, fmt.Errorf("write %s: %w", w.artifact, err)
		}
		artifacts[w.artifact] = path
	}

	byPriority := map[string]int{}
	for _, r := range recs {
		byPriority[string(r.Priority)]++
	}
	s.mx.RecommendationsProduced(string(platform), byPriority)

	log.Info("analysis run finished",
		slog.Int("recommendations", len(recs)),
		slog.Int("high_priority", byPriority[string(models.PriorityHigh)]))
	finish("ok")

	return RunReport{
		RunID:           runID,
		Platform:        platform,
		AccountID:       accountID,
		DateRange:       dr,
		GeneratedAt:     generatedAt,
		Recommendations: len(recs),
		Totals:          totals,
		Artifacts:       artifacts,
		Summary:         narrative,
	}, nil
}

// ApplyLatest loads the newest recommendations artifact for the account and
// applies it. Results are persisted even when some mutations fail; dry runs
// are persisted too so a review trail exists before the live run.
func (s *Service) ApplyLatest(ctx context.Context, platform models.Platform, accountID string, dryRun bool) ([]apply.Result, error) {
	var recs []models.Recommendation
	if err := s.st.ReadLatest(platform, store.ArtifactRecommendations, accountID, &recs); err != nil {
		return nil, fmt.Errorf("load recommendations: %w", err)
	}

	results := s.applier.Apply(ctx, platform, accountID, recs, dryRun)
	for _, r := range results {
		s.mx.ApplyResult(string(platform), r.Status)
	}
	if _, err := s.st.Write(platform, store.ArtifactApplyResults, accountID, results); err != nil {
		return results, fmt.Errorf("write apply results: %w", err)
	}
	return results, nil
}
