package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/growthops/adscope/internal/dashboard"
	"github.com/growthops/adscope/internal/metrics"
	"github.com/growthops/adscope/internal/models"
	"github.com/growthops/adscope/internal/recommend"
	"github.com/growthops/adscope/internal/store"
	"github.com/growthops/adscope/internal/utils"
)

const defaultLookbackDays = 30

func NewRouter(log *slog.Logger, svc *Service, st *store.FileStore, mx *metrics.Registry) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })

	mux.Post("/analyze/{platform}", func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatform(w, r)
		if !ok {
			return
		}
		accountID := r.URL.Query().Get("account_id")
		if accountID == "" {
			http.Error(w, "account_id required", 400)
			return
		}
		dr, err := parseDateRange(r)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		report, err := svc.Run(r.Context(), platform, accountID, dr)
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		writeJSON(w, report)
	})

	mux.Get("/insights/{platform}/{accountID}/latest", func(w http.ResponseWriter, r *http.Request) {
		serveLatest(w, r, st, store.ArtifactInsights)
	})

	mux.Get("/recommendations/{platform}/{accountID}/latest", func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatform(w, r)
		if !ok {
			return
		}
		accountID := chi.URLParam(r, "accountID")

		var recs []models.Recommendation
		if err := st.ReadLatest(platform, store.ArtifactRecommendations, accountID, &recs); err != nil {
			statusForRead(w, err)
			return
		}
		scenario := models.Scenario(r.URL.Query().Get("scenario"))
		if scenario == "" {
			scenario = models.ScenarioModerate
		}
		writeJSON(w, map[string]any{
			"recommendations": recs,
			"total_impact":    recommend.Aggregate(recs, scenario),
		})
	})

	mux.Get("/dashboard/{platform}/{accountID}", func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatform(w, r)
		if !ok {
			return
		}
		accountID := chi.URLParam(r, "accountID")

		var doc dashboard.Document
		if err := st.ReadLatest(platform, store.ArtifactDashboard, accountID, &doc); err != nil {
			statusForRead(w, err)
			return
		}
		html, err := dashboard.RenderHTML(doc)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	})

	mux.Post("/apply/{platform}/{accountID}", func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatform(w, r)
		if !ok {
			return
		}
		accountID := chi.URLParam(r, "accountID")
		dryRun := r.URL.Query().Get("dry_run") == "true"

		results, err := svc.ApplyLatest(r.Context(), platform, accountID, dryRun)
		if err != nil {
			statusForRead(w, err)
			return
		}
		writeJSON(w, map[string]any{"dry_run": dryRun, "results": results})
	})

	mux.Get("/artifacts/{platform}", func(w http.ResponseWriter, r *http.Request) {
		platform, ok := parsePlatform(w, r)
		if !ok {
			return
		}
		names, err := st.List(platform)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, names)
	})

	mux.Method("GET", "/metrics", mx.Handler())

	return mux
}

func parsePlatform(w http.ResponseWriter, r *http.Request) (models.Platform, bool) {
	p := models.Platform(chi.URLParam(r, "platform"))
	if p != models.PlatformFacebook && p != models.PlatformGoogle {
		http.Error(w, "platform must be facebook or google", 400)
		return "", false
	}
	return p, true
}

// parseDateRange reads start_date/end_date (YYYY-MM-DD); absent both, the
// range defaults to the trailing 30 days.
func parseDateRange(r *http.Request) (models.DateRange, error) {
	const layout = "2006-01-02"
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")
	if start == "" && end == "" {
		now := time.Now().UTC()
		return models.DateRange{
			StartDate: now.AddDate(0, 0, -defaultLookbackDays).Format(layout),
			EndDate:   now.Format(layout),
		}, nil
	}
	if _, err := time.Parse(layout, start); err != nil {
		return models.DateRange{}, errors.New("bad start_date (YYYY-MM-DD)")
	}
	if _, err := time.Parse(layout, end); err != nil {
		return models.DateRange{}, errors.New("bad end_date (YYYY-MM-DD)")
	}
	return models.DateRange{StartDate: start, EndDate: end}, nil
}

func serveLatest(w http.ResponseWriter, r *http.Request, st *store.FileStore, artifact string) {
	platform, ok := parsePlatform(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "accountID")

	var v json.RawMessage
	if err := st.ReadLatest(platform, artifact, accountID, &v); err != nil {
		statusForRead(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(v)
}

func statusForRead(w http.ResponseWriter, err error) {
	if errors.Is(err, os.ErrNotExist) {
		http.Error(w, "no artifact for account", 404)
		return
	}
	http.Error(w, err.Error(), 500)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
