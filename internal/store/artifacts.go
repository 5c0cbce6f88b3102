// Package store persists analysis artifacts as timestamped JSON files under
// a working directory. The naming convention
// {platform}_{artifact}_{account}_{timestamp}.json makes the newest artifact
// for an account the lexicographic maximum, so "latest" needs no index.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/growthops/adscope/internal/models"
)

const timestampLayout = "20060102_150405"

// Artifact names. One file per (platform, artifact, account, run).
const (
	ArtifactSnapshot        = "metrics"
	ArtifactInsights        = "insights"
	ArtifactRecommendations = "recommendations"
	ArtifactDashboard       = "dashboard_data"
	ArtifactApplyResults    = "apply_results"
)

// FileStore reads and writes artifacts under one directory. Writes from
// concurrent analysis runs are serialized; reads are not blocked by writes.
type FileStore struct {
	mu  sync.RWMutex
	dir string
	now func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Write persists one artifact and returns the file path.
func (s *FileStore) Write(platform models.Platform, artifact, accountID string, v any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := fmt.Sprintf("%s_%s_%s_%s.json",
		platform, artifact, sanitizeAccount(accountID), s.now().Format(timestampLayout))
	path := filepath.Join(s.dir, name)

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", artifact, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// ReadLatest loads the newest artifact of the given kind for one account
// into dst. Returns os.ErrNotExist when no matching artifact was ever
// written.
func (s *FileStore) ReadLatest(platform models.Platform, artifact, accountID string, dst any) error {
	path, err := s.LatestPath(platform, artifact, accountID)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// LatestPath returns the path of the newest matching artifact. The timestamp
// suffix sorts lexicographically, so the maximum filename is the newest.
func (s *FileStore) LatestPath(platform models.Platform, artifact, accountID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := filepath.Join(s.dir,
		fmt.Sprintf("%s_%s_%s_*.json", platform, artifact, sanitizeAccount(accountID)))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", os.ErrNotExist
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// List returns every artifact filename for one platform, newest first.
func (s *FileStore) List(platform models.Platform) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, string(platform)+"_*.json"))
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	for i, m := range matches {
		matches[i] = filepath.Base(m)
	}
	return matches, nil
}

// sanitizeAccount keeps account IDs filename-safe. Graph account IDs carry
// an "act_" prefix and Google customer IDs may arrive dash-separated.
func sanitizeAccount(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '-'
		}
	}, id)
}
