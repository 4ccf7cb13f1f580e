package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sitewright/sitewright/activity"
	"github.com/sitewright/sitewright/buildinfo"
	"github.com/sitewright/sitewright/reporter"
)

// Manifest is the machine-readable record of one build, written to
// manifest.json in the output dir.
type Manifest struct {
	Site    string    `json:"site,omitempty"`
	Version string    `json:"version"`
	Pages   int       `json:"pages"`
	Assets  int       `json:"assets"`
	BuiltAt time.Time `json:"built_at"`
}

// WriteManifest writes the build manifest as the final stage.
type WriteManifest struct {
	// Now overrides the clock in tests. Defaults to time.Now.
	Now func() time.Time
}

// Name implements Stage.
func (*WriteManifest) Name() string { return "manifest" }

// Run implements Stage.
func (s *WriteManifest) Run(ctx context.Context, env *Env, logger *slog.Logger) error {
	now := s.Now
	if now == nil {
		now = time.Now
	}

	timer := env.Reporter.CreateActivity("writing manifest",
		reporter.WithParent(env.BuildSpan))
	timer.Start()
	defer timer.End()

	return activity.Capture(timer, func() error {
		manifest := Manifest{
			Site:    env.Site.Title,
			Version: buildinfo.Version(),
			Pages:   len(env.Pages),
			Assets:  len(env.Assets),
			BuiltAt: now().UTC(),
		}

		data, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding manifest: %w", err)
		}

		if err := os.MkdirAll(env.Site.OutputDir, 0o755); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
		path := filepath.Join(env.Site.OutputDir, "manifest.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}

		logger.Info("manifest written", "path", path)
		return nil
	})
}
