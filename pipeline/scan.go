package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitewright/sitewright/activity"
	"github.com/sitewright/sitewright/reporter"
)

// Scan walks the content and asset directories and fills Env.Pages and
// Env.Assets. Files and directories whose names start with "." or "_" are
// skipped.
type Scan struct{}

// Name implements Stage.
func (*Scan) Name() string { return "scan" }

// Run implements Stage.
func (*Scan) Run(ctx context.Context, env *Env, logger *slog.Logger) error {
	timer := env.Reporter.CreateActivity("scanning source files",
		reporter.WithParent(env.BuildSpan))
	timer.Start()
	defer timer.End()

	return activity.Capture(timer, func() error {
		pages, err := collectFiles(ctx, env.Site.ContentDir, isPage)
		if err != nil {
			return fmt.Errorf("scanning content dir %s: %w", env.Site.ContentDir, err)
		}
		env.Pages = make([]Page, 0, len(pages))
		for _, f := range pages {
			env.Pages = append(env.Pages, Page(f))
		}

		// A site without static assets is fine.
		if _, err := os.Stat(env.Site.AssetDir); err == nil {
			assets, err := collectFiles(ctx, env.Site.AssetDir, func(string) bool { return true })
			if err != nil {
				return fmt.Errorf("scanning asset dir %s: %w", env.Site.AssetDir, err)
			}
			env.Assets = make([]Asset, 0, len(assets))
			for _, f := range assets {
				env.Assets = append(env.Assets, Asset(f))
			}
		} else {
			logger.Debug("no asset directory", "dir", env.Site.AssetDir)
		}

		timer.SetStatus(fmt.Sprintf("%d pages, %d assets", len(env.Pages), len(env.Assets)))
		logger.Info("scan complete", "pages", len(env.Pages), "assets", len(env.Assets))
		return nil
	})
}

type foundFile struct {
	SourcePath string
	RelPath    string
}

func collectFiles(ctx context.Context, root string, keep func(path string) bool) ([]foundFile, error) {
	var out []foundFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && hidden(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden(name) || !keep(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, foundFile{SourcePath: path, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func isPage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".html", ".htm":
		return true
	}
	return false
}
