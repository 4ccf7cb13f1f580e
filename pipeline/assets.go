package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sitewright/sitewright/reporter"
)

// CopyAssets copies every scanned asset into the output dir, preserving the
// relative path.
type CopyAssets struct{}

// Name implements Stage.
func (*CopyAssets) Name() string { return "assets" }

// Run implements Stage.
func (*CopyAssets) Run(ctx context.Context, env *Env, logger *slog.Logger) error {
	if len(env.Assets) == 0 {
		env.Reporter.Verbose("no assets to copy")
		return nil
	}

	progress := env.Reporter.CreateProgress("copying assets", int64(len(env.Assets)),
		reporter.WithParent(env.BuildSpan))
	progress.Start()
	defer progress.Done()

	for _, asset := range env.Assets {
		if err := ctx.Err(); err != nil {
			return err
		}

		dst := filepath.Join(env.Site.OutputDir, asset.RelPath)
		if err := copyFile(asset.SourcePath, dst); err != nil {
			return fmt.Errorf("copying %s: %w", asset.RelPath, err)
		}
		progress.Tick()
		logger.Debug("asset copied", "asset", asset.RelPath)
	}
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
