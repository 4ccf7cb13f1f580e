package pipeline

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitewright/sitewright/reporter"
)

// RenderPages turns every scanned page into an HTML file in the output dir.
// HTML sources are wrapped as-is; everything else is escaped and wrapped in
// a pre block. The output path mirrors the source path with a .html
// extension.
type RenderPages struct{}

// Name implements Stage.
func (*RenderPages) Name() string { return "render" }

// Run implements Stage.
func (*RenderPages) Run(ctx context.Context, env *Env, logger *slog.Logger) error {
	progress := env.Reporter.CreateProgress("rendering pages", int64(len(env.Pages)),
		reporter.WithParent(env.BuildSpan))
	progress.Start()
	defer progress.Done()

	for _, page := range env.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}

		content, err := os.ReadFile(page.SourcePath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", page.RelPath, err)
		}

		dst := filepath.Join(env.Site.OutputDir, outputPath(page.RelPath))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("rendering %s: %w", page.RelPath, err)
		}
		rendered := renderHTML(env.Site.Title, page.RelPath, content)
		if err := os.WriteFile(dst, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("rendering %s: %w", page.RelPath, err)
		}

		progress.Tick()
		logger.Debug("page rendered", "page", page.RelPath)
	}
	return nil
}

func outputPath(relPath string) string {
	return strings.TrimSuffix(relPath, filepath.Ext(relPath)) + ".html"
}

func renderHTML(siteTitle, relPath string, content []byte) string {
	title := pageTitle(relPath, content)
	if siteTitle != "" {
		title = title + " | " + siteTitle
	}

	var body string
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".html", ".htm":
		body = string(content)
	default:
		body = "<pre>" + html.EscapeString(string(content)) + "</pre>"
	}

	var b strings.Builder
	b.WriteString("<!doctype html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// pageTitle takes the first markdown heading, falling back to the file name.
func pageTitle(relPath string, content []byte) string {
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	base := filepath.Base(relPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
