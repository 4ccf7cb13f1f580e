// Package pipeline runs the ordered stages of a site build.
//
// A build is a fixed sequence: scan the source tree, copy static assets,
// render pages, write the build manifest. Stages communicate through a
// shared Env value; each stage announces itself on the reporter, so the
// console shows one activity per stage.
//
// Stages receive their collaborators explicitly. The runner hands every
// stage a logger named after it, created through a logging.LoggerHook, so
// develop mode can capture per-stage logs for the status server.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sitewright/sitewright/config"
	"github.com/sitewright/sitewright/logging"
	"github.com/sitewright/sitewright/reporter"
	"github.com/sitewright/sitewright/tracing"
)

// Page is one source page found by the scan stage.
type Page struct {
	// SourcePath locates the file on disk.
	SourcePath string
	// RelPath is the path relative to the content dir. It determines the
	// output location.
	RelPath string
}

// Asset is one static file found by the scan stage.
type Asset struct {
	SourcePath string
	RelPath    string
}

// Env is the state shared by the stages of one build. The scan stage fills
// Pages and Assets; later stages consume them.
type Env struct {
	Site     config.SiteConfig
	Reporter *reporter.Reporter

	// BuildSpan is the root span of this build. Stage activities nest
	// under it.
	BuildSpan tracing.Span

	Pages  []Page
	Assets []Asset
}

// Stage is one step of a build.
type Stage interface {
	// Name identifies the stage in logs and error messages.
	Name() string

	// Run executes the stage. The logger is already tagged with the stage
	// name.
	Run(ctx context.Context, env *Env, logger *slog.Logger) error
}

// Options configures a Pipeline.
type Options struct {
	Stages []Stage

	// Logger is the base diagnostic logger. Defaults to a discarding
	// logger.
	Logger *slog.Logger

	// Hook wraps the base logger per stage. Defaults to a hook that
	// returns the base logger unchanged.
	Hook logging.LoggerHook
}

// Pipeline executes stages in order, stopping at the first failure.
type Pipeline struct {
	stages []Stage
	logger *slog.Logger
	hook   logging.LoggerHook
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		stages: opts.Stages,
		logger: opts.Logger,
		hook:   opts.Hook,
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p.hook == nil {
		p.hook = passthroughHook{}
	}
	return p
}

// DefaultStages returns the standard build sequence.
func DefaultStages() []Stage {
	return []Stage{
		&Scan{},
		&CopyAssets{},
		&RenderPages{},
		&WriteManifest{},
	}
}

// Run executes every stage in order. The first stage error aborts the build
// and is returned wrapped with the stage name.
func (p *Pipeline) Run(ctx context.Context, env *Env) error {
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return err
		}

		logger := p.hook.LoggerForActivity(p.logger, stage.Name())
		logger.Info("stage started")

		if err := stage.Run(ctx, env, logger); err != nil {
			logger.Error("stage failed", "error", err)
			return fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		logger.Info("stage finished")
	}
	return nil
}

type passthroughHook struct{}

func (passthroughHook) LoggerForActivity(base *slog.Logger, _ string) *slog.Logger {
	return base
}
