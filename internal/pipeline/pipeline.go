// Package pipeline runs a fixed sequence of named stages over a shared state.
//
// The setup of a tokentrade run is a linear chain: fund the payer, create the
// mint, create token accounts, check the program, derive the vault and so on.
// Each step reads what earlier steps produced and adds its own results to the
// state value S. The pipeline stops at the first failing stage and reports it
// as a stage failure, recording per-stage timings as it goes.
//
// # Key Components
//
//   - Stage: a named function over *S.
//   - Pipeline: runs stages in order, honouring context cancellation between them.
//   - PipelineBuilder: fluent construction of a Pipeline.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
	"github.com/lugondev/go-tokentrade/internal/metrics"
)

// StageFunc performs one step over the shared state.
type StageFunc[S any] func(ctx context.Context, state *S) error

// Stage is a named step of the pipeline.
type Stage[S any] struct {
	Name string
	Run  StageFunc[S]
}

// Hook is called after every stage with its outcome.
type Hook[S any] func(stage string, state *S, elapsed time.Duration, err error)

// Pipeline runs stages sequentially over a state value.
type Pipeline[S any] struct {
	// Stages are executed in order.
	Stages []Stage[S]

	// Metrics records stage timings and outcomes.
	Metrics *metrics.Collection

	// Logger is used for stage progress.
	Logger *slog.Logger

	// AfterStage hooks observe each finished stage.
	AfterStage []Hook[S]
}

// NewPipeline creates a new Pipeline with default settings.
func NewPipeline[S any]() *Pipeline[S] {
	return &Pipeline[S]{
		Stages:  make([]Stage[S], 0),
		Metrics: metrics.NewCollection(),
		Logger:  slog.Default(),
	}
}

// Run executes every stage in order. It returns the first stage error wrapped
// as a stage failure, or the context error when cancelled between stages.
func (p *Pipeline[S]) Run(ctx context.Context, state *S) error {
	p.Logger.Debug("starting pipeline",
		"num_stages", len(p.Stages),
		"num_metrics", p.Metrics.Len(),
	)

	for i, stage := range p.Stages {
		if err := ctx.Err(); err != nil {
			p.Logger.Info("context cancelled, stopping pipeline", "next_stage", stage.Name)
			return cerrors.ErrContextCanceled.WithCause(err)
		}

		p.Logger.Debug("running stage", "stage", stage.Name, "index", i+1, "total", len(p.Stages))

		start := time.Now()
		err := stage.Run(ctx, state)
		elapsed := time.Since(start)

		_ = p.Metrics.RecordHistogram(ctx, metrics.StageDurationMetric(stage.Name), float64(elapsed.Milliseconds()))
		for _, hook := range p.AfterStage {
			hook(stage.Name, state, elapsed, err)
		}

		if err != nil {
			_ = p.Metrics.IncrementCounter(ctx, metrics.MetricStagesFailed, 1)
			p.Logger.Error("stage failed",
				"stage", stage.Name,
				"elapsed", elapsed,
				"error", err,
			)
			return cerrors.StageFailed(stage.Name, err)
		}

		_ = p.Metrics.IncrementCounter(ctx, metrics.MetricStagesCompleted, 1)
		p.Logger.Debug("stage completed", "stage", stage.Name, "elapsed", elapsed)
	}

	return nil
}

// StageNames returns the names of the configured stages in order.
func (p *Pipeline[S]) StageNames() []string {
	names := make([]string, len(p.Stages))
	for i, s := range p.Stages {
		names[i] = s.Name
	}
	return names
}
