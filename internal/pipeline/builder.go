// Package pipeline provides the PipelineBuilder for constructing Pipeline instances.
package pipeline

import (
	"log/slog"

	"github.com/lugondev/go-tokentrade/internal/metrics"
)

// PipelineBuilder provides a fluent API for constructing a Pipeline.
type PipelineBuilder[S any] struct {
	pipeline *Pipeline[S]
}

// NewPipelineBuilder creates a new PipelineBuilder with default settings.
func NewPipelineBuilder[S any]() *PipelineBuilder[S] {
	return &PipelineBuilder[S]{
		pipeline: NewPipeline[S](),
	}
}

// Stage appends a named stage to the pipeline.
func (b *PipelineBuilder[S]) Stage(name string, run StageFunc[S]) *PipelineBuilder[S] {
	b.pipeline.Stages = append(b.pipeline.Stages, Stage[S]{Name: name, Run: run})
	return b
}

// AfterStage registers a hook called after every stage.
func (b *PipelineBuilder[S]) AfterStage(hook Hook[S]) *PipelineBuilder[S] {
	b.pipeline.AfterStage = append(b.pipeline.AfterStage, hook)
	return b
}

// Metrics sets a custom metrics collection for the pipeline.
func (b *PipelineBuilder[S]) Metrics(mc *metrics.Collection) *PipelineBuilder[S] {
	if mc != nil {
		b.pipeline.Metrics = mc
	}
	return b
}

// Logger sets a custom logger for the pipeline.
func (b *PipelineBuilder[S]) Logger(logger *slog.Logger) *PipelineBuilder[S] {
	if logger != nil {
		b.pipeline.Logger = logger
	}
	return b
}

// Build returns the constructed Pipeline.
func (b *PipelineBuilder[S]) Build() *Pipeline[S] {
	return b.pipeline
}
