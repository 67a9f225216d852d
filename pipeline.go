package tabular

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Stage is one named step of a pipeline run.
type Stage struct {
	Name string
	Run  func(*PipelineContext) error
}

// StepResult records one executed stage: outcome, messages, and wall time.
type StepResult struct {
	Stage    string
	Success  bool
	Errors   []string
	Warnings []string
	Duration time.Duration
}

// RunReport summarizes a pipeline run. Failed names the stage that stopped
// the run, or is empty when every stage succeeded.
type RunReport struct {
	RunID  string
	Steps  []StepResult
	Failed string
}

// OK reports whether the run completed without a failing stage.
func (r RunReport) OK() bool { return r.Failed == "" }

// PipelineContext carries the working state between stages: the current
// frame set and the chart parameters produced along the way. Stages read
// and replace the exported fields directly.
type PipelineContext struct {
	Frames []*DataFrame
	Scales map[string]ScaleInfo
	Grid   GridParams
	Align  AlignReport

	mem      memory.Allocator
	warnings []string
}

// Allocator returns the allocator stages should build frames with.
func (c *PipelineContext) Allocator() memory.Allocator { return c.mem }

// Warnf records a stage warning without failing the run. Warnings land in
// the step record of the stage that raised them.
func (c *PipelineContext) Warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func (c *PipelineContext) drainWarnings() []string {
	w := c.warnings
	c.warnings = nil
	return w
}

// Pipeline executes stages in order against a shared context, stopping at
// the first failure. Stage errors become structured step records rather
// than aborting the caller, so the last good state stays inspectable.
type Pipeline struct {
	stages []Stage
	logger zerolog.Logger
	mem    memory.Allocator
}

// NewPipeline builds a pipeline over the given stages. Logging is off until
// a logger is attached with WithLogger.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{
		stages: stages,
		logger: zerolog.Nop(),
		mem:    memory.DefaultAllocator,
	}
}

// WithLogger attaches a logger for per-stage progress.
func (p *Pipeline) WithLogger(logger zerolog.Logger) *Pipeline {
	p.logger = logger
	return p
}

// WithAllocator sets the allocator handed to stages.
func (p *Pipeline) WithAllocator(mem memory.Allocator) *Pipeline {
	p.mem = mem
	return p
}

// Run executes the stages against a fresh context seeded with the given
// frames. The first stage error stops the run: its message lands in that
// stage's step record and the report names the failed stage. The returned
// context holds the state as of the last successful stage.
func (p *Pipeline) Run(frames ...*DataFrame) (*PipelineContext, RunReport) {
	runID := uuid.New().String()[:8]
	ctx := &PipelineContext{Frames: frames, mem: p.mem}
	report := RunReport{RunID: runID, Steps: make([]StepResult, 0, len(p.stages))}

	p.logger.Info().
		Str("run_id", runID).
		Int("stages", len(p.stages)).
		Int("frames", len(frames)).
		Msg("pipeline start")

	for _, stage := range p.stages {
		start := time.Now()
		err := stage.Run(ctx)
		step := StepResult{
			Stage:    stage.Name,
			Success:  err == nil,
			Warnings: ctx.drainWarnings(),
			Duration: time.Since(start),
		}
		if err != nil {
			step.Errors = []string{err.Error()}
		}
		report.Steps = append(report.Steps, step)

		if err != nil {
			p.logger.Error().
				Err(err).
				Str("run_id", runID).
				Str("stage", stage.Name).
				Dur("duration", step.Duration).
				Msg("stage failed")
			report.Failed = stage.Name
			break
		}
		p.logger.Info().
			Str("run_id", runID).
			Str("stage", stage.Name).
			Dur("duration", step.Duration).
			Int("warnings", len(step.Warnings)).
			Msg("stage done")
	}
	return ctx, report
}
