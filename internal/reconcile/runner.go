package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/report"
	"github.com/jakoblorz/go-ideasync/internal/workspace"
	"github.com/rs/zerolog"
)

// Options configures a Runner.
type Options struct {
	// Root pins the project root; empty means search upwards from the working directory
	Root string

	DryRun          bool
	DiscoveryIgnore []string
}

// Pass is the outcome of one synchronization pass.
type Pass struct {
	ID       string
	Root     string
	Results  []TaskResult
	Notices  []report.Notice
	Duration time.Duration
}

// Written returns the documents that were (or in dry-run would have been)
// written, each once, in task order.
func (p *Pass) Written() []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range p.Results {
		if r.Written && !seen[r.Document] {
			seen[r.Document] = true
			out = append(out, r.Document)
		}
	}
	return out
}

// Runner executes synchronization passes.
type Runner struct {
	fs      filesystem.FileSystem
	logger  zerolog.Logger
	options Options
}

// NewRunner creates a Runner.
func NewRunner(fs filesystem.FileSystem, logger zerolog.Logger, options Options) *Runner {
	return &Runner{
		fs:      fs,
		logger:  logger,
		options: options,
	}
}

// Run performs one pass with the given tasks, DefaultTasks when none are
// given. Tasks are independent: a task that stops on a missing or broken
// document does not affect the others, and a task error is reported and
// joined into the returned error while the remaining tasks still run.
// Project detection failures abort the pass.
func (r *Runner) Run(ctx context.Context, tasks ...Task) (*Pass, error) {
	start := time.Now()
	if len(tasks) == 0 {
		tasks = DefaultTasks
	}

	passID, err := newPassID()
	if err != nil {
		return nil, err
	}
	logger := r.logger.With().Str("pass_id", passID).Logger()

	var wsOptions []workspace.Option
	if r.options.Root != "" {
		wsOptions = append(wsOptions, workspace.WithRoot(r.options.Root))
	}
	ws := workspace.New(r.fs, wsOptions...)
	if err := ws.Detect(); err != nil {
		return nil, err
	}

	collector := report.NewCollector()
	pass := &Pass{ID: passID, Root: ws.RootPath()}

	logger.Info().Str("root", pass.Root).Int("tasks", len(tasks)).Msg("pass started")

	var errs []error
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		run, err := task.run()
		if err != nil {
			errs = append(errs, err)
			continue
		}

		rc := &RunContext{
			FS:              r.fs,
			Workspace:       ws,
			Project:         ws.Project,
			Extra:           ws.Manifest.Extra,
			Requires:        ws.Manifest.Requires,
			DiscoveryIgnore: r.options.DiscoveryIgnore,
			DryRun:          r.options.DryRun,
			Report:          collector.ForTask(string(task)),
			Logger:          logger.With().Str("task", string(task)).Logger(),
			PassID:          passID,
		}

		result, err := run(rc)
		pass.Results = append(pass.Results, result)
		if err != nil {
			rc.Logger.Error().Err(err).Msg("task failed")
			rc.Report.Error(fmt.Sprintf("%s failed: %v", task, err), report.WithDocument(result.Document))
			errs = append(errs, fmt.Errorf("%s: %w", task, err))
		}
	}

	pass.Notices = collector.Notices()
	pass.Duration = time.Since(start)

	logger.Info().
		Strs("written", pass.Written()).
		Dur("duration", pass.Duration).
		Msg("pass finished")

	return pass, errors.Join(errs...)
}
