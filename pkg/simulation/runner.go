package simulation

import (
	"cmp"
	"context"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/AlexKyriacou92/RadioPropa/pkg/candidate"
	"github.com/AlexKyriacou92/RadioPropa/pkg/core"
)

// RunConfig contains configuration for a simulation run
type RunConfig struct {
	NumWorkers    int // Number of parallel workers (0 = use CPU count)
	MaxSteps      int // Steps after which a candidate is stopped (0 = unlimited)
	MaxCandidates int // Secondaries beyond this total are dropped (0 = unlimited)
}

// DefaultRunConfig returns sensible default values
func DefaultRunConfig() RunConfig {
	return RunConfig{
		NumWorkers:    0,
		MaxSteps:      100000,
		MaxCandidates: 10000,
	}
}

// RunStats contains statistics about a run
type RunStats struct {
	Candidates  int           // Candidates finished, primaries and secondaries
	Secondaries int           // Secondaries spawned by modules
	Dropped     int           // Secondaries dropped because of MaxCandidates
	Steps       int           // Pipeline steps over all candidates
	Duration    time.Duration // Wall time of the run
}

// Runner owns the candidate pool: it propagates candidates on a worker pool
// and feeds back the secondaries the modules emit
type Runner struct {
	modules *ModuleList
	config  RunConfig
	logger  core.Logger
}

// NewRunner creates a runner for the pipeline
func NewRunner(modules *ModuleList, config RunConfig, logger core.Logger) *Runner {
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Runner{modules: modules, config: config, logger: logger}
}

// task is a candidate handed to a worker
type task struct {
	TaskID    int
	Candidate *candidate.Candidate
}

// taskResult is a finished candidate and the secondaries it emitted
type taskResult struct {
	TaskID      int
	Candidate   *candidate.Candidate
	Secondaries []*candidate.Candidate
	Steps       int
	Error       error
}

// RunCandidate steps a single candidate until it is inactive and returns the
// secondaries it emitted, unprocessed
func (r *Runner) RunCandidate(ctx context.Context, c *candidate.Candidate) ([]*candidate.Candidate, int, error) {
	var secondaries []*candidate.Candidate
	steps := 0
	for c.Active {
		if err := ctx.Err(); err != nil {
			return secondaries, steps, err
		}
		if r.config.MaxSteps > 0 && steps >= r.config.MaxSteps {
			r.logger.Printf("Candidate %d stopped after %d steps\n", c.SerialNumber(), steps)
			c.Deactivate()
			break
		}
		r.modules.Process(c)
		secondaries = append(secondaries, c.TakeSecondaries()...)
		steps++
	}
	return secondaries, steps, nil
}

// Run propagates candidates and all their secondaries. Finished candidates are
// returned ordered by serial number.
func (r *Runner) Run(ctx context.Context, candidates []*candidate.Candidate) ([]*candidate.Candidate, RunStats, error) {
	startTime := time.Now()
	stats := RunStats{}

	ctx, cancel := context.WithCancel(ctx)

	taskQueue := make(chan task, r.config.NumWorkers)
	resultQueue := make(chan taskResult, r.config.NumWorkers)

	var wg sync.WaitGroup
	for i := 0; i < r.config.NumWorkers; i++ {
		wg.Add(1)
		go r.worker(ctx, &wg, taskQueue, resultQueue)
	}
	defer func() {
		// Workers blocked sending a result exit on cancel
		cancel()
		close(taskQueue)
		wg.Wait()
	}()

	backlog := make([]task, 0, len(candidates))
	nextID := 0
	for _, c := range candidates {
		backlog = append(backlog, task{TaskID: nextID, Candidate: c})
		nextID++
	}

	var finished []*candidate.Candidate
	pending := 0
	for len(backlog) > 0 || pending > 0 {
		// Only offer a task when there is one; a nil channel never sends
		var sendQueue chan task
		var next task
		if len(backlog) > 0 {
			sendQueue = taskQueue
			next = backlog[0]
		}

		select {
		case sendQueue <- next:
			backlog = backlog[1:]
			pending++
		case result := <-resultQueue:
			pending--
			stats.Steps += result.Steps
			if result.Error != nil {
				return finished, stats, result.Error
			}
			finished = append(finished, result.Candidate)
			for _, s := range result.Secondaries {
				stats.Secondaries++
				if r.config.MaxCandidates > 0 && len(candidates)+stats.Secondaries-stats.Dropped > r.config.MaxCandidates {
					stats.Dropped++
					continue
				}
				backlog = append(backlog, task{TaskID: nextID, Candidate: s})
				nextID++
			}
		case <-ctx.Done():
			return finished, stats, ctx.Err()
		}
	}

	if stats.Dropped > 0 {
		r.logger.Printf("Dropped %d secondaries over the limit of %d candidates\n", stats.Dropped, r.config.MaxCandidates)
	}

	slices.SortFunc(finished, func(a, b *candidate.Candidate) int {
		return cmp.Compare(a.SerialNumber(), b.SerialNumber())
	})
	stats.Candidates = len(finished)
	stats.Duration = time.Since(startTime)
	return finished, stats, nil
}

// worker is the main worker loop
func (r *Runner) worker(ctx context.Context, wg *sync.WaitGroup, tasks <-chan task, results chan<- taskResult) {
	defer wg.Done()

	for t := range tasks {
		secondaries, steps, err := r.RunCandidate(ctx, t.Candidate)
		result := taskResult{
			TaskID:      t.TaskID,
			Candidate:   t.Candidate,
			Secondaries: secondaries,
			Steps:       steps,
			Error:       err,
		}

		select {
		case results <- result:
		case <-ctx.Done():
			return
		}
	}
}
