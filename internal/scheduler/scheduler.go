// Package scheduler fans file scans out over a bounded worker pool and
// delivers their results in traversal order.
//
// Every target owns a pre-sized slot. Workers claim slot indexes from a
// shared atomic cursor, fill the slot and close its done channel; the
// caller drains slots strictly by index. Completion order therefore
// never leaks into the output.
package scheduler

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/lgrep/internal/debug"
	"github.com/standardbeagle/lgrep/internal/types"
	"github.com/standardbeagle/lgrep/internal/walker"
)

// windowFactor bounds claimed-but-undrained slots to workers*windowFactor.
// Rationale: a slow file at the head of the queue would otherwise let
// workers race ahead and hold every later result in memory.
const windowFactor = 4

// Sink consumes results in traversal order
type Sink interface {
	Emit(result *types.ScanResult) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(result *types.ScanResult) error

// Emit calls f
func (f SinkFunc) Emit(result *types.ScanResult) error {
	return f(result)
}

// ScanFunc scans one target. It must return a non-nil result and should
// return promptly once ctx is cancelled.
type ScanFunc func(ctx context.Context, target walker.Target) *types.ScanResult

type slot struct {
	result *types.ScanResult
	done   chan struct{}
}

// counters is the atomic form of types.RunSummary
type counters struct {
	files         atomic.Int64
	filesMatched  atomic.Int64
	matches       atomic.Int64
	errors        atomic.Int64
	binarySkipped atomic.Int64
}

func (c *counters) record(r *types.ScanResult) {
	if r.Status == types.StatusCancelled {
		return
	}
	if r.Matched {
		c.filesMatched.Add(1)
	}
	c.matches.Add(int64(r.Count))
	if r.Failed() {
		c.errors.Add(1)
	}
	if r.Status == types.StatusBinarySkipped {
		c.binarySkipped.Add(1)
	}
}

func (c *counters) summary() types.RunSummary {
	return types.RunSummary{
		Files:         c.files.Load(),
		FilesMatched:  c.filesMatched.Load(),
		Matches:       c.matches.Load(),
		Errors:        c.errors.Load(),
		BinarySkipped: c.binarySkipped.Load(),
	}
}

// Run scans targets with up to workers goroutines (0 = number of CPUs) and
// emits each result to sink in target order. A result with StopAll set
// cancels all remaining work; results not yet drained are then dropped.
// The returned error is a sink failure or the cancellation of ctx.
func Run(ctx context.Context, targets []walker.Target, scan ScanFunc, workers int, sink Sink) (types.RunSummary, error) {
	var stats counters
	if len(targets) == 0 {
		return stats.summary(), ctx.Err()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(targets) {
		workers = len(targets)
	}

	slots := make([]slot, len(targets))
	for i := range slots {
		slots[i].done = make(chan struct{})
	}

	runCtx, stopAll := context.WithCancel(ctx)
	defer stopAll()

	window := make(chan struct{}, workers*windowFactor)
	for i := 0; i < cap(window); i++ {
		window <- struct{}{}
	}

	var cursor atomic.Int64
	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(workers)

	debug.LogSchedule("scanning %d targets with %d workers (window %d)", len(targets), workers, cap(window))

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				select {
				case <-window:
				case <-gctx.Done():
					return nil
				}

				i := int(cursor.Add(1) - 1)
				if i >= len(targets) {
					return nil
				}

				var result *types.ScanResult
				if gctx.Err() != nil {
					result = &types.ScanResult{Path: targets[i].Path, Status: types.StatusCancelled}
				} else {
					result = scan(gctx, targets[i])
				}
				stats.record(result)
				if result.StopAll {
					debug.LogSchedule("stop requested by %s", result.Path)
					stopAll()
				}

				slots[i].result = result
				close(slots[i].done)
			}
		})
	}

	sinkErr := drain(runCtx, slots, window, sink, &stats)
	if sinkErr != nil {
		stopAll()
	}
	_ = g.Wait()

	if sinkErr != nil {
		return stats.summary(), sinkErr
	}
	return stats.summary(), ctx.Err()
}

// drain emits slots in index order until all are done or the run stops
func drain(ctx context.Context, slots []slot, window chan<- struct{}, sink Sink, stats *counters) error {
	for i := range slots {
		select {
		case <-slots[i].done:
		case <-ctx.Done():
			// A slot that finished before the stop is still emitted
			select {
			case <-slots[i].done:
			default:
				debug.LogSchedule("run stopped, %d slots abandoned", len(slots)-i)
				return nil
			}
		}

		result := slots[i].result
		slots[i].result = nil
		window <- struct{}{}

		if result.Status == types.StatusCancelled {
			continue
		}
		stats.files.Add(1)
		if err := sink.Emit(result); err != nil {
			return err
		}
	}
	return nil
}
