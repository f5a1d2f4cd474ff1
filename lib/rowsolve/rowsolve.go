// Package rowsolve runs the subset selector over a CSV stream of rows,
// fanning rows out to workers and writing results back in input order.
package rowsolve

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"benchtools/lib/csvrow"
	"benchtools/lib/subsetsum"
)

type Options struct {
	// number of solver workers, defaults to the CPU count
	Workers int
	// per-row candidate limit, defaults to subsetsum.MaxCandidates
	MaxCandidates int
}

type outcome struct {
	line string
	err  error
}

type task struct {
	row  csvrow.Row
	err  error
	done chan outcome
}

// Process reads rows from r, solves each one and writes one line per row to
// out in input order. Malformed rows are reported to errOut with their row
// index and do not stop the batch. Returns the number of rows solved.
func Process(ctx context.Context, r io.Reader, out, errOut io.Writer, opts Options) (int, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	maxCandidates := opts.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = subsetsum.MaxCandidates
	}

	work := make(chan *task, workers)
	ordered := make(chan *task, workers)

	go func() {
		defer close(work)
		defer close(ordered)

		reader := csvrow.NewReader(r)
		for {
			if ctx.Err() != nil {
				return
			}
			row, err := reader.Next()
			if err == io.EOF {
				return
			}

			t := &task{row: row, err: err, done: make(chan outcome, 1)}
			ordered <- t
			if err == nil {
				work <- t
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range work {
				t.done <- solve(t.row, maxCandidates)
			}
		}()
	}

	solved := 0
	for t := range ordered {
		if t.err != nil {
			fmt.Fprintln(errOut, t.err)
			continue
		}
		res := <-t.done
		if res.err != nil {
			fmt.Fprintln(errOut, res.err)
			continue
		}
		if _, err := fmt.Fprintln(out, res.line); err != nil {
			// unblock the reader and workers before bailing
			go func() {
				for range ordered {
				}
			}()
			return solved, err
		}
		solved++
	}
	wg.Wait()

	slog.Info("batch complete", "rows_solved", solved)
	return solved, ctx.Err()
}

func solve(row csvrow.Row, maxCandidates int) outcome {
	if len(row.Candidates) > maxCandidates {
		return outcome{err: csvrow.RowError{
			Index: row.Index,
			Err: fmt.Errorf(
				"%w: got %d, limit %d",
				subsetsum.ErrTooManyCandidates, len(row.Candidates), maxCandidates,
			),
		}}
	}
	res := subsetsum.Select(row.Target, row.Candidates)
	return outcome{line: csvrow.FormatLine(row, res.Values, res.Sum)}
}
