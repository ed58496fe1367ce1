// Package schedule implements the row scheduler (component F): it
// partitions a template's top-level row range into independently-seeded
// segments, fans workers out over them with golang.org/x/sync/errgroup, and
// drives the depth-first derived-table expansion algorithm per spec §3.6
// and §4.6. Grounded on the teacher's internal/web.WorkerPool generic pool
// shape, generalized from a fixed job/result channel pair to errgroup's
// context-cancellation-aware fan-out (spec §5's cooperative, polled
// cancellation needs a shared abort signal the hand-rolled pool doesn't
// give you for free).
package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/benchgen/tabgen/internal/eval"
	"github.com/benchgen/tabgen/internal/logging"
	"github.com/benchgen/tabgen/internal/plan"
	"github.com/benchgen/tabgen/internal/prng"
	"github.com/benchgen/tabgen/internal/template"
	"github.com/benchgen/tabgen/internal/value"
)

// RowWriter receives one table's formatted rows for one segment file.
type RowWriter interface {
	WriteRow(vals []value.Value) error
	Close() error
}

// SinkFactory opens the per-(table, segment) output sink. internal/emit's
// Writer satisfies RowWriter; the caller (cmd/tabgen) supplies a factory
// that maps a table name and segment index to a file.
type SinkFactory interface {
	Open(tableName string, segmentIndex int) (RowWriter, error)
}

// Options configures one generation run.
type Options struct {
	Model       *template.Model
	NTotal      int64
	RowsPerFile int64
	Workers     int
	BaseSeed    *prng.State
	Now         time.Time
	Sinks       SinkFactory
}

// Progress is a snapshot the caller polls (e.g. once a second) to drive a
// progress display; fields are updated with atomic adds from worker
// goroutines, so read them with atomic.LoadInt64 (SPEC_FULL §7).
type Progress struct {
	RowsEmitted  int64
	FilesWritten int64
}

type segment struct {
	index      int
	start, end int64 // inclusive, 1-based, top-level rownum range
}

// Run partitions [1, NTotal] into RowsPerFile-sized segments and processes
// them across Workers goroutines. Per spec §4.6's independence invariant,
// segment k's output depends only on (BaseSeed, Model, k) — never on
// Workers or the order segments happen to run in. The first segment error
// cancels the remaining ones and is returned.
func Run(ctx context.Context, opts Options, progress *Progress) error {
	segs := partition(opts.NTotal, opts.RowsPerFile)
	tables := template.Flatten(opts.Model.Roots)
	tableIndex := make(map[string]int, len(tables))
	for i, t := range tables {
		tableIndex[t.Name] = i
	}

	var aborted atomic.Bool
	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}

	for _, seg := range segs {
		seg := seg
		g.Go(func() error {
			stop := func() bool { return aborted.Load() || gctx.Err() != nil }
			if stop() {
				return nil
			}
			start := time.Now()
			if err := runSegment(opts, seg, tables, tableIndex, progress, stop); err != nil {
				aborted.Store(true)
				logging.SegmentFailed("*", seg.index, err)
				return err
			}
			logging.SegmentDone("*", seg.index, seg.end-seg.start+1, time.Since(start))
			return nil
		})
	}
	return g.Wait()
}

func partition(nTotal, rowsPerFile int64) []segment {
	if rowsPerFile <= 0 {
		rowsPerFile = nTotal
	}
	if rowsPerFile <= 0 {
		return nil
	}
	segs := make([]segment, 0, (nTotal+rowsPerFile-1)/rowsPerFile)
	idx := 0
	for start := int64(1); start <= nTotal; start += rowsPerFile {
		end := start + rowsPerFile - 1
		if end > nTotal {
			end = nTotal
		}
		segs = append(segs, segment{index: idx, start: start, end: end})
		idx++
	}
	return segs
}

// runSegment opens one sink per table for this segment, runs the global
// init block once to populate the segment's slot vector (re-initialized
// per file per spec §3.5), then drives each top-level table's row range in
// order with its own forked PRNG stream.
func runSegment(opts Options, seg segment, tables []*template.TableNode, tableIndex map[string]int, progress *Progress, stop func() bool) error {
	segSeed := opts.BaseSeed.Fork(uint64(seg.index))

	writers := make(map[string]RowWriter, len(tables))
	for _, t := range tables {
		w, err := opts.Sinks.Open(t.Name, seg.index)
		if err != nil {
			return err
		}
		writers[t.Name] = w
	}
	defer func() {
		for _, w := range writers {
			w.Close()
		}
	}()

	slots := make([]value.Value, opts.Model.SlotCount)
	if opts.Model.GlobalInit != nil {
		initCtx := &plan.Ctx{Slots: slots, Now: opts.Now, Rng: segSeed}
		if _, err := eval.Eval(initCtx, opts.Model.GlobalInit); err != nil {
			return err
		}
	}

	for _, root := range opts.Model.Roots {
		tableRng := segSeed.Fork(uint64(tableIndex[root.Name]))
		for r := seg.start; r <= seg.end; r++ {
			if stop() {
				return nil
			}
			ctx := &plan.Ctx{Slots: slots, RowNum: r, SubRowNum: 1, Now: opts.Now, Rng: tableRng}
			if err := evalTable(root, ctx, writers); err != nil {
				return err
			}
			if progress != nil {
				atomic.AddInt64(&progress.RowsEmitted, 1)
			}
		}
	}
	if progress != nil {
		atomic.AddInt64(&progress.FilesWritten, int64(len(tables)))
	}
	return nil
}

// evalTable evaluates node's columns for the row described by ctx, writes
// the result, then recurses into derived children in declaration order.
// Per spec §3.6, a derived table's row-count expression is evaluated in a
// snapshot of the parent row's slot vector, and its k sub-rows run against
// a private copy of that snapshot — mutations chain from sub-row to
// sub-row within the same derived table, but never escape back into ctx's
// own slots, so the next top-level (or sibling-derivation) row starts clean
// of anything the derived subtree did. Each child's RNG is forked from a
// (rownum, sibling index) path so its random consumption can never perturb
// the parent's own stream position regardless of how many draws the child
// subtree makes.
func evalTable(node *template.TableNode, ctx *plan.Ctx, writers map[string]RowWriter) error {
	vals := make([]value.Value, len(node.Columns))
	for i, col := range node.Columns {
		v, err := eval.Eval(ctx, col)
		if err != nil {
			return err
		}
		vals[i] = v
	}
	if err := writers[node.Name].WriteRow(vals); err != nil {
		return err
	}

	for ci, child := range node.Children {
		childSlots := append([]value.Value(nil), ctx.Slots...)
		childRng := ctx.Rng.Fork(uint64(ctx.RowNum)).Fork(uint64(ci))

		countCtx := &plan.Ctx{Slots: childSlots, RowNum: ctx.RowNum, SubRowNum: ctx.SubRowNum, Now: ctx.Now, Rng: childRng}
		countVal, err := eval.Eval(countCtx, child.CountExpr)
		if err != nil {
			return err
		}
		k, err := value.ToInt64Truncate(countVal)
		if err != nil {
			return err
		}

		for sub := int64(1); sub <= k; sub++ {
			subCtx := &plan.Ctx{Slots: childSlots, RowNum: ctx.RowNum, SubRowNum: sub, Now: ctx.Now, Rng: childRng}
			if err := evalTable(child, subCtx, writers); err != nil {
				return err
			}
		}
	}
	return nil
}
