// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fpgrowth

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"

	"github.com/openminer/fpgrowth/lib/textui"
)

// miningStats is the Progress payload for a mining run: how far the
// top-level sweep has gotten and how many itemsets have been found so
// far, across every worker.
type miningStats struct {
	mode          Mode
	topLevelDone  int
	topLevelTotal int
	itemsetsFound int
	mem           *textui.LiveMemUse
}

func (s miningStats) String() string {
	return textui.Sprintf("mining (%s): %d/%d top-level items done, %d itemsets found so far (mem: %v)",
		s.mode, s.topLevelDone, s.topLevelTotal, s.itemsetsFound, s.mem)
}

// runParallel is C6: it fans mining of tree's top-level items out
// across numWorkers goroutines and collects every worker's results.
//
// Top-level items are handed out dynamically from a shared atomic
// counter rather than statically sliced, so that a run with a few
// expensive items and many cheap ones doesn't leave workers idle.
// Each goroutine owns its worker (arena, closed-tree stack, scratch
// buffers, pattern store) exclusively for its whole lifetime: there
// is no lock anywhere on the per-item mining path, only the final
// merge of each worker's store.
//
// Closed mode is the one exception to that independence: its
// on-the-fly filter needs every top-level item visited in strict
// descending-ItemIdx order against one shared stack (see
// worker.mineTopLevelItem), so cfg.mode.closed() forces a single
// worker regardless of numWorkers. ModeAll and ModeAllWithPerfectExt
// need no such ordering -- every frequent itemset is reported
// unconditionally -- so they parallelize fully.
//
// A shared Progress logs how many top-level items have been finished
// and how many itemsets have been found so far, at LogLevelInfo, at
// most once a second.
func runParallel(ctx context.Context, cfg *engineConfig, tree *FPTree, numWorkers int) ([]Itemset, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if cfg.mode.closed() {
		numWorkers = 1
	}

	var next int64 = int64(tree.cnt) - 1
	stores := make([]*patternStore, numWorkers)

	var topLevelDone, itemsetsFound int64
	mem := &textui.LiveMemUse{}
	progress := textui.NewProgress[miningStats](ctx, dlog.LogLevelInfo, time.Second)
	defer progress.Done()

	grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{})
	for wID := 0; wID < numWorkers; wID++ {
		wID := wID
		store := newPatternStore()
		stores[wID] = store
		grp.Go(workerName(wID), func(ctx context.Context) error {
			ctx = dlog.WithField(ctx, "fpgrowth.worker", wID)
			w := newWorker(cfg, tree.cnt, store)
			defer w.arena.release()
			prevLen := 0
			for {
				i := atomic.AddInt64(&next, -1) + 1
				if i < 0 {
					return nil
				}
				if err := w.mineTopLevelItem(ctx, tree, int(i)); err != nil {
					return err
				}
				curLen := store.len()
				atomic.AddInt64(&itemsetsFound, int64(curLen-prevLen))
				prevLen = curLen
				atomic.AddInt64(&topLevelDone, 1)
				progress.Set(miningStats{
					mode:          cfg.mode,
					topLevelDone:  int(atomic.LoadInt64(&topLevelDone)),
					topLevelTotal: tree.cnt,
					itemsetsFound: int(atomic.LoadInt64(&itemsetsFound)),
					mem:           mem,
				})
			}
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, s := range stores {
		total += s.len()
	}
	result := make([]Itemset, 0, total)
	for _, s := range stores {
		result = append(result, s.itemsets...)
	}

	dlog.Debugf(ctx, "mining finished: %d itemsets from %d workers", len(result), numWorkers)
	return result, nil
}

func workerName(id int) string {
	const names = "0123456789abcdefghijklmnopqrstuvwxyz"
	if id < len(names) {
		return "worker-" + string(names[id])
	}
	return "worker-n"
}
