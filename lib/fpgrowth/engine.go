// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fpgrowth

import (
	"context"
	"math/bits"

	"github.com/openminer/fpgrowth/lib/slices"
)

// engineConfig is the mining session's parameters, shared read-only
// by every worker.
type engineConfig struct {
	mode          Mode
	minSupport    Support
	minPatternLen int
	maxPatternLen int // 0 means unbounded
}

// worker is C5, the mining engine: everything one goroutine needs to
// grow conditional trees and emit itemsets, entirely free of locks or
// shared mutable state with any other worker. A driver (C6) owns one
// worker per goroutine and discards it once its assigned top-level
// items are exhausted.
type worker struct {
	cfg   *engineConfig
	arena *nodeArena
	store *patternStore

	// trees[d] is the reusable conditional-tree scratch space for
	// recursion depth d. Its headers slice is overwritten wholesale
	// by FPTree.project on every call at that depth; its nodes live
	// in arena, reclaimed by the matching checkpoint when the call
	// returns.
	trees []*FPTree

	// subs and pathBuf are project's scratch, sized to the widest
	// possible header table (the root tree's).
	subs    []Support
	pathBuf []ItemIdx

	// The pattern currently being grown: lastIDs[:lastIDCnt] are
	// the items added via addPatternElement (one per open stack
	// frame), each paired with the support it carried when added.
	// perfExtIDs[:perfExtIDCnt] are items folded in via perfect
	// extension at the current (deepest) recursion level only --
	// cleared at the end of every local pattern, never carried
	// across recursion levels.
	lastIDs      []Item
	lastSupports []Support
	lastIDCnt    int
	perfExtIDs   []Item
	perfExtIDCnt int

	combinedBuf []Item

	closed *closedTreeStack
}

func newWorker(cfg *engineConfig, rootCnt int, store *patternStore) *worker {
	arena := newNodeArena(0)
	trees := make([]*FPTree, rootCnt)
	for i := range trees {
		trees[i] = newFPTree(rootCnt, arena)
	}
	w := &worker{
		cfg:          cfg,
		arena:        arena,
		store:        store,
		trees:        trees,
		subs:         make([]Support, rootCnt),
		pathBuf:      make([]ItemIdx, rootCnt),
		lastIDs:      make([]Item, rootCnt),
		lastSupports: make([]Support, rootCnt),
		perfExtIDs:   make([]Item, rootCnt),
		combinedBuf:  make([]Item, 0, rootCnt),
	}
	if cfg.mode.closed() {
		w.closed = newClosedTreeStack()
	}
	return w
}

// mineTopLevelItem grows every closed/frequent itemset whose
// highest-index member is tree.headers[i], for a root tree.
//
// In closed mode w.closed is one stack shared across every top-level
// item this worker is given, and its sentinel frame is never reset
// between them: a perfect-extension chain can fold a low-index
// (high-support) item into a longer itemset mined from a high-index
// branch, so a later, independent branch for that low-index item on
// its own must still see that it was already covered, or it will
// wrongly re-report itself as closed. That cross-branch dependency is
// why a closed-mode run is never split across more than one worker --
// see runParallel.
func (w *worker) mineTopLevelItem(ctx context.Context, tree *FPTree, i int) error {
	w.lastIDCnt = 0
	w.perfExtIDCnt = 0
	return w.growth(ctx, tree, 0, i, i)
}

// growth iterates tree's headers from hi down to lo (both inclusive),
// descending-ItemIdx order, which is what makes the closed-tree
// stack's pruning sound: by the time an item is tried, every
// less-frequent sibling extension of the same prefix has already
// been explored and registered.
func (w *worker) growth(ctx context.Context, tree *FPTree, depth, lo, hi int) error {
	for i := hi; i >= lo; i-- {
		if err := ctx.Err(); err != nil {
			return abortedf("mining aborted: %v", err)
		}

		h := &tree.headers[i]

		accepted := true
		if w.cfg.mode.closed() {
			accepted = w.closed.add(h.item, h.support)
		}
		if !accepted {
			continue
		}

		w.lastIDs[w.lastIDCnt] = h.item
		w.lastSupports[w.lastIDCnt] = h.support
		w.lastIDCnt++

		head := h.head
		switch {
		case w.cfg.mode.foldsPerfectExtensions() &&
			head != noNode && tree.arena.get(head).sibling == noNode && tree.arena.get(head).parent != noNode:
			w.collectPerfectExtensions(tree, head)
		default:
			pop := w.arena.checkpoint()
			child := w.trees[depth]
			if tree.project(child, ItemIdx(i), w.cfg.minSupport, w.subs, w.pathBuf) {
				if err := w.growth(ctx, child, depth+1, 0, child.cnt-1); err != nil {
					pop()
					return err
				}
			}
			pop()
		}

		if err := w.endLocalPattern(); err != nil {
			return err
		}

		if w.cfg.mode.closed() {
			w.closed.remove(1)
		}
		w.lastIDCnt--
	}
	return nil
}

// collectPerfectExtensions walks the sole node carrying the
// just-added item up to the tree root, folding in every ancestor
// item: a single-path conditional tree means every one of those
// items co-occurs with the current prefix in exactly the same
// transactions, at exactly the current prefix's support.
func (w *worker) collectPerfectExtensions(tree *FPTree, head uint32) {
	for p := tree.arena.get(head).parent; p != noNode; p = tree.arena.get(p).parent {
		anc := tree.arena.get(p)
		w.perfExtIDs[w.perfExtIDCnt] = tree.headers[anc.id].item
		w.perfExtIDCnt++
	}
}

// endLocalPattern decides whether the pattern currently held in
// lastIDs+perfExtIDs clears the length bounds and, in closed mode,
// the closedness gate, and if so reports it (in one or many rows,
// per mode) before resetting perfExtIDCnt for the caller's next
// sibling.
func (w *worker) endLocalPattern() error {
	defer func() { w.perfExtIDCnt = 0 }()

	length := w.lastIDCnt + w.perfExtIDCnt
	if length < w.cfg.minPatternLen {
		return nil
	}
	if w.cfg.maxPatternLen > 0 && length > w.cfg.maxPatternLen {
		return nil
	}

	support := w.lastSupports[w.lastIDCnt-1]
	perfExts := w.perfExtIDs[:w.perfExtIDCnt]

	if w.cfg.mode.closed() {
		if !w.closed.isClosed(perfExts, support) {
			return nil
		}
		w.emit(support, perfExts)
		w.closed.update(perfExts, support)
		return nil
	}

	if w.cfg.mode.expandPerfectExt() && len(perfExts) > 0 {
		w.emitPerfectExtSubsets(support, perfExts)
		return nil
	}

	w.emit(support, perfExts)
	return nil
}

func (w *worker) emit(support Support, perfExts []Item) {
	w.combinedBuf = w.combinedBuf[:0]
	w.combinedBuf = append(w.combinedBuf, w.lastIDs[:w.lastIDCnt]...)
	w.combinedBuf = append(w.combinedBuf, perfExts...)
	// The pattern is built in descending-ItemIdx order; report it in
	// the root tree's descending-support order instead.
	slices.Reverse(w.combinedBuf)
	w.store.add(w.combinedBuf, support)
}

// emitPerfectExtSubsets reports lastIDs combined with every subset
// (including the empty and the full one) of perfExts, since a
// perfect extension carries the branch's exact support regardless of
// which of its fellow perfect extensions also appear.
func (w *worker) emitPerfectExtSubsets(support Support, perfExts []Item) {
	k := len(perfExts)
	for mask := 0; mask < (1 << k); mask++ {
		n := bits.OnesCount(uint(mask))
		length := w.lastIDCnt + n
		if length < w.cfg.minPatternLen {
			continue
		}
		if w.cfg.maxPatternLen > 0 && length > w.cfg.maxPatternLen {
			continue
		}
		w.combinedBuf = w.combinedBuf[:0]
		w.combinedBuf = append(w.combinedBuf, w.lastIDs[:w.lastIDCnt]...)
		for b := 0; b < k; b++ {
			if mask&(1<<uint(b)) != 0 {
				w.combinedBuf = append(w.combinedBuf, perfExts[b])
			}
		}
		slices.Reverse(w.combinedBuf)
		w.store.add(w.combinedBuf, support)
	}
}
