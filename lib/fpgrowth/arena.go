// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fpgrowth

import (
	"math"

	"github.com/openminer/fpgrowth/lib/containers"
)

// defaultArenaCap is the number of nodes an arena preallocates
// before it needs to grow.  The source this package is adapted from
// called this a "slab" of 65536 nodes; here a single growable slice
// plays that role (see DESIGN.md), so this is just its initial
// capacity.
const defaultArenaCap = 65536

// treeNodePool recycles arena backing arrays across workers and
// across Mine calls: a worker's arena grows its slab from this pool
// on creation and hands it back via release once the worker is
// discarded, so the next arena to need a slab of that size skips the
// allocation instead of growing a fresh slice from nil.
var treeNodePool containers.SlicePool[treeNode]

// treeNode is one FP-tree node.  It is addressed by its index into
// an arena, never by pointer: parent and sibling are indices, with
// noIdx standing in for "the (virtual) tree root" / "no further
// sibling".
type treeNode struct {
	id      ItemIdx
	support Support
	parent  uint32
	sibling uint32
}

// noNode is the sentinel arena index meaning "the tree root" or "end
// of sibling list".
const noNode uint32 = math.MaxUint32

// nodeArena bump-allocates treeNodes into one growable slice and
// supports nested LIFO checkpoints.  Conditional-tree construction
// during FP-Growth recursion allocates a burst of nodes and then
// discards them all at once when the recursive call returns;
// modelling that as "truncate the slice back to a saved length"
// turns per-node allocation into an append and bulk free into a
// single length assignment, matching the recursion stack exactly.
//
// A nodeArena is owned by exactly one worker for the lifetime of a
// mining session; it is never shared across goroutines.
type nodeArena struct {
	nodes       []treeNode
	checkpoints []int
}

func newNodeArena(cap int) *nodeArena {
	if cap <= 0 {
		cap = defaultArenaCap
	}
	return &nodeArena{
		nodes: treeNodePool.Get(cap)[:0],
	}
}

// alloc returns the index of a fresh zero-valued node.  It never
// fails: the backing slice grows via append, and a genuine
// allocation failure (the runtime is out of memory) is not
// recoverable and is not modeled as an error return here -- it is
// the same "fatal for the session" failure described in ErrOOM,
// which callers surface by recovering a runtime panic at the
// session boundary (see Mine).
func (a *nodeArena) alloc() uint32 {
	idx := uint32(len(a.nodes))
	a.nodes = append(a.nodes, treeNode{})
	return idx
}

func (a *nodeArena) get(idx uint32) *treeNode {
	return &a.nodes[idx]
}

// pushState records the current allocation point.  Checkpoints nest
// LIFO.
func (a *nodeArena) pushState() {
	a.checkpoints = append(a.checkpoints, len(a.nodes))
}

// popState restores the arena to the most recently pushed
// checkpoint.  Every node allocated since that checkpoint becomes
// unreachable and its slot is reused by the next alloc.
func (a *nodeArena) popState() {
	n := len(a.checkpoints) - 1
	mark := a.checkpoints[n]
	a.checkpoints = a.checkpoints[:n]
	a.nodes = a.nodes[:mark]
}

// clear resets the arena fully, discarding all checkpoints.
func (a *nodeArena) clear() {
	a.nodes = a.nodes[:0]
	a.checkpoints = a.checkpoints[:0]
}

// release returns the arena's backing array to treeNodePool for a
// later newNodeArena to reuse, and leaves the arena empty. Call this
// once an arena's owner (a worker, or the root build in Mine) is
// entirely done with it -- for a worker's own arena that's when its
// last top-level item finishes; for the root tree's arena that's only
// after every worker has finished reading from it.
func (a *nodeArena) release() {
	treeNodePool.Put(a.nodes)
	a.nodes = nil
	a.checkpoints = a.checkpoints[:0]
}

// checkpoint returns a scoped guard equivalent to pushState now and
// popState later, so that an early return (including one caused by
// a recovered panic) still restores arena state.  Mirrors the
// recursive-projection guidance in DESIGN.md.
func (a *nodeArena) checkpoint() func() {
	a.pushState()
	return a.popState
}
