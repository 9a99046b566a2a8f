// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fpgrowth

import (
	"fmt"
	"io"
)

// header is the per-ItemIdx record of an FPTree: which original Item
// this slot stands for, the item's total support in this tree, and
// the head of the linked list (threaded through treeNode.sibling) of
// every node in the tree carrying this id.
type header struct {
	item    Item
	support Support
	head    uint32 // arena index, or noNode
}

// FPTree is a prefix tree of transactions, restricted to (and
// indexed by) a dense set of ItemIdx assigned in descending-support
// order.  Each non-root node's parent is strictly closer to the
// (virtual) root; walking sibling from headers[id].head enumerates
// exactly the nodes with that id.
//
// A root FPTree lives for the whole mining session and is read-only
// once built.  A conditional FPTree is allocated once per worker and
// *reused* across sibling recursive calls: its headers slice is
// overwritten in place by project, and its nodes live in the
// worker's arena, reclaimed by an arena checkpoint when the
// recursive call that built them returns.
type FPTree struct {
	headers     []header // len == cap == the tree's maximum possible item count
	cnt         int      // number of headers actually in use, <= len(headers)
	arena       *nodeArena
	rootSupport Support
}

// newFPTree allocates an FPTree whose headers table can hold up to
// maxItems entries.  cnt starts at maxItems; callers building a root
// tree leave it there, while project() overwrites cnt to the actual
// number of frequent conditional items on every call.
func newFPTree(maxItems int, arena *nodeArena) *FPTree {
	return &FPTree{
		headers: make([]header, maxItems),
		cnt:     maxItems,
		arena:   arena,
	}
}

// insert walks from the (virtual) root, reusing existing children
// whose id matches the next symbol in path, and creates new nodes
// for the remaining tail.  Every traversed node's support is
// incremented by count, including the virtual root's.
//
// The reuse test is the FP-tree shortcut: a node is reused iff
// headers[next].head exists and was the most recently inserted node
// for that id with the matching parent -- which holds precisely
// because insert is always called with transactions in one globally
// consistent sorted order (see buildInitial).
func (t *FPTree) insert(path []ItemIdx, count Support) {
	t.rootSupport += count

	cur := noNode
	i := 0
	n := len(path)
	var id ItemIdx
	for {
		if i >= n {
			return
		}
		id = path[i]
		i++
		c := t.headers[id].head
		if c == noNode || t.arena.get(c).parent != cur {
			break
		}
		cur = c
		t.arena.get(cur).support += count
	}

	for {
		c := t.arena.alloc()
		node := t.arena.get(c)
		node.id = id
		node.support = count
		node.parent = cur
		node.sibling = t.headers[id].head
		t.headers[id].head = c
		cur = c
		if i >= n {
			return
		}
		id = path[i]
		i++
	}
}

// project builds into dst the conditional FP-tree for the prefix
// extended with item headers[pivot].item: the conditional database
// of t restricted to transactions containing that item, with the
// item itself removed and infrequent remaining items pruned.
//
// subs and pathBuf are caller-owned scratch, sized to the root
// tree's item count; project only ever touches their first pivot
// entries. ok is false when no item survives minSupport in the
// conditional database -- a normal termination of that recursion
// branch, not an error.
func (t *FPTree) project(dst *FPTree, pivot ItemIdx, minSupport Support, subs []Support, pathBuf []ItemIdx) (ok bool) {
	for i := ItemIdx(0); i < pivot; i++ {
		subs[i] = 0
	}

	for nIdx := t.headers[pivot].head; nIdx != noNode; {
		node := t.arena.get(nIdx)
		for p := node.parent; p != noNode; {
			anc := t.arena.get(p)
			subs[anc.id] += node.support
			p = anc.parent
		}
		nIdx = node.sibling
	}

	var n ItemIdx
	for i := ItemIdx(0); i < pivot; i++ {
		s := subs[i]
		if s < minSupport {
			subs[i] = SuppMax // mark pruned, for the remap lookup below
			continue
		}
		dst.headers[n] = header{
			item:    t.headers[i].item,
			support: s,
			head:    noNode,
		}
		subs[i] = Support(n) // reuse subs in place as the old-idx -> new-idx remap
		n++
	}
	if n == 0 {
		return false
	}

	dst.cnt = int(n)
	dst.rootSupport = 0

	for nIdx := t.headers[pivot].head; nIdx != noNode; {
		node := t.arena.get(nIdx)
		pos := int(pivot)
		for p := node.parent; p != noNode; {
			anc := t.arena.get(p)
			if remapped := subs[anc.id]; remapped != SuppMax {
				pos--
				pathBuf[pos] = ItemIdx(remapped)
			}
			p = anc.parent
		}
		dst.insert(pathBuf[pos:int(pivot)], node.support)
		nIdx = node.sibling
	}

	return true
}

// print writes a debug dump of the tree, one unindented line per
// node, grouped by header in ItemIdx order, each line giving the
// node's item, id, support and depth. Not used on any hot path;
// intended for tests and
// LogLevelDebug diagnostics.
func (t *FPTree) print(w io.Writer) {
	for id := range t.headers[:t.cnt] {
		h := t.headers[id]
		for nIdx := h.head; nIdx != noNode; {
			node := t.arena.get(nIdx)
			fmt.Fprintf(w, "item=%d id=%d support=%d depth=%d\n", h.item, id, node.support, t.depth(nIdx))
			nIdx = node.sibling
		}
	}
}

func (t *FPTree) depth(nIdx uint32) int {
	d := 0
	for nIdx != noNode {
		d++
		nIdx = t.arena.get(nIdx).parent
	}
	return d
}
