// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fpgrowth

import (
	"sort"

	"github.com/openminer/fpgrowth/lib/maps"
	"github.com/openminer/fpgrowth/lib/slices"
)

// countFrequency counts, across every transaction, how many
// transactions contain each item. Transactions are assumed already
// deduplicated to sets.
func countFrequency(txs [][]Item) map[Item]Support {
	freq := make(map[Item]Support)
	for _, tx := range txs {
		for _, it := range tx {
			freq[it]++
		}
	}
	return freq
}

// dedupToSet removes duplicate items within a transaction, keeping
// first occurrence order; a transactional multiset reduces to a set
// before anything else happens to it.
func dedupToSet(raw []Item) []Item {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[Item]struct{}, len(raw))
	out := make([]Item, 0, len(raw))
	for _, it := range raw {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

// buildResult is everything buildInitial hands back to the caller:
// the ready-to-mine root tree, the ItemIdx<->Item translation
// tables, and the rewritten, sorted transactions (useful for tests
// and for round-tripping the miner's own output as input).
type buildResult struct {
	tree              *FPTree
	idxToItem         []Item
	itemToIdx         map[Item]ItemIdx
	reducedTransactns [][]ItemIdx
}

// buildInitial implements C3: it counts items, iteratively strips
// infrequent items and undersized transactions to a fixpoint,
// assigns each surviving item a dense ItemIdx by descending support
// (ties broken by descending Item value), rewrites and sorts
// transactions so that prefix sharing is maximized, and inserts them
// all into a fresh root FPTree.
//
// arena backs the root tree's nodes; it is the one arena in the
// session that is never checkpointed or reset, since the root tree
// lives for the session's whole lifetime.
func buildInitial(rawTransactions [][]Item, minSupport Support, minPatternLen int, arena *nodeArena) (*buildResult, error) {
	txs := make([][]Item, 0, len(rawTransactions))
	for _, raw := range rawTransactions {
		d := dedupToSet(raw)
		if len(d) == 0 {
			continue
		}
		txs = append(txs, d)
	}

	freq := countFrequency(txs)
	for {
		changed := false

		for i, tx := range txs {
			filtered := tx[:0]
			for _, it := range tx {
				if freq[it] >= minSupport {
					filtered = append(filtered, it)
				} else {
					changed = true
				}
			}
			txs[i] = filtered
		}

		kept := txs[:0]
		for _, tx := range txs {
			if len(tx) < minPatternLen {
				changed = true
				continue
			}
			kept = append(kept, tx)
		}
		txs = kept

		freq = countFrequency(txs)

		if !changed {
			break
		}
	}

	items := maps.Keys(freq)
	sort.Slice(items, func(i, j int) bool {
		si, sj := freq[items[i]], freq[items[j]]
		if si != sj {
			return si > sj
		}
		return items[i] > items[j]
	})

	idxToItem := make([]Item, len(items))
	itemToIdx := make(map[Item]ItemIdx, len(items))
	for idx, it := range items {
		idxToItem[idx] = it
		itemToIdx[it] = ItemIdx(idx)
	}

	rewritten := make([][]ItemIdx, 0, len(txs))
	for _, tx := range txs {
		row := make([]ItemIdx, len(tx))
		for i, it := range tx {
			row[i] = itemToIdx[it]
		}
		slices.Sort(row)
		rewritten = append(rewritten, row)
	}

	sort.Slice(rewritten, func(i, j int) bool {
		a, b := rewritten[i], rewritten[j]
		l := len(a)
		if len(b) < l {
			l = len(b)
		}
		for k := 0; k < l; k++ {
			if a[k] != b[k] {
				return a[k] > b[k]
			}
		}
		return len(a) < len(b)
	})

	tree := newFPTree(len(items), arena)
	for idx, it := range items {
		tree.headers[idx] = header{item: it, support: freq[it], head: noNode}
	}
	tree.cnt = len(items)

	for _, row := range rewritten {
		tree.insert(row, 1)
	}

	return &buildResult{
		tree:              tree,
		idxToItem:         idxToItem,
		itemToIdx:         itemToIdx,
		reducedTransactns: rewritten,
	}, nil
}
