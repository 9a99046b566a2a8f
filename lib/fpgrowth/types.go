// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package fpgrowth mines closed (and, optionally, all) frequent
// itemsets from a transactional database using FP-Growth with an
// on-the-fly closed-itemset filter.
//
// The package is the engine only: it has no notion of files,
// sockets, or host-language bindings.  Callers hand it an in-memory
// collection of transactions and get back a collection of itemsets;
// everything else -- loading, CLI parsing, signal handling -- lives
// outside the package.
package fpgrowth

import "math"

// Item is an opaque input value.  The package never interprets an
// Item beyond comparing it for equality and ordering; hashing or
// interning of host values is the caller's concern.
type Item uint32

// Support is the number of transactions containing an itemset.
type Support uint32

// ItemIdx is the dense rank, in 0..cnt, assigned to a frequent Item
// once the root tree has been built.  Items are ranked by descending
// support, ties broken by descending Item value.  An ItemIdx is only
// meaningful relative to the FPTree (and its conditional trees) that
// assigned it.
type ItemIdx uint32

// SuppMax is the largest representable Support; used as a sentinel
// meaning "this slot has been pruned" during projection.
const SuppMax Support = math.MaxUint32

// Mode selects which family of itemsets Mine reports.
type Mode int

const (
	// ModeClosed reports only closed frequent itemsets: itemsets
	// with no proper superset of identical support.
	ModeClosed Mode = iota
	// ModeAll reports every frequent itemset.
	ModeAll
	// ModeAllWithPerfectExt is like ModeAll, but additionally
	// expands every non-empty subset of a branch's perfect
	// extensions into its own reported itemset.  This is
	// O(2^|perfect-extensions|) per branch, hence optional.
	ModeAllWithPerfectExt
)

func (m Mode) String() string {
	switch m {
	case ModeClosed:
		return "closed"
	case ModeAll:
		return "all"
	case ModeAllWithPerfectExt:
		return "all-with-perfect-ext"
	default:
		return "unknown"
	}
}

func (m Mode) closed() bool {
	return m == ModeClosed
}

func (m Mode) expandPerfectExt() bool {
	return m == ModeAllWithPerfectExt
}

// foldsPerfectExtensions reports whether growth should take the
// single-path perfect-extension shortcut at all. ModeAll needs every
// frequent itemset reported individually, including the ones a
// perfect-extension chain would otherwise fold together into one
// combined row, so it always takes the full projection path instead --
// slower, but each recursion level then emits its own itemset via
// endLocalPattern. ModeClosed and ModeAllWithPerfectExt both reconcile
// the shortcut's combined row back into the itemsets the shortcut
// would have produced anyway (a closedness check, or an explicit
// subset expansion), so they keep taking it.
func (m Mode) foldsPerfectExtensions() bool {
	return m == ModeClosed || m == ModeAllWithPerfectExt
}

// Itemset is one result row: a set of Items found together at least
// Support times.  Items is in the order it was emitted -- the
// descending-support frequent-item order of the root tree -- not
// sorted by Item value.
type Itemset struct {
	Items   []Item
	Support Support
}
