// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fpgrowth

// closedTreeStack is the on-the-fly closed-itemset filter (C4): a
// stack of frames, one per currently-open prefix element, that lets
// the mining engine answer "would emitting this candidate itemset be
// redundant, because a superset with the same support has already
// been found?" without ever comparing against the full output set.
//
// Frame 0 is a permanent sentinel representing the empty prefix; it
// is never popped. Each subsequent frame corresponds to one element
// of the pattern currently being grown, and accumulates, via update,
// a record of every item that has been seen as part of some
// already-emitted itemset sharing that frame's prefix.
//
// A closedTreeStack belongs to exactly one worker; it is never
// shared across goroutines.
type closedTreeStack struct {
	frames []ctFrame
}

type ctFrame struct {
	item Item

	// children is a fast, conservative pre-filter for add: the
	// largest support at which each item has been seen appended
	// to this frame's prefix in any previously-emitted itemset.
	children map[Item]Support

	// registrations holds the exact record needed to answer
	// isClosed correctly: for each previously-emitted itemset
	// sharing this frame's prefix, the remaining item set beyond
	// this frame's position, and that itemset's support. A
	// candidate is blocked only when some single registration's
	// tail *entirely contains* the candidate's own remaining
	// items at *at least* the candidate's support -- checking
	// children alone is not enough, since a match on one item in
	// isolation doesn't mean the same prior itemset also covered
	// every other item in the candidate.
	registrations []ctRegistration
}

type ctRegistration struct {
	tail    map[Item]struct{}
	support Support
}

func newClosedTreeStack() *closedTreeStack {
	return &closedTreeStack{
		frames: []ctFrame{{
			children: make(map[Item]Support),
		}},
	}
}

func (s *closedTreeStack) depth() int {
	return len(s.frames) - 1
}

// add records that item is being tried as an extension of the
// current top-of-stack prefix, at the given (optimistic, upper-bound)
// support. If an earlier-processed sibling already reached this same
// item at support >= support, the branch is rejected outright: every
// closed itemset reachable by exploring it has necessarily already
// been found via that sibling. Otherwise a new frame is pushed for
// the extended prefix and the call is accepted.
func (s *closedTreeStack) add(item Item, support Support) bool {
	top := &s.frames[len(s.frames)-1]
	if prior, ok := top.children[item]; ok && prior >= support {
		return false
	}
	s.frames = append(s.frames, ctFrame{
		item:     item,
		children: make(map[Item]Support),
	})
	return true
}

// fullPattern returns every item of the pattern currently open on the
// stack, outermost-first starting at frame 1 (frame 0 is the sentinel
// and contributes no item of its own), followed by tailExtra.
func (s *closedTreeStack) fullPattern(tailExtra []Item) []Item {
	d := s.depth()
	full := make([]Item, 0, d+len(tailExtra))
	for i := 1; i <= d; i++ {
		full = append(full, s.frames[i].item)
	}
	return append(full, tailExtra...)
}

// isClosed reports whether the itemset ending in the current top
// frame, with items beyond the stack (i.e. the current pattern's
// trailing perfect extensions) given by tailExtra, and final support
// supp, is closed: no earlier-emitted itemset already covers the
// same ground at equal-or-greater support.
//
// It walks every ancestor frame (the sentinel through the parent of
// the current top), and at each one checks whether some single prior
// registration's tail is a superset of this candidate's own
// remaining items from that frame onward -- the same subset test
// update used to build that registration, run in reverse. "Remaining
// items from frame i onward" is fullPattern with the first i entries
// (one per frame strictly above i) dropped.
func (s *closedTreeStack) isClosed(tailExtra []Item, supp Support) bool {
	full := s.fullPattern(tailExtra)
	d := s.depth()
	for i := 0; i < d; i++ {
		tail := full[i:]
		for _, reg := range s.frames[i].registrations {
			if reg.support < supp {
				continue
			}
			if tailIsSubset(tail, reg.tail) {
				return false
			}
		}
	}
	return true
}

func tailIsSubset(tail []Item, set map[Item]struct{}) bool {
	for _, it := range tail {
		if _, ok := set[it]; !ok {
			return false
		}
	}
	return true
}

// update registers that the itemset ending at the current top frame
// and continuing through tailExtra has been emitted with the given
// support, so that later siblings at every shallower ancestor (and,
// for a deeper pattern built on top of the current frame later, the
// current frame itself) see it.
func (s *closedTreeStack) update(tailExtra []Item, supp Support) {
	full := s.fullPattern(tailExtra)
	d := s.depth()
	for i := 0; i <= d; i++ {
		tail := full[i:]
		if len(tail) == 0 {
			continue
		}
		f := &s.frames[i]
		set := make(map[Item]struct{}, len(tail))
		for _, it := range tail {
			set[it] = struct{}{}
			if prior, ok := f.children[it]; !ok || prior < supp {
				f.children[it] = supp
			}
		}
		f.registrations = append(f.registrations, ctRegistration{tail: set, support: supp})
	}
}

// remove pops the top k frames, clamped so the sentinel is never
// removed even if k exceeds the current depth.
func (s *closedTreeStack) remove(k int) {
	if k > s.depth() {
		k = s.depth()
	}
	s.frames = s.frames[:len(s.frames)-k]
}
