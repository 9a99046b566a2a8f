// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fpgrowth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosedTreeStackRejectsDominatedSibling(t *testing.T) {
	t.Parallel()
	s := newClosedTreeStack()

	require.True(t, s.add(2, 4))
	require.True(t, s.isClosed(nil, 4))
	s.update(nil, 4)
	s.remove(1)

	// A later sibling reaching the same item at an equal or lower
	// support has nothing left to contribute.
	assert.False(t, s.add(2, 4))
	assert.False(t, s.add(2, 3))
}

func TestClosedTreeStackAcceptsHigherSupportSibling(t *testing.T) {
	t.Parallel()
	s := newClosedTreeStack()

	require.True(t, s.add(2, 2))
	require.True(t, s.isClosed(nil, 2))
	s.update(nil, 2)
	s.remove(1)

	assert.True(t, s.add(2, 5))
}

func TestClosedTreeStackDeepPatternBlockedBySentinelRegistration(t *testing.T) {
	t.Parallel()
	s := newClosedTreeStack()

	// Emit {1,2,3}:2.
	require.True(t, s.add(1, 2))
	require.True(t, s.add(3, 2))
	require.True(t, s.isClosed([]Item{2}, 2))
	s.update([]Item{2}, 2)
	s.remove(2)

	// Item 1 is tried again at a higher support (3), which add's
	// per-item pre-filter lets through; its extension {1,3}:2 is a
	// subset of the registered {1,2,3}:2 at equal support, so it is
	// not closed.
	require.True(t, s.add(1, 3))
	require.True(t, s.add(3, 2))
	assert.False(t, s.isClosed(nil, 2))
}

func TestClosedTreeStackNotBlockedByLowerSupportRegistration(t *testing.T) {
	t.Parallel()
	s := newClosedTreeStack()

	require.True(t, s.add(1, 2))
	require.True(t, s.add(3, 2))
	require.True(t, s.isClosed([]Item{2}, 2))
	s.update([]Item{2}, 2)
	s.remove(2)

	// {1,2}:3 has higher support than the registered {1,2,3}:2, so
	// the registration (which by monotonicity can only ever be a
	// true superset at a *lower or equal* support) cannot block it.
	require.True(t, s.add(1, 3))
	assert.True(t, s.isClosed([]Item{2}, 3))
}

func TestClosedTreeStackRemoveClampsAtSentinel(t *testing.T) {
	t.Parallel()
	s := newClosedTreeStack()
	require.True(t, s.add(1, 1))
	s.remove(5)
	assert.Equal(t, 0, s.depth())
}

func TestTailIsSubset(t *testing.T) {
	t.Parallel()
	set := map[Item]struct{}{1: {}, 2: {}}
	assert.True(t, tailIsSubset(nil, set))
	assert.True(t, tailIsSubset([]Item{1}, set))
	assert.True(t, tailIsSubset([]Item{1, 2}, set))
	assert.False(t, tailIsSubset([]Item{1, 3}, set))
}
