// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fpgrowth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternStoreAddCopiesCallerBuffer(t *testing.T) {
	t.Parallel()
	s := newPatternStore()

	buf := []Item{1, 2, 3}
	s.add(buf, 5)

	// The caller is free to mutate its scratch buffer afterward;
	// the stored Itemset must not alias it.
	buf[0] = 99

	require.Equal(t, 1, s.len())
	assert.Equal(t, []Item{1, 2, 3}, s.itemsets[0].Items)
	assert.Equal(t, Support(5), s.itemsets[0].Support)
}

func TestPatternStoreAddAccumulates(t *testing.T) {
	t.Parallel()
	s := newPatternStore()
	s.add([]Item{1}, 1)
	s.add([]Item{2, 3}, 2)
	require.Equal(t, 2, s.len())
	assert.Equal(t, Support(1), s.itemsets[0].Support)
	assert.Equal(t, Support(2), s.itemsets[1].Support)
}

func TestPatternStoreAddEmptyItemset(t *testing.T) {
	t.Parallel()
	s := newPatternStore()
	s.add(nil, 7)
	require.Equal(t, 1, s.len())
	assert.Empty(t, s.itemsets[0].Items)
}
