// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fpgrowth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openminer/fpgrowth/lib/textui"
)

func TestMiningStatsString(t *testing.T) {
	t.Parallel()
	s := miningStats{
		mode:          ModeClosed,
		topLevelDone:  3,
		topLevelTotal: 10,
		itemsetsFound: 7,
		mem:           &textui.LiveMemUse{},
	}
	assert.Contains(t, s.String(), "3/10 top-level items done")
	assert.Contains(t, s.String(), "7 itemsets found so far")
	assert.Contains(t, s.String(), "closed")
}

func TestWorkerNameFallsBackPastAlphabet(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "worker-0", workerName(0))
	assert.Equal(t, "worker-a", workerName(10))
	assert.Equal(t, "worker-z", workerName(35))
	assert.Equal(t, "worker-n", workerName(36))
}
