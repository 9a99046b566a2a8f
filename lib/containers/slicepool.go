// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package containers holds small generic data-structure helpers used
// by fpgrowth's engine and driver.
package containers

import (
	"git.lukeshu.com/go/typedsync"
)

// SlicePool lets unrelated goroutines recycle backing arrays for []T
// instead of each allocating its own. It is meant for short-lived
// scratch slices that are repeatedly grown from empty and discarded,
// such as a mining worker's node arena: a worker done with its slab
// hands the backing array back for the next worker's arena to grow
// into, rather than it being garbage collected and reallocated.
type SlicePool[T any] struct {
	inner typedsync.Pool[[]T]
}

// Get returns a slice of length size, reusing a pooled backing array
// when one with sufficient capacity is available.
func (p *SlicePool[T]) Get(size int) []T {
	if size == 0 {
		return nil
	}
	ret, ok := p.inner.Get()
	if ok && cap(ret) >= size {
		ret = ret[:size]
	} else {
		ret = make([]T, size)
	}
	return ret
}

// Put returns slice's backing array to the pool for a future Get.
func (p *SlicePool[T]) Put(slice []T) {
	if slice == nil {
		return
	}
	p.inner.Put(slice)
}
