// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fpgrowth

import (
	"context"
	"runtime"

	"github.com/datawire/dlib/dlog"
)

// Config controls a mining session. The zero value is not valid:
// MinSupport must be at least 1.
type Config struct {
	// MinSupport is the minimum number of transactions an itemset
	// must appear in to be reported.
	MinSupport Support

	// Mode selects which family of itemsets to report. Zero value
	// is ModeClosed.
	Mode Mode

	// MinPatternLen and MaxPatternLen bound the number of items in
	// a reported itemset. Zero MinPatternLen means 1; zero
	// MaxPatternLen means unbounded.
	MinPatternLen int
	MaxPatternLen int

	// Workers is the number of goroutines to mine with. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int
}

func (c Config) validate() error {
	if c.MinSupport < 1 {
		return badInputf("MinSupport must be at least 1, got %d", c.MinSupport)
	}
	if c.MaxPatternLen != 0 && c.MinPatternLen > c.MaxPatternLen {
		return badInputf("MinPatternLen (%d) is greater than MaxPatternLen (%d)", c.MinPatternLen, c.MaxPatternLen)
	}
	return nil
}

// Mine runs FP-Growth over transactions and returns every itemset
// matching cfg's mode and length bounds.
//
// transactions is read once, up front; each inner slice may contain
// duplicate Items (a transaction is conceptually a set, so duplicates
// are silently collapsed) but must not be modified concurrently with
// the call. Mine does not retain any part of transactions in its
// result: every Itemset.Items it returns is freshly allocated.
//
// Mine returns an error matching ErrAborted, with ctx.Err() in its
// message, if ctx is canceled before mining completes. ctx.Err()
// itself is not in that error's Unwrap chain.
//
// A runtime out-of-memory condition while growing the arena surfaces
// as a recovered panic, reported as ErrOOM, rather than propagating
// as an unrecoverable process crash.
func Mine(ctx context.Context, transactions [][]Item, cfg Config) (result []Itemset, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); ok {
				err = oomf("mining ran out of memory: %v", r)
				return
			}
			panic(r)
		}
	}()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, abortedf("mining aborted before starting: %v", err)
	}

	minPatternLen := cfg.MinPatternLen
	if minPatternLen == 0 {
		minPatternLen = 1
	}

	dlog.Debugf(ctx, "building root tree from %d transactions (min_support=%d)", len(transactions), cfg.MinSupport)

	rootArena := newNodeArena(0)
	// Every worker reads the root tree (hence rootArena) throughout
	// mining, so it can only be handed back to treeNodePool once
	// runParallel has returned and every worker is done with it.
	defer rootArena.release()
	built, err := buildInitial(transactions, cfg.MinSupport, minPatternLen, rootArena)
	if err != nil {
		return nil, err
	}

	dlog.Debugf(ctx, "root tree has %d frequent items", built.tree.cnt)

	if built.tree.cnt == 0 {
		return nil, nil
	}

	numWorkers := cfg.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > built.tree.cnt {
		numWorkers = built.tree.cnt
	}
	if cfg.Mode == ModeClosed {
		// See runParallel: closed mode's on-the-fly filter needs a
		// single, strictly-ordered pass over the top-level items.
		numWorkers = 1
	}

	engCfg := &engineConfig{
		mode:          cfg.Mode,
		minSupport:    cfg.MinSupport,
		minPatternLen: minPatternLen,
		maxPatternLen: cfg.MaxPatternLen,
	}

	ctx = dlog.WithField(ctx, "fpgrowth.mode", cfg.Mode.String())
	dlog.Debugf(ctx, "mining in %s mode with %d workers", cfg.Mode, numWorkers)

	result, err = runParallel(ctx, engCfg, built.tree, numWorkers)
	if err != nil {
		return nil, err
	}

	return result, nil
}
