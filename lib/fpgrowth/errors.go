// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fpgrowth

import "fmt"

// The four exhaustive error kinds a mining session can terminate
// with.  Each has a sentinel value so that callers can test with
// errors.Is(err, fpgrowth.ErrBadInput) even though the concrete error
// returned from Mine carries additional context: a wrappedError whose
// message is fmt.Sprintf-formatted and whose Unwrap is the sentinel.
var (
	// ErrBadInput means the Config passed to Mine was malformed
	// (MinSupport below 1, or MinPatternLen above a non-zero
	// MaxPatternLen).  Raised before mining starts; there is no
	// partial result.
	ErrBadInput = &kindError{"bad_input"}

	// ErrOOM means arena or scratch allocation failed.  Fatal for
	// the session.
	ErrOOM = &kindError{"oom"}

	// ErrAborted means the cancellation flag (the context passed
	// to Mine) was observed.  Fatal for the session; workers
	// unwind cleanly via arena checkpoint pop.
	ErrAborted = &kindError{"aborted"}

	// ErrInternal means an invariant was violated -- a bug in
	// this package, not in caller input.  Fatal.
	ErrInternal = &kindError{"internal"}
)

type kindError struct {
	kind string
}

func (e *kindError) Error() string {
	return e.kind
}

// wrappedError lets a kindError carry contextual detail while still
// satisfying errors.Is(err, theSentinel), the same idiom the FP-tree
// package this was adapted from uses for ErrNoItem/ErrNoTree.
type wrappedError struct {
	kind *kindError
	msg  string
}

func (e *wrappedError) Error() string {
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.kind
}

func badInputf(format string, args ...any) error {
	return &wrappedError{kind: ErrBadInput, msg: fmt.Sprintf(format, args...)}
}

func oomf(format string, args ...any) error {
	return &wrappedError{kind: ErrOOM, msg: fmt.Sprintf(format, args...)}
}

func abortedf(format string, args ...any) error {
	return &wrappedError{kind: ErrAborted, msg: fmt.Sprintf(format, args...)}
}

func internalf(format string, args ...any) error {
	return &wrappedError{kind: ErrInternal, msg: fmt.Sprintf(format, args...)}
}
