// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"git.lukeshu.com/go/lowmemjson"

	"github.com/openminer/fpgrowth/lib/fpgrowth"
)

// itemDict interns the item names read from the input file as
// fpgrowth.Items, in order of first appearance. fpgrowth itself never
// sees a string -- that translation is entirely this command's
// concern, not the library's.
type itemDict struct {
	ids   map[string]fpgrowth.Item
	names []string
}

func newItemDict() *itemDict {
	return &itemDict{ids: make(map[string]fpgrowth.Item)}
}

func (d *itemDict) intern(name string) fpgrowth.Item {
	if id, ok := d.ids[name]; ok {
		return id
	}
	id := fpgrowth.Item(len(d.names))
	d.ids[name] = id
	d.names = append(d.names, name)
	return id
}

func (d *itemDict) name(id fpgrowth.Item) string {
	if int(id) < len(d.names) {
		return d.names[id]
	}
	return fmt.Sprintf("<unknown item %d>", id)
}

func (d *itemDict) len() int { return len(d.names) }

func parseMode(s string) (fpgrowth.Mode, error) {
	switch s {
	case "closed":
		return fpgrowth.ModeClosed, nil
	case "all":
		return fpgrowth.ModeAll, nil
	case "all-with-perfect-ext":
		return fpgrowth.ModeAllWithPerfectExt, nil
	default:
		return 0, fmt.Errorf("unknown --mode %q: must be one of closed, all, all-with-perfect-ext", s)
	}
}

// readTransactions decodes filename as a JSON array of transactions,
// each a JSON array of item names, interning every name seen into
// dict.
func readTransactions(filename string, dict *itemDict) ([][]fpgrowth.Item, error) {
	fh, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var raw [][]string
	if err := lowmemjson.DecodeThenEOF(bufio.NewReader(fh), &raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}

	out := make([][]fpgrowth.Item, len(raw))
	for i, txn := range raw {
		items := make([]fpgrowth.Item, len(txn))
		for j, name := range txn {
			items[j] = dict.intern(name)
		}
		out[i] = items
	}
	return out, nil
}

// resultRow is the on-disk shape of one mined itemset. Items is in
// whatever order fpgrowth.Mine emitted it in -- descending-support
// order, not alphabetical.
type resultRow struct {
	Items   []string `json:"items"`
	Support uint32   `json:"support"`
}

func writeResults(w io.Writer, dict *itemDict, itemsets []fpgrowth.Itemset) error {
	buffer := bufio.NewWriter(w)
	rows := make([]resultRow, len(itemsets))
	for i, is := range itemsets {
		names := make([]string, len(is.Items))
		for j, it := range is.Items {
			names[j] = dict.name(it)
		}
		rows[i] = resultRow{Items: names, Support: uint32(is.Support)}
	}
	if err := lowmemjson.Encode(&lowmemjson.ReEncoder{
		Out:                   buffer,
		Indent:                "\t",
		ForceTrailingNewlines: true,
	}, rows); err != nil {
		return err
	}
	return buffer.Flush()
}
