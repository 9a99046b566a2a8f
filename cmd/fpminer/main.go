// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Command fpminer mines closed (or all) frequent itemsets from a JSON
// transaction database on the command line.
package main

import (
	"context"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/openminer/fpgrowth/lib/fpgrowth"
	"github.com/openminer/fpgrowth/lib/profile"
	"github.com/openminer/fpgrowth/lib/textui"
)

func main() {
	verbosity := textui.LogLevelFlag{Level: dlog.LogLevelInfo}

	var minSupport uint
	var mode string
	var minLen, maxLen, workers int
	var dumpItems bool

	argparser := &cobra.Command{
		Use:   "fpminer [flags] INPUT [OUTPUT]",
		Short: "Mine closed frequent itemsets from a transaction database",
		Long: "" +
			"fpminer reads a JSON array of transactions -- each transaction " +
			"an array of item names -- from INPUT, and writes every itemset " +
			"matching --mode and the length/support bounds, as a JSON array " +
			"of {\"items\":[...],\"support\":N} objects, to OUTPUT (or stdout " +
			"if OUTPUT is omitted).",

		Args: cliutil.WrapPositionalArgs(cobra.RangeArgs(1, 2)),

		SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
		SilenceUsage:  true, // our FlagErrorFunc will handle it

		CompletionOptions: cobra.CompletionOptions{ //nolint:exhaustivestruct
			DisableDefaultCmd: true,
		},
	}
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)

	argparser.Flags().Var(&verbosity, "verbosity", "set the verbosity")
	argparser.Flags().UintVar(&minSupport, "min-support", 1, "minimum number of transactions an itemset must appear in")
	argparser.Flags().StringVar(&mode, "mode", "closed", "one of: closed, all, all-with-perfect-ext")
	argparser.Flags().IntVar(&minLen, "min-len", 0, "minimum itemset length to report; 0 means 1")
	argparser.Flags().IntVar(&maxLen, "max-len", 0, "maximum itemset length to report; 0 means unbounded")
	argparser.Flags().IntVar(&workers, "workers", 0, "number of mining goroutines; 0 means GOMAXPROCS")
	argparser.Flags().BoolVar(&dumpItems, "dump-item-table", false, "log the interned item dictionary at debug level")
	stopProfiling := profile.AddProfileFlags(argparser.Flags(), "profile-")

	argparser.RunE = func(cmd *cobra.Command, args []string) (err error) {
		maybeSetErr := func(_err error) {
			if _err != nil && err == nil {
				err = _err
			}
		}
		defer func() { maybeSetErr(stopProfiling()) }()

		fpMode, modeErr := parseMode(mode)
		if modeErr != nil {
			return modeErr
		}

		ctx := cmd.Context()
		logger := textui.NewLogger(os.Stderr, verbosity.Level)
		ctx = dlog.WithLogger(ctx, logger)

		grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{
			EnableSignalHandling: true,
		})
		grp.Go("main", func(ctx context.Context) error {
			dict := newItemDict()

			transactions, err := readTransactions(args[0], dict)
			if err != nil {
				return err
			}
			dlog.Infof(ctx, "loaded %d transactions over %d distinct items", len(transactions), dict.len())
			if dumpItems {
				dlog.Debugf(ctx, "item table:\n%s", spew.Sdump(dict.names))
			}

			itemsets, err := fpgrowth.Mine(ctx, transactions, fpgrowth.Config{
				MinSupport:    fpgrowth.Support(minSupport),
				Mode:          fpMode,
				MinPatternLen: minLen,
				MaxPatternLen: maxLen,
				Workers:       workers,
			})
			if err != nil {
				return err
			}
			dlog.Infof(ctx, "found %d itemsets", len(itemsets))

			out := os.Stdout
			if len(args) > 1 {
				fh, createErr := os.Create(args[1])
				if createErr != nil {
					return createErr
				}
				defer func() { maybeSetErr(fh.Close()) }()
				out = fh
			}
			return writeResults(out, dict, itemsets)
		})
		return grp.Wait()
	}

	if err := argparser.ExecuteContext(context.Background()); err != nil {
		textui.Fprintf(os.Stderr, "%v: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
