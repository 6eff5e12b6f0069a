// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloudeng.io/cmdutil"
	"cloudeng.io/errors"
	"lha"
)

// listFile dumps one line per archive member: method, sizes, CRC and path.
// Adapted from cmd/pbzip2/inspect.go's bz2StatsFile, which does the same
// "decode everything, then print one summary line per structural unit" walk
// for bzip2 blocks; here the structural unit is an LHA member and the
// numbers come straight off its Header rather than from a stats accumulator,
// since Header already carries everything a listing needs.
func listFile(ctx context.Context, name string, verbose bool) error {
	rd, _, err := openFileOrURL(ctx, name)
	if err != nil {
		return err
	}
	defer rd.Close()

	ctx, cancel := context.WithCancel(ctx)
	cmdutil.HandleSignals(func() { rd.Close(); cancel() }, os.Interrupt)

	var opts []lha.DecoderOption
	if verbose {
		opts = append(opts, lha.Verbose(true))
	}
	d := lha.Open(rd, opts...)

	fmt.Printf("=== %v ===\n", name)
	fmt.Printf("%-8s %12s %12s %6s %s\n", "method", "compressed", "original", "crc16", "path")
	return lha.Walk(d, func(h *lha.Header, member io.Reader) error {
		fmt.Printf("%-8s %12d %12d %04x   %s\n",
			h.Method(), h.CompressedSize(), h.OriginalSize(), h.CRC16(), h.Path())
		return nil
	})
}

func list(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*listFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	errs := &errors.M{}
	for _, arg := range args {
		errs.Append(listFile(ctx, arg, cl.Verbose))
	}
	return errs.Err()
}
