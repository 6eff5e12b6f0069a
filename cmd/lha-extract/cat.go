// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"os"

	"cloudeng.io/cmdutil"
	"cloudeng.io/errors"
	"lha"
)

// catFile streams every non-directory member's decompressed content to
// stdout, in archive order, skipping members with no compiled-in decoder
// rather than failing the whole archive. Adapted from cmd/pbzip2/main.go's
// cat, simplified to lha.Walk's single-pass idiom since an LHA archive
// needs no scanner/decompressor split the way a raw bzip2 stream does.
func catFile(ctx context.Context, name string, verbose bool) error {
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

	return lha.Walk(d, func(h *lha.Header, member io.Reader) error {
		if h.IsDirectory() || !d.IsSupported() {
			return nil
		}
		_, err := io.Copy(os.Stdout, member)
		return err
	})
}

func cat(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*catFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	errs := &errors.M{}
	for _, arg := range args {
		errs.Append(catFile(ctx, arg, cl.Verbose))
	}
	return errs.Err()
}
