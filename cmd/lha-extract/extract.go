// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"cloudeng.io/cmdutil"
	"cloudeng.io/errors"
	"github.com/containerd/continuity/fs"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/crypto/ssh/terminal"
	"lha"
)

// barWriter adapts a *progressbar.ProgressBar into an io.Writer, the same
// role cmd/pbzip2/main.go's progressBar goroutine plays by calling bar.Add
// per block — here there is no block-update channel, so each io.Copy chunk
// drives the bar directly instead.
type barWriter struct{ bar *progressbar.ProgressBar }

func (b barWriter) Write(p []byte) (int, error) {
	b.bar.Add(len(p))
	return len(p), nil
}

// safeJoin resolves member into dir, refusing to let an absolute path, a
// "..", or a symlink inside dir escape it. lha.Header.Path() returns the
// archive's own claim about where a member belongs verbatim (spec.md's
// Design Note: path safety is the caller's job, not the core package's);
// this is that job, grounded on containerd/continuity/fs.RootPath, the same
// safe-join primitive moby/moby uses to extract tar layers without letting a
// crafted layer write outside its target root.
func safeJoin(dir, member string) (string, error) {
	return fs.RootPath(dir, member)
}

// extractFile walks name's members, writing each regular-file member under
// outputDir and creating parent directories as needed. Directory members
// create an empty directory; nothing else about them is honored (spec.md's
// Non-goals exclude permission/ownership restoration).
func extractFile(ctx context.Context, name, outputDir string, showProgress, verbose bool) error {
	rd, size, err := openFileOrURL(ctx, name)
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

	// A progress bar writing to stdout would corrupt a pipeline if the
	// caller also redirected extracted content there; since extract never
	// writes members to stdout the concern doesn't apply directly, but the
	// isTTY check still decides whether the bar renders at all (a
	// non-interactive stderr, e.g. logged to a file, gets no bar), the same
	// condition cmd/pbzip2/main.go's unzip used for its own progress bar.
	var bar *progressbar.ProgressBar
	if showProgress && size > 0 && terminal.IsTerminal(int(os.Stderr.Fd())) {
		bar = progressBar(size)
	}

	errs := &errors.M{}
	err = lha.Walk(d, func(h *lha.Header, member io.Reader) error {
		target, jerr := safeJoin(outputDir, h.Path())
		if jerr != nil {
			return jerr
		}
		if h.IsDirectory() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.IsSupported() {
			errs.Append(&lha.Error{Kind: lha.KindUnsupportedMethod, Context: h.Path()})
			return nil
		}
		if mkErr := os.MkdirAll(filepath.Dir(target), 0o755); mkErr != nil {
			return mkErr
		}
		out, cerr := os.Create(target) //#nosec G304 -- target is confined to outputDir by safeJoin.
		if cerr != nil {
			return cerr
		}
		defer out.Close()
		var w io.Writer = out
		if bar != nil {
			w = io.MultiWriter(out, barWriter{bar})
		}
		_, cpErr := io.Copy(w, member)
		return cpErr
	})
	errs.Append(err)
	return errs.Err()
}

func extract(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*extractFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	errs := &errors.M{}
	for _, arg := range args {
		errs.Append(extractFile(ctx, arg, cl.OutputDir, cl.ProgressBar, cl.Verbose))
	}
	return errs.Err()
}
