// Copyright 2024 The lha Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzhdecode

import "testing"

func TestNewLh1TreeStartsBalanced(t *testing.T) {
	tr := newLh1Tree()
	if len(tr.nodes) != lh1NodeCount {
		t.Fatalf("newLh1Tree() produced %d nodes, want %d", len(tr.nodes), lh1NodeCount)
	}
	for s := 0; s < lh1Symbols; s++ {
		idx := tr.leafIndex[s]
		if !tr.nodes[idx].leaf || int(tr.nodes[idx].symbol) != s {
			t.Fatalf("leafIndex[%d] = %d does not point at a leaf for symbol %d", s, idx, s)
		}
	}
	// Every leaf starts at weight 1, so the root's weight must be
	// lh1Symbols (every leaf merged exactly once into the total).
	if w := tr.nodes[tr.root].weight; w != lh1Symbols {
		t.Fatalf("root weight = %d, want %d", w, lh1Symbols)
	}
}

func TestLh1TreeUpdatePreservesInvariant(t *testing.T) {
	tr := newLh1Tree()
	// Repeatedly favor symbol 0; its leaf weight should strictly increase
	// and the tree must remain internally consistent (every node's parent
	// agrees it's a child, every leaf's leafIndex points at itself).
	for i := 0; i < 50; i++ {
		tr.update(0)
	}
	idx := tr.leafIndex[0]
	if tr.nodes[idx].symbol != 0 || !tr.nodes[idx].leaf {
		t.Fatalf("leafIndex[0] = %d no longer names symbol 0's leaf", idx)
	}
	if got := tr.nodes[idx].weight; got < 51 {
		t.Fatalf("symbol 0's weight = %d after 50 updates, want >= 51", got)
	}
	checkTreeConsistency(t, tr)
}

func checkTreeConsistency(t *testing.T, tr *lh1Tree) {
	t.Helper()
	for i, n := range tr.nodes {
		if n.leaf {
			if tr.leafIndex[n.symbol] != i {
				t.Fatalf("node %d is leaf for symbol %d, but leafIndex[%d] = %d", i, n.symbol, n.symbol, tr.leafIndex[n.symbol])
			}
			continue
		}
		if tr.nodes[n.left].parent != i {
			t.Fatalf("node %d's left child %d has parent %d, want %d", i, n.left, tr.nodes[n.left].parent, i)
		}
		if tr.nodes[n.right].parent != i {
			t.Fatalf("node %d's right child %d has parent %d, want %d", i, n.right, tr.nodes[n.right].parent, i)
		}
	}
}

func TestLh1PositionLengthsKraftExact(t *testing.T) {
	lens := lh1PositionLengths()
	if len(lens) != lh1PosSymbols {
		t.Fatalf("lh1PositionLengths() has %d entries, want %d", len(lens), lh1PosSymbols)
	}
	if _, err := NewDynHuffman(lens); err != nil {
		t.Fatalf("lh1PositionLengths() does not build a valid tree: %v", err)
	}
}
