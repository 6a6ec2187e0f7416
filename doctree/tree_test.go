package doctree

import (
	"errors"
	"testing"
)

func TestNew_OneBlockPerLine(t *testing.T) {
	tr := New("alpha\n\nbeta", Options{})
	if got := tr.BlockCount(); got != 3 {
		t.Fatalf("block count: got %d, want 3", got)
	}
	if got := tr.Text(); got != "alpha\n\nbeta" {
		t.Fatalf("flat text: got %q, want %q", got, "alpha\n\nbeta")
	}
	if tr.Version() != 0 {
		t.Fatalf("fresh tree version: got %d, want 0", tr.Version())
	}
	if tr.DocID() == "" {
		t.Fatalf("expected generated doc id")
	}
}

func TestUpdate_VersionAdvancesPerEffectiveMutation(t *testing.T) {
	tr := New("hello", Options{DocID: "doc-1"})
	leaf := tr.Leaves()[0]

	err := tr.Update(func(tx *Tx) error {
		if err := tx.SetLeafText(leaf, "hello"); err != nil { // no-op
			return err
		}
		return tx.SetLeafText(leaf, "world")
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if tr.Version() != 1 {
		t.Fatalf("version: got %d, want 1", tr.Version())
	}
	if tr.Text() != "world" {
		t.Fatalf("text: got %q, want %q", tr.Text(), "world")
	}
}

func TestUpdate_CommitsOnErrorExit(t *testing.T) {
	tr := New("hello", Options{})
	leaf := tr.Leaves()[0]
	boom := errors.New("boom")

	var events []ChangeEvent
	tr.OnChange(func(ev ChangeEvent) { events = append(events, ev) })

	err := tr.Update(func(tx *Tx) error {
		if err := tx.SetLeafText(leaf, "changed"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if tr.Text() != "changed" {
		t.Fatalf("mutation must survive error exit: got %q", tr.Text())
	}
	if len(events) != 1 || events[0].Text != "changed" || events[0].Version != 1 {
		t.Fatalf("expected one change event for the committed mutation, got %+v", events)
	}
}

func TestOnChange_NotFiredForReadOnlyTransactions(t *testing.T) {
	tr := New("hello", Options{})
	fired := 0
	tr.OnChange(func(ChangeEvent) { fired++ })

	err := tr.Update(func(tx *Tx) error { return nil })
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if fired != 0 {
		t.Fatalf("change hook fired %d times for a read-only transaction", fired)
	}
}

func TestReplaceLeaf_PreservesSiblingOrderAndIdentity(t *testing.T) {
	tr := New("", Options{})
	a, b, c := NewLeaf("aa"), NewLeaf("bb"), NewLeaf("cc")
	err := tr.Update(func(tx *Tx) error {
		tx.tree.blocks[0].leaves = []*Leaf{a, b, c}
		tx.tree.version++
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	x, y := NewLeaf("x"), NewLeaf("y")
	err = tr.Update(func(tx *Tx) error {
		return tx.ReplaceLeaf(b, x, NewLeaf(""), y)
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	leaves := tr.Leaves()
	if len(leaves) != 4 {
		t.Fatalf("leaf count: got %d, want 4", len(leaves))
	}
	if leaves[0] != a || leaves[3] != c {
		t.Fatalf("untouched leaves must keep identity")
	}
	if leaves[1] != x || leaves[2] != y {
		t.Fatalf("replacement order wrong: %q %q", leaves[1].Text(), leaves[2].Text())
	}
	if tr.Text() != "aaxycc" {
		t.Fatalf("text: got %q, want %q", tr.Text(), "aaxycc")
	}
}

func TestReplaceLeaf_UnknownLeaf(t *testing.T) {
	tr := New("hello", Options{})
	err := tr.Update(func(tx *Tx) error {
		return tx.ReplaceLeaf(NewLeaf("stranger"), NewLeaf("x"))
	})
	if !errors.Is(err, ErrLeafNotInTree) {
		t.Fatalf("expected ErrLeafNotInTree, got %v", err)
	}
}

func TestInsertLeafAfter(t *testing.T) {
	tr := New("head", Options{})
	head := tr.Leaves()[0]
	err := tr.Update(func(tx *Tx) error {
		return tx.InsertLeafAfter(head, NewLeaf("tail"))
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if tr.Text() != "headtail" {
		t.Fatalf("text: got %q, want %q", tr.Text(), "headtail")
	}
}

func TestLeafFlagTransitions(t *testing.T) {
	tr := New("wrod", Options{})
	leaf := tr.Leaves()[0]

	err := tr.Update(func(tx *Tx) error {
		return tx.SetLeafFlag(leaf, Flag{Suggestions: []string{"word"}, Message: "typo"})
	})
	if err != nil {
		t.Fatalf("flag: %v", err)
	}
	f, ok := leaf.Flag()
	if !ok || len(f.Suggestions) != 1 || f.Suggestions[0] != "word" {
		t.Fatalf("flag payload: got %+v, ok=%v", f, ok)
	}

	err = tr.Update(func(tx *Tx) error { return tx.ClearLeafFlag(leaf) })
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if leaf.Flagged() {
		t.Fatalf("leaf still flagged after clear")
	}
	if leaf.Text() != "wrod" {
		t.Fatalf("clear must keep text: got %q", leaf.Text())
	}

	// Clearing a plain leaf is a no-op and must not bump the version.
	before := tr.Version()
	err = tr.Update(func(tx *Tx) error { return tx.ClearLeafFlag(leaf) })
	if err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if tr.Version() != before {
		t.Fatalf("version bumped by no-op clear: %d -> %d", before, tr.Version())
	}
}

func TestTxEscape_Panics(t *testing.T) {
	tr := New("hello", Options{})
	var escaped *Tx
	_ = tr.Update(func(tx *Tx) error {
		escaped = tx
		return nil
	})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on escaped Tx use")
		}
	}()
	_ = escaped.SetLeafText(tr.Leaves()[0], "nope")
}
