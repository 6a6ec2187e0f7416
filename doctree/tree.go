package doctree

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrLeafNotInTree is returned by Tx mutations whose target leaf is not
// (or is no longer) part of the tree.
var ErrLeafNotInTree = errors.New("doctree: leaf not in tree")

type Options struct {
	// DocID identifies the document. Default: a random UUID.
	DocID string
}

// Source identifies where a transaction originated. Change hooks use it to
// tell user edits apart from reconciliation surgery, which must not trigger
// another check cycle.
type Source uint8

const (
	SourceEdit Source = iota
	SourceReconcile
)

// ChangeEvent describes an effective tree mutation, delivered to OnChange
// hooks after the owning transaction has committed.
type ChangeEvent struct {
	DocID   string
	Source  Source
	Version uint64

	// Text is the flat document text after the mutation.
	Text string
}

// Tree is the document: ordered blocks of ordered leaves.
//
// The tree exclusively owns its nodes. Mutation happens only inside an
// Update transaction; the version counter advances once per effective
// mutation and never goes backwards.
type Tree struct {
	id      string
	blocks  []*Block
	version uint64

	mu       sync.Mutex
	onChange []func(ChangeEvent)
}

// New builds a tree from text, one block per line. Each non-empty line
// becomes a block with a single plain leaf.
func New(text string, opt Options) *Tree {
	if opt.DocID == "" {
		opt.DocID = uuid.NewString()
	}
	t := &Tree{id: opt.DocID}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			t.blocks = append(t.blocks, NewBlock())
			continue
		}
		t.blocks = append(t.blocks, NewBlock(NewLeaf(line)))
	}
	if len(t.blocks) == 0 {
		t.blocks = []*Block{NewBlock()}
	}
	return t
}

func (t *Tree) DocID() string { return t.id }

// Version returns the monotonic document version.
func (t *Tree) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

// Text returns the flat document text: leaf texts concatenated in order,
// blocks joined by "\n". The separator counts one rune in flat-text
// offsets.
func (t *Tree) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.textLocked()
}

// Snapshot returns the flat text and the version it was taken at, read
// under a single lock acquisition.
func (t *Tree) Snapshot() (text string, version uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.textLocked(), t.version
}

func (t *Tree) textLocked() string {
	var sb strings.Builder
	for bi, b := range t.blocks {
		if bi > 0 {
			sb.WriteByte('\n')
		}
		for _, l := range b.leaves {
			sb.WriteString(l.text)
		}
	}
	return sb.String()
}

// Blocks returns the blocks in order. The slice is shared; callers must
// not mutate it and must not hold it across transactions.
func (t *Tree) Blocks() []*Block {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.blocks
}

// BlockCount returns the number of blocks.
func (t *Tree) BlockCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.blocks)
}

// Leaves returns all leaves in document order.
func (t *Tree) Leaves() []*Leaf {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*Leaf
	for _, b := range t.blocks {
		out = append(out, b.leaves...)
	}
	return out
}

// ForEachLeaf calls fn for each leaf in document order until fn returns
// false.
func (t *Tree) ForEachLeaf(fn func(block int, l *Leaf) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for bi, b := range t.blocks {
		for _, l := range b.leaves {
			if !fn(bi, l) {
				return
			}
		}
	}
}

// OnChange registers a hook fired after every transaction that advanced
// the version. Hooks run outside the tree lock, in registration order.
func (t *Tree) OnChange(fn func(ChangeEvent)) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = append(t.onChange, fn)
}

// Update runs fn inside an exclusive write transaction tagged SourceEdit.
// The transaction commits on every exit path: mutations already applied by
// fn stay applied even when fn returns an error, and change hooks still
// fire if the version advanced. Update returns fn's error unmodified.
func (t *Tree) Update(fn func(*Tx) error) error {
	return t.UpdateAs(SourceEdit, fn)
}

// UpdateAs is Update with an explicit transaction source.
func (t *Tree) UpdateAs(src Source, fn func(*Tx) error) error {
	t.mu.Lock()
	tx := &Tx{tree: t, versionBefore: t.version}

	defer func() {
		tx.done = true
		mutated := t.version != tx.versionBefore
		var ev ChangeEvent
		var hooks []func(ChangeEvent)
		if mutated {
			ev = ChangeEvent{DocID: t.id, Source: src, Version: t.version, Text: t.textLocked()}
			hooks = append(hooks, t.onChange...)
		}
		t.mu.Unlock()
		for _, h := range hooks {
			h(ev)
		}
	}()

	return fn(tx)
}

// Tx provides transient mutable access to the tree inside Update.
// A Tx must not escape its Update call.
type Tx struct {
	tree          *Tree
	versionBefore uint64
	done          bool
}

// Version returns the tree version as seen inside the transaction.
func (tx *Tx) Version() uint64 {
	tx.check()
	return tx.tree.version
}

// ForEachLeaf walks leaves in document order without re-acquiring the tree
// lock; callers already hold it through the transaction.
func (tx *Tx) ForEachLeaf(fn func(block int, l *Leaf) bool) {
	tx.check()
	for bi, b := range tx.tree.blocks {
		for _, l := range b.leaves {
			if !fn(bi, l) {
				return
			}
		}
	}
}

func (tx *Tx) check() {
	if tx.done {
		panic("doctree: Tx used outside its Update transaction")
	}
}

func (tx *Tx) locate(l *Leaf) (bi, li int, ok bool) {
	for bi, b := range tx.tree.blocks {
		for li, cand := range b.leaves {
			if cand == l {
				return bi, li, true
			}
		}
	}
	return 0, 0, false
}

// SetLeafText replaces the leaf's text, keeping its state.
func (tx *Tx) SetLeafText(l *Leaf, text string) error {
	tx.check()
	if _, _, ok := tx.locate(l); !ok {
		return ErrLeafNotInTree
	}
	if l.text == text {
		return nil
	}
	l.text = text
	tx.tree.version++
	return nil
}

// SetLeafFlag puts the leaf in the flagged state with payload f.
func (tx *Tx) SetLeafFlag(l *Leaf, f Flag) error {
	tx.check()
	if _, _, ok := tx.locate(l); !ok {
		return ErrLeafNotInTree
	}
	fc := cloneFlag(f)
	l.flag = &fc
	tx.tree.version++
	return nil
}

// ClearLeafFlag puts the leaf back in the plain state, keeping its text.
func (tx *Tx) ClearLeafFlag(l *Leaf) error {
	tx.check()
	if _, _, ok := tx.locate(l); !ok {
		return ErrLeafNotInTree
	}
	if l.flag == nil {
		return nil
	}
	l.flag = nil
	tx.tree.version++
	return nil
}

// ReplaceLeaf replaces old with repl in place, preserving sibling order.
// Empty replacement leaves are dropped; with no replacements the leaf is
// removed.
func (tx *Tx) ReplaceLeaf(old *Leaf, repl ...*Leaf) error {
	tx.check()
	bi, li, ok := tx.locate(old)
	if !ok {
		return ErrLeafNotInTree
	}
	kept := make([]*Leaf, 0, len(repl))
	for _, l := range repl {
		if l == nil || l.text == "" {
			continue
		}
		kept = append(kept, l)
	}
	b := tx.tree.blocks[bi]
	next := make([]*Leaf, 0, len(b.leaves)-1+len(kept))
	next = append(next, b.leaves[:li]...)
	next = append(next, kept...)
	next = append(next, b.leaves[li+1:]...)
	b.leaves = next
	tx.tree.version++
	return nil
}

// InsertLeafAfter inserts l immediately after at within at's block.
func (tx *Tx) InsertLeafAfter(at, l *Leaf) error {
	tx.check()
	bi, li, ok := tx.locate(at)
	if !ok {
		return ErrLeafNotInTree
	}
	if l == nil || l.text == "" {
		return nil
	}
	b := tx.tree.blocks[bi]
	next := make([]*Leaf, 0, len(b.leaves)+1)
	next = append(next, b.leaves[:li+1]...)
	next = append(next, l)
	next = append(next, b.leaves[li+1:]...)
	b.leaves = next
	tx.tree.version++
	return nil
}
