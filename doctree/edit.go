package doctree

import "strings"

// Editing entry points used by interactive hosts. All of them run inside
// their own Update transaction, so change hooks fire once per call.
//
// Direct edits do not touch leaf state: typing into a flagged leaf leaves
// the flag in place and relies on the next reconciliation's strip pass to
// normalize it.

// InsertText inserts s at p (clamped into bounds) and returns the position
// after the inserted text. Newlines in s split the block at the insertion
// point.
func (t *Tree) InsertText(p Pos, s string) Pos {
	if s == "" {
		return t.Clamp(p)
	}
	var out Pos
	_ = t.Update(func(tx *Tx) error {
		out = tx.insertText(tx.clamp(p), s)
		return nil
	})
	return out
}

// DeleteBackward applies backspace semantics at p (clamped) and returns
// the resulting position. At the start of a block it joins the block with
// its predecessor.
func (t *Tree) DeleteBackward(p Pos) Pos {
	var out Pos
	_ = t.Update(func(tx *Tx) error {
		out = tx.deleteBackward(tx.clamp(p))
		return nil
	})
	return out
}

// Clamp clamps p into document bounds.
func (t *Tree) Clamp(p Pos) Pos {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ClampPos(p, len(t.blocks), func(bi int) int { return t.blocks[bi].Len() })
}

// BlockText returns the concatenated text of block bi, or "" when out of
// range.
func (t *Tree) BlockText(bi int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if bi < 0 || bi >= len(t.blocks) {
		return ""
	}
	return t.blocks[bi].Text()
}

func (tx *Tx) clamp(p Pos) Pos {
	t := tx.tree
	return ClampPos(p, len(t.blocks), func(bi int) int { return t.blocks[bi].Len() })
}

func (tx *Tx) insertText(p Pos, s string) Pos {
	segments := strings.Split(s, "\n")
	for i, seg := range segments {
		if seg != "" {
			tx.insertInBlock(p.Block, p.Col, seg)
			p.Col += len([]rune(seg))
		}
		if i < len(segments)-1 {
			tx.splitBlock(p.Block, p.Col)
			p = Pos{Block: p.Block + 1, Col: 0}
		}
	}
	return p
}

// insertInBlock inserts s (no newlines) at rune col within block bi.
// The insertion lands inside an existing leaf when possible, preserving
// that leaf's identity.
func (tx *Tx) insertInBlock(bi, col int, s string) {
	b := tx.tree.blocks[bi]
	if len(b.leaves) == 0 {
		b.leaves = []*Leaf{NewLeaf(s)}
		tx.tree.version++
		return
	}

	acc := 0
	for _, l := range b.leaves {
		n := l.Len()
		if col <= acc+n {
			runes := []rune(l.text)
			at := col - acc
			l.text = string(runes[:at]) + s + string(runes[at:])
			tx.tree.version++
			return
		}
		acc += n
	}

	// Past the end: append to the last leaf.
	last := b.leaves[len(b.leaves)-1]
	last.text += s
	tx.tree.version++
}

// splitBlock splits block bi at rune col into two adjacent blocks.
// A leaf cut by the split point is divided into two plain leaves; its
// annotation state, if any, does not survive the split. Leaves entirely on
// one side keep their identity.
func (tx *Tx) splitBlock(bi, col int) {
	t := tx.tree
	b := t.blocks[bi]

	var left, right []*Leaf
	acc := 0
	for _, l := range b.leaves {
		n := l.Len()
		switch {
		case acc+n <= col:
			left = append(left, l)
		case acc >= col:
			right = append(right, l)
		default:
			runes := []rune(l.text)
			at := col - acc
			if at > 0 {
				left = append(left, NewLeaf(string(runes[:at])))
			}
			if at < len(runes) {
				right = append(right, NewLeaf(string(runes[at:])))
			}
		}
		acc += n
	}

	b.leaves = left
	next := &Block{leaves: right}
	blocks := make([]*Block, 0, len(t.blocks)+1)
	blocks = append(blocks, t.blocks[:bi+1]...)
	blocks = append(blocks, next)
	blocks = append(blocks, t.blocks[bi+1:]...)
	t.blocks = blocks
	t.version++
}

func (tx *Tx) deleteBackward(p Pos) Pos {
	t := tx.tree
	if p.Col == 0 {
		if p.Block == 0 {
			return p
		}
		return tx.joinBlocks(p.Block)
	}

	b := t.blocks[p.Block]
	acc := 0
	for _, l := range b.leaves {
		n := l.Len()
		if p.Col <= acc+n && p.Col > acc {
			runes := []rune(l.text)
			at := p.Col - acc
			l.text = string(runes[:at-1]) + string(runes[at:])
			if l.text == "" {
				tx.removeLeaf(p.Block, l)
			}
			t.version++
			return Pos{Block: p.Block, Col: p.Col - 1}
		}
		acc += n
	}
	return p
}

// joinBlocks merges block bi into block bi-1 and returns the join position.
// Leaves keep their identity across the join.
func (tx *Tx) joinBlocks(bi int) Pos {
	t := tx.tree
	prev := t.blocks[bi-1]
	joinCol := prev.Len()
	prev.leaves = append(prev.leaves, t.blocks[bi].leaves...)
	t.blocks = append(t.blocks[:bi], t.blocks[bi+1:]...)
	t.version++
	return Pos{Block: bi - 1, Col: joinCol}
}

func (tx *Tx) removeLeaf(bi int, l *Leaf) {
	b := tx.tree.blocks[bi]
	for i, cand := range b.leaves {
		if cand == l {
			b.leaves = append(b.leaves[:i], b.leaves[i+1:]...)
			return
		}
	}
}
