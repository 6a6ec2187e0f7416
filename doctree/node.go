package doctree

import "strings"

// Flag is the annotation payload of a flagged leaf: the checker's suggested
// replacements (already capped by the checker layer) and its human-readable
// message.
type Flag struct {
	Suggestions []string
	Message     string
}

func cloneFlag(f Flag) Flag {
	f.Suggestions = append([]string(nil), f.Suggestions...)
	return f
}

// Leaf is the smallest text-bearing unit of the tree.
//
// A leaf is either plain or flagged; flagged leaves carry a Flag. There is
// no leaf subtype for annotations, only tagged state.
type Leaf struct {
	text string
	flag *Flag // nil when plain
}

// NewLeaf returns a plain leaf holding text.
func NewLeaf(text string) *Leaf {
	return &Leaf{text: text}
}

// NewFlaggedLeaf returns a leaf holding text in the flagged state.
func NewFlaggedLeaf(text string, f Flag) *Leaf {
	fc := cloneFlag(f)
	return &Leaf{text: text, flag: &fc}
}

func (l *Leaf) Text() string { return l.text }

// Flagged reports whether the leaf carries a spell-check annotation.
func (l *Leaf) Flagged() bool { return l.flag != nil }

// Flag returns the annotation payload, if any.
func (l *Leaf) Flag() (Flag, bool) {
	if l.flag == nil {
		return Flag{}, false
	}
	return cloneFlag(*l.flag), true
}

// Len returns the leaf text length in runes.
func (l *Leaf) Len() int { return len([]rune(l.text)) }

// Block is an ordered sequence of leaves (a paragraph).
type Block struct {
	leaves []*Leaf
}

// NewBlock returns a block holding the given leaves. Empty leaves are
// dropped; a block may be leafless (an empty paragraph).
func NewBlock(leaves ...*Leaf) *Block {
	b := &Block{}
	for _, l := range leaves {
		if l == nil || l.text == "" {
			continue
		}
		b.leaves = append(b.leaves, l)
	}
	return b
}

// Leaves returns the block's leaves in order. The slice is shared; callers
// must not mutate it.
func (b *Block) Leaves() []*Leaf { return b.leaves }

// Text returns the block's concatenated leaf text.
func (b *Block) Text() string {
	var sb strings.Builder
	for _, l := range b.leaves {
		sb.WriteString(l.text)
	}
	return sb.String()
}

// Len returns the block text length in runes.
func (b *Block) Len() int {
	n := 0
	for _, l := range b.leaves {
		n += l.Len()
	}
	return n
}
