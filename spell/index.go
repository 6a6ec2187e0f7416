package spell

import (
	"sort"

	"github.com/iw2rmb/spelltree/doctree"
)

// LeafWalker is the traversal surface the indexer needs. Both
// doctree.Tree and doctree.Tx satisfy it, so the index can be built from
// outside or inside a transaction.
type LeafWalker interface {
	ForEachLeaf(fn func(block int, l *doctree.Leaf) bool)
}

// Index flattens the document into ordered TextSpans with absolute rune
// offsets. Empty leaves produce no span. The "\n" between blocks counts
// one offset and belongs to no span, so a range covering it has no
// containing leaf.
func Index(doc LeafWalker) []TextSpan {
	var spans []TextSpan
	off := 0
	last := 0
	doc.ForEachLeaf(func(block int, l *doctree.Leaf) bool {
		if block > last {
			off += block - last
			last = block
		}
		n := l.Len()
		if n == 0 {
			return true
		}
		spans = append(spans, TextSpan{
			Leaf:  l,
			Block: block,
			Start: off,
			End:   off + n,
			Text:  l.Text(),
		})
		off += n
		return true
	})
	return spans
}

// spanContaining returns the index of the span that fully contains
// [start, end). A range that straddles a leaf boundary has no containing
// span; such errors are skipped rather than split across nodes.
func spanContaining(spans []TextSpan, start, end int) (int, bool) {
	if end <= start {
		return 0, false
	}
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End > start })
	if i >= len(spans) {
		return 0, false
	}
	sp := spans[i]
	if start < sp.Start || end > sp.End {
		return 0, false
	}
	return i, true
}
