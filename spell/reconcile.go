package spell

import (
	"log/slog"
	"sort"

	"github.com/iw2rmb/spelltree/doctree"
)

// Reconciler converts a validated batch of error spans into tree mutations:
// strip every existing flag, reindex, then re-apply flags by minimal leaf
// splitting. Applying the same batch twice yields a structurally identical
// tree, and leaves outside the touched ranges keep their node identity.
type Reconciler struct {
	// Log receives debug-level notes about discarded results. Nil disables.
	Log *slog.Logger
}

// Apply reconciles errs against tree, provided the document still matches
// the snapshot the errors were computed for. issuedVersion is the version
// stamped when the check was issued; if the tree has mutated since, the
// whole result is discarded and Apply reports false.
//
// The strip and apply passes run inside a single reconcile transaction, so
// editors observe one change notification and never see a half-stripped
// document.
func (r *Reconciler) Apply(tree *doctree.Tree, errs []ErrorSpan, issuedVersion uint64) bool {
	applied := false
	_ = tree.UpdateAs(doctree.SourceReconcile, func(tx *doctree.Tx) error {
		if tx.Version() != issuedVersion {
			if r.Log != nil {
				r.Log.Debug("discarding stale spell-check result",
					"issued", issuedVersion, "current", tx.Version())
			}
			return nil
		}
		applied = true
		r.strip(tx)
		r.apply(tx, errs)
		return nil
	})
	return applied
}

// strip returns every flagged leaf to the plain state, keeping its text.
// Adjacent plain leaves left behind by earlier splits stay unmerged.
func (r *Reconciler) strip(tx *doctree.Tx) {
	var flagged []*doctree.Leaf
	tx.ForEachLeaf(func(_ int, l *doctree.Leaf) bool {
		if l.Flagged() {
			flagged = append(flagged, l)
		}
		return true
	})
	for _, l := range flagged {
		_ = tx.ClearLeafFlag(l)
	}
}

func (r *Reconciler) apply(tx *doctree.Tx, errs []ErrorSpan) {
	spans := Index(tx)

	sorted := cloneErrorSpans(errs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	lastEnd := -1
	for _, es := range sorted {
		if es.Length <= 0 {
			continue
		}
		// First-applied-wins: a span starting inside the previously
		// applied one is dropped.
		if es.Offset < lastEnd {
			continue
		}
		i, ok := spanContaining(spans, es.Offset, es.Offset+es.Length)
		if !ok {
			continue
		}
		if !wordAt(spans[i], es) {
			if r.Log != nil {
				r.Log.Debug("dropping error span, text mismatch",
					"offset", es.Offset, "word", es.Word)
			}
			continue
		}
		spans = r.splitAt(tx, spans, i, es)
		lastEnd = es.Offset + es.Length
	}
}

// wordAt reports whether the document runes behind the error range still
// spell es.Word. Cached results carry the offsets of the text they were
// computed for; against a document that differs only outside the cache
// key's normalization, those offsets can land on other runes and must be
// dropped rather than flagged.
func wordAt(sp TextSpan, es ErrorSpan) bool {
	runes := []rune(sp.Text)
	lo := es.Offset - sp.Start
	return string(runes[lo:lo+es.Length]) == es.Word
}

// splitAt replaces the leaf behind spans[i] with up to three leaves:
// before, the flagged error text, and after. It returns the span table
// rewritten to describe the replacement leaves, so later errors resolve
// against current nodes.
func (r *Reconciler) splitAt(tx *doctree.Tx, spans []TextSpan, i int, es ErrorSpan) []TextSpan {
	sp := spans[i]
	runes := []rune(sp.Text)
	lo := es.Offset - sp.Start
	hi := lo + es.Length

	beforeText := string(runes[:lo])
	errText := string(runes[lo:hi])
	afterText := string(runes[hi:])

	errLeaf := doctree.NewFlaggedLeaf(errText, doctree.Flag{
		Suggestions: capSuggestions(es.Suggestions),
		Message:     es.Message,
	})

	var repl []*doctree.Leaf
	var sub []TextSpan
	if beforeText != "" {
		l := doctree.NewLeaf(beforeText)
		repl = append(repl, l)
		sub = append(sub, TextSpan{Leaf: l, Block: sp.Block, Start: sp.Start, End: es.Offset, Text: beforeText})
	}
	repl = append(repl, errLeaf)
	sub = append(sub, TextSpan{Leaf: errLeaf, Block: sp.Block, Start: es.Offset, End: es.Offset + es.Length, Text: errText})
	if afterText != "" {
		l := doctree.NewLeaf(afterText)
		repl = append(repl, l)
		sub = append(sub, TextSpan{Leaf: l, Block: sp.Block, Start: es.Offset + es.Length, End: sp.End, Text: afterText})
	}

	if err := tx.ReplaceLeaf(sp.Leaf, repl...); err != nil {
		// The leaf came from the index we just built; it cannot have left
		// the tree. Keep the old table if it somehow did.
		if r.Log != nil {
			r.Log.Debug("skipping error span, leaf vanished", "offset", es.Offset)
		}
		return spans
	}

	out := make([]TextSpan, 0, len(spans)-1+len(sub))
	out = append(out, spans[:i]...)
	out = append(out, sub...)
	out = append(out, spans[i+1:]...)
	return out
}
