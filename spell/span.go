package spell

import "github.com/iw2rmb/spelltree/doctree"

// MaxSuggestions caps the suggestion list carried by any error span.
const MaxSuggestions = 5

// TextSpan maps one leaf onto its half-open rune range [Start, End) in the
// flat document text. Spans produced by Index are ordered and
// non-overlapping, and together cover the flat text exactly, minus the
// one-rune "\n" separator between blocks.
type TextSpan struct {
	Leaf  *doctree.Leaf
	Block int
	Start int
	End   int
	Text  string
}

// ErrorSpan is one checker finding, relative to a specific flat-text
// snapshot: the half-open rune range [Offset, Offset+Length), the
// misspelled word, up to MaxSuggestions ordered replacements, and the
// checker's message.
type ErrorSpan struct {
	Offset      int
	Length      int
	Word        string
	Suggestions []string
	Message     string
}

func cloneErrorSpans(in []ErrorSpan) []ErrorSpan {
	if len(in) == 0 {
		return nil
	}
	out := make([]ErrorSpan, len(in))
	copy(out, in)
	for i := range out {
		out[i].Suggestions = append([]string(nil), in[i].Suggestions...)
	}
	return out
}

func capSuggestions(s []string) []string {
	if len(s) > MaxSuggestions {
		s = s[:MaxSuggestions]
	}
	return s
}

// Accept replaces the flagged leaf's text with suggestion and returns it
// to the plain state. The edit counts as a regular mutation, so the next
// check cycle sees the corrected text.
func Accept(tree *doctree.Tree, l *doctree.Leaf, suggestion string) error {
	return tree.Update(func(tx *doctree.Tx) error {
		if err := tx.SetLeafText(l, suggestion); err != nil {
			return err
		}
		return tx.ClearLeafFlag(l)
	})
}

// Ignore keeps the flagged leaf's text and returns it to the plain state.
func Ignore(tree *doctree.Tree, l *doctree.Leaf) error {
	return tree.Update(func(tx *doctree.Tx) error {
		return tx.ClearLeafFlag(l)
	})
}
