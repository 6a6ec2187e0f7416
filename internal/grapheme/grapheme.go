package grapheme

import "github.com/rivo/uniseg"

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len([]rune(text)))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	g := uniseg.NewGraphemes(text)
	n := 0
	for g.Next() {
		n++
	}
	return n
}

// Starts returns the rune offset of each cluster start, plus a final entry
// holding the total rune length. Cursor movement snaps to these offsets so
// a cursor never lands inside a cluster.
func Starts(text string) []int {
	starts := []int{0}
	if text == "" {
		return starts
	}
	g := uniseg.NewGraphemes(text)
	off := 0
	for g.Next() {
		off += len(g.Runes())
		starts = append(starts, off)
	}
	return starts
}
