package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/spelltree/doctree"
	"github.com/iw2rmb/spelltree/internal/grapheme"
)

func (m *Model) renderContent() string {
	blocks := m.tree.Blocks()
	lines := make([]string, 0, len(blocks))
	for bi, b := range blocks {
		lines = append(lines, m.renderBlock(bi, b))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBlock(bi int, b *doctree.Block) string {
	withCursor := m.focused && m.cursor.Block == bi

	var sb strings.Builder
	off := 0
	for _, l := range b.Leaves() {
		st := m.leafStyle(l)
		n := l.Len()
		if withCursor && m.cursor.Col >= off && m.cursor.Col < off+n {
			m.renderLeafWithCursor(&sb, l, st, m.cursor.Col-off)
		} else {
			sb.WriteString(st.Render(l.Text()))
		}
		off += n
	}
	if withCursor && m.cursor.Col >= off {
		sb.WriteString(m.cfg.Style.Cursor.Render(" "))
	}
	return sb.String()
}

func (m *Model) leafStyle(l *doctree.Leaf) lipgloss.Style {
	if l.Flagged() {
		return m.cfg.Style.Misspelled
	}
	return m.cfg.Style.Text
}

// renderLeafWithCursor renders one leaf with the cursor on the grapheme
// cluster covering rune offset at. A cursor that landed mid-cluster is
// drawn over the whole cluster.
func (m *Model) renderLeafWithCursor(sb *strings.Builder, l *doctree.Leaf, st lipgloss.Style, at int) {
	var before, after strings.Builder
	cursor := ""
	off := 0
	for _, c := range grapheme.Split(l.Text()) {
		n := len([]rune(c))
		switch {
		case off+n <= at:
			before.WriteString(c)
		case cursor == "":
			cursor = c
		default:
			after.WriteString(c)
		}
		off += n
	}

	if before.Len() > 0 {
		sb.WriteString(st.Render(before.String()))
	}
	sb.WriteString(m.cfg.Style.Cursor.Render(cursor))
	if after.Len() > 0 {
		sb.WriteString(st.Render(after.String()))
	}
}
