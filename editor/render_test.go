package editor

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/iw2rmb/spelltree/doctree"
	"github.com/iw2rmb/spelltree/spell"
)

func pinnedStyle(t *testing.T) (Style, *lipgloss.Renderer) {
	t.Helper()
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	r.SetHasDarkBackground(true)
	return Style{
		Text:       r.NewStyle(),
		Misspelled: r.NewStyle().Foreground(lipgloss.Color("203")).Underline(true),
		Cursor:     r.NewStyle().Reverse(true),
	}, r
}

func newRenderModel(t *testing.T, text string) Model {
	t.Helper()
	st, _ := pinnedStyle(t)
	return New(Config{
		Text:  text,
		Style: st,
		Check: spell.Config{Cache: spell.NewCache(), Debounce: time.Hour},
	})
}

func TestRender_FlaggedLeafUsesMisspelledStyle(t *testing.T) {
	m := newRenderModel(t, "one wrod two")
	res := spell.Result{
		Spans:   []spell.ErrorSpan{{Offset: 4, Length: 4, Word: "wrod", Suggestions: []string{"word"}}},
		Version: m.Tree().Version(),
	}
	m, _ = m.Update(resultMsg{res: res})
	m = m.Blur()

	st := m.cfg.Style
	got := m.renderContent()
	want := st.Text.Render("one ") + st.Misspelled.Render("wrod") + st.Text.Render(" two")
	if got != want {
		t.Fatalf("render:\n got: %q\nwant: %q", got, want)
	}
}

func TestRender_CursorCellReversed(t *testing.T) {
	m := newRenderModel(t, "abc")
	m.cursor = doctree.Pos{Block: 0, Col: 1}

	st := m.cfg.Style
	got := m.renderContent()
	want := st.Text.Render("a") + st.Cursor.Render("b") + st.Text.Render("c")
	if got != want {
		t.Fatalf("render:\n got: %q\nwant: %q", got, want)
	}
}

func TestRender_CursorPastLineEnd(t *testing.T) {
	m := newRenderModel(t, "ab")
	m.cursor = doctree.Pos{Block: 0, Col: 2}

	st := m.cfg.Style
	got := m.renderContent()
	want := st.Text.Render("ab") + st.Cursor.Render(" ")
	if got != want {
		t.Fatalf("render:\n got: %q\nwant: %q", got, want)
	}
}

func TestRender_CursorCoversWholeCluster(t *testing.T) {
	m := newRenderModel(t, "aéb")
	m.cursor = doctree.Pos{Block: 0, Col: 1}

	st := m.cfg.Style
	got := m.renderContent()
	want := st.Text.Render("a") + st.Cursor.Render("é") + st.Text.Render("b")
	if got != want {
		t.Fatalf("render:\n got: %q\nwant: %q", got, want)
	}
}

func TestRender_OneLinePerBlock(t *testing.T) {
	m := newRenderModel(t, "alpha\nbeta\n")
	m = m.Blur()
	got := m.renderContent()
	if n := strings.Count(got, "\n"); n != 2 {
		t.Fatalf("line separators: got %d, want 2 (three blocks)", n)
	}
}
