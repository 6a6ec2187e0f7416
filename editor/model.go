package editor

import (
	"reflect"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/spelltree/doctree"
	"github.com/iw2rmb/spelltree/internal/grapheme"
	"github.com/iw2rmb/spelltree/spell"
)

// Model is a Bubble Tea component that edits a spell-checked document.
//
// All document mutation runs through doctree transactions on the program
// loop; checker results cross back in as messages, so the loop stays the
// single writer.
type Model struct {
	cfg  Config
	tree *doctree.Tree

	sched *spell.Scheduler
	rec   *spell.Reconciler

	cursor  doctree.Pos
	focused bool

	viewport viewport.Model
}

type resultMsg struct {
	res spell.Result
}

func New(cfg Config) Model {
	cfg.KeyMap = normalizeKeyMap(cfg.KeyMap)

	tree := doctree.New(cfg.Text, doctree.Options{DocID: cfg.DocID})
	sched := spell.NewScheduler(tree, cfg.Check)
	tree.OnChange(func(ev doctree.ChangeEvent) {
		if ev.Source == doctree.SourceEdit {
			sched.NoteEdit()
		}
	})

	m := Model{
		cfg:      cfg,
		tree:     tree,
		sched:    sched,
		rec:      &spell.Reconciler{Log: cfg.Check.Log},
		focused:  true,
		viewport: viewport.New(0, 0),
	}
	m.rebuildContent()
	return m
}

func normalizeKeyMap(km KeyMap) KeyMap {
	if reflect.DeepEqual(km, KeyMap{}) {
		return DefaultKeyMap()
	}
	return km
}

func (m Model) Tree() *doctree.Tree { return m.tree }

func (m Model) Scheduler() *spell.Scheduler { return m.sched }

func (m Model) Cursor() doctree.Pos { return m.cursor }

// Misspellings returns the number of currently flagged leaves.
func (m Model) Misspellings() int {
	n := 0
	for _, l := range m.tree.Leaves() {
		if l.Flagged() {
			n++
		}
	}
	return n
}

func (m Model) Init() tea.Cmd { return m.awaitResult() }

func (m Model) awaitResult() tea.Cmd {
	ch := m.sched.Results()
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			// Scheduler stopped; end the listener instead of re-arming.
			return nil
		}
		return resultMsg{res: res}
	}
}

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.viewport.Width = width
	m.viewport.Height = height
	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.rebuildContent()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case resultMsg:
		m.rec.Apply(m.tree, msg.res.Spans, msg.res.Version)
		m.cursor = m.tree.Clamp(m.cursor)
		m.rebuildContent()
		return m, m.awaitResult()
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg), nil
	default:
		return m, nil
	}
}

func (m Model) View() string { return m.viewport.View() }

func (m Model) handleKey(msg tea.KeyMsg) Model {
	km := m.cfg.KeyMap

	switch {
	case key.Matches(msg, km.Left):
		m.cursor = m.moveLeft(m.cursor)
	case key.Matches(msg, km.Right):
		m.cursor = m.moveRight(m.cursor)
	case key.Matches(msg, km.Up):
		m.cursor = m.tree.Clamp(doctree.Pos{Block: m.cursor.Block - 1, Col: m.cursor.Col})
	case key.Matches(msg, km.Down):
		m.cursor = m.tree.Clamp(doctree.Pos{Block: m.cursor.Block + 1, Col: m.cursor.Col})
	case key.Matches(msg, km.Home):
		m.cursor.Col = 0
	case key.Matches(msg, km.End):
		m.cursor = m.tree.Clamp(doctree.Pos{Block: m.cursor.Block, Col: int(^uint(0) >> 1)})
	case key.Matches(msg, km.Backspace):
		m.cursor = m.tree.DeleteBackward(m.cursor)
	case key.Matches(msg, km.Enter):
		m.cursor = m.tree.InsertText(m.cursor, "\n")
	case key.Matches(msg, km.Accept):
		m.acceptAtCursor()
	case key.Matches(msg, km.Ignore):
		m.ignoreAtCursor()
	case key.Matches(msg, km.Check):
		m.sched.CheckNow()
	default:
		if msg.Type == tea.KeyRunes {
			m.cursor = m.tree.InsertText(m.cursor, string(msg.Runes))
		} else if msg.Type == tea.KeySpace {
			m.cursor = m.tree.InsertText(m.cursor, " ")
		}
	}

	m.rebuildContent()
	m.followCursor()
	return m
}

func (m *Model) acceptAtCursor() {
	l, ok := m.flaggedLeafAtCursor()
	if !ok {
		return
	}
	f, _ := l.Flag()
	if len(f.Suggestions) == 0 {
		return
	}
	_ = spell.Accept(m.tree, l, f.Suggestions[0])
	m.cursor = m.tree.Clamp(m.cursor)
}

func (m *Model) ignoreAtCursor() {
	l, ok := m.flaggedLeafAtCursor()
	if !ok {
		return
	}
	_ = m.sched.IgnoreLeaf(l)
}

// flaggedLeafAtCursor returns the flagged leaf whose rune range in the
// cursor's block contains the cursor, with the range end inclusive so a
// cursor sitting just past the word still targets it.
func (m *Model) flaggedLeafAtCursor() (*doctree.Leaf, bool) {
	blocks := m.tree.Blocks()
	if m.cursor.Block < 0 || m.cursor.Block >= len(blocks) {
		return nil, false
	}
	acc := 0
	for _, l := range blocks[m.cursor.Block].Leaves() {
		n := l.Len()
		if l.Flagged() && m.cursor.Col >= acc && m.cursor.Col <= acc+n {
			return l, true
		}
		acc += n
	}
	return nil, false
}

func (m Model) moveLeft(p doctree.Pos) doctree.Pos {
	if p.Col == 0 {
		if p.Block == 0 {
			return p
		}
		return m.tree.Clamp(doctree.Pos{Block: p.Block - 1, Col: int(^uint(0) >> 1)})
	}
	starts := grapheme.Starts(m.tree.BlockText(p.Block))
	prev := 0
	for _, s := range starts {
		if s >= p.Col {
			break
		}
		prev = s
	}
	return doctree.Pos{Block: p.Block, Col: prev}
}

func (m Model) moveRight(p doctree.Pos) doctree.Pos {
	text := m.tree.BlockText(p.Block)
	starts := grapheme.Starts(text)
	for _, s := range starts {
		if s > p.Col {
			return doctree.Pos{Block: p.Block, Col: s}
		}
	}
	if p.Block+1 < m.tree.BlockCount() {
		return doctree.Pos{Block: p.Block + 1, Col: 0}
	}
	return p
}

func (m *Model) rebuildContent() {
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) followCursor() {
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}
	y := m.viewport.YOffset
	if m.cursor.Block < y {
		m.viewport.SetYOffset(m.cursor.Block)
		return
	}
	if m.cursor.Block >= y+h {
		m.viewport.SetYOffset(m.cursor.Block - h + 1)
	}
}
