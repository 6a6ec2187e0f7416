package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/spelltree/editor"
	"github.com/iw2rmb/spelltree/internal/grapheme"
	"github.com/iw2rmb/spelltree/spell"
)

var CLI struct {
	Endpoint string        `help:"LanguageTool-protocol check endpoint." default:"https://api.languagetool.org/v2/check"`
	Language string        `help:"Language code sent with each check." default:"en-US"`
	Debounce time.Duration `help:"Quiet window after the last edit before checking." default:"500ms"`
	File     string        `help:"Load initial text from a file." type:"existingfile" optional:""`
	LogFile  string        `help:"Append scheduler/provider logs to a file." optional:""`
}

type model struct {
	editor editor.Model
}

func newModel(text string, log *slog.Logger) model {
	cfg := editor.Config{
		Text:   text,
		Style:  editor.DefaultStyle(),
		KeyMap: editor.DefaultKeyMap(),
		Check: spell.Config{
			Debounce: CLI.Debounce,
			Cache:    spell.NewCache(),
			Checker: &spell.LanguageTool{
				Endpoint: CLI.Endpoint,
				Language: CLI.Language,
			},
			Log: log,
		},
	}
	return model{editor: editor.New(cfg)}
}

func (m model) Init() tea.Cmd { return m.editor.Init() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.editor = m.editor.SetSize(msg.Width, editorHeight(msg.Height))
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+q" {
			m.editor.Scheduler().Stop()
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m model) View() string {
	cur := m.editor.Cursor()
	col := clusterCol(m.editor.Tree().BlockText(cur.Block), cur.Col)
	status := strings.Join([]string{
		"",
		fmt.Sprintf("misspellings: %d   cursor: %d:%d", m.editor.Misspellings(), cur.Block, col),
		"tab accept · ctrl+g ignore · ctrl+s check now · ctrl+q quit",
	}, "\n")
	return m.editor.View() + status
}

// clusterCol converts a rune column into the grapheme-cluster column the
// terminal actually shows.
func clusterCol(line string, col int) int {
	runes := []rune(line)
	if col > len(runes) {
		col = len(runes)
	}
	return grapheme.Count(string(runes[:col]))
}

func editorHeight(total int) int {
	h := total - 3
	if h < 0 {
		return 0
	}
	return h
}

func main() {
	kong.Parse(&CLI,
		kong.Name("spelltree-demo"),
		kong.Description("Interactive spell-checked editor over a document tree."),
		kong.UsageOnError(),
	)

	text := strings.Join([]string{
		"This docuument contains some mispelled words.",
		"Edit freely; flagged words update after a quiet moment.",
	}, "\n")
	if CLI.File != "" {
		data, err := os.ReadFile(CLI.File)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		text = string(data)
	}

	log := slog.New(slog.DiscardHandler)
	if CLI.LogFile != "" {
		f, err := os.OpenFile(CLI.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		log = slog.New(slog.NewTextHandler(f, nil))
	}

	p := tea.NewProgram(newModel(text, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
