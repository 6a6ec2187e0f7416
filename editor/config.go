package editor

import "github.com/iw2rmb/spelltree/spell"

// Config configures the editor Model.
type Config struct {
	// Initial text for the document tree.
	Text string

	// DocID identifies the document; default a random UUID.
	DocID string

	Style  Style
	KeyMap KeyMap

	// Check configures the spell-check pipeline: checker, cache, debounce
	// window, logging. A nil Checker disables checking entirely.
	Check spell.Config
}
