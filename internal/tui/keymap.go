package tui

import (
	"strings"
	"unicode"

	"charm.land/bubbles/v2/key"
)

// KeyConfig holds user key overrides. Blank fields keep the defaults.
type KeyConfig struct {
	AddTask     string
	DeleteTask  string
	CopyText    string
	ActivityLog string
	Language    string
	Theme       string
}

// keyMap represents key map data used by this package.
type keyMap struct {
	quit          key.Binding
	reload        key.Binding
	toggleHelp    key.Binding
	moveLeft      key.Binding
	moveRight     key.Binding
	moveUp        key.Binding
	moveDown      key.Binding
	addTask       key.Binding
	addInColumn   key.Binding
	taskInfo      key.Binding
	deleteTask    key.Binding
	moveTaskLeft  key.Binding
	moveTaskRight key.Binding
	reorderUp     key.Binding
	reorderDown   key.Binding
	statusFilter  key.Binding
	labelFilter   key.Binding
	clearFilter   key.Binding
	language      key.Binding
	theme         key.Binding
	copyText      key.Binding
	activityLog   key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		addTask:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		addInColumn:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "new task in column")),
		taskInfo:      key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "task info")),
		deleteTask:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete task")),
		moveTaskLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move task left")),
		moveTaskRight: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move task right")),
		reorderUp:     key.NewBinding(key.WithKeys("K", "shift+k", "shift+up"), key.WithHelp("K", "reorder up")),
		reorderDown:   key.NewBinding(key.WithKeys("J", "shift+j", "shift+down"), key.WithHelp("J", "reorder down")),
		statusFilter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle status filter")),
		labelFilter:   key.NewBinding(key.WithKeys("#"), key.WithHelp("#", "label filter")),
		clearFilter:   key.NewBinding(key.WithKeys("F", "shift+f"), key.WithHelp("F", "clear filters")),
		language:      key.NewBinding(key.WithKeys("L", "shift+l"), key.WithHelp("L", "language")),
		theme:         key.NewBinding(key.WithKeys("T", "shift+t"), key.WithHelp("T", "light/dark")),
		copyText:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
		activityLog:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "activity log")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.moveTaskLeft, k.moveTaskRight, k.deleteTask, k.statusFilter, k.labelFilter, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.addInColumn, k.taskInfo, k.deleteTask, k.copyText, k.activityLog, k.reload, k.toggleHelp, k.quit},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown, k.moveTaskLeft, k.moveTaskRight, k.reorderUp, k.reorderDown},
		{k.statusFilter, k.labelFilter, k.clearFilter, k.language, k.theme},
	}
}

// applyConfig applies user key overrides.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.addTask, cfg.AddTask, "n", "new task")
	configureBinding(&k.deleteTask, cfg.DeleteTask, "d", "delete task")
	configureBinding(&k.copyText, cfg.CopyText, "y", "copy text")
	configureBinding(&k.activityLog, cfg.ActivityLog, "g", "activity log")
	configureBinding(&k.language, cfg.Language, "L", "language")
	configureBinding(&k.theme, cfg.Theme, "T", "light/dark")
}

// configureBinding rebinds b to raw, or to fallback when raw is blank.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys returns the key matchers and help label for a configured key.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := strings.TrimSpace(raw)
	if value == "" && raw != " " {
		value = strings.TrimSpace(fallback)
	}
	if raw == " " || strings.EqualFold(value, "space") {
		return []string{" ", "space"}, "space"
	}
	runes := []rune(value)
	if len(runes) == 1 {
		if unicode.IsUpper(runes[0]) {
			return []string{value, "shift+" + string(unicode.ToLower(runes[0]))}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}
