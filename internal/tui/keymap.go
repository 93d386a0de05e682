package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit           key.Binding
	reload         key.Binding
	toggleHelp     key.Binding
	moveLeft       key.Binding
	moveRight      key.Binding
	moveUp         key.Binding
	moveDown       key.Binding
	addTask        key.Binding
	taskInfo       key.Binding
	editTask       key.Binding
	newCategory    key.Binding
	categoryPicker key.Binding
	nextCategory   key.Binding
	taskDeleteMode key.Binding
	catDeleteMode  key.Binding
	moveTaskLeft   key.Binding
	moveTaskRight  key.Binding
	grabTask       key.Binding
	categoryLeft   key.Binding
	categoryRight  key.Binding
	yankTask       key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		addTask:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		taskInfo:       key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "task info")),
		editTask:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		newCategory:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new category")),
		categoryPicker: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "category picker")),
		nextCategory:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next category")),
		taskDeleteMode: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "task delete mode")),
		catDeleteMode:  key.NewBinding(key.WithKeys("D", "shift+d"), key.WithHelp("D", "category delete mode")),
		moveTaskLeft:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move task left")),
		moveTaskRight:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move task right")),
		grabTask:       key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "grab/drop task")),
		categoryLeft:   key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "category left")),
		categoryRight:  key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "category right")),
		yankTask:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank task")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.taskInfo, k.editTask, k.newCategory, k.taskDeleteMode, k.grabTask, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.taskInfo, k.editTask, k.newCategory, k.categoryPicker, k.nextCategory, k.yankTask, k.toggleHelp, k.reload, k.quit},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown, k.moveTaskLeft, k.moveTaskRight, k.grabTask, k.categoryLeft, k.categoryRight},
		{k.taskDeleteMode, k.catDeleteMode},
	}
}
