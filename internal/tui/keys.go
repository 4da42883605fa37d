package tui

import "github.com/charmbracelet/bubbles/key"

var tabKeys = []string{"F1", "F2", "F3", "F4", "F5"}

type keyMap struct {
	Quit      key.Binding
	Tabs      key.Binding
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Reset     key.Binding
	Refresh   key.Binding
	Copy      key.Binding
	Dismiss   key.Binding
	Open      key.Binding
	ToForm    key.Binding
	Rename    key.Binding
	Download  key.Binding
	SaveLocal key.Binding
	Remove    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Tabs:      key.NewBinding(key.WithKeys("f1", "f2", "f3", "f4", "f5"), key.WithHelp("F1-F5", "tabs")),
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Reset:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "reset form")),
		Refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Copy:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back/dismiss")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		ToForm:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "load to form")),
		Rename:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Download:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		SaveLocal: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save copy")),
		Remove:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
	}
}

// helpFor returns the bindings relevant to the visible panel.
func (m *model) helpFor() []key.Binding {
	k := m.keys
	switch m.tab {
	case tabRun:
		return []key.Binding{k.NextField, k.Submit, k.Reset, k.Copy, k.Tabs, k.Quit}
	case tabHistory:
		if m.detailOpen {
			return []key.Binding{k.ToForm, k.Rename, k.Download, k.SaveLocal, k.Copy, k.Dismiss, k.Quit}
		}
		return []key.Binding{k.Open, k.Refresh, k.Tabs, k.Quit}
	case tabDescriptions:
		return []key.Binding{k.Open, k.Refresh, k.Tabs, k.Quit}
	case tabVocab:
		save := key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save"))
		dl := key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "download"))
		return []key.Binding{save, k.Refresh, dl, k.Tabs, k.Quit}
	case tabCredentials:
		return []key.Binding{k.Open, k.Remove, k.Refresh, k.Tabs, k.Quit}
	}
	return []key.Binding{k.Quit}
}
