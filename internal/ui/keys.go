package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/rtop/internal/app"
	"github.com/Dicklesworthstone/rtop/internal/dispatch"
	"github.com/Dicklesworthstone/rtop/internal/model"
)

// KeyMap defines all keyboard shortcuts for the monitor.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Sorting
	SortCPU  key.Binding
	SortMem  key.Binding
	SortName key.Binding
	SortPID  key.Binding

	// Kill menu
	Kill      key.Binding
	Cancel    key.Binding
	Interrupt key.Binding
	SigQuit   key.Binding
	Terminate key.Binding
	ForceKill key.Binding

	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		SortCPU: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "sort cpu"),
		),
		SortMem: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "sort mem"),
		),
		SortName: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "sort name"),
		),
		SortPID: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "sort pid"),
		),
		Kill: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "kill menu"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "SIGINT"),
		),
		SigQuit: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "SIGQUIT"),
		),
		Terminate: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "SIGTERM"),
		),
		ForceKill: key.NewBinding(
			key.WithKeys("9"),
			key.WithHelp("9", "SIGKILL"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Command translates a key press into a logical command. Keys that mean
// nothing in the current mode are dropped here.
func (k KeyMap) Command(msg tea.KeyMsg, mode app.Mode) (app.Command, bool) {
	if key.Matches(msg, k.Quit) {
		return app.Command{Kind: app.Quit}, true
	}
	if mode == app.KillMenu {
		switch {
		case key.Matches(msg, k.Cancel):
			return app.Command{Kind: app.CancelKillMenu}, true
		case key.Matches(msg, k.Interrupt):
			return app.Command{Kind: app.ChooseSignal, Signal: dispatch.Interrupt}, true
		case key.Matches(msg, k.SigQuit):
			return app.Command{Kind: app.ChooseSignal, Signal: dispatch.Quit}, true
		case key.Matches(msg, k.Terminate):
			return app.Command{Kind: app.ChooseSignal, Signal: dispatch.Terminate}, true
		case key.Matches(msg, k.ForceKill):
			return app.Command{Kind: app.ChooseSignal, Signal: dispatch.Kill}, true
		}
		return app.Command{}, false
	}
	switch {
	case key.Matches(msg, k.Up):
		return app.Command{Kind: app.NavigateUp}, true
	case key.Matches(msg, k.Down):
		return app.Command{Kind: app.NavigateDown}, true
	case key.Matches(msg, k.SortCPU):
		return app.Command{Kind: app.SetSort, Sort: model.SortByCPU}, true
	case key.Matches(msg, k.SortMem):
		return app.Command{Kind: app.SetSort, Sort: model.SortByMemory}, true
	case key.Matches(msg, k.SortName):
		return app.Command{Kind: app.SetSort, Sort: model.SortByName}, true
	case key.Matches(msg, k.SortPID):
		return app.Command{Kind: app.SetSort, Sort: model.SortByPID}, true
	case key.Matches(msg, k.Kill):
		return app.Command{Kind: app.OpenKillMenu}, true
	}
	return app.Command{}, false
}

// bindings is a flat help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

// helpFor returns the legend shown in the footer for mode.
func (k KeyMap) helpFor(mode app.Mode) bindings {
	if mode == app.KillMenu {
		return bindings{k.Interrupt, k.SigQuit, k.Terminate, k.ForceKill, k.Cancel}
	}
	return bindings{k.Up, k.Down, k.SortCPU, k.SortMem, k.SortName, k.SortPID, k.Kill, k.Quit}
}
