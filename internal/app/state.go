// Package app holds the monitor's state machine and the controller that
// drives it from input events and refresh ticks.
package app

import (
	"github.com/Dicklesworthstone/rtop/internal/dispatch"
	"github.com/Dicklesworthstone/rtop/internal/model"
	"github.com/Dicklesworthstone/rtop/internal/selection"
	"github.com/Dicklesworthstone/rtop/internal/table"
)

// Mode is the modal UI state.
type Mode int

const (
	Normal Mode = iota
	KillMenu
)

func (m Mode) String() string {
	if m == KillMenu {
		return "kill-menu"
	}
	return "normal"
}

// CommandKind enumerates the logical commands the terminal adapter produces.
type CommandKind int

const (
	Quit CommandKind = iota
	NavigateUp
	NavigateDown
	SetSort
	OpenKillMenu
	CancelKillMenu
	ChooseSignal
)

// Command is one logical input. Sort and Signal are only read for SetSort
// and ChooseSignal.
type Command struct {
	Kind   CommandKind
	Sort   model.SortKey
	Signal dispatch.Kind
}

// EffectKind is a side effect requested by a transition.
type EffectKind int

const (
	NoEffect EffectKind = iota
	Exit
	SendSignal
)

// Effect carries what the controller must do after a transition.
type Effect struct {
	Kind   EffectKind
	Target selection.Selection
	Signal dispatch.Kind
}

// State is everything the loop owns. Transitions return a new value.
type State struct {
	Sample    model.Sample
	Selection selection.Selection
	Sort      model.SortKey
	Mode      Mode
	// Last is the outcome of the most recent dispatch, nil until one runs
	// or after the kill menu is reopened.
	Last *dispatch.Result
}

// Initial is the startup state: normal mode, nothing selected, CPU order.
func Initial(sort model.SortKey) State {
	return State{
		Sample:    model.Zero(),
		Selection: selection.None(),
		Sort:      sort,
		Mode:      Normal,
	}
}

// View is the current sorted process list. It is recomputed on every call.
func (s State) View() []model.Process { return table.Sorted(s.Sample, s.Sort) }

// SelectedRow resolves the selection against the current view.
func (s State) SelectedRow() (int, bool) { return selection.Resolve(s.Selection, s.View()) }

// Target returns the selected process if it is present in the current sample.
func (s State) Target() (model.Process, bool) {
	pid, ok := s.Selection.PID()
	if !ok {
		return model.Process{}, false
	}
	return s.Sample.Lookup(pid)
}

// WithSample installs a fresh sample. The selection is kept by pid even if
// the process is gone.
func (s State) WithSample(sample model.Sample) State {
	s.Sample = sample
	return s
}

// Apply runs one command through the state machine.
func (s State) Apply(cmd Command) (State, Effect) {
	if cmd.Kind == Quit {
		return s, Effect{Kind: Exit}
	}

	switch s.Mode {
	case Normal:
		switch cmd.Kind {
		case NavigateUp:
			s.Selection = selection.Advance(s.Selection, s.View(), selection.Up)
		case NavigateDown:
			s.Selection = selection.Advance(s.Selection, s.View(), selection.Down)
		case SetSort:
			s.Sort = cmd.Sort
		case OpenKillMenu:
			if _, ok := s.Target(); ok {
				s.Mode = KillMenu
				s.Last = nil
			}
		}
	case KillMenu:
		switch cmd.Kind {
		case ChooseSignal:
			s.Mode = Normal
			return s, Effect{Kind: SendSignal, Target: s.Selection, Signal: cmd.Signal}
		case CancelKillMenu:
			s.Mode = Normal
		}
	}
	return s, Effect{}
}
