// Package selection tracks the highlighted process by identity rather than
// row position, so the highlight follows a process as the table re-sorts.
package selection

import "github.com/Dicklesworthstone/rtop/internal/model"

// Selection is an optional pid. A selected pid may be missing from the
// latest sample once its process exits.
type Selection struct {
	pid   model.PID
	valid bool
}

// None is the empty selection.
func None() Selection { return Selection{} }

// Of selects pid.
func Of(pid model.PID) Selection { return Selection{pid: pid, valid: true} }

// PID returns the selected pid and whether anything is selected.
func (s Selection) PID() (model.PID, bool) { return s.pid, s.valid }

// IsNone reports whether nothing is selected.
func (s Selection) IsNone() bool { return !s.valid }

// Direction of a navigation command.
type Direction int

const (
	Up Direction = iota
	Down
)

// Resolve returns the row index of the selected process in view.
func Resolve(s Selection, view []model.Process) (int, bool) {
	if !s.valid {
		return 0, false
	}
	for i, p := range view {
		if p.PID == s.pid {
			return i, true
		}
	}
	return 0, false
}

// Advance moves the selection one row in dir and clamps at both ends.
// With nothing selected Down picks the first row and Up does nothing. A
// selected process that is no longer in view counts as sitting at row 0
// before the move. An empty view leaves the selection as it is.
func Advance(s Selection, view []model.Process, dir Direction) Selection {
	if len(view) == 0 {
		return s
	}
	if !s.valid {
		if dir == Down {
			return Of(view[0].PID)
		}
		return s
	}
	i, _ := Resolve(s, view)
	switch dir {
	case Down:
		if i < len(view)-1 {
			i++
		}
	case Up:
		if i > 0 {
			i--
		}
	}
	return Of(view[i].PID)
}
