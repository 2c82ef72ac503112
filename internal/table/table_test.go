package table

import (
	"testing"

	"github.com/Dicklesworthstone/rtop/internal/model"
)

func sampleOf(procs ...model.Process) model.Sample {
	s := model.Zero()
	for _, p := range procs {
		s.Processes[p.PID] = p
	}
	return s
}

func pids(rows []model.Process) []model.PID {
	out := make([]model.PID, len(rows))
	for i, r := range rows {
		out[i] = r.PID
	}
	return out
}

func equalPIDs(a, b []model.PID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var fixture = sampleOf(
	model.Process{PID: 40, Name: "nginx", CPU: 12.5, ResidentMem: 300},
	model.Process{PID: 7, Name: "bash", CPU: 0, ResidentMem: 100},
	model.Process{PID: 12, Name: "nginx", CPU: 12.5, ResidentMem: 900},
	model.Process{PID: 3, Name: "zsh", CPU: 80, ResidentMem: 100},
	model.Process{PID: 25, Name: "Xorg", CPU: 0, ResidentMem: 900},
)

func TestSorted(t *testing.T) {
	tests := []struct {
		key  model.SortKey
		want []model.PID
	}{
		{model.SortByCPU, []model.PID{3, 12, 40, 7, 25}},
		{model.SortByMemory, []model.PID{12, 25, 40, 3, 7}},
		{model.SortByName, []model.PID{25, 7, 12, 40, 3}},
		{model.SortByPID, []model.PID{3, 7, 12, 25, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			got := pids(Sorted(fixture, tt.key))
			if !equalPIDs(got, tt.want) {
				t.Errorf("Sorted(%v) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestSortedIsPermutation(t *testing.T) {
	for _, key := range []model.SortKey{model.SortByCPU, model.SortByMemory, model.SortByName, model.SortByPID} {
		rows := Sorted(fixture, key)
		if len(rows) != len(fixture.Processes) {
			t.Fatalf("%v: got %d rows, want %d", key, len(rows), len(fixture.Processes))
		}
		seen := map[model.PID]bool{}
		for _, r := range rows {
			if seen[r.PID] {
				t.Errorf("%v: pid %d listed twice", key, r.PID)
			}
			seen[r.PID] = true
			if _, ok := fixture.Processes[r.PID]; !ok {
				t.Errorf("%v: pid %d not in sample", key, r.PID)
			}
		}
	}
}

func TestSortedIdempotent(t *testing.T) {
	for _, key := range []model.SortKey{model.SortByCPU, model.SortByMemory, model.SortByName, model.SortByPID} {
		first := Sorted(fixture, key)
		again := Sorted(sampleOf(first...), key)
		if !equalPIDs(pids(first), pids(again)) {
			t.Errorf("%v: resorting changed order %v -> %v", key, pids(first), pids(again))
		}
	}
}

func TestSortedTieBreakIgnoresInsertionOrder(t *testing.T) {
	// Map iteration order is randomized, so repeat to shake out any
	// dependence on it.
	for i := 0; i < 50; i++ {
		s := sampleOf(
			model.Process{PID: 9, Name: "a", CPU: 1},
			model.Process{PID: 2, Name: "a", CPU: 1},
			model.Process{PID: 5, Name: "a", CPU: 1},
		)
		for _, key := range []model.SortKey{model.SortByCPU, model.SortByMemory, model.SortByName} {
			got := pids(Sorted(s, key))
			if !equalPIDs(got, []model.PID{2, 5, 9}) {
				t.Fatalf("%v: ties ordered %v, want [2 5 9]", key, got)
			}
		}
	}
}

func TestSortedLeavesSampleUntouched(t *testing.T) {
	s := sampleOf(model.Process{PID: 1, Name: "init"}, model.Process{PID: 2, Name: "kthreadd"})
	rows := Sorted(s, model.SortByName)
	rows[0].Name = "changed"
	if s.Processes[1].Name != "init" {
		t.Errorf("sample mutated through view: %q", s.Processes[1].Name)
	}
}

func TestSortedEmpty(t *testing.T) {
	if rows := Sorted(model.Zero(), model.SortByCPU); len(rows) != 0 {
		t.Errorf("Sorted(empty) = %v, want no rows", rows)
	}
}
