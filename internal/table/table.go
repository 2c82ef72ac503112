// Package table derives the ordered process view shown on screen.
package table

import (
	"sort"

	"github.com/Dicklesworthstone/rtop/internal/model"
)

// Sorted returns the sample's processes ordered by key. Equal primary keys
// fall back to ascending pid so rows do not jitter between ticks. The sample
// is not modified.
func Sorted(s model.Sample, key model.SortKey) []model.Process {
	rows := make([]model.Process, 0, len(s.Processes))
	for _, p := range s.Processes {
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return less(rows[i], rows[j], key) })
	return rows
}

func less(a, b model.Process, key model.SortKey) bool {
	switch key {
	case model.SortByCPU:
		if a.CPU != b.CPU {
			return a.CPU > b.CPU
		}
	case model.SortByMemory:
		if a.ResidentMem != b.ResidentMem {
			return a.ResidentMem > b.ResidentMem
		}
	case model.SortByName:
		if a.Name != b.Name {
			return a.Name < b.Name
		}
	}
	return a.PID < b.PID
}
