package model

import (
	"fmt"
	"strings"
)

// SortKey selects the ordering of the process table.
type SortKey int

const (
	SortByCPU SortKey = iota
	SortByMemory
	SortByName
	SortByPID
)

var sortKeyNames = []string{"cpu", "mem", "name", "pid"}

func (k SortKey) String() string {
	if k < 0 || int(k) >= len(sortKeyNames) {
		return fmt.Sprintf("SortKey(%d)", int(k))
	}
	return sortKeyNames[k]
}

// ParseSortKey accepts the names printed by String plus a few long forms.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu", "c":
		return SortByCPU, nil
	case "mem", "memory", "m":
		return SortByMemory, nil
	case "name", "n":
		return SortByName, nil
	case "pid", "p":
		return SortByPID, nil
	}
	return SortByCPU, fmt.Errorf("unknown sort key %q (want cpu|mem|name|pid)", s)
}
