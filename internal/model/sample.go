package model

import "time"

// PID is an OS process identifier. Unique within one Sample; the OS may
// recycle it afterwards.
type PID int32

// CPU aggregates instantaneous host CPU usage.
type CPU struct {
	Total float64 // percent 0-100
}

// Memory captures RAM usage in bytes for precision.
type Memory struct {
	UsedBytes  uint64
	TotalBytes uint64
}

// UsedPercent returns used memory as a percentage of total, 0 when total is unknown.
func (m Memory) UsedPercent() float64 {
	if m.TotalBytes == 0 {
		return 0
	}
	return float64(m.UsedBytes) * 100 / float64(m.TotalBytes)
}

// Process is one row of the process table.
type Process struct {
	PID  PID
	Name string
	// CPU is percent of a single core over the last sampling interval, so it
	// may exceed 100 for multi-threaded processes.
	CPU         float64
	ResidentMem uint64
	VirtualMem  uint64
}

// Sample is the full snapshot exchanged between sampler, controller and UI.
// It is never mutated after the sampler returns it.
type Sample struct {
	Timestamp time.Time
	CPU       CPU
	Memory    Memory
	Processes map[PID]Process
}

// Zero returns an empty sample for initialization.
func Zero() Sample { return Sample{Timestamp: time.Now(), Processes: map[PID]Process{}} }

// Lookup returns the process with the given pid from the sample.
func (s Sample) Lookup(pid PID) (Process, bool) {
	p, ok := s.Processes[pid]
	return p, ok
}
