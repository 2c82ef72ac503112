// Package dispatch delivers termination signals to the selected process.
//
// The cached sample can be up to one refresh interval old, so every delivery
// re-resolves the pid against the live process table first. A process that
// has already exited is an ordinary outcome, not an error.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/unix"

	"github.com/Dicklesworthstone/rtop/internal/model"
	"github.com/Dicklesworthstone/rtop/internal/selection"
)

// Kind is one of the four termination signals offered by the kill menu.
type Kind int

const (
	Interrupt Kind = iota
	Quit
	Terminate
	Kill
)

// Signal maps the kind to its UNIX signal.
func (k Kind) Signal() syscall.Signal {
	switch k {
	case Interrupt:
		return unix.SIGINT
	case Quit:
		return unix.SIGQUIT
	case Terminate:
		return unix.SIGTERM
	default:
		return unix.SIGKILL
	}
}

// String returns the signal name, e.g. "SIGTERM".
func (k Kind) String() string { return unix.SignalName(k.Signal()) }

// Outcome classifies a dispatch attempt.
type Outcome int

const (
	Delivered Outcome = iota
	NoSelection
	ProcessNotFound
	DeliveryFailed
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case NoSelection:
		return "no selection"
	case ProcessNotFound:
		return "process not found"
	case DeliveryFailed:
		return "delivery failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// ErrNotFound is returned by a LiveTable when the pid is not running.
var ErrNotFound = errors.New("process not running")

// Target is a live process that can receive a signal.
// *process.Process from gopsutil satisfies it.
type Target interface {
	SendSignalWithContext(ctx context.Context, sig syscall.Signal) error
}

// LiveTable looks processes up in the OS process table at call time.
type LiveTable interface {
	Lookup(ctx context.Context, pid model.PID) (Target, error)
}

// Result reports what happened to one dispatch request.
type Result struct {
	Outcome Outcome
	PID     model.PID
	Signal  Kind
	Err     error // set for DeliveryFailed
}

func (r Result) String() string {
	switch r.Outcome {
	case Delivered:
		return fmt.Sprintf("%s delivered to %d", r.Signal, r.PID)
	case NoSelection:
		return "no process selected"
	case ProcessNotFound:
		return fmt.Sprintf("process %d not found", r.PID)
	default:
		return fmt.Sprintf("%s to %d failed: %v", r.Signal, r.PID, r.Err)
	}
}

// Dispatch sends kind to the selected process, once, without waiting for it
// to exit.
func Dispatch(ctx context.Context, sel selection.Selection, kind Kind, live LiveTable) Result {
	pid, ok := sel.PID()
	if !ok {
		return Result{Outcome: NoSelection, Signal: kind}
	}
	res := Result{PID: pid, Signal: kind}

	target, err := live.Lookup(ctx, pid)
	switch {
	case errors.Is(err, ErrNotFound):
		res.Outcome = ProcessNotFound
		return res
	case err != nil:
		res.Outcome, res.Err = DeliveryFailed, err
		return res
	}

	if err := target.SendSignalWithContext(ctx, kind.Signal()); err != nil {
		// the process can still exit between lookup and kill(2)
		if errors.Is(err, unix.ESRCH) || errors.Is(err, os.ErrProcessDone) {
			res.Outcome = ProcessNotFound
			return res
		}
		res.Outcome, res.Err = DeliveryFailed, err
		return res
	}
	res.Outcome = Delivered
	return res
}

// OSTable is the LiveTable backed by the host's process table.
type OSTable struct{}

func (OSTable) Lookup(ctx context.Context, pid model.PID) (Target, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("invalid pid: %d", pid)
	}
	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if errors.Is(err, process.ErrorProcessNotRunning) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup pid %d: %w", pid, err)
	}
	return p, nil
}
