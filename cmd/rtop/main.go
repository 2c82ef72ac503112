package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/rtop/internal/app"
	"github.com/Dicklesworthstone/rtop/internal/config"
	"github.com/Dicklesworthstone/rtop/internal/dispatch"
	"github.com/Dicklesworthstone/rtop/internal/model"
	"github.com/Dicklesworthstone/rtop/internal/sampler"
	"github.com/Dicklesworthstone/rtop/internal/table"
	"github.com/Dicklesworthstone/rtop/internal/ui"
)

func main() {
	cfg, err := config.FromFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "rtop:", err)
		os.Exit(2)
	}
	if err := run(context.Background(), cfg); err != nil {
		fmt.Fprintln(os.Stderr, "rtop:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if cfg.JSON {
		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer f.Close()
			log.SetOutput(f)
		}
		return writeJSON(ctx, os.Stdout, sampler.NewOS(), cfg)
	}

	// stdout belongs to the alternate screen from here on
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "rtop")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	log.Printf("start: refresh %v, sort %s, config %q", cfg.Interval, cfg.Sort, cfg.ConfigFile)

	ctrl := app.NewController(sampler.NewOS(), dispatch.OSTable{}, cfg.Interval, cfg.Sort)
	ctrl.Start(ctx)
	if err := ui.RunTUI(ctx, ctrl); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	return nil
}

type snapshot struct {
	Timestamp   time.Time      `json:"timestamp"`
	CPUPercent  float64        `json:"cpu_percent"`
	MemoryTotal uint64         `json:"memory_total_bytes"`
	MemoryUsed  uint64         `json:"memory_used_bytes"`
	Sort        string         `json:"sort"`
	Processes   []processEntry `json:"processes"`
}

type processEntry struct {
	PID         model.PID `json:"pid"`
	Name        string    `json:"name"`
	CPUPercent  float64   `json:"cpu_percent"`
	ResidentMem uint64    `json:"resident_memory_bytes"`
	VirtualMem  uint64    `json:"virtual_memory_bytes"`
}

// writeJSON samples twice, one interval apart, so CPU figures are real, and
// prints the second sample in table order.
func writeJSON(ctx context.Context, w io.Writer, s app.Sampler, cfg config.Config) error {
	s.Sample(ctx)
	select {
	case <-time.After(cfg.Interval):
	case <-ctx.Done():
		return ctx.Err()
	}
	sample := s.Sample(ctx)

	out := snapshot{
		Timestamp:   sample.Timestamp,
		CPUPercent:  sample.CPU.Total,
		MemoryTotal: sample.Memory.TotalBytes,
		MemoryUsed:  sample.Memory.UsedBytes,
		Sort:        cfg.Sort.String(),
	}
	for _, p := range table.Sorted(sample, cfg.Sort) {
		out.Processes = append(out.Processes, processEntry{
			PID:         p.PID,
			Name:        p.Name,
			CPUPercent:  p.CPU,
			ResidentMem: p.ResidentMem,
			VirtualMem:  p.VirtualMem,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
