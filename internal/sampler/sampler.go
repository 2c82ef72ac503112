package sampler

import (
	"context"
	"log"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/Dicklesworthstone/rtop/internal/model"
)

// ProcStat is one process as read from the OS, with cumulative CPU time.
type ProcStat struct {
	PID        model.PID
	Name       string
	CPUSeconds float64 // user + system
	CreateTime int64   // ms since epoch, tells a recycled pid apart
	RSS        uint64
	VMS        uint64
}

// Source reads raw counters from the OS.
type Source interface {
	CPUTimes(ctx context.Context) (cpu.TimesStat, error)
	Memory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	Processes(ctx context.Context) ([]ProcStat, error)
}

// Sampler builds Samples, turning cumulative CPU times into percentages
// relative to the previous call.
type Sampler struct {
	src Source
	now func() time.Time

	prevTotal float64
	prevIdle  float64
	prevAt    time.Time
	prevProc  map[model.PID]procTimes
}

type procTimes struct {
	cpu     float64
	created int64
}

func New(src Source) *Sampler {
	return &Sampler{
		src:      src,
		now:      time.Now,
		prevProc: make(map[model.PID]procTimes),
	}
}

// NewOS returns a Sampler reading the host through gopsutil.
func NewOS() *Sampler { return New(OSSource{}) }

// Sample takes a snapshot. It never fails: unreadable figures are logged and
// left at zero. The first call reports 0% CPU everywhere since there is no
// previous reading to diff against.
func (s *Sampler) Sample(ctx context.Context) model.Sample {
	now := s.now()

	var memory model.Memory
	if memStat, err := s.src.Memory(ctx); err != nil {
		log.Printf("sampler: memory: %v", err)
	} else if memStat != nil {
		memory = model.Memory{UsedBytes: memStat.Used, TotalBytes: memStat.Total}
	}

	return model.Sample{
		Timestamp: now,
		CPU:       model.CPU{Total: s.cpuPercent(ctx)},
		Memory:    memory,
		Processes: s.processes(ctx, now),
	}
}

// CPU percentage from times delta.
func (s *Sampler) cpuPercent(ctx context.Context) (total float64) {
	cur, err := s.src.CPUTimes(ctx)
	if err != nil {
		log.Printf("sampler: cpu times: %v", err)
		return 0
	}
	curTotal := cur.Total()
	curIdle := cur.Idle + cur.Iowait
	if s.prevTotal > 0 {
		dt := curTotal - s.prevTotal
		di := curIdle - s.prevIdle
		if dt > 0 {
			total = clamp(100*(1-di/dt), 0, 100)
		}
	}
	s.prevTotal, s.prevIdle = curTotal, curIdle
	return total
}

func (s *Sampler) processes(ctx context.Context, now time.Time) map[model.PID]model.Process {
	stats, err := s.src.Processes(ctx)
	if err != nil {
		log.Printf("sampler: processes: %v", err)
	}

	var dt float64
	if !s.prevAt.IsZero() {
		dt = now.Sub(s.prevAt).Seconds()
	}

	procs := make(map[model.PID]model.Process, len(stats))
	next := make(map[model.PID]procTimes, len(stats))
	for _, st := range stats {
		var pct float64
		prev, ok := s.prevProc[st.PID]
		if ok && prev.created == st.CreateTime && dt > 0 && st.CPUSeconds >= prev.cpu {
			pct = (st.CPUSeconds - prev.cpu) / dt * 100
		}
		procs[st.PID] = model.Process{
			PID:         st.PID,
			Name:        st.Name,
			CPU:         pct,
			ResidentMem: st.RSS,
			VirtualMem:  st.VMS,
		}
		next[st.PID] = procTimes{cpu: st.CPUSeconds, created: st.CreateTime}
	}

	s.prevProc = next
	s.prevAt = now
	return procs
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// OSSource reads the host through gopsutil.
type OSSource struct{}

func (OSSource) CPUTimes(ctx context.Context) (cpu.TimesStat, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return cpu.TimesStat{}, err
	}
	if len(times) == 0 {
		return cpu.TimesStat{}, nil
	}
	return times[0], nil
}

func (OSSource) Memory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

// Processes enumerates live processes. A process that exits between the
// listing and the per-process reads is skipped.
func (OSSource) Processes(ctx context.Context) ([]ProcStat, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProcStat, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		times, err := p.TimesWithContext(ctx)
		if err != nil {
			continue
		}
		memInfo, err := p.MemoryInfoWithContext(ctx)
		if err != nil {
			continue
		}
		created, _ := p.CreateTimeWithContext(ctx)
		out = append(out, ProcStat{
			PID:        model.PID(p.Pid),
			Name:       name,
			CPUSeconds: times.User + times.System,
			CreateTime: created,
			RSS:        memInfo.RSS,
			VMS:        memInfo.VMS,
		})
	}
	return out, nil
}
