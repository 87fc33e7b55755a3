package workers

import (
	"chat-server/contract"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// TelemetryWorker periodically logs the registry gauges (sessions online,
// groups known) together with the server's own memory and CPU usage.
// Best-effort observability: a failed probe is logged and skipped.
type TelemetryWorker struct {
	log      *slog.Logger
	sessions contract.ISessionRegistry
	groups   contract.IGroupRegistry
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, sessions contract.ISessionRegistry,
	groups contract.IGroupRegistry, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, sessions: sessions, groups: groups, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping telemetry worker")
			return nil
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Debug("Failed to collect self stats", "error", err)
				continue
			}
			w.log.Info("Chat server stats",
				"sessions", w.sessions.Count(),
				"groups", w.groups.Count(),
				"ram_bytes", rss,
				"cpu_percent", cpu,
			)
		}
	}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
