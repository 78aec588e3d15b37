// Package status reports process health for the solve runtime: system
// resources, running solve tasks, and history totals in one response.
package status

import (
	"context"
	"fmt"
	"time"

	"github.com/capforge/capsolve/pkg/logtrace"
	"github.com/capforge/capsolve/pkg/task"
)

// Version is the capsolve version, set by the main application
var Version = "dev"

// HistoryReader is the slice of the history store the status service
// needs.
type HistoryReader interface {
	Stats() (map[string]int64, error)
}

// CPUInfo holds processor usage stats
type CPUInfo struct {
	UsagePercent float64 `json:"usage_percent"`
	Cores        int32   `json:"cores"`
}

// MemoryInfo holds memory usage stats in GB
type MemoryInfo struct {
	TotalGB      float64 `json:"total_gb"`
	UsedGB       float64 `json:"used_gb"`
	AvailableGB  float64 `json:"available_gb"`
	UsagePercent float64 `json:"usage_percent"`
}

// Resources groups the system-level portion of a status response
type Resources struct {
	CPU             CPUInfo       `json:"cpu"`
	Memory          MemoryInfo    `json:"memory"`
	StorageVolumes  []StorageInfo `json:"storage_volumes,omitempty"`
	HardwareSummary string        `json:"hardware_summary,omitempty"`
}

// ServiceTasks lists the running task IDs of one service
type ServiceTasks struct {
	ServiceName string   `json:"service_name"`
	TaskIDs     []string `json:"task_ids"`
	TaskCount   int      `json:"task_count"`
}

// StatusResponse is the full status document
type StatusResponse struct {
	Version       string           `json:"version"`
	UptimeSeconds uint64           `json:"uptime_seconds"`
	Resources     Resources        `json:"resources"`
	RunningTasks  []ServiceTasks   `json:"running_tasks,omitempty"`
	BatchTotals   map[string]int64 `json:"batch_totals,omitempty"`
}

// StatusService provides centralized status information
type StatusService struct {
	metrics      *MetricsCollector
	storagePaths []string
	startTime    time.Time
	tracker      task.Tracker
	history      HistoryReader
}

// NewStatusService creates a new status service instance. tracker and
// history may be nil; their sections are then omitted.
func NewStatusService(storagePaths []string, tracker task.Tracker, history HistoryReader) *StatusService {
	if len(storagePaths) == 0 {
		storagePaths = []string{"/"}
	}
	return &StatusService{
		metrics:      NewMetricsCollector(),
		storagePaths: storagePaths,
		startTime:    time.Now(),
		tracker:      tracker,
		history:      history,
	}
}

// GetStatus returns the current system status
func (s *StatusService) GetStatus(ctx context.Context) (*StatusResponse, error) {
	fields := logtrace.Fields{logtrace.FieldMethod: "GetStatus", logtrace.FieldModule: "StatusService"}
	logtrace.Debug(ctx, "status request received", fields)

	resp := &StatusResponse{
		Version:       Version,
		UptimeSeconds: uint64(time.Since(s.startTime).Seconds()),
	}

	cpuUsage, err := s.metrics.CollectCPUMetrics(ctx)
	if err != nil {
		return resp, err
	}
	resp.Resources.CPU.UsagePercent = cpuUsage

	cores, err := s.metrics.GetCPUCores(ctx)
	if err != nil {
		logtrace.Error(ctx, "failed to get cpu cores", logtrace.Fields{logtrace.FieldError: err.Error()})
		cores = 0
	}
	resp.Resources.CPU.Cores = cores

	memTotal, memUsed, memAvail, memUsedPerc, err := s.metrics.CollectMemoryMetrics(ctx)
	if err != nil {
		return resp, err
	}
	const bytesToGB = 1024 * 1024 * 1024
	resp.Resources.Memory.TotalGB = float64(memTotal) / bytesToGB
	resp.Resources.Memory.UsedGB = float64(memUsed) / bytesToGB
	resp.Resources.Memory.AvailableGB = float64(memAvail) / bytesToGB
	resp.Resources.Memory.UsagePercent = memUsedPerc
	if cores > 0 && resp.Resources.Memory.TotalGB > 0 {
		resp.Resources.HardwareSummary = fmt.Sprintf("%d cores / %.0fGB RAM", cores, resp.Resources.Memory.TotalGB)
	}

	resp.Resources.StorageVolumes = s.metrics.CollectStorageMetrics(ctx, s.storagePaths)

	// Populate running tasks from injected tracker
	if s.tracker != nil {
		for svc, ids := range s.tracker.Snapshot() {
			resp.RunningTasks = append(resp.RunningTasks, ServiceTasks{
				ServiceName: svc,
				TaskIDs:     ids,
				TaskCount:   len(ids),
			})
		}
	}

	// Batch totals are best-effort; a broken history store must not
	// take status down with it.
	if s.history != nil {
		totals, err := s.history.Stats()
		if err != nil {
			logtrace.Error(ctx, "failed to get history stats", logtrace.Fields{logtrace.FieldError: err.Error()})
		} else {
			resp.BatchTotals = totals
		}
	}

	return resp, nil
}
