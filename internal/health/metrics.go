package health

import (
	"runtime"
)

// MetricsUnavailableError indicates a sampling source produced no usable
// reading.
type MetricsUnavailableError struct {
	Source string
}

func (e *MetricsUnavailableError) Error() string {
	return "metrics unavailable: " + e.Source
}

// MemoryMetrics describes process heap usage against the memory obtained
// from the OS.
type MemoryMetrics struct {
	Used       uint64  `json:"used"`
	Total      uint64  `json:"total"`
	Free       uint64  `json:"free"`
	Percentage float64 `json:"percentage"`
}

// CPUMetrics is a best-effort view of scheduler pressure.
type CPUMetrics struct {
	Cores      int    `json:"cores"`
	Goroutines int    `json:"goroutines"`
	GCCycles   uint32 `json:"gcCycles"`
}

// SampleMemory reads current memory usage. Failing to obtain a total is a
// hard error at this boundary; the snapshot composer downgrades it.
func SampleMemory() (MemoryMetrics, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	if ms.Sys == 0 {
		return MemoryMetrics{}, &MetricsUnavailableError{Source: "memory"}
	}

	used := ms.HeapAlloc
	total := ms.Sys
	return MemoryMetrics{
		Used:       used,
		Total:      total,
		Free:       total - used,
		Percentage: float64(used) / float64(total) * 100,
	}, nil
}

// SampleCPU never fails; if a reading is unavailable the corresponding field
// stays zero.
func SampleCPU() CPUMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return CPUMetrics{
		Cores:      runtime.NumCPU(),
		Goroutines: runtime.NumGoroutine(),
		GCCycles:   ms.NumGC,
	}
}
