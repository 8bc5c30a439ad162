package progress

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceUsage is the memory footprint shown next to the progress line
type ResourceUsage struct {
	AllocMB              int64   // heap allocated by this process
	RSSMB                int64   // resident set of this process
	Goroutines           int     // live goroutines
	SystemMemUsedPercent float64 // host memory in use
}

// GetResourceUsage samples the current process and host memory.
// Fields that cannot be read are left zero.
func GetResourceUsage() ResourceUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := ResourceUsage{
		AllocMB:    int64(m.Alloc / 1024 / 1024),
		Goroutines: runtime.NumGoroutine(),
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			usage.RSSMB = int64(info.RSS / 1024 / 1024)
		}
	}

	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemUsedPercent = vmStat.UsedPercent
	}

	return usage
}
