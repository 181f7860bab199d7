package server

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// HostStats is the host snapshot reported by /healthz.
type HostStats struct {
	Hostname   string  `json:"hostname"`
	OS         string  `json:"os"`
	MemUsage   float64 `json:"mem_usage"` // percent 0-100
	Goroutines int     `json:"goroutines"`
	Uptime     string  `json:"uptime"`
}

// collectHost gathers a best-effort snapshot; missing readings stay zero.
func collectHost(started time.Time) HostStats {
	st := HostStats{
		OS:         detailedOS(),
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(started).Round(time.Second).String(),
	}
	if h, err := os.Hostname(); err == nil {
		st.Hostname = h
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		st.MemUsage = vm.UsedPercent
	}
	return st
}

// detailedOS returns a descriptive OS version string, or runtime.GOOS as fallback.
func detailedOS() string {
	info, err := host.Info()
	if err == nil && info.Platform != "" {
		if info.PlatformVersion != "" {
			return fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
		}
		return info.Platform
	}
	return runtime.GOOS
}
