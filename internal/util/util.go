package util

import (
	"fmt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/mem"
	"net/http"
	"runtime"
	"strings"
	"time"
	"unicode"
)

// Stats marks the start of a long running task. The returned func logs, at
// debug level, how long the task took and the process memory at that point.
func Stats(task string) func() {
	start := time.Now()
	return func() {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		log.Debug().
			Str("task", task).
			Dur("elapsed", time.Since(start)).
			Uint64("allocMiB", ms.Alloc/1024/1024).
			Uint64("totalAllocMiB", ms.TotalAlloc/1024/1024).
			Uint64("sysMiB", ms.Sys/1024/1024).
			Uint32("gc", ms.NumGC).
			Uint64("heapObjects", ms.HeapObjects).
			Msg("task finished")
	}
}

func ApplyCliSettings(verbose bool, profile bool, pprofPort uint16) {
	if verbose {
		log.Warn().Msgf("Verbosity up")
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if profile {
		log.Info().Msgf("Profiling is enabled for this session. Server will listen on port %d", pprofPort)
		go func() {
			if err := http.ListenAndServe(fmt.Sprintf("localhost:%d", pprofPort), nil); err != nil {
				log.Error().Err(err).Msgf("Error starting profiling server on port %d", pprofPort)
				return
			}
		}()
	}
}

// MemoryStatus is the memory of the host and of this process, in MiB.
type MemoryStatus struct {
	HostTotal     uint64  `json:"hostTotalMiB"`
	HostAvailable uint64  `json:"hostAvailableMiB"`
	HostUsed      float64 `json:"hostUsedPercent"`
	ProcessAlloc  uint64  `json:"processAllocMiB"`
	ProcessSys    uint64  `json:"processSysMiB"`
	Goroutines    int     `json:"goroutines"`
}

// Memory reads the host memory with gopsutil. Host values are left empty if
// the platform does not support it.
func Memory() MemoryStatus {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	status := MemoryStatus{
		ProcessAlloc: ms.Alloc / 1024 / 1024,
		ProcessSys:   ms.Sys / 1024 / 1024,
		Goroutines:   runtime.NumGoroutine(),
	}

	if memStat, err := mem.VirtualMemory(); err == nil {
		status.HostTotal = memStat.Total / 1024 / 1024
		status.HostAvailable = memStat.Available / 1024 / 1024
		status.HostUsed = memStat.UsedPercent
	} else {
		log.Debug().Err(err).Msgf("Error getting host memory")
	}

	return status
}

// ToScreamingSnakeCase converts Go identifiers (or a space separated list of
// them, as found in validator params) to the style used by environment
// variables: TLSCert -> TLS_CERT, SelfTLS -> SELF_TLS.
func ToScreamingSnakeCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = screamingSnake(w)
	}
	return strings.Join(words, " ")
}

func screamingSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
