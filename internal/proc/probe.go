// Package proc reconciles lanes' declared lifecycle status against
// actual OS process state.
package proc

import (
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ProcessInfo describes the observed state of one OS process.
type ProcessInfo struct {
	Exists  bool
	Running bool

	// Process-table enrichment, best-effort: zero values when the
	// platform or privileges don't allow a lookup.
	Command    string
	Uptime     time.Duration
	CPUPercent float64
	MemoryMB   float64
}

// Prober checks whether a pid refers to a live process. Implementations
// differ only in whether they can enrich the result from the process
// table; the existence answer is identical.
type Prober interface {
	Probe(pid int) ProcessInfo
}

// SignalProber tests process existence by sending signal 0, which has
// no effect on the target. ESRCH means the process is gone; EPERM means
// it exists but belongs to another user, which still counts as alive.
type SignalProber struct{}

// Probe implements Prober.
func (SignalProber) Probe(pid int) ProcessInfo {
	if pid <= 0 {
		return ProcessInfo{}
	}

	err := syscall.Kill(pid, 0)
	switch {
	case err == nil:
		return ProcessInfo{Exists: true, Running: true}
	case errors.Is(err, syscall.EPERM):
		return ProcessInfo{Exists: true, Running: true}
	default:
		return ProcessInfo{}
	}
}

// PSProber layers process-table enrichment over the signal probe. An
// enrichment failure never changes the existence answer.
type PSProber struct {
	base SignalProber
}

// Probe implements Prober.
func (p PSProber) Probe(pid int) ProcessInfo {
	info := p.base.Probe(pid)
	if !info.Exists {
		return info
	}

	out, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", "comm=,etime=,%cpu=,rss=").Output()
	if err != nil {
		return info
	}

	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) < 4 {
		return info
	}

	info.Command = fields[0]
	info.Uptime = ParseElapsed(fields[1])
	if cpu, err := strconv.ParseFloat(fields[2], 64); err == nil {
		info.CPUPercent = cpu
	}
	if rssKB, err := strconv.ParseFloat(fields[3], 64); err == nil {
		info.MemoryMB = rssKB / 1024
	}
	return info
}

// NewProber returns a process-table-enriched prober when ps is
// available, otherwise the bare signal prober.
func NewProber() Prober {
	if _, err := exec.LookPath("ps"); err == nil {
		return PSProber{}
	}
	return SignalProber{}
}

// CheckProcess probes a single pid with the best available prober.
func CheckProcess(pid int) ProcessInfo {
	return NewProber().Probe(pid)
}

// ParseElapsed parses a ps etime field ([[DD-]HH:]MM:SS) into a
// duration. Unparseable input yields zero.
func ParseElapsed(s string) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	var days int64
	if i := strings.IndexByte(s, '-'); i >= 0 {
		d, err := strconv.ParseInt(s[:i], 10, 64)
		if err != nil {
			return 0
		}
		days = d
		s = s[i+1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}

	var total int64
	for _, part := range parts {
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	total += days * 24 * 3600

	return time.Duration(total) * time.Second
}
