package proc

import (
	"os"
	"os/exec"
	"testing"
	"time"
)

// deadPID is above the Linux default pid_max, so no process can own it.
const deadPID = 999999999

func TestParseElapsed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Duration
	}{
		{"minutes seconds", "05:30", 5*time.Minute + 30*time.Second},
		{"hours minutes seconds", "1:02:03", time.Hour + 2*time.Minute + 3*time.Second},
		{"days prefix", "2-03:04:05", 51*time.Hour + 4*time.Minute + 5*time.Second},
		{"zero", "00:00", 0},
		{"empty", "", 0},
		{"garbage", "abc", 0},
		{"bare number", "99", 0},
		{"bad day part", "x-01:02:03", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseElapsed(tt.in); got != tt.want {
				t.Errorf("ParseElapsed(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSignalProber(t *testing.T) {
	var p SignalProber

	own := p.Probe(os.Getpid())
	if !own.Exists || !own.Running {
		t.Errorf("own pid: exists=%v running=%v, want both true", own.Exists, own.Running)
	}

	dead := p.Probe(deadPID)
	if dead.Exists || dead.Running {
		t.Errorf("dead pid: exists=%v running=%v, want both false", dead.Exists, dead.Running)
	}

	if zero := p.Probe(0); zero.Exists {
		t.Error("pid 0 must not report existence")
	}
	if neg := p.Probe(-1); neg.Exists {
		t.Error("negative pid must not report existence")
	}
}

func TestPSProberEnrichment(t *testing.T) {
	if _, err := exec.LookPath("ps"); err != nil {
		t.Skip("ps not available")
	}

	var p PSProber
	info := p.Probe(os.Getpid())
	if !info.Exists || !info.Running {
		t.Fatalf("own pid: exists=%v running=%v", info.Exists, info.Running)
	}
	if info.Command == "" {
		t.Error("expected command name from process table")
	}
	if info.MemoryMB <= 0 {
		t.Error("expected positive resident memory")
	}

	// Enrichment must never flip the existence answer.
	dead := p.Probe(deadPID)
	if dead.Exists {
		t.Error("dead pid reported as existing")
	}
}

func TestCheckProcess(t *testing.T) {
	if info := CheckProcess(os.Getpid()); !info.Exists {
		t.Error("CheckProcess(own pid) reported not existing")
	}
}
