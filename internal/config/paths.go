// Package config handles run directory layout, settings, and YAML helpers.
package config

import (
	"os"
	"path/filepath"
	"sort"
)

const (
	// LanesDirName is the subdirectory of a run that holds one directory per lane.
	LanesDirName = "lanes"

	// LaneLogFileName is a lane's append-only readable log file.
	LaneLogFileName = "output.log"

	// LaneStateFileName is a lane's declared state record.
	LaneStateFileName = "state.yaml"

	// SettingsFileName is the optional per-run engine settings file.
	SettingsFileName = "settings.yaml"
)

// LanesDir returns the path to a run's lanes directory.
func LanesDir(runDir string) string {
	return filepath.Join(runDir, LanesDirName)
}

// LaneDir returns the path to one lane's directory within a run.
func LaneDir(runDir, lane string) string {
	return filepath.Join(LanesDir(runDir), lane)
}

// LaneLogFile returns the path to a lane's readable log file.
func LaneLogFile(laneDir string) string {
	return filepath.Join(laneDir, LaneLogFileName)
}

// LaneStateFile returns the path to a lane's state record.
func LaneStateFile(laneDir string) string {
	return filepath.Join(laneDir, LaneStateFileName)
}

// SettingsFile returns the path to a run's settings file.
func SettingsFile(runDir string) string {
	return filepath.Join(runDir, SettingsFileName)
}

// Lanes lists the lane names under a run, sorted. A missing lanes
// directory is not an error: the run simply has no lanes yet.
func Lanes(runDir string) []string {
	entries, err := os.ReadDir(LanesDir(runDir))
	if err != nil {
		return nil
	}

	var lanes []string
	for _, e := range entries {
		if e.IsDir() {
			lanes = append(lanes, e.Name())
		}
	}
	sort.Strings(lanes)
	return lanes
}
