// Package trials loads trial schedules for the stimulus controller.
//
// A schedule is a line-delimited JSON file (trials.jsonl): one trial
// configuration per line, applied in order through the reset handshake.
package trials

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vstrozzi/monkeyshm/internal/transport/shm"
)

// Trial is one line of a trials.jsonl schedule.
type Trial struct {
	Seed        uint64      `json:"seed"`
	PyramidType uint32      `json:"pyramid_type"`
	BaseRadius  float32     `json:"base_radius"`
	Height      float32     `json:"height"`
	StartOrient float32     `json:"start_orient"`
	TargetDoor  uint32      `json:"target_door"`
	Colors      [][]float32 `json:"colors"`
}

// Config converts a trial to a transport config.
func (t Trial) Config() shm.Config {
	return shm.Config{
		Seed:        t.Seed,
		PyramidType: shm.PyramidType(t.PyramidType),
		BaseRadius:  t.BaseRadius,
		Height:      t.Height,
		StartOrient: t.StartOrient,
		TargetDoor:  t.TargetDoor,
		Colors:      t.Colors,
	}
}

// Default returns the reference trial: red, blue, and green faces with
// door 5 as the target.
func Default() Trial {
	return Trial{
		Seed:        69,
		PyramidType: 0,
		BaseRadius:  2.5,
		Height:      4.0,
		StartOrient: 0.0,
		TargetDoor:  5,
		Colors: [][]float32{
			{1.0, 0.2, 0.2, 1.0},
			{0.2, 0.5, 1.0, 1.0},
			{0.2, 1.0, 0.3, 1.0},
		},
	}
}

// Load reads a schedule from a JSONL file. Blank lines are skipped; a
// malformed line is an error rather than a silent drop, so a typo in a
// schedule never shortens an experiment unnoticed.
func Load(path string) ([]Trial, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trials: failed to open %s: %w", path, err)
	}
	defer file.Close()

	var out []Trial
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var t Trial
		if err := json.Unmarshal(line, &t); err != nil {
			return nil, fmt.Errorf("trials: %s:%d: %w", path, lineNo, err)
		}
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("trials: %s:%d: %w", path, lineNo, err)
		}
		out = append(out, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("trials: failed to read %s: %w", path, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("trials: %s contains no trials", path)
	}
	return out, nil
}

// LoadOrDefault tries each path in order and falls back to the single
// default trial when none yields a schedule. It returns the schedule and
// the path it came from ("" for the default).
func LoadOrDefault(paths ...string) ([]Trial, string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if schedule, err := Load(path); err == nil {
			return schedule, path
		}
	}
	return []Trial{Default()}, ""
}

func (t Trial) validate() error {
	if len(t.Colors) != shm.NumFaces {
		return fmt.Errorf("colors has %d faces, want %d", len(t.Colors), shm.NumFaces)
	}
	for i, face := range t.Colors {
		if len(face) != shm.NumColorChannels {
			return fmt.Errorf("colors[%d] has %d channels, want %d", i, len(face), shm.NumColorChannels)
		}
	}
	return nil
}
