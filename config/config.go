// Package config loads node system parameters from a JSON file. The ring
// dimension and modulus are compile-time constants of the arithmetic
// packages; the loader re-checks them against the file so a node never runs
// against a parameter file written for an incompatible deployment.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xcqa/chain-core/ring"
)

// Params is the runtime parameter set a node operates with.
type Params struct {
	N                  int    `json:"N"`
	Q                  uint64 `json:"Q"`
	Layers             int    `json:"layers"`
	Workers            int    `json:"workers"`
	TargetBlockSeconds uint64 `json:"target_block_seconds"`
	RetargetWindow     int    `json:"retarget_window"`
	CommitmentK        int    `json:"commitment_k"`
	CommitmentL        int    `json:"commitment_l"`
}

// Default returns the parameter set a node runs with when no file is given.
func Default() Params {
	return Params{
		N:                  ring.N,
		Q:                  uint64(ring.Q),
		Layers:             8,
		Workers:            0,
		TargetBlockSeconds: 10,
		RetargetWindow:     10,
		CommitmentK:        4,
		CommitmentL:        4,
	}
}

// Load reads a JSON parameter file. Missing fields fall back to Default
// values; N and Q, when present, must match the compiled-in ring constants
// unless allowMismatch is set.
func Load(path string, allowMismatch bool) (Params, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	return parse(data, allowMismatch)
}

func parse(data []byte, allowMismatch bool) (Params, error) {
	p := Default()
	var raw Params
	if err := json.Unmarshal(data, &raw); err != nil {
		return p, fmt.Errorf("config: parse: %w", err)
	}
	if raw.N != 0 {
		p.N = raw.N
	}
	if raw.Q != 0 {
		p.Q = raw.Q
	}
	if raw.Layers != 0 {
		p.Layers = raw.Layers
	}
	if raw.Workers != 0 {
		p.Workers = raw.Workers
	}
	if raw.TargetBlockSeconds != 0 {
		p.TargetBlockSeconds = raw.TargetBlockSeconds
	}
	if raw.RetargetWindow != 0 {
		p.RetargetWindow = raw.RetargetWindow
	}
	if raw.CommitmentK != 0 {
		p.CommitmentK = raw.CommitmentK
	}
	if raw.CommitmentL != 0 {
		p.CommitmentL = raw.CommitmentL
	}

	if !allowMismatch {
		if p.N != ring.N {
			return p, fmt.Errorf("config: want N=%d, got %d", ring.N, p.N)
		}
		if p.Q != uint64(ring.Q) {
			return p, fmt.Errorf("config: unsupported Q=%d (expected %d)", p.Q, ring.Q)
		}
	}
	if p.Layers < 1 {
		return p, fmt.Errorf("config: layers must be >= 1, got %d", p.Layers)
	}
	if p.CommitmentK < 1 || p.CommitmentL < 1 {
		return p, fmt.Errorf("config: commitment dimensions must be >= 1, got %dx%d", p.CommitmentK, p.CommitmentL)
	}
	return p, nil
}
