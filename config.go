package cutter

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config carries construction-time tuning for a Segmenter. None of it
// changes the meaning of the algorithms in spec.md -- it only picks the
// constants the reference hardcodes (the emission floor, the minimum
// frequency a dictionary line needs to count as a real word rather than
// noise) and the default HMM behavior.
type Config struct {
	Engine EngineConfig `toml:"engine"`
}

// EngineConfig holds tunables for the segmentation engine itself.
type EngineConfig struct {
	// EmissionFloor is used by the HMM Viterbi decoder whenever a
	// character has no entry for a given state. Must be far below any
	// real log-probability; spec.md §4.4 suggests -3.14e100.
	EmissionFloor float64 `toml:"emission_floor"`
	// MinRealFrequency is the minimum frequency a dictionary line must
	// carry to be treated as a real word; a lower frequency is stored as
	// a freq-0 prefix sentinel and not added to the total. 0 means
	// every non-negative frequency is accepted (the spec.md default).
	MinRealFrequency int `toml:"min_real_frequency"`
	// DefaultUseHMM is the HMM flag Cut uses when a caller wants the
	// engine's own preference rather than specifying one explicitly
	// (see Segmenter.CutDefault).
	DefaultUseHMM bool `toml:"default_use_hmm"`
}

// DefaultConfig returns the tuning the reference implementation uses.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			EmissionFloor:    -3.14e100,
			MinRealFrequency: 0,
			DefaultUseHMM:    true,
		},
	}
}

// LoadConfig reads a TOML config file, falling back to nothing -- a
// decode failure is returned to the caller rather than silently patched
// over, since construction-time misconfiguration should be loud.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as TOML.
func SaveConfig(cfg *Config, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}
