package analysis

import "fmt"

// Config controls the input conditioning the analyzer applies before
// the algorithm stages run. The stages themselves are parameter-free;
// their constants are part of the measurement definitions.
type Config struct {
	// Preprocess normalizes to unit peak and removes DC before analysis
	Preprocess bool `json:"preprocess"`

	// MaxDurationSec truncates longer input; zero disables the limit
	MaxDurationSec float64 `json:"max_duration_sec"`
}

// DefaultConfig returns the configuration used by the package-level
// Analyze: preprocessing on, no duration limit.
func DefaultConfig() Config {
	return Config{
		Preprocess:     true,
		MaxDurationSec: 0,
	}
}

// Validate rejects configurations that cannot be applied
func (c Config) Validate() error {
	if c.MaxDurationSec < 0 {
		return fmt.Errorf("max_duration_sec must be >= 0, got %v", c.MaxDurationSec)
	}
	return nil
}
