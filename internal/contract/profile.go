package contract

import "strings"

// ProfileConfig holds profiling configuration.
type ProfileConfig struct {
	Enabled bool
	Prefix  string // File prefix for the .cpu.prof and .mem.prof outputs
}

// ProcessProfilingConfig validates and applies the profiling prefix. An empty
// prefix leaves profiling disabled.
func ProcessProfilingConfig(profile *ProfileConfig, prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		profile.Enabled = false
		return nil
	}
	profile.Enabled = true
	profile.Prefix = prefix
	return nil
}
