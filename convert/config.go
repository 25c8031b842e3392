package convert

import (
	"fmt"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the engine settings read from the [engine] section of a TOML file.
type Config struct {
	// NumWorkers bounds the number of partitions processed at once.
	NumWorkers int `toml:"numWorkers"`

	// MaxPartitions bounds the number of slabs a region is split into.
	MaxPartitions int `toml:"maxPartitions"`

	// Serial forces every conversion onto the calling goroutine.
	Serial bool `toml:"serial"`
}

// DefaultConfig uses one worker per CPU and up to four partitions per worker.
func DefaultConfig() Config {
	return Config{
		NumWorkers:    runtime.NumCPU(),
		MaxPartitions: 4 * runtime.NumCPU(),
	}
}

// normalized replaces unset or invalid settings with defaults.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.NumWorkers <= 0 {
		c.NumWorkers = def.NumWorkers
	}
	if c.MaxPartitions <= 0 {
		c.MaxPartitions = def.MaxPartitions
	}
	return c
}

func (c Config) String() string {
	return fmt.Sprintf("%d workers, %d max partitions, serial %t", c.NumWorkers, c.MaxPartitions, c.Serial)
}

// LoadConfig reads the [engine] section of a TOML file.  Settings missing from
// the file take their default values.
func LoadConfig(filename string) (Config, error) {
	var tc struct {
		Engine Config `toml:"engine"`
	}
	if _, err := toml.DecodeFile(filename, &tc); err != nil {
		return Config{}, fmt.Errorf("could not decode TOML config %q: %w", filename, err)
	}
	return tc.Engine.normalized(), nil
}
