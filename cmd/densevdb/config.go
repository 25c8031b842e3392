package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/janelia-flyem/densevdb/convert"
	"github.com/janelia-flyem/densevdb/dense"
	"github.com/janelia-flyem/densevdb/vdb"
)

type tomlConfig struct {
	Engine  convert.Config
	Logging vdb.LogConfig
	Output  outputConfig
}

type outputConfig struct {
	// Codec of raw dense files: "none", "zstd" or "snappy".
	Codec string

	codec dense.Codec
}

// loadConfig reads a TOML file if one is given and applies command-line overrides.
func loadConfig(filename string) (*tomlConfig, error) {
	tc := &tomlConfig{Engine: convert.DefaultConfig()}
	if filename != "" {
		if _, err := toml.DecodeFile(filename, tc); err != nil {
			return nil, fmt.Errorf("could not decode TOML config %q: %w", filename, err)
		}
	}
	if *useCPU > 0 {
		tc.Engine.NumWorkers = *useCPU
	}
	if *runSerial {
		tc.Engine.Serial = true
	}
	if *codecName != "" {
		tc.Output.Codec = *codecName
	}
	var err error
	if tc.Output.codec, err = dense.ParseCodec(tc.Output.Codec); err != nil {
		return nil, err
	}
	return tc, nil
}
