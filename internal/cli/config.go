package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// defaultConfigFile is looked up in the working directory when no
// --config flag is given.
const defaultConfigFile = "parti.toml"

// Config carries the file-backed defaults for CLI commands. Flags given
// on the command line take precedence over values loaded here.
type Config struct {
	Eval EvalConfig `toml:"eval"`
}

// EvalConfig holds defaults for the eval command.
type EvalConfig struct {
	Kernel string `toml:"kernel"` // "exact" or "sdfx"
	JSON   string `toml:"json"`   // summary export path
	OBJ    string `toml:"obj"`    // mesh export path
}

// defaultConfig returns the built-in configuration.
func defaultConfig() Config {
	return Config{
		Eval: EvalConfig{Kernel: kernelSdfx},
	}
}

// loadConfig reads path, or the default config file when path is empty.
// A missing default file is not an error; a missing explicit path is.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Eval.Kernel != "" && cfg.Eval.Kernel != kernelExact && cfg.Eval.Kernel != kernelSdfx {
		return cfg, fmt.Errorf("config %s: unknown kernel %q, expected %q or %q",
			path, cfg.Eval.Kernel, kernelExact, kernelSdfx)
	}
	return cfg, nil
}
