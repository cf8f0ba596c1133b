package mosaic

import (
	jlconfig "github.com/JeremyLoy/config"
)

type WorldConfig struct {
	LogLevel       string `config:"MOSAIC_LOG_LEVEL"`
	LogPretty      bool   `config:"MOSAIC_LOG_PRETTY"`
	EntityCapacity int    `config:"MOSAIC_ENTITY_CAPACITY"`
	StrictAliasing bool   `config:"MOSAIC_STRICT_ALIASING"`
}

// GetWorldConfig returns the default configuration overlaid with any
// matching MOSAIC_* environment variables.
func GetWorldConfig() WorldConfig {
	cfg := WorldConfig{
		LogLevel:       "info",
		EntityCapacity: 1024,
	}
	// Best effort: fields keep their defaults when the environment has no
	// matching variables.
	_ = jlconfig.FromEnv().To(&cfg)
	return cfg
}
