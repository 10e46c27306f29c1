/*
Package config manages TOML config for TouchServe services.

Weighting and scoring constants are calibration inputs: the defaults below are
the tuned values for the builtin QWERTY layout, and a config file may override
any of them per deployment.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/touchserve/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Search  SearchConfig  `toml:"search"`
	Weights WeightsConfig `toml:"weights"`
	Scoring ScoringConfig `toml:"scoring"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit int  `toml:"max_limit"`
	Debug    bool `toml:"debug"`
}

// SearchConfig bounds the best-first frontier.
type SearchConfig struct {
	MaxCacheSize         int     `toml:"max_cache_size"`
	ExpandBatchSize      int     `toml:"expand_batch_size"`
	MaxSpatialDistance   float64 `toml:"max_spatial_distance"`
	ErrorCorrectionLimit float64 `toml:"error_correction_limit"`
	MaxEditCorrections   int     `toml:"max_edit_corrections"`
	MinNextWordProb      int     `toml:"min_next_word_prob"`
}

// WeightsConfig holds the unit cost of each correction event.
type WeightsConfig struct {
	Proximity           float64 `toml:"proximity"`
	AdditionalProximity float64 `toml:"additional_proximity"`
	Substitution        float64 `toml:"substitution"`
	Omission            float64 `toml:"omission"`
	Insertion           float64 `toml:"insertion"`
	Transposition       float64 `toml:"transposition"`
	SpaceSubstitution   float64 `toml:"space_substitution"`
	NewWordUnit         float64 `toml:"new_word_unit"`
	Completion          float64 `toml:"completion"`
	Terminal            float64 `toml:"terminal"`
}

// ScoringConfig holds terminal ranking options.
type ScoringConfig struct {
	MinLanguageWeight    float64 `toml:"min_language_weight"`
	MaxLanguageWeight    float64 `toml:"max_language_weight"`
	MaxNormalizedScore   float64 `toml:"max_normalized_score"`
	WeakLetterDemotion   float64 `toml:"weak_letter_demotion"`
	StrongLetterDemotion float64 `toml:"strong_letter_demotion"`
	SafetyNetMargin      int     `toml:"safety_net_margin"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/touchserve
// 2. Current executable dir
// 3. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	return filepath.Join(homeDir, ".config", "touchserve"), nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: ~/.config/touchserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with the calibrated default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit: 18,
			Debug:    false,
		},
		Search: SearchConfig{
			MaxCacheSize:         170,
			ExpandBatchSize:      40,
			MaxSpatialDistance:   4.0,
			ErrorCorrectionLimit: 0.7,
			MaxEditCorrections:   3,
			MinNextWordProb:      8,
		},
		Weights: WeightsConfig{
			Proximity:           0.105,
			AdditionalProximity: 0.37,
			Substitution:        0.37,
			Omission:            0.46,
			Insertion:           0.73,
			Transposition:       0.79,
			SpaceSubstitution:   0.34,
			NewWordUnit:         0.42,
			Completion:          0.12,
			Terminal:            0.1,
		},
		Scoring: ScoringConfig{
			MinLanguageWeight:    0.5,
			MaxLanguageWeight:    1.5,
			MaxNormalizedScore:   1.6,
			WeakLetterDemotion:   0.25,
			StrongLetterDemotion: 0.6,
			SafetyNetMargin:      200000,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file, on top of the builtin defaults
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return DefaultConfig(), err
	}
	return config, nil
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
