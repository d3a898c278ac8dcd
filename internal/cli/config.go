package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/reiterator/internal/fs"
	"github.com/calvinalkan/reiterator/internal/logging"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized). Pointers distinguish "unset" from 0.
	ChunkSize   *int   `json:"chunk_size,omitempty"`
	MaxCached   *int   `json:"max_cached,omitempty"`
	LogLevel    string `json:"log_level,omitempty"`
	LogFormat   string `json:"log_format,omitempty"`
	HistoryFile string `json:"history_file,omitempty"`
	Prompt      string `json:"prompt,omitempty"`

	// Resolved (computed, not serialized)
	EffectiveCwd   string `json:"-"`
	HistoryFileAbs string `json:"-"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".reiter.json"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	chunk, maxCached := 64, 0

	return Config{
		ChunkSize: &chunk,
		MaxCached: &maxCached,
		LogLevel:  "warn",
		LogFormat: "console",
		Prompt:    "reiter> ",
	}
}

// ChunkSizeValue returns the chunk size, or 0 if unset.
func (c Config) ChunkSizeValue() int {
	if c.ChunkSize == nil {
		return 0
	}

	return *c.ChunkSize
}

// MaxCachedValue returns the cache budget, or 0 (unbounded) if unset.
func (c Config) MaxCachedValue() int {
	if c.MaxCached == nil {
		return 0
	}

	return *c.MaxCached
}

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/reiter/config.json if set, otherwise ~/.config/reiter/config.json.
// Returns empty string if home directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "reiter", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "reiter", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	FS              fs.FS             // filesystem; nil means fs.NewReal()
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	ChunkSize       *int              // --chunk-size flag value; nil means no override
	MaxCached       *int              // --max-cached flag value; nil means no override
	LogLevel        string            // --log-level flag value; empty means no override
	Env             map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/reiter/config.json or $XDG_CONFIG_HOME/reiter/config.json)
// 3. Project config file at default location (.reiter.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. CLI overrides.
func LoadConfig(input LoadConfigInput) (Config, error) {
	fsys := input.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	if globalPath := getGlobalConfigPath(input.Env); globalPath != "" {
		globalCfg, loaded, err := loadConfigFile(fsys, globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = globalPath
			cfg = mergeConfig(cfg, globalCfg)
		}
	}

	projectCfg, projectPath, err := loadProjectConfig(fsys, workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	// Apply CLI overrides
	cfg = mergeConfig(cfg, Config{
		ChunkSize: input.ChunkSize,
		MaxCached: input.MaxCached,
		LogLevel:  input.LogLevel,
	})

	validateErr := validateConfig(cfg)
	if validateErr != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfigInvalid, validateErr)
	}

	cfg.EffectiveCwd = workDir

	if cfg.HistoryFile != "" {
		if filepath.IsAbs(cfg.HistoryFile) {
			cfg.HistoryFileAbs = cfg.HistoryFile
		} else {
			cfg.HistoryFileAbs = filepath.Join(workDir, cfg.HistoryFile)
		}
	}

	return cfg, nil
}

// loadProjectConfig loads the project config file (.reiter.json) or an explicit config file.
// Returns the config, the path if loaded, and any error.
func loadProjectConfig(fsys fs.FS, workDir, configPath string) (Config, string, error) {
	cfgFile := filepath.Join(workDir, ConfigFileName)
	mustExist := false

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		exists, err := fsys.Exists(cfgFile)
		if err != nil || !exists {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	}

	fileCfg, loaded, err := loadConfigFile(fsys, cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files return zero config.
func loadConfigFile(fsys fs.FS, path string, mustExist bool) (Config, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.ChunkSize != nil {
		base.ChunkSize = overlay.ChunkSize
	}

	if overlay.MaxCached != nil {
		base.MaxCached = overlay.MaxCached
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if overlay.LogFormat != "" {
		base.LogFormat = overlay.LogFormat
	}

	if overlay.HistoryFile != "" {
		base.HistoryFile = overlay.HistoryFile
	}

	if overlay.Prompt != "" {
		base.Prompt = overlay.Prompt
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.ChunkSizeValue() < 0 {
		return fmt.Errorf("chunk_size must not be negative, got %d", cfg.ChunkSizeValue())
	}

	if cfg.MaxCachedValue() < 0 {
		return fmt.Errorf("max_cached must not be negative, got %d", cfg.MaxCachedValue())
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}

	if _, err := logging.ParseFormat(cfg.LogFormat); err != nil {
		return err
	}

	return nil
}
