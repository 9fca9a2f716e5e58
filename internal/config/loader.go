package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix namespaces overrides: SHARP_LOG_LEVEL maps to log.level.
	EnvPrefix = "SHARP"
	// DirEnvVar points at the directory holding FileName.
	DirEnvVar = "SHARP_CONFIGDIR"
	FileName  = "config.yml"
)

// Dir returns $SHARP_CONFIGDIR, or <user config dir>/sharp.
func Dir() (string, error) {
	if dir := os.Getenv(DirEnvVar); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate config dir: set %s: %w", DirEnvVar, err)
	}
	return filepath.Join(base, "sharp"), nil
}

// Load reads path, or config.yml from Dir() when path is empty. A missing
// discovered file is not an error and yields the defaults. Environment
// variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path == "" {
		path = discover()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func discover() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ""
	}
	return path
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	d := Default()

	// Log defaults
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pattern", d.Log.Pattern)
	v.SetDefault("log.time", d.Log.Time)
	v.SetDefault("log.console", d.Log.Console)
	v.SetDefault("log.caller", d.Log.Caller)
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.filename", "")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_backups", 5)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.compress", true)

	// Vocabulary defaults
	v.SetDefault("vocabulary.mission", d.Vocabulary.Mission)
	v.SetDefault("vocabulary.instruments", d.Vocabulary.Instruments)
	v.SetDefault("vocabulary.levels", d.Vocabulary.Levels)
	v.SetDefault("vocabulary.descriptors", d.Vocabulary.Descriptors)
	v.SetDefault("vocabulary.extension", d.Vocabulary.Extension)
	v.SetDefault("vocabulary.raw_extension", d.Vocabulary.RawExtension)
	v.SetDefault("vocabulary.raw_instrument_codes", d.Vocabulary.RawInstrumentCodes)

	// Validation defaults
	v.SetDefault("validation.valid_apids", []uint16{})
	v.SetDefault("validation.strict", false)
	validators := make([]map[string]any, 0, len(d.Validation.Validators))
	for _, vc := range d.Validation.Validators {
		validators = append(validators, map[string]any{"name": vc.Name, "options": vc.Options})
	}
	v.SetDefault("validation.validators", validators)

	v.SetDefault("pipeline.output_dir", "")
	v.SetDefault("metrics.textfile", "")
}

// WriteDefault writes the default configuration to dir/config.yml and
// returns its path. An existing file is kept unless overwrite is set, in
// which case it is first renamed to config.yml.bak.
func WriteDefault(dir string, overwrite bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return path, fmt.Errorf("config file %s: %w", path, os.ErrExist)
		}
		if err := os.Rename(path, path+".bak"); err != nil {
			return path, fmt.Errorf("failed to back up %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return path, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return path, fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return path, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// Dump prints cfg as YAML.
func Dump(cfg *Config, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
