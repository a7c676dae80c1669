package config

import (
	"errors"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Default returns the built-in configuration.
func Default() *Configuration {
	var out Configuration
	// The embedded default must always parse and validate.
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Load reads the configuration from the given directory on fsys. A
// missing file yields the defaults.
func Load(fsys afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	contents, err := afero.ReadFile(fsys, filepath.Join(path, ConfigurationName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	out := Default()
	if err := yaml.UnmarshalStrict(contents, out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Initialize writes the default configuration into the given directory,
// refusing to clobber an existing file.
func Initialize(fsys afero.Fs, path string, logger *log.Logger) error {
	configPath := filepath.Join(path, ConfigurationName)
	if exists, err := afero.Exists(fsys, configPath); err != nil {
		return err
	} else if exists {
		logger.Printf("%s already exists, leaving it untouched", configPath)
		return nil
	}

	logger.Printf("writing default configuration to %s", configPath)
	return afero.WriteFile(fsys, configPath, defaultConfigData, 0600)
}
