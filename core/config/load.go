package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// DefaultPath returns the configuration path in the given home directory.
func DefaultPath(home string) string {
	return filepath.Join(home, ConfigurationName)
}

// Load loads the configuration file at path. A missing file yields the
// default configuration. Fields absent from the file keep their defaults.
func Load(fsys afero.Fs, path string) (*Configuration, error) {
	out := Default()

	configContents, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return out, nil
	case err != nil:
		return nil, err
	}

	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// ErrExists is returned by Initialize if the configuration file is present.
var ErrExists = errors.New("configuration already exists")

// Initialize writes the default configuration to path.
func Initialize(fsys afero.Fs, path string) error {
	if _, err := fsys.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return afero.WriteFile(fsys, path, defaultConfigData, os.FileMode(0644))
}
