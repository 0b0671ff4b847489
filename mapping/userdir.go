package mapping

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// configDirOverride holds a user-specified configuration directory.
// When empty, the default $HOME/.bibstats is used.
var configDirOverride string

// SetConfigDir overrides the default configuration directory.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the bibstats configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".bibstats"), nil
}

// ProfilesDir returns the user profiles directory.
func ProfilesDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "profiles"), nil
}

// ProfilePath returns the path for a user profile file.
func ProfilePath(name string) (string, error) {
	dir, err := ProfilesDir()
	if err != nil {
		return "", err
	}
	// Sanitize name
	name = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid profile name %q", name)
	}
	return filepath.Join(dir, name+".yaml"), nil
}

// SaveProfile writes p to the user profiles directory and returns its path.
func SaveProfile(p *Profile) (string, error) {
	path, err := ProfilePath(p.Name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating profiles directory: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshaling profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing profile: %w", err)
	}

	return path, nil
}

// DeleteProfile removes a user profile.
func DeleteProfile(name string) error {
	path, err := ProfilePath(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrUnknownProfile, name)
		}
		return fmt.Errorf("deleting profile: %w", err)
	}

	return nil
}

// LoadUserProfiles adds the profiles saved in the user profiles directory
// to the registry, replacing embedded profiles of the same name. A missing
// directory is not an error.
func (r *ProfileRegistry) LoadUserProfiles() error {
	dir, err := ProfilesDir()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return r.LoadFromDirectory(dir)
}
