package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the name of the per-site configuration file,
// searched in the current directory, the XDG config directory, and the
// home directory.
const DefaultConfigFile = ".precheck"

// FindConfigFile locates the configuration file. When explicit is
// non-empty it must exist; otherwise the standard locations are
// searched and an empty path means no file was found.
func FindConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
			}
			return "", fmt.Errorf("config: stat %s: %w", explicit, err)
		}
		return explicit, nil
	}

	candidates := []string{DefaultConfigFile, filepath.Join(XDGConfigDir(), DefaultConfigFile)}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// LoadConfigFile parses the YAML configuration file at path.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &f, nil
}

// LoadSiteConfigs resolves and loads the per-site configuration into c.
// Missing files are not an error unless the path was given explicitly.
func (c *Config) LoadSiteConfigs() error {
	path, err := FindConfigFile(c.ConfigFilePath)
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	f, err := LoadConfigFile(path)
	if err != nil {
		return err
	}
	c.ConfigFilePath = path
	c.SiteConfigs = f
	return nil
}

// WriteDefaultConfigFile writes a commented sample configuration to
// path. It refuses to overwrite an existing file.
func WriteDefaultConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	sample := `# precheck per-site configuration.
#
# defaults apply to every site; entries under sites match by hostname
# (www. prefixes are covered by the bare domain). wait is in seconds.
defaults:
  wait: 3

sites:
  example.com:
    cookie: "consent=accepted"
    headers:
      Accept-Language: "en-US"
    wait: 5
`
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
