package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

// EnvPrefix is the prefix of environment overrides, e.g. ELIOT_SERVER
const EnvPrefix = "ELIOT_"

// DefaultConfigName is the file looked up in the data directory
const DefaultConfigName = "eliot.toml"

// File is the bootstrap configuration read from a TOML file and the
// environment. Empty fields leave stored preferences untouched.
type File struct {
	Server        string `koanf:"server"`
	DataDir       string `koanf:"data_dir"`
	DownloadDir   string `koanf:"download_dir"`
	LogLevel      string `koanf:"log_level"`
	Theme         string `koanf:"theme"`
	CookieSupport *bool  `koanf:"cookie_support"`
}

// DefaultDataDir returns the per-user directory for client state
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "eliot")
	}
	return filepath.Join(dir, "eliot")
}

// LoadFile reads path (when it exists) and then ELIOT_* variables on top.
// A missing file is not an error.
func LoadFile(path string) (File, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return File{}, fmt.Errorf("load config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return File{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return File{}, fmt.Errorf("load environment: %w", err)
	}

	var f File
	if err := k.Unmarshal("", &f); err != nil {
		return File{}, fmt.Errorf("decode config: %w", err)
	}
	return f, nil
}

// Flags are the command-line overrides shared by the desktop app and the CLI
type Flags struct {
	Server     string
	LogLevel   string
	DataDir    string
	ConfigPath string
}

// Resolve loads the config file and environment, then lays the non-empty
// flags on top. The config file defaults to eliot.toml in the data directory.
func (fl Flags) Resolve() (File, error) {
	dataDir := fl.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	path := fl.ConfigPath
	if path == "" {
		path = filepath.Join(dataDir, DefaultConfigName)
	}

	f, err := LoadFile(path)
	if err != nil {
		return File{}, err
	}
	if fl.Server != "" {
		f.Server = fl.Server
	}
	if fl.LogLevel != "" {
		f.LogLevel = fl.LogLevel
	}
	if fl.DataDir != "" || f.DataDir == "" {
		f.DataDir = dataDir
	}
	return f, nil
}
