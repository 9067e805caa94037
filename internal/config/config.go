// Package config loads sqlmongo settings from a YAML file, a .env file, and
// SQLMONGO_* environment variables, in increasing order of precedence.
// Command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// FileName is the config file name searched for, without extension.
const FileName = ".sqlmongo"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SQLMONGO"

// Keys.
const (
	KeyFormat  = "format"
	KeyVerbose = "verbose"
	KeyHistory = "history"
	KeyWorkers = "workers"
	KeyColor   = "color"
)

// Config holds the resolved settings.
type Config struct {
	Format  string
	Verbose bool
	History string // history database path; empty disables recording
	Workers int
	Color   bool

	// File is the config file that was read, or "" when none was found.
	File string
}

// Loader reads configuration. Fs is where the config and .env files live.
type Loader struct {
	Fs afero.Fs

	// Dirs are searched for FileName in order. Empty means the current
	// directory, then the home directory, then ~/.config/sqlmongo.
	Dirs []string

	// EnvFile is a dotenv file read from Fs. Missing files are ignored.
	EnvFile string
}

// NewLoader returns a Loader over the OS filesystem.
func NewLoader() *Loader {
	return &Loader{Fs: afero.NewOsFs(), EnvFile: ".env"}
}

// Load reads configuration with the default Loader. A non-empty path names
// the config file explicitly; it must exist.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// Load resolves the configuration. A missing config file is not an error
// unless path was given.
func (l *Loader) Load(path string) (*Config, error) {
	v := viper.New()
	v.SetFs(l.Fs)
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		dirs, err := l.searchDirs()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(FileName)
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Dotenv values sit between the config file and the real environment.
	env, err := l.dotenv()
	if err != nil {
		return nil, err
	}
	for _, key := range []string{KeyFormat, KeyVerbose, KeyHistory, KeyWorkers, KeyColor} {
		name := EnvPrefix + "_" + strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if val, ok := env[name]; ok {
			v.Set(key, val)
		}
	}

	cfg := &Config{
		Format:  v.GetString(KeyFormat),
		Verbose: v.GetBool(KeyVerbose),
		History: v.GetString(KeyHistory),
		Workers: v.GetInt(KeyWorkers),
		Color:   v.GetBool(KeyColor),
		File:    v.ConfigFileUsed(),
	}

	if cfg.History != "" {
		expanded, err := homedir.Expand(cfg.History)
		if err != nil {
			return nil, fmt.Errorf("expand history path: %w", err)
		}
		cfg.History = expanded
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("invalid %s: %d (must be at least 1)", KeyWorkers, cfg.Workers)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyFormat, "text")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyHistory, "")
	v.SetDefault(KeyWorkers, 4)
	v.SetDefault(KeyColor, true)
}

func (l *Loader) searchDirs() ([]string, error) {
	if len(l.Dirs) > 0 {
		return l.Dirs, nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("find home directory: %w", err)
	}
	return []string{".", home, filepath.Join(home, ".config", "sqlmongo")}, nil
}

func (l *Loader) dotenv() (map[string]string, error) {
	if l.EnvFile == "" {
		return map[string]string{}, nil
	}
	f, err := l.Fs.Open(l.EnvFile)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open .env: %w", err)
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse .env: %w", err)
	}
	return env, nil
}
