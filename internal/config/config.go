// Package config loads ideasync's own settings. What to exclude or configure
// in PhpStorm always comes from composer.json, never from here.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config keys
const (
	KeyRoot            = "root"
	KeyDryRun          = "dry-run"
	KeyFormat          = "format"
	KeyVerbose         = "verbose"
	KeyQuiet           = "quiet"
	KeyLogLevel        = "log-level"
	KeyLogFormat       = "log-format"
	KeyLogFile         = "log-file"
	KeyDiscoveryIgnore = "discovery.ignore"
	KeyWatchDebounce   = "watch.debounce"
)

const (
	envPrefix       = "IDEASYNC"
	configName      = ".ideasync"
	configType      = "yaml"
	defaultDebounce = 500 * time.Millisecond
)

// Config holds the settings resolved from flags, environment, config file
// and defaults, in that order of precedence.
type Config struct {
	Root            string
	DryRun          bool
	Format          string
	Verbose         bool
	Quiet           bool
	LogLevel        string
	LogFormat       string
	LogFile         string
	DiscoveryIgnore []string
	WatchDebounce   time.Duration

	// ConfigFile is the config file that was read, if any
	ConfigFile string
}

// Loader resolves Config from its sources.
type Loader struct {
	v           *viper.Viper
	envFiles    []string
	searchPaths []string
	findRoot    RootFinder
}

// RootFinder resolves the project root from the root setting, which may be
// empty.
type RootFinder func(root string) (string, error)

// Option configures a Loader.
type Option func(*Loader)

// WithEnvFiles replaces the dotenv files loaded before reading the environment.
func WithEnvFiles(files ...string) Option {
	return func(l *Loader) {
		l.envFiles = files
	}
}

// WithSearchPaths replaces the directories searched for .ideasync.yaml.
func WithSearchPaths(paths ...string) Option {
	return func(l *Loader) {
		l.searchPaths = paths
	}
}

// WithProjectRoot searches the project root found by find for .ideasync.yaml
// before the other search paths. A failing find is ignored.
func WithProjectRoot(find RootFinder) Option {
	return func(l *Loader) {
		l.findRoot = find
	}
}

// NewLoader creates a loader with defaults applied.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		v: viper.New(),
		// .env.local is loaded first; godotenv never overrides a variable that is already set
		envFiles:    []string{".env.local", ".env"},
		searchPaths: defaultSearchPaths(),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.v.SetDefault(KeyDryRun, false)
	l.v.SetDefault(KeyFormat, "text")
	l.v.SetDefault(KeyLogLevel, "warn")
	l.v.SetDefault(KeyLogFormat, "auto")
	l.v.SetDefault(KeyDiscoveryIgnore, []string{})
	l.v.SetDefault(KeyWatchDebounce, defaultDebounce)

	return l
}

func defaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}
	return paths
}

// configPaths returns the search paths, led by the project root when one can
// be found from the flags and environment read so far.
func (l *Loader) configPaths() []string {
	if l.findRoot == nil {
		return l.searchPaths
	}
	root, err := l.findRoot(l.v.GetString(KeyRoot))
	if err != nil || root == "" {
		return l.searchPaths
	}
	return append([]string{root}, l.searchPaths...)
}

// BindFlags binds the command's flags that share a name with a config key.
func (l *Loader) BindFlags(cmd *cobra.Command) error {
	for _, key := range []string{KeyRoot, KeyDryRun, KeyFormat, KeyVerbose, KeyQuiet, KeyLogLevel, KeyLogFormat, KeyLogFile} {
		flag := cmd.Flags().Lookup(key)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", key, err)
		}
	}
	return nil
}

// Load reads dotenv files, the environment and the config file. An explicit
// configFile must exist; the searched .ideasync.yaml is optional.
func (l *Loader) Load(configFile string) (*Config, error) {
	for _, file := range l.envFiles {
		_ = godotenv.Load(file)
	}

	l.v.SetEnvPrefix(envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	l.v.AutomaticEnv()

	if configFile != "" {
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(configName)
		l.v.SetConfigType(configType)
		for _, path := range l.configPaths() {
			l.v.AddConfigPath(path)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Root:            l.v.GetString(KeyRoot),
		DryRun:          l.v.GetBool(KeyDryRun),
		Format:          l.v.GetString(KeyFormat),
		Verbose:         l.v.GetBool(KeyVerbose),
		Quiet:           l.v.GetBool(KeyQuiet),
		LogLevel:        l.v.GetString(KeyLogLevel),
		LogFormat:       l.v.GetString(KeyLogFormat),
		LogFile:         l.v.GetString(KeyLogFile),
		DiscoveryIgnore: l.v.GetStringSlice(KeyDiscoveryIgnore),
		WatchDebounce:   l.v.GetDuration(KeyWatchDebounce),
		ConfigFile:      l.v.ConfigFileUsed(),
	}

	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = defaultDebounce
	}

	return cfg, nil
}
