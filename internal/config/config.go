package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lazypower/waypoint/internal/frecency"
	"github.com/lazypower/waypoint/internal/pathutil"
	"github.com/lazypower/waypoint/internal/store"
	"github.com/spf13/viper"
)

// Config holds everything one waypoint invocation needs. It is built once
// and then only read.
type Config struct {
	Method   frecency.Method
	Now      int64 // unix seconds, captured at load time
	MaxLines int

	// Search
	FindDirs      bool
	FindFiles     bool
	Strict        bool
	CaseSensitive bool
	Terms         []string

	// Add
	FlagsAdd         frecency.Flags
	FlagsRemove      frecency.Flags
	Exclude          []string // doublestar globs matched against canonical paths
	CommandBlacklist []string

	DataFile string
	LogFile  string
}

// Viper keys. Environment variables are WAYPOINT_ plus the upper-cased key.
const (
	KeyMethod        = "method"
	KeyDataFile      = "datafile"
	KeyLogFile       = "logfile"
	KeyMaxLines      = "maxlines"
	KeyStrict        = "strict"
	KeyCaseSensitive = "case_sensitive"
	KeyExclude       = "exclude"
	KeyBlacklist     = "blacklist"
)

// DefaultBlacklist lists command words that make "add" ignore its arguments.
var DefaultBlacklist = []string{"ls", "dir", "vdir", "ddir", "cd", "rm", "rmdir", "tree"}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Method:           frecency.Frecency,
		Now:              time.Now().Unix(),
		MaxLines:         1000,
		FindDirs:         true,
		FindFiles:        true,
		CommandBlacklist: append([]string(nil), DefaultBlacklist...),
		DataFile:         "", // resolved at load time via store.DefaultDataFile()
	}
}

// NewViper returns a viper instance wired for waypoint: defaults, the
// optional config.toml in the config dir and WAYPOINT_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyMethod, d.Method.String())
	v.SetDefault(KeyMaxLines, d.MaxLines)
	v.SetDefault(KeyStrict, d.Strict)
	v.SetDefault(KeyCaseSensitive, d.CaseSensitive)
	v.SetDefault(KeyBlacklist, d.CommandBlacklist)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	if dir, err := store.DefaultConfigDir(); err == nil {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("WAYPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (if any) and builds a Config from v.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from already loaded viper settings.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Default()

	method, err := frecency.ParseMethod(v.GetString(KeyMethod))
	if err != nil {
		return Config{}, err
	}
	cfg.Method = method

	if n := v.GetInt(KeyMaxLines); n > 0 {
		cfg.MaxLines = n
	} else if v.IsSet(KeyMaxLines) {
		return Config{}, fmt.Errorf("maxlines must be positive, got %d", n)
	}

	cfg.Strict = v.GetBool(KeyStrict)
	cfg.CaseSensitive = v.GetBool(KeyCaseSensitive)
	cfg.CommandBlacklist = v.GetStringSlice(KeyBlacklist)

	for _, pattern := range v.GetStringSlice(KeyExclude) {
		if pattern = strings.TrimSpace(pattern); pattern == "" {
			continue
		}
		expanded, ok := pathutil.Default.ExpandHome(pattern)
		if !ok {
			return Config{}, fmt.Errorf("expand exclude pattern %q: home directory unknown", pattern)
		}
		cfg.Exclude = append(cfg.Exclude, expanded)
	}

	cfg.DataFile, err = expandPath(v.GetString(KeyDataFile))
	if err != nil {
		return Config{}, err
	}
	if cfg.DataFile == "" {
		if cfg.DataFile, err = store.DefaultDataFile(); err != nil {
			return Config{}, fmt.Errorf("resolve data file: %w", err)
		}
	}
	cfg.LogFile, err = expandPath(v.GetString(KeyLogFile))
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	expanded, ok := pathutil.Default.ExpandHome(p)
	if !ok {
		return "", fmt.Errorf("expand %q: home directory unknown", p)
	}
	return expanded, nil
}

// Score ranks rec under this configuration.
func (c *Config) Score(rec frecency.Record) float64 {
	return rec.Score(c.Method, c.Now)
}

// Blacklisted reports whether word is a command that suppresses "add".
func (c *Config) Blacklisted(word string) bool {
	for _, b := range c.CommandBlacklist {
		if word == b {
			return true
		}
	}
	return false
}
