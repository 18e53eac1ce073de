package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/lazypower/waypoint/internal/config"
	"github.com/lazypower/waypoint/internal/frecency"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrNoMatch is returned by find when nothing matches. It exits non-zero
// without printing anything, so shell functions can test for it.
var ErrNoMatch = errors.New("no match")

var rootCmd = &cobra.Command{
	Use:           "waypoint",
	Short:         "Jump to frequently and recently used paths",
	Long:          "Waypoint remembers the paths you visit, ranks them by frecency and finds the best match for a partial query.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and reports errors on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, ErrNoMatch) {
		fmt.Fprintf(os.Stderr, "waypoint: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(findAllCmd)
	rootCmd.AddCommand(shellCmd)

	pf := rootCmd.PersistentFlags()
	pf.String(config.KeyDataFile, "", "Data file (.db/.sqlite for SQLite storage) [$WAYPOINT_DATAFILE]")
	pf.String(config.KeyLogFile, "", "Append log messages to this file [$WAYPOINT_LOGFILE]")
	pf.StringP(config.KeyMethod, "m", "", "Score method: frecency, rating or date [$WAYPOINT_METHOD]")
	pf.Int(config.KeyMaxLines, 0, "Maximum records kept by clean [$WAYPOINT_MAXLINES]")
}

// Command-local flags that override viper keys when given.
var localConfigFlags = map[string]string{
	"strict":         config.KeyStrict,
	"case-sensitive": config.KeyCaseSensitive,
}

// newViper layers the command-line flags over file and environment settings.
// Built per invocation so the environment is read at run time.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := config.NewViper()
	bind := func(key string, f *pflag.Flag) error {
		if f == nil || !f.Changed {
			return nil
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
		return nil
	}
	for _, key := range []string{config.KeyDataFile, config.KeyLogFile, config.KeyMethod, config.KeyMaxLines} {
		if err := bind(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			return nil, err
		}
	}
	for name, key := range localConfigFlags {
		if err := bind(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// loadConfig builds the invocation's configuration, including the running
// command's own flags and its search terms. The result is never modified
// afterwards.
func loadConfig(cmd *cobra.Command, terms []string) (config.Config, error) {
	v, err := newViper(cmd)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	fs := cmd.Flags()
	dirsOnly := flagBool(fs, "dirs")
	filesOnly := flagBool(fs, "files")
	if dirsOnly && filesOnly {
		return config.Config{}, fmt.Errorf("--dirs and --files are mutually exclusive")
	}
	if dirsOnly {
		cfg.FindFiles = false
	}
	if filesOnly {
		cfg.FindDirs = false
	}
	cfg.FlagsAdd = frecency.ParseFlags(flagString(fs, "flags-add"))
	cfg.FlagsRemove = frecency.ParseFlags(flagString(fs, "flags-remove"))
	cfg.Terms = terms
	return cfg, nil
}

// flagBool reads a bool flag, false when the command does not define it.
func flagBool(fs *pflag.FlagSet, name string) bool {
	if fs.Lookup(name) == nil {
		return false
	}
	b, _ := fs.GetBool(name)
	return b
}

func flagString(fs *pflag.FlagSet, name string) string {
	if fs.Lookup(name) == nil {
		return ""
	}
	s, _ := fs.GetString(name)
	return s
}
