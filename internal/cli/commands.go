package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// --- init command ---

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty database",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.DataFile); err == nil && !initForce {
		return fmt.Errorf("data file %s already exists (use --force to overwrite)", cfg.DataFile)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat data file: %w", err)
	}
	// An existing file is replaced wholesale by the atomic persist, never loaded.
	s, err := openSessionWith(cmd, cfg, false)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.persist(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", cfg.DataFile)
	return nil
}

// --- add command ---

var addCmd = &cobra.Command{
	Use:   "add [paths...]",
	Short: "Record a visit to each path",
	Long: "Record a visit to each path. Paths that do not exist are ignored. " +
		"If any argument is a blacklisted command word (ls, cd, rm, ...) nothing is recorded.",
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, arg := range args {
		if s.cfg.Blacklisted(arg) {
			s.log.Debug("blacklisted command, ignoring add", "command", arg)
			return nil
		}
	}

	changed := 0
	for _, arg := range args {
		if s.db.Add(&s.cfg, arg) {
			changed++
		}
	}
	if changed == 0 {
		return nil
	}
	return s.persist()
}

// --- remove command ---

var removeCmd = &cobra.Command{
	Use:   "remove path",
	Short: "Forget a path",
	Long:  "Forget a path. The argument must match the stored path exactly.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if !s.db.Remove(args[0]) {
		return nil
	}
	return s.persist()
}

// --- clean command ---

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Decay ratings and evict the weakest paths beyond maxlines",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	before := s.db.Len()
	if !s.db.Prune(&s.cfg) {
		fmt.Fprintf(cmd.OutOrStdout(), "%d records, nothing to clean (maxlines %d)\n", before, s.cfg.MaxLines)
		return nil
	}
	if err := s.persist(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "evicted %d of %d records\n", before-s.db.Len(), before)
	return nil
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing data file")

	addCmd.Flags().StringP("flags-add", "a", "", "Flag characters to set on each path")
	addCmd.Flags().StringP("flags-remove", "r", "", "Flag characters to clear on each path")
}
