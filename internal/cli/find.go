package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/lazypower/waypoint/internal/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	scoreColor = color.New(color.FgCyan)
	ageColor   = color.New(color.FgHiBlack)
)

var findCmd = &cobra.Command{
	Use:   "find [terms...]",
	Short: "Print the best matching path",
	Long: "Print the highest scoring path containing every term in order. " +
		"Exits non-zero when nothing matches.",
	RunE: runFind,
}

var findAllCmd = &cobra.Command{
	Use:     "find-all [terms...]",
	Aliases: []string{"list"},
	Short:   "Print every matching path with its score, best last",
	RunE:    runFindAll,
}

var findAllVerbose bool

// addSearchFlags registers the search switches on a command's flag set.
func addSearchFlags(fs *pflag.FlagSet) {
	fs.BoolP("dirs", "d", false, "Only match directories")
	fs.BoolP("files", "f", false, "Only match files")
	fs.BoolP("strict", "s", false, "Last term must occur in the last path segment [$WAYPOINT_STRICT]")
	fs.BoolP("case-sensitive", "c", false, "Match case exactly [$WAYPOINT_CASE_SENSITIVE]")
}

func runFind(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	best, ok := s.db.FindBest(&s.cfg)
	if !ok {
		return ErrNoMatch
	}
	fmt.Fprintln(cmd.OutOrStdout(), best.Path)
	return nil
}

func runFindAll(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	w := cmd.OutOrStdout()
	for _, m := range s.db.FindAll(&s.cfg) {
		printMatch(w, s, m)
	}
	return nil
}

func printMatch(w io.Writer, s *session, m engine.Match) {
	scoreColor.Fprintf(w, "%10.4f", m.Score)
	if findAllVerbose {
		rec, _ := s.db.Entry(m.Path)
		age := humanize.RelTime(time.Unix(rec.LastAccess, 0), time.Unix(s.cfg.Now, 0), "ago", "from now")
		ageColor.Fprintf(w, "  %-16s", age)
		fmt.Fprintf(w, "  %-4s", string(rec.Flags))
	}
	fmt.Fprintf(w, " %s\n", m.Path)
}

func init() {
	addSearchFlags(findCmd.Flags())
	addSearchFlags(findAllCmd.Flags())
	findAllCmd.Flags().BoolVarP(&findAllVerbose, "verbose", "v", false, "Show last access and flags")
}
