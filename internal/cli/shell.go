package cli

import (
	"strings"

	"github.com/lazypower/waypoint/internal/shell"
	"github.com/spf13/cobra"
)

var (
	shellBinary string
	shellJump   string
)

var shellCmd = &cobra.Command{
	Use:       "shell " + strings.Join(shell.Supported(), "|"),
	Short:     "Print the shell integration script",
	Long:      "Print a script that records directory changes and defines a jump function. Evaluate it from your shell's startup file.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: shell.Supported(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.Write(cmd.OutOrStdout(), args[0], shell.Options{Binary: shellBinary, Jump: shellJump})
	},
}

func init() {
	shellCmd.Flags().StringVar(&shellBinary, "binary", "waypoint", "Command the script uses to call waypoint")
	shellCmd.Flags().StringVar(&shellJump, "jump", "j", "Name of the jump function")
}
