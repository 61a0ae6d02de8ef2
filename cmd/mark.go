package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/session"
)

var (
	markFileType      string
	markLine          int
	markAlwaysVisible bool
	markPrivate       bool
)

var markCmd = &cobra.Command{
	Use:   "mark <file>",
	Short: "Flag the comment at a line as always-visible or private",
	Long: `Sets or clears visibility flags on the comment found at --line. An
always-visible comment survives hiding; a private comment moves to the
private side file and is only rendered when the private partition is on.

Flags are tri-state: '--private' sets, '--private=false' clears, and an
omitted flag leaves the stored value alone. Hidden comments can be
addressed through the code line they are anchored to.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("Executing 'mark' command for %s:%d", args[0], markLine)
		if markLine <= 0 {
			fmt.Fprintln(os.Stderr, "Error: --line is required and must be positive.")
			os.Exit(1)
		}

		// Only explicitly passed flags are applied, so =false can clear.
		flags := session.MarkFlags{}
		if cmd.Flags().Changed("always-visible") {
			flags.AlwaysVisible = &markAlwaysVisible
		}
		if cmd.Flags().Changed("private") {
			flags.IsPrivate = &markPrivate
		}

		mgr, err := newManager()
		if err != nil {
			logger.Error("Failed to build session manager for 'mark': %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer saveSessionState(mgr)

		res, err := mgr.Mark(args[0], markFileType, markLine, flags)
		if err != nil {
			logger.Error("'mark' failed for %s:%d: %v", args[0], markLine, err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printOpResult(res)
	},
}

func init() {
	markCmd.Flags().StringVarP(&markFileType, "type", "t", "", "file type override for marker lookup (e.g. py, go)")
	markCmd.Flags().IntVarP(&markLine, "line", "l", 0, "1-based line of the comment (or of its anchored code line) (required)")
	markCmd.Flags().BoolVar(&markAlwaysVisible, "always-visible", false, "keep the comment visible in the clean rendition")
	markCmd.Flags().BoolVar(&markPrivate, "private", false, "move the comment to the private partition")
	markCmd.MarkFlagRequired("line")
	rootCmd.AddCommand(markCmd)
}
