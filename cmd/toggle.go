package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/session"
)

var (
	docFileType       string
	docIncludePrivate bool
)

// docOp is the shared shape of hide/show/toggle/sync: one manager call
// per file argument.
type docOp func(mgr *session.Manager, path string) (*session.OpResult, error)

// printOpResult renders one document operation outcome for the terminal.
func printOpResult(res *session.OpResult) {
	state := "unchanged"
	if res.Changed {
		state = "rewritten"
	}
	fmt.Printf("%s: %s (%s)\n", res.Path, res.Mode, state)
	fmt.Printf("  records: %d shared, %d private\n", res.Shared, res.Private)
	if res.Matched > 0 || res.Added > 0 {
		fmt.Printf("  reconciled: %d matched, %d added\n", res.Matched, res.Added)
	}
	if res.Routed > 0 || res.Cleared > 0 || res.Merged > 0 {
		fmt.Printf("  clean-mode edits: %d routed, %d cleared, %d merged\n", res.Routed, res.Cleared, res.Merged)
	}
	if res.Orphaned > 0 {
		fmt.Printf("  orphaned: %d (see 'hide-comments orphans list')\n", res.Orphaned)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}

// runDocOp applies op to every file argument and exits non-zero if any
// of them failed, after the rest were still attempted. The --private flag
// queues a partition flip only when given, so bare invocations keep each
// file's session setting.
func runDocOp(cmd *cobra.Command, verb string, args []string, op docOp) {
	mgr, err := newManager()
	if err != nil {
		logger.Error("Failed to build session manager for '%s': %v", verb, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer saveSessionState(mgr)

	setPrivate := cmd.Flags().Changed("private")
	failed := 0
	for _, path := range args {
		if setPrivate {
			mgr.SetIncludePrivate(path, docIncludePrivate)
		}
		res, err := op(mgr, path)
		if err != nil {
			logger.Error("'%s' failed for %s: %v", verb, path, err)
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
			failed++
			continue
		}
		printOpResult(res)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

var hideCmd = &cobra.Command{
	Use:   "hide [files...]",
	Short: "Strip comments out of files into their side files",
	Long: `Reconciles each file's visible comments into its persisted comment set,
then rewrites the file without them. Files already in their clean
rendition are left untouched.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("Executing 'hide' command for %d file(s)", len(args))
		runDocOp(cmd, "hide", args, func(mgr *session.Manager, path string) (*session.OpResult, error) {
			return mgr.Hide(path, docFileType)
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show [files...]",
	Short: "Inject hidden comments back into files",
	Long: `Restores each file's comments from its persisted set. Edits made while
the file was clean are merged in above the stored comment text. A file
whose comments were never persisted cannot be restored.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("Executing 'show' command for %d file(s)", len(args))
		runDocOp(cmd, "show", args, func(mgr *session.Manager, path string) (*session.OpResult, error) {
			return mgr.Show(path, docFileType)
		})
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle [files...]",
	Short: "Flip files between commented and clean renditions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("Executing 'toggle' command for %d file(s)", len(args))
		runDocOp(cmd, "toggle", args, func(mgr *session.Manager, path string) (*session.OpResult, error) {
			return mgr.Toggle(path, docFileType)
		})
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [files...]",
	Short: "Fold the current file text into the persisted comment sets",
	Long: `Reconciles each file against its persisted set without rewriting the
file. This is the same operation the watcher runs after a save.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("Executing 'sync' command for %d file(s)", len(args))
		runDocOp(cmd, "sync", args, func(mgr *session.Manager, path string) (*session.OpResult, error) {
			return mgr.Sync(path, docFileType)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{hideCmd, showCmd, toggleCmd, syncCmd} {
		c.Flags().StringVarP(&docFileType, "type", "t", "", "file type override for marker lookup (e.g. py, go)")
		c.Flags().BoolVar(&docIncludePrivate, "private", false, "include the private partition in the visible rendition")
		rootCmd.AddCommand(c)
	}
}
