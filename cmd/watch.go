package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Serendipbrity/hide-comments-extension/config"
	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/session"
)

var watchDebounceMs int

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Keep side files in sync with edits in the background",
	Long: `Watches the workspace (or the given directory) for file changes and,
once a file has been quiet for the debounce window, folds its current
text into its persisted comment set. This is the background half of the
save-event flow; toggles made by other processes are respected through
each document's suppression window.

Press Ctrl+C to stop watching; pending syncs are cancelled.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("--- Watch Command: Run ---")

		root := config.AppConfig.Workspace.Root
		if len(args) == 1 {
			root = args[0]
		}

		debounceMs := watchDebounceMs
		if !cmd.Flags().Changed("debounce") {
			debounceMs = config.AppConfig.Watch.DebounceMs
		}
		if debounceMs <= 0 {
			logger.Error("Watch Command: debounce %dms is not positive, using 750ms", debounceMs)
			debounceMs = 750
		}
		debounce := time.Duration(debounceMs) * time.Millisecond

		mgr, err := newManager()
		if err != nil {
			logger.Error("Watch Command: failed to build session manager: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer saveSessionState(mgr)

		onSync := func(path string, res *session.OpResult, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "sync failed: %s: %v\n", path, err)
				return
			}
			fmt.Printf("synced %s (%s mode, %d matched, %d added, %d orphaned)\n",
				path, res.Mode, res.Matched, res.Added, res.Orphaned)
		}
		watcher, err := session.NewWatcher(mgr, root, debounce, onSync)
		if err != nil {
			logger.Error("Watch Command: failed to create watcher for %s: %v", root, err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := watcher.Start(ctx); err != nil {
			logger.Error("Watch Command: failed to start watching %s: %v", root, err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer watcher.Stop()

		fmt.Printf("Watching %s (debounce %s). Press Ctrl+C to stop.\n", root, debounce)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigs
		logger.Info("Watch Command: received signal %s, shutting down", sig)
		fmt.Println("\nStopping watcher.")
	},
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounceMs, "debounce", 750, "quiescence window in milliseconds before a changed file is synced")
	rootCmd.AddCommand(watchCmd)
}
