package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Serendipbrity/hide-comments-extension/database"
	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/models"
)

// --- Flags ---
var (
	orphanFile            string
	orphanIncludeRestored bool
	orphanPage            int
	orphanLimit           int
	orphanWrite           bool
	orphanRestoredOnly    bool
	orphanPurgeYes        bool
)

// --- Base Command ---

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Manage the archive of dropped comments",
	Long: `Comments whose anchor line disappears, or that are deleted while visible,
are never silently discarded: the engine archives them. This command
lists, restores and purges those archived comments.`,
	Aliases: []string{"orphan"},
}

// --- List Command ---

var orphansListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List archived comments",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("Executing 'orphans list' command (file=%q)", orphanFile)

		var orphans []models.OrphanedComment
		var total int64
		var err error
		if orphanFile != "" {
			orphans, err = database.GetOrphanedCommentsByFile(orphanFile, orphanIncludeRestored)
			total = int64(len(orphans))
		} else {
			if orphanPage < 1 {
				orphanPage = 1
			}
			orphans, total, err = database.GetAllOrphanedCommentsPaginated(orphanLimit, (orphanPage-1)*orphanLimit)
		}
		if err != nil {
			logger.Error("'orphans list' failed: %v", err)
			fmt.Fprintln(os.Stderr, "Error retrieving orphaned comments from archive.")
			os.Exit(1)
		}

		if len(orphans) == 0 {
			fmt.Println("No orphaned comments in the archive.")
			return
		}

		writer := new(tabwriter.Writer)
		writer.Init(os.Stdout, 0, 8, 1, '\t', 0)
		fmt.Fprintln(writer, "ID\tFILE\tKIND\tREASON\tDROPPED\tRESTORED")
		fmt.Fprintln(writer, "--\t----\t----\t------\t-------\t--------")
		for _, o := range orphans {
			restored := "-"
			if o.Restored() {
				restored = o.RestoredAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
				o.ID, o.File, o.Kind, o.Reason, o.DroppedAt.Format("2006-01-02 15:04:05"), restored)
		}
		writer.Flush()
		if orphanFile == "" {
			fmt.Printf("\nShowing %d of %d archived comment(s) (page %d).\n", len(orphans), total, orphanPage)
		}
		logger.Info("Successfully listed %d orphaned comment(s)", len(orphans))
	},
}

// --- Show Command ---

var orphansShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived comment as a restorable block",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("Executing 'orphans show' command for %s", args[0])
		mgr, err := newManager()
		if err != nil {
			logger.Error("Failed to build session manager for 'orphans show': %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		res, err := mgr.RestoreOrphan(args[0], false)
		if err != nil {
			logger.Error("'orphans show' failed for %s: %v", args[0], err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Archived comment %s from %s:\n\n%s", res.ID, res.File, res.Block)
	},
}

// --- Restore Command ---

var orphansRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Re-emit an archived comment into its document",
	Long: `Renders the archived comment as a comment block and, with --write,
prepends it to the top of the document it was dropped from, stamping the
archive row as restored. Without --write the block is only printed.

The original anchor line is gone, so the engine cannot put the comment
back where it was; move the restored block into place by hand and save
while comments are visible to re-anchor it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("Executing 'orphans restore' command for %s (write=%v)", args[0], orphanWrite)
		mgr, err := newManager()
		if err != nil {
			logger.Error("Failed to build session manager for 'orphans restore': %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer saveSessionState(mgr)

		res, err := mgr.RestoreOrphan(args[0], orphanWrite)
		if err != nil {
			logger.Error("'orphans restore' failed for %s: %v", args[0], err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if res.Written {
			fmt.Printf("Restored archived comment %s to the top of %s.\n", res.ID, res.Path)
			fmt.Println("Move it into place and save while comments are visible to re-anchor it.")
			return
		}
		fmt.Printf("Archived comment %s from %s (use --write to prepend it to the file):\n\n%s", res.ID, res.File, res.Block)
	},
}

// --- Purge Command ---

var orphansPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete archived comments",
	Long: `Deletes rows from the orphan archive. By default the whole archive is
purged; --file limits the purge to one document and --restored-only to
rows that were already restored. Purged comments are unrecoverable.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("Executing 'orphans purge' command (file=%q, restoredOnly=%v)", orphanFile, orphanRestoredOnly)

		if !orphanPurgeYes {
			scope := "the entire orphan archive"
			if orphanFile != "" {
				scope = fmt.Sprintf("archived comments for %s", orphanFile)
			}
			if orphanRestoredOnly {
				scope += " (restored rows only)"
			}
			fmt.Printf("About to delete %s. Continue? [y/N]: ", scope)
			var answer string
			fmt.Scanln(&answer)
			if answer != "y" && answer != "Y" && answer != "yes" {
				fmt.Println("Aborted.")
				return
			}
		}

		n, err := database.PurgeOrphanedComments(orphanFile, orphanRestoredOnly)
		if err != nil {
			logger.Error("'orphans purge' failed: %v", err)
			fmt.Fprintln(os.Stderr, "Error purging orphaned comments.")
			os.Exit(1)
		}
		fmt.Printf("Purged %d archived comment(s).\n", n)
		logger.Info("Purged %d orphaned comment(s)", n)
	},
}

func init() {
	orphansListCmd.Flags().StringVar(&orphanFile, "file", "", "limit to one document (workspace-relative path)")
	orphansListCmd.Flags().BoolVar(&orphanIncludeRestored, "include-restored", false, "include rows that were already restored")
	orphansListCmd.Flags().IntVar(&orphanPage, "page", 1, "page number when listing the whole archive")
	orphansListCmd.Flags().IntVar(&orphanLimit, "limit", 50, "rows per page when listing the whole archive")

	orphansRestoreCmd.Flags().BoolVar(&orphanWrite, "write", false, "prepend the restored block to the document")

	orphansPurgeCmd.Flags().StringVar(&orphanFile, "file", "", "limit the purge to one document (workspace-relative path)")
	orphansPurgeCmd.Flags().BoolVar(&orphanRestoredOnly, "restored-only", false, "only delete rows that were already restored")
	orphansPurgeCmd.Flags().BoolVarP(&orphanPurgeYes, "yes", "y", false, "skip the confirmation prompt")

	orphansCmd.AddCommand(orphansListCmd)
	orphansCmd.AddCommand(orphansShowCmd)
	orphansCmd.AddCommand(orphansRestoreCmd)
	orphansCmd.AddCommand(orphansPurgeCmd)
	rootCmd.AddCommand(orphansCmd)
}
