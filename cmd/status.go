package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/session"
)

var statusFileType string

var statusCmd = &cobra.Command{
	Use:   "status [files...]",
	Short: "Show mode and record counts for files",
	Long: `Reports each file's detected rendition mode, how many shared and private
comment records are persisted for it, where its side files live, and how
many of its comments sit in the orphan archive. Nothing is modified.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("Executing 'status' command for %d file(s)", len(args))
		mgr, err := newManager()
		if err != nil {
			logger.Error("Failed to build session manager for 'status': %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		statuses := []*session.DocStatus{}
		failed := 0
		for _, path := range args {
			st, err := mgr.Status(path, statusFileType)
			if err != nil {
				logger.Error("'status' failed for %s: %v", path, err)
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
				failed++
				continue
			}
			statuses = append(statuses, st)
		}

		if len(statuses) > 0 {
			writer := new(tabwriter.Writer)
			writer.Init(os.Stdout, 0, 8, 1, '\t', 0)

			fmt.Fprintln(writer, "FILE\tMODE\tSHARED\tPRIVATE\tALWAYS\tORPHANS\tLAST_SAVED")
			fmt.Fprintln(writer, "----\t----\t------\t-------\t------\t-------\t----------")
			for _, st := range statuses {
				lastSaved := "-"
				if !st.LastModified.IsZero() {
					lastSaved = st.LastModified.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					st.RelPath,
					st.Mode,
					st.Shared,
					st.Private,
					st.AlwaysVisible,
					st.Orphans,
					lastSaved,
				)
			}
			writer.Flush()

			for _, st := range statuses {
				fmt.Printf("\n%s side files:\n  shared:  %s\n  private: %s\n", st.RelPath, st.SharedPath, st.PrivatePath)
			}
		}

		if failed > 0 {
			os.Exit(1)
		}
		logger.Info("Successfully reported status for %d file(s)", len(statuses))
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusFileType, "type", "t", "", "file type override for marker lookup (e.g. py, go)")
	rootCmd.AddCommand(statusCmd)
}
