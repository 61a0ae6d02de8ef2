package cmd

import (
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/Serendipbrity/hide-comments-extension/logger"
)

var previewFileType string

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Show the diff a toggle would apply, without writing anything",
	Long: `Computes the rendition a toggle would produce for the file and prints a
unified diff against its current text. The file, its side files and the
orphan archive are all left untouched.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("Executing 'preview' command for %s", args[0])
		mgr, err := newManager()
		if err != nil {
			logger.Error("Failed to build session manager for 'preview': %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		before, after, target, err := mgr.PreviewToggle(args[0], previewFileType)
		if err != nil {
			logger.Error("'preview' failed for %s: %v", args[0], err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if before == after {
			fmt.Printf("%s: toggle to %s would not change the file\n", args[0], target)
			return
		}

		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(before),
			B:        difflib.SplitLines(after),
			FromFile: args[0],
			ToFile:   fmt.Sprintf("%s (%s)", args[0], target),
			Context:  3,
		}
		text, err := difflib.GetUnifiedDiffString(diff)
		if err != nil {
			logger.Error("'preview' failed to render diff for %s: %v", args[0], err)
			fmt.Fprintf(os.Stderr, "Error rendering diff: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(text)
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewFileType, "type", "t", "", "file type override for marker lookup (e.g. py, go)")
	rootCmd.AddCommand(previewCmd)
}
