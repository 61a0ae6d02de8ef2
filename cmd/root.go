package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Serendipbrity/hide-comments-extension/config"
	"github.com/Serendipbrity/hide-comments-extension/database"
	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/session"
	"github.com/Serendipbrity/hide-comments-extension/store"
)

var (
	cfgFile          string
	workspaceFlag    string
	storeDirFlag     string
	dbPath           string // Bound to --orphans-db flag
	appLogPathFlag   string
	watchLogPathFlag string
	logLevelFlag     string
)

// Helper function to expand tilde in this package too
func expandTildeCmd(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// newManager builds the session manager every document command works
// through: a side-file store rooted at the configured workspace, plus the
// persisted per-document session state.
func newManager() (*session.Manager, error) {
	st, err := store.New(config.AppConfig.Workspace.Root, config.AppConfig.Store.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening comment store: %w", err)
	}
	return session.NewManager(st, config.AppConfig.Session.StatePath), nil
}

// saveSessionState persists session state at the end of a command; a
// failure is logged but never turns a finished operation into an error.
func saveSessionState(mgr *session.Manager) {
	if err := mgr.SaveState(); err != nil {
		logger.Error("Failed to save session state: %v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hide-comments",
	Short: "Hide source comments without losing them",
	Long: `hide-comments strips comments out of source files into JSON side files
and injects them back on demand. Comments are anchored to the content of
the code line they annotate, so they survive the file being reformatted,
reordered or edited while hidden.

Typical flow: 'hide-comments toggle FILE' to flip a file between its
commented and clean renditions, 'watch' to keep side files current in the
background, 'serve' to expose the engine over HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize config first, passing flag values for logging config
		if err := config.Init(cfgFile, appLogPathFlag, watchLogPathFlag, logLevelFlag); err != nil {
			return fmt.Errorf("failed to initialize config in PersistentPreRunE: %w", err)
		}

		// Workspace and store-dir flags override their config values.
		if workspaceFlag != "" {
			expanded, err := expandTildeCmd(workspaceFlag)
			if err != nil {
				logger.Error("Error expanding tilde in --workspace flag '%s': %v. Using original.", workspaceFlag, err)
				expanded = workspaceFlag
			}
			config.AppConfig.Workspace.Root = expanded
		}
		if storeDirFlag != "" {
			expanded, err := expandTildeCmd(storeDirFlag)
			if err != nil {
				logger.Error("Error expanding tilde in --store-dir flag '%s': %v. Using original.", storeDirFlag, err)
				expanded = storeDirFlag
			}
			config.AppConfig.Store.Dir = expanded
		}

		// --- Orphan archive path determination ---
		finalDBPath := dbPath
		if finalDBPath != "" {
			expandedPath, err := expandTildeCmd(finalDBPath)
			if err != nil {
				logger.Error("Error expanding tilde in --orphans-db flag '%s': %v. Using original.", finalDBPath, err)
			} else {
				finalDBPath = expandedPath
			}
		} else {
			finalDBPath = config.AppConfig.Database.Path
		}
		if finalDBPath == "" {
			logger.Error("PersistentPreRunE: Orphan archive path is empty after checking flag and config! Falling back to 'orphans.db' in CWD.")
			finalDBPath = "orphans.db"
		}

		if err := database.InitDB(finalDBPath); err != nil {
			return fmt.Errorf("failed to initialize orphan archive at %s: %w", finalDBPath, err)
		}

		isSuppressedCmd := false
		if cmd.Name() == "completion" ||
			cmd.Name() == cobra.ShellCompRequestCmd ||
			cmd.Name() == cobra.ShellCompNoDescRequestCmd ||
			cmd.Name() == "serve" ||
			cmd.Name() == "watch" {
			isSuppressedCmd = true
		}

		if !isSuppressedCmd {
			logger.Info("Orphan archive initialized at: %s (from rootCmd PersistentPreRunE)", finalDBPath)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/hide-comments/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&workspaceFlag, "workspace", "", "workspace root documents are resolved against (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&storeDirFlag, "store-dir", "", "directory holding the JSON side files (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "orphans-db", "", "path to the orphan archive SQLite file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&appLogPathFlag, "app-log", "", "path for the application log file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&watchLogPathFlag, "watch-log", "", "path for the watcher log file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: DEBUG, INFO, ERROR (overrides config/default)")
}
