package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Serendipbrity/hide-comments-extension/core"
	"github.com/Serendipbrity/hide-comments-extension/logger"
)

type DefaultPaths struct {
	ConfigDir     string
	StateFilePath string
	LogPathApp    string
	LogPathWatch  string
	DBPath        string
	MarkersPath   string
	LogLevel      string
}

type Configuration struct {
	Workspace struct {
		Root string `mapstructure:"root"`
	} `mapstructure:"workspace"`
	Store struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"store"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Server struct {
		Port    string `mapstructure:"port"`
		LogPath string `mapstructure:"log_path"`
	} `mapstructure:"server"`
	Watch struct {
		DebounceMs int    `mapstructure:"debounce_ms"`
		LogPath    string `mapstructure:"log_path"`
	} `mapstructure:"watch"`
	Markers struct {
		File string `mapstructure:"file"`
	} `mapstructure:"markers"`
	Session struct {
		StatePath string `mapstructure:"state_path"`
	} `mapstructure:"session"`
	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
}

var AppConfig Configuration

func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func GetDefaultConfigPaths() DefaultPaths {
	var paths DefaultPaths
	userConfigDirBase, err := os.UserConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not get user config dir: %v. Using current directory.\n", err)
		userConfigDirBase = "."
	}

	userConfigDir, err := expandTilde(userConfigDirBase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in user config dir '%s': %v. Using potentially literal path.\n", userConfigDirBase, err)
		userConfigDir = userConfigDirBase
	}

	paths.ConfigDir = filepath.Join(userConfigDir, "hide-comments")
	logDir := filepath.Join(paths.ConfigDir, "logs")

	paths.StateFilePath = filepath.Join(paths.ConfigDir, "sessions.json")
	paths.LogPathApp = filepath.Join(logDir, "app.log")
	paths.LogPathWatch = filepath.Join(logDir, "watch.log")
	paths.DBPath = filepath.Join(paths.ConfigDir, "orphans.db")
	paths.MarkersPath = filepath.Join(paths.ConfigDir, "markers.yaml")
	paths.LogLevel = "DEBUG"
	return paths
}

func Init(cfgFile, flagAppLogPath, flagWatchLogPath, flagLogLevel string) error {
	v := viper.New()

	defaults := GetDefaultConfigPaths()
	v.SetDefault("workspace.root", ".")
	v.SetDefault("store.dir", ".hide-comments")
	v.SetDefault("database.path", defaults.DBPath)
	v.SetDefault("server.port", "8787")
	v.SetDefault("server.log_path", defaults.LogPathApp)
	v.SetDefault("watch.debounce_ms", 750)
	v.SetDefault("watch.log_path", defaults.LogPathWatch)
	v.SetDefault("markers.file", defaults.MarkersPath)
	v.SetDefault("session.state_path", defaults.StateFilePath)
	v.SetDefault("logging.level", defaults.LogLevel)

	if cfgFile != "" {
		expandedCfgFile, err := expandTilde(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in config file path '%s': %v. Trying original path.\n", cfgFile, err)
			expandedCfgFile = cfgFile
		}
		v.SetConfigFile(expandedCfgFile)
		v.SetConfigType("yaml")
	} else {
		v.AddConfigPath(defaults.ConfigDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("HIDECOMMENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	configUsedMsg := "Using default/environment configuration."
	readErr := v.ReadInConfig()
	if readErr == nil {
		configUsedMsg = fmt.Sprintf("Using config file: %s", v.ConfigFileUsed())
	} else {
		if _, ok := readErr.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				fmt.Fprintf(os.Stderr, "Warning: Config file specified by flag (%s) not found: %v\n", cfgFile, readErr)
			} else {
				fmt.Fprintln(os.Stderr, "No default config file found. Using defaults/environment variables.")
			}
		} else {
			fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", v.ConfigFileUsed(), readErr)
		}
	}

	if err := v.Unmarshal(&AppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Error unmarshalling configuration: %v\n", err)
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Apply flag overrides
	if flagAppLogPath != "" {
		expandedPath, err := expandTilde(flagAppLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in --app-log path '%s': %v. Using original path.\n", flagAppLogPath, err)
			AppConfig.Server.LogPath = flagAppLogPath
		} else {
			AppConfig.Server.LogPath = expandedPath
		}
	}
	if flagWatchLogPath != "" {
		expandedPath, err := expandTilde(flagWatchLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in --watch-log path '%s': %v. Using original path.\n", flagWatchLogPath, err)
			AppConfig.Watch.LogPath = flagWatchLogPath
		} else {
			AppConfig.Watch.LogPath = expandedPath
		}
	}
	if flagLogLevel != "" {
		AppConfig.Logging.Level = strings.ToUpper(flagLogLevel)
	}

	// Expand tilde for paths read from config that might contain it
	var err error
	AppConfig.Workspace.Root, err = expandTilde(AppConfig.Workspace.Root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in workspace.root '%s': %v.\n", AppConfig.Workspace.Root, err)
	}
	AppConfig.Store.Dir, err = expandTilde(AppConfig.Store.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in store.dir '%s': %v.\n", AppConfig.Store.Dir, err)
	}
	AppConfig.Database.Path, err = expandTilde(AppConfig.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in database.path '%s': %v.\n", AppConfig.Database.Path, err)
	}
	AppConfig.Markers.File, err = expandTilde(AppConfig.Markers.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in markers.file '%s': %v.\n", AppConfig.Markers.File, err)
	}
	AppConfig.Session.StatePath, err = expandTilde(AppConfig.Session.StatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in session.state_path '%s': %v.\n", AppConfig.Session.StatePath, err)
	}

	// Ensure directories exist
	if err := os.MkdirAll(filepath.Dir(AppConfig.Server.LogPath), 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create final app log directory %s: %v\n", filepath.Dir(AppConfig.Server.LogPath), err)
	}
	if err := os.MkdirAll(filepath.Dir(AppConfig.Watch.LogPath), 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create final watch log directory %s: %v\n", filepath.Dir(AppConfig.Watch.LogPath), err)
	}
	if err := os.MkdirAll(defaults.ConfigDir, 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create main config directory %s: %v\n", defaults.ConfigDir, err)
	}

	// Initialize/Re-initialize loggers
	if err := logger.InitGlobalLoggers(AppConfig.Server.LogPath, AppConfig.Watch.LogPath, AppConfig.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize global loggers with final config: %v\n", err)
		return fmt.Errorf("failed to initialize global loggers with final config: %w", err)
	}

	logger.Info(configUsedMsg)
	if readErr != nil && cfgFile != "" {
		logger.Error("Error occurred reading specified config file '%s': %v", cfgFile, readErr)
	}
	if flagAppLogPath != "" || flagWatchLogPath != "" || flagLogLevel != "" {
		logger.Info("Log path/level flags may have overridden config file/defaults.")
	}

	if err := loadMarkerDefinitions(AppConfig.Markers.File); err != nil {
		logger.Error("Marker definitions file '%s' could not be applied: %v", AppConfig.Markers.File, err)
	}

	if AppConfig.Watch.DebounceMs <= 0 {
		logger.Warn("watch.debounce_ms %d is not positive. Falling back to 750.", AppConfig.Watch.DebounceMs)
		AppConfig.Watch.DebounceMs = 750
	}

	logger.Debug("Final AppConfig Initialized: %+v", AppConfig)
	return nil
}

// loadMarkerDefinitions installs user marker overrides when the file
// exists. A missing file is the normal case and not an error.
func loadMarkerDefinitions(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	table, err := core.ParseMarkerDefinitions(data)
	if err != nil {
		return err
	}
	core.UseMarkerTable(table)
	logger.Info("Loaded comment marker definitions from %s", path)
	return nil
}
