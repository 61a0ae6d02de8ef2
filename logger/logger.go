package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var (
	AppLogger   *log.Logger
	WatchLogger *log.Logger
	WarnLogger  *log.Logger
	ErrorLogger *log.Logger

	logLevel     string
	appLogFile   *os.File
	watchLogFile *os.File
	initialized  bool
)

func InitGlobalLoggers(appLogPath, watchLogPath, level string) error {
	if initialized && appLogFile != nil && watchLogFile != nil && strings.ToUpper(level) == logLevel {
		// Already initialized with same settings, perhaps a redundant call.
		return nil
	}
	// If files are open, close them before re-initializing
	if appLogFile != nil {
		appLogFile.Close()
		appLogFile = nil
	}
	if watchLogFile != nil {
		watchLogFile.Close()
		watchLogFile = nil
	}

	logLevel = strings.ToUpper(level)
	if logLevel == "" {
		logLevel = "INFO"
	}

	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	actualAppLogPath := appLogPath
	appLogDir := filepath.Dir(appLogPath)
	var appLogWriter io.Writer = io.Discard
	if err := os.MkdirAll(appLogDir, 0750); err != nil {
		ErrorLogger.Printf("Failed to create app log directory %s: %v. App logs (Info/Debug) will be discarded.", appLogDir, err)
		actualAppLogPath = "(discarded)"
	} else {
		var errApp error
		appLogFile, errApp = os.OpenFile(appLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if errApp != nil {
			ErrorLogger.Printf("Failed to open app log file %s: %v. App logs (Info/Debug) will be discarded.", appLogPath, errApp)
			actualAppLogPath = "(discarded)"
		} else {
			appLogWriter = appLogFile // Always use the file if openable
		}
	}
	AppLogger = log.New(appLogWriter, "APP: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarnLogger = log.New(appLogWriter, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)

	actualWatchLogPath := watchLogPath
	watchLogDir := filepath.Dir(watchLogPath)
	var watchLogWriter io.Writer = io.Discard
	if err := os.MkdirAll(watchLogDir, 0750); err != nil {
		ErrorLogger.Printf("Failed to create watch log directory %s: %v. Watch logs (Info/Debug) will be discarded.", watchLogDir, err)
		actualWatchLogPath = "(discarded)"
	} else {
		var errWatch error
		watchLogFile, errWatch = os.OpenFile(watchLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if errWatch != nil {
			ErrorLogger.Printf("Failed to open watch log file %s: %v. Watch logs (Info/Debug) will be discarded.", watchLogPath, errWatch)
			actualWatchLogPath = "(discarded)"
		} else {
			watchLogWriter = watchLogFile // Always use the file if openable
		}
	}
	WatchLogger = log.New(watchLogWriter, "WATCH: ", log.Ldate|log.Ltime|log.Lshortfile)

	if !initialized { // Print init messages only once
		AppLogger.Printf("App logger initialized. Log level: %s. Output file: %s", logLevel, actualAppLogPath)
		WatchLogger.Printf("Watch logger initialized. Log level: %s. Output file: %s", logLevel, actualWatchLogPath)
	}
	initialized = true
	return nil
}

func Info(format string, v ...interface{}) {
	if AppLogger != nil && (logLevel == "INFO" || logLevel == "DEBUG") {
		AppLogger.Printf(format, v...)
	}
}

func Debug(format string, v ...interface{}) {
	if AppLogger != nil && logLevel == "DEBUG" {
		AppLogger.Printf(format, v...)
	}
}

func Warn(format string, v ...interface{}) {
	if WarnLogger != nil && (logLevel == "WARN" || logLevel == "INFO" || logLevel == "DEBUG") { // Warnings also show if level is INFO or DEBUG
		WarnLogger.Printf(format, v...)
	}
}

func Error(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if ErrorLogger != nil {
		ErrorLogger.Print(message)
	}
	if AppLogger != nil && appLogFile != nil {
		AppLogger.Print(message)
	}
}

func Fatal(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if ErrorLogger != nil {
		ErrorLogger.Fatal(message)
	} else {
		log.Fatal(message)
	}
}

func WatchInfo(format string, v ...interface{}) {
	if WatchLogger != nil && (logLevel == "INFO" || logLevel == "DEBUG") {
		WatchLogger.Printf(format, v...)
	}
}

func WatchDebug(format string, v ...interface{}) {
	if WatchLogger != nil && logLevel == "DEBUG" {
		WatchLogger.Printf(format, v...)
	}
}

func WatchError(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if ErrorLogger != nil { // All errors go to stderr via ErrorLogger
		ErrorLogger.Print(message)
	}
	if WatchLogger != nil && watchLogFile != nil { // Also write to watch log file
		WatchLogger.Print(message)
	}
}

func CloseLogFiles() {
	if appLogFile != nil {
		AppLogger.Println("Closing app log file.")
		appLogFile.Close()
		appLogFile = nil // Prevent double close
	}
	if watchLogFile != nil {
		WatchLogger.Println("Closing watch log file.")
		watchLogFile.Close()
		watchLogFile = nil // Prevent double close
	}
	initialized = false // Allow re-initialization if needed (e.g. tests)
}
