package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Serendipbrity/hide-comments-extension/cmd"
	"github.com/Serendipbrity/hide-comments-extension/config"
	"github.com/Serendipbrity/hide-comments-extension/logger"
)

func main() {
	// A .env next to the binary can seed HIDECOMMENTS_* variables before
	// config loads. Missing files are fine.
	_ = godotenv.Load()

	cfgPaths := config.GetDefaultConfigPaths()
	if err := logger.InitGlobalLoggers(cfgPaths.LogPathApp, cfgPaths.LogPathWatch, cfgPaths.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize default global loggers: %v\n", err)
		os.Exit(1)
	}
	defer logger.CloseLogFiles()

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic recovered in main: %v\n", r)
			logger.CloseLogFiles()
			os.Exit(1)
		}
	}()

	cmd.Execute()
}
