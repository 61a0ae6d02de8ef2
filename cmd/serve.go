package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Serendipbrity/hide-comments-extension/api"
	"github.com/Serendipbrity/hide-comments-extension/api/router/handlers"
	"github.com/Serendipbrity/hide-comments-extension/config"
	_ "github.com/Serendipbrity/hide-comments-extension/docs" // generated swagger docs
	"github.com/Serendipbrity/hide-comments-extension/logger"
	"github.com/Serendipbrity/hide-comments-extension/session"
)

var (
	servePort      string
	serveWithWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the engine over HTTP",
	Long: `Exposes the engine under the /api prefix: stateless text endpoints,
workspace file operations, the orphan archive and a websocket event feed.
With --watch the background watcher runs alongside the server and its
syncs are published on the event feed.

Press Ctrl+C to gracefully shut down.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("--- Serve Command: Run ---")

		actualPort := servePort
		if !cmd.Flags().Changed("port") {
			actualPort = config.AppConfig.Server.Port
		}
		if actualPort == "" {
			logger.Error("Serve Command: port is empty after checking flag and config, defaulting to 8787")
			actualPort = "8787"
		}

		mgr, err := newManager()
		if err != nil {
			logger.Error("Serve Command: failed to build session manager: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer saveSessionState(mgr)

		var wg sync.WaitGroup

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// --- API server goroutine ---
		wg.Add(1)
		go func(parentCtx context.Context) {
			defer wg.Done()
			logger.Info("Serve Command Goroutine(API): Attempting to start API server on port %s...", actualPort)

			apiRouter := api.NewRouter(mgr)
			mainMux := http.NewServeMux()
			mainMux.Handle("/api/", http.StripPrefix("/api", apiRouter))
			mainMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
				logger.Error("Request for %s outside the /api prefix", r.URL.Path)
				http.NotFound(w, r)
			})

			server := &http.Server{
				Addr:    ":" + actualPort,
				Handler: mainMux,
			}

			go func() {
				<-parentCtx.Done()
				logger.Info("Serve Command Goroutine(API): Shutdown signal received...")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.Error("Serve Command Goroutine(API): Graceful shutdown failed: %v", err)
				} else {
					logger.Info("Serve Command Goroutine(API): Gracefully stopped.")
				}
			}()

			logger.Info("Serve Command Goroutine(API): Listening on :%s", actualPort)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Serve Command Goroutine(API): ListenAndServe error: %v", err)
				cancel()
			}
			logger.Info("Serve Command Goroutine(API): Finished.")
		}(ctx)

		// --- Watcher goroutine (optional) ---
		if serveWithWatch {
			wg.Add(1)
			go func(parentCtx context.Context) {
				defer wg.Done()
				root := config.AppConfig.Workspace.Root
				debounce := time.Duration(config.AppConfig.Watch.DebounceMs) * time.Millisecond
				logger.Info("Serve Command Goroutine(Watch): Watching %s (debounce %s)", root, debounce)

				onSync := func(path string, res *session.OpResult, err error) {
					if err != nil || res == nil {
						return
					}
					handlers.PublishEvent(handlers.EngineEvent{
						Type:     "sync",
						File:     res.Path,
						Mode:     res.Mode,
						Changed:  res.Changed,
						Orphaned: res.Orphaned,
					})
				}
				watcher, err := session.NewWatcher(mgr, root, debounce, onSync)
				if err != nil {
					logger.Error("Serve Command Goroutine(Watch): failed to create watcher: %v", err)
					cancel()
					return
				}
				if err := watcher.Start(parentCtx); err != nil {
					logger.Error("Serve Command Goroutine(Watch): failed to start watching %s: %v", root, err)
					cancel()
					return
				}
				<-parentCtx.Done()
				logger.Info("Serve Command Goroutine(Watch): Shutdown signal received...")
				watcher.Stop()
				logger.Info("Serve Command Goroutine(Watch): Finished.")
			}(ctx)
		}

		// --- Wait for termination signal ---
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		logger.Info("Serve Command: All service goroutines launched. Press Ctrl+C to exit.")

		select {
		case sig := <-sigs:
			logger.Info("Serve Command: Received signal: %s. Initiating shutdown...", sig)
		case <-ctx.Done():
			logger.Info("Serve Command: Context cancelled (likely due to a service error). Initiating shutdown...")
		}

		cancel()

		shutdownComplete := make(chan struct{})
		go func() {
			logger.Info("Serve Command: Waiting for goroutines to finish...")
			wg.Wait()
			close(shutdownComplete)
		}()

		select {
		case <-shutdownComplete:
			logger.Info("Serve Command: All services shut down.")
		case <-time.After(10 * time.Second):
			logger.Error("Serve Command: Shutdown timed out. Forcing exit.")
		}

		logger.Info("Serve Command: Exited.")
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8787", "Port for the API server (overrides config)")
	serveCmd.Flags().BoolVar(&serveWithWatch, "watch", false, "also run the background watcher over the workspace")
	rootCmd.AddCommand(serveCmd)
}
