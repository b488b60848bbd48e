package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/browser-shell/internal/config"
	"github.com/ytget/browser-shell/internal/extension"
	"github.com/ytget/browser-shell/internal/logging"
	"github.com/ytget/browser-shell/internal/model"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

var (
	serverAddress  string
	dataDir        string
	adblockDataDir string
	privateProfile bool
	browserMode    bool

	rootCmd = &cobra.Command{
		Use:     "web-extension",
		Short:   "Browser shell web extension host",
		Long:    `Runs the web extension for one rendering process and connects it to the UI process D-Bus server.`,
		Version: version,
		RunE:    run,
	}
)

func init() {
	rootCmd.Flags().StringVar(&serverAddress, "server-address", "", "D-Bus address of the UI process server")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "", "Profile data directory")
	rootCmd.Flags().StringVar(&adblockDataDir, "adblock-data-dir", "", "Ad-block filter directory")
	rootCmd.Flags().BoolVar(&privateProfile, "private", false, "Use a private profile")
	rootCmd.Flags().BoolVar(&browserMode, "browser-mode", false, "Run as a full browser")
}

// startupTuple builds the positional tuple the UI process would send
func startupTuple(cmd *cobra.Command) []any {
	var address any
	if cmd.Flags().Changed("server-address") {
		address = serverAddress
	}
	return []any{address, dataDir, adblockDataDir, privateProfile, browserMode}
}

func run(cmd *cobra.Command, _ []string) error {
	params, err := model.ParseStartupTuple(startupTuple(cmd))
	if err != nil {
		return err
	}

	settings := config.NewStore(params.DataDir)
	logConfig, err := settings.LoggingConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	logger, err := logging.New(logConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		logger = logging.NewDefault()
	}
	defer logger.Sync()
	settings.SetLogger(logger)

	rt, err := extension.Initialize(extension.ProcessHost{}, params,
		extension.WithLogger(logger),
		extension.WithSettings(settings),
	)
	if errors.Is(err, extension.ErrNoEndpoint) {
		return nil
	}
	if err != nil {
		return err
	}
	defer rt.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	waitForShutdown(ctx, rt.Extension(), logger)
	return nil
}

// waitForShutdown blocks until ctx is done. A failed connection is logged
// and the extension keeps running without it.
func waitForShutdown(ctx context.Context, ext *extension.Extension, logger *zap.Logger) {
	select {
	case <-ext.Ready():
		if connErr := ext.Err(); connErr != nil {
			logger.Warn("running without UI process connection", zap.Error(connErr))
		} else {
			logger.Info("web extension running", zap.String("version", version))
		}
	case <-ctx.Done():
	}

	<-ctx.Done()
	logger.Info("web extension shutting down")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
