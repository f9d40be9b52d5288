package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goran-ethernal/swapwatch/internal/common"
	"github.com/goran-ethernal/swapwatch/internal/config"
	"github.com/goran-ethernal/swapwatch/internal/db"
	"github.com/goran-ethernal/swapwatch/internal/logger"
	"github.com/goran-ethernal/swapwatch/internal/metrics"
	"github.com/goran-ethernal/swapwatch/internal/rpc"
	"github.com/goran-ethernal/swapwatch/internal/store"
	"github.com/goran-ethernal/swapwatch/internal/swap"
	"github.com/goran-ethernal/swapwatch/internal/watcher"
	"github.com/goran-ethernal/swapwatch/pkg/api"
	pkgconfig "github.com/goran-ethernal/swapwatch/pkg/config"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║            swapwatch v%s               ║
║  Uniswap V3 DAI/USDC Swap Confirmation    ║
╚═══════════════════════════════════════════╝
`
)

var (
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "swapwatch",
	Short: "swapwatch - Uniswap V3 DAI/USDC swap watcher",
	Long: `swapwatch follows the Uniswap V3 DAI/USDC pool over a websocket head
subscription, decodes Swap events and holds each block in a confirmation
buffer until enough newer blocks have been observed. Confirmed swaps are
logged and optionally persisted to SQLite and served over a REST API.`,
	Version: version,
	RunE:    runWatcher,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration file JSON schema",
	Long:  `Print a JSON schema describing the swapwatch configuration file format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema := jsonschema.Reflect(&pkgconfig.Config{})
		encoded, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}
		fmt.Println(string(encoded))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.AddCommand(schemaCmd)
}

func runWatcher(cmd *cobra.Command, args []string) error {
	fmt.Printf(banner, version)

	// Load configuration
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	// Initialize logger
	log := logger.NewComponentLoggerFromConfig(common.ComponentWatcher, cfg.Logging)

	// Initialize RPC client
	log.Info("Connecting to Ethereum node...")
	ethClient, err := rpc.NewClient(ctx, cfg.Watcher.RPCURL, cfg.Watcher.Retry)
	if err != nil {
		return fmt.Errorf("failed to create RPC client: %w", err)
	}
	defer ethClient.Close()
	log.Infof("Connected to Ethereum node: %s", cfg.Watcher.RPCURL)

	// Initialize metrics server if enabled
	var metricsServer *metrics.Server
	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics)
		if err := metricsServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(ctx); err != nil {
				log.Warnf("Failed to stop metrics server: %v", err)
			}
		}()
		log.Infof("Metrics server started on %s%s", cfg.Metrics.ListenAddress, cfg.Metrics.Path)
	}

	// Confirmed swaps always go to the log; the store and API are optional.
	sinks := []watcher.Sink{
		watcher.NewLogSink(logger.NewComponentLoggerFromConfig(common.ComponentSink, cfg.Logging)),
	}

	var swapStore *store.Store
	if cfg.Store != nil {
		log.Info("Running database migrations...")
		storeLog := logger.NewComponentLoggerFromConfig(common.ComponentStore, cfg.Logging)
		if err := store.RunMigrations(storeLog, cfg.Store.DB); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		database, err := db.NewSQLiteDBFromConfig(cfg.Store.DB)
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}

		swapStore = store.New(database, storeLog)
		defer swapStore.Close()

		sinks = append(sinks, watcher.NewStoreSink(swapStore))
		log.Infof("Swap store initialized: %s", cfg.Store.DB.Path)
	}

	// Initialize watcher
	w, err := watcher.New(
		cfg.Watcher,
		ethClient,
		swap.NewParser(),
		sinks,
		logger.NewComponentLoggerFromConfig(common.ComponentWatcher, cfg.Logging),
	)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	// Start API server if enabled
	if cfg.API != nil && cfg.API.Enabled {
		apiServer := api.NewServer(
			cfg.API,
			swapStore,
			logger.NewComponentLoggerFromConfig(common.ComponentAPI, cfg.Logging),
		)
		group.Go(func() error {
			return apiServer.Start(groupCtx)
		})
	}

	// Start watching
	log.Info("Starting swapwatch...")
	group.Go(func() error {
		return w.Run(groupCtx)
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("swapwatch failed: %w", err)
	}

	log.Info("swapwatch stopped successfully")
	return nil
}
