package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pump-sniper-go/internal/config"
	"pump-sniper-go/internal/executor"
	"pump-sniper-go/internal/feed"
	"pump-sniper-go/internal/holders"
	"pump-sniper-go/internal/logger"
	"pump-sniper-go/internal/metrics"
	"pump-sniper-go/internal/momentum"
	"pump-sniper-go/internal/position"
	"pump-sniper-go/internal/sniper"
	"pump-sniper-go/internal/solana"
	"pump-sniper-go/internal/stream"
	"pump-sniper-go/internal/wallet"
)

const Version = "1.0.0"

// CLI flags
var (
	configFile = flag.String("config", "", "Path to config file")
	envFile    = flag.String("env", "", "Path to .env file")
	network    = flag.String("network", "", "Network to use (mainnet/devnet)")
	logLevel   = flag.String("log-level", "", "Log level (debug/info/warn/error)")
	dryRun     = flag.Bool("dry-run", false, "Dry run mode (no actual trades)")

	buyAmountSOL = flag.Float64("buy-sol", 0, "Amount of SOL to spend per entry")
	windowMs     = flag.Int64("window-ms", 0, "Observation window in milliseconds")
)

// App owns the wired components and their lifecycle
type App struct {
	config       *config.Config
	logger       *logger.Logger
	tradeLogger  *logger.TradeLogger
	solanaClient *solana.Client
	streamClient *stream.Client
	wallet       *wallet.Wallet
	metrics      *metrics.Metrics
	sniper       *sniper.Sniper
	ctx          context.Context
	cancel       context.CancelFunc
}

func main() {
	flag.Parse()

	cfg := loadConfigurationWithOverrides()
	log := initializeLogger(cfg)

	app, err := NewApp(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create application")
	}

	if err := app.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start application")
	}
}

func loadConfigurationWithOverrides() *config.Config {
	configPath := "configs/sniper.yaml"
	if *configFile != "" {
		configPath = *configFile
	}

	cfg, err := config.LoadConfig(configPath, *envFile)
	if err != nil {
		fmt.Printf("Warning: Failed to load YAML config (%v), using environment variables only\n", err)
		cfg = config.GetConfigFromEnv(*envFile)
	}

	applyCliOverrides(cfg)

	return cfg
}

func applyCliOverrides(cfg *config.Config) {
	if *network != "" {
		cfg.Network = *network
		cfg.RPCUrl = config.GetRPCEndpoint(*network)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *dryRun {
		cfg.Trading.DryRun = true
	}
	if *buyAmountSOL > 0 {
		cfg.Trading.BuyAmountSOL = *buyAmountSOL
	}
	if *windowMs > 0 {
		cfg.Momentum.ObservationWindowMs = *windowMs
	}
}

func initializeLogger(cfg *config.Config) *logger.Logger {
	logConfig := logger.LogConfig{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		LogToFile:   cfg.Logging.LogToFile,
		LogFilePath: cfg.Logging.LogFilePath,
		TradeLogDir: cfg.Logging.TradeLogDir,
	}

	log, err := logger.NewLogger(logConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	return log
}

// NewApp wires the pipeline together
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	tradeLogger, err := logger.NewTradeLogger(cfg.Logging.TradeLogDir, log)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create trade logger: %w", err)
	}

	solanaClient := solana.NewClient(solana.ClientConfig{
		Endpoint: cfg.RPCUrl,
		APIKey:   cfg.RPCAPIKey,
		Timeout:  30 * time.Second,
	}, log.Logger)

	streamClient := stream.NewClient(cfg.StreamURL, log.Logger)

	// The wallet is optional in dry-run mode
	var walletInstance *wallet.Wallet
	if cfg.PrivateKey != "" || cfg.Mnemonic != "" {
		walletInstance, err = wallet.NewWallet(wallet.WalletConfig{
			PrivateKey: cfg.PrivateKey,
			Mnemonic:   cfg.Mnemonic,
			Network:    cfg.Network,
		}, solanaClient, log.Logger, cfg)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to create wallet: %w", err)
		}
	} else if !cfg.Trading.DryRun {
		cancel()
		return nil, fmt.Errorf("wallet credentials required outside dry-run mode")
	}

	var metricsInstance *metrics.Metrics
	if cfg.Advanced.EnableMetrics {
		metricsInstance = metrics.New(log.Logger)
	}

	store := position.NewStore()
	validator := momentum.NewValidator(momentum.ThresholdsFromConfig(cfg))
	exec := executor.NewExecutor(walletInstance, solanaClient, log, tradeLogger, cfg)
	curveReader := feed.NewCurveReader(solanaClient)
	poller := feed.NewPoller(curveReader, store, cfg, log)
	watcher := holders.NewWatcher(cfg.Exit.HolderDumpWatchCount, cfg.Exit.ExitOnAnyHolderSell, cfg.Exit.HolderSellThresholdPct)

	app := &App{
		config:       cfg,
		logger:       log,
		tradeLogger:  tradeLogger,
		solanaClient: solanaClient,
		streamClient: streamClient,
		wallet:       walletInstance,
		metrics:      metricsInstance,
		ctx:          ctx,
		cancel:       cancel,
	}

	deps := sniper.Deps{
		Config:      cfg,
		Logger:      log,
		TradeLogger: tradeLogger,
		Stream:      streamClient,
		Watcher:     watcher,
		Poller:      poller,
		Executor:    exec,
		Metrics:     metricsInstance,
		Store:       store,
		Validator:   validator,
	}

	app.sniper = sniper.New(deps)
	fetcher := holders.NewFetcher(solanaClient, cfg, log, app.sniper.DistSink)
	app.sniper.SetFetcher(fetcher)

	return app, nil
}

// Start runs the application until interrupted
func (a *App) Start() error {
	a.logger.LogStartup(Version, a.config.Network, a.config.RPCUrl)

	if a.config.Trading.DryRun {
		a.logger.Warn("🧪 Dry run mode - trades will be logged but not submitted")
	}

	if a.wallet != nil {
		balance, err := a.wallet.GetBalanceSOL(a.ctx)
		if err != nil {
			a.logger.WithError(err).Warn("⚠️ Could not fetch wallet balance")
		} else {
			a.logger.LogBalance(balance, config.ConvertSOLToLamports(balance))
		}
	}

	if a.metrics != nil {
		a.metrics.Serve(a.config.Advanced.MetricsPort)
	}

	if err := a.streamClient.Connect(); err != nil {
		return fmt.Errorf("failed to connect stream: %w", err)
	}

	if err := a.sniper.Start(); err != nil {
		return fmt.Errorf("failed to start sniper: %w", err)
	}

	a.waitForShutdown()
	return nil
}

// waitForShutdown blocks until SIGINT/SIGTERM, then tears down in order
func (a *App) waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.LogShutdown(sig.String())

	a.sniper.Stop()

	if err := a.streamClient.Disconnect(); err != nil {
		a.logger.WithError(err).Debug("Stream disconnect error")
	}

	if a.metrics != nil {
		if err := a.metrics.Shutdown(a.ctx); err != nil {
			a.logger.WithError(err).Debug("Metrics shutdown error")
		}
	}

	a.cancel()
	a.logger.Info("👋 Shutdown complete")
}
