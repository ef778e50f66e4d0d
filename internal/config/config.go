package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Network settings
	Network   string `mapstructure:"network" yaml:"network"`
	RPCUrl    string `mapstructure:"rpc_url" yaml:"rpc_url"`
	StreamURL string `mapstructure:"stream_url" yaml:"stream_url"`
	RPCAPIKey string `mapstructure:"rpc_api_key" yaml:"rpc_api_key"`

	// Wallet settings
	PrivateKey string `mapstructure:"private_key" yaml:"private_key"`
	Mnemonic   string `mapstructure:"mnemonic" yaml:"mnemonic"`

	// Momentum gate settings
	Momentum MomentumConfig `mapstructure:"momentum" yaml:"momentum"`

	// Exit rule settings
	Exit ExitConfig `mapstructure:"exit" yaml:"exit"`

	// Holder data settings
	Holders HoldersConfig `mapstructure:"holders" yaml:"holders"`

	// Price feed settings
	Feed FeedConfig `mapstructure:"feed" yaml:"feed"`

	// Trading settings
	Trading TradingConfig `mapstructure:"trading" yaml:"trading"`

	// Position store settings
	Positions PositionsConfig `mapstructure:"positions" yaml:"positions"`

	// Logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Advanced settings
	Advanced AdvancedConfig `mapstructure:"advanced" yaml:"advanced"`
}

// MomentumConfig contains the entry-gate thresholds
type MomentumConfig struct {
	MinTrades              int     `mapstructure:"min_trades" yaml:"min_trades"`
	MinVolumeSOL           float64 `mapstructure:"min_volume_sol" yaml:"min_volume_sol"`
	MinPriceChangePct      float64 `mapstructure:"min_price_change_pct" yaml:"min_price_change_pct"`
	MinUniqueTraders       int     `mapstructure:"min_unique_traders" yaml:"min_unique_traders"`
	MinBuyRatio            float64 `mapstructure:"min_buy_ratio" yaml:"min_buy_ratio"`
	MaxHolderConcentration float64 `mapstructure:"max_holder_concentration" yaml:"max_holder_concentration"`
	ObservationWindowMs    int64   `mapstructure:"observation_window_ms" yaml:"observation_window_ms"`
}

// ExitConfig contains the exit-rule thresholds
type ExitConfig struct {
	TakeProfitPct          float64 `mapstructure:"take_profit_pct" yaml:"take_profit_pct"`
	StopLossPct            float64 `mapstructure:"stop_loss_pct" yaml:"stop_loss_pct"`
	TrailingStopEnabled    bool    `mapstructure:"trailing_stop_enabled" yaml:"trailing_stop_enabled"`
	TrailingActivationPct  float64 `mapstructure:"trailing_activation_pct" yaml:"trailing_activation_pct"`
	TrailingDistancePct    float64 `mapstructure:"trailing_distance_pct" yaml:"trailing_distance_pct"`
	HolderDumpWatchCount   int     `mapstructure:"holder_dump_watch_count" yaml:"holder_dump_watch_count"`
	ExitOnAnyHolderSell    bool    `mapstructure:"exit_on_any_holder_sell" yaml:"exit_on_any_holder_sell"`
	HolderSellThresholdPct float64 `mapstructure:"holder_sell_threshold_pct" yaml:"holder_sell_threshold_pct"`
}

// HoldersConfig contains holder-data fetch settings
type HoldersConfig struct {
	TopN           int   `mapstructure:"top_n" yaml:"top_n"`
	FetchRetries   int   `mapstructure:"fetch_retries" yaml:"fetch_retries"`
	FetchTimeoutMs int64 `mapstructure:"fetch_timeout_ms" yaml:"fetch_timeout_ms"`
}

// FeedConfig contains price-feed settings
type FeedConfig struct {
	PollIntervalMs int64 `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
}

// TradingConfig contains trading-related settings
type TradingConfig struct {
	BuyAmountSOL float64 `mapstructure:"buy_amount_sol" yaml:"buy_amount_sol"`
	SlippageBP   int     `mapstructure:"slippage_bp" yaml:"slippage_bp"`
	PriorityFee  uint64  `mapstructure:"priority_fee" yaml:"priority_fee"`
	DryRun       bool    `mapstructure:"dry_run" yaml:"dry_run"`
}

// PositionsConfig contains position persistence settings
type PositionsConfig struct {
	PersistPath string `mapstructure:"persist_path" yaml:"persist_path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	LogToFile   bool   `mapstructure:"log_to_file" yaml:"log_to_file"`
	LogFilePath string `mapstructure:"log_file_path" yaml:"log_file_path"`
	TradeLogDir string `mapstructure:"trade_log_dir" yaml:"trade_log_dir"`
}

// AdvancedConfig contains advanced settings
type AdvancedConfig struct {
	MaxRetries        int  `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelayMs      int  `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`
	ConfirmTimeoutSec int  `mapstructure:"confirm_timeout_sec" yaml:"confirm_timeout_sec"`
	EnableMetrics     bool `mapstructure:"enable_metrics" yaml:"enable_metrics"`
	MetricsPort       int  `mapstructure:"metrics_port" yaml:"metrics_port"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string, envPath string) (*Config, error) {
	config := &Config{}

	// First, load .env file if specified or default locations
	if err := loadEnvFile(envPath); err != nil {
		fmt.Printf("Warning: Failed to load .env file: %v\n", err)
	}

	// Set default values
	setDefaults()

	// Set config file path
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// Look for config in current directory and common config directories
		viper.SetConfigName("sniper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("$HOME/.pump-sniper")
		viper.AddConfigPath("/etc/pump-sniper/")
	}

	// Enable reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("SNIPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Manually bind environment variables that viper might miss
	bindEnvVariables()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, continue with defaults and env vars
		fmt.Printf("Config file not found, using environment variables and defaults\n")
	} else {
		fmt.Printf("Using config file: %s\n", viper.ConfigFileUsed())
	}

	// Unmarshal config
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate and post-process config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// loadEnvFile loads environment variables from .env file
func loadEnvFile(envPath string) error {
	var envFiles []string

	// If specific path provided, use it first
	if envPath != "" {
		envFiles = append(envFiles, envPath)
	}

	// Add default .env file locations
	envFiles = append(envFiles, []string{
		".env",
		"./.env",
		"configs/.env",
	}...)

	var envFile string
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			envFile = file
			break
		}
	}

	if envFile == "" {
		if envPath != "" {
			return fmt.Errorf("specified .env file not found: %s", envPath)
		}
		return fmt.Errorf(".env file not found in any of the expected locations: %v", envFiles)
	}

	fmt.Printf("Loading .env file from: %s\n", envFile)

	file, err := os.Open(envFile)
	if err != nil {
		return fmt.Errorf("failed to open .env file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	loadedCount := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE format
		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				key := strings.TrimSpace(parts[0])
				value := strings.TrimSpace(parts[1])

				// Remove quotes if present
				if len(value) >= 2 {
					if (strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"")) ||
						(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
						value = value[1 : len(value)-1]
					}
				}

				// Set environment variable
				if err := os.Setenv(key, value); err == nil {
					loadedCount++
					if strings.Contains(key, "KEY") || strings.Contains(key, "MNEMONIC") {
						fmt.Printf("Loaded from .env: %s=[HIDDEN]\n", key)
					} else {
						fmt.Printf("Loaded from .env: %s=%s\n", key, value)
					}
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	fmt.Printf("Successfully loaded %d environment variables from %s\n", loadedCount, envFile)
	return nil
}

// bindEnvVariables manually binds environment variables that viper might miss
func bindEnvVariables() {
	// Top-level variables
	viper.BindEnv("network", "SNIPER_NETWORK")
	viper.BindEnv("rpc_url", "SNIPER_RPC_URL")
	viper.BindEnv("stream_url", "SNIPER_STREAM_URL")
	viper.BindEnv("rpc_api_key", "SNIPER_RPC_API_KEY")
	viper.BindEnv("private_key", "SNIPER_PRIVATE_KEY")
	viper.BindEnv("mnemonic", "SNIPER_MNEMONIC")

	// Momentum variables
	viper.BindEnv("momentum.min_trades", "SNIPER_MOMENTUM_MIN_TRADES")
	viper.BindEnv("momentum.min_volume_sol", "SNIPER_MOMENTUM_MIN_VOLUME_SOL")
	viper.BindEnv("momentum.min_price_change_pct", "SNIPER_MOMENTUM_MIN_PRICE_CHANGE_PCT")
	viper.BindEnv("momentum.min_unique_traders", "SNIPER_MOMENTUM_MIN_UNIQUE_TRADERS")
	viper.BindEnv("momentum.min_buy_ratio", "SNIPER_MOMENTUM_MIN_BUY_RATIO")
	viper.BindEnv("momentum.max_holder_concentration", "SNIPER_MOMENTUM_MAX_HOLDER_CONCENTRATION")
	viper.BindEnv("momentum.observation_window_ms", "SNIPER_MOMENTUM_OBSERVATION_WINDOW_MS")

	// Exit variables
	viper.BindEnv("exit.take_profit_pct", "SNIPER_EXIT_TAKE_PROFIT_PCT")
	viper.BindEnv("exit.stop_loss_pct", "SNIPER_EXIT_STOP_LOSS_PCT")
	viper.BindEnv("exit.trailing_stop_enabled", "SNIPER_EXIT_TRAILING_STOP_ENABLED")
	viper.BindEnv("exit.trailing_activation_pct", "SNIPER_EXIT_TRAILING_ACTIVATION_PCT")
	viper.BindEnv("exit.trailing_distance_pct", "SNIPER_EXIT_TRAILING_DISTANCE_PCT")
	viper.BindEnv("exit.holder_dump_watch_count", "SNIPER_EXIT_HOLDER_DUMP_WATCH_COUNT")
	viper.BindEnv("exit.exit_on_any_holder_sell", "SNIPER_EXIT_EXIT_ON_ANY_HOLDER_SELL")

	// Holder data variables
	viper.BindEnv("holders.top_n", "SNIPER_HOLDERS_TOP_N")
	viper.BindEnv("holders.fetch_retries", "SNIPER_HOLDERS_FETCH_RETRIES")

	// Feed variables
	viper.BindEnv("feed.poll_interval_ms", "SNIPER_FEED_POLL_INTERVAL_MS")

	// Trading variables
	viper.BindEnv("trading.buy_amount_sol", "SNIPER_TRADING_BUY_AMOUNT_SOL")
	viper.BindEnv("trading.slippage_bp", "SNIPER_TRADING_SLIPPAGE_BP")
	viper.BindEnv("trading.priority_fee", "SNIPER_TRADING_PRIORITY_FEE")
	viper.BindEnv("trading.dry_run", "SNIPER_TRADING_DRY_RUN")

	// Logging variables
	viper.BindEnv("logging.level", "SNIPER_LOGGING_LEVEL")
	viper.BindEnv("logging.format", "SNIPER_LOGGING_FORMAT")
	viper.BindEnv("logging.log_to_file", "SNIPER_LOGGING_LOG_TO_FILE")
}

// setDefaults sets default configuration values
func setDefaults() {
	// Network defaults
	viper.SetDefault("network", "mainnet")
	viper.SetDefault("rpc_url", "")
	viper.SetDefault("stream_url", DefaultStreamURL)

	// Momentum defaults
	viper.SetDefault("momentum.min_trades", 3)
	viper.SetDefault("momentum.min_volume_sol", 0.2)
	viper.SetDefault("momentum.min_price_change_pct", 2.0)
	viper.SetDefault("momentum.min_unique_traders", 2)
	viper.SetDefault("momentum.min_buy_ratio", 0.5)
	viper.SetDefault("momentum.max_holder_concentration", 0.5)
	viper.SetDefault("momentum.observation_window_ms", 5000)

	// Exit defaults
	viper.SetDefault("exit.take_profit_pct", 50.0)
	viper.SetDefault("exit.stop_loss_pct", 20.0)
	viper.SetDefault("exit.trailing_stop_enabled", true)
	viper.SetDefault("exit.trailing_activation_pct", 10.0)
	viper.SetDefault("exit.trailing_distance_pct", 15.0)
	viper.SetDefault("exit.holder_dump_watch_count", 3)
	viper.SetDefault("exit.exit_on_any_holder_sell", false)
	viper.SetDefault("exit.holder_sell_threshold_pct", 50.0)

	// Holder data defaults
	viper.SetDefault("holders.top_n", 10)
	viper.SetDefault("holders.fetch_retries", 2)
	viper.SetDefault("holders.fetch_timeout_ms", 3000)

	// Feed defaults
	viper.SetDefault("feed.poll_interval_ms", 500)

	// Trading defaults
	viper.SetDefault("trading.buy_amount_sol", DefaultBuyAmountSOL)
	viper.SetDefault("trading.slippage_bp", DefaultSlippageBP)
	viper.SetDefault("trading.priority_fee", 0)
	viper.SetDefault("trading.dry_run", false)

	// Position defaults
	viper.SetDefault("positions.persist_path", "data/positions.json")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.log_to_file", false)
	viper.SetDefault("logging.log_file_path", "logs/sniper.log")
	viper.SetDefault("logging.trade_log_dir", "trades")

	// Advanced defaults
	viper.SetDefault("advanced.max_retries", MaxRetries)
	viper.SetDefault("advanced.retry_delay_ms", RetryDelayMs)
	viper.SetDefault("advanced.confirm_timeout_sec", ConfirmTimeoutSec)
	viper.SetDefault("advanced.enable_metrics", false)
	viper.SetDefault("advanced.metrics_port", 8080)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	// Set RPC URL if not provided
	if config.RPCUrl == "" {
		config.RPCUrl = GetRPCEndpoint(config.Network)
	}
	if config.StreamURL == "" {
		config.StreamURL = DefaultStreamURL
	}

	// Wallet is optional in dry-run mode
	if !config.Trading.DryRun && config.PrivateKey == "" && config.Mnemonic == "" {
		return fmt.Errorf("private_key or mnemonic is required unless trading.dry_run is set")
	}

	// Validate momentum thresholds
	if config.Momentum.MinTrades < 1 {
		return fmt.Errorf("momentum.min_trades must be at least 1")
	}
	if config.Momentum.MinVolumeSOL < 0 {
		return fmt.Errorf("momentum.min_volume_sol must be non-negative")
	}
	if config.Momentum.MinPriceChangePct < 0 {
		return fmt.Errorf("momentum.min_price_change_pct must be non-negative")
	}
	if config.Momentum.MinUniqueTraders < 1 {
		return fmt.Errorf("momentum.min_unique_traders must be at least 1")
	}
	if config.Momentum.MinBuyRatio < 0 || config.Momentum.MinBuyRatio > 1 {
		return fmt.Errorf("momentum.min_buy_ratio must be between 0 and 1")
	}
	if config.Momentum.MaxHolderConcentration < 0 || config.Momentum.MaxHolderConcentration > 1 {
		return fmt.Errorf("momentum.max_holder_concentration must be between 0 and 1")
	}
	if config.Momentum.ObservationWindowMs <= 0 {
		return fmt.Errorf("momentum.observation_window_ms must be positive")
	}

	// Validate exit thresholds
	if config.Exit.TakeProfitPct <= 0 {
		return fmt.Errorf("exit.take_profit_pct must be positive")
	}
	if config.Exit.StopLossPct <= 0 {
		return fmt.Errorf("exit.stop_loss_pct must be positive (it is applied as a loss magnitude)")
	}
	if config.Exit.TrailingStopEnabled {
		if config.Exit.TrailingActivationPct < 0 {
			return fmt.Errorf("exit.trailing_activation_pct must be non-negative")
		}
		if config.Exit.TrailingDistancePct <= 0 {
			return fmt.Errorf("exit.trailing_distance_pct must be positive")
		}
	}
	if config.Exit.HolderDumpWatchCount < 0 {
		return fmt.Errorf("exit.holder_dump_watch_count must be non-negative")
	}

	// Validate holder fetch settings
	if config.Holders.TopN < 1 {
		return fmt.Errorf("holders.top_n must be at least 1")
	}
	if config.Holders.FetchRetries < 0 {
		return fmt.Errorf("holders.fetch_retries must be non-negative")
	}

	// Validate feed settings
	if config.Feed.PollIntervalMs < 100 {
		return fmt.Errorf("feed.poll_interval_ms must be at least 100")
	}

	// Validate trading amounts
	if config.Trading.BuyAmountSOL < MinTradeAmountSOL {
		return fmt.Errorf("buy_amount_sol must be at least %f", MinTradeAmountSOL)
	}
	if config.Trading.BuyAmountSOL > MaxTradeAmountSOL {
		return fmt.Errorf("buy_amount_sol must not exceed %f", MaxTradeAmountSOL)
	}
	if config.Trading.SlippageBP < 10 || config.Trading.SlippageBP > 5000 {
		return fmt.Errorf("slippage_bp must be between 10 and 5000 (0.1%% to 50%%)")
	}

	// Create log directories if they don't exist
	if config.Logging.LogToFile {
		logDir := filepath.Dir(config.Logging.LogFilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	if err := os.MkdirAll(config.Logging.TradeLogDir, 0755); err != nil {
		return fmt.Errorf("failed to create trade log directory %s: %w", config.Logging.TradeLogDir, err)
	}

	if config.Positions.PersistPath != "" {
		if err := os.MkdirAll(filepath.Dir(config.Positions.PersistPath), 0755); err != nil {
			return fmt.Errorf("failed to create position data directory: %w", err)
		}
	}

	return nil
}

// GetConfigFromEnv loads configuration from environment variables only
func GetConfigFromEnv(envPath string) *Config {
	fmt.Printf("Loading configuration from environment variables only...\n")

	// Load .env file first
	if err := loadEnvFile(envPath); err != nil {
		fmt.Printf("Warning: Failed to load .env file: %v\n", err)
	}

	config := &Config{
		Network:    getEnvString("SNIPER_NETWORK", "mainnet"),
		RPCUrl:     getEnvString("SNIPER_RPC_URL", ""),
		StreamURL:  getEnvString("SNIPER_STREAM_URL", DefaultStreamURL),
		RPCAPIKey:  getEnvString("SNIPER_RPC_API_KEY", ""),
		PrivateKey: getEnvString("SNIPER_PRIVATE_KEY", ""),
		Mnemonic:   getEnvString("SNIPER_MNEMONIC", ""),
		Momentum: MomentumConfig{
			MinTrades:              getEnvInt("SNIPER_MOMENTUM_MIN_TRADES", 3),
			MinVolumeSOL:           getEnvFloat("SNIPER_MOMENTUM_MIN_VOLUME_SOL", 0.2),
			MinPriceChangePct:      getEnvFloat("SNIPER_MOMENTUM_MIN_PRICE_CHANGE_PCT", 2.0),
			MinUniqueTraders:       getEnvInt("SNIPER_MOMENTUM_MIN_UNIQUE_TRADERS", 2),
			MinBuyRatio:            getEnvFloat("SNIPER_MOMENTUM_MIN_BUY_RATIO", 0.5),
			MaxHolderConcentration: getEnvFloat("SNIPER_MOMENTUM_MAX_HOLDER_CONCENTRATION", 0.5),
			ObservationWindowMs:    getEnvInt64("SNIPER_MOMENTUM_OBSERVATION_WINDOW_MS", 5000),
		},
		Exit: ExitConfig{
			TakeProfitPct:          getEnvFloat("SNIPER_EXIT_TAKE_PROFIT_PCT", 50.0),
			StopLossPct:            getEnvFloat("SNIPER_EXIT_STOP_LOSS_PCT", 20.0),
			TrailingStopEnabled:    getEnvBool("SNIPER_EXIT_TRAILING_STOP_ENABLED", true),
			TrailingActivationPct:  getEnvFloat("SNIPER_EXIT_TRAILING_ACTIVATION_PCT", 10.0),
			TrailingDistancePct:    getEnvFloat("SNIPER_EXIT_TRAILING_DISTANCE_PCT", 15.0),
			HolderDumpWatchCount:   getEnvInt("SNIPER_EXIT_HOLDER_DUMP_WATCH_COUNT", 3),
			ExitOnAnyHolderSell:    getEnvBool("SNIPER_EXIT_EXIT_ON_ANY_HOLDER_SELL", false),
			HolderSellThresholdPct: getEnvFloat("SNIPER_EXIT_HOLDER_SELL_THRESHOLD_PCT", 50.0),
		},
		Holders: HoldersConfig{
			TopN:           getEnvInt("SNIPER_HOLDERS_TOP_N", 10),
			FetchRetries:   getEnvInt("SNIPER_HOLDERS_FETCH_RETRIES", 2),
			FetchTimeoutMs: getEnvInt64("SNIPER_HOLDERS_FETCH_TIMEOUT_MS", 3000),
		},
		Feed: FeedConfig{
			PollIntervalMs: getEnvInt64("SNIPER_FEED_POLL_INTERVAL_MS", 500),
		},
		Trading: TradingConfig{
			BuyAmountSOL: getEnvFloat("SNIPER_TRADING_BUY_AMOUNT_SOL", DefaultBuyAmountSOL),
			SlippageBP:   getEnvInt("SNIPER_TRADING_SLIPPAGE_BP", DefaultSlippageBP),
			PriorityFee:  uint64(getEnvInt("SNIPER_TRADING_PRIORITY_FEE", 0)),
			DryRun:       getEnvBool("SNIPER_TRADING_DRY_RUN", false),
		},
		Positions: PositionsConfig{
			PersistPath: getEnvString("SNIPER_POSITIONS_PERSIST_PATH", "data/positions.json"),
		},
		Logging: LoggingConfig{
			Level:       getEnvString("SNIPER_LOGGING_LEVEL", "info"),
			Format:      getEnvString("SNIPER_LOGGING_FORMAT", "text"),
			LogToFile:   getEnvBool("SNIPER_LOGGING_LOG_TO_FILE", false),
			LogFilePath: getEnvString("SNIPER_LOGGING_LOG_FILE_PATH", "logs/sniper.log"),
			TradeLogDir: getEnvString("SNIPER_LOGGING_TRADE_LOG_DIR", "trades"),
		},
		Advanced: AdvancedConfig{
			MaxRetries:        getEnvInt("SNIPER_ADVANCED_MAX_RETRIES", MaxRetries),
			RetryDelayMs:      getEnvInt("SNIPER_ADVANCED_RETRY_DELAY_MS", RetryDelayMs),
			ConfirmTimeoutSec: getEnvInt("SNIPER_ADVANCED_CONFIRM_TIMEOUT_SEC", ConfirmTimeoutSec),
			EnableMetrics:     getEnvBool("SNIPER_ADVANCED_ENABLE_METRICS", false),
			MetricsPort:       getEnvInt("SNIPER_ADVANCED_METRICS_PORT", 8080),
		},
	}

	// Set URL if not provided via environment
	if config.RPCUrl == "" {
		config.RPCUrl = GetRPCEndpoint(config.Network)
		fmt.Printf("Using default RPC URL for %s: %s\n", config.Network, config.RPCUrl)
	} else {
		fmt.Printf("Using custom RPC URL: %s\n", config.RPCUrl)
	}

	return config
}

// Duration helper methods

// GetObservationWindow returns the momentum observation window as a duration
func (c *Config) GetObservationWindow() time.Duration {
	return time.Duration(c.Momentum.ObservationWindowMs) * time.Millisecond
}

// GetFeedPollInterval returns the price feed poll interval as a duration
func (c *Config) GetFeedPollInterval() time.Duration {
	return time.Duration(c.Feed.PollIntervalMs) * time.Millisecond
}

// GetHolderFetchTimeout returns the per-attempt holder fetch timeout
func (c *Config) GetHolderFetchTimeout() time.Duration {
	return time.Duration(c.Holders.FetchTimeoutMs) * time.Millisecond
}

// Helper functions for environment variables
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}
