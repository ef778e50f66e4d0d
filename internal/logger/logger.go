package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger represents the application logger
type Logger struct {
	*logrus.Logger
	config LogConfig
}

// LogConfig contains logger configuration
type LogConfig struct {
	Level       string
	Format      string // "json" or "text"
	LogToFile   bool
	LogFilePath string
	TradeLogDir string
}

// NewLogger creates a new logger instance
func NewLogger(config LogConfig) (*Logger, error) {
	log := logrus.New()

	// Set log level
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", config.Level, err)
	}
	log.SetLevel(level)

	// Always output to stdout first
	log.SetOutput(os.Stdout)

	// Set log format based on configuration
	switch strings.ToLower(config.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			ForceColors:     true,
			DisableQuote:    true,
		})
	default:
		// Default to a custom text format with clear timestamp
		log.SetFormatter(&CustomFormatter{})
	}

	// Create trade log directory if specified
	if config.TradeLogDir != "" {
		if err := os.MkdirAll(config.TradeLogDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create trade log directory %s: %w", config.TradeLogDir, err)
		}
	}

	// Optionally also log to file (in addition to stdout)
	if config.LogToFile && config.LogFilePath != "" {
		logDir := filepath.Dir(config.LogFilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	return &Logger{
		Logger: log,
		config: config,
	}, nil
}

// CustomFormatter provides a clean, timestamped format for console output
type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format("2006-01-02 15:04:05.000")
	level := strings.ToUpper(entry.Level.String())

	// Color coding for different log levels
	var levelColor string
	switch entry.Level {
	case logrus.DebugLevel:
		levelColor = "\033[36m" // Cyan
	case logrus.InfoLevel:
		levelColor = "\033[32m" // Green
	case logrus.WarnLevel:
		levelColor = "\033[33m" // Yellow
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		levelColor = "\033[31m" // Red
	default:
		levelColor = "\033[0m" // Reset
	}

	resetColor := "\033[0m"

	// Build the log message
	msg := fmt.Sprintf("%s [%s%s%s] %s",
		timestamp,
		levelColor,
		level,
		resetColor,
		entry.Message)

	// Add fields if present
	if len(entry.Data) > 0 {
		msg += " |"
		for key, value := range entry.Data {
			msg += fmt.Sprintf(" %s=%v", key, value)
		}
	}

	msg += "\n"
	return []byte(msg), nil
}

// WithField adds a field to the logger
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.Logger.WithField(key, value)
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	return l.Logger.WithFields(fields)
}

// WithError adds an error field to the logger
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.Logger.WithError(err)
}

// Sniper-specific logging methods

// LogTokenDiscovered logs when a new token is discovered on the stream
func (l *Logger) LogTokenDiscovered(mint, creator, name, symbol string) {
	l.WithFields(logrus.Fields{
		"event":     "token_discovered",
		"mint":      mint,
		"creator":   creator,
		"name":      name,
		"symbol":    symbol,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("🔍 New token discovered")
}

// LogWatchStatus logs the current observation status of a watched token
func (l *Logger) LogWatchStatus(mint string, status string, unmet []string) {
	l.WithFields(logrus.Fields{
		"event":     "watch_status",
		"mint":      mint,
		"status":    status,
		"unmet":     strings.Join(unmet, ","),
		"timestamp": time.Now().Format(time.RFC3339),
	}).Debug("👀 Watch status")
}

// LogTokenReady logs when a token has passed the momentum gate
func (l *Logger) LogTokenReady(mint string, trades int, volumeSOL, priceChangePct, concentration float64) {
	l.WithFields(logrus.Fields{
		"event":            "token_ready",
		"mint":             mint,
		"trades":           trades,
		"volume_sol":       volumeSOL,
		"price_change_pct": priceChangePct,
		"concentration":    concentration,
		"timestamp":        time.Now().Format(time.RFC3339),
	}).Info("🚀 Token passed momentum gate")
}

// LogTokenExpired logs when an observation window closed without entry
func (l *Logger) LogTokenExpired(mint string, unmet []string) {
	l.WithFields(logrus.Fields{
		"event":     "token_expired",
		"mint":      mint,
		"unmet":     strings.Join(unmet, ","),
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("⌛ Observation window expired")
}

// LogHolderData logs a completed holder concentration fetch
func (l *Logger) LogHolderData(mint string, concentration float64, holders int) {
	l.WithFields(logrus.Fields{
		"event":         "holder_data",
		"mint":          mint,
		"concentration": concentration,
		"holders":       holders,
		"timestamp":     time.Now().Format(time.RFC3339),
	}).Info("🐋 Holder concentration fetched")
}

// LogExitSignal logs when the exit engine fires for an open position
func (l *Logger) LogExitSignal(mint, reason string, pnlPct, price, peak float64) {
	l.WithFields(logrus.Fields{
		"event":      "exit_signal",
		"mint":       mint,
		"reason":     reason,
		"pnl_pct":    pnlPct,
		"price":      price,
		"peak_price": peak,
		"timestamp":  time.Now().Format(time.RFC3339),
	}).Info("🚪 Exit signal")
}

// LogTradeAttempt logs when a trade attempt is made
func (l *Logger) LogTradeAttempt(tradeType, mint string, amount float64, signature string) {
	l.WithFields(logrus.Fields{
		"event":     "trade_attempt",
		"type":      tradeType,
		"mint":      mint,
		"amount":    amount,
		"signature": signature,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("💰 Trade attempt initiated")
}

// LogTradeSuccess logs when a trade is successful
func (l *Logger) LogTradeSuccess(tradeType, mint string, amount float64, signature string, price float64) {
	l.WithFields(logrus.Fields{
		"event":     "trade_success",
		"type":      tradeType,
		"mint":      mint,
		"amount":    amount,
		"signature": signature,
		"price":     price,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("✅ Trade successful")
}

// LogTradeError logs when a trade fails
func (l *Logger) LogTradeError(tradeType, mint string, amount float64, err error) {
	l.WithFields(logrus.Fields{
		"event":     "trade_error",
		"type":      tradeType,
		"mint":      mint,
		"amount":    amount,
		"timestamp": time.Now().Format(time.RFC3339),
	}).WithError(err).Error("❌ Trade failed")
}

// LogError logs general errors with context
func (l *Logger) LogError(component, operation string, err error, fields logrus.Fields) {
	logFields := logrus.Fields{
		"event":     "error",
		"component": component,
		"operation": operation,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	// Merge additional fields
	for k, v := range fields {
		logFields[k] = v
	}

	l.WithFields(logFields).WithError(err).Error("💥 Component error")
}

// LogStartup logs application startup information
func (l *Logger) LogStartup(version, network, rpcUrl string) {
	l.WithFields(logrus.Fields{
		"event":     "startup",
		"version":   version,
		"network":   network,
		"rpc_url":   rpcUrl,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("🚀 Sniper starting up")
}

// LogShutdown logs application shutdown information
func (l *Logger) LogShutdown(reason string) {
	l.WithFields(logrus.Fields{
		"event":     "shutdown",
		"reason":    reason,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("🛑 Sniper shutting down")
}

// Context-aware logging methods

// WithComponent returns a logger with component context
func (l *Logger) WithComponent(component string) *logrus.Entry {
	return l.WithField("component", component)
}

// WithToken returns a logger with token context
func (l *Logger) WithToken(mint string) *logrus.Entry {
	return l.WithField("mint", mint)
}

// LogConnection logs connection status
func (l *Logger) LogConnection(service, status string, details interface{}) {
	l.WithFields(logrus.Fields{
		"event":     "connection",
		"service":   service,
		"status":    status,
		"details":   details,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("🔗 Connection status")
}

// LogBalance logs wallet balance information
func (l *Logger) LogBalance(balanceSOL float64, balanceLamports uint64) {
	l.WithFields(logrus.Fields{
		"event":            "balance_check",
		"balance_sol":      balanceSOL,
		"balance_lamports": balanceLamports,
		"timestamp":        time.Now().Format(time.RFC3339),
	}).Info("💰 Wallet balance")
}
