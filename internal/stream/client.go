package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client maintains the PumpPortal WebSocket connection and turns the
// raw feed into typed create/trade events
type Client struct {
	url            string
	conn           *websocket.Conn
	logger         *logrus.Logger
	mu             sync.RWMutex
	ctx            context.Context
	cancel         context.CancelFunc
	reconnectDelay time.Duration

	creates chan *CreateEvent
	trades  chan *TradeEvent

	// Mints with an active token trade subscription, replayed after
	// reconnect
	tradeSubs map[string]struct{}

	subscribedNewTokens bool

	messagesReceived int
	reconnectCount   int
	lastActivity     time.Time
}

// subscribeMessage is a PumpPortal control frame
type subscribeMessage struct {
	Method string   `json:"method"`
	Keys   []string `json:"keys,omitempty"`
}

// NewClient creates a stream client for the given WebSocket URL
func NewClient(url string, logger *logrus.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		url:            url,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		reconnectDelay: 5 * time.Second,
		creates:        make(chan *CreateEvent, 256),
		trades:         make(chan *TradeEvent, 1024),
		tradeSubs:      make(map[string]struct{}),
		lastActivity:   time.Now(),
	}
}

// Creates returns the channel of new token launches
func (c *Client) Creates() <-chan *CreateEvent {
	return c.creates
}

// Trades returns the channel of trade events for subscribed tokens
func (c *Client) Trades() <-chan *TradeEvent {
	return c.trades
}

// Connect establishes the WebSocket connection and starts the reader
func (c *Client) Connect() error {
	c.logger.WithField("url", c.url).Info("🔌 Connecting to trade stream...")

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, resp, err := dialer.Dial(c.url, nil)
	if err != nil {
		if resp != nil {
			c.logger.WithFields(logrus.Fields{
				"status":      resp.Status,
				"status_code": resp.StatusCode,
				"url":         c.url,
			}).Error("❌ Stream connection failed")
		}
		return fmt.Errorf("failed to connect to stream: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.lastActivity = time.Now()
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"url":    c.url,
		"status": "connected",
	}).Info("✅ Stream connected successfully")

	conn.SetReadLimit(1024 * 1024)
	conn.SetPongHandler(func(string) error {
		c.mu.Lock()
		c.lastActivity = time.Now()
		c.mu.Unlock()
		return nil
	})

	go c.readLoop()
	go c.pingHandler()
	go c.connectionMonitor()

	return nil
}

// Disconnect closes the connection and stops the background goroutines
func (c *Client) Disconnect() error {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}

	return nil
}

// SubscribeNewTokens subscribes to token creation events
func (c *Client) SubscribeNewTokens() error {
	c.mu.Lock()
	c.subscribedNewTokens = true
	c.mu.Unlock()

	c.logger.Info("📡 Subscribing to new token launches")
	return c.sendMessage(subscribeMessage{Method: "subscribeNewToken"})
}

// SubscribeTokenTrades subscribes to trades on the given mints
func (c *Client) SubscribeTokenTrades(mints ...string) error {
	if len(mints) == 0 {
		return nil
	}

	c.mu.Lock()
	for _, mint := range mints {
		c.tradeSubs[mint] = struct{}{}
	}
	c.mu.Unlock()

	c.logger.WithField("mints", len(mints)).Debug("📡 Subscribing to token trades")
	return c.sendMessage(subscribeMessage{Method: "subscribeTokenTrade", Keys: mints})
}

// UnsubscribeTokenTrades stops trade events for the given mints
func (c *Client) UnsubscribeTokenTrades(mints ...string) error {
	if len(mints) == 0 {
		return nil
	}

	c.mu.Lock()
	for _, mint := range mints {
		delete(c.tradeSubs, mint)
	}
	c.mu.Unlock()

	c.logger.WithField("mints", len(mints)).Debug("🗑️ Unsubscribing from token trades")
	return c.sendMessage(subscribeMessage{Method: "unsubscribeTokenTrade", Keys: mints})
}

// sendMessage writes a control frame to the stream
func (c *Client) sendMessage(message subscribeMessage) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("stream not connected")
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return conn.WriteMessage(websocket.TextMessage, data)
}

// readLoop reads frames, decodes them, and dispatches typed events
func (c *Client) readLoop() {
	defer c.logger.Info("🛑 Stream reader stopped")

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			c.mu.RLock()
			conn := c.conn
			c.mu.RUnlock()

			if conn == nil {
				c.logger.Warn("⚠️ Stream connection lost, attempting to reconnect...")
				if err := c.attemptReconnect(); err != nil {
					c.logger.WithError(err).Error("❌ Stream reconnection failed")
					select {
					case <-c.ctx.Done():
						return
					case <-time.After(c.reconnectDelay):
					}
				}
				continue
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					c.logger.WithError(err).Error("❌ Stream read error")
				}

				c.mu.Lock()
				c.conn = nil
				c.mu.Unlock()

				continue
			}

			c.mu.Lock()
			c.messagesReceived++
			c.lastActivity = time.Now()
			c.mu.Unlock()

			create, trade, err := parseEvent(data, time.Now())
			if err != nil {
				c.logger.WithError(err).Debug("❓ Unparseable stream message")
				continue
			}

			switch {
			case create != nil:
				select {
				case c.creates <- create:
				default:
					c.logger.WithField("mint", create.Mint).Warn("⚠️ Create channel full, dropping event")
				}
			case trade != nil:
				select {
				case c.trades <- trade:
				default:
					c.logger.WithField("mint", trade.Mint).Warn("⚠️ Trade channel full, dropping event")
				}
			}
		}
	}
}

// attemptReconnect reconnects and replays active subscriptions
func (c *Client) attemptReconnect() error {
	c.mu.Lock()
	c.reconnectCount++
	attempt := c.reconnectCount
	c.mu.Unlock()

	c.logger.WithField("attempt", attempt).Info("🔄 Attempting to reconnect stream...")

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("reconnection failed: %w", err)
	}

	conn.SetReadLimit(1024 * 1024)
	conn.SetPongHandler(func(string) error {
		c.mu.Lock()
		c.lastActivity = time.Now()
		c.mu.Unlock()
		return nil
	})

	c.mu.Lock()
	c.conn = conn
	c.lastActivity = time.Now()
	resubNewTokens := c.subscribedNewTokens
	mints := make([]string, 0, len(c.tradeSubs))
	for mint := range c.tradeSubs {
		mints = append(mints, mint)
	}
	c.mu.Unlock()

	if resubNewTokens {
		if err := c.sendMessage(subscribeMessage{Method: "subscribeNewToken"}); err != nil {
			c.logger.WithError(err).Error("❌ Failed to resubscribe to new tokens")
		}
	}

	if len(mints) > 0 {
		if err := c.sendMessage(subscribeMessage{Method: "subscribeTokenTrade", Keys: mints}); err != nil {
			c.logger.WithError(err).Error("❌ Failed to resubscribe to token trades")
		}
	}

	c.logger.WithFields(logrus.Fields{
		"reconnect_count": attempt,
		"resubscribed":    len(mints),
	}).Info("✅ Stream reconnected successfully")

	return nil
}

// pingHandler sends periodic pings and flags stale connections
func (c *Client) pingHandler() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.mu.RLock()
			conn := c.conn
			lastActivity := c.lastActivity
			c.mu.RUnlock()

			if conn != nil {
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					c.logger.WithError(err).Debug("❌ Failed to send ping")
				}

				if time.Since(lastActivity) > 2*time.Minute {
					c.logger.WithField("last_activity", lastActivity).Warn("⚠️ Stream appears stale - no activity for 2+ minutes")
				}
			}
		}
	}
}

// connectionMonitor reports stream health periodically
func (c *Client) connectionMonitor() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.mu.RLock()
			stats := logrus.Fields{
				"messages_received":   c.messagesReceived,
				"trade_subscriptions": len(c.tradeSubs),
				"reconnect_count":     c.reconnectCount,
				"last_activity":       c.lastActivity,
				"connection_active":   c.conn != nil,
			}
			c.mu.RUnlock()

			c.logger.WithFields(stats).Info("📊 Stream connection statistics")
		}
	}
}
