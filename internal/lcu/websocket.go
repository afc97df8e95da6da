package lcu

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// EventType represents LCU WebSocket event types
type EventType int

const (
	EventTypeSubscribe   EventType = 5
	EventTypeUnsubscribe EventType = 6
	EventTypeEvent       EventType = 8

	champSelectEvent = "OnJsonApiEvent_lol-champ-select_v1_session"
)

// ChampSelectHandler is called when champ select state changes. session is
// nil when champ select ends.
type ChampSelectHandler func(session *ChampSelectSession, inChampSelect bool)

// WebSocketClient handles LCU WebSocket connection
type WebSocketClient struct {
	logger *zap.Logger

	mu          sync.Mutex
	conn        *websocket.Conn
	isConnected bool
	done        chan struct{}
	handler     ChampSelectHandler
}

// NewWebSocketClient creates a new WebSocket client
func NewWebSocketClient(logger *zap.Logger) *WebSocketClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketClient{logger: logger.Named("lcu-ws")}
}

// SetChampSelectHandler sets the callback for champ select events
func (w *WebSocketClient) SetChampSelectHandler(handler ChampSelectHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = handler
}

// Connect dials the client's event socket and subscribes to champ select
func (w *WebSocketClient) Connect(creds *Credentials) error {
	scheme := "wss"
	if creds.Protocol == "http" {
		scheme = "ws"
	}
	return w.ConnectURL(fmt.Sprintf("%s://127.0.0.1:%s", scheme, creds.Port), creds.AuthHeader())
}

// ConnectURL dials an explicit URL with the given Authorization header
func (w *WebSocketClient) ConnectURL(url, authHeader string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isConnected {
		return nil
	}

	dialer := websocket.Dialer{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}
	header := http.Header{}
	header.Set("Authorization", authHeader)

	conn, _, err := dialer.Dial(url, header)
	if err != nil {
		return fmt.Errorf("failed to connect to LCU WebSocket: %w", err)
	}

	if err := conn.WriteJSON([]any{EventTypeSubscribe, champSelectEvent}); err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to champ select: %w", err)
	}

	w.conn = conn
	w.isConnected = true
	w.done = make(chan struct{})
	go w.listen(conn, w.done)

	w.logger.Info("WebSocket connected, listening for champ select")
	return nil
}

// listen reads messages until the connection fails or is closed
func (w *WebSocketClient) listen(conn *websocket.Conn, done chan struct{}) {
	defer func() {
		w.mu.Lock()
		if w.conn == conn {
			w.conn = nil
			w.isConnected = false
		}
		w.mu.Unlock()
		conn.Close()
		close(done)
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			w.logger.Debug("WebSocket read ended", zap.Error(err))
			return
		}
		w.handleMessage(message)
	}
}

// handleMessage processes one [type, event, payload] frame
func (w *WebSocketClient) handleMessage(data []byte) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) < 3 {
		return
	}

	var eventType EventType
	if err := json.Unmarshal(raw[0], &eventType); err != nil || eventType != EventTypeEvent {
		return
	}

	var eventName string
	if err := json.Unmarshal(raw[1], &eventName); err != nil || eventName != champSelectEvent {
		return
	}

	w.handleChampSelectEvent(raw[2])
}

// handleChampSelectEvent processes champ select events
func (w *WebSocketClient) handleChampSelectEvent(payload json.RawMessage) {
	var eventData struct {
		EventType string          `json:"eventType"`
		URI       string          `json:"uri"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &eventData); err != nil {
		return
	}

	w.mu.Lock()
	handler := w.handler
	w.mu.Unlock()
	if handler == nil {
		return
	}

	switch eventData.EventType {
	case "Create", "Update":
		var session ChampSelectSession
		if err := json.Unmarshal(eventData.Data, &session); err != nil {
			w.logger.Warn("Failed to parse champ select session", zap.Error(err))
			return
		}
		w.logger.Debug("Champ select update",
			zap.Int("localCell", session.LocalPlayerCellID),
			zap.Int("myTeam", len(session.MyTeam)))
		handler(&session, true)
	case "Delete":
		handler(nil, false)
	}
}

// Disconnect closes the WebSocket connection and waits for the reader to exit
func (w *WebSocketClient) Disconnect() {
	w.mu.Lock()
	conn, done := w.conn, w.done
	w.conn = nil
	w.isConnected = false
	w.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if done != nil {
		<-done
	}
}

// IsConnected returns whether the WebSocket is connected
func (w *WebSocketClient) IsConnected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isConnected
}
