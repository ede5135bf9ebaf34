package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/plc-visualizer/strintern/internal/models"
)

// WebSocket message types for the feed protocol
const (
	// Client -> Server messages
	MsgTypePing = "ping"

	// Server -> Client messages
	MsgTypeConnected = "connected"
	MsgTypeSnapshot  = "snapshot"
	MsgTypeEntry     = "entry"
	MsgTypeClosed    = "closed"
	MsgTypeError     = "error"
	MsgTypePong      = "pong"
)

// WebSocket message structure
type WSMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WebSocket error response
type WSErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WSConnectedPayload describes the registry a feed is attached to
type WSConnectedPayload struct {
	Instance string `json:"instance"`
	Hasher   string `json:"hasher"`
	Entries  int    `json:"entries"`
}

// WebSocketHandler streams newly interned entries to connected clients
type WebSocketHandler struct {
	source   RegistrySource
	buffer   int
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

// NewWebSocketHandler creates a feed handler. buffer is the per-client
// backlog; entries beyond it are dropped and counted by the registry.
func NewWebSocketHandler(source RegistrySource, buffer int, logger *logrus.Logger) *WebSocketHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &WebSocketHandler{
		source: source,
		buffer: buffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
		},
		log: logger.WithField("component", "feed"),
	}
}

// feedConn serializes writes; gorilla allows one concurrent writer.
type feedConn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (fc *feedConn) send(msgType string, payload interface{}) error {
	msg := WSMessage{Type: msgType, Timestamp: time.Now().UnixMilli()}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		msg.Payload = data
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.ws.WriteJSON(msg)
}

// HandleFeed upgrades the connection and streams entries until the client
// leaves or the registry is torn down. ?snapshot=true sends the current
// table first.
func (wsh *WebSocketHandler) HandleFeed(c echo.Context) error {
	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	fc := &feedConn{ws: ws}

	r := wsh.source()
	entries, cancel := r.Subscribe(wsh.buffer)
	defer cancel()

	wsh.log.WithField("remote", c.RealIP()).Info("client connected")

	if err := fc.send(MsgTypeConnected, WSConnectedPayload{
		Instance: r.InstanceID().String(),
		Hasher:   r.HasherName(),
		Entries:  r.Len(),
	}); err != nil {
		ws.Close()
		return nil
	}

	if c.QueryParam("snapshot") == "true" {
		if err := fc.send(MsgTypeSnapshot, models.NewSnapshot(r)); err != nil {
			ws.Close()
			return nil
		}
	}

	readerDone := make(chan struct{})
	go wsh.readLoop(fc, readerDone)

loop:
	for {
		select {
		case e, ok := <-entries:
			if !ok {
				fc.send(MsgTypeClosed, nil)
				break loop
			}
			if err := fc.send(MsgTypeEntry, models.NewEntryView(e)); err != nil {
				wsh.log.WithError(err).Debug("send failed")
				break loop
			}
		case <-readerDone:
			break loop
		}
	}

	ws.Close()
	<-readerDone
	wsh.log.Info("client disconnected")
	return nil
}

// readLoop answers pings and exits when the connection fails.
func (wsh *WebSocketHandler) readLoop(fc *feedConn, done chan<- struct{}) {
	defer close(done)
	for {
		var msg WSMessage
		if err := fc.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsh.log.WithError(err).Debug("connection error")
			}
			return
		}

		switch msg.Type {
		case MsgTypePing:
			fc.send(MsgTypePong, nil)
		default:
			fc.send(MsgTypeError, WSErrorResponse{
				Message: "Unknown message type: " + msg.Type,
				Code:    "INVALID_TYPE",
			})
		}
	}
}
