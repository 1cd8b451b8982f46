// internal/api/websocket.go
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketConnection is the part of *websocket.Conn the stream uses.
type WebSocketConnection interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
}

// WebSocketClient is one subscriber of a task's progress stream.
// Only the stream goroutine writes; readLoop only reads.
type WebSocketClient struct {
	conn      WebSocketConnection
	taskID    string
	closed    chan struct{}
	closeOnce sync.Once
	createdAt time.Time
}

func newWebSocketClient(conn WebSocketConnection, taskID string) *WebSocketClient {
	return &WebSocketClient{
		conn:      conn,
		taskID:    taskID,
		closed:    make(chan struct{}),
		createdAt: time.Now(),
	}
}

// Close closes the connection once.
func (client *WebSocketClient) Close() {
	client.closeOnce.Do(func() {
		close(client.closed)
		client.conn.Close()
	})
}

// Closed is done once the peer went away or Close was called.
func (client *WebSocketClient) Closed() <-chan struct{} {
	return client.closed
}

// readLoop drains client frames so pongs and close frames are processed.
func (client *WebSocketClient) readLoop() {
	defer client.Close()

	client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// send writes one JSON message.
func (client *WebSocketClient) send(v interface{}) error {
	client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return client.conn.WriteJSON(v)
}

// ping keeps the connection alive through proxies.
func (client *WebSocketClient) ping() error {
	client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return client.conn.WriteMessage(websocket.PingMessage, nil)
}

// closeNormally sends a close frame before the connection is torn down.
func (client *WebSocketClient) closeNormally(reason string) {
	client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	client.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
}
