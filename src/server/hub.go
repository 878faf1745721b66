package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"stock-trend/src/metrics"
	"stock-trend/src/models"
)

// Session message types.
const (
	MessageReport = "REPORT"
	MessageError  = "ERROR"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop. It owns the clients map.
func (s *DashboardServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.sessions.Add(1)
			metrics.Sessions.Inc()

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.sessions.Add(-1)
				metrics.Sessions.Dec()
			}

		case <-s.quit:
			for client := range s.clients {
				client.cancel()
				client.conn.Close()
			}
			return
		}
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	// The session outlives the upgrade request, so it gets its own context.
	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		hub:    s,
		conn:   conn,
		send:   make(chan *models.MSessionMessage, 16),
		ctx:    ctx,
		cancel: cancel,
	}

	select {
	case s.register <- client:
	case <-s.quit:
		cancel()
		conn.Close()
		return
	}

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage runs on the client's read goroutine, so one session's requests
// are processed strictly in order.
func (s *DashboardServer) HandleClientMessage(client *Client, message []byte) {
	// A failing command must not take down the read pump
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("Panic while handling client command: %v", r)
			client.deliver(&models.MSessionMessage{Type: MessageError, Error: fmt.Sprintf("internal error: %v", r)})
		}
	}()

	var cmd models.MSessionCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	switch strings.ToLower(cmd.Command) {
	case "predict":
		ticker := strings.TrimSpace(cmd.Ticker)
		report, err := s.Runner.Run(client.ctx, ticker)
		if err != nil {
			client.deliver(&models.MSessionMessage{Type: MessageError, Ticker: ticker, Error: err.Error()})
			return
		}
		client.deliver(&models.MSessionMessage{Type: MessageReport, Ticker: report.Ticker, Report: report})

	default:
		client.deliver(&models.MSessionMessage{Type: MessageError, Error: "unknown command " + cmd.Command})
	}
}
