// Package ws serves the chat over a websocket. Each text frame carries one
// user message and is answered by exactly one reply frame, in order.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"etegie-bot/backend/internal/api"
	"etegie-bot/backend/internal/service"
	"etegie-bot/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// Chatter is satisfied by *service.ChatService
type Chatter interface {
	Chat(ctx context.Context, in service.ChatInput) (*service.ChatOutput, error)
}

// InboundFrame is one user message
type InboundFrame struct {
	Message   string `json:"message"`
	CompanyID string `json:"companyId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// FrameError mirrors the HTTP error envelope body
type FrameError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OutboundFrame is either a reply or an error
type OutboundFrame struct {
	Type string `json:"type"`
	*service.ChatOutput
	Error *FrameError `json:"error,omitempty"`
}

// Client is one websocket connection
type Client struct {
	ID        string
	conn      *websocket.Conn
	send      chan []byte
	hub       *Hub
	companyID string
	sessionID string
	log       *logger.Logger
}

// Handler upgrades chat connections
type Handler struct {
	chat     Chatter
	hub      *Hub
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket chat handler. An empty allowedOrigins list
// or one containing "*" accepts any origin.
func NewHandler(chat Chatter, hub *Hub, allowedOrigins []string, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.GetGlobal()
	}
	anyOrigin := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")

	return &Handler{
		chat:   chat,
		hub:    hub,
		logger: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || slices.Contains(allowedOrigins, origin)
			},
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	}
}

// Serve upgrades the request. ?companyId and ?sessionId seed the defaults
// used when a frame omits them.
func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.FromGin(c).Warn("Error upgrading connection", "error", err.Error())
		return
	}

	client := &Client{
		ID:        uuid.NewString(),
		conn:      conn,
		send:      make(chan []byte, 16),
		hub:       h.hub,
		companyID: c.Query("companyId"),
		sessionID: c.Query("sessionId"),
	}
	client.log = h.logger.WithCompanyID(client.companyID).WithFields("client_id", client.ID)

	h.hub.add(client)
	client.log.Info("WebSocket connection established")

	go client.writePump()
	// the request context ends with the hijacked handler, so replies use their own
	go h.readPump(context.WithoutCancel(c.Request.Context()), client)
}

func (h *Handler) readPump(ctx context.Context, c *Client) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		c.hub.remove(c)
		close(c.send)
		c.conn.Close()
		c.log.Info("WebSocket connection closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Unexpected websocket close", "error", err.Error())
			}
			return
		}

		var in InboundFrame
		if err := json.Unmarshal(data, &in); err != nil {
			c.queue(OutboundFrame{Type: "error", Error: &FrameError{Code: "INVALID_REQUEST", Message: "Frame is not valid JSON"}})
			continue
		}

		c.queue(h.answer(ctx, c, in))
	}
}

// answer resolves one frame. The connection remembers the last session id so
// clients may omit it after the first reply.
func (h *Handler) answer(ctx context.Context, c *Client, in InboundFrame) OutboundFrame {
	if in.CompanyID == "" {
		in.CompanyID = c.companyID
	}
	if in.SessionID == "" {
		in.SessionID = c.sessionID
	}

	out, err := h.chat.Chat(ctx, service.ChatInput{
		Message:   in.Message,
		CompanyID: in.CompanyID,
		SessionID: in.SessionID,
		Channel:   "websocket",
	})
	if err != nil {
		appErr := api.ToAppError(err)
		if appErr.StatusCode >= http.StatusInternalServerError {
			c.log.LogError(err, "websocket chat failed")
		}
		return OutboundFrame{Type: "error", Error: &FrameError{Code: appErr.Code, Message: appErr.Message}}
	}

	c.sessionID = out.SessionID
	return OutboundFrame{Type: "reply", ChatOutput: out}
}

func (c *Client) queue(frame OutboundFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		c.log.LogError(err, "Error marshaling frame")
		return
	}
	c.send <- data
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The read loop has finished.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
