package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/sexpad/foundation/core/error"
	"github.com/msto63/sexpad/internal/scratchpad/service"
	"github.com/msto63/sexpad/pkg/core/logging"
)

const (
	wsReadTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// WebSocketHandler serves the live parse channel used by the editor page
type WebSocketHandler struct {
	service  *service.Service
	logger   *logging.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler. An empty
// allowedOrigins list accepts every origin.
func NewWebSocketHandler(svc *service.Service, allowedOrigins []string, logger *logging.Logger) *WebSocketHandler {
	if logger == nil {
		logger = logging.New("scratchpad-ws")
	}
	return &WebSocketHandler{
		service: svc,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// WSMessage represents an incoming WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`    // "parse", "format", "ping"
	Payload json.RawMessage `json:"payload"` // Message-specific payload
}

// WSResponse represents an outgoing WebSocket message
type WSResponse struct {
	Type    string      `json:"type"`    // "result", "formatted", "error", "pong"
	Payload interface{} `json:"payload"` // Response-specific payload
}

// WSErrorPayload describes a rejected message or source text
type WSErrorPayload struct {
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	h.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	conn.SetReadLimit(maxBodyBytes)
	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", "error", err)
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		switch msg.Type {
		case "ping":
			h.send(conn, WSResponse{Type: "pong"})
		case "parse":
			h.handleParse(ctx, conn, msg.Payload)
		case "format":
			h.handleFormat(conn, msg.Payload)
		default:
			h.sendError(conn, WSErrorPayload{Code: "unknown_type", Message: "Unknown message type: " + msg.Type})
		}
	}
}

func (h *WebSocketHandler) handleParse(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) {
	var req ParseRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(conn, WSErrorPayload{Code: "invalid_payload", Message: "Invalid parse payload"})
		return
	}

	result, err := h.service.Submit(ctx, req.Source)
	if err != nil {
		h.sendError(conn, WSErrorPayload{Code: string(mdwerror.GetCode(err)), Message: err.Error()})
		return
	}

	if pe := result.Error; pe != nil {
		h.sendError(conn, WSErrorPayload{
			ID:      result.ID,
			Code:    pe.Kind.Code().String(),
			Message: pe.Error(),
			Line:    pe.Span.Line,
			Column:  pe.Span.Column,
		})
		return
	}

	h.send(conn, WSResponse{Type: "result", Payload: result})
}

func (h *WebSocketHandler) handleFormat(conn *websocket.Conn, raw json.RawMessage) {
	var req ParseRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(conn, WSErrorPayload{Code: "invalid_payload", Message: "Invalid format payload"})
		return
	}

	text, err := h.service.FormatSource(req.Source)
	if err != nil {
		payload := WSErrorPayload{Code: string(mdwerror.GetCode(err)), Message: err.Error()}
		if mdwErr, ok := mdwerror.As(err); ok {
			payload.Line, _ = mdwErr.Details()["line"].(int)
			payload.Column, _ = mdwErr.Details()["column"].(int)
		}
		h.sendError(conn, payload)
		return
	}

	h.send(conn, WSResponse{Type: "formatted", Payload: FormatResponse{Text: text}})
}

func (h *WebSocketHandler) send(conn *websocket.Conn, resp WSResponse) {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Error("WebSocket send error", "error", err)
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, payload WSErrorPayload) {
	h.send(conn, WSResponse{Type: "error", Payload: payload})
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		set[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}
