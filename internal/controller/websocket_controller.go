package controller

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/benbeisheim/chess-backend/internal/chess"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{gameService: gameService}
}

// HandleGameConnection runs the read loop for one game socket. State
// pushes go out through the game's broadcast, so the loop only reads.
func (wsc *WebSocketController) HandleGameConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Printf("ws game %s: failed to register %s: %v", gameID, playerID, err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("ws game %s: parse error from %s: %v", gameID, playerID, err)
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			wsc.sendError(c, err.Error())
		}
	}
}

// HandleMatchmakingConnection parks the socket until the pairing loop
// finds a match, then pushes a matchFound message and hangs up. A client
// closing early is pulled back out of the queue.
func (wsc *WebSocketController) HandleMatchmakingConnection(c *websocket.Conn) {
	playerID := c.Locals("playerID").(string)

	found := make(chan model.MatchFoundEvent, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, found)

	// Reads only surface the disconnect; clients send nothing here.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-found:
		if !ok {
			return
		}
		payload, err := json.Marshal(event)
		if err != nil {
			log.Printf("ws matchmaking: failed to marshal event for %s: %v", playerID, err)
			return
		}
		if err := c.WriteJSON(ws.Message{
			Type:    ws.MessageTypeMatchFound,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Printf("ws matchmaking: failed to notify %s: %v", playerID, err)
		}
		c.Close()
		<-closed
	case <-closed:
		wsc.gameService.LeaveMatchmaking(playerID)
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move chess.Move
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("malformed move payload: %w", err)
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypeSelect:
		var square chess.Square
		if err := json.Unmarshal(msg.Payload, &square); err != nil {
			return fmt.Errorf("malformed select payload: %w", err)
		}
		return wsc.gameService.HandleSelect(gameID, playerID, square)

	case ws.MessageTypeResign:
		return wsc.gameService.HandleResign(gameID, playerID)

	case ws.MessageTypeRestart:
		return wsc.gameService.HandleRestart(gameID, playerID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(c *websocket.Conn, errorMsg string) {
	payload, err := json.Marshal(errorMsg)
	if err != nil {
		return
	}
	if err := c.WriteJSON(ws.Message{
		Type:    ws.MessageTypeError,
		Payload: json.RawMessage(payload),
	}); err != nil {
		log.Printf("ws: failed to send error: %v", err)
	}
}
