package config

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader       websocket.Upgrader
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
}

func NewWebSocket() (*WebSocket, error) {
	pongWait, err := durationOr("WS_PONG_WAIT", time.Minute)
	if err != nil {
		return nil, err
	}
	maxMessageSize, err := intOr("WS_MAX_MESSAGE_SIZE", 64*1024)
	if err != nil {
		return nil, err
	}

	ws := &WebSocket{
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		WriteWait:      10 * time.Second,
		PongWait:       pongWait,
		PingPeriod:     pongWait * 9 / 10,
		MaxMessageSize: int64(maxMessageSize),
	}
	return ws, nil
}
