// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage wraps a pushed job snapshot.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// WebSocket GET /api/v1/ws
//
// Subscribers receive the current snapshot on connect, then every
// snapshot delta until they disconnect. They never have to re-poll.
func (h *Handler) WebSocket(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		errResp(c, http.StatusBadRequest, "WebSocket upgrade failed", err.Error())
		return
	}
	defer conn.Close()

	updates := h.orch.Subscribe()
	defer h.orch.Unsubscribe(updates)

	// 客户端不发有效消息,读循环只用于感知断开
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			msg := WSMessage{
				Type:      "conversion_progress",
				Data:      snapshot,
				Timestamp: time.Now().Unix(),
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}
