package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"unilink/backend/internal/alert"
)

const (
	alertWriteWait = 10 * time.Second
	alertPingWait  = 54 * time.Second
)

var alertUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 跨域校验由 CORS 中间件在握手前完成
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AlertHandler 实时提醒 WebSocket 处理器
//
// 每条连接持有一个独立的 Bridge：按当前用户过滤事件流，
// 连接断开时随 Bridge 一并回收订阅。
type AlertHandler struct {
	feed   alert.Feed
	logger *zap.Logger
}

// NewAlertHandler 创建 AlertHandler
func NewAlertHandler(feed alert.Feed, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{feed: feed, logger: logger}
}

// Stream 建立实时提醒推送连接
// GET /api/v1/ws/alerts
func (h *AlertHandler) Stream(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	conn, err := alertUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket 升级失败", zap.Error(err))
		return
	}
	defer conn.Close()

	bridge := alert.NewBridge(h.feed, userID, role, h.logger)
	defer bridge.Close()

	// 读泵只负责感知断连，客户端消息被丢弃
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(alertPingWait)
	defer ticker.Stop()

	for {
		select {
		case a, ok := <-bridge.Alerts():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(alertWriteWait))
			if err := conn.WriteJSON(a); err != nil {
				h.logger.Debug("推送提醒失败，关闭连接",
					zap.String("user_id", userID), zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(alertWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
